package retrieval

// QueryType is the closed set of retrieval intentions the classifier may
// choose from. Anything else degrades to a no-result outcome.
type QueryType string

const (
	QueryByName          QueryType = "BY_NAME"
	QueryByBrand         QueryType = "BY_BRAND"
	QuerySimilarFlavor   QueryType = "SIMILAR_FLAVOR"
	QuerySameOrigin      QueryType = "SAME_ORIGIN"
	QuerySameRoast       QueryType = "SAME_ROAST"
	QuerySameProcess     QueryType = "SAME_PROCESS"
	QueryMoreCategory    QueryType = "MORE_OF_CATEGORY"
	QueryLessCategory    QueryType = "LESS_OF_CATEGORY"
	QueryMoreAxis        QueryType = "MORE_OF_AXIS"
	QueryLessAxis        QueryType = "LESS_OF_AXIS"
	QuerySimilarProfile  QueryType = "SIMILAR_PROFILE"
	QueryComposite       QueryType = "COMPOSITE"
	QueryOriginCategory  QueryType = "SAME_ORIGIN_CATEGORY"
	QueryOriginDiffRoast QueryType = "SAME_ORIGIN_DIFF_ROAST"
)

// AllQueryTypes lists every recognized query type, in prompt order.
var AllQueryTypes = []QueryType{
	QueryByName,
	QueryByBrand,
	QuerySimilarFlavor,
	QuerySameOrigin,
	QuerySameRoast,
	QuerySameProcess,
	QueryMoreCategory,
	QueryLessCategory,
	QueryMoreAxis,
	QueryLessAxis,
	QuerySimilarProfile,
	QueryComposite,
	QueryOriginCategory,
	QueryOriginDiffRoast,
}

func (q QueryType) Valid() bool {
	for _, known := range AllQueryTypes {
		if q == known {
			return true
		}
	}
	return false
}

// Filters narrows a retrieval. Zero values mean "not set".
type Filters struct {
	Origin         string   `json:"origin,omitempty"`
	Process        string   `json:"process,omitempty"`
	RoastLevel     string   `json:"roastLevel,omitempty"`
	FlavorCategory string   `json:"flavorCategory,omitempty"`
	CharacterAxis  string   `json:"characterAxis,omitempty"`
	ProductName    string   `json:"productName,omitempty"`
	BrandName      string   `json:"brandName,omitempty"`
	MinPrice       *float64 `json:"minPrice,omitempty"`
	MaxPrice       *float64 `json:"maxPrice,omitempty"`
}

// SuggestedAction is a follow-up the UI can offer the user.
type SuggestedAction struct {
	Label  string `json:"label"`
	Intent string `json:"intent"`
	Icon   string `json:"icon,omitempty"`
}

// Plan is the classifier's decision record. It is constructed once per
// request and never mutated afterwards.
type Plan struct {
	QueryType        QueryType         `json:"queryType"`
	Filters          Filters           `json:"filters"`
	Response         string            `json:"response"`
	SuggestedActions []SuggestedAction `json:"suggestedActions,omitempty"`
}

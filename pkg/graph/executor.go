package graph

import (
	"context"

	"github.com/katnyeung/beans-finder-sub000/internal/model"
)

// QueryType enumerates the traversal queries the catalog graph answers.
// One retrieval tier maps to exactly one query type.
type QueryType string

const (
	// Relative to a reference product
	QueryTastingNoteOverlap QueryType = "TASTING_NOTE_OVERLAP" // shares at least one tasting note
	QueryAttributeOverlap   QueryType = "ATTRIBUTE_OVERLAP"    // shares origin, process or roast
	QuerySubcategoryOverlap QueryType = "SUBCATEGORY_OVERLAP"  // shares a tasting-note category
	QueryProfileSimilarity  QueryType = "PROFILE_SIMILARITY"   // cosine over the 9-dim flavor profile
	QueryCategoryVector     QueryType = "CATEGORY_VECTOR"      // flavor profile shifted on one category dim
	QueryAxisVector         QueryType = "AXIS_VECTOR"          // character profile shifted on one axis dim
	QueryNoteOverlapAxis    QueryType = "NOTE_OVERLAP_AXIS"    // tasting-note overlap combined with an axis shift

	// Direct lookups
	QueryFlavorKeyword  QueryType = "FLAVOR_KEYWORD"  // note text matches the category's keyword hierarchy
	QueryCategoryMember QueryType = "CATEGORY_MEMBER" // any note tagged with the category
	QueryByOrigin       QueryType = "BY_ORIGIN"
	QueryByRoast        QueryType = "BY_ROAST"
	QueryByProcess      QueryType = "BY_PROCESS"
	QueryByName         QueryType = "BY_NAME"
	QueryByBrand        QueryType = "BY_BRAND"
)

// Params carries the per-query arguments. Only the fields a query type
// needs are read; the rest are ignored.
type Params struct {
	ReferenceID    string
	Origin         string
	Process        string
	RoastLevel     string
	FlavorCategory string
	CategoryIndex  int // 0-8 into the flavor profile
	AxisIndex      int // 0-3 into the character profile
	Direction      int // +1 more, -1 less (vector-shift queries)
	NameSubstring  string
	BrandName      string
}

// Stats summarizes the graph neighborhood of a reference product, used to
// ground the intent-classification prompt.
type Stats struct {
	SameOriginCount    int64
	SameRoastCount     int64
	SameProcessCount   int64
	SimilarFlavorCount int64
	Origins            []string
	Processes          []string
}

// Executor is the catalog graph collaborator. Implementations must be
// idempotent and side-effect free from the pipeline's point of view.
type Executor interface {
	// Execute runs one traversal query and returns at most limit products.
	Execute(ctx context.Context, queryType QueryType, params Params, limit int) ([]model.Product, error)

	// Product fetches a single catalog item by id; nil when absent.
	Product(ctx context.Context, id string) (*model.Product, error)
}

// StatsSource provides graph statistics for prompt grounding.
// referenceID may be empty, in which case only value lists are populated.
type StatsSource interface {
	Stats(ctx context.Context, referenceID string) (*Stats, error)
}

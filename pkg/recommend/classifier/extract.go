package classifier

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/katnyeung/beans-finder-sub000/pkg/recommend/retrieval"
)

// extractPlan pulls the JSON object out of the model response and validates
// it. Models occasionally wrap the object in prose or code fences even when
// asked not to, so parsing starts at the first brace and ends at the last.
func extractPlan(response string) (*retrieval.Plan, error) {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object in response", ErrMalformedPlan)
	}

	var plan retrieval.Plan
	if err := json.Unmarshal([]byte(response[start:end+1]), &plan); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPlan, err)
	}

	plan.QueryType = retrieval.QueryType(strings.ToUpper(strings.TrimSpace(string(plan.QueryType))))
	if !plan.QueryType.Valid() {
		return nil, fmt.Errorf("%w: unknown query type %q", ErrMalformedPlan, plan.QueryType)
	}

	return &plan, nil
}

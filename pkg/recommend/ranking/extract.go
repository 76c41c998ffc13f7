package ranking

import (
	"encoding/json"
	"fmt"
	"strings"
)

type pick struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

func extractPicks(response string) ([]pick, error) {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object in response", ErrMalformedRanking)
	}

	var parsed struct {
		Products []pick `json:"products"`
	}
	if err := json.Unmarshal([]byte(response[start:end+1]), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRanking, err)
	}
	if len(parsed.Products) == 0 {
		return nil, fmt.Errorf("%w: empty product list", ErrMalformedRanking)
	}
	return parsed.Products, nil
}

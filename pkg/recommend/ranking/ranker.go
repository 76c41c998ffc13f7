package ranking

import (
	"context"
	"fmt"
	"log"

	"github.com/katnyeung/beans-finder-sub000/internal/model"
	"github.com/katnyeung/beans-finder-sub000/pkg/llm"
)

// Ranked is one candidate ordered by the reasoning service, carrying the
// user-facing explanation of why it fits the query.
type Ranked struct {
	Product model.Product
	Reason  string
}

// Ranker orders a shaped candidate list and explains each pick. It only
// selects from the candidates it was given; ids the model invents are
// dropped during resolution.
type Ranker struct {
	provider llm.LLMProvider
	composer *promptComposer
	logger   *log.Logger
}

func NewRanker(provider llm.LLMProvider, logger *log.Logger) *Ranker {
	return &Ranker{
		provider: provider,
		composer: newPromptComposer(),
		logger:   logger,
	}
}

// Rank asks the reasoning service to order candidates against the query,
// grounded on the optional reference product and recent conversation turns.
// An empty candidate list short-circuits without spending a call. Errors
// propagate; the caller decides whether to degrade to the unranked list.
func (r *Ranker) Rank(ctx context.Context, query string, ref *model.Product, history []llm.Message, candidates []model.Product) ([]Ranked, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	prompt := r.composer.compose(query, ref, history, candidates)
	response, err := r.provider.Generate(ctx, prompt,
		llm.WithTemperature(0.2),
		llm.WithJSONObject(),
	)
	if err != nil {
		return nil, fmt.Errorf("ranking call: %w", err)
	}

	picks, err := extractPicks(response)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]model.Product, len(candidates))
	for _, p := range candidates {
		byID[p.Id.String()] = p
	}

	ranked := make([]Ranked, 0, len(picks))
	seen := make(map[string]bool, len(picks))
	for _, pick := range picks {
		product, ok := byID[pick.ID]
		if !ok {
			r.logger.Printf("[RANKING] dropping invented id %q", pick.ID)
			continue
		}
		if seen[pick.ID] {
			continue
		}
		seen[pick.ID] = true
		ranked = append(ranked, Ranked{Product: product, Reason: pick.Reason})
	}
	if len(ranked) == 0 {
		return nil, fmt.Errorf("%w: no usable ids in ranking response", ErrMalformedRanking)
	}
	return ranked, nil
}

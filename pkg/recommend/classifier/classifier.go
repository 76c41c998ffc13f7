package classifier

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/katnyeung/beans-finder-sub000/internal/model"
	"github.com/katnyeung/beans-finder-sub000/pkg/graph"
	"github.com/katnyeung/beans-finder-sub000/pkg/llm"
	"github.com/katnyeung/beans-finder-sub000/pkg/recommend/retrieval"
)

// ErrMalformedPlan means the reasoning service answered, but with content
// that cannot be turned into a usable plan. Transport failures keep their
// llm.ErrTransport identity instead.
var ErrMalformedPlan = errors.New("classifier returned an unusable plan")

// Classifier turns a free-text query into a retrieval plan through one
// reasoning-service call. There is no keyword fallback: when the call
// fails the whole request is aborted, never silently re-routed.
type Classifier struct {
	provider    llm.LLMProvider
	statsSource graph.StatsSource
	composer    *promptComposer
	logger      *log.Logger
}

func NewClassifier(provider llm.LLMProvider, statsSource graph.StatsSource, logger *log.Logger) *Classifier {
	return &Classifier{
		provider:    provider,
		statsSource: statsSource,
		composer:    newPromptComposer(),
		logger:      logger,
	}
}

// Classify interprets the user query in the context of an optional
// reference product and recent conversation turns.
func (c *Classifier) Classify(ctx context.Context, query string, ref *model.Product, history []llm.Message) (*retrieval.Plan, error) {
	var stats *graph.Stats
	if c.statsSource != nil {
		referenceID := ""
		if ref != nil {
			referenceID = ref.Id.String()
		}
		s, err := c.statsSource.Stats(ctx, referenceID)
		if err != nil {
			// Stats only ground the prompt; classification can proceed without them
			c.logger.Printf("[CLASSIFIER] graph stats unavailable: %v", err)
		} else {
			stats = s
		}
	}

	prompt := c.composer.compose(query, ref, stats, history)

	response, err := c.provider.Generate(ctx, prompt,
		llm.WithTemperature(0.1),
		llm.WithJSONObject(),
	)
	if err != nil {
		return nil, fmt.Errorf("intent classification call: %w", err)
	}

	plan, err := extractPlan(response)
	if err != nil {
		c.logger.Printf("[CLASSIFIER] unusable response: %v", err)
		return nil, err
	}

	c.logger.Printf("[CLASSIFIER] query %q classified as %s", query, plan.QueryType)
	return plan, nil
}

package classifier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"testing"

	"github.com/katnyeung/beans-finder-sub000/pkg/graph"
	"github.com/katnyeung/beans-finder-sub000/pkg/llm"
	"github.com/katnyeung/beans-finder-sub000/pkg/recommend/retrieval"
)

type scriptedProvider struct {
	response string
	err      error
}

func (p *scriptedProvider) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	return p.response, p.err
}

func (p *scriptedProvider) Generate(_ context.Context, _ string, _ ...llm.Option) (string, error) {
	return p.response, p.err
}

type failingStats struct{}

func (failingStats) Stats(_ context.Context, _ string) (*graph.Stats, error) {
	return nil, errors.New("db down")
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestClassifyReturnsPlan(t *testing.T) {
	provider := &scriptedProvider{response: `{"queryType": "SAME_ORIGIN", "filters": {"origin": "Ethiopia"}, "response": "ok"}`}
	c := NewClassifier(provider, nil, testLogger())

	plan, err := c.Classify(context.Background(), "more from Ethiopia", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if plan.QueryType != retrieval.QuerySameOrigin {
		t.Errorf("QueryType = %s, want SAME_ORIGIN", plan.QueryType)
	}
	if plan.Filters.Origin != "Ethiopia" {
		t.Errorf("Origin = %q, want Ethiopia", plan.Filters.Origin)
	}
}

func TestClassifyPropagatesTransportFailure(t *testing.T) {
	provider := &scriptedProvider{err: fmt.Errorf("%w: connection refused", llm.ErrTransport)}
	c := NewClassifier(provider, nil, testLogger())

	_, err := c.Classify(context.Background(), "query", nil, nil)
	if !errors.Is(err, llm.ErrTransport) {
		t.Fatalf("expected transport failure to keep its identity, got %v", err)
	}
}

func TestClassifyMarksUnusableResponses(t *testing.T) {
	provider := &scriptedProvider{response: "have you tried a nice Kenyan?"}
	c := NewClassifier(provider, nil, testLogger())

	_, err := c.Classify(context.Background(), "query", nil, nil)
	if !errors.Is(err, ErrMalformedPlan) {
		t.Fatalf("expected ErrMalformedPlan, got %v", err)
	}
}

func TestClassifySurvivesStatsFailure(t *testing.T) {
	provider := &scriptedProvider{response: `{"queryType": "SIMILAR_PROFILE", "filters": {}}`}
	c := NewClassifier(provider, failingStats{}, testLogger())

	plan, err := c.Classify(context.Background(), "query", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if plan.QueryType != retrieval.QuerySimilarProfile {
		t.Errorf("QueryType = %s, want SIMILAR_PROFILE", plan.QueryType)
	}
}

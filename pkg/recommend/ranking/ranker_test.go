package ranking

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/katnyeung/beans-finder-sub000/internal/model"
	"github.com/katnyeung/beans-finder-sub000/pkg/llm"
)

type scriptedProvider struct {
	response string
	err      error
	calls    int
	prompts  []string
}

func (p *scriptedProvider) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	p.calls++
	return p.response, p.err
}

func (p *scriptedProvider) Generate(_ context.Context, prompt string, _ ...llm.Option) (string, error) {
	p.calls++
	p.prompts = append(p.prompts, prompt)
	return p.response, p.err
}

func testRanker(p *scriptedProvider) *Ranker {
	return NewRanker(p, log.New(io.Discard, "", 0))
}

func candidate(name string) model.Product {
	return model.Product{Id: uuid.New(), Name: name}
}

func TestRankEmptyCandidatesSkipsTheCall(t *testing.T) {
	provider := &scriptedProvider{}
	ranked, err := testRanker(provider).Rank(context.Background(), "query", nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if ranked != nil {
		t.Errorf("expected nil result, got %v", ranked)
	}
	if provider.calls != 0 {
		t.Errorf("expected no reasoning call for empty candidates, got %d", provider.calls)
	}
}

func TestRankOrdersAndExplains(t *testing.T) {
	a := candidate("a")
	b := candidate("b")
	provider := &scriptedProvider{
		response: fmt.Sprintf(`{"products": [{"id": %q, "reason": "best fit"}, {"id": %q, "reason": "solid backup"}]}`, b.Id, a.Id),
	}

	ranked, err := testRanker(provider).Rank(context.Background(), "query", nil, nil, []model.Product{a, b})
	if err != nil {
		t.Fatal(err)
	}
	if len(ranked) != 2 {
		t.Fatalf("got %d ranked, want 2", len(ranked))
	}
	if ranked[0].Product.Id != b.Id || ranked[0].Reason != "best fit" {
		t.Errorf("first pick wrong: %+v", ranked[0])
	}
	if ranked[1].Product.Id != a.Id {
		t.Errorf("second pick wrong: %+v", ranked[1])
	}
}

func TestRankDropsInventedAndDuplicateIDs(t *testing.T) {
	a := candidate("a")
	provider := &scriptedProvider{
		response: fmt.Sprintf(`{"products": [
			{"id": %q, "reason": "real"},
			{"id": "11111111-2222-3333-4444-555555555555", "reason": "invented"},
			{"id": %q, "reason": "repeat"}
		]}`, a.Id, a.Id),
	}

	ranked, err := testRanker(provider).Rank(context.Background(), "query", nil, nil, []model.Product{a})
	if err != nil {
		t.Fatal(err)
	}
	if len(ranked) != 1 || ranked[0].Product.Id != a.Id {
		t.Fatalf("expected exactly the real candidate once, got %v", ranked)
	}
}

func TestRankOnlyInventedIDsIsAnError(t *testing.T) {
	a := candidate("a")
	provider := &scriptedProvider{
		response: `{"products": [{"id": "11111111-2222-3333-4444-555555555555", "reason": "invented"}]}`,
	}

	_, err := testRanker(provider).Rank(context.Background(), "query", nil, nil, []model.Product{a})
	if !errors.Is(err, ErrMalformedRanking) {
		t.Fatalf("expected ErrMalformedRanking, got %v", err)
	}
}

func TestRankPropagatesTransportFailure(t *testing.T) {
	provider := &scriptedProvider{err: fmt.Errorf("%w: timeout", llm.ErrTransport)}
	_, err := testRanker(provider).Rank(context.Background(), "query", nil, nil, []model.Product{candidate("a")})
	if !errors.Is(err, llm.ErrTransport) {
		t.Fatalf("expected transport failure to keep its identity, got %v", err)
	}
}

func TestRankPromptEnumeratesCandidates(t *testing.T) {
	a := candidate("Kiambu AA")
	a.Brand = "Square Mile"
	a.Price = 21
	a.Currency = "USD"
	provider := &scriptedProvider{
		response: fmt.Sprintf(`{"products": [{"id": %q, "reason": "fit"}]}`, a.Id),
	}

	if _, err := testRanker(provider).Rank(context.Background(), "bright and fruity", nil, nil, []model.Product{a}); err != nil {
		t.Fatal(err)
	}
	if len(provider.prompts) != 1 {
		t.Fatalf("expected one prompt, got %d", len(provider.prompts))
	}
	prompt := provider.prompts[0]
	for _, want := range []string{a.Id.String(), "Kiambu AA", "Square Mile", "21.00 USD", "bright and fruity"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt is missing %q", want)
		}
	}
	for _, absent := range []string{"<reference_product>", "<conversation>"} {
		if strings.Contains(prompt, absent) {
			t.Errorf("prompt should omit the %s block when its input is absent", absent)
		}
	}
}

func TestRankPromptCarriesReferenceAndHistory(t *testing.T) {
	a := candidate("Guji Natural")
	ref := candidate("Yirgacheffe Washed G1")
	ref.Brand = "Kurasu"
	ref.TastingNotes = datatypes.NewJSONSlice([]model.TastingNote{
		{Note: "bergamot", Category: "floral"},
	})
	history := []llm.Message{
		{Role: "user", Content: "I liked the last one"},
		{Role: "assistant", Content: "Glad to hear it, want something similar?"},
	}
	provider := &scriptedProvider{
		response: fmt.Sprintf(`{"products": [{"id": %q, "reason": "fit"}]}`, a.Id),
	}

	if _, err := testRanker(provider).Rank(context.Background(), "something brighter", &ref, history, []model.Product{a}); err != nil {
		t.Fatal(err)
	}
	prompt := provider.prompts[0]
	for _, want := range []string{
		"<reference_product>", "Yirgacheffe Washed G1", "Kurasu", "bergamot",
		"<conversation>", "User: I liked the last one", "Assistant: Glad to hear it",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt is missing %q", want)
		}
	}
}

package retrieval

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/katnyeung/beans-finder-sub000/internal/model"
	"github.com/katnyeung/beans-finder-sub000/pkg/graph"
)

// fakeExecutor answers graph queries from canned maps and records every
// query type it was asked to run.
type fakeExecutor struct {
	responses map[graph.QueryType][]model.Product
	byOrigin  map[string][]model.Product
	calls     []graph.QueryType
}

func (f *fakeExecutor) Execute(_ context.Context, queryType graph.QueryType, params graph.Params, _ int) ([]model.Product, error) {
	f.calls = append(f.calls, queryType)
	if queryType == graph.QueryByOrigin && f.byOrigin != nil {
		return f.byOrigin[params.Origin], nil
	}
	return f.responses[queryType], nil
}

func (f *fakeExecutor) Product(_ context.Context, id string) (*model.Product, error) {
	return nil, nil
}

func newTestEngine(f *fakeExecutor) *Engine {
	return NewEngine(f, 15, log.New(io.Discard, "", 0))
}

func namedProduct(name string, origins ...string) model.Product {
	return model.Product{
		Id:      uuid.New(),
		Name:    name,
		Origins: datatypes.NewJSONSlice(origins),
	}
}

func TestRetrieveFirstTierShortCircuits(t *testing.T) {
	ref := namedProduct("ref", "Ethiopia")
	fake := &fakeExecutor{
		responses: map[graph.QueryType][]model.Product{
			graph.QueryTastingNoteOverlap: {namedProduct("match", "Kenya")},
			graph.QueryAttributeOverlap:   {namedProduct("should-not-run", "Kenya")},
		},
	}

	result, err := newTestEngine(fake).Retrieve(context.Background(), &Plan{QueryType: QuerySimilarFlavor}, &ref, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.TierReached != 1 {
		t.Errorf("TierReached = %d, want 1", result.TierReached)
	}
	if len(fake.calls) != 1 || fake.calls[0] != graph.QueryTastingNoteOverlap {
		t.Errorf("expected only the first tier to run, got calls %v", fake.calls)
	}
	if len(result.Candidates) != 1 || result.Candidates[0].Name != "match" {
		t.Errorf("unexpected candidates: %v", result.Candidates)
	}
}

func TestRetrieveFallsThroughEmptyTiers(t *testing.T) {
	ref := namedProduct("ref", "Ethiopia")
	fake := &fakeExecutor{
		responses: map[graph.QueryType][]model.Product{
			graph.QuerySubcategoryOverlap: {namedProduct("third-tier", "Kenya")},
		},
	}

	result, err := newTestEngine(fake).Retrieve(context.Background(), &Plan{QueryType: QuerySimilarFlavor}, &ref, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.TierReached != 3 {
		t.Errorf("TierReached = %d, want 3", result.TierReached)
	}
	want := []graph.QueryType{graph.QueryTastingNoteOverlap, graph.QueryAttributeOverlap, graph.QuerySubcategoryOverlap}
	if len(fake.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", fake.calls, want)
	}
	for i := range want {
		if fake.calls[i] != want[i] {
			t.Errorf("call %d = %s, want %s", i, fake.calls[i], want[i])
		}
	}
}

func TestRetrieveMissingRequirementsYieldsEmpty(t *testing.T) {
	tests := []struct {
		name string
		plan *Plan
	}{
		{"similar flavor without reference", &Plan{QueryType: QuerySimilarFlavor}},
		{"by name without product name", &Plan{QueryType: QueryByName}},
		{"axis query without axis", &Plan{QueryType: QueryMoreAxis}},
		{"category query with unknown category", &Plan{QueryType: QueryMoreCategory, Filters: Filters{FlavorCategory: "umami"}}},
		{"unknown query type", &Plan{QueryType: QueryType("WILDCARD")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeExecutor{}
			result, err := newTestEngine(fake).Retrieve(context.Background(), tt.plan, nil, nil)
			if err != nil {
				t.Fatal(err)
			}
			if len(result.Candidates) != 0 || result.TierReached != 0 {
				t.Errorf("expected empty result, got %+v", result)
			}
			if len(fake.calls) != 0 {
				t.Errorf("expected no graph queries, got %v", fake.calls)
			}
		})
	}
}

func TestRetrieveExcludesReferenceAndShown(t *testing.T) {
	ref := namedProduct("ref", "Ethiopia")
	shown := namedProduct("shown", "Kenya")
	fresh := namedProduct("fresh", "Kenya")
	fake := &fakeExecutor{
		responses: map[graph.QueryType][]model.Product{
			graph.QueryTastingNoteOverlap: {ref, shown, fresh},
		},
	}

	result, err := newTestEngine(fake).Retrieve(context.Background(),
		&Plan{QueryType: QuerySimilarFlavor}, &ref, []string{shown.Id.String()})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Candidates) != 1 || result.Candidates[0].Id != fresh.Id {
		t.Fatalf("expected only the fresh product, got %v", result.Candidates)
	}
	if result.AllSeen {
		t.Error("AllSeen should be false while fresh candidates remain")
	}
}

func TestRetrieveAllSeenWhenExclusionsEmptyTheResult(t *testing.T) {
	ref := namedProduct("ref", "Ethiopia")
	shown := namedProduct("shown", "Kenya")
	fake := &fakeExecutor{
		responses: map[graph.QueryType][]model.Product{
			graph.QueryTastingNoteOverlap: {shown},
		},
	}

	result, err := newTestEngine(fake).Retrieve(context.Background(),
		&Plan{QueryType: QuerySimilarFlavor}, &ref, []string{shown.Id.String()})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Candidates) != 0 {
		t.Fatalf("expected no candidates, got %d", len(result.Candidates))
	}
	if !result.AllSeen {
		t.Error("AllSeen should be true: retrieval matched, exclusions emptied it")
	}
}

func TestRetrieveByNameKeepsAlreadyShownProducts(t *testing.T) {
	asked := namedProduct("Yirgacheffe Washed G1", "Ethiopia")
	fake := &fakeExecutor{
		responses: map[graph.QueryType][]model.Product{
			graph.QueryByName: {asked},
		},
	}

	plan := &Plan{QueryType: QueryByName, Filters: Filters{ProductName: "Yirgacheffe"}}
	result, err := newTestEngine(fake).Retrieve(context.Background(), plan, nil, []string{asked.Id.String()})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Candidates) != 1 {
		t.Fatalf("by-name lookup must keep shown products, got %d candidates", len(result.Candidates))
	}
}

func TestRetrieveCapsCandidates(t *testing.T) {
	products := make([]model.Product, 0, 30)
	for i := 0; i < 30; i++ {
		products = append(products, namedProduct("p", "Kenya"))
	}
	ref := namedProduct("ref", "Ethiopia")
	fake := &fakeExecutor{
		responses: map[graph.QueryType][]model.Product{
			graph.QueryTastingNoteOverlap: products,
		},
	}

	result, err := newTestEngine(fake).Retrieve(context.Background(), &Plan{QueryType: QuerySimilarFlavor}, &ref, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Candidates) != 15 {
		t.Errorf("got %d candidates, want cap of 15", len(result.Candidates))
	}
	if result.RawCount != 30 {
		t.Errorf("RawCount = %d, want 30", result.RawCount)
	}
}

func TestRetrieveAxisHeuristicFallback(t *testing.T) {
	// "More acidity" than a Brazilian natural: both vector tiers come back
	// empty, the fixed table routes to washed African origins.
	ref := namedProduct("Fazenda Santa Ines", "Brazil")
	ethiopian := namedProduct("Yirgacheffe", "Ethiopia")
	kenyan := namedProduct("Kiambu AA", "Kenya")
	fake := &fakeExecutor{
		byOrigin: map[string][]model.Product{
			"Ethiopia": {ethiopian},
			"Kenya":    {kenyan},
		},
	}

	plan := &Plan{QueryType: QueryMoreAxis, Filters: Filters{CharacterAxis: graph.AxisAcidity}}
	result, err := newTestEngine(fake).Retrieve(context.Background(), plan, &ref, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.TierReached != 3 {
		t.Errorf("TierReached = %d, want 3 (heuristic tier)", result.TierReached)
	}
	if len(result.Candidates) != 2 {
		t.Fatalf("got %d candidates, want 2", len(result.Candidates))
	}
	for _, p := range result.Candidates {
		if p.HasOrigin("Brazil") {
			t.Errorf("heuristic returned a product from the reference's own origin: %v", p.Name)
		}
	}
}

func TestRetrieveCompositeIntersectsFilters(t *testing.T) {
	both := namedProduct("match", "Ethiopia")
	onlyOrigin := namedProduct("origin-only", "Ethiopia")
	onlyRoast := namedProduct("roast-only", "Kenya")
	fake := &fakeExecutor{
		responses: map[graph.QueryType][]model.Product{
			graph.QueryByRoast: {both, onlyRoast},
		},
		byOrigin: map[string][]model.Product{
			"Ethiopia": {both, onlyOrigin},
		},
	}

	plan := &Plan{QueryType: QueryComposite, Filters: Filters{Origin: "Ethiopia", RoastLevel: "Light"}}
	result, err := newTestEngine(fake).Retrieve(context.Background(), plan, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Candidates) != 1 || result.Candidates[0].Id != both.Id {
		t.Fatalf("expected only the product matching both filters, got %v", result.Candidates)
	}
}

func TestRetrieveOriginDiffRoastDropsReferenceRoast(t *testing.T) {
	ref := namedProduct("ref", "Ethiopia")
	ref.RoastLevel = "Light"
	sameRoast := namedProduct("same-roast", "Ethiopia")
	sameRoast.RoastLevel = "Light"
	darker := namedProduct("darker", "Ethiopia")
	darker.RoastLevel = "Dark"
	fake := &fakeExecutor{
		byOrigin: map[string][]model.Product{
			"Ethiopia": {sameRoast, darker},
		},
	}

	plan := &Plan{QueryType: QueryOriginDiffRoast}
	result, err := newTestEngine(fake).Retrieve(context.Background(), plan, &ref, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Candidates) != 1 || result.Candidates[0].Id != darker.Id {
		t.Fatalf("expected only the darker roast, got %v", result.Candidates)
	}
}

package retrieval

import (
	"testing"

	"github.com/google/uuid"

	"github.com/katnyeung/beans-finder-sub000/internal/model"
)

func productWithPrice(name string, price float64) model.Product {
	return model.Product{Id: uuid.New(), Name: name, Price: price}
}

func floatPtr(v float64) *float64 { return &v }

func TestApplyPriceFilter(t *testing.T) {
	products := []model.Product{
		productWithPrice("cheap", 10),
		productWithPrice("mid", 20),
		productWithPrice("expensive", 40),
	}

	tests := []struct {
		name      string
		min, max  *float64
		wantNames []string
	}{
		{
			name:      "no bounds keeps everything",
			wantNames: []string{"cheap", "mid", "expensive"},
		},
		{
			name:      "min only",
			min:       floatPtr(15),
			wantNames: []string{"mid", "expensive"},
		},
		{
			name:      "max only",
			max:       floatPtr(25),
			wantNames: []string{"cheap", "mid"},
		},
		{
			name:      "both bounds",
			min:       floatPtr(15),
			max:       floatPtr(25),
			wantNames: []string{"mid"},
		},
		{
			name:      "bounds inclusive",
			min:       floatPtr(20),
			max:       floatPtr(20),
			wantNames: []string{"mid"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := applyPriceFilter(products, tt.min, tt.max)
			if len(got) != len(tt.wantNames) {
				t.Fatalf("got %d products, want %d", len(got), len(tt.wantNames))
			}
			for i, name := range tt.wantNames {
				if got[i].Name != name {
					t.Errorf("product %d = %q, want %q", i, got[i].Name, name)
				}
			}

			// Applying the filter twice must not change the result
			again := applyPriceFilter(got, tt.min, tt.max)
			if len(again) != len(got) {
				t.Errorf("filter is not idempotent: %d != %d", len(again), len(got))
			}
		})
	}
}

func TestDedupeProductsKeepsFirstOccurrence(t *testing.T) {
	a := productWithPrice("a", 1)
	b := productWithPrice("b", 2)

	got := dedupeProducts([]model.Product{a, b, a, b, a})
	if len(got) != 2 {
		t.Fatalf("got %d products, want 2", len(got))
	}
	if got[0].Id != a.Id || got[1].Id != b.Id {
		t.Errorf("order not preserved: got %v then %v", got[0].Name, got[1].Name)
	}
}

func TestExcludeIDs(t *testing.T) {
	a := productWithPrice("a", 1)
	b := productWithPrice("b", 2)

	got := excludeIDs([]model.Product{a, b}, map[string]bool{a.Id.String(): true})
	if len(got) != 1 || got[0].Id != b.Id {
		t.Fatalf("expected only %q to survive, got %d products", b.Name, len(got))
	}
}

func TestIntersectProductsKeepsLeftOrder(t *testing.T) {
	a := productWithPrice("a", 1)
	b := productWithPrice("b", 2)
	c := productWithPrice("c", 3)

	got := intersectProducts([]model.Product{a, b, c}, []model.Product{c, a})
	if len(got) != 2 {
		t.Fatalf("got %d products, want 2", len(got))
	}
	if got[0].Id != a.Id || got[1].Id != c.Id {
		t.Errorf("expected a then c, got %q then %q", got[0].Name, got[1].Name)
	}
}

func TestCapCandidates(t *testing.T) {
	products := []model.Product{
		productWithPrice("a", 1),
		productWithPrice("b", 2),
		productWithPrice("c", 3),
	}
	if got := capCandidates(products, 2); len(got) != 2 {
		t.Errorf("got %d, want 2", len(got))
	}
	if got := capCandidates(products, 10); len(got) != 3 {
		t.Errorf("got %d, want 3", len(got))
	}
}

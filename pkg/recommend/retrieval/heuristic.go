package retrieval

import (
	"context"

	"github.com/katnyeung/beans-finder-sub000/internal/model"
	"github.com/katnyeung/beans-finder-sub000/pkg/graph"
)

// axisHint is the fixed fallback knowledge for one (axis, direction) pair:
// origins, a process and a flavor category whose catalog members typically
// sit on that end of the axis.
type axisHint struct {
	Origins  []string
	Process  string
	Category string
}

// axisFallbacks is the last-resort lookup table for character-axis queries
// when both vector tiers came back empty. Direction +1 = more, -1 = less.
var axisFallbacks = map[string]map[int]axisHint{
	graph.AxisAcidity: {
		+1: {Origins: []string{"Ethiopia", "Kenya"}, Process: "Washed", Category: graph.CategoryFruity},
		-1: {Origins: []string{"Brazil", "Sumatra"}, Process: "Natural", Category: graph.CategoryCocoa},
	},
	graph.AxisBody: {
		+1: {Origins: []string{"Sumatra", "Brazil"}, Process: "Natural", Category: graph.CategoryCocoa},
		-1: {Origins: []string{"Ethiopia", "Panama"}, Process: "Washed", Category: graph.CategoryFloral},
	},
	graph.AxisRoast: {
		+1: {Origins: []string{"Brazil", "Vietnam"}, Process: "Natural", Category: graph.CategoryRoasted},
		-1: {Origins: []string{"Ethiopia", "Kenya"}, Process: "Washed", Category: graph.CategoryFruity},
	},
	graph.AxisComplexity: {
		+1: {Origins: []string{"Ethiopia", "Yemen"}, Process: "Natural", Category: graph.CategorySpices},
		-1: {Origins: []string{"Brazil", "Colombia"}, Process: "Washed", Category: graph.CategorySweet},
	},
}

// heuristicAxisFallback resolves an axis query through the fixed table.
// With a reference product the origin lookups come first (skipping origins
// the reference already has); without one the category membership is the
// strongest signal and runs first.
func (e *Engine) heuristicAxisFallback(ctx context.Context, axis string, direction int, ref *model.Product) ([]model.Product, error) {
	directions, ok := axisFallbacks[axis]
	if !ok {
		return nil, nil
	}
	hint, ok := directions[direction]
	if !ok {
		return nil, nil
	}

	byOrigins := func() ([]model.Product, error) {
		var merged []model.Product
		for _, origin := range hint.Origins {
			if ref != nil && ref.HasOrigin(origin) {
				continue
			}
			products, err := e.executor.Execute(ctx, graph.QueryByOrigin, graph.Params{Origin: origin}, e.fetchLimit())
			if err != nil {
				return nil, err
			}
			merged = append(merged, products...)
		}
		return merged, nil
	}
	byProcess := func() ([]model.Product, error) {
		return e.executor.Execute(ctx, graph.QueryByProcess, graph.Params{Process: hint.Process}, e.fetchLimit())
	}
	byCategory := func() ([]model.Product, error) {
		return e.executor.Execute(ctx, graph.QueryCategoryMember, graph.Params{FlavorCategory: hint.Category}, e.fetchLimit())
	}

	order := []func() ([]model.Product, error){byOrigins, byProcess, byCategory}
	if ref == nil {
		order = []func() ([]model.Product, error){byCategory, byOrigins, byProcess}
	}

	for _, lookup := range order {
		products, err := lookup()
		if err != nil {
			return nil, err
		}
		if len(products) > 0 {
			return dedupeProducts(products), nil
		}
	}
	return nil, nil
}

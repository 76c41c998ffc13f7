package retrieval

import (
	"context"
	"log"

	"github.com/katnyeung/beans-finder-sub000/internal/model"
	"github.com/katnyeung/beans-finder-sub000/pkg/graph"
)

// Engine deterministically turns a Plan into a shaped candidate list.
// Every query type owns an ordered list of tiers; tier N+1 runs only when
// tier N returned zero products.
type Engine struct {
	executor      graph.Executor
	maxCandidates int
	logger        *log.Logger
}

func NewEngine(executor graph.Executor, maxCandidates int, logger *log.Logger) *Engine {
	if maxCandidates <= 0 {
		maxCandidates = 15
	}
	return &Engine{
		executor:      executor,
		maxCandidates: maxCandidates,
		logger:        logger,
	}
}

// Result carries the shaped candidates plus enough shaping telemetry for
// the caller to tell "nothing matched" apart from "everything was seen".
type Result struct {
	Candidates  []model.Product
	TierReached int  // 1-based tier that produced candidates, 0 = none
	RawCount    int  // candidates before shaping
	AllSeen     bool // raw result non-empty, exclusions emptied it
}

type tier struct {
	name string
	run  func(ctx context.Context) ([]model.Product, error)
}

// Retrieve executes the fallback chain for plan and shapes the winner.
// A plan with an unknown query type or missing required filters yields an
// empty Result, never an error.
func (e *Engine) Retrieve(ctx context.Context, plan *Plan, ref *model.Product, shownIDs []string) (*Result, error) {
	tiers := e.tiersFor(plan, ref)

	var raw []model.Product
	tierReached := 0
	for i, t := range tiers {
		products, err := t.run(ctx)
		if err != nil {
			return nil, err
		}
		if len(products) > 0 {
			e.logger.Printf("[RETRIEVAL] %s tier %d (%s) returned %d candidates", plan.QueryType, i+1, t.name, len(products))
			raw = products
			tierReached = i + 1
			break
		}
	}

	shaped := dedupeProducts(raw)
	shaped = applyPriceFilter(shaped, plan.Filters.MinPrice, plan.Filters.MaxPrice)

	// By-name searches keep the reference and already-shown items: the user
	// explicitly asked about them.
	beforeExclusion := len(shaped)
	if plan.QueryType != QueryByName {
		excluded := make(map[string]bool, len(shownIDs)+1)
		if ref != nil {
			excluded[ref.Id.String()] = true
		}
		for _, id := range shownIDs {
			excluded[id] = true
		}
		shaped = excludeIDs(shaped, excluded)
	}
	allSeen := beforeExclusion > 0 && len(shaped) == 0

	shaped = capCandidates(shaped, e.maxCandidates)

	return &Result{
		Candidates:  shaped,
		TierReached: tierReached,
		RawCount:    len(raw),
		AllSeen:     allSeen,
	}, nil
}

// fetchLimit gives graph queries headroom over the final cap, since shaping
// removes the reference and already-shown items afterwards.
func (e *Engine) fetchLimit() int {
	return e.maxCandidates * 4
}

// tiersFor builds the ordered fallback chain for one plan. Returning no
// tiers is the "required filter missing / unknown type" empty outcome.
func (e *Engine) tiersFor(plan *Plan, ref *model.Product) []tier {
	exec := func(qt graph.QueryType, params graph.Params) func(ctx context.Context) ([]model.Product, error) {
		return func(ctx context.Context) ([]model.Product, error) {
			return e.executor.Execute(ctx, qt, params, e.fetchLimit())
		}
	}
	refParams := graph.Params{}
	if ref != nil {
		refParams.ReferenceID = ref.Id.String()
	}

	switch plan.QueryType {
	case QueryByName:
		if plan.Filters.ProductName == "" {
			return nil
		}
		return []tier{
			{"name-lookup", exec(graph.QueryByName, graph.Params{NameSubstring: plan.Filters.ProductName})},
		}

	case QueryByBrand:
		if plan.Filters.BrandName == "" {
			return nil
		}
		return []tier{
			{"brand-lookup", exec(graph.QueryByBrand, graph.Params{BrandName: plan.Filters.BrandName})},
		}

	case QuerySameOrigin:
		origin := e.resolveOrigin(plan, ref)
		if origin == "" {
			return nil
		}
		return []tier{
			{"origin-lookup", exec(graph.QueryByOrigin, graph.Params{Origin: origin})},
		}

	case QuerySameRoast:
		roast := e.resolveRoast(plan, ref)
		if roast == "" {
			return nil
		}
		return []tier{
			{"roast-lookup", exec(graph.QueryByRoast, graph.Params{RoastLevel: roast})},
		}

	case QuerySameProcess:
		process := e.resolveProcess(plan, ref)
		if process == "" {
			return nil
		}
		return []tier{
			{"process-lookup", exec(graph.QueryByProcess, graph.Params{Process: process})},
		}

	case QuerySimilarFlavor:
		if ref == nil {
			return nil
		}
		return []tier{
			{"note-overlap", exec(graph.QueryTastingNoteOverlap, refParams)},
			{"attribute-overlap", exec(graph.QueryAttributeOverlap, refParams)},
			{"subcategory-overlap", exec(graph.QuerySubcategoryOverlap, refParams)},
		}

	case QuerySimilarProfile:
		if ref == nil {
			return nil
		}
		return []tier{
			{"profile-similarity", exec(graph.QueryProfileSimilarity, refParams)},
			{"note-overlap", exec(graph.QueryTastingNoteOverlap, refParams)},
		}

	case QueryMoreCategory, QueryLessCategory:
		categoryIdx, ok := graph.CategoryIndex(plan.Filters.FlavorCategory)
		if !ok {
			return nil
		}
		direction := +1
		if plan.QueryType == QueryLessCategory {
			direction = -1
		}
		vectorParams := refParams
		vectorParams.CategoryIndex = categoryIdx
		vectorParams.Direction = direction
		categoryParams := graph.Params{FlavorCategory: plan.Filters.FlavorCategory}
		return []tier{
			{"category-vector", e.requireRef(ref, exec(graph.QueryCategoryVector, vectorParams))},
			{"keyword-overlap", exec(graph.QueryFlavorKeyword, categoryParams)},
			{"category-member", exec(graph.QueryCategoryMember, categoryParams)},
		}

	case QueryMoreAxis, QueryLessAxis:
		axisIdx, ok := graph.AxisIndex(plan.Filters.CharacterAxis)
		if !ok {
			return nil
		}
		direction := +1
		if plan.QueryType == QueryLessAxis {
			direction = -1
		}
		axisParams := refParams
		axisParams.AxisIndex = axisIdx
		axisParams.Direction = direction
		axis := plan.Filters.CharacterAxis
		return []tier{
			{"note-overlap-axis", e.requireRef(ref, exec(graph.QueryNoteOverlapAxis, axisParams))},
			{"axis-vector", e.requireRef(ref, exec(graph.QueryAxisVector, axisParams))},
			{"axis-heuristic", func(ctx context.Context) ([]model.Product, error) {
				return e.heuristicAxisFallback(ctx, axis, direction, ref)
			}},
		}

	case QueryComposite:
		return []tier{
			{"filter-intersection", func(ctx context.Context) ([]model.Product, error) {
				return e.intersectFilters(ctx, plan.Filters)
			}},
		}

	case QueryOriginCategory:
		origin := e.resolveOrigin(plan, ref)
		if origin == "" || plan.Filters.FlavorCategory == "" {
			return nil
		}
		category := plan.Filters.FlavorCategory
		return []tier{
			{"origin-and-category", func(ctx context.Context) ([]model.Product, error) {
				byOrigin, err := e.executor.Execute(ctx, graph.QueryByOrigin, graph.Params{Origin: origin}, e.fetchLimit())
				if err != nil {
					return nil, err
				}
				byCategory, err := e.executor.Execute(ctx, graph.QueryCategoryMember, graph.Params{FlavorCategory: category}, e.fetchLimit())
				if err != nil {
					return nil, err
				}
				return intersectProducts(byOrigin, byCategory), nil
			}},
		}

	case QueryOriginDiffRoast:
		origin := e.resolveOrigin(plan, ref)
		excludedRoast := e.resolveRoast(plan, ref)
		if origin == "" || excludedRoast == "" {
			return nil
		}
		return []tier{
			{"origin-different-roast", func(ctx context.Context) ([]model.Product, error) {
				byOrigin, err := e.executor.Execute(ctx, graph.QueryByOrigin, graph.Params{Origin: origin}, e.fetchLimit())
				if err != nil {
					return nil, err
				}
				kept := make([]model.Product, 0, len(byOrigin))
				for _, p := range byOrigin {
					if p.RoastLevel != excludedRoast {
						kept = append(kept, p)
					}
				}
				return kept, nil
			}},
		}

	default:
		e.logger.Printf("[RETRIEVAL] unrecognized query type %q, returning no candidates", plan.QueryType)
		return nil
	}
}

// requireRef turns a reference-relative tier into a clean miss when no
// reference product was supplied, letting the chain cascade.
func (e *Engine) requireRef(ref *model.Product, run func(ctx context.Context) ([]model.Product, error)) func(ctx context.Context) ([]model.Product, error) {
	return func(ctx context.Context) ([]model.Product, error) {
		if ref == nil {
			return nil, nil
		}
		return run(ctx)
	}
}

// intersectFilters implements the composite query: each provided filter
// produces a candidate set, and the sets are successively intersected.
func (e *Engine) intersectFilters(ctx context.Context, filters Filters) ([]model.Product, error) {
	type filterQuery struct {
		qt     graph.QueryType
		params graph.Params
	}
	var queries []filterQuery
	if filters.ProductName != "" {
		queries = append(queries, filterQuery{graph.QueryByName, graph.Params{NameSubstring: filters.ProductName}})
	}
	if filters.BrandName != "" {
		queries = append(queries, filterQuery{graph.QueryByBrand, graph.Params{BrandName: filters.BrandName}})
	}
	if filters.Origin != "" {
		queries = append(queries, filterQuery{graph.QueryByOrigin, graph.Params{Origin: filters.Origin}})
	}
	if filters.RoastLevel != "" {
		queries = append(queries, filterQuery{graph.QueryByRoast, graph.Params{RoastLevel: filters.RoastLevel}})
	}
	if filters.Process != "" {
		queries = append(queries, filterQuery{graph.QueryByProcess, graph.Params{Process: filters.Process}})
	}
	if filters.FlavorCategory != "" {
		queries = append(queries, filterQuery{graph.QueryCategoryMember, graph.Params{FlavorCategory: filters.FlavorCategory}})
	}
	if len(queries) == 0 {
		return nil, nil
	}

	var current []model.Product
	for i, q := range queries {
		products, err := e.executor.Execute(ctx, q.qt, q.params, e.fetchLimit())
		if err != nil {
			return nil, err
		}
		if i == 0 {
			current = products
			continue
		}
		current = intersectProducts(current, products)
		if len(current) == 0 {
			return nil, nil
		}
	}
	return current, nil
}

func (e *Engine) resolveOrigin(plan *Plan, ref *model.Product) string {
	if plan.Filters.Origin != "" {
		return plan.Filters.Origin
	}
	if ref != nil && len(ref.Origins) > 0 {
		return ref.Origins[0]
	}
	return ""
}

func (e *Engine) resolveRoast(plan *Plan, ref *model.Product) string {
	if plan.Filters.RoastLevel != "" {
		return plan.Filters.RoastLevel
	}
	if ref != nil {
		return ref.RoastLevel
	}
	return ""
}

func (e *Engine) resolveProcess(plan *Plan, ref *model.Product) string {
	if plan.Filters.Process != "" {
		return plan.Filters.Process
	}
	if ref != nil && len(ref.Processes) > 0 {
		return ref.Processes[0]
	}
	return ""
}

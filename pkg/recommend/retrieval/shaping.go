package retrieval

import "github.com/katnyeung/beans-finder-sub000/internal/model"

// applyPriceFilter keeps products inside the optional [min, max] bounds.
// The predicate is pure: applying it twice yields the same list.
func applyPriceFilter(products []model.Product, min, max *float64) []model.Product {
	if min == nil && max == nil {
		return products
	}
	filtered := make([]model.Product, 0, len(products))
	for _, p := range products {
		if min != nil && p.Price < *min {
			continue
		}
		if max != nil && p.Price > *max {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

// excludeIDs drops products whose id is in the exclusion set.
func excludeIDs(products []model.Product, excluded map[string]bool) []model.Product {
	if len(excluded) == 0 {
		return products
	}
	kept := make([]model.Product, 0, len(products))
	for _, p := range products {
		if excluded[p.Id.String()] {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

// dedupeProducts keeps the first occurrence of each id, preserving order.
// Merged tier results (heuristics, composite intersections) can repeat ids.
func dedupeProducts(products []model.Product) []model.Product {
	seen := make(map[string]bool, len(products))
	unique := make([]model.Product, 0, len(products))
	for _, p := range products {
		id := p.Id.String()
		if seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, p)
	}
	return unique
}

// capCandidates bounds the list handed to the ranking stage, which pays
// reasoning-service tokens per candidate.
func capCandidates(products []model.Product, max int) []model.Product {
	if max <= 0 || len(products) <= max {
		return products
	}
	return products[:max]
}

// intersectProducts keeps products of a that also appear in b, in a's order.
func intersectProducts(a, b []model.Product) []model.Product {
	inB := make(map[string]bool, len(b))
	for _, p := range b {
		inB[p.Id.String()] = true
	}
	kept := make([]model.Product, 0, len(a))
	for _, p := range a {
		if inB[p.Id.String()] {
			kept = append(kept, p)
		}
	}
	return kept
}

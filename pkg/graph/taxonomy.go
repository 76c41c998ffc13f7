package graph

import "strings"

// The flavor wheel used to tag tasting notes. Category order is
// significant: it is the dimension order of Product.FlavorProfile.
const (
	CategoryFruity      = "fruity"
	CategoryFloral      = "floral"
	CategorySweet       = "sweet"
	CategoryNutty       = "nutty"
	CategoryCocoa       = "cocoa"
	CategorySpices      = "spices"
	CategoryRoasted     = "roasted"
	CategoryGreen       = "green"
	CategorySourFerment = "sour_fermented"
)

// FlavorCategories lists all categories in profile-vector order (index 0-8).
var FlavorCategories = []string{
	CategoryFruity,
	CategoryFloral,
	CategorySweet,
	CategoryNutty,
	CategoryCocoa,
	CategorySpices,
	CategoryRoasted,
	CategoryGreen,
	CategorySourFerment,
}

// CategoryIndex resolves a category name to its flavor-profile dimension.
func CategoryIndex(category string) (int, bool) {
	normalized := strings.ToLower(strings.TrimSpace(category))
	for i, c := range FlavorCategories {
		if c == normalized {
			return i, true
		}
	}
	return 0, false
}

// categoryKeywords drives the keyword/flavor-hierarchy overlap queries.
// Keys are categories, values are note descriptors commonly tagged under them.
var categoryKeywords = map[string][]string{
	CategoryFruity:      {"berry", "blueberry", "strawberry", "raspberry", "cherry", "citrus", "lemon", "orange", "grapefruit", "peach", "apricot", "apple", "grape", "tropical", "mango", "pineapple"},
	CategoryFloral:      {"floral", "jasmine", "rose", "chamomile", "lavender", "hibiscus", "bergamot"},
	CategorySweet:       {"caramel", "honey", "brown sugar", "molasses", "maple", "vanilla", "toffee", "butterscotch"},
	CategoryNutty:       {"almond", "hazelnut", "peanut", "walnut", "pecan", "nutty"},
	CategoryCocoa:       {"chocolate", "dark chocolate", "milk chocolate", "cocoa", "cacao nibs"},
	CategorySpices:      {"cinnamon", "clove", "nutmeg", "anise", "pepper", "cardamom"},
	CategoryRoasted:     {"smoky", "tobacco", "toast", "burnt", "ashy", "cereal", "malt"},
	CategoryGreen:       {"herbal", "grassy", "vegetal", "hay", "pea pod"},
	CategorySourFerment: {"winey", "fermented", "boozy", "sour", "acetic", "overripe"},
}

// KeywordsForCategory returns the note descriptors of one category.
func KeywordsForCategory(category string) []string {
	return categoryKeywords[strings.ToLower(strings.TrimSpace(category))]
}

// Character axes: continuous bipolar descriptors of coffee character.
// Order is the dimension order of Product.CharacterProfile.
const (
	AxisAcidity    = "acidity"
	AxisBody       = "body"
	AxisRoast      = "roast"
	AxisComplexity = "complexity"
)

var CharacterAxes = []string{
	AxisAcidity,
	AxisBody,
	AxisRoast,
	AxisComplexity,
}

// AxisIndex resolves an axis name to its character-profile dimension.
func AxisIndex(axis string) (int, bool) {
	normalized := strings.ToLower(strings.TrimSpace(axis))
	for i, a := range CharacterAxes {
		if a == normalized {
			return i, true
		}
	}
	return 0, false
}

package domain

import (
	"strings"
	"unicode"
)

// Category is one value of the closed set of site sections.
type Category string

const (
	CategoryAll         Category = "All"
	CategoryNews        Category = "News"
	CategoryReviews     Category = "Reviews"
	CategoryDeals       Category = "Deals"
	CategoryGuides      Category = "Guides"
	CategoryTutorials   Category = "Tutorials"
	CategoryAppsGames   Category = "Apps & Games"
	CategorySmartphones Category = "Smartphones"
	CategoryWearables   Category = "Wearables"
	CategoryModding     Category = "Modding"
)

var orderedCategories = []Category{
	CategoryAll,
	CategoryNews,
	CategoryReviews,
	CategoryDeals,
	CategoryGuides,
	CategoryTutorials,
	CategoryAppsGames,
	CategorySmartphones,
	CategoryWearables,
	CategoryModding,
}

// categoryAliases maps lowercase blog labels onto categories. The blog is Italian, so both
// languages appear.
var categoryAliases = map[string]Category{
	"all":             CategoryAll,
	"tutti":           CategoryAll,
	"news":            CategoryNews,
	"notizie":         CategoryNews,
	"reviews":         CategoryReviews,
	"review":          CategoryReviews,
	"recensione":      CategoryReviews,
	"recensioni":      CategoryReviews,
	"deals":           CategoryDeals,
	"deal":            CategoryDeals,
	"offerte":         CategoryDeals,
	"offerta":         CategoryDeals,
	"guides":          CategoryGuides,
	"guide":           CategoryGuides,
	"guida":           CategoryGuides,
	"tutorials":       CategoryTutorials,
	"tutorial":        CategoryTutorials,
	"apps & games":    CategoryAppsGames,
	"apps and games":  CategoryAppsGames,
	"app & giochi":    CategoryAppsGames,
	"app e giochi":    CategoryAppsGames,
	"smartphones":     CategorySmartphones,
	"smartphone":      CategorySmartphones,
	"wearables":       CategoryWearables,
	"wearable":        CategoryWearables,
	"modding":         CategoryModding,
	"root & modding":  CategoryModding,
	"root e modding":  CategoryModding,
}

// Categories returns the menu order of all categories, All first.
func Categories() []Category {
	return append([]Category(nil), orderedCategories...)
}

// ParseCategory resolves a category name or known label alias, ignoring case and surrounding space.
func ParseCategory(raw string) (Category, bool) {
	key := NormalizeKey(raw)
	if key == "" {
		return "", false
	}
	if c, ok := categoryAliases[key]; ok {
		return c, true
	}
	for _, c := range orderedCategories {
		if c.Slug() == key {
			return c, true
		}
	}
	return "", false
}

// Slug returns the URL form of c, e.g. "apps-games".
func (c Category) Slug() string {
	fields := strings.FieldsFunc(c.Key(), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(fields, "-")
}

// Key returns the comparison form of c.
func (c Category) Key() string {
	return NormalizeKey(string(c))
}

// IsAll reports whether c is the universal category.
func (c Category) IsAll() bool {
	return c.Key() == CategoryAll.Key()
}

// NormalizeKey lowercases and trims s for case-insensitive comparisons.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

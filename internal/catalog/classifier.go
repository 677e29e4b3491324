package catalog

import (
	"strings"

	"github.com/samvad-hq/samvad-portal/internal/domain"
)

// appsGamesTagHints and appsGamesCategoryHints drive the composite Apps & Games rule.
var (
	appsGamesTagHints      = []string{"app", "games", "game"}
	appsGamesCategoryHints = []string{"app", "games"}
)

// Classifier decides category membership from an article's category and tags.
type Classifier struct {
	keywords map[domain.Category][]string
}

// NewClassifier builds a classifier over the given keyword table (nil means no keyword rule).
func NewClassifier(keywords map[domain.Category][]string) Classifier {
	return Classifier{keywords: keywords}
}

// DefaultClassifier uses the package keyword table.
var DefaultClassifier = NewClassifier(Keywords)

// Classify reports whether a belongs to target using the default keyword table.
func Classify(a domain.Article, target domain.Category) bool {
	return DefaultClassifier.Classify(a, target)
}

// Classify reports whether a belongs to target. Rules are OR-ed; the order only short-circuits work.
func (c Classifier) Classify(a domain.Article, target domain.Category) bool {
	if target.IsAll() {
		return true
	}
	want := target.Key()
	if want == "" {
		return false
	}

	category := a.Category.Key()
	if category == want {
		return true
	}

	tags := lowerTags(a.Tags)
	for _, tag := range tags {
		if tag == want {
			return true
		}
	}

	if want == domain.CategoryAppsGames.Key() {
		if anyContains(tags, appsGamesTagHints) || containsAny(category, appsGamesCategoryHints) {
			return true
		}
	}

	keywords := KeywordsIn(c.keywords, target)
	if len(keywords) == 0 {
		return false
	}
	return containsAny(category, keywords) || anyContains(tags, keywords)
}

// FilterByCategory keeps the articles that classify into target, preserving order.
func (c Classifier) FilterByCategory(articles []domain.Article, target domain.Category) []domain.Article {
	out := make([]domain.Article, 0, len(articles))
	for _, a := range articles {
		if c.Classify(a, target) {
			out = append(out, a)
		}
	}
	return out
}

// FilterByCategory applies DefaultClassifier.
func FilterByCategory(articles []domain.Article, target domain.Category) []domain.Article {
	return DefaultClassifier.FilterByCategory(articles, target)
}

func lowerTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if k := domain.NormalizeKey(t); k != "" {
			out = append(out, k)
		}
	}
	return out
}

func containsAny(s string, needles []string) bool {
	if s == "" {
		return false
	}
	for _, n := range needles {
		if n != "" && strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func anyContains(haystacks, needles []string) bool {
	for _, h := range haystacks {
		if containsAny(h, needles) {
			return true
		}
	}
	return false
}

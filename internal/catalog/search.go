package catalog

import (
	"strings"

	"github.com/samvad-hq/samvad-portal/internal/domain"
)

// Search returns the articles whose title contains query case-insensitively, in original order.
// An empty query matches everything; callers decide whether blank input should search at all.
func Search(query string, articles []domain.Article) []domain.Article {
	needle := strings.ToLower(query)
	out := make([]domain.Article, 0, len(articles))
	for _, a := range articles {
		if strings.Contains(strings.ToLower(a.Title), needle) {
			out = append(out, a.Clone())
		}
	}
	return out
}

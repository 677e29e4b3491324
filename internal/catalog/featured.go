package catalog

import "github.com/samvad-hq/samvad-portal/internal/domain"

// SelectHero returns the first featured article, else the first article, presented as hero.
// The stored record is not modified.
func SelectHero(articles []domain.Article) (domain.Article, bool) {
	a, ok := firstFeaturedOrFirst(articles)
	if !ok {
		return domain.Article{}, false
	}
	return a.WithVariant(domain.VariantHero), true
}

// SelectCategoryHighlight picks the "in evidence" article for a category menu: featured in the
// category, else first in the category, else first in the store.
func SelectCategoryHighlight(articles []domain.Article, cat domain.Category) (domain.Article, bool) {
	return DefaultClassifier.SelectCategoryHighlight(articles, cat)
}

// SelectCategoryHighlight is SelectCategoryHighlight using c for membership.
func (c Classifier) SelectCategoryHighlight(articles []domain.Article, cat domain.Category) (domain.Article, bool) {
	if a, ok := firstFeaturedOrFirst(c.FilterByCategory(articles, cat)); ok {
		return a.Clone(), true
	}
	if len(articles) == 0 {
		return domain.Article{}, false
	}
	return articles[0].Clone(), true
}

func firstFeaturedOrFirst(articles []domain.Article) (domain.Article, bool) {
	if len(articles) == 0 {
		return domain.Article{}, false
	}
	for _, a := range articles {
		if a.Featured {
			return a, true
		}
	}
	return articles[0], true
}

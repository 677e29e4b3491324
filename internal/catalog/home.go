package catalog

import "github.com/samvad-hq/samvad-portal/internal/domain"

// DefaultCarouselSize is used when BuildHome receives a non-positive size.
const DefaultCarouselSize = 5

// Home is the derived content of the landing page for one category.
type Home struct {
	Category domain.Category  `json:"category"`
	Hero     *domain.Article  `json:"hero,omitempty"`
	Carousel []domain.Article `json:"carousel"`
	Feed     []domain.Article `json:"feed"`
}

// Menu is one category's mega-menu block.
type Menu struct {
	Category  domain.Category  `json:"category"`
	Highlight *domain.Article  `json:"highlight,omitempty"`
	Items     []domain.Article `json:"items"`
}

// BuildHome derives hero, featured carousel and feed for category.
func BuildHome(articles []domain.Article, category domain.Category, carouselSize int) Home {
	if carouselSize <= 0 {
		carouselSize = DefaultCarouselSize
	}
	home := Home{Category: category, Carousel: []domain.Article{}, Feed: []domain.Article{}}

	var hero domain.Article
	var ok bool
	if category.IsAll() {
		hero, ok = SelectHero(articles)
	} else {
		hero, ok = SelectCategoryHighlight(articles, category)
		hero = hero.WithVariant(domain.VariantHero)
	}
	if !ok {
		return home
	}
	home.Hero = &hero

	filtered := FilterByCategory(articles, category)
	rest := make([]domain.Article, 0, len(filtered))
	for _, a := range filtered {
		if a.ID != hero.ID {
			rest = append(rest, a)
		}
	}

	picked := make(map[string]bool, carouselSize)
	for _, a := range rest {
		if len(home.Carousel) == carouselSize {
			break
		}
		if a.Featured {
			home.Carousel = append(home.Carousel, a.Clone())
			picked[a.ID] = true
		}
	}
	for _, a := range rest {
		if len(home.Carousel) == carouselSize {
			break
		}
		if !picked[a.ID] {
			home.Carousel = append(home.Carousel, a.Clone())
			picked[a.ID] = true
		}
	}

	home.Feed = cloneAll(rest)
	return home
}

// BuildMenu derives the highlight plus up to limit other in-category articles.
func BuildMenu(articles []domain.Article, category domain.Category, limit int) Menu {
	menu := Menu{Category: category, Items: []domain.Article{}}
	highlight, ok := SelectCategoryHighlight(articles, category)
	if !ok {
		return menu
	}
	menu.Highlight = &highlight

	for _, a := range FilterByCategory(articles, category) {
		if limit > 0 && len(menu.Items) == limit {
			break
		}
		if a.ID == highlight.ID {
			continue
		}
		menu.Items = append(menu.Items, a.Clone())
	}
	return menu
}

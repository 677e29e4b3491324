package normalize

import (
	"strings"

	"github.com/samvad-hq/samvad-portal/internal/domain"
	"github.com/samvad-hq/samvad-portal/internal/logger"
	"github.com/samvad-hq/samvad-portal/pkg/sources"
)

const (
	DefaultDateLayout    = "02 Jan 2006"
	DefaultExcerptLength = 160
)

var featuredLabels = map[string]bool{
	"featured":    true,
	"in evidenza": true,
}

// Options controls how raw posts are shaped into articles and deals.
type Options struct {
	DateLayout      string
	ExcerptLength   int
	DefaultImageURL string
}

// Normalizer converts raw posts into validated domain records.
type Normalizer struct {
	opts Options
	log  logger.Logger
}

// New builds a Normalizer, filling unset options with defaults.
func New(opts Options, log logger.Logger) *Normalizer {
	if strings.TrimSpace(opts.DateLayout) == "" {
		opts.DateLayout = DefaultDateLayout
	}
	if opts.ExcerptLength <= 0 {
		opts.ExcerptLength = DefaultExcerptLength
	}
	opts.DefaultImageURL = strings.TrimSpace(opts.DefaultImageURL)
	return &Normalizer{opts: opts, log: logger.Ensure(log)}
}

// Article shapes one raw post. The result is validated before it is returned.
func (n *Normalizer) Article(p sources.RawPost) (domain.Article, error) {
	category, tags, featured := classifyLabels(p.Labels)

	a := domain.Article{
		ID:       strings.TrimSpace(p.ID),
		Title:    collapseSpace(p.Title),
		Excerpt:  Excerpt(p.Content, n.opts.ExcerptLength),
		Content:  p.Content,
		ImageURL: n.image(p),
		Category: category,
		Tags:     tags,
		Author:   strings.TrimSpace(p.Author),
		URL:      strings.TrimSpace(p.URL),
		Featured: featured,
	}
	if !p.Published.IsZero() {
		a.Date = p.Published.Format(n.opts.DateLayout)
	}
	if category == domain.CategoryDeals {
		fields := extractDeal(p.Content, a.URL)
		a.Deal = &domain.DealData{Link: fields.Link, OldPrice: fields.OldPrice, NewPrice: fields.NewPrice}
	}

	if err := domain.ValidateArticle(a); err != nil {
		return domain.Article{}, err
	}
	return a, nil
}

// Deal shapes one raw deal post. The product name is the post title.
func (n *Normalizer) Deal(p sources.RawPost) (domain.Deal, error) {
	fields := extractDeal(p.Content, p.URL)
	d := domain.Deal{
		ID:       strings.TrimSpace(p.ID),
		Product:  collapseSpace(p.Title),
		OldPrice: fields.OldPrice,
		NewPrice: fields.NewPrice,
		Link:     fields.Link,
		ImageURL: n.image(p),
	}
	if err := domain.ValidateDeal(d); err != nil {
		return domain.Deal{}, err
	}
	return d, nil
}

// Articles shapes posts in order, dropping and logging the ones that fail validation.
func (n *Normalizer) Articles(posts []sources.RawPost) []domain.Article {
	out := make([]domain.Article, 0, len(posts))
	for _, p := range posts {
		a, err := n.Article(p)
		if err != nil {
			n.log.WarnObj("dropping invalid post", "post", map[string]any{"id": p.ID, "error": err.Error()})
			continue
		}
		out = append(out, a)
	}
	return out
}

// Deals shapes deal posts in order, dropping and logging the ones that fail validation.
func (n *Normalizer) Deals(posts []sources.RawPost) []domain.Deal {
	out := make([]domain.Deal, 0, len(posts))
	for _, p := range posts {
		d, err := n.Deal(p)
		if err != nil {
			n.log.WarnObj("dropping invalid deal", "deal", map[string]any{"id": p.ID, "error": err.Error()})
			continue
		}
		out = append(out, d)
	}
	return out
}

// image picks the first absolute image URL: body image, then post images, then the default.
// Relative and protocol-relative sources resolve against the post URL.
func (n *Normalizer) image(p sources.RawPost) string {
	if src := resolveURL(FirstImage(p.Content), p.URL); src != "" {
		return src
	}
	for _, img := range p.Images {
		if src := resolveURL(img, p.URL); src != "" {
			return src
		}
	}
	return n.opts.DefaultImageURL
}

func (n *Normalizer) missingImage(u string) bool {
	return u == "" || u == n.opts.DefaultImageURL
}

// classifyLabels picks the category from the first label naming one, keeps every label as a tag
// (case-insensitively de-duplicated) and detects the featured marker.
func classifyLabels(labels []string) (domain.Category, []string, bool) {
	category := domain.CategoryNews
	var (
		found    bool
		featured bool
		tags     = make([]string, 0, len(labels))
		seen     = make(map[string]bool, len(labels))
	)
	for _, label := range labels {
		label = strings.TrimSpace(label)
		key := domain.NormalizeKey(label)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		tags = append(tags, label)

		if featuredLabels[key] {
			featured = true
		}
		if !found {
			if c, ok := domain.ParseCategory(label); ok && !c.IsAll() {
				category, found = c, true
			}
		}
	}
	return category, tags, featured
}

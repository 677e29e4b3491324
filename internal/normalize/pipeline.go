package normalize

import (
	"context"
	"fmt"

	"github.com/samvad-hq/samvad-portal/internal/domain"
	"github.com/samvad-hq/samvad-portal/pkg/sources"
)

// Pipeline fetches raw posts from one configured source and normalizes them.
// It satisfies content.Source and content.BodyFetcher.
type Pipeline struct {
	fetcher sources.Fetcher
	cfg     sources.Source
	norm    *Normalizer
	images  *PageImages
}

// NewPipeline binds a fetcher to its source config.
func NewPipeline(fetcher sources.Fetcher, cfg sources.Source, norm *Normalizer) *Pipeline {
	if norm == nil {
		norm = New(Options{}, nil)
	}
	return &Pipeline{fetcher: fetcher, cfg: cfg, norm: norm}
}

// WithPageImages makes Articles fill missing images from article pages.
func (p *Pipeline) WithPageImages(images *PageImages) *Pipeline {
	p.images = images
	return p
}

// Source returns the bound source config.
func (p *Pipeline) Source() sources.Source { return p.cfg }

func (p *Pipeline) Articles(ctx context.Context) ([]domain.Article, error) {
	posts, err := p.fetcher.FetchPosts(ctx, p.cfg)
	if err != nil {
		return nil, fmt.Errorf("fetch posts from %s: %w", p.cfg.ID, err)
	}
	articles := p.norm.Articles(posts)
	if p.images != nil {
		articles = p.images.Fill(ctx, articles, p.norm.missingImage)
	}
	return articles, nil
}

func (p *Pipeline) Deals(ctx context.Context) ([]domain.Deal, error) {
	posts, err := p.fetcher.FetchDeals(ctx, p.cfg)
	if err != nil {
		return nil, fmt.Errorf("fetch deals from %s: %w", p.cfg.ID, err)
	}
	return p.norm.Deals(posts), nil
}

func (p *Pipeline) FetchBody(ctx context.Context, id string) (string, error) {
	return p.fetcher.FetchBody(ctx, p.cfg, id)
}

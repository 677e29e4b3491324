package content

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/samvad-hq/samvad-portal/internal/domain"
	"github.com/samvad-hq/samvad-portal/internal/logger"
	"golang.org/x/sync/errgroup"
)

// Source yields normalized articles and deals from the external content host.
type Source interface {
	Articles(ctx context.Context) ([]domain.Article, error)
	Deals(ctx context.Context) ([]domain.Deal, error)
}

// Result describes one Load call.
type Result struct {
	Generation    uint64
	Applied       bool
	ArticleOrigin Origin
	DealOrigin    Origin
	// FetchErr is the error that forced a full fallback, if any.
	FetchErr error
}

// Loader fetches content and replaces the store wholesale.
type Loader struct {
	source   Source
	fallback Dataset
	store    *Store
	log      logger.Logger
	now      func() time.Time

	generation atomic.Uint64
	applyMu    sync.Mutex
}

// NewLoader wires a loader. A nil source always yields the fallback dataset.
func NewLoader(source Source, fallback Dataset, store *Store, log logger.Logger) *Loader {
	if store == nil {
		store = NewStore()
	}
	return &Loader{
		source:   source,
		fallback: fallback,
		store:    store,
		log:      logger.Ensure(log),
		now:      time.Now,
	}
}

// Store returns the store this loader writes to.
func (l *Loader) Store() *Store { return l.store }

// Latest returns the most recently requested generation.
func (l *Loader) Latest() uint64 { return l.generation.Load() }

// Load fetches articles and deals concurrently and applies the result if no newer load was
// requested meanwhile. A fetch error replaces both halves with the fallback dataset; an empty
// half is replaced on its own.
func (l *Loader) Load(ctx context.Context) Result {
	gen := l.generation.Add(1)
	res := Result{Generation: gen}

	articles, deals, err := l.fetch(ctx)
	if err != nil {
		res.FetchErr = err
		articles, deals = nil, nil
		l.log.WarnObj("content load failed; using fallback dataset", "load_error", map[string]any{
			"generation": gen,
			"error":      err.Error(),
		})
	}

	res.ArticleOrigin = OriginLive
	if len(articles) == 0 {
		articles = l.fallback.Articles
		res.ArticleOrigin = OriginFallback
	}
	res.DealOrigin = OriginLive
	if len(deals) == 0 {
		deals = l.fallback.Deals
		res.DealOrigin = OriginFallback
	}

	snap := NewSnapshot(gen, articles, deals, res.ArticleOrigin, res.DealOrigin, l.now().UTC())

	l.applyMu.Lock()
	defer l.applyMu.Unlock()
	if latest := l.generation.Load(); gen != latest {
		l.log.InfoObj("discarding stale content load", "load_meta", map[string]any{
			"generation": gen,
			"latest":     latest,
		})
		return res
	}
	l.store.replace(snap)
	res.Applied = true

	l.log.InfoObj("content snapshot applied", "snapshot", snap.Status())
	return res
}

func (l *Loader) fetch(ctx context.Context) ([]domain.Article, []domain.Deal, error) {
	if l.source == nil {
		return nil, nil, nil
	}

	var (
		articles []domain.Article
		deals    []domain.Deal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if articles, err = l.source.Articles(gctx); err != nil {
			return fmt.Errorf("fetch articles: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if deals, err = l.source.Deals(gctx); err != nil {
			return fmt.Errorf("fetch deals: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return articles, deals, nil
}

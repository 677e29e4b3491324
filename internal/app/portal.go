package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/samvad-hq/samvad-portal/internal/api"
	"github.com/samvad-hq/samvad-portal/internal/catalog"
	"github.com/samvad-hq/samvad-portal/internal/config"
	"github.com/samvad-hq/samvad-portal/internal/content"
	"github.com/samvad-hq/samvad-portal/internal/logger"
	"github.com/samvad-hq/samvad-portal/internal/normalize"
	"github.com/samvad-hq/samvad-portal/internal/storage"
	"github.com/samvad-hq/samvad-portal/pkg/httpclient"
	"github.com/samvad-hq/samvad-portal/pkg/publishers"
	"github.com/samvad-hq/samvad-portal/pkg/sources"
)

const (
	publishTimeout  = 15 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Options selects which outer integrations a Portal wires.
type Options struct {
	// Offline skips the content source; every load yields the fallback dataset.
	Offline bool
	// Publish enables snapshot notifications to the configured publishers.
	Publish bool
}

// Portal owns the content store and keeps it fresh, serving the JSON API on top of it.
type Portal struct {
	cfg     *config.Config
	log     logger.Logger
	loader  *content.Loader
	store   *content.Store
	bodies  *content.Bodies
	related *catalog.RelatedCache
	fanout  *publishers.Fanout
	cache   storage.Store
	api     *api.Server

	reloadCh chan struct{}
	wg       sync.WaitGroup
}

// deps are the collaborators NewPortal resolves from config.
type deps struct {
	source      content.Source
	bodyFetcher content.BodyFetcher
	cache       storage.Store
	fanout      *publishers.Fanout
	fallback    content.Dataset
}

// NewPortal builds a portal runtime from config files.
func NewPortal(ctx context.Context, cfg *config.Config, opts Options, log logger.Logger) (*Portal, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)
	if ctx == nil {
		ctx = context.Background()
	}

	fallback, err := content.LoadDataset(cfg.FallbackFile)
	if err != nil {
		return nil, fmt.Errorf("load fallback dataset: %w", err)
	}
	d := deps{fallback: fallback}

	if !opts.Offline {
		pipeline, err := buildPipeline(cfg, log)
		if err != nil {
			return nil, err
		}
		d.source, d.bodyFetcher = pipeline, pipeline
	}

	d.cache, err = storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		BodyTTL:         cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	if opts.Publish && !opts.Offline {
		d.fanout, err = buildFanout(ctx, cfg, log)
		if err != nil {
			d.cache.Close()
			return nil, err
		}
	}

	return newPortal(cfg, d, log), nil
}

func buildPipeline(cfg *config.Config, log logger.Logger) (*normalize.Pipeline, error) {
	reg, err := sources.LoadRegistry(cfg.SourcesFile)
	if err != nil {
		return nil, fmt.Errorf("load sources registry: %w", err)
	}
	active, err := reg.Active(cfg.ContentSource)
	if err != nil {
		return nil, err
	}

	client := httpclient.NewRestyClientWithOptions(httpclient.Options{
		Timeout:    cfg.LoadTimeout,
		UserAgent:  cfg.AppName,
		RetryCount: 2,
	})
	fetcher, err := sources.DefaultFetcherRegistry(client).FetcherFor(active)
	if err != nil {
		return nil, fmt.Errorf("resolve fetcher: %w", err)
	}
	log.InfoObj("content source selected", "source_meta", map[string]any{
		"id":          active.ID,
		"type":        active.Type,
		"max_results": active.MaxResults,
	})

	norm := normalize.New(normalize.Options{
		DateLayout:      cfg.DateLayout,
		ExcerptLength:   cfg.ExcerptLength,
		DefaultImageURL: cfg.DefaultImageURL,
	}, log)
	pipeline := normalize.NewPipeline(fetcher, active, norm)
	if cfg.ImageScrapeLimit > 0 {
		pipeline.WithPageImages(normalize.NewPageImages(client, normalize.PageImagesOptions{
			Limit:   cfg.ImageScrapeLimit,
			Delay:   cfg.ImageScrapeDelay,
			Headers: sources.Headers(active),
		}, log))
	}
	return pipeline, nil
}

func buildFanout(ctx context.Context, cfg *config.Config, log logger.Logger) (*publishers.Fanout, error) {
	publisherReg, err := publishers.LoadOptionalRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabled := publisherReg.Enabled()
	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]string{"id": pubCfg.ID, "type": pubCfg.Type})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubClients), nil
}

func newPortal(cfg *config.Config, d deps, log logger.Logger) *Portal {
	log = logger.Ensure(log)
	if d.cache == nil {
		d.cache, _ = storage.NewStore("none", "", storage.Options{})
	}

	store := content.NewStore()
	p := &Portal{
		cfg:      cfg,
		log:      log,
		store:    store,
		loader:   content.NewLoader(d.source, d.fallback, store, log),
		bodies:   content.NewBodies(d.bodyFetcher, d.cache, content.BodiesOptions{Timeout: cfg.BodyFetchTimeout, RPS: cfg.BodyFetchRPS}, log),
		related:  catalog.NewRelatedCache(nil),
		fanout:   d.fanout,
		cache:    d.cache,
		reloadCh: make(chan struct{}, 1),
	}
	p.api = api.NewServer(store, p.bodies, p.related, p, api.Options{
		CarouselSize: cfg.CarouselSize,
		BodyTimeout:  cfg.BodyFetchTimeout,
	}, log)

	store.Subscribe(func(*content.Snapshot) {
		p.related.Reset()
		p.bodies.Reset()
	})
	store.Subscribe(p.publish)
	return p
}

// Store exposes the content store.
func (p *Portal) Store() *content.Store { return p.store }

// Bodies exposes the lazy body overlay.
func (p *Portal) Bodies() *content.Bodies { return p.bodies }

// Related exposes the related-articles memo.
func (p *Portal) Related() *catalog.RelatedCache { return p.related }

// Handler returns the HTTP handler serving the JSON API.
func (p *Portal) Handler() http.Handler { return p.api.SetupRouter() }

// LoadOnce runs one bounded content load.
func (p *Portal) LoadOnce(ctx context.Context) content.Result {
	start := time.Now()
	if p.cfg.LoadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.LoadTimeout)
		defer cancel()
	}

	res := p.loader.Load(ctx)
	p.log.InfoObj("content load finished", "load_meta", map[string]any{
		"generation":     res.Generation,
		"applied":        res.Applied,
		"article_origin": res.ArticleOrigin,
		"deal_origin":    res.DealOrigin,
		"elapsed_ms":     time.Since(start).Milliseconds(),
	})
	return res
}

// Reload requests an asynchronous load. Requests made while one is pending are coalesced.
func (p *Portal) Reload() {
	select {
	case p.reloadCh <- struct{}{}:
	default:
	}
}

// Run loads content, serves HTTP on http_addr when set, and reloads on the configured interval
// or on request until ctx is cancelled.
func (p *Portal) Run(ctx context.Context) error {
	if p == nil || p.loader == nil {
		return fmt.Errorf("portal is not initialized")
	}

	p.LoadOnce(ctx)

	var (
		srv     *http.Server
		srvErrs = make(chan error, 1)
	)
	if p.cfg.HTTPAddr != "" {
		srv = &http.Server{
			Addr:              p.cfg.HTTPAddr,
			Handler:           p.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				srvErrs <- err
			}
		}()
		p.log.InfoObj("http server listening", "http_addr", p.cfg.HTTPAddr)
	}

	var tick <-chan time.Time
	if p.cfg.ReloadInterval > 0 {
		ticker := time.NewTicker(p.cfg.ReloadInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	p.log.InfoObj("portal loop starting", "portal_state", map[string]any{
		"publishers_count": p.fanout.Size(),
		"reload_interval":  p.cfg.ReloadInterval.String(),
	})

	var runErr error
loop:
	for {
		select {
		case <-ctx.Done():
			p.log.InfoObj("portal loop exiting", "reason", ctx.Err().Error())
			break loop
		case err := <-srvErrs:
			runErr = fmt.Errorf("http server: %w", err)
			break loop
		case <-tick:
			p.LoadOnce(ctx)
		case <-p.reloadCh:
			p.LoadOnce(ctx)
		}
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			p.log.ErrorObj("http server shutdown failed", "error", err.Error())
		}
	}
	return errors.Join(runErr, p.Close())
}

// Close waits for in-flight notifications and releases publishers and storage.
func (p *Portal) Close() error {
	p.wg.Wait()
	var errs []error
	if err := p.fanout.Close(); err != nil {
		errs = append(errs, err)
	}
	if p.cache != nil {
		if err := p.cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close storage: %w", err))
		}
	}
	return errors.Join(errs...)
}

// publish announces a snapshot replacement without holding up the loader.
func (p *Portal) publish(snap *content.Snapshot) {
	if p.fanout.Size() == 0 {
		return
	}
	st := snap.Status()
	evt := publishers.NewEvent(st.Version, st.Articles, st.Deals, string(st.ArticleOrigin), string(st.DealOrigin), st.LoadedAt)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		delivered, err := p.fanout.Publish(ctx, evt)
		if err != nil {
			p.log.ErrorObj("snapshot event publish failed", "publish_error", map[string]any{
				"event_id":  evt.ID,
				"version":   evt.Version,
				"delivered": delivered,
				"error":     err.Error(),
			})
			return
		}
		p.log.DebugObj("snapshot event published", "publish_meta", map[string]any{
			"event_id":  evt.ID,
			"version":   evt.Version,
			"delivered": delivered,
		})
	}()
}

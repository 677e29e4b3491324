package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samvad-hq/samvad-portal/internal/config"
	"github.com/samvad-hq/samvad-portal/internal/content"
	"github.com/samvad-hq/samvad-portal/internal/domain"
	"github.com/samvad-hq/samvad-portal/pkg/publishers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type countingSource struct {
	calls atomic.Int32
}

func (s *countingSource) Articles(context.Context) ([]domain.Article, error) {
	s.calls.Add(1)
	return []domain.Article{
		{ID: "a1", Title: "Pixel 9 recensione", Category: domain.CategoryReviews, Tags: []string{"Pixel"}},
		{ID: "a2", Title: "Android 16 beta", Category: domain.CategoryNews, Tags: []string{"Android"}},
		{ID: "a3", Title: "Root su Pixel", Category: domain.CategoryModding, Tags: []string{"Pixel"}},
	}, nil
}

func (s *countingSource) Deals(context.Context) ([]domain.Deal, error) {
	return []domain.Deal{{ID: "d1", Product: "Pixel 9"}}, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishers.Event
	err    error
}

func (p *recordingPublisher) ID() string   { return "rec" }
func (p *recordingPublisher) Type() string { return "test" }

func (p *recordingPublisher) Publish(_ context.Context, evt publishers.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func (p *recordingPublisher) recorded() []publishers.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishers.Event(nil), p.events...)
}

func testConfig() *config.Config {
	return &config.Config{
		AppName:          "samvad-portal-test",
		LoadTimeout:      2 * time.Second,
		BodyFetchTimeout: time.Second,
		BodyFetchRPS:     5,
		DateLayout:       "02 Jan 2006",
		ExcerptLength:    160,
		CarouselSize:     5,
		StorageType:      "none",
	}
}

func testFallback(t *testing.T) content.Dataset {
	t.Helper()
	ds, err := content.LoadDataset("")
	require.NoError(t, err)
	return ds
}

func TestLoadOnceAppliesLiveSnapshot(t *testing.T) {
	src := &countingSource{}
	p := newPortal(testConfig(), deps{source: src, fallback: testFallback(t)}, nil)
	t.Cleanup(func() { _ = p.Close() })

	res := p.LoadOnce(context.Background())
	require.True(t, res.Applied)
	assert.Equal(t, content.OriginLive, res.ArticleOrigin)
	assert.Equal(t, content.OriginLive, res.DealOrigin)

	snap := p.Store().Snapshot()
	assert.Equal(t, uint64(1), snap.Version())
	assert.Equal(t, 3, snap.Len())
}

func TestReloadResetsRelatedCache(t *testing.T) {
	p := newPortal(testConfig(), deps{source: &countingSource{}, fallback: testFallback(t)}, nil)
	t.Cleanup(func() { _ = p.Close() })

	p.LoadOnce(context.Background())
	snap := p.Store().Snapshot()
	current, ok := snap.Article("a1")
	require.True(t, ok)
	p.Related().Related(&current, snap.Articles(), snap.Version())
	require.Equal(t, 1, p.Related().Len())

	p.LoadOnce(context.Background())
	assert.Equal(t, 0, p.Related().Len())
}

type stubBodies struct{}

func (stubBodies) FetchBody(_ context.Context, id string) (string, error) {
	return "<p>full body of " + id + " fetched on demand</p>", nil
}

func TestReloadDropsInMemoryBodies(t *testing.T) {
	d := deps{source: &countingSource{}, bodyFetcher: stubBodies{}, fallback: testFallback(t)}
	p := newPortal(testConfig(), d, nil)
	t.Cleanup(func() { _ = p.Close() })

	p.LoadOnce(context.Background())
	a, ok := p.Store().Snapshot().Article("a1")
	require.True(t, ok)
	p.Bodies().Refresh(context.Background(), a)
	require.Equal(t, 1, p.Bodies().Len())

	p.LoadOnce(context.Background())
	assert.Equal(t, 0, p.Bodies().Len())
}

func TestSnapshotEventsReachPublishers(t *testing.T) {
	rec := &recordingPublisher{}
	d := deps{
		source:   &countingSource{},
		fallback: testFallback(t),
		fanout:   publishers.NewFanout([]publishers.Publisher{rec}),
	}
	p := newPortal(testConfig(), d, nil)

	p.LoadOnce(context.Background())
	require.NoError(t, p.Close())

	events := rec.recorded()
	require.Len(t, events, 1)
	assert.Equal(t, uint64(1), events[0].Version)
	assert.Equal(t, 3, events[0].Articles)
	assert.Equal(t, 1, events[0].Deals)
	assert.Equal(t, string(content.OriginLive), events[0].ArticleSource)
	assert.NotEmpty(t, events[0].ID)
}

func TestPublishFailureDoesNotBlockLoad(t *testing.T) {
	rec := &recordingPublisher{err: errors.New("broker down")}
	d := deps{
		source:   &countingSource{},
		fallback: testFallback(t),
		fanout:   publishers.NewFanout([]publishers.Publisher{rec}),
	}
	p := newPortal(testConfig(), d, nil)

	res := p.LoadOnce(context.Background())
	require.NoError(t, p.Close())
	assert.True(t, res.Applied)
	assert.Len(t, rec.recorded(), 1)
}

func TestRunReloadsOnRequestAndStops(t *testing.T) {
	src := &countingSource{}
	p := newPortal(testConfig(), deps{source: src, fallback: testFallback(t)}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	require.Eventually(t, func() bool { return src.calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	p.Reload()
	require.Eventually(t, func() bool { return src.calls.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("run did not return after cancellation")
	}
	assert.GreaterOrEqual(t, p.Store().Snapshot().Version(), uint64(2))
}

func TestRunReloadsOnInterval(t *testing.T) {
	cfg := testConfig()
	cfg.ReloadInterval = 20 * time.Millisecond
	src := &countingSource{}
	p := newPortal(cfg, deps{source: src, fallback: testFallback(t)}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	require.Eventually(t, func() bool { return src.calls.Load() >= 3 }, 2*time.Second, 10*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
}

func TestHandlerServesAPI(t *testing.T) {
	p := newPortal(testConfig(), deps{source: &countingSource{}, fallback: testFallback(t)}, nil)
	t.Cleanup(func() { _ = p.Close() })
	p.LoadOnce(context.Background())

	h := p.Handler()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/articles/a2", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Android 16 beta")

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/reload", nil))
	assert.Equal(t, http.StatusAccepted, rr.Code)
}

func TestNewPortalOfflineUsesFallback(t *testing.T) {
	cfg := testConfig()
	cfg.SourcesFile = filepath.Join(t.TempDir(), "missing.yaml")

	p, err := NewPortal(context.Background(), cfg, Options{Offline: true, Publish: true}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	res := p.LoadOnce(context.Background())
	assert.True(t, res.Applied)
	assert.Equal(t, content.OriginFallback, res.ArticleOrigin)
	assert.Equal(t, content.OriginFallback, res.DealOrigin)
	assert.Equal(t, testFallback(t).Articles[0].ID, p.Store().Snapshot().Articles()[0].ID)
}

func TestNewPortalRequiresSourcesFile(t *testing.T) {
	cfg := testConfig()
	cfg.SourcesFile = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := NewPortal(context.Background(), cfg, Options{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load sources registry")
}

func TestNewPortalWithBoltStorage(t *testing.T) {
	cfg := testConfig()
	cfg.StorageType = "bbolt"
	cfg.BBoltPath = filepath.Join(t.TempDir(), "bodies.db")
	cfg.StorageTTL = time.Hour
	cfg.StorageCleanupInterval = time.Hour

	p, err := NewPortal(context.Background(), cfg, Options{Offline: true}, nil)
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestNewPortalRejectsNilConfig(t *testing.T) {
	_, err := NewPortal(context.Background(), nil, Options{}, nil)
	assert.Error(t, err)
}

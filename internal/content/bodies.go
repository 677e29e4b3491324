package content

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/samvad-hq/samvad-portal/internal/domain"
	"github.com/samvad-hq/samvad-portal/internal/logger"
	"golang.org/x/time/rate"
)

// BodyFetcher retrieves the full body of a single post.
type BodyFetcher interface {
	FetchBody(ctx context.Context, id string) (string, error)
}

// BodyCache persists refreshed bodies across restarts.
type BodyCache interface {
	GetBody(id string) (string, bool, error)
	PutBody(id, body string) error
}

// BodiesOptions configures a Bodies overlay.
type BodiesOptions struct {
	Timeout time.Duration
	// RPS caps outbound body fetches; zero or negative disables the limit.
	RPS float64
}

// Bodies overlays refreshed article bodies on top of the immutable snapshot.
// A refreshed body only replaces the original when it is strictly longer, and only for the
// snapshot body it was fetched against: an upstream edit changes the key and retires the overlay.
type Bodies struct {
	fetcher BodyFetcher
	cache   BodyCache
	limiter *rate.Limiter
	timeout time.Duration
	log     logger.Logger

	mu     sync.RWMutex
	bodies map[string]string
}

// NewBodies builds an overlay. Either fetcher or cache may be nil.
func NewBodies(fetcher BodyFetcher, cache BodyCache, opts BodiesOptions, log logger.Logger) *Bodies {
	limit := rate.Inf
	burst := 1
	if opts.RPS > 0 {
		limit = rate.Limit(opts.RPS)
		if b := int(opts.RPS); b > 1 {
			burst = b
		}
	}
	return &Bodies{
		fetcher: fetcher,
		cache:   cache,
		limiter: rate.NewLimiter(limit, burst),
		timeout: opts.Timeout,
		log:     logger.Ensure(log),
		bodies:  make(map[string]string),
	}
}

// Apply returns a with the longest known body, without any network access.
func (b *Bodies) Apply(a domain.Article) domain.Article {
	if b == nil {
		return a
	}
	return b.apply(overlayKey(a), a)
}

func (b *Bodies) apply(key string, a domain.Article) domain.Article {
	if body, ok := b.known(key); ok && longer(body, a.Content) {
		a = a.Clone()
		a.Content = body
	}
	return a
}

// Refresh fetches the full body of a and returns the article with the longer of the two.
// Failures are logged and the article is returned unchanged.
func (b *Bodies) Refresh(ctx context.Context, a domain.Article) domain.Article {
	if b == nil {
		return a
	}
	key := overlayKey(a)
	a = b.apply(key, a)
	if b.fetcher == nil || a.ID == "" {
		return a
	}

	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}
	if err := b.limiter.Wait(ctx); err != nil {
		b.log.DebugObj("body refresh skipped", "body_refresh", map[string]any{"id": a.ID, "error": err.Error()})
		return a
	}

	body, err := b.fetcher.FetchBody(ctx, a.ID)
	if err != nil {
		b.log.DebugObj("body refresh failed", "body_refresh", map[string]any{"id": a.ID, "error": err.Error()})
		return a
	}
	if !longer(body, a.Content) {
		return a
	}

	b.remember(key, body)
	out := a.Clone()
	out.Content = body
	return out
}

// Reset drops the in-memory overlay. The persistent cache keeps its entries until they expire.
func (b *Bodies) Reset() {
	if b == nil {
		return
	}
	b.mu.Lock()
	b.bodies = make(map[string]string)
	b.mu.Unlock()
}

// Len returns how many bodies are held in memory.
func (b *Bodies) Len() int {
	if b == nil {
		return 0
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.bodies)
}

func (b *Bodies) known(key string) (string, bool) {
	b.mu.RLock()
	body, ok := b.bodies[key]
	b.mu.RUnlock()
	if ok || b.cache == nil {
		return body, ok
	}

	body, ok, err := b.cache.GetBody(key)
	if err != nil {
		b.log.WarnObj("body cache read failed", "body_cache", map[string]any{"key": key, "error": err.Error()})
		return "", false
	}
	if ok {
		b.mu.Lock()
		b.bodies[key] = body
		b.mu.Unlock()
	}
	return body, ok
}

func (b *Bodies) remember(key, body string) {
	b.mu.Lock()
	if prev, ok := b.bodies[key]; !ok || longer(body, prev) {
		b.bodies[key] = body
	}
	b.mu.Unlock()

	if b.cache == nil {
		return
	}
	if err := b.cache.PutBody(key, body); err != nil {
		b.log.WarnObj("body cache write failed", "body_cache", map[string]any{"key": key, "error": err.Error()})
	}
}

// overlayKey binds an overlay entry to the article ID and the snapshot body it was fetched against.
func overlayKey(a domain.Article) string {
	sum := sha1.Sum([]byte(a.Content))
	return a.ID + ":" + hex.EncodeToString(sum[:8])
}

func longer(candidate, current string) bool {
	return utf8.RuneCountInString(candidate) > utf8.RuneCountInString(current)
}

package sources

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/samvad-hq/samvad-portal/pkg/httpclient"
)

// fetcherRegistry implements FetcherRegistry, keyed by source type.
type fetcherRegistry struct {
	fetchersByType map[string]Fetcher
	mu             sync.RWMutex
}

// NewFetcherRegistry builds a registry from type-keyed fetcher implementations.
func NewFetcherRegistry(typeFetchers map[string]Fetcher) FetcherRegistry {
	reg := &fetcherRegistry{fetchersByType: make(map[string]Fetcher)}
	for typ, f := range typeFetchers {
		reg.registerTypeFetcher(typ, f)
	}
	return reg
}

func (r *fetcherRegistry) registerTypeFetcher(typ string, f Fetcher) {
	if f == nil {
		return
	}
	key := strings.ToLower(strings.TrimSpace(typ))
	if key == "" {
		return
	}

	r.mu.Lock()
	r.fetchersByType[key] = f
	r.mu.Unlock()
}

// FetcherFor selects the fetcher for the given source based on its type.
func (r *fetcherRegistry) FetcherFor(cfg Source) (Fetcher, error) {
	if r == nil {
		return nil, fmt.Errorf("fetcher registry is nil")
	}
	if strings.TrimSpace(cfg.ID) == "" {
		return nil, fmt.Errorf("source id is empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	typeKey := strings.ToLower(strings.TrimSpace(cfg.Type))
	if typeKey != "" {
		if f, ok := r.fetchersByType[typeKey]; ok {
			return f, nil
		}
	}

	return nil, fmt.Errorf("no fetcher registered for source %q (type %q)", cfg.ID, cfg.Type)
}

// DefaultHTTPClient returns the resty-backed client used by source fetchers.
func DefaultHTTPClient() HTTPClient {
	return httpclient.NewRestyClientWithOptions(httpclient.Options{Timeout: 15 * time.Second, RetryCount: 2})
}

// DefaultFetcherRegistry wires up known source fetchers.
func DefaultFetcherRegistry(client HTTPClient) FetcherRegistry {
	if client == nil {
		client = DefaultHTTPClient()
	}

	typeFetchers := map[string]Fetcher{
		TypeBlogger:     NewBloggerFetcher(),
		TypeBloggerFeed: NewBloggerFeedFetcher(client),
	}

	return NewFetcherRegistry(typeFetchers)
}

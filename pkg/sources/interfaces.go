package sources

import (
	"context"
	"time"

	"github.com/samvad-hq/samvad-portal/pkg/httpclient"
)

// RawPost is a blog post as the content host returns it, before normalization.
type RawPost struct {
	ID        string
	Title     string
	Content   string
	Labels    []string
	Author    string
	Published time.Time
	URL       string
	Images    []string
}

// Fetcher retrieves posts for one kind of content source.
// Concrete implementations live in type-specific files (e.g., blogger.go).
type Fetcher interface {
	ID() string
	FetchPosts(ctx context.Context, cfg Source) ([]RawPost, error)
	FetchDeals(ctx context.Context, cfg Source) ([]RawPost, error)
	FetchBody(ctx context.Context, cfg Source, postID string) (string, error)
}

// FetcherRegistry resolves the fetcher implementation for a given source config.
type FetcherRegistry interface {
	FetcherFor(cfg Source) (Fetcher, error)
}

// HTTPClient aliases the shared httpclient.Client interface for clarity within sources.
type HTTPClient = httpclient.Client

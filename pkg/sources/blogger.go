package sources

import (
	"context"
	"fmt"
	"strings"
	"time"

	blogger "google.golang.org/api/blogger/v3"
	"google.golang.org/api/option"
)

// bloggerPageSize is the largest page the Blogger API serves for posts.list.
const bloggerPageSize = 500

// bloggerFetcher implements Fetcher over the Blogger API v3.
type bloggerFetcher struct {
	newService func(ctx context.Context, cfg Source) (*blogger.Service, error)
}

// NewBloggerFetcher builds a fetcher for the Blogger API. The API key comes from config.api_key;
// config.endpoint overrides the API base URL.
func NewBloggerFetcher() Fetcher {
	return &bloggerFetcher{newService: newBloggerService}
}

func newBloggerService(ctx context.Context, cfg Source) (*blogger.Service, error) {
	opts := []option.ClientOption{option.WithAPIKey(ConfigString(cfg, ConfigAPIKeyKey, ""))}
	if endpoint := ConfigString(cfg, ConfigEndpointKey, ""); endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	if ua := ConfigString(cfg, ConfigUserAgentKey, ""); ua != "" {
		opts = append(opts, option.WithUserAgent(ua))
	}
	svc, err := blogger.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create blogger service: %w", err)
	}
	return svc, nil
}

func (f *bloggerFetcher) ID() string {
	return TypeBlogger
}

func (f *bloggerFetcher) FetchPosts(ctx context.Context, cfg Source) ([]RawPost, error) {
	return f.list(ctx, cfg, "")
}

func (f *bloggerFetcher) FetchDeals(ctx context.Context, cfg Source) ([]RawPost, error) {
	return f.list(ctx, cfg, cfg.DealsLabel)
}

func (f *bloggerFetcher) FetchBody(ctx context.Context, cfg Source, postID string) (string, error) {
	if err := f.check(cfg); err != nil {
		return "", err
	}
	if strings.TrimSpace(postID) == "" {
		return "", fmt.Errorf("post id is empty")
	}

	svc, err := f.newService(ctx, cfg)
	if err != nil {
		return "", err
	}
	post, err := svc.Posts.Get(cfg.BlogID, postID).FetchBody(true).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("get %s post %s: %w", cfg.ID, postID, err)
	}
	return post.Content, nil
}

func (f *bloggerFetcher) check(cfg Source) error {
	if !strings.EqualFold(cfg.Type, TypeBlogger) {
		return fmt.Errorf("blogger fetcher received incompatible source type %q", cfg.Type)
	}
	if strings.TrimSpace(cfg.BlogID) == "" {
		return fmt.Errorf("source %q blog_id is empty", cfg.ID)
	}
	return nil
}

// list pages through posts.list until max_results posts were collected or the blog runs out.
func (f *bloggerFetcher) list(ctx context.Context, cfg Source, label string) ([]RawPost, error) {
	if err := f.check(cfg); err != nil {
		return nil, err
	}

	svc, err := f.newService(ctx, cfg)
	if err != nil {
		return nil, err
	}

	limit := cfg.MaxResults
	if limit <= 0 {
		limit = defaultMaxResults
	}

	posts := make([]RawPost, 0, limit)
	pageToken := ""
	for len(posts) < limit {
		call := svc.Posts.List(cfg.BlogID).
			FetchBodies(true).
			FetchImages(true).
			MaxResults(int64(min(limit-len(posts), bloggerPageSize)))
		if label != "" {
			call = call.Labels(label)
		}
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		page, err := call.Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("list %s posts: %w", cfg.ID, err)
		}
		for _, item := range page.Items {
			if item == nil {
				continue
			}
			posts = append(posts, rawPostFromBlogger(item))
		}
		if page.NextPageToken == "" || len(page.Items) == 0 {
			break
		}
		pageToken = page.NextPageToken
	}

	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func rawPostFromBlogger(p *blogger.Post) RawPost {
	out := RawPost{
		ID:      p.Id,
		Title:   strings.TrimSpace(p.Title),
		Content: p.Content,
		Labels:  dedupeStrings(p.Labels),
		URL:     p.Url,
	}
	if p.Author != nil {
		out.Author = strings.TrimSpace(p.Author.DisplayName)
	}
	if ts, err := time.Parse(time.RFC3339, p.Published); err == nil {
		out.Published = ts
	}
	images := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		if img != nil {
			images = append(images, img.Url)
		}
	}
	out.Images = dedupeStrings(images)
	return out
}

package sources

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed"
)

// feedPageSize is the page size Blogger's public feeds honor.
const feedPageSize = 150

// bloggerFeedFetcher implements Fetcher over the public Blogger Atom feeds.
type bloggerFeedFetcher struct {
	client HTTPClient
}

// NewBloggerFeedFetcher builds a fetcher reading /feeds/posts/default under source_url.
func NewBloggerFeedFetcher(client HTTPClient) Fetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &bloggerFeedFetcher{client: client}
}

func (f *bloggerFeedFetcher) ID() string {
	return TypeBloggerFeed
}

func (f *bloggerFeedFetcher) FetchPosts(ctx context.Context, cfg Source) ([]RawPost, error) {
	return f.list(ctx, cfg, "")
}

func (f *bloggerFeedFetcher) FetchDeals(ctx context.Context, cfg Source) ([]RawPost, error) {
	return f.list(ctx, cfg, cfg.DealsLabel)
}

// FetchBody reads the single-entry document at /feeds/posts/default/<postID>.
func (f *bloggerFeedFetcher) FetchBody(ctx context.Context, cfg Source, postID string) (string, error) {
	if err := f.check(cfg); err != nil {
		return "", err
	}
	postID = strings.TrimSpace(postID)
	if postID == "" {
		return "", fmt.Errorf("post id is empty")
	}

	raw, err := fetchDocument(ctx, f.client, cfg.SourceURL+"/feeds/posts/default/"+url.PathEscape(postID), cfg.ID, Headers(cfg))
	if err != nil {
		return "", err
	}

	var entry struct {
		Content string `xml:"content"`
		Summary string `xml:"summary"`
	}
	if err := xml.Unmarshal(raw, &entry); err != nil {
		return "", fmt.Errorf("decode %s entry: %w", cfg.ID, err)
	}
	if entry.Content != "" {
		return entry.Content, nil
	}
	return entry.Summary, nil
}

func (f *bloggerFeedFetcher) check(cfg Source) error {
	if !strings.EqualFold(cfg.Type, TypeBloggerFeed) {
		return fmt.Errorf("blogger feed fetcher received incompatible source type %q", cfg.Type)
	}
	if strings.TrimSpace(cfg.SourceURL) == "" {
		return fmt.Errorf("source %q source_url is empty", cfg.ID)
	}
	return nil
}

func (f *bloggerFeedFetcher) list(ctx context.Context, cfg Source, label string) ([]RawPost, error) {
	if err := f.check(cfg); err != nil {
		return nil, err
	}

	limit := cfg.MaxResults
	if limit <= 0 {
		limit = defaultMaxResults
	}

	parser := gofeed.NewParser()
	headers := Headers(cfg)
	posts := make([]RawPost, 0, limit)

	// start-index is 1-based.
	for start := 1; len(posts) < limit; {
		pageSize := min(limit-len(posts), feedPageSize)
		raw, err := fetchDocument(ctx, f.client, feedURL(cfg.SourceURL, label, start, pageSize), cfg.ID, headers)
		if err != nil {
			return nil, err
		}

		feed, err := parser.ParseString(string(raw))
		if err != nil {
			return nil, fmt.Errorf("decode %s feed: %w", cfg.ID, err)
		}
		for _, item := range feed.Items {
			if item == nil {
				continue
			}
			posts = append(posts, rawPostFromFeed(item))
		}
		if len(feed.Items) < pageSize {
			break
		}
		start += len(feed.Items)
	}

	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func feedURL(base, label string, start, size int) string {
	path := base + "/feeds/posts/default"
	if label != "" {
		path += "/-/" + url.PathEscape(label)
	}
	q := url.Values{}
	q.Set("max-results", strconv.Itoa(size))
	q.Set("start-index", strconv.Itoa(start))
	return path + "?" + q.Encode()
}

func rawPostFromFeed(item *gofeed.Item) RawPost {
	out := RawPost{
		ID:     feedPostID(item.GUID),
		Title:  strings.TrimSpace(item.Title),
		Labels: dedupeStrings(item.Categories),
		URL:    item.Link,
	}
	out.Content = item.Content
	if out.Content == "" {
		out.Content = item.Description
	}
	if len(item.Authors) > 0 && item.Authors[0] != nil {
		out.Author = strings.TrimSpace(item.Authors[0].Name)
	}
	switch {
	case item.PublishedParsed != nil:
		out.Published = *item.PublishedParsed
	case item.UpdatedParsed != nil:
		out.Published = *item.UpdatedParsed
	}

	var images []string
	if item.Image != nil {
		images = append(images, item.Image.URL)
	}
	for _, thumb := range item.Extensions["media"]["thumbnail"] {
		images = append(images, thumb.Attrs["url"])
	}
	out.Images = dedupeStrings(images)
	return out
}

// feedPostID extracts the numeric post id from ids like "tag:blogger.com,1999:blog-1.post-2".
func feedPostID(guid string) string {
	guid = strings.TrimSpace(guid)
	if i := strings.LastIndex(guid, ".post-"); i >= 0 {
		return guid[i+len(".post-"):]
	}
	return guid
}

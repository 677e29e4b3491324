package normalize

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/samvad-hq/samvad-portal/internal/domain"
	"github.com/samvad-hq/samvad-portal/internal/logger"
	"github.com/samvad-hq/samvad-portal/pkg/httpclient"
)

const maxPageBytes = 1 << 20 // 1 MiB

// PageImagesOptions bounds how many article pages one load may visit.
type PageImagesOptions struct {
	Limit   int
	Delay   time.Duration
	Headers map[string]string
}

// PageImages fills missing article images from the og:image of the article's own page.
type PageImages struct {
	client httpclient.Client
	opts   PageImagesOptions
	log    logger.Logger
}

// NewPageImages builds a page image scraper. A non-positive limit disables it.
func NewPageImages(client httpclient.Client, opts PageImagesOptions, log logger.Logger) *PageImages {
	return &PageImages{client: client, opts: opts, log: logger.Ensure(log)}
}

// Fill returns a copy of articles where every article whose image is missing, up to the limit,
// takes the page's og:image. Failures keep the original article.
func (s *PageImages) Fill(ctx context.Context, articles []domain.Article, missing func(string) bool) []domain.Article {
	out := append([]domain.Article(nil), articles...)
	if s == nil || s.client == nil || s.opts.Limit <= 0 {
		return out
	}

	visited := 0
	for i, art := range out {
		if visited >= s.opts.Limit {
			break
		}
		if art.URL == "" || !missing(art.ImageURL) {
			continue
		}

		if visited > 0 && s.opts.Delay > 0 {
			timer := time.NewTimer(s.opts.Delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return out
			case <-timer.C:
			}
		}
		if ctx.Err() != nil {
			return out
		}
		visited++

		meta, err := s.fetchMeta(ctx, art.URL)
		if err != nil {
			s.log.WarnObj("article page scrape failed", "page_error", map[string]any{
				"article_id": art.ID,
				"url":        art.URL,
				"error":      err.Error(),
			})
			continue
		}
		if img := resolveURL(meta.ImageURL, art.URL); img != "" {
			out[i].ImageURL = img
		}
	}
	return out
}

func (s *PageImages) fetchMeta(ctx context.Context, pageURL string) (pageMeta, error) {
	resp, err := s.client.Get(ctx, pageURL, s.opts.Headers)
	if err != nil {
		return pageMeta{}, fmt.Errorf("http fetch: %w", err)
	}
	if resp.StatusCode() != 200 {
		snippet := strings.TrimSpace(string(resp.Body()))
		if len(snippet) > 512 {
			snippet = snippet[:512]
		}
		return pageMeta{}, fmt.Errorf("status %d body: %s", resp.StatusCode(), snippet)
	}

	body := resp.Body()
	if len(body) > maxPageBytes {
		body = body[:maxPageBytes]
	}
	return parseMeta(body)
}

type pageMeta struct {
	Title       string
	Description string
	ImageURL    string
}

func parseMeta(body []byte) (pageMeta, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return pageMeta{}, fmt.Errorf("parse html: %w", err)
	}

	extract := func(sel string) string {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if val, ok := node.Attr("content"); ok {
				return strings.TrimSpace(val)
			}
		}
		return ""
	}

	return pageMeta{
		Title: firstNonEmpty(
			extract(`meta[property="og:title"]`),
			doc.Find("title").First().Text(),
		),
		Description: firstNonEmpty(
			extract(`meta[property="og:description"]`),
			extract(`meta[name="description"]`),
		),
		ImageURL: firstNonEmpty(
			extract(`meta[property="og:image"]`),
			extract(`meta[name="twitter:image"]`),
		),
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

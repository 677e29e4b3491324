package sources

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newBloggerServer(t *testing.T) (*httptest.Server, *[]*http.Request) {
	t.Helper()
	var requests []*http.Request

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r)
		w.Header().Set("Content-Type", "application/json")

		switch {
		case strings.HasSuffix(r.URL.Path, "/v3/blogs/42/posts"):
			q := r.URL.Query()
			if q.Get("fetchBodies") != "true" {
				t.Errorf("expected fetchBodies=true, got %q", q.Get("fetchBodies"))
			}
			page := map[string]any{
				"items": []map[string]any{
					{
						"id":        "1",
						"title":     " First ",
						"content":   "<p>one</p>",
						"labels":    []string{"News", "News", "Android"},
						"author":    map[string]any{"displayName": "Redazione"},
						"published": "2025-01-24T09:30:00+01:00",
						"url":       "https://androidblog.blogspot.com/first.html",
						"images":    []map[string]any{{"url": "https://img.example/1.jpg"}},
					},
					{"id": "2", "title": "Second", "content": "<p>two</p>"},
				},
				"nextPageToken": "page-2",
			}
			if q.Get("pageToken") == "page-2" {
				page = map[string]any{
					"items": []map[string]any{{"id": "3", "title": "Third", "content": "<p>three</p>"}},
				}
			}
			if q.Get("labels") == "Offerte" {
				page = map[string]any{
					"items": []map[string]any{{"id": "9", "title": "Deal", "labels": []string{"Offerte"}}},
				}
			}
			_ = json.NewEncoder(w).Encode(page)
		case strings.HasSuffix(r.URL.Path, "/v3/blogs/42/posts/1"):
			_ = json.NewEncoder(w).Encode(map[string]any{"id": "1", "content": "<p>the full body</p>"})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func bloggerSource(endpoint string, max int) Source {
	return sanitizeSource(Source{
		ID:         "blog",
		Name:       "Blog",
		Type:       TypeBlogger,
		BlogID:     "42",
		MaxResults: max,
		Config: map[string]any{
			ConfigAPIKeyKey:   "test-key",
			ConfigEndpointKey: endpoint + "/",
		},
	})
}

func TestBloggerFetchPostsPages(t *testing.T) {
	srv, requests := newBloggerServer(t)

	posts, err := NewBloggerFetcher().FetchPosts(context.Background(), bloggerSource(srv.URL, 3))
	if err != nil {
		t.Fatalf("FetchPosts: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("expected 3 posts across two pages, got %d", len(posts))
	}
	if len(*requests) != 2 {
		t.Fatalf("expected 2 list requests, got %d", len(*requests))
	}

	first := posts[0]
	if first.Title != "First" || first.Author != "Redazione" {
		t.Fatalf("unexpected first post %+v", first)
	}
	if len(first.Labels) != 2 {
		t.Fatalf("expected duplicate labels removed, got %v", first.Labels)
	}
	if len(first.Images) != 1 || first.Published.IsZero() {
		t.Fatalf("expected image and published time, got %+v", first)
	}
}

func TestBloggerFetchPostsStopsAtLimit(t *testing.T) {
	srv, requests := newBloggerServer(t)

	posts, err := NewBloggerFetcher().FetchPosts(context.Background(), bloggerSource(srv.URL, 2))
	if err != nil {
		t.Fatalf("FetchPosts: %v", err)
	}
	if len(posts) != 2 || len(*requests) != 1 {
		t.Fatalf("expected one page of 2 posts, got %d posts in %d requests", len(posts), len(*requests))
	}
	if got := (*requests)[0].URL.Query().Get("maxResults"); got != "2" {
		t.Fatalf("expected maxResults=2, got %q", got)
	}
}

func TestBloggerFetchDealsFiltersByLabel(t *testing.T) {
	srv, _ := newBloggerServer(t)

	posts, err := NewBloggerFetcher().FetchDeals(context.Background(), bloggerSource(srv.URL, 10))
	if err != nil {
		t.Fatalf("FetchDeals: %v", err)
	}
	if len(posts) != 1 || posts[0].ID != "9" {
		t.Fatalf("unexpected deal posts %+v", posts)
	}
}

func TestBloggerFetchBody(t *testing.T) {
	srv, _ := newBloggerServer(t)

	body, err := NewBloggerFetcher().FetchBody(context.Background(), bloggerSource(srv.URL, 10), "1")
	if err != nil {
		t.Fatalf("FetchBody: %v", err)
	}
	if body != "<p>the full body</p>" {
		t.Fatalf("unexpected body %q", body)
	}

	if _, err := NewBloggerFetcher().FetchBody(context.Background(), bloggerSource(srv.URL, 10), "404"); err == nil {
		t.Fatalf("expected not found error")
	}
}

package sources

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadRegistryYAML(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "sources.yaml")
	content := `
sources:
  - id: androidblog
    name: Android Blog
    type: blogger
    blog_id: "123456789"
    max_results: 40
    config:
      api_key: secret
  - id: androidblog-feed
    name: Android Blog (feed)
    type: BLOGGER_FEED
    source_url: https://androidblog.blogspot.com/
`
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write sources file: %v", err)
	}

	reg, err := LoadRegistry(file)
	if err != nil {
		t.Fatalf("LoadRegistry returned error: %v", err)
	}

	if got := len(reg.Sources()); got != 2 {
		t.Fatalf("expected 2 sources, got %d", got)
	}

	s, ok := reg.ByID("androidblog")
	if !ok {
		t.Fatalf("expected source androidblog to be loaded")
	}
	if s.MaxResults != 40 || s.DealsLabel != defaultDealsLabel {
		t.Fatalf("unexpected defaults: max=%d deals=%q", s.MaxResults, s.DealsLabel)
	}

	feed, _ := reg.ByID("androidblog-feed")
	if feed.Type != TypeBloggerFeed {
		t.Fatalf("expected type to be normalized, got %q", feed.Type)
	}
	if feed.SourceURL != "https://androidblog.blogspot.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", feed.SourceURL)
	}
	if feed.MaxResults != defaultMaxResults {
		t.Fatalf("expected default max results, got %d", feed.MaxResults)
	}

	active, err := reg.Active("")
	if err != nil || active.ID != "androidblog" {
		t.Fatalf("expected first source to be active, got %q err=%v", active.ID, err)
	}
	if _, err := reg.Active("missing"); err == nil {
		t.Fatalf("expected unknown active source error")
	}
}

func TestParseRegistryJSON(t *testing.T) {
	raw := []byte(`{"sources":[{"id":"feed","name":"Feed","type":"blogger_feed","source_url":"https://x.blogspot.com"}]}`)
	reg, err := ParseRegistry(raw, ".json")
	if err != nil {
		t.Fatalf("ParseRegistry: %v", err)
	}
	if _, ok := reg.ByID("feed"); !ok {
		t.Fatalf("expected feed source")
	}
}

func TestParseRegistryRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"duplicate": `
sources:
  - {id: dup, name: One, type: blogger_feed, source_url: https://a.example}
  - {id: dup, name: Two, type: blogger_feed, source_url: https://b.example}
`,
		"missing api key": `
sources:
  - {id: b, name: B, type: blogger, blog_id: "1"}
`,
		"missing blog id": `
sources:
  - {id: b, name: B, type: blogger, config: {api_key: k}}
`,
		"unknown type": `
sources:
  - {id: b, name: B, type: wordpress, source_url: https://a.example}
`,
		"empty": `sources: []`,
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseRegistry([]byte(content), ".yaml"); err == nil {
				t.Fatalf("expected error for %s", name)
			}
		})
	}
}

func TestHeadersSkipEmptyValues(t *testing.T) {
	h := Headers(Source{Config: map[string]any{
		ConfigUserAgentKey:      " portal/1.0 ",
		ConfigAcceptLanguageKey: "",
	}})
	if h["User-Agent"] != "portal/1.0" {
		t.Fatalf("unexpected user agent %q", h["User-Agent"])
	}
	if _, ok := h["Accept-Language"]; ok {
		t.Fatalf("expected empty accept-language to be skipped")
	}
}

func TestFetcherRegistryResolvesByType(t *testing.T) {
	byType := NewBloggerFeedFetcher(&fakeHTTPClient{})
	reg := NewFetcherRegistry(map[string]Fetcher{" Blogger_Feed ": byType, "ignored": nil})

	f, err := reg.FetcherFor(Source{ID: "any", Type: TypeBloggerFeed})
	if err != nil || f != byType {
		t.Fatalf("expected type fetcher, got %v err=%v", f, err)
	}

	if _, err := reg.FetcherFor(Source{ID: "any", Type: "unknown"}); err == nil || !strings.Contains(err.Error(), "no fetcher") {
		t.Fatalf("expected missing fetcher error, got %v", err)
	}
	if _, err := reg.FetcherFor(Source{}); err == nil {
		t.Fatalf("expected empty id error")
	}

	def := DefaultFetcherRegistry(&fakeHTTPClient{})
	if f, err := def.FetcherFor(Source{ID: "x", Type: TypeBlogger}); err != nil || f.ID() != TypeBlogger {
		t.Fatalf("expected blogger fetcher from default registry, got err=%v", err)
	}
}

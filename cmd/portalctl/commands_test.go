package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/samvad-hq/samvad-portal/internal/app"
	"github.com/samvad-hq/samvad-portal/internal/config"
	"github.com/samvad-hq/samvad-portal/internal/content"
	"github.com/samvad-hq/samvad-portal/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func offlineOpener(t *testing.T) opener {
	t.Helper()
	return func(ctx context.Context, flags rootFlags) (*app.Portal, error) {
		assert.True(t, flags.offline)
		cfg := &config.Config{
			LoadTimeout:      time.Second,
			BodyFetchTimeout: time.Second,
			BodyFetchRPS:     1,
			DateLayout:       "02 Jan 2006",
			ExcerptLength:    160,
			StorageType:      "none",
		}
		return app.NewPortal(ctx, cfg, app.Options{Offline: true}, nil)
	}
}

func execute(t *testing.T, args ...string) []byte {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out, offlineOpener(t))
	cmd.SetArgs(append(args, "--offline"))
	require.NoError(t, cmd.Execute())
	return out.Bytes()
}

func TestStatusReportsFallbackOrigin(t *testing.T) {
	var st content.Status
	require.NoError(t, json.Unmarshal(execute(t, "status"), &st))
	assert.Equal(t, uint64(1), st.Version)
	assert.Equal(t, content.OriginFallback, st.ArticleOrigin)
	assert.Positive(t, st.Articles)
}

func TestHeroPrintsFeaturedArticle(t *testing.T) {
	var hero domain.Article
	require.NoError(t, json.Unmarshal(execute(t, "hero"), &hero))
	assert.Equal(t, "fallback-1", hero.ID)
	assert.Equal(t, domain.VariantHero, hero.Variant)
}

func TestCategoryAcceptsSlug(t *testing.T) {
	var articles []domain.Article
	require.NoError(t, json.Unmarshal(execute(t, "category", "apps-games"), &articles))
	ids := make([]string, 0, len(articles))
	for _, a := range articles {
		ids = append(ids, a.ID)
	}
	assert.Contains(t, ids, "fallback-5")
}

func TestMenuHonoursLimit(t *testing.T) {
	var menu struct {
		Items []domain.Article `json:"items"`
	}
	require.NoError(t, json.Unmarshal(execute(t, "menu", "News", "--limit", "1"), &menu))
	assert.LessOrEqual(t, len(menu.Items), 1)
}

func TestSearchMatchesTitles(t *testing.T) {
	var articles []domain.Article
	require.NoError(t, json.Unmarshal(execute(t, "search", "galaxy"), &articles))
	require.NotEmpty(t, articles)
	for _, a := range articles {
		assert.Contains(t, a.Title, "Galaxy")
	}
}

func TestRelatedExcludesCurrent(t *testing.T) {
	var articles []domain.Article
	require.NoError(t, json.Unmarshal(execute(t, "related", "fallback-2"), &articles))
	for _, a := range articles {
		assert.NotEqual(t, "fallback-2", a.ID)
	}
}

func TestDealsPrintsFallbackDeals(t *testing.T) {
	var deals []domain.Deal
	require.NoError(t, json.Unmarshal(execute(t, "deals"), &deals))
	assert.Len(t, deals, 4)
}

func TestUnknownCategoryFails(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd(&out, offlineOpener(t))
	cmd.SetArgs([]string{"category", "Gardening", "--offline"})
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category")
}

func TestUnknownArticleFails(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd(&out, offlineOpener(t))
	cmd.SetArgs([]string{"article", "missing", "--offline"})
	cmd.SetErr(&bytes.Buffer{})
	require.Error(t, cmd.Execute())
}

func TestHelpAndCompletionSkipLoad(t *testing.T) {
	for _, args := range [][]string{{"help"}, {"help", "hero"}, {"completion", "bash"}} {
		calls := 0
		failing := func(context.Context, rootFlags) (*app.Portal, error) {
			calls++
			return nil, errors.New("content unavailable")
		}
		var out bytes.Buffer
		cmd := newRootCmd(&out, failing)
		cmd.SetArgs(args)
		require.NoError(t, cmd.Execute(), "args %v", args)
		assert.Zero(t, calls, "args %v", args)
		assert.NotEmpty(t, out.String(), "args %v", args)
	}
}

func TestSubcommandStillLoads(t *testing.T) {
	calls := 0
	failing := func(context.Context, rootFlags) (*app.Portal, error) {
		calls++
		return nil, errors.New("content unavailable")
	}
	cmd := newRootCmd(&bytes.Buffer{}, failing)
	cmd.SetArgs([]string{"status"})
	cmd.SetErr(&bytes.Buffer{})
	require.Error(t, cmd.Execute())
	assert.Equal(t, 1, calls)
}

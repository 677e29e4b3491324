package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/samvad-hq/samvad-portal/internal/catalog"
	"github.com/samvad-hq/samvad-portal/internal/content"
	"github.com/samvad-hq/samvad-portal/internal/domain"
)

// ListResponse wraps an ordered list of articles.
type ListResponse struct {
	Items []domain.Article `json:"items"`
	Total int              `json:"total"`
}

// StatusResponse reports the loaded snapshot and cache state.
type StatusResponse struct {
	content.Status
	RelatedCached int `json:"related_cached"`
	BodiesCached  int `json:"bodies_cached"`
}

// CategoryEntry is one row of the category menu.
type CategoryEntry struct {
	Name domain.Category `json:"name"`
	Slug string          `json:"slug"`
}

func newList(items []domain.Article) ListResponse {
	if items == nil {
		items = []domain.Article{}
	}
	return ListResponse{Items: items, Total: len(items)}
}

// HandleStatus handles GET /api/v1/status.
func (s *Server) HandleStatus(c *gin.Context) {
	resp := StatusResponse{
		Status:        s.store.Snapshot().Status(),
		RelatedCached: s.related.Len(),
	}
	if s.bodies != nil {
		resp.BodiesCached = s.bodies.Len()
	}
	c.JSON(http.StatusOK, resp)
}

// HandleCategories handles GET /api/v1/categories.
func (s *Server) HandleCategories(c *gin.Context) {
	cats := domain.Categories()
	out := make([]CategoryEntry, 0, len(cats))
	for _, cat := range cats {
		out = append(out, CategoryEntry{Name: cat, Slug: cat.Slug()})
	}
	c.JSON(http.StatusOK, gin.H{"categories": out})
}

// HandleHome handles GET /api/v1/home.
func (s *Server) HandleHome(c *gin.Context) {
	category := domain.CategoryAll
	if raw := c.Query("category"); strings.TrimSpace(raw) != "" {
		parsed, ok := domain.ParseCategory(raw)
		if !ok {
			writeError(c, http.StatusBadRequest, "invalid_parameter", "Unknown category: "+raw)
			return
		}
		category = parsed
	}

	size := s.opts.CarouselSize
	if raw := c.Query("carousel"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(c, http.StatusBadRequest, "invalid_parameter", "Invalid carousel parameter")
			return
		}
		size = n
	}

	c.JSON(http.StatusOK, catalog.BuildHome(s.store.Snapshot().Articles(), category, size))
}

// HandleCategoryArticles handles GET /api/v1/categories/:category/articles.
func (s *Server) HandleCategoryArticles(c *gin.Context) {
	category, ok := s.categoryParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newList(catalog.FilterByCategory(s.store.Snapshot().Articles(), category)))
}

// HandleCategoryHighlight handles GET /api/v1/categories/:category/highlight.
func (s *Server) HandleCategoryHighlight(c *gin.Context) {
	category, ok := s.categoryParam(c)
	if !ok {
		return
	}
	highlight, found := catalog.SelectCategoryHighlight(s.store.Snapshot().Articles(), category)
	if !found {
		writeError(c, http.StatusNotFound, "not_found", "No articles loaded")
		return
	}
	c.JSON(http.StatusOK, highlight)
}

// HandleCategoryMenu handles GET /api/v1/categories/:category/menu.
func (s *Server) HandleCategoryMenu(c *gin.Context) {
	category, ok := s.categoryParam(c)
	if !ok {
		return
	}

	limit := s.opts.MenuLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(c, http.StatusBadRequest, "invalid_parameter", "Invalid limit parameter")
			return
		}
		limit = n
	}
	c.JSON(http.StatusOK, catalog.BuildMenu(s.store.Snapshot().Articles(), category, limit))
}

// HandleArticle handles GET /api/v1/articles/:id. It refreshes the body before replying.
func (s *Server) HandleArticle(c *gin.Context) {
	article, ok := s.articleParam(c)
	if !ok {
		return
	}
	if s.bodies != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), s.opts.BodyTimeout)
		defer cancel()
		article = s.bodies.Refresh(ctx, article)
	}
	c.JSON(http.StatusOK, article)
}

// HandleRelated handles GET /api/v1/articles/:id/related.
func (s *Server) HandleRelated(c *gin.Context) {
	snap := s.store.Snapshot()
	article, found := snap.Article(c.Param("id"))
	if !found {
		writeError(c, http.StatusNotFound, "not_found", "Article not found")
		return
	}
	c.JSON(http.StatusOK, newList(s.related.Related(&article, snap.Articles(), snap.Version())))
}

// HandleSearch handles GET /api/v1/search. A blank query returns nothing.
func (s *Server) HandleSearch(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusOK, newList(nil))
		return
	}
	c.JSON(http.StatusOK, newList(catalog.Search(q, s.store.Snapshot().Articles())))
}

// HandleDeals handles GET /api/v1/deals.
func (s *Server) HandleDeals(c *gin.Context) {
	deals := s.store.Snapshot().Deals()
	c.JSON(http.StatusOK, gin.H{"items": deals, "total": len(deals)})
}

// HandleReload handles POST /api/v1/reload.
func (s *Server) HandleReload(c *gin.Context) {
	if s.reloader == nil {
		writeError(c, http.StatusServiceUnavailable, "reload_unavailable", "Reloading is not configured")
		return
	}
	s.reloader.Reload()
	c.JSON(http.StatusAccepted, gin.H{"status": "reload_started"})
}

func (s *Server) categoryParam(c *gin.Context) (domain.Category, bool) {
	raw := c.Param("category")
	category, ok := domain.ParseCategory(raw)
	if !ok {
		writeError(c, http.StatusNotFound, "unknown_category", "Unknown category: "+raw)
		return "", false
	}
	return category, true
}

func (s *Server) articleParam(c *gin.Context) (domain.Article, bool) {
	article, found := s.store.Snapshot().Article(c.Param("id"))
	if !found {
		writeError(c, http.StatusNotFound, "not_found", "Article not found")
		return domain.Article{}, false
	}
	if s.bodies != nil {
		article = s.bodies.Apply(article)
	}
	return article, true
}

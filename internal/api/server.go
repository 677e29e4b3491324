package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samvad-hq/samvad-portal/internal/catalog"
	"github.com/samvad-hq/samvad-portal/internal/content"
	"github.com/samvad-hq/samvad-portal/internal/logger"
)

// Reloader starts an asynchronous content load.
type Reloader interface {
	Reload()
}

// Options tunes the JSON API.
type Options struct {
	CarouselSize int
	MenuLimit    int
	// BodyTimeout bounds the lazy body refresh done by the article endpoint.
	BodyTimeout time.Duration
}

// Server exposes the content engine to the presentation layer.
type Server struct {
	store    *content.Store
	bodies   *content.Bodies
	related  *catalog.RelatedCache
	reloader Reloader
	opts     Options
	log      logger.Logger
}

// NewServer wires the API. bodies and reloader may be nil.
func NewServer(store *content.Store, bodies *content.Bodies, related *catalog.RelatedCache, reloader Reloader, opts Options, log logger.Logger) *Server {
	if store == nil {
		store = content.NewStore()
	}
	if related == nil {
		related = catalog.NewRelatedCache(nil)
	}
	if opts.CarouselSize <= 0 {
		opts.CarouselSize = catalog.DefaultCarouselSize
	}
	if opts.MenuLimit <= 0 {
		opts.MenuLimit = defaultMenuLimit
	}
	if opts.BodyTimeout <= 0 {
		opts.BodyTimeout = defaultBodyTimeout
	}
	return &Server{
		store:    store,
		bodies:   bodies,
		related:  related,
		reloader: reloader,
		opts:     opts,
		log:      logger.Ensure(log),
	}
}

const (
	defaultMenuLimit   = 4
	defaultBodyTimeout = 5 * time.Second
)

// SetupRouter configures the Gin router with all portal API routes.
func (s *Server) SetupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestID(), s.accessLog())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	api.GET("/status", s.HandleStatus)
	api.GET("/categories", s.HandleCategories)
	api.GET("/home", s.HandleHome)
	api.GET("/categories/:category/articles", s.HandleCategoryArticles)
	api.GET("/categories/:category/highlight", s.HandleCategoryHighlight)
	api.GET("/categories/:category/menu", s.HandleCategoryMenu)
	api.GET("/articles/:id", s.HandleArticle)
	api.GET("/articles/:id/related", s.HandleRelated)
	api.GET("/search", s.HandleSearch)
	api.GET("/deals", s.HandleDeals)
	api.POST("/reload", s.HandleReload)

	router.NoRoute(func(c *gin.Context) {
		writeError(c, http.StatusNotFound, "not_found", "Route not found")
	})

	return router
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error code and message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

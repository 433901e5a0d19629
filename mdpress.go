// Package mdpress is a markdown-backed publishing engine built with Go, Echo,
// and templ. Posts live as front-mattered markdown files in a flat directory;
// a single JSON endpoint publishes documents programmatically, and the read
// surface (listing, detail, RSS, sitemap) is served from the same files.
//
// Users provide their own templ components via the ViewFuncs struct, and
// mdpress handles ingestion, caching, handler logic, and middleware.
package mdpress

import (
	"fmt"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// ViewFuncs holds user-provided templ components that the engine calls when
// rendering pages. This is the inversion-of-control mechanism that lets users
// own and customize all templates.
type ViewFuncs struct {
	Home        func(posts []PostSummary, site SiteConfig) templ.Component
	Post        func(post Post, site SiteConfig) templ.Component
	NotFound    func(site SiteConfig) templ.Component
	ServerError func(site SiteConfig) templ.Component
}

// App is the central mdpress application. It wires together the store, cache,
// handlers, middleware, and user-provided templates.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *PostCache
	Views  ViewFuncs

	publishLimiter *PublishLimiter
	customRoutes   []func(*App)
	staticDir      string
}

// New creates a new mdpress App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start initializes the store, cache, middleware, and routes, and starts the
// server.
func (a *App) Start() error {
	store, err := NewStore(a.Config.PostsDir)
	if err != nil {
		return fmt.Errorf("mdpress: init store: %w", err)
	}
	a.Store = store
	a.Cache = NewPostCache(store, a.Config.PostCacheTTL)
	a.publishLimiter = NewPublishLimiter(a.Config.PublishPerMinute, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// User's static assets
	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	// Public routes
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/blog", handleBlogRedirect)
	e.GET("/", a.handleHome)
	e.GET("/blog/:slug/", a.handlePost)

	// Write endpoint
	e.POST("/api/posts", a.handlePublish)
}

package mdpress

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// SiteConfig holds all configuration for an mdpress site. The posts directory
// is explicit here rather than derived from the working directory at use
// sites.
type SiteConfig struct {
	Name        string `env:"SITE_NAME"`        // Site name (default "Blog")
	URL         string `env:"SITE_URL"`         // Canonical URL (default "http://localhost:3000")
	Description string `env:"SITE_DESCRIPTION"` // Site description for RSS and meta tags
	Author      string `env:"SITE_AUTHOR"`      // Author name for JSON-LD

	Addr     string `env:"ADDR"`      // Listen address (default ":3000")
	PostsDir string `env:"POSTS_DIR"` // Posts directory (default "content/posts")

	PublishPerMinute int           `env:"PUBLISH_PER_MINUTE"` // Publish rate limit per IP (default 30)
	PostCacheTTL     time.Duration `env:"POST_CACHE_TTL"`     // Summary/detail cache TTL (default 5min)
}

// ConfigFromEnv builds a SiteConfig from environment variables. Unset values
// get the same defaults New applies.
func ConfigFromEnv() (SiteConfig, error) {
	var cfg SiteConfig
	if err := env.Parse(&cfg); err != nil {
		return SiteConfig{}, err
	}
	return cfg, nil
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.PostsDir == "" {
		c.PostsDir = "content/posts"
	}
	if c.PublishPerMinute == 0 {
		c.PublishPerMinute = 30
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

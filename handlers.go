package mdpress

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

func (a *App) handleHome(c echo.Context) error {
	posts, err := a.Cache.Summaries(c.Request().Context())
	if err != nil {
		return err
	}
	return Render(c, a.Views.Home(posts, a.Config))
}

func (a *App) handlePost(c echo.Context) error {
	slug := c.Param("slug")
	post, err := a.Cache.Get(c.Request().Context(), slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrSlugRequired) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.Config))
		}
		// Invalid stored front matter is a data-integrity error, not a
		// request error; let it surface as a 500.
		return err
	}
	return Render(c, a.Views.Post(post, a.Config))
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.Summaries(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.Summaries(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func handleBlogRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/")
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

func (a *App) handleRobots(c echo.Context) error {
	return c.File(a.staticDir + "/robots.txt")
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.Config))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError(a.Config))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

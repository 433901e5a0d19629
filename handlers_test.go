package mdpress

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubComponent(s string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	})
}

func stubViews() ViewFuncs {
	return ViewFuncs{
		Home: func(posts []PostSummary, site SiteConfig) templ.Component {
			return stubComponent(fmt.Sprintf("home:%d", len(posts)))
		},
		Post: func(post Post, site SiteConfig) templ.Component {
			return stubComponent("post:" + post.Slug)
		},
		NotFound:    func(site SiteConfig) templ.Component { return stubComponent("not found") },
		ServerError: func(site SiteConfig) templ.Component { return stubComponent("server error") },
	}
}

func setupReadApp(t *testing.T) *App {
	t.Helper()
	a := setupTestApp(t)
	a.Views = stubViews()
	a.Cache = NewPostCache(a.Store, time.Minute)
	return a
}

func TestHandleHome(t *testing.T) {
	a := setupReadApp(t)
	writeTestFile(t, a.Store, "one.md", "---\ndate: 2024-01-01\n---\na\n")
	writeTestFile(t, a.Store, "two.md", "---\ndate: 2024-01-02\n---\nb\n")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := a.Echo.NewContext(req, rec)

	require.NoError(t, a.handleHome(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "home:2", rec.Body.String())
}

func TestHandlePost(t *testing.T) {
	a := setupReadApp(t)
	writeTestFile(t, a.Store, "hello.md", "---\ntitle: Hello\n---\nbody\n")

	req := httptest.NewRequest(http.MethodGet, "/blog/hello/", nil)
	rec := httptest.NewRecorder()
	c := a.Echo.NewContext(req, rec)
	c.SetParamNames("slug")
	c.SetParamValues("hello")

	require.NoError(t, a.handlePost(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "post:hello", rec.Body.String())
}

func TestHandlePostNotFound(t *testing.T) {
	a := setupReadApp(t)

	req := httptest.NewRequest(http.MethodGet, "/blog/missing/", nil)
	rec := httptest.NewRecorder()
	c := a.Echo.NewContext(req, rec)
	c.SetParamNames("slug")
	c.SetParamValues("missing")

	require.NoError(t, a.handlePost(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not found", rec.Body.String())
}

func TestHandlePostCorruptFileSurfaces(t *testing.T) {
	a := setupReadApp(t)
	writeTestFile(t, a.Store, "bad.md", "---\nauthor: nope\n---\nbody\n")

	req := httptest.NewRequest(http.MethodGet, "/blog/bad/", nil)
	rec := httptest.NewRecorder()
	c := a.Echo.NewContext(req, rec)
	c.SetParamNames("slug")
	c.SetParamValues("bad")

	err := a.handlePost(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.md")
}

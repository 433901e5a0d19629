package mdpress

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T) *App {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "posts"))
	require.NoError(t, err)

	a := New(SiteConfig{PostsDir: s.Dir()}, ViewFuncs{})
	a.Store = s
	a.Cache = NewPostCache(s, time.Minute)
	a.publishLimiter = NewPublishLimiter(1000, time.Minute)
	return a
}

func doPublish(t *testing.T, a *App, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := a.Echo.NewContext(req, rec)

	require.NoError(t, a.handlePublish(c))

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed))
	return rec, parsed
}

func TestPublishCreates(t *testing.T) {
	a := setupTestApp(t)

	rec, body := doPublish(t, a, `{"slug":"My Post!!","content":"# Hello\n"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Post saved successfully.", body["message"])
	assert.Equal(t, "my-post", body["slug"])
	assert.Equal(t, "/blog/my-post", body["location"])
	assert.Equal(t, a.Store.Path("my-post"), body["filePath"])

	written, err := os.ReadFile(a.Store.Path("my-post"))
	require.NoError(t, err)
	assert.Equal(t, "# Hello\n", string(written))
}

func TestPublishRoundTrip(t *testing.T) {
	a := setupTestApp(t)

	content := "---\ntitle: Round Trip\ndate: 2024-02-02\n---\nbody text\n"
	payload, err := json.Marshal(map[string]any{"slug": "Round Trip", "content": content})
	require.NoError(t, err)

	rec, _ := doPublish(t, a, string(payload))
	require.Equal(t, http.StatusCreated, rec.Code)

	post, err := a.Store.GetBySlug(context.Background(), "round-trip")
	require.NoError(t, err)
	assert.Equal(t, "round-trip", post.Slug)
	assert.Equal(t, "Round Trip", post.Title)
	assert.Equal(t, "body text", strings.TrimSpace(post.Content))
}

func TestPublishConflictThenOverwrite(t *testing.T) {
	a := setupTestApp(t)

	rec, _ := doPublish(t, a, `{"slug":"dup","content":"first"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, body := doPublish(t, a, `{"slug":"dup","content":"second"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, body["error"], "already exists")

	rec, _ = doPublish(t, a, `{"slug":"dup","content":"second","overwrite":true}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	written, err := os.ReadFile(a.Store.Path("dup"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(written))
}

func TestPublishOverwriteWithoutExistingCreates(t *testing.T) {
	a := setupTestApp(t)

	rec, _ := doPublish(t, a, `{"slug":"new","content":"x","overwrite":true}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestPublishMalformedJSON(t *testing.T) {
	a := setupTestApp(t)

	for _, body := range []string{"", "{", `{"slug":"a","content":"b"} trailing`} {
		rec, parsed := doPublish(t, a, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
		assert.Equal(t, "Request body must be valid JSON.", parsed["error"], "body %q", body)
	}
}

func TestPublishValidationFailures(t *testing.T) {
	a := setupTestApp(t)

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing slug", `{"content":"x"}`, "slug"},
		{"missing content", `{"slug":"a"}`, "content"},
		{"blank slug", `{"slug":"   ","content":"x"}`, "slug"},
		{"blank content", `{"slug":"a","content":"  "}`, "content"},
		{"unknown field", `{"slug":"a","content":"x","published":true}`, "published"},
		{"wrong overwrite type", `{"slug":"a","content":"x","overwrite":"yes"}`, "overwrite"},
		{"wrong slug type", `{"slug":7,"content":"x"}`, "slug"},
		{"non-object body", `"just a string"`, "body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, parsed := doPublish(t, a, tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			fieldErrs, ok := parsed["error"].(map[string]any)
			require.True(t, ok, "error detail should be per-field, got %v", parsed["error"])
			assert.Contains(t, fieldErrs, tt.field)
		})
	}
}

func TestPublishUnusableSlug(t *testing.T) {
	a := setupTestApp(t)

	rec, parsed := doPublish(t, a, `{"slug":"!!!","content":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, parsed["error"], "empty filename")
}

func TestPublishInvalidatesCache(t *testing.T) {
	a := setupTestApp(t)

	before, err := a.Cache.Summaries(context.Background())
	require.NoError(t, err)
	require.Empty(t, before)

	rec, _ := doPublish(t, a, `{"slug":"fresh","content":"---\ndate: 2024-01-01\n---\nhi\n"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	after, err := a.Cache.Summaries(context.Background())
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, "fresh", after[0].Slug)
}

func TestPublishRateLimited(t *testing.T) {
	a := setupTestApp(t)
	a.publishLimiter = NewPublishLimiter(1, time.Minute)

	rec, _ := doPublish(t, a, `{"slug":"one","content":"x"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, parsed := doPublish(t, a, `{"slug":"two","content":"x"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, parsed["error"], "Too many publish requests")
}

package mdpress

import (
	"context"
	"sync"
	"time"
)

// PostCache is an in-memory TTL cache in front of the Store. The listing and
// each post's detail view are cached separately so a publish can invalidate
// exactly the routes it changed.
type PostCache struct {
	mu        sync.RWMutex
	summaries []PostSummary
	fetched   time.Time
	posts     map[string]cachedPost
	ttl       time.Duration
	store     *Store
}

type cachedPost struct {
	post    Post
	fetched time.Time
}

// NewPostCache creates a PostCache backed by the given Store.
func NewPostCache(s *Store, ttl time.Duration) *PostCache {
	return &PostCache{store: s, ttl: ttl, posts: make(map[string]cachedPost)}
}

func (c *PostCache) valid() bool {
	return c.summaries != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears everything so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.summaries = nil
	c.posts = make(map[string]cachedPost)
	c.mu.Unlock()
}

// InvalidatePost clears the cached listing and the detail entry for one slug.
// This is the invalidation a publish triggers.
func (c *PostCache) InvalidatePost(slug string) {
	c.mu.Lock()
	c.summaries = nil
	delete(c.posts, slug)
	c.mu.Unlock()
}

// Summaries returns the cached listing, reloading it from the store when
// stale. It tries a read lock first; only takes a write lock for a reload.
func (c *PostCache) Summaries(ctx context.Context) ([]PostSummary, error) {
	c.mu.RLock()
	if c.valid() {
		summaries := c.summaries
		c.mu.RUnlock()
		return summaries, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.summaries, nil
	}
	summaries, err := c.store.ListSummaries(ctx)
	if err != nil {
		return nil, err
	}
	c.summaries = summaries
	c.fetched = time.Now()
	return summaries, nil
}

// Get returns one full post, loading and caching it on a miss. Load failures
// are never cached.
func (c *PostCache) Get(ctx context.Context, slug string) (Post, error) {
	c.mu.RLock()
	entry, ok := c.posts[slug]
	c.mu.RUnlock()
	if ok && time.Since(entry.fetched) < c.ttl {
		return entry.post, nil
	}

	post, err := c.store.GetBySlug(ctx, slug)
	if err != nil {
		return Post{}, err
	}
	c.mu.Lock()
	c.posts[slug] = cachedPost{post: post, fetched: time.Now()}
	c.mu.Unlock()
	return post, nil
}

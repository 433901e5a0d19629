package mdpress

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

const postExt = ".md"

var (
	// ErrNotFound is returned when a requested post does not exist.
	ErrNotFound = errors.New("mdpress: post not found")
	// ErrPostExists is returned when a write would replace an existing post
	// without overwrite consent.
	ErrPostExists = errors.New("mdpress: post already exists")
	// ErrSlugRequired is returned when a post is requested with an empty slug.
	ErrSlugRequired = errors.New("mdpress: slug is required")
)

// Store reads and writes posts as front-mattered markdown files in a single
// flat directory, one file per slug. Readers are not serialized; writers to
// the same slug are.
type Store struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewStore creates the posts directory if needed and returns a Store rooted
// at dir. The directory is explicit configuration, never derived from the
// working directory at call sites.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create posts directory: %w", err)
	}
	return &Store{dir: dir, locks: make(map[string]*sync.Mutex)}, nil
}

// Dir returns the posts directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the backing file path for a slug.
func (s *Store) Path(slug string) string {
	return filepath.Join(s.dir, slug+postExt)
}

// slugLock returns the writer lock for one slug, creating it on first use.
// Locks are never evicted; the table grows with the number of distinct slugs
// written over the process lifetime.
func (s *Store) slugLock(slug string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[slug]
	if !ok {
		l = &sync.Mutex{}
		s.locks[slug] = l
	}
	return l
}

// ListSummaries loads every post file in the directory concurrently and
// returns their summaries sorted by publishedAt descending. A missing
// directory is created empty and yields an empty list. A single invalid file
// fails the entire call; there is no partial result.
func (s *Store) ListSummaries(ctx context.Context) ([]PostSummary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if mkErr := os.MkdirAll(s.dir, 0o755); mkErr != nil {
				return nil, fmt.Errorf("create posts directory: %w", mkErr)
			}
			return []PostSummary{}, nil
		}
		return nil, fmt.Errorf("read posts directory: %w", err)
	}

	var slugs []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), postExt) {
			continue
		}
		slugs = append(slugs, strings.TrimSuffix(entry.Name(), postExt))
	}
	if len(slugs) == 0 {
		return []PostSummary{}, nil
	}

	summaries := make([]PostSummary, len(slugs))
	g, ctx := errgroup.WithContext(ctx)
	for i, slug := range slugs {
		i, slug := i, slug
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			post, err := s.loadPost(slug)
			if err != nil {
				return err
			}
			summaries[i] = post.Summary()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// PublishedAt is always UTC RFC 3339, so the string order is the time
	// order. Ties keep no particular secondary order.
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].PublishedAt > summaries[j].PublishedAt
	})
	return summaries, nil
}

// GetBySlug loads one post, body included. It returns ErrSlugRequired for an
// empty slug and ErrNotFound when no file backs the slug.
func (s *Store) GetBySlug(ctx context.Context, slug string) (Post, error) {
	if slug == "" {
		return Post{}, ErrSlugRequired
	}
	if err := ctx.Err(); err != nil {
		return Post{}, err
	}
	return s.loadPost(slug)
}

func (s *Store) loadPost(slug string) (Post, error) {
	path := s.Path(slug)
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Post{}, ErrNotFound
		}
		return Post{}, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return Post{}, fmt.Errorf("stat %s: %w", filepath.Base(path), err)
	}

	fm, body, err := parseDocument(raw)
	if err != nil {
		return Post{}, fmt.Errorf("invalid front matter in %s: %w", filepath.Base(path), err)
	}
	return buildPost(slug, fm, body, fileCreationTime(path, info)), nil
}

// Exists reports whether a file backs the slug.
func (s *Store) Exists(slug string) bool {
	_, err := os.Stat(s.Path(slug))
	return err == nil
}

// WritePost writes the document for slug, creating the posts directory first
// if it is missing. Without overwrite an existing file fails with
// ErrPostExists. The write goes through a temp file and rename so a reader
// never observes a half-written post. The returned flag reports whether an
// existing file was replaced.
func (s *Store) WritePost(slug, content string, overwrite bool) (replaced bool, err error) {
	if slug == "" {
		return false, ErrSlugRequired
	}

	lock := s.slugLock(slug)
	lock.Lock()
	defer lock.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return false, fmt.Errorf("create posts directory: %w", err)
	}

	path := s.Path(slug)
	existed := false
	if _, statErr := os.Stat(path); statErr == nil {
		if !overwrite {
			return false, ErrPostExists
		}
		existed = true
	} else if !errors.Is(statErr, os.ErrNotExist) {
		return false, fmt.Errorf("stat %s: %w", filepath.Base(path), statErr)
	}

	tmp, err := os.CreateTemp(s.dir, "."+slug+"-*.tmp")
	if err != nil {
		return false, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return false, fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return false, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return false, fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return false, fmt.Errorf("rename into place: %w", err)
	}
	return existed, nil
}

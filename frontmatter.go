package mdpress

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// frontMatter is the validated metadata block of a post file. The Has* flags
// distinguish genuinely absent fields, which receive defaults, from fields
// that are present but invalid, which fail the whole load.
type frontMatter struct {
	Title       string
	Description string
	Date        time.Time
	Tags        []string

	HasTitle       bool
	HasDescription bool
	HasDate        bool
}

var frontMatterKeys = map[string]bool{
	"title":       true,
	"description": true,
	"date":        true,
	"tags":        true,
}

// dateLayouts is the accepted grammar for string-valued date fields. YAML
// timestamp scalars that the decoder already resolved to time.Time are
// accepted as-is.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseDocument splits raw file bytes into validated front matter and the
// markdown body. A file with no metadata block is valid and yields zero-value
// front matter; a block that fails validation returns a validation.Errors
// keyed by field name.
func parseDocument(raw []byte) (frontMatter, string, error) {
	meta := map[string]any{}
	body, err := frontmatter.Parse(bytes.NewReader(raw), &meta)
	if err != nil {
		return frontMatter{}, "", fmt.Errorf("parse front matter: %w", err)
	}
	fm, err := validateFrontMatter(meta)
	if err != nil {
		return frontMatter{}, "", err
	}
	return fm, string(body), nil
}

func validateFrontMatter(meta map[string]any) (frontMatter, error) {
	var fm frontMatter
	errs := validation.Errors{}

	for key := range meta {
		if !frontMatterKeys[key] {
			errs[key] = errors.New("unknown field")
		}
	}

	if v, ok := meta["title"]; ok {
		fm.HasTitle = true
		s, err := nonEmptyString(v)
		if err != nil {
			errs["title"] = err
		} else {
			fm.Title = s
		}
	}
	if v, ok := meta["description"]; ok {
		fm.HasDescription = true
		s, err := nonEmptyString(v)
		if err != nil {
			errs["description"] = err
		} else {
			fm.Description = s
		}
	}
	if v, ok := meta["date"]; ok {
		fm.HasDate = true
		t, err := coerceDate(v)
		if err != nil {
			errs["date"] = err
		} else {
			fm.Date = t
		}
	}
	if v, ok := meta["tags"]; ok {
		tags, err := coerceTags(v)
		if err != nil {
			errs["tags"] = err
		} else {
			fm.Tags = tags
		}
	}

	if len(errs) > 0 {
		return frontMatter{}, errs
	}
	return fm, nil
}

func nonEmptyString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("must be a string, got %T", v)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errors.New("must not be empty")
	}
	return s, nil
}

func coerceDate(v any) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		return d, nil
	case string:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, d); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognized date %q", d)
	default:
		return time.Time{}, fmt.Errorf("must be a date, got %T", v)
	}
}

func coerceTags(v any) ([]string, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("must be an array of strings, got %T", v)
	}
	tags := make([]string, 0, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("element %d must be a string, got %T", i, item)
		}
		if strings.TrimSpace(s) == "" {
			return nil, fmt.Errorf("element %d must not be empty", i)
		}
		tags = append(tags, s)
	}
	return tags, nil
}

// sanitizeTags case-folds every tag and drops duplicates, keeping first-seen
// order. Consumers treat the result as a set.
func sanitizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(t)
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// buildPost assembles a Post from a slug, validated front matter, and the
// markdown body. Absent title and description are derived from the slug;
// an absent date falls back to the supplied filesystem time.
func buildPost(slug string, fm frontMatter, content string, fallback time.Time) Post {
	title := fm.Title
	if !fm.HasTitle {
		title = strings.ReplaceAll(slug, "-", " ")
	}
	description := fm.Description
	if !fm.HasDescription {
		description = fmt.Sprintf("Read about %s in this blog post.", strings.ToLower(title))
	}
	published := fallback
	if fm.HasDate {
		published = fm.Date
	}
	return Post{
		PostSummary: PostSummary{
			Slug:        slug,
			Title:       title,
			Description: description,
			PublishedAt: published.UTC().Format(time.RFC3339),
			Tags:        sanitizeTags(fm.Tags),
		},
		Content: content,
	}
}

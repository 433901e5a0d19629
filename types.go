package mdpress

// PostSummary is a post's metadata without its body. Listing views, the RSS
// feed, and the sitemap are all built from summaries; the body never leaves
// the detail path.
type PostSummary struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	PublishedAt string   `json:"publishedAt"` // UTC RFC 3339
	Tags        []string `json:"tags"`
}

// Link returns the detail-view path for the post.
func (p PostSummary) Link() string {
	return "/blog/" + p.Slug
}

// Post is a full post including the raw markdown body.
type Post struct {
	PostSummary
	Content string `json:"content"`
}

// Summary returns the metadata-only view of the post.
func (p Post) Summary() PostSummary {
	return p.PostSummary
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}

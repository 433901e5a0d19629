// Package views provides the stock templ components for an mdpress site.
// They are plain ComponentFunc implementations so sites that want full
// control can swap in their own generated templ templates instead.
package views

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"

	"github.com/eringen/mdpress"
	"github.com/eringen/mdpress/markdown"
)

// Default returns the stock view set.
func Default() mdpress.ViewFuncs {
	return mdpress.ViewFuncs{
		Home:        Home,
		Post:        Post,
		NotFound:    NotFound,
		ServerError: ServerError,
	}
}

// Home renders the listing page from post summaries.
func Home(posts []mdpress.PostSummary, site mdpress.SiteConfig) templ.Component {
	meta := mdpress.PageMeta{
		Title:       site.Name,
		Description: site.Description,
		URL:         mdpress.BuildURL(site.URL),
		OGType:      "website",
	}
	return page(meta, site, mdpress.WebsiteJsonLD(site), func(ctx context.Context, w io.Writer) error {
		fmt.Fprintf(w, `<section class="post-list"><h1>%s</h1>`, html.EscapeString(site.Name))
		if len(posts) == 0 {
			io.WriteString(w, `<p class="empty">No posts yet.</p>`)
		}
		for _, p := range posts {
			if err := postCard(w, p); err != nil {
				return err
			}
		}
		io.WriteString(w, `</section>`)
		return nil
	})
}

func postCard(w io.Writer, p mdpress.PostSummary) error {
	fmt.Fprintf(w, `<article class="post-card"><h2><a href="%s/">%s</a></h2>`,
		html.EscapeString(p.Link()), html.EscapeString(p.Title))
	fmt.Fprintf(w, `<time datetime="%s">%s</time>`,
		html.EscapeString(p.PublishedAt), html.EscapeString(FormatDate(p.PublishedAt)))
	fmt.Fprintf(w, `<p>%s</p>`, html.EscapeString(p.Description))
	writeTags(w, p.Tags)
	_, err := io.WriteString(w, `</article>`)
	return err
}

// Post renders the detail page, including the markdown body.
func Post(post mdpress.Post, site mdpress.SiteConfig) templ.Component {
	meta := mdpress.PageMeta{
		Title:       post.Title + " | " + site.Name,
		Description: post.Description,
		URL:         mdpress.BuildURL(site.URL, "blog", post.Slug),
		OGType:      "article",
	}
	return page(meta, site, mdpress.BlogPostingJsonLD(post.Summary(), site), func(ctx context.Context, w io.Writer) error {
		fmt.Fprintf(w, `<article class="post"><header><h1>%s</h1>`, html.EscapeString(post.Title))
		fmt.Fprintf(w, `<time datetime="%s">%s</time>`,
			html.EscapeString(post.PublishedAt), html.EscapeString(FormatDate(post.PublishedAt)))
		writeTags(w, post.Tags)
		io.WriteString(w, `</header><div class="post-body">`)
		if err := markdown.Component(post.Content).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</div></article>`)
		return err
	})
}

// NotFound renders the 404 page.
func NotFound(site mdpress.SiteConfig) templ.Component {
	meta := mdpress.PageMeta{Title: "Not Found | " + site.Name, OGType: "website"}
	return page(meta, site, "", func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<section class="error-page"><h1>404</h1><p>This page does not exist.</p><p><a href="/">Back to the front page</a></p></section>`)
		return err
	})
}

// ServerError renders the 500 page.
func ServerError(site mdpress.SiteConfig) templ.Component {
	meta := mdpress.PageMeta{Title: "Something Went Wrong | " + site.Name, OGType: "website"}
	return page(meta, site, "", func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<section class="error-page"><h1>500</h1><p>Something went wrong. Try again in a moment.</p></section>`)
		return err
	})
}

func writeTags(w io.Writer, tags []string) {
	if len(tags) == 0 {
		return
	}
	io.WriteString(w, `<ul class="tags">`)
	for _, t := range tags {
		fmt.Fprintf(w, `<li>%s</li>`, html.EscapeString(t))
	}
	io.WriteString(w, `</ul>`)
}

// page wraps body content in the shared document chrome.
func page(meta mdpress.PageMeta, site mdpress.SiteConfig, jsonLD string, body func(ctx context.Context, w io.Writer) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprintf(w, `<!doctype html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		fmt.Fprintf(w, `<title>%s</title>`, html.EscapeString(meta.Title))
		if meta.Description != "" {
			fmt.Fprintf(w, `<meta name="description" content="%s">`, html.EscapeString(meta.Description))
		}
		fmt.Fprintf(w, `<meta property="og:title" content="%s">`, html.EscapeString(meta.Title))
		if meta.URL != "" {
			fmt.Fprintf(w, `<meta property="og:url" content="%s"><link rel="canonical" href="%s">`,
				html.EscapeString(meta.URL), html.EscapeString(meta.URL))
		}
		if meta.OGType != "" {
			fmt.Fprintf(w, `<meta property="og:type" content="%s">`, html.EscapeString(meta.OGType))
		}
		if jsonLD != "" {
			fmt.Fprintf(w, `<script type="application/ld+json">%s</script>`, jsonLD)
		}
		io.WriteString(w, `<link rel="stylesheet" href="/public/styles.css"></head><body>`)
		fmt.Fprintf(w, `<header class="site-header"><a href="/">%s</a></header><main>`, html.EscapeString(site.Name))
		if err := body(ctx, w); err != nil {
			return err
		}
		fmt.Fprintf(w, `</main><footer class="site-footer"><p>%s</p></footer></body></html>`, html.EscapeString(site.Name))
		return nil
	})
}

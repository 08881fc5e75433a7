// Package site compiles source documents and assembles the output tree:
// pages at their declared URLs, posts under date-derived paths, plus global
// and monthly paginated indexes.
package site

import (
	"fmt"
	"html/template"
	"time"
)

// Document is one compiled source document. It lives only for the duration
// of a single build; the deferred render closure runs once the full corpus
// is known.
type Document struct {
	Source    string // source file path, for diagnostics
	URL       string // site-root-relative URL
	OutputDir string // absolute directory the rendered index.html goes into
	Title     string
	Tags      []string
	Date      time.Time
	HasDate   bool
	Preview   template.HTML
	Assets    []string

	render func(Context) (string, error)
}

// Render produces the final HTML for the document given the site-wide
// context.
func (d *Document) Render(ctx Context) (string, error) {
	return d.render(ctx)
}

// Context is the site-wide navigation data shared by every render.
type Context struct {
	Pages          []*Document
	Posts          []*Document // sorted descending by date
	PostsByMonth   []MonthBucket
	PostsPaginated []Chunk
}

// MonthBucket is a contiguous run of same-month posts in the sorted post
// sequence. Non-contiguous runs sharing a month key stay separate buckets.
type MonthBucket struct {
	Year  int
	Month time.Month
	Posts []*Document
}

// Label returns the human-readable month key, e.g. "January 2024".
func (b MonthBucket) Label() string {
	return fmt.Sprintf("%s %d", b.Month, b.Year)
}

// sameKey reports whether a post belongs to this bucket's month.
func (b MonthBucket) sameKey(t time.Time) bool {
	return t.Year() == b.Year && t.Month() == b.Month
}

// Chunk is one fixed-size slice of an ordered post sequence, rendered as a
// single index page.
type Chunk struct {
	Number int // 0-indexed
	Posts  []*Document
	Total  int
}

// indexFileName returns the render target for pagination chunk i:
// index.html for the first chunk, index{i}.html after that.
func indexFileName(i int) string {
	if i == 0 {
		return "index.html"
	}
	return fmt.Sprintf("index%d.html", i)
}

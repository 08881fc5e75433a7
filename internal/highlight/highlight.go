// Package highlight wraps chroma for code-block rendering and stylesheet
// generation.
package highlight

import (
	"io"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/kcuzner/rstblog/internal/errors"
)

// FallbackLanguage is used when a requested language has no lexer. An
// unknown language must never abort a build.
const FallbackLanguage = "text"

// Options configures a Highlighter for one build.
type Options struct {
	Style string
}

// Highlighter renders code fragments to HTML using CSS classes, so styling
// lives in a single generated stylesheet.
type Highlighter struct {
	style     *chroma.Style
	formatter *html.Formatter
}

// New creates a Highlighter for the given style options. An unknown style
// name falls back to chroma's default style.
func New(opts Options) *Highlighter {
	style := styles.Get(opts.Style)
	if style == nil {
		style = styles.Fallback
	}
	return &Highlighter{
		style:     style,
		formatter: html.New(html.WithClasses(true)),
	}
}

// ResolveLanguage returns the language that will actually be used for
// highlighting: the requested one when a lexer exists, FallbackLanguage
// otherwise.
func (h *Highlighter) ResolveLanguage(language string) string {
	if language == "" {
		return FallbackLanguage
	}
	if lexers.Get(language) == nil {
		return FallbackLanguage
	}
	return language
}

// Highlight writes the highlighted HTML fragment for code to w.
func (h *Highlighter) Highlight(w io.Writer, code, language string) error {
	lexer := lexers.Get(h.ResolveLanguage(language))
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return errors.InternalError("tokenise code block", err)
	}
	if err := h.formatter.Format(w, h.style, iterator); err != nil {
		return errors.InternalError("format code block", err)
	}
	return nil
}

// WriteStylesheet writes the CSS for the configured style. The orchestrator
// places this file inside the output directory at the end of a build.
func (h *Highlighter) WriteStylesheet(w io.Writer) error {
	if err := h.formatter.WriteCSS(w, h.style); err != nil {
		return errors.InternalError("write highlight stylesheet", err)
	}
	return nil
}

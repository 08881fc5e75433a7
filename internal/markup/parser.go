// Package markup parses blog source documents into an abstract node tree
// and translates them to HTML plus out-of-band metadata.
//
// Documents are Markdown extended with rst-style block directives
// (`.. name:: argument` followed by indented options and body). Directives
// are resolved through a registry, so new directive types are added by
// registering a handler.
package markup

import (
	"io"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/kcuzner/rstblog/internal/errors"
	"github.com/kcuzner/rstblog/internal/highlight"
)

// Parser parses one document's markup text into a node tree with all
// directives resolved. A Parser is constructed per build so that the
// highlighter style options stay scoped to that build.
type Parser struct {
	registry *Registry
	md       goldmark.Markdown
}

// NewParser creates a Parser using the given directive registry and
// highlighter.
func NewParser(registry *Registry, h *highlight.Highlighter) *Parser {
	md := goldmark.New(
		goldmark.WithParserOptions(
			parser.WithBlockParsers(util.Prioritized(newDirectiveBlockParser(), 100)),
		),
		goldmark.WithRendererOptions(
			renderer.WithNodeRenderers(util.Prioritized(newNodeRenderer(h), 100)),
		),
	)
	return &Parser{registry: registry, md: md}
}

// Parse parses source into a node tree and resolves every directive via the
// registry. Malformed directive input fails with a markup error.
func (p *Parser) Parse(source []byte) (gmast.Node, error) {
	root := p.md.Parser().Parse(text.NewReader(source))

	var raws []*rawDirectiveNode
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if entering {
			if d, ok := n.(*rawDirectiveNode); ok {
				raws = append(raws, d)
			}
		}
		return gmast.WalkContinue, nil
	})

	for _, raw := range raws {
		handler, ok := p.registry.Lookup(raw.Name)
		if !ok {
			return nil, errors.MarkupError("unknown directive").
				WithContext("directive", raw.Name)
		}
		options, body := splitDirective(rawLines(raw, source))
		resolved, err := handler(Directive{
			Name:    raw.Name,
			Arg:     raw.Arg,
			Options: options,
			Body:    body,
		})
		if err != nil {
			return nil, err
		}
		parent := raw.Parent()
		parent.ReplaceChild(parent, raw, resolved)
	}
	return root, nil
}

// Render renders a parsed node to w.
func (p *Parser) Render(w io.Writer, source []byte, n gmast.Node) error {
	return p.md.Renderer().Render(w, source, n)
}

// rawLines extracts the dedented content lines of a raw directive node,
// without trailing newlines.
func rawLines(n *rawDirectiveNode, source []byte) []string {
	lines := make([]string, 0, n.Lines().Len())
	for i := 0; i < n.Lines().Len(); i++ {
		seg := n.Lines().At(i)
		value := seg.Value(source)
		for len(value) > 0 && (value[len(value)-1] == '\n' || value[len(value)-1] == '\r') {
			value = value[:len(value)-1]
		}
		lines = append(lines, string(value))
	}
	return lines
}

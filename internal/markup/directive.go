package markup

import (
	"regexp"
	"strconv"
	"strings"

	gmast "github.com/yuin/goldmark/ast"

	"github.com/kcuzner/rstblog/internal/errors"
	"github.com/kcuzner/rstblog/internal/highlight"
)

// Directive is the raw input handed to a Handler: the argument from the
// marker line, the leading `:key: value` options, and the remaining body
// lines.
type Directive struct {
	Name    string
	Arg     string
	Options map[string]string
	Body    []string
}

// Handler resolves a directive into a content node. New directive types are
// added by registering a handler, not by extending the translator.
type Handler func(d Directive) (gmast.Node, error)

// Registry maps directive names to handlers.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry creates a registry with the built-in directives registered.
// The highlighter resolves code-block languages for this build.
func NewRegistry(h *highlight.Highlighter) *Registry {
	r := &Registry{handlers: map[string]Handler{}}
	r.Register("settings", settingsDirective)
	r.Register("code-block", codeBlockDirective(h))
	r.Register("break", breakDirective)
	r.Register("image", imageDirective)
	return r
}

// Register adds or replaces a directive handler.
func (r *Registry) Register(name string, h Handler) {
	r.handlers[name] = h
}

// Lookup returns the handler for a directive name.
func (r *Registry) Lookup(name string) (Handler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

func settingsDirective(d Directive) (gmast.Node, error) {
	settings, err := settingsFromOptions(d.Options)
	if err != nil {
		return nil, err
	}
	return &SettingsNode{Settings: settings}, nil
}

func codeBlockDirective(h *highlight.Highlighter) Handler {
	return func(d Directive) (gmast.Node, error) {
		language := strings.TrimSpace(d.Arg)
		if h != nil {
			// Unknown languages fall back to the text lexer instead of failing.
			language = h.ResolveLanguage(language)
		} else if language == "" {
			language = highlight.FallbackLanguage
		}
		_, scrollable := d.Options["scrollable"]
		return &CodeNode{
			Code:       strings.Join(d.Body, "\n"),
			Language:   language,
			Scrollable: scrollable,
		}, nil
	}
}

func breakDirective(d Directive) (gmast.Node, error) {
	return &BreakNode{}, nil
}

func imageDirective(d Directive) (gmast.Node, error) {
	uri := strings.TrimSpace(d.Arg)
	if uri == "" {
		return nil, errors.MarkupError("image directive requires a URI argument")
	}
	node := &ImageNode{URI: uri, Alt: strings.TrimSpace(d.Options["alt"])}
	if raw, ok := d.Options["width"]; ok {
		width, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(raw), "px"))
		if err != nil || width <= 0 {
			return nil, errors.MarkupError("image width must be a positive number").
				WithContext("value", raw)
		}
		node.Width = width
	}
	return node, nil
}

var optionPattern = regexp.MustCompile(`^:([a-zA-Z][\w-]*):(?:\s+(.*))?$`)

// splitDirective separates the collected directive content lines into
// options and body. Options are the leading `:key: value` lines; the body is
// everything after them, with surrounding blank lines trimmed.
func splitDirective(lines []string) (map[string]string, []string) {
	options := map[string]string{}
	i := 0
	for ; i < len(lines); i++ {
		m := optionPattern.FindStringSubmatch(strings.TrimRight(lines[i], " \t"))
		if m == nil {
			break
		}
		options[m[1]] = m[2]
	}
	body := lines[i:]
	for len(body) > 0 && strings.TrimSpace(body[0]) == "" {
		body = body[1:]
	}
	for len(body) > 0 && strings.TrimSpace(body[len(body)-1]) == "" {
		body = body[:len(body)-1]
	}
	return options, body
}

// Package templates is a thin façade over the site's template files:
// named template in, rendered text out.
package templates

import (
	"bytes"
	"html/template"
	"path/filepath"

	"github.com/kcuzner/rstblog/internal/errors"
)

// Engine renders named templates loaded from the repository.
type Engine struct {
	root *template.Template
}

// Load parses every *.html template under dir. The templates are authored
// in the blog repository alongside the content.
func Load(dir string) (*Engine, error) {
	root, err := template.ParseGlob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, errors.TemplateError(dir, err)
	}
	return &Engine{root: root}, nil
}

// Render executes the named template with data and returns the rendered
// text.
func (e *Engine) Render(name string, data any) (string, error) {
	t := e.root.Lookup(name)
	if t == nil {
		return "", errors.TemplateError(name, nil).
			WithContext("reason", "template not defined")
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", errors.TemplateError(name, err)
	}
	return buf.String(), nil
}

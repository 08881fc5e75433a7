package templates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kcuzner/rstblog/internal/errors"
)

func TestLoadAndRender(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "post.html"),
		[]byte(`<h1>{{.Title}}</h1>`), 0o644))

	engine, err := Load(dir)
	require.NoError(t, err)

	out, err := engine.Render("post.html", map[string]string{"Title": "Hello"})
	require.NoError(t, err)
	assert.Equal(t, "<h1>Hello</h1>", out)
}

func TestRenderUnknownTemplate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page.html"), []byte(`x`), 0o644))

	engine, err := Load(dir)
	require.NoError(t, err)

	_, err = engine.Render("missing.html", nil)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryTemplate))
}

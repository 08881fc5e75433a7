package highlight

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLanguageFallsBackToText(t *testing.T) {
	h := New(Options{Style: "github"})

	assert.Equal(t, "go", h.ResolveLanguage("go"))
	assert.Equal(t, FallbackLanguage, h.ResolveLanguage("definitely-not-a-language"))
	assert.Equal(t, FallbackLanguage, h.ResolveLanguage(""))
}

func TestHighlightUnknownLanguageDoesNotFail(t *testing.T) {
	h := New(Options{Style: "github"})

	var buf bytes.Buffer
	err := h.Highlight(&buf, "some plain content", "no-such-lexer")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "some plain content")
}

func TestHighlightEmitsClasses(t *testing.T) {
	h := New(Options{Style: "github"})

	var buf bytes.Buffer
	require.NoError(t, h.Highlight(&buf, "package main", "go"))
	// Class-based output keeps styling in the generated stylesheet.
	assert.Contains(t, buf.String(), "class=")
}

func TestUnknownStyleFallsBack(t *testing.T) {
	h := New(Options{Style: "no-such-style"})

	var buf bytes.Buffer
	require.NoError(t, h.WriteStylesheet(&buf))
	assert.True(t, strings.Contains(buf.String(), "{"))
}

func TestWriteStylesheet(t *testing.T) {
	h := New(Options{Style: "github"})

	var buf bytes.Buffer
	require.NoError(t, h.WriteStylesheet(&buf))
	assert.Contains(t, buf.String(), ".chroma")
}

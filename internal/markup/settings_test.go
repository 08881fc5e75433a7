package markup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kcuzner/rstblog/internal/errors"
)

func TestParseDateLayouts(t *testing.T) {
	tests := []struct {
		value string
		want  time.Time
	}{
		{"2024/01/10", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)},
		{"10 January 2024", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)},
		{"10 Jan 2024", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)},
		{" 5 Feb 2023 ", time.Date(2023, 2, 5, 0, 0, 0, 0, time.UTC)},
	}
	for _, test := range tests {
		t.Run(test.value, func(t *testing.T) {
			got, err := ParseDate(test.value)
			require.NoError(t, err)
			assert.True(t, got.Equal(test.want), "got %v", got)
		})
	}
}

func TestParseDateRejectsUnknownFormat(t *testing.T) {
	_, err := ParseDate("January 10th, 2024")
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryMarkup))
	// The error must identify the offending string.
	var be *errors.BlogError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "January 10th, 2024", be.Context["value"])
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		value string
		want  []string
	}{
		{"a, b ,c", []string{"a", "b", "c"}},
		{"single", []string{"single"}},
		{"", []string{}},
		{" , ,", []string{}},
		{"go,  web framework ", []string{"go", "web framework"}},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, ParseTags(test.value), "input %q", test.value)
	}
}

func TestSettingsFromOptions(t *testing.T) {
	s, err := settingsFromOptions(map[string]string{
		"title": "First Post",
		"date":  "2024/01/10",
		"url":   "first",
		"tags":  "a, b",
	})
	require.NoError(t, err)
	assert.Equal(t, "First Post", s.Title)
	assert.Equal(t, "first", s.URL)
	assert.Equal(t, []string{"a", "b"}, s.Tags)
	require.True(t, s.HasDate)
	assert.Equal(t, 2024, s.Date.Year())
}

func TestSettingsFromOptionsWithoutDate(t *testing.T) {
	s, err := settingsFromOptions(map[string]string{"title": "About", "url": "/about"})
	require.NoError(t, err)
	assert.False(t, s.HasDate)
	assert.Empty(t, s.Tags)
}

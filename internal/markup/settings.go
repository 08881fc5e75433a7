package markup

import (
	"strings"
	"time"

	"github.com/kcuzner/rstblog/internal/errors"
)

// Settings is the document metadata resolved from a settings directive.
type Settings struct {
	Title   string
	URL     string
	Tags    []string
	Date    time.Time
	HasDate bool
}

// dateLayouts are tried in order; the first match wins.
var dateLayouts = []string{
	"2006/01/02",
	"2 January 2006",
	"2 Jan 2006",
}

// ParseDate parses a settings date string against the supported layouts.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.DateParseError(value)
}

// ParseTags splits a comma-separated tag list, trimming whitespace and
// dropping empty entries.
func ParseTags(value string) []string {
	tags := []string{}
	for _, tag := range strings.Split(value, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}

// settingsFromOptions resolves directive options into Settings.
func settingsFromOptions(options map[string]string) (Settings, error) {
	s := Settings{
		Title: strings.TrimSpace(options["title"]),
		URL:   strings.TrimSpace(options["url"]),
		Tags:  ParseTags(options["tags"]),
	}
	if raw, ok := options["date"]; ok && strings.TrimSpace(raw) != "" {
		date, err := ParseDate(raw)
		if err != nil {
			return Settings{}, err
		}
		s.Date = date
		s.HasDate = true
	}
	return s, nil
}

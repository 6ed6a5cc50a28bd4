package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	slugStrip      = regexp.MustCompile(`[^\w\s-]`)
	slugWhitespace = regexp.MustCompile(`\s+`)
	slugHyphens    = regexp.MustCompile(`-+`)
)

// Slugify derives a URL-safe slug from a title: lowercase, trimmed, characters
// outside [word, whitespace, hyphen] stripped, whitespace runs collapsed to
// single hyphens, repeated hyphens collapsed, leading/trailing hyphens trimmed.
// The result is stable for an unmodified title.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugStrip.ReplaceAllString(s, "")
	s = slugWhitespace.ReplaceAllString(s, "-")
	s = slugHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// eventDateLayouts are the input formats accepted for event dates.
var eventDateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-1-2",
	"2006/1/2",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	time.RFC3339,
}

// NormalizeEventDate parses a date string against the accepted layouts and
// returns it in YYYY-MM-DD form. Inputs that do not parse to a valid calendar
// date are rejected.
func NormalizeEventDate(date string) (string, error) {
	date = strings.TrimSpace(date)
	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("invalid date format: %q", date)
}

package handlers

import (
	"regexp"
	"strings"
)

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// slugify lowercases and dash-joins a phrase for use in URLs.
func slugify(parts ...string) string {
	joined := strings.ToLower(strings.Join(parts, " "))
	return strings.Trim(slugStrip.ReplaceAllString(joined, "-"), "-")
}

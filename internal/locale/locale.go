// Package locale implements the locale-directory convention used by document roots.
//
// A document root is laid out as <root>/<locale>/index.html, for example
// site/en-US/index.html, with shared assets living next to the locale
// directories.
package locale

import (
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/language"
)

// DefaultTag is the locale whose index page answers requests for "/".
// It is fixed and not configurable.
const DefaultTag = "en-US"

// IndexName is the marker file that identifies a document root.
const IndexName = "index.html"

// segmentPattern matches directory names shaped like a locale (e.g. "ja", "en-us", "pt_BR").
var segmentPattern = regexp.MustCompile(`^[a-zA-Z]{2}(?:[-_][a-zA-Z]{2,4})?$`)

// Canonical returns the BCP 47 form of a locale directory name.
//
// Both "en-us" and "en_US" become "en-US". The second result is false when the
// name does not look like a locale or is not a known language tag.
func Canonical(segment string) (string, bool) {
	if !segmentPattern.MatchString(segment) {
		return "", false
	}
	tag, err := language.Parse(strings.ReplaceAll(segment, "_", "-"))
	if err != nil {
		return "", false
	}
	return tag.String(), true
}

// DefaultDocument returns the page served for the bare root path of a document root.
func DefaultDocument(root string) string {
	return filepath.Join(root, DefaultTag, IndexName)
}

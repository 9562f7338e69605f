package catalog

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var (
	episodePrefix = regexp.MustCompile(`^\d+[_\-.\s]+`)
	partMarker    = regexp.MustCompile(`(?i)\(?\s*\bpart\s+(\d+)\s+of\s+(\d+)\b\s*\)?`)
	whitespace    = regexp.MustCompile(`\s+`)
)

// DeriveTitle turns an episode filename into a display title.
//
// The extension and a leading episode number ("03_", "12 - ") are removed and
// underscores become spaces. Any "Part N of M" markers, parenthesized or not,
// are collapsed into a single trailing "(Part N of M)".
func DeriveTitle(filename string) string {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	name = episodePrefix.ReplaceAllString(name, "")
	name = collapseSpaces(strings.ReplaceAll(name, "_", " "))

	match := partMarker.FindStringSubmatch(name)
	if match == nil {
		return name
	}

	name = collapseSpaces(partMarker.ReplaceAllString(name, " "))
	name = strings.Trim(name, " -:,")

	suffix := fmt.Sprintf("(Part %s of %s)", canonicalNumber(match[1]), canonicalNumber(match[2]))
	if name == "" {
		return suffix
	}
	return name + " " + suffix
}

// Description is the episode summary rendered for title.
func Description(title string) string {
	return "Description for " + title
}

func collapseSpaces(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

func canonicalNumber(digits string) string {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return digits
	}
	return strconv.Itoa(n)
}

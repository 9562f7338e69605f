// Package catalog derives episode titles, ordering keys and publish dates from
// audio filenames. Everything here is pure; no function touches the filesystem.
package catalog

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Unmatched orders after every valid canonical index or numeric prefix.
const Unmatched = math.MaxInt

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	leadingDigits   = regexp.MustCompile(`^\d+`)
)

// Normalize folds s to a comparable form: diacritics and apostrophes are
// dropped, letters lowercased, and every run of other characters becomes "_".
func Normalize(s string) string {
	strip := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Remove(runes.Predicate(isApostrophe)),
		norm.NFC,
	)
	folded, _, err := transform.String(strip, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(cases.Fold().String(folded))
	return strings.Trim(nonAlphanumeric.ReplaceAllString(folded, "_"), "_")
}

func isApostrophe(r rune) bool {
	return r == '\'' || r == '’' || r == '`'
}

// BookIndex returns the position of the first canonical title contained in
// filename once both are normalized, or Unmatched.
func BookIndex(filename string, order []string) int {
	normalized := Normalize(filename)
	for i, title := range order {
		book := Normalize(title)
		if book != "" && strings.Contains(normalized, book) {
			return i
		}
	}
	return Unmatched
}

// NumericPrefix parses the leading decimal digits of filename.
// Names without digits, or with too many to fit an int, yield Unmatched.
func NumericPrefix(filename string) int {
	digits := leadingDigits.FindString(filename)
	if digits == "" {
		return Unmatched
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return Unmatched
	}
	return n
}

// Package normalize holds the pure normalization functions the dedup key
// depends on: swimmer names, meet dates and race times.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD, drops combining marks and recomposes, so
// "García" and "Garcia" become the same string.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var (
	spaceRun    = regexp.MustCompile(`\s+`)
	nonAlphaNum = regexp.MustCompile(`[^A-Z0-9]+`)
)

// Name normalizes a swimmer name for display: accents stripped, whitespace
// collapsed, case preserved.
func Name(s string) string {
	out, _, err := transform.String(stripMarks, strings.TrimSpace(s))
	if err != nil {
		out = strings.TrimSpace(s)
	}
	return spaceRun.ReplaceAllString(out, " ")
}

// Key produces the stable dedup key for a swimmer name: accents stripped,
// uppercased, punctuation folded to single spaces. Textual variants of the
// same name must always map to the same key.
func Key(s string) string {
	k := strings.ToUpper(Name(s))
	k = nonAlphaNum.ReplaceAllString(k, " ")
	return strings.TrimSpace(spaceRun.ReplaceAllString(k, " "))
}

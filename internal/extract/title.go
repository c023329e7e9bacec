package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// space matches everything unicode.IsSpace does, so collapsing whitespace can never
// assemble a new suffix match out of text the pattern skipped.
const space = `[\s\v\x{85}\p{Z}]`

// jobPostSuffix matches a dash-family separator followed by "job post" and everything after it.
// Whitespace runs inside the boilerplate are accepted so that a title whose suffix only lines up
// after collapsing still loses it on the first pass.
var jobPostSuffix = regexp.MustCompile(`(?is)` + space + `*[-‐‑‒–—﹣－]` + space + `*job` + space + `+post.*$`)

// NormalizeTitle drops a trailing "- job post ..." boilerplate suffix and collapses whitespace.
// Characters are only composed (NFC), never folded, so "™" or "ﬁ" survive. It is idempotent.
func NormalizeTitle(raw string) string {
	s := norm.NFC.String(raw)
	s = jobPostSuffix.ReplaceAllString(s, "")
	return CleanText(s)
}

// CleanText composes combining sequences and collapses whitespace runs, NBSP included.
func CleanText(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// Truncate cuts s to at most max characters.
func Truncate(s string, max int) string {
	if max < 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

// ContentLength counts the non-whitespace characters of s.
func ContentLength(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

// Package textnorm provides the locale-aware text normalization and
// similarity primitives shared by every answer-checking path.
package textnorm

import (
	"strings"
	"unicode"

	"github.com/agext/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// StripDiacritics removes combining marks: "tři" becomes "tri".
func StripDiacritics(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		return s
	}
	return out
}

// Normalize lowercases, strips diacritics and punctuation, and
// collapses whitespace. The result is the canonical form every matcher
// operates on.
func Normalize(s string) string {
	s = strings.ToLower(StripDiacritics(s))
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := true
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// Similarity returns the Levenshtein similarity of two normalized
// strings in [0, 1].
func Similarity(a, b string) float64 {
	a, b = Normalize(a), Normalize(b)
	if a == "" && b == "" {
		return 1
	}
	return levenshtein.Similarity(a, b, nil)
}

// Words splits a normalized string into tokens of at least minLen runes.
func Words(s string, minLen int) []string {
	var out []string
	for _, w := range strings.Fields(Normalize(s)) {
		if len([]rune(w)) >= minLen {
			out = append(out, w)
		}
	}
	return out
}

// ContainsWord reports whether needle appears as a whole word of the
// normalized haystack.
func ContainsWord(haystack, needle string) bool {
	needle = Normalize(needle)
	if needle == "" {
		return false
	}
	for _, w := range strings.Fields(Normalize(haystack)) {
		if w == needle {
			return true
		}
	}
	return false
}

// Contains reports whether the normalized needle is a substring of the
// normalized haystack.
func Contains(haystack, needle string) bool {
	needle = Normalize(needle)
	if needle == "" {
		return false
	}
	return strings.Contains(Normalize(haystack), needle)
}

// WordOverlap returns the share of word pairs between a and b where one
// word contains the other, relative to the larger word count. Words
// shorter than minLen are ignored.
func WordOverlap(a, b string, minLen int) float64 {
	aw, bw := Words(a, minLen), Words(b, minLen)
	if len(aw) == 0 || len(bw) == 0 {
		return 0
	}
	matches := 0
	for _, x := range aw {
		for _, y := range bw {
			if strings.Contains(x, y) || strings.Contains(y, x) {
				matches++
				break
			}
		}
	}
	denom := len(aw)
	if len(bw) > denom {
		denom = len(bw)
	}
	return float64(matches) / float64(denom)
}

// KeywordHits counts how many of the keywords appear in the utterance,
// by whole word or substring.
func KeywordHits(utterance string, keywords []string) int {
	hits := 0
	for _, kw := range keywords {
		if Contains(utterance, kw) {
			hits++
		}
	}
	return hits
}

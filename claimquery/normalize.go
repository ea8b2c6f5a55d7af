package claimquery

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var lower = cases.Lower(language.Und)

var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFKC)

// NormalizeName case-folds a claim name and strips diacritics and
// whitespace so that lookalike names collide on the same normalized
// form, e.g. "Foo Bar" and "foo bar" both normalize to "foobar".
func NormalizeName(name string) string {
	folded := lower.String(name)
	stripped, _, err := transform.String(stripMarks, folded)
	if err != nil {
		stripped = folded
	}
	return strings.Join(strings.Fields(stripped), "")
}

var (
	weirdChars = regexp.MustCompile(`[^\w\s]`)
	multiSpace = regexp.MustCompile(`\s+`)
)

// cleanTag normalizes a single tag: lowercase, strip apostrophes, collapse
// non-word punctuation and repeated whitespace into single spaces.
func cleanTag(tag string) string {
	folded := lower.String(strings.TrimSpace(strings.ReplaceAll(tag, "'", "")))
	folded = weirdChars.ReplaceAllString(folded, " ")
	return strings.TrimSpace(multiSpace.ReplaceAllString(folded, " "))
}

// CleanTags normalizes a set of tags/languages the same way clean_tags
// does in the system this engine's query surface is modeled on.
func CleanTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = cleanTag(t)
	}
	return out
}

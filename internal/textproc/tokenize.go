// Package textproc turns resume and job records into token streams and skill tags.
package textproc

import (
	"regexp"
	"strings"
)

var (
	tokenPattern  = regexp.MustCompile(`[A-Za-z0-9+#.\-]+`)
	tagSeparators = regexp.MustCompile(`[^a-z0-9+#]+`)
)

// Tokenize returns the lower-cased tokens of text in order of appearance.
// Duplicates are kept since term frequency feeds the embedding.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	matches := tokenPattern.FindAllString(text, -1)
	for i, m := range matches {
		matches[i] = strings.ToLower(m)
	}
	return matches
}

// NormalizeTag canonicalises a skill string for set comparison.
// "Node.js" becomes "node js"; "C++" stays "c++".
func NormalizeTag(skill string) string {
	lower := strings.ToLower(strings.TrimSpace(skill))
	return strings.TrimSpace(tagSeparators.ReplaceAllString(lower, " "))
}

// Package assemble reconstructs one fluent sentence from translated and
// protected chunks, and splices independently translated bracket content
// back into its frame sentence.
package assemble

import (
	"regexp"
	"strings"
)

var (
	spaceBeforePunct = regexp.MustCompile(`\s+([.!?,~])`)
	whitespaceRun    = regexp.MustCompile(`\s+`)
)

// Join concatenates the chunk results in their original order and
// normalizes spacing. Protected chunks arrive surrounded by the join
// separator and the translator introduces its own inconsistent spacing,
// so runs of whitespace collapse to single spaces and whitespace before
// sentence-final punctuation is dropped.
func Join(parts []string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return Normalize(strings.Join(kept, " "))
}

// Normalize collapses whitespace runs, removes whitespace preceding
// sentence-final punctuation, and trims the ends.
func Normalize(s string) string {
	s = spaceBeforePunct.ReplaceAllString(s, "$1")
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

package assemble

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/example/go-chat-translate/internal/protect"
)

// fuzzyMarker matches a bracket marker the model may have mangled: the
// surrounding [[ ]] replaced by other quote glyphs or dropped, the letter
// case changed, or internal spacing added. The digit run identifies the
// span.
var fuzzyMarker = regexp.MustCompile(`(?i)[\[{(「『【（〈《]*\s*b\s*([0-9]+)\s*[\]})」』】）〉》]*`)

// Splice substitutes the independently translated inner content into the
// translated frame sentence, wrapped in the span's original bracket
// glyphs. It first looks for the exact marker, then for a fuzzy variant;
// duplicated copies of the marker are dropped so they never reach the
// user.
// When the model has dropped the marker entirely the inner translation is
// still kept: spliced at the start of the sentence if the span was
// sentence-initial, after the recorded anchor word if it survived
// translation, otherwise at the end. The boolean reports whether the
// marker was actually located.
func Splice(frame string, span protect.BracketSpan, inner string) (string, bool) {
	wrapped := string(span.Open) + inner + string(span.Close)
	marker := span.Marker()

	if i := strings.Index(frame, marker); i >= 0 {
		head := stripMarkers(frame[:i], span)
		tail := stripMarkers(frame[i+len(marker):], span)
		return Normalize(head + wrapped + tail), true
	}

	if start, end, ok := findFuzzyMarker(frame, span.Index); ok {
		head := stripMarkers(frame[:start], span)
		tail := stripMarkers(frame[end:], span)
		return Normalize(head + wrapped + tail), true
	}

	// Marker hallucinated away; degrade to a deterministic position
	// rather than dropping the content.
	switch {
	case span.Leading:
		return Normalize(wrapped + " " + frame), false
	case span.Anchor != "" && strings.Contains(frame, span.Anchor):
		idx := strings.Index(frame, span.Anchor) + len(span.Anchor)
		return Normalize(frame[:idx] + " " + wrapped + frame[idx:]), false
	default:
		return Normalize(frame + " " + wrapped), false
	}
}

// stripMarkers removes duplicated copies of the span's marker. The model
// sometimes echoes a placeholder more than once; only one copy gets the
// inner content, the rest must not leak into the output.
func stripMarkers(s string, span protect.BracketSpan) string {
	s = strings.ReplaceAll(s, span.Marker(), "")
	for {
		start, end, ok := findFuzzyMarker(s, span.Index)
		if !ok {
			return s
		}
		s = s[:start] + s[end:]
	}
}

// findFuzzyMarker locates the mangled marker for span index want. Matches
// whose digit run belongs to a different span, or that sit inside a longer
// digit run, are skipped.
func findFuzzyMarker(frame string, want int) (start, end int, ok bool) {
	for _, loc := range fuzzyMarker.FindAllStringSubmatchIndex(frame, -1) {
		digits := frame[loc[2]:loc[3]]
		n, err := strconv.Atoi(digits)
		if err != nil || n != want {
			continue
		}
		if loc[3] < len(frame) && frame[loc[3]] >= '0' && frame[loc[3]] <= '9' {
			continue
		}
		return loc[0], loc[1], true
	}
	return 0, 0, false
}

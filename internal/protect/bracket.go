package protect

import (
	"fmt"
	"strings"
	"unicode"
)

// bracketPairs are the structural quotation/title glyphs whose content is
// translated as its own sub-chunk. The glyphs themselves never reach the
// translator: the span is replaced by an inline marker inside the frame
// sentence.
var bracketPairs = map[rune]rune{
	'「': '」',
	'『': '』',
	'【': '】',
	'（': '）',
	'〈': '〉',
	'《': '》',
}

// BracketSpan is one extracted bracketed region. Spans are tracked by
// Index, not by marker text, because the model may rewrite or drop the
// marker inside the translated frame.
type BracketSpan struct {
	Index int
	Open  rune
	Close rune
	Inner string
	// Anchor is the whitespace-delimited word immediately preceding the
	// bracket in the frame, recorded for fallback placement.
	Anchor string
	// Leading reports that the span opened the sentence.
	Leading bool
}

// Marker returns the inline stand-in embedded in the frame for this span.
func (s BracketSpan) Marker() string {
	return bracketMarker(s.Index)
}

func bracketMarker(i int) string {
	return fmt.Sprintf("[[B%d]]", i)
}

// ExtractBrackets pulls the content of every matched bracket pair out of
// text, leaving an inline positional marker in its place. The frame and
// each span's Inner are translated independently; assemble.Splice puts
// them back together. Unmatched open glyphs are left untouched.
func ExtractBrackets(text string) (frame string, spans []BracketSpan) {
	var b strings.Builder
	runes := []rune(text)

	for i := 0; i < len(runes); i++ {
		closeGlyph, ok := bracketPairs[runes[i]]
		if !ok {
			b.WriteRune(runes[i])
			continue
		}
		end := -1
		for j := i + 1; j < len(runes); j++ {
			if runes[j] == closeGlyph {
				end = j
				break
			}
		}
		if end < 0 {
			b.WriteRune(runes[i])
			continue
		}

		span := BracketSpan{
			Index:   len(spans),
			Open:    runes[i],
			Close:   closeGlyph,
			Inner:   string(runes[i+1 : end]),
			Anchor:  lastWord(b.String()),
			Leading: strings.TrimSpace(b.String()) == "",
		}
		spans = append(spans, span)
		b.WriteString(span.Marker())
		i = end
	}

	return b.String(), spans
}

// lastWord returns the final whitespace-delimited word of s, or "".
func lastWord(s string) string {
	fields := strings.FieldsFunc(s, unicode.IsSpace)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

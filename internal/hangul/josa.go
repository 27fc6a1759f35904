// Package hangul corrects Korean particle (josa) agreement after machine
// translation. Particle choice depends on whether the preceding syllable
// carries a final consonant (batchim), a property the translator cannot
// know when the word is produced in a different chunk.
package hangul

const (
	syllableBase = 0xAC00 // first Hangul syllable (가)
	syllableLast = 0xD7A3 // last Hangul syllable (힣)
	// Number of final-consonant slots per (initial, medial) pair in the
	// Hangul syllables block; slot 0 means no final consonant.
	finalSlots = 28
)

// particlePairs maps each ambiguous particle to its final-consonant and
// no-final-consonant forms. Both members of a pair map to the same forms,
// so a wrong guess by the translator is rewritten either way.
var particlePairs = map[rune][2]rune{
	'을': {'을', '를'}, '를': {'을', '를'}, // object marker
	'이': {'이', '가'}, '가': {'이', '가'}, // subject marker
	'은': {'은', '는'}, '는': {'은', '는'}, // topic marker
	'와': {'과', '와'}, '과': {'과', '와'}, // conjunctive
}

// HasFinalConsonant reports whether r is a Hangul syllable ending in a
// final consonant. The test is pure arithmetic over the code point: the
// block is laid out so that the offset modulo the final-slot count is zero
// exactly when no final consonant is present. Runes outside the block
// (Latin letters, digits) report false.
func HasFinalConsonant(r rune) bool {
	if r < syllableBase || r > syllableLast {
		return false
	}
	return (r-syllableBase)%finalSlots != 0
}

// isWordRune reports whether r may legitimately end the word preceding a
// particle: a Hangul syllable, a Latin letter, a digit, or a closing
// parenthesis (names are rendered as 원문(Romaji)).
func isWordRune(r rune) bool {
	if r >= syllableBase && r <= syllableLast {
		return true
	}
	if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
		return true
	}
	return r == ')'
}

func isSyllable(r rune) bool {
	return r >= syllableBase && r <= syllableLast
}

// Correct rewrites every ambiguous particle to agree with the final
// consonant of the word it follows. A particle only counts when it
// directly follows a word rune and is not itself followed by another
// Hangul syllable (which would make it an ordinary syllable inside a
// longer word). Correct is pure and idempotent.
func Correct(text string) string {
	runes := []rune(text)
	changed := false

	for i := 1; i < len(runes); i++ {
		forms, ok := particlePairs[runes[i]]
		if !ok {
			continue
		}
		if !isWordRune(runes[i-1]) {
			continue
		}
		if i+1 < len(runes) && isSyllable(runes[i+1]) {
			continue
		}

		want := forms[1]
		if HasFinalConsonant(runes[i-1]) {
			want = forms[0]
		}
		if runes[i] != want {
			runes[i] = want
			changed = true
		}
	}

	if !changed {
		return text
	}
	return string(runes)
}

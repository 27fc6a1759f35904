// Package protect identifies substrings that must bypass machine
// translation (recruitment tags, dictionary-pinned terms, numeric
// counters) and splits the input into an ordered list of protected and
// translatable chunks.
package protect

import (
	"regexp"
	"sort"
	"strings"
)

// Chunk is one contiguous unit of the input. Protected chunks carry their
// final replacement text and must never be sent to the translator;
// translatable chunks go through the model. Chunk order is significant and
// preserved end to end.
type Chunk struct {
	Text      string
	Protected bool
}

// Nickname pairs a source-language name with its cached transliteration.
type Nickname struct {
	Source string
	Romaji string
}

// recruitPattern matches party-recruitment @-tags: an @ followed by runs
// of Latin letters, digits, kana and CJK ideographs, optionally joined by
// whitespace across several tokens.
var recruitPattern = regexp.MustCompile(
	`@[A-Za-z0-9\x{3040}-\x{30FF}\x{4E00}-\x{9FAF}]+(?:\s+[A-Za-z0-9\x{3040}-\x{30FF}\x{4E00}-\x{9FAF}]+)*`)

// counterPattern matches a digit run attached to one of the counter
// suffixes the model reliably mistranslates.
var counterPattern = regexp.MustCompile(`([0-9]+)(種|人|周|回)`)

// counterUnits maps each counter suffix to its Korean unit word.
var counterUnits = map[string]string{
	"種": "종",
	"人": "인",
	"周": "주",
	"回": "회",
}

// segment is one piece of the working text: either literal text still
// eligible for later protection phases, or an opaque token standing in for
// an already-protected span. Tokens are integer indices into the ledger,
// so a protected span can never be re-matched or collide with incidental
// text.
type segment struct {
	text  string
	token int // -1 for literal text
}

type arena struct {
	segments []segment
	ledger   []string // replacement text per token
}

func newArena(text string) *arena {
	return &arena{segments: []segment{{text: text, token: -1}}}
}

// protectLiteral replaces every occurrence of target inside literal
// segments with a fresh token carrying repl. Token segments are opaque and
// never rescanned.
func (a *arena) protectLiteral(target, repl string) {
	if target == "" {
		return
	}
	var out []segment
	for _, seg := range a.segments {
		if seg.token >= 0 || !strings.Contains(seg.text, target) {
			out = append(out, seg)
			continue
		}
		rest := seg.text
		for {
			idx := strings.Index(rest, target)
			if idx < 0 {
				break
			}
			if idx > 0 {
				out = append(out, segment{text: rest[:idx], token: -1})
			}
			out = append(out, segment{token: a.addToken(repl)})
			rest = rest[idx+len(target):]
		}
		if rest != "" {
			out = append(out, segment{text: rest, token: -1})
		}
	}
	a.segments = out
}

// protectPattern applies re to every literal segment, replacing each match
// with a token whose replacement is computed by repl.
func (a *arena) protectPattern(re *regexp.Regexp, repl func(match []string) string) {
	var out []segment
	for _, seg := range a.segments {
		if seg.token >= 0 {
			out = append(out, seg)
			continue
		}
		locs := re.FindAllStringSubmatchIndex(seg.text, -1)
		if locs == nil {
			out = append(out, seg)
			continue
		}
		prev := 0
		for _, loc := range locs {
			if loc[0] > prev {
				out = append(out, segment{text: seg.text[prev:loc[0]], token: -1})
			}
			groups := make([]string, 0, len(loc)/2)
			for g := 0; g < len(loc); g += 2 {
				groups = append(groups, seg.text[loc[g]:loc[g+1]])
			}
			out = append(out, segment{token: a.addToken(repl(groups))})
			prev = loc[1]
		}
		if prev < len(seg.text) {
			out = append(out, segment{text: seg.text[prev:], token: -1})
		}
	}
	a.segments = out
}

func (a *arena) addToken(repl string) int {
	a.ledger = append(a.ledger, repl)
	return len(a.ledger) - 1
}

func (a *arena) chunks() []Chunk {
	var chunks []Chunk
	for _, seg := range a.segments {
		if seg.token >= 0 {
			chunks = append(chunks, Chunk{Text: a.ledger[seg.token], Protected: true})
			continue
		}
		text := strings.TrimSpace(seg.text)
		if text == "" {
			continue
		}
		chunks = append(chunks, Chunk{Text: text, Protected: false})
	}
	return chunks
}

// matchesIn collects the distinct strings matched by re across all literal
// segments, longest first so that no match shadows a longer one containing
// it.
func (a *arena) matchesIn(re *regexp.Regexp) []string {
	seen := make(map[string]bool)
	var matches []string
	for _, seg := range a.segments {
		if seg.token >= 0 {
			continue
		}
		for _, m := range re.FindAllString(seg.text, -1) {
			if !seen[m] {
				seen[m] = true
				matches = append(matches, m)
			}
		}
	}
	sortLongestFirst(matches)
	return matches
}

// presentKeys returns the dictionary keys occurring in any literal
// segment, longest first; when one key is a substring of another, the
// longer key must win.
func (a *arena) presentKeys(dict map[string]string) []string {
	var keys []string
	for key := range dict {
		if key == "" {
			continue
		}
		for _, seg := range a.segments {
			if seg.token < 0 && strings.Contains(seg.text, key) {
				keys = append(keys, key)
				break
			}
		}
	}
	sortLongestFirst(keys)
	return keys
}

func sortLongestFirst(items []string) {
	sort.Slice(items, func(i, j int) bool {
		if len(items[i]) != len(items[j]) {
			return len(items[i]) > len(items[j])
		}
		return items[i] < items[j]
	})
}

// Protect runs the protection phases in order (nickname substitution,
// recruitment tags, dictionary terms, numeric counters) and returns the
// ordered chunk list. Earlier phases win overlaps: once a region is
// swallowed into a token it is opaque to later phases.
func Protect(text string, dict map[string]string, nicknames []Nickname) []Chunk {
	// Nickname substitution is plain text replacement, not protection:
	// the transliterated name stays translatable so the agreement
	// corrector can still see it.
	for _, n := range nicknames {
		if n.Source == "" || n.Romaji == "" {
			continue
		}
		text = strings.ReplaceAll(text, n.Source, n.Romaji)
	}

	a := newArena(text)

	for _, tag := range a.matchesIn(recruitPattern) {
		a.protectLiteral(tag, tag) // tags pass through verbatim
	}

	for _, key := range a.presentKeys(dict) {
		a.protectLiteral(key, dict[key])
	}

	a.protectPattern(counterPattern, func(groups []string) string {
		return groups[1] + counterUnits[groups[2]]
	})

	return a.chunks()
}

// Package dict loads the pinned-term dictionary: source-language terms
// whose translation is fixed by the operator rather than left to the
// model. The file is operator-edited JSON and reloadable at runtime, so
// loading is tolerant and every failure leaves the previous snapshot in
// place.
package dict

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// structuralGlyphs are bracket characters that sometimes leak into
// operator dictionaries as keys. They are handled by the bracket
// splitter, never by term pinning, so such keys are dropped on load.
const structuralGlyphs = "【】「」『』（）〈〉《》"

// Snapshot is an immutable view of the dictionary at one load. Callers
// must not mutate the returned map.
type Snapshot struct {
	terms map[string]string
}

// Empty returns a snapshot with no terms.
func Empty() *Snapshot {
	return &Snapshot{}
}

// FromTerms builds a snapshot from an in-memory mapping, bypassing the
// file format. The mapping is copied.
func FromTerms(terms map[string]string) *Snapshot {
	cp := make(map[string]string, len(terms))
	for k, v := range terms {
		cp[k] = v
	}
	return &Snapshot{terms: cp}
}

// Terms returns the pinned-term mapping. May be nil for an empty
// snapshot.
func (s *Snapshot) Terms() map[string]string {
	return s.terms
}

// Len returns the number of pinned terms.
func (s *Snapshot) Len() int {
	return len(s.terms)
}

type dictFile struct {
	Data map[string]string `json:"data"`
}

// Load reads the dictionary at path. A missing, empty or malformed file
// is an error; the caller decides whether to keep a previous snapshot or
// fall back to Empty.
func Load(path string) (*Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dictionary: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, errors.New("dictionary file is empty")
	}

	var f dictFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse dictionary: %w", err)
	}

	terms := make(map[string]string, len(f.Data))
	for k, v := range f.Data {
		if k == "" || strings.Contains(structuralGlyphs, k) {
			continue
		}
		terms[k] = v
	}
	return &Snapshot{terms: terms}, nil
}

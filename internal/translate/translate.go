// Package translate defines the boundary to the machine-translation
// backend. The pipeline hands over an ordered batch of translatable
// chunks and gets one output per input back; everything else about the
// model is someone else's problem.
package translate

import (
	"context"
	"fmt"
)

// Translator translates a batch of texts. Implementations must return
// exactly one output per input, in input order, and must not reorder,
// merge or drop entries.
type Translator interface {
	Translate(ctx context.Context, texts []string) ([]string, error)
}

// Mock is a deterministic Translator for tests and offline runs. With an
// empty Prefix it is the identity; otherwise each output is Prefix
// prepended to the input.
type Mock struct {
	Prefix string
}

func (m Mock) Translate(_ context.Context, texts []string) ([]string, error) {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = m.Prefix + t
	}
	return out, nil
}

// Func adapts a per-text function into a Translator.
type Func func(string) string

func (f Func) Translate(_ context.Context, texts []string) ([]string, error) {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = f(t)
	}
	return out, nil
}

// CheckCounts enforces the one-output-per-input contract.
func CheckCounts(in, out []string) error {
	if len(out) != len(in) {
		return fmt.Errorf("translator returned %d outputs for %d inputs", len(out), len(in))
	}
	return nil
}

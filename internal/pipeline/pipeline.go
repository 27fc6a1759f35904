// Package pipeline wires the normalization stages around the translator:
// nickname substitution, span protection, chunked translation, optional
// bracket splitting, reassembly and Korean particle agreement.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/go-chat-translate/internal/assemble"
	"github.com/example/go-chat-translate/internal/dict"
	"github.com/example/go-chat-translate/internal/hangul"
	"github.com/example/go-chat-translate/internal/nickname"
	"github.com/example/go-chat-translate/internal/protect"
	"github.com/example/go-chat-translate/internal/translate"
)

// Request is one chat line to translate.
type Request struct {
	// PID correlates the response with the caller's message.
	PID int64
	// Text is the raw chat line.
	Text string
	// Nickname is the sender's display name, optional.
	Nickname string
}

// Response carries the final translation. Nickname is formatted as
// "source(Romaji)" when the request named a sender, empty otherwise.
type Response struct {
	PID        int64
	Translated string
	Nickname   string
	// Trace is populated only when the service runs with tracing on.
	Trace *Trace
}

// Trace records the intermediate stages for diagnostics.
type Trace struct {
	Original    string
	Chunks      []string
	Translated  []string
	Reassembled string
	Final       string
}

// Service is the translation pipeline. It is built for the sequential
// host loop: Process and SetDictionary must not race each other. The
// nickname cache itself is safe for concurrent use.
type Service struct {
	translator translate.Translator
	cache      *nickname.Cache
	translit   *nickname.Transliterator
	dictionary *dict.Snapshot
	log        *slog.Logger
	brackets   bool
	trace      bool
}

// Option configures a Service.
type Option func(*options)

type options struct {
	cacheLimit int
	logger     *slog.Logger
	brackets   bool
	trace      bool
}

// WithCacheLimit bounds the nickname cache.
func WithCacheLimit(n int) Option {
	return func(o *options) { o.cacheLimit = n }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithBracketSplitting translates bracketed sub-spans independently of
// their frame sentence.
func WithBracketSplitting(on bool) Option {
	return func(o *options) { o.brackets = on }
}

// WithTrace records intermediate stages on every response.
func WithTrace(on bool) Option {
	return func(o *options) { o.trace = on }
}

// New builds a Service around the given translator.
func New(tr translate.Translator, opts ...Option) (*Service, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	cache, err := nickname.NewCache(o.cacheLimit)
	if err != nil {
		return nil, err
	}
	translit, err := nickname.NewTransliterator()
	if err != nil {
		return nil, err
	}

	return &Service{
		translator: tr,
		cache:      cache,
		translit:   translit,
		dictionary: dict.Empty(),
		log:        o.logger,
		brackets:   o.brackets,
		trace:      o.trace,
	}, nil
}

// SetDictionary swaps in a freshly loaded snapshot. Subsequent requests
// use the new terms.
func (s *Service) SetDictionary(snap *dict.Snapshot) {
	if snap == nil {
		snap = dict.Empty()
	}
	s.dictionary = snap
}

// Romaji transliterates a name without touching the cache.
func (s *Service) Romaji(name string) string {
	return s.translit.Romaji(name)
}

// Process translates one chat line end to end.
func (s *Service) Process(ctx context.Context, req Request) (Response, error) {
	resp := Response{PID: req.PID}

	if req.Nickname != "" {
		romaji, ok := s.cache.Lookup(req.Nickname)
		if !ok {
			romaji = s.translit.Romaji(req.Nickname)
		}
		s.cache.Update(req.Nickname, romaji)
		resp.Nickname = fmt.Sprintf("%s(%s)", req.Nickname, romaji)
	}

	chunks := protect.Protect(req.Text, s.dictionary.Terms(), s.cache.Snapshot())

	parts, translatedIn, translatedOut, err := s.translateChunks(ctx, chunks)
	if err != nil {
		return Response{}, err
	}

	reassembled := assemble.Join(parts)
	resp.Translated = hangul.Correct(reassembled)

	if s.trace {
		texts := make([]string, len(chunks))
		for i, c := range chunks {
			texts[i] = c.Text
		}
		resp.Trace = &Trace{
			Original:    req.Text,
			Chunks:      texts,
			Translated:  translatedOut,
			Reassembled: reassembled,
			Final:       resp.Translated,
		}
		s.log.Debug("pipeline trace",
			"pid", req.PID,
			"chunks", len(chunks),
			"translated", len(translatedIn))
	}
	return resp, nil
}

// translateChunks sends every translatable chunk through the translator
// in one ordered batch and returns the per-chunk result texts.
func (s *Service) translateChunks(ctx context.Context, chunks []protect.Chunk) (parts, batch, outputs []string, err error) {
	parts = make([]string, len(chunks))
	var idx []int
	for i, c := range chunks {
		if c.Protected {
			parts[i] = c.Text
			continue
		}
		if s.brackets {
			continue
		}
		batch = append(batch, c.Text)
		idx = append(idx, i)
	}

	if s.brackets {
		return s.translateWithBrackets(ctx, chunks, parts)
	}

	if len(batch) == 0 {
		return parts, nil, nil, nil
	}
	outputs, err = s.translator.Translate(ctx, batch)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("translate batch: %w", err)
	}
	if err := translate.CheckCounts(batch, outputs); err != nil {
		return nil, nil, nil, err
	}
	for j, i := range idx {
		parts[i] = outputs[j]
	}
	return parts, batch, outputs, nil
}

// translateWithBrackets splits each translatable chunk into a frame plus
// bracketed sub-spans, translates everything in one batch, then splices
// the sub-span translations back into their frames.
func (s *Service) translateWithBrackets(ctx context.Context, chunks []protect.Chunk, parts []string) ([]string, []string, []string, error) {
	type job struct {
		chunk int
		frame int // batch index of the frame
		spans []protect.BracketSpan
		inner []int // batch indices of the inner texts
	}

	var batch []string
	var jobs []job
	for i, c := range chunks {
		if c.Protected {
			continue
		}
		frame, spans := protect.ExtractBrackets(c.Text)
		j := job{chunk: i, frame: len(batch), spans: spans}
		batch = append(batch, frame)
		for _, sp := range spans {
			j.inner = append(j.inner, len(batch))
			batch = append(batch, sp.Inner)
		}
		jobs = append(jobs, j)
	}

	if len(batch) == 0 {
		return parts, nil, nil, nil
	}
	outputs, err := s.translator.Translate(ctx, batch)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("translate batch: %w", err)
	}
	if err := translate.CheckCounts(batch, outputs); err != nil {
		return nil, nil, nil, err
	}

	for _, j := range jobs {
		text := outputs[j.frame]
		for k, sp := range j.spans {
			var located bool
			text, located = assemble.Splice(text, sp, outputs[j.inner[k]])
			if !located {
				s.log.Warn("bracket marker lost in translation",
					"marker", sp.Marker(),
					"anchor", sp.Anchor)
			}
		}
		parts[j.chunk] = text
	}
	return parts, batch, outputs, nil
}

// Package host runs the line-oriented JSON protocol spoken with the
// embedding chat client: one request object per line on stdin, one
// response object per line on stdout. Operational logs go to the
// structured logger, never to stdout.
package host

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/example/go-chat-translate/internal/dict"
	"github.com/example/go-chat-translate/internal/pipeline"
)

// Protocol commands. A request without a cmd is a translation request.
const (
	cmdReload       = "reload"
	cmdNicknameOnly = "nickname_only"
)

type request struct {
	Cmd      string `json:"cmd,omitempty"`
	PID      *int64 `json:"pid,omitempty"`
	Text     string `json:"text,omitempty"`
	Nickname string `json:"nickname,omitempty"`
}

// pidOf unwraps an optional pid, zero when absent.
func pidOf(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}

type response struct {
	Type        string          `json:"type"`
	PID         int64           `json:"pid,omitempty"`
	Translated  string          `json:"translated,omitempty"`
	Nickname    string          `json:"nickname,omitempty"`
	Message     string          `json:"message,omitempty"`
	Diagnostics *pipeline.Trace `json:"diagnostics,omitempty"`
}

// Loop reads requests and writes responses until its input closes or the
// context is cancelled. A failed request answers with a type "error"
// line and the loop keeps going; only I/O failure ends it.
type Loop struct {
	svc      *pipeline.Service
	dictPath string
	timeout  time.Duration
	in       io.Reader
	out      io.Writer
	log      *slog.Logger
}

// Option configures a Loop.
type Option func(*Loop)

// WithIO replaces stdin/stdout, for tests.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(l *Loop) {
		l.in = in
		l.out = out
	}
}

// WithLogger sets the structured logger.
func WithLogger(log *slog.Logger) Option {
	return func(l *Loop) { l.log = log }
}

// WithTimeout bounds each translation request.
func WithTimeout(d time.Duration) Option {
	return func(l *Loop) { l.timeout = d }
}

// New builds a Loop over the given pipeline. dictPath may be empty, in
// which case no dictionary is loaded and reload commands are no-ops.
func New(svc *pipeline.Service, dictPath string, opts ...Option) *Loop {
	l := &Loop{
		svc:      svc,
		dictPath: dictPath,
		in:       os.Stdin,
		out:      os.Stdout,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run processes requests until EOF or context cancellation.
func (l *Loop) Run(ctx context.Context) error {
	l.reloadDictionary()

	sc := bufio.NewScanner(l.in)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}

		var req request
		if err := json.Unmarshal(line, &req); err != nil {
			l.log.Error("malformed request", "error", err)
			if werr := l.write(response{Type: "error", Message: "malformed request"}); werr != nil {
				return werr
			}
			continue
		}

		if err := l.dispatch(ctx, req); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read requests: %w", err)
	}
	return nil
}

func (l *Loop) dispatch(ctx context.Context, req request) error {
	switch req.Cmd {
	case cmdReload:
		count, ok := l.reloadDictionary()
		if !ok {
			return l.write(response{Type: "error", Message: "dictionary reload failed"})
		}
		return l.write(response{
			Type:    "info",
			Message: fmt.Sprintf("dictionary reloaded: %d terms", count),
		})

	case cmdNicknameOnly:
		if req.Nickname == "" {
			return l.write(response{Type: "error", PID: pidOf(req.PID), Message: "nickname_only without nickname"})
		}
		romaji := l.svc.Romaji(req.Nickname)
		return l.write(response{
			Type:     "result",
			PID:      pidOf(req.PID),
			Nickname: fmt.Sprintf("%s(%s)", req.Nickname, romaji),
		})

	case "":
		return l.translate(ctx, req)

	default:
		l.log.Warn("unknown command", "cmd", req.Cmd)
		return l.write(response{Type: "error", PID: pidOf(req.PID), Message: "unknown command: " + req.Cmd})
	}
}

func (l *Loop) translate(ctx context.Context, req request) error {
	// The client emits placeholder records with no pid or no text; those
	// are dropped without an answer.
	if req.PID == nil || req.Text == "" {
		l.log.Debug("skipping incomplete translation request")
		return nil
	}

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	resp, err := l.svc.Process(ctx, pipeline.Request{
		PID:      *req.PID,
		Text:     req.Text,
		Nickname: req.Nickname,
	})
	if err != nil {
		l.log.Error("translation failed", "pid", *req.PID, "error", err)
		return l.write(response{Type: "error", PID: *req.PID, Message: err.Error()})
	}

	return l.write(response{
		Type:        "result",
		PID:         resp.PID,
		Translated:  resp.Translated,
		Nickname:    resp.Nickname,
		Diagnostics: resp.Trace,
	})
}

// reloadDictionary loads the configured dictionary into the pipeline.
// On failure the previous snapshot stays active.
func (l *Loop) reloadDictionary() (terms int, ok bool) {
	if l.dictPath == "" {
		return 0, true
	}
	snap, err := dict.Load(l.dictPath)
	if err != nil {
		l.log.Error("dictionary load failed", "path", l.dictPath, "error", err)
		return 0, false
	}
	l.svc.SetDictionary(snap)
	l.log.Info("dictionary loaded", "path", l.dictPath, "terms", snap.Len())
	return snap.Len(), true
}

func (l *Loop) write(resp response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	data = append(data, '\n')
	if _, err := l.out.Write(data); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}

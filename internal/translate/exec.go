package translate

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Exec runs an external translator binary per batch. Inputs are written
// one per line on the child's stdin; the child prints one translated
// line per input on stdout. Newlines inside a chunk are flattened to
// spaces before writing, so the line protocol stays one-to-one.
type Exec struct {
	// Path is the translator executable.
	Path string
	// Args are passed before the language flags.
	Args []string
	// Source and Target are appended as --source/--target when set.
	Source string
	Target string
	// Stderr receives the child's diagnostics. Defaults to io.Discard.
	Stderr io.Writer
}

func (e *Exec) Translate(ctx context.Context, texts []string) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if e.Path == "" {
		return nil, fmt.Errorf("translator command not configured")
	}

	args := append([]string(nil), e.Args...)
	if e.Source != "" {
		args = append(args, "--source", e.Source)
	}
	if e.Target != "" {
		args = append(args, "--target", e.Target)
	}

	var in strings.Builder
	for _, t := range texts {
		in.WriteString(flattenLines(t))
		in.WriteByte('\n')
	}

	cmd := exec.CommandContext(ctx, e.Path, args...)
	cmd.Stdin = strings.NewReader(in.String())
	if e.Stderr != nil {
		cmd.Stderr = e.Stderr
	} else {
		cmd.Stderr = io.Discard
	}

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("translator: %w", ctx.Err())
		}
		return nil, fmt.Errorf("run translator %s: %w", e.Path, err)
	}

	results, err := readLines(&out, len(texts))
	if err != nil {
		return nil, err
	}
	if err := CheckCounts(texts, results); err != nil {
		return nil, err
	}
	return results, nil
}

func flattenLines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

func readLines(r io.Reader, want int) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var lines []string
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read translator output: %w", err)
	}
	// Trailing blank lines are noise, but blank lines inside the batch
	// are real outputs.
	for len(lines) > want && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines, nil
}

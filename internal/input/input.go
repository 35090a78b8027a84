// Package input resolves where raw post Markdown comes from: an explicit
// file argument, a recovery file left by a failed run, or interactive
// standard input read until EOF.
package input

import (
	"fmt"
	"io"
	"os"

	"polypost/internal/recovery"
)

// Source identifies where post input came from.
type Source int

const (
	SourceFile Source = iota
	SourceRecovery
	SourceStdin
)

func (s Source) String() string {
	switch s {
	case SourceFile:
		return "file"
	case SourceRecovery:
		return "recovery"
	case SourceStdin:
		return "stdin"
	default:
		return "unknown"
	}
}

// Reader gathers raw post input.
type Reader struct {
	Recovery *recovery.Store
	Stdin    io.Reader
	Prompt   io.Writer // operator prompts and source notices
}

// Read returns the raw input by priority: the explicit file path when
// given, else the recovery file when present, else Stdin until EOF.
func (r *Reader) Read(path string) (string, Source, error) {
	if path != "" {
		fmt.Fprintf(r.Prompt, "=== Taking Markdown code from file %s ===\n", path)
		b, err := os.ReadFile(path)
		if err != nil {
			return "", SourceFile, err
		}
		return string(b), SourceFile, nil
	}
	if r.Recovery.Exists() {
		fmt.Fprintf(r.Prompt, "=== Resuming Markdown code from %s ===\n", r.Recovery.Path)
		raw, err := r.Recovery.Read()
		if err != nil {
			return "", SourceRecovery, err
		}
		return raw, SourceRecovery, nil
	}
	fmt.Fprintln(r.Prompt, "=== Paste Markdown code of post in standard input, then type Ctrl+D to end it ===")
	b, err := io.ReadAll(r.Stdin)
	if err != nil {
		return "", SourceStdin, err
	}
	return string(b), SourceStdin, nil
}

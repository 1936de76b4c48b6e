package lex

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bluesky-social/blexicon/atproto/lexicon"
)

var ErrUnknownTarget = errors.New("unknown output target")

// Renders lowered declarations to source text in some language.
type Target interface {
	Name() string
	Render(sf *lexicon.SchemaFile, decls []Decl) ([]byte, error)
}

// Returns the named target. An empty name means the default (Rust).
func TargetByName(name string) (Target, error) {
	switch strings.ToLower(name) {
	case "", "rust", "rs":
		return &RustTarget{}, nil
	case "go", "golang":
		return &GoTarget{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, name)
	}
}

func printerf(w io.Writer) func(format string, args ...any) {
	return func(format string, args ...any) {
		fmt.Fprintf(w, format, args...)
	}
}

// Splits a description in to lines for doc comments. Trailing newlines are dropped.
func descLines(desc string) []string {
	desc = strings.TrimRight(desc, "\r\n")
	if desc == "" {
		return nil
	}
	lines := strings.Split(desc, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t\r")
	}
	return lines
}

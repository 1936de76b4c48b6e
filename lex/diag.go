package lex

import (
	"fmt"
	"log/slog"
)

const (
	LevelInfo = "info"
	LevelWarn = "warn"
)

// Non-fatal issue noticed while generating: a schema inconsistency, or a construct which was degraded to a fallback.
type Diagnostic struct {
	Document string `json:"document,omitempty"`
	Def      string `json:"def,omitempty"`
	Level    string `json:"level"`
	Name     string `json:"name"`
	Message  string `json:"message"`
}

func (d Diagnostic) String() string {
	if d.Def == "" {
		return fmt.Sprintf("%s [%s] %s: %s", d.Document, d.Level, d.Name, d.Message)
	}
	return fmt.Sprintf("%s#%s [%s] %s: %s", d.Document, d.Def, d.Level, d.Name, d.Message)
}

func (d Diagnostic) SlogLevel() slog.Level {
	switch d.Level {
	case LevelWarn:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

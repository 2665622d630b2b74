package config

import (
	"fmt"
	"strings"
)

// Error aggregates configuration problems.
type Error struct {
	Path    string   // Config file path
	Unknown []string // Keys that do not map to any setting
	Errors  []string // Validation errors
}

func (e *Error) Error() string {
	if !e.HasErrors() {
		return ""
	}

	parts := []string{fmt.Sprintf("invalid config %s:", e.Path)}
	if len(e.Unknown) > 0 {
		parts = append(parts, fmt.Sprintf("  unknown keys: %s", strings.Join(e.Unknown, ", ")))
	}
	for _, err := range e.Errors {
		parts = append(parts, fmt.Sprintf("  - %s", err))
	}
	return strings.Join(parts, "\n")
}

// HasErrors returns true if there are any errors.
func (e *Error) HasErrors() bool {
	return len(e.Unknown) > 0 || len(e.Errors) > 0
}

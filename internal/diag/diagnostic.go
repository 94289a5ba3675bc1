// Package diag defines the diagnostic model and the compiler that turns
// decomposed subwords into reportable diagnostics.
package diag

import (
	"wordlint/internal/source"
)

// Action is a remedial action a client can take on a diagnostic.
type Action uint8

const (
	// ActionAddToDictionary adds the word to the personal dictionary.
	ActionAddToDictionary Action = iota
	// ActionIgnore suppresses the word for the rest of the session.
	ActionIgnore
)

func (a Action) String() string {
	switch a {
	case ActionAddToDictionary:
		return "add-to-dictionary"
	case ActionIgnore:
		return "ignore"
	}
	return "unknown"
}

// Diagnostic reports one unknown word with its document range.
// Word keeps the original casing from the source.
type Diagnostic struct {
	Span     source.Span
	Word     string
	Severity Severity
	Message  string
	Actions  []Action
}

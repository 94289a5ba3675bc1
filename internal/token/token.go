// Package token defines the raw lexical units the source scanner extracts
// from a document: identifier runs, string contents, and comment contents.
// Everything else in a document is structure and never becomes a token.
package token

import (
	"wordlint/internal/source"
)

// Kind classifies a token.
type Kind uint8

const (
	// EOF marks the end of the token stream.
	EOF Kind = iota
	// Ident is a maximal run of identifier characters containing a letter.
	Ident
	// StringContent is the body of a string literal, delimiters stripped.
	StringContent
	// CommentContent is the body of a comment, delimiters stripped.
	CommentContent
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Ident:
		return "Ident"
	case StringContent:
		return "StringContent"
	case CommentContent:
		return "CommentContent"
	}
	return "Unknown"
}

// Token is a single extracted unit. Text is the exact source slice covered
// by Span, so byte offsets inside Text map directly to document offsets.
// Tokens are immutable once produced.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

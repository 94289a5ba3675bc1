package scanner

import (
	"wordlint/internal/source"
)

// Codes reported by the scanner when a construct does not terminate.
// The scanner never fails on them; the remainder of the line or file is
// treated as best-effort content of the unterminated construct.
const (
	CodeUnterminatedString  = "unterminated-string"
	CodeUnterminatedComment = "unterminated-comment"
)

// Reporter is a thin contract for surfacing scan degradations without
// pulling the diag package into the scanner. A nil Reporter means the
// scanner degrades silently.
type Reporter interface {
	Report(code string, span source.Span, msg string)
}

// Options configures a Scanner.
type Options struct {
	Reporter Reporter
}

func (s *Scanner) report(code string, sp source.Span, msg string) {
	if s.opts.Reporter != nil {
		s.opts.Reporter.Report(code, sp, msg)
	}
}

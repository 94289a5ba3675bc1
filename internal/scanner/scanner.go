// Package scanner extracts natural-language bearing tokens from a document:
// identifier runs, string literal bodies, and comment bodies. The lexical
// structure of the language comes from a lang.Profile; everything the
// profile does not describe is skipped byte by byte. The scanner never
// fails: malformed or unterminated constructs degrade into best-effort
// content tokens.
package scanner

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"wordlint/internal/lang"
	"wordlint/internal/source"
	"wordlint/internal/token"
)

const utf8RuneSelf = 0x80

// Scanner walks a single document. Rerunning a fresh Scanner over the same
// content yields the same token sequence.
type Scanner struct {
	file    *source.File
	profile *lang.Profile
	cursor  Cursor
	opts    Options
}

// New constructs a scanner over file using the given lexical profile.
func New(file *source.File, profile *lang.Profile, opts Options) *Scanner {
	return &Scanner{
		file:    file,
		profile: profile,
		cursor:  NewCursor(file),
		opts:    opts,
	}
}

// Next returns the next token. After the end of the document it always
// returns EOF.
func (s *Scanner) Next() token.Token {
	for !s.cursor.EOF() {
		if tok, ok := s.scanLineComment(); ok {
			return tok
		}
		if tok, ok := s.scanBlockComment(); ok {
			return tok
		}
		if tok, ok := s.scanString(); ok {
			return tok
		}
		b := s.cursor.Peek()
		if isIdentByte(b) || b >= utf8RuneSelf {
			if tok, ok := s.scanIdent(); ok {
				return tok
			}
			continue
		}
		// structure: operators, brackets, whitespace
		s.cursor.Bump()
	}
	return token.Token{Kind: token.EOF, Span: s.emptySpan()}
}

// ScanAll collects every token of the document, EOF excluded.
func ScanAll(file *source.File, profile *lang.Profile, opts Options) []token.Token {
	s := New(file, profile, opts)
	var out []token.Token
	for {
		tok := s.Next()
		if tok.Kind == token.EOF {
			return out
		}
		out = append(out, tok)
	}
}

func (s *Scanner) scanLineComment() (token.Token, bool) {
	for _, open := range s.profile.LineComments {
		if !s.cursor.HasPrefix(open) {
			continue
		}
		s.cursor.Skip(len(open))
		start := s.cursor.Mark()
		for !s.cursor.EOF() && s.cursor.Peek() != '\n' {
			s.cursor.Bump()
		}
		return s.contentToken(token.CommentContent, s.cursor.SpanFrom(start)), true
	}
	return token.Token{}, false
}

func (s *Scanner) scanBlockComment() (token.Token, bool) {
	for _, pair := range s.profile.BlockComments {
		if !s.cursor.HasPrefix(pair.Open) {
			continue
		}
		openMark := s.cursor.Mark()
		s.cursor.Skip(len(pair.Open))
		start := s.cursor.Mark()
		depth := 1
		for !s.cursor.EOF() {
			if s.cursor.HasPrefix(pair.Close) {
				depth--
				if depth == 0 {
					sp := s.cursor.SpanFrom(start)
					s.cursor.Skip(len(pair.Close))
					return s.contentToken(token.CommentContent, sp), true
				}
				s.cursor.Skip(len(pair.Close))
				continue
			}
			if pair.Nested && s.cursor.HasPrefix(pair.Open) {
				depth++
				s.cursor.Skip(len(pair.Open))
				continue
			}
			s.cursor.Bump()
		}
		// no closer before EOF: the rest of the file is the comment body
		sp := s.cursor.SpanFrom(start)
		s.report(CodeUnterminatedComment, s.cursor.SpanFrom(openMark), "unterminated block comment")
		return s.contentToken(token.CommentContent, sp), true
	}
	return token.Token{}, false
}

func (s *Scanner) scanString() (token.Token, bool) {
	for _, rule := range s.profile.Strings {
		if rule.Triple {
			if tok, ok := s.scanTripleString(rule); ok {
				return tok, true
			}
			continue
		}
		if s.cursor.Peek() != rule.Quote {
			continue
		}
		openMark := s.cursor.Mark()
		s.cursor.Bump()
		start := s.cursor.Mark()
		for !s.cursor.EOF() {
			b := s.cursor.Peek()
			if rule.Escape != 0 && b == rule.Escape {
				s.cursor.Bump()
				if !s.cursor.EOF() {
					s.cursor.Bump()
				}
				continue
			}
			if b == rule.Quote {
				sp := s.cursor.SpanFrom(start)
				s.cursor.Bump()
				return s.contentToken(token.StringContent, sp), true
			}
			if b == '\n' && !rule.Multiline {
				// unterminated: the rest of the line is the string body
				sp := s.cursor.SpanFrom(start)
				s.report(CodeUnterminatedString, s.cursor.SpanFrom(openMark), "newline in string literal")
				return s.contentToken(token.StringContent, sp), true
			}
			s.cursor.Bump()
		}
		sp := s.cursor.SpanFrom(start)
		s.report(CodeUnterminatedString, s.cursor.SpanFrom(openMark), "unterminated string literal")
		return s.contentToken(token.StringContent, sp), true
	}
	return token.Token{}, false
}

func (s *Scanner) scanTripleString(rule lang.StringRule) (token.Token, bool) {
	q := strings.Repeat(string(rule.Quote), 3)
	if !s.cursor.HasPrefix(q) {
		return token.Token{}, false
	}
	openMark := s.cursor.Mark()
	s.cursor.Skip(len(q))
	start := s.cursor.Mark()
	for !s.cursor.EOF() {
		if rule.Escape != 0 && s.cursor.Peek() == rule.Escape {
			s.cursor.Bump()
			if !s.cursor.EOF() {
				s.cursor.Bump()
			}
			continue
		}
		if s.cursor.HasPrefix(q) {
			sp := s.cursor.SpanFrom(start)
			s.cursor.Skip(len(q))
			return s.contentToken(token.StringContent, sp), true
		}
		s.cursor.Bump()
	}
	sp := s.cursor.SpanFrom(start)
	s.report(CodeUnterminatedString, s.cursor.SpanFrom(openMark), "unterminated string literal")
	return s.contentToken(token.StringContent, sp), true
}

// scanIdent consumes a maximal run of identifier characters. The run becomes
// an Ident token only if it contains at least one letter; digit-only runs
// (numeric literals) are consumed and discarded.
func (s *Scanner) scanIdent() (token.Token, bool) {
	start := s.cursor.Mark()
	hasLetter := false
	for !s.cursor.EOF() {
		b := s.cursor.Peek()
		if b < utf8RuneSelf {
			if !isIdentByte(b) {
				break
			}
			if isLetterByte(b) {
				hasLetter = true
			}
			s.cursor.Bump()
			continue
		}
		r, size := utf8.DecodeRune(s.cursor.rest())
		if r == utf8.RuneError && size <= 1 {
			break
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
		s.cursor.Skip(size)
	}
	sp := s.cursor.SpanFrom(start)
	if sp.Empty() {
		// invalid UTF-8 byte: skip it, never a hard error
		s.cursor.Bump()
		return token.Token{}, false
	}
	if !hasLetter {
		return token.Token{}, false
	}
	return s.contentToken(token.Ident, sp), true
}

func (s *Scanner) contentToken(kind token.Kind, sp source.Span) token.Token {
	return token.Token{
		Kind: kind,
		Span: sp,
		Text: string(s.file.Content[sp.Start:sp.End]),
	}
}

func (s *Scanner) emptySpan() source.Span {
	return source.Span{File: s.file.ID, Start: s.cursor.Off, End: s.cursor.Off}
}

func (c *Cursor) rest() []byte {
	return c.File.Content[c.Off:c.Limit]
}

func isIdentByte(b byte) bool {
	return isLetterByte(b) || b == '_' || (b >= '0' && b <= '9')
}

func isLetterByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// Package casing splits token text into natural-language subwords across
// casing conventions: camelCase, PascalCase, snake_case, kebab-case,
// SCREAMING_SNAKE, and acronym runs. Decomposition is a pure function of
// the input text; subword spans are document-relative so diagnostics map
// straight to source positions.
package casing

import (
	"unicode"

	"wordlint/internal/source"
)

// SubWord is one decomposed natural-language unit. Text keeps the original
// casing; Span addresses the document, not the token.
type SubWord struct {
	Text string
	Span source.Span
}

type class uint8

const (
	classOther class = iota
	classUpper
	classLower
	classDigit
	classSeparator
	classApostrophe
)

func classify(r rune) class {
	switch {
	case r == '_' || r == '-':
		return classSeparator
	case r == '\'':
		return classApostrophe
	case unicode.IsUpper(r) || unicode.IsTitle(r):
		return classUpper
	case unicode.IsLower(r):
		return classLower
	case unicode.IsDigit(r):
		return classDigit
	case unicode.IsLetter(r):
		// caseless scripts: treated as lowercase for boundary purposes
		return classLower
	default:
		return classOther
	}
}

type crune struct {
	r   rune
	off uint32 // byte offset within text
	cls class
}

// Decompose splits text into subwords. base is the document byte offset of
// text's first byte; file identifies the document the spans address.
//
// Boundary rules, scanned left to right:
//   - A Lower followed by an Upper starts a new word at the Upper rune.
//   - In an acronym run (2+ Uppers) followed by a Lower, the boundary sits
//     before the last Upper: JSONParser splits to JSON, Parser. A trailing
//     run stays whole: DataJSON splits to Data, JSON.
//   - Separators (`_`, `-`) are hard boundaries and are dropped; runs of
//     separators collapse.
//   - Apostrophes between letters are word content (it's stays one word);
//     anywhere else they are dropped.
//   - Digits and all other characters are dropped and act as hard
//     boundaries, so the subword spans cover exactly the
//     alphabetic+apostrophe runs of the input.
func Decompose(text string, base uint32, file source.FileID) []SubWord {
	if text == "" {
		return nil
	}

	runes := make([]crune, 0, len(text))
	for i, r := range text {
		runes = append(runes, crune{r: r, off: uint32(i), cls: classify(r)})
	}

	var out []SubWord
	wordStart := -1 // index into runes, -1 when no word is open

	flush := func(endIdx int) {
		if wordStart < 0 {
			return
		}
		startOff := runes[wordStart].off
		var endOff uint32
		if endIdx < len(runes) {
			endOff = runes[endIdx].off
		} else {
			endOff = uint32(len(text))
		}
		out = append(out, SubWord{
			Text: text[startOff:endOff],
			Span: source.Span{File: file, Start: base + startOff, End: base + endOff},
		})
		wordStart = -1
	}

	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch c.cls {
		case classLower:
			if wordStart < 0 {
				wordStart = i
			}

		case classUpper:
			if wordStart < 0 {
				wordStart = i
				continue
			}
			prev := runes[i-1].cls
			if prev == classLower {
				// camelCase boundary
				flush(i)
				wordStart = i
				continue
			}
			if prev == classUpper && i+1 < len(runes) && runes[i+1].cls == classLower {
				// acronym run ends before its last Upper
				flush(i)
				wordStart = i
			}

		case classApostrophe:
			// content only between letters
			if wordStart >= 0 && i+1 < len(runes) &&
				(runes[i+1].cls == classLower || runes[i+1].cls == classUpper) {
				continue
			}
			flush(i)

		case classSeparator, classDigit, classOther:
			flush(i)
		}
	}
	flush(len(runes))
	return out
}

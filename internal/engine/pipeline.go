// Package engine wires the scan pipeline together (scanner, casing
// decomposer, diagnostic compiler) and owns per-document session state,
// driven by document lifecycle events and made safe against stale results
// from superseded scans.
package engine

import (
	"wordlint/internal/casing"
	"wordlint/internal/diag"
	"wordlint/internal/dict"
	"wordlint/internal/lang"
	"wordlint/internal/scanner"
	"wordlint/internal/source"
	"wordlint/internal/token"
)

// Check runs the full pipeline over one document. Deterministic: the same
// content, profile, and registry state always yield the same diagnostics.
func Check(file *source.File, profile *lang.Profile, reg *dict.Registry, sev diag.Severity) []diag.Diagnostic {
	sc := scanner.New(file, profile, scanner.Options{})
	var out []diag.Diagnostic
	for {
		tok := sc.Next()
		if tok.Kind == token.EOF {
			return out
		}
		subs := casing.Decompose(tok.Text, tok.Span.Start, file.ID)
		out = append(out, diag.Compile(subs, reg, sev)...)
	}
}

// CheckText is Check over an in-memory document identified by an editor
// language ID.
func CheckText(name, languageID, text string, reg *dict.Registry, sev diag.Severity) []diag.Diagnostic {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, []byte(text))
	return Check(fs.Get(id), lang.ForLanguageID(languageID), reg, sev)
}

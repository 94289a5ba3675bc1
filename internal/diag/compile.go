package diag

import (
	"fmt"
	"unicode/utf8"

	"wordlint/internal/casing"
	"wordlint/internal/dict"
)

// minFlagLength is the shortest word (in runes, after case folding) that can
// produce a diagnostic. Shorter runs are almost never spelling mistakes.
const minFlagLength = 4

// Compile filters subwords against the registry and emits diagnostics for
// the unknown ones. Length filtering happens on the folded form, before the
// dictionary lookup.
func Compile(subs []casing.SubWord, reg *dict.Registry, sev Severity) []Diagnostic {
	var out []Diagnostic
	for _, sub := range subs {
		folded := dict.Fold(sub.Text)
		if utf8.RuneCountInString(folded) < minFlagLength {
			continue
		}
		if reg.Contains(folded) {
			continue
		}
		out = append(out, Diagnostic{
			Span:     sub.Span,
			Word:     sub.Text,
			Severity: sev,
			Message:  fmt.Sprintf("unknown word %q", sub.Text),
			Actions:  []Action{ActionAddToDictionary, ActionIgnore},
		})
	}
	return out
}

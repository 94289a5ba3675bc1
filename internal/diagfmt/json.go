package diagfmt

import (
	"encoding/json"
	"io"

	"wordlint/internal/diag"
	"wordlint/internal/source"
)

// DiagnosticJSON is one diagnostic in machine-readable form.
type DiagnosticJSON struct {
	Path     string `json:"path"`
	Line     uint32 `json:"line"`
	Col      uint32 `json:"col"`
	EndLine  uint32 `json:"end_line"`
	EndCol   uint32 `json:"end_col"`
	Severity string `json:"severity"`
	Word     string `json:"word"`
	Message  string `json:"message"`
}

// DiagnosticsOutput is the top-level JSON document.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Total       int              `json:"total"`
	Truncated   bool             `json:"truncated,omitempty"`
}

// BuildDiagnosticsOutput converts a bag into the JSON output structure.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	total := len(items)
	truncated := false
	if opts.Max > 0 && total > opts.Max {
		items = items[:opts.Max]
		truncated = true
	}
	out := DiagnosticsOutput{
		Diagnostics: make([]DiagnosticJSON, 0, len(items)),
		Total:       total,
		Truncated:   truncated,
	}
	for _, d := range items {
		file := fs.Get(d.Span.File)
		start, end := fs.Resolve(d.Span)
		out.Diagnostics = append(out.Diagnostics, DiagnosticJSON{
			Path:     displayPath(file.Path, opts.PathMode),
			Line:     start.Line,
			Col:      start.Col,
			EndLine:  end.Line,
			EndCol:   end.Col,
			Severity: d.Severity.String(),
			Word:     d.Word,
			Message:  d.Message,
		})
	}
	return out
}

// JSON writes diagnostics as an indented JSON document.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(bag, fs, opts))
}

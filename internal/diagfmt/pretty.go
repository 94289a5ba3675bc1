package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"wordlint/internal/diag"
	"wordlint/internal/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	hintColor    = color.New(color.FgBlue)
	caretColor   = color.New(color.FgGreen, color.Bold)
)

// Pretty formats diagnostics in a human-readable layout. Walks bag.Items()
// in order (call bag.Sort() beforehand). For each diagnostic it prints
// <path>:<line>:<col>: <severity>: <message>
// followed, when Context is set, by the source line with a ^~~~ underline.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		file := fs.Get(d.Span.File)
		start, _ := fs.Resolve(d.Span)

		header := fmt.Sprintf("%s:%d:%d: %s: %s",
			displayPath(file.Path, opts.PathMode), start.Line, start.Col,
			severityLabel(d.Severity, opts.Color), d.Message)
		fmt.Fprintln(w, truncate(header, opts.Width))

		if !opts.Context {
			continue
		}
		line := file.GetLine(start.Line)
		if line == "" {
			continue
		}
		fmt.Fprintf(w, "  %s\n", truncate(line, opts.Width))
		fmt.Fprintf(w, "  %s\n", underline(line, start.Col, d.Span.Len(), opts.Color))
	}
}

func severityLabel(sev diag.Severity, useColor bool) string {
	label := sev.String()
	if !useColor {
		return label
	}
	switch sev {
	case diag.SevError:
		return errorColor.Sprint(label)
	case diag.SevWarning:
		return warningColor.Sprint(label)
	case diag.SevInfo:
		return infoColor.Sprint(label)
	default:
		return hintColor.Sprint(label)
	}
}

// underline builds the ^~~~ marker aligned under the flagged word. Columns
// are 1-based byte columns; tabs in the prefix are preserved so the marker
// lines up under tab-indented code.
func underline(line string, col uint32, length uint32, useColor bool) string {
	if col == 0 {
		col = 1
	}
	var pad strings.Builder
	prefixEnd := int(col) - 1
	if prefixEnd > len(line) {
		prefixEnd = len(line)
	}
	for _, b := range []byte(line[:prefixEnd]) {
		if b == '\t' {
			pad.WriteByte('\t')
		} else {
			pad.WriteByte(' ')
		}
	}
	if length == 0 {
		length = 1
	}
	marker := "^" + strings.Repeat("~", int(length)-1)
	if useColor {
		marker = caretColor.Sprint(marker)
	}
	return pad.String() + marker
}

func displayPath(path string, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
		return path
	case PathModeBasename:
		return filepath.Base(path)
	default:
		return path
	}
}

func truncate(value string, width uint8) string {
	if width == 0 {
		return value
	}
	w := int(width)
	if runewidth.StringWidth(value) <= w {
		return value
	}
	if w <= 3 {
		return runewidth.Truncate(value, w, "")
	}
	return runewidth.Truncate(value, w-3, "...")
}

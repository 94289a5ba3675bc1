package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"wordlint/internal/diag"
	"wordlint/internal/source"
)

func makeBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("notes.txt", []byte("the zyzzyva appears\n"))
	bag := diag.NewBag()
	bag.Add(diag.Diagnostic{
		Span:     source.Span{File: id, Start: 4, End: 11},
		Word:     "zyzzyva",
		Severity: diag.SevWarning,
		Message:  `unknown word "zyzzyva"`,
	})
	return bag, fs
}

func TestPrettyHeaderAndContext(t *testing.T) {
	bag, fs := makeBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: true})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("output = %q", buf.String())
	}
	if lines[0] != `notes.txt:1:5: WARNING: unknown word "zyzzyva"` {
		t.Fatalf("header = %q", lines[0])
	}
	if lines[1] != "  the zyzzyva appears" {
		t.Fatalf("context = %q", lines[1])
	}
	if lines[2] != "      ^~~~~~~" {
		t.Fatalf("underline = %q", lines[2])
	}
}

func TestPrettyWithoutContext(t *testing.T) {
	bag, fs := makeBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})

	if got := strings.Count(buf.String(), "\n"); got != 1 {
		t.Fatalf("expected a single line, got %q", buf.String())
	}
}

func TestPrettyTruncatesWidth(t *testing.T) {
	bag, fs := makeBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Width: 20})

	line := strings.TrimRight(buf.String(), "\n")
	if !strings.HasSuffix(line, "...") {
		t.Fatalf("line = %q", line)
	}
	if len(line) > 20 {
		t.Fatalf("line too wide: %q", line)
	}
}

func TestPrettyBasenamePath(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("src/deep/notes.txt", []byte("zyzzyva\n"))
	bag := diag.NewBag()
	bag.Add(diag.Diagnostic{
		Span:     source.Span{File: id, Start: 0, End: 7},
		Word:     "zyzzyva",
		Severity: diag.SevError,
		Message:  `unknown word "zyzzyva"`,
	})
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	if !strings.HasPrefix(buf.String(), "notes.txt:1:1: ERROR:") {
		t.Fatalf("output = %q", buf.String())
	}
}

func TestUnderlinePreservesTabs(t *testing.T) {
	got := underline("\tzyzzyva here", 2, 7, false)
	if got != "\t^~~~~~~" {
		t.Fatalf("underline = %q", got)
	}
}

func TestJSONOutput(t *testing.T) {
	bag, fs := makeBag(t)
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Total != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("output = %+v", out)
	}
	d := out.Diagnostics[0]
	if d.Word != "zyzzyva" || d.Line != 1 || d.Col != 5 || d.EndCol != 12 {
		t.Fatalf("diagnostic = %+v", d)
	}
	if d.Severity != "WARNING" {
		t.Fatalf("severity = %q", d.Severity)
	}
}

func TestJSONTruncation(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.txt", []byte("zyzzyva qwerty\n"))
	bag := diag.NewBag()
	bag.Add(diag.Diagnostic{Span: source.Span{File: id, Start: 0, End: 7}, Word: "zyzzyva", Severity: diag.SevWarning, Message: "m"})
	bag.Add(diag.Diagnostic{Span: source.Span{File: id, Start: 8, End: 14}, Word: "qwerty", Severity: diag.SevWarning, Message: "m"})

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1})
	if out.Total != 2 || len(out.Diagnostics) != 1 || !out.Truncated {
		t.Fatalf("output = %+v", out)
	}
}

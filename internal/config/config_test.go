package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"wordlint/internal/config"
	"wordlint/internal/diag"
)

func TestParseJSON(t *testing.T) {
	raw := []byte(`{
		"dict_path": "/tmp/dict.txt",
		"diagnostic_severity": "hint",
		"dictionaries": [
			{"language": "en", "aff": "/usr/share/hunspell/en_US.aff", "dic": "/usr/share/hunspell/en_US.dic"}
		]
	}`)
	cfg, err := config.ParseJSON(raw)
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if cfg.DictPath != "/tmp/dict.txt" {
		t.Fatalf("DictPath = %q", cfg.DictPath)
	}
	if cfg.DiagnosticSeverity != "hint" {
		t.Fatalf("DiagnosticSeverity = %q", cfg.DiagnosticSeverity)
	}
	if len(cfg.Dictionaries) != 1 || cfg.Dictionaries[0].Dic != "/usr/share/hunspell/en_US.dic" {
		t.Fatalf("Dictionaries = %+v", cfg.Dictionaries)
	}
}

func TestParseJSONEmpty(t *testing.T) {
	for _, raw := range [][]byte{nil, []byte("null")} {
		cfg, err := config.ParseJSON(raw)
		if err != nil {
			t.Fatalf("ParseJSON(%q): %v", raw, err)
		}
		if cfg.DictPath != "" || cfg.DiagnosticSeverity != "" || len(cfg.Dictionaries) != 0 {
			t.Fatalf("ParseJSON(%q) = %+v, want zero config", raw, cfg)
		}
	}
}

func TestParseJSONInvalid(t *testing.T) {
	if _, err := config.ParseJSON([]byte(`{"dict_path": 42}`)); err == nil {
		t.Fatal("expected error for mistyped field")
	}
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wordlint.toml")
	content := `
dict_path = "~/.config/wordlint/dict.txt"
diagnostic_severity = "error"

[[dictionaries]]
language = "en"
dic = "words/en.dic"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.LoadTOML(path)
	if err != nil {
		t.Fatalf("LoadTOML: %v", err)
	}
	if cfg.DiagnosticSeverity != "error" {
		t.Fatalf("DiagnosticSeverity = %q", cfg.DiagnosticSeverity)
	}
	if len(cfg.Dictionaries) != 1 || cfg.Dictionaries[0].Language != "en" {
		t.Fatalf("Dictionaries = %+v", cfg.Dictionaries)
	}
}

func TestFindWordlintTomlWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	manifest := filepath.Join(root, "wordlint.toml")
	if err := os.WriteFile(manifest, []byte("diagnostic_severity = \"info\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	path, ok, err := config.FindWordlintToml(nested)
	if err != nil {
		t.Fatalf("FindWordlintToml: %v", err)
	}
	if !ok {
		t.Fatal("manifest not found")
	}
	if path != manifest {
		t.Fatalf("path = %q, want %q", path, manifest)
	}

	cfg, loadedFrom, err := config.LoadProject(nested)
	if err != nil {
		t.Fatalf("LoadProject: %v", err)
	}
	if loadedFrom != manifest {
		t.Fatalf("loadedFrom = %q", loadedFrom)
	}
	if cfg.DiagnosticSeverity != "info" {
		t.Fatalf("DiagnosticSeverity = %q", cfg.DiagnosticSeverity)
	}
}

func TestFindWordlintTomlMissing(t *testing.T) {
	_, ok, err := config.FindWordlintToml(t.TempDir())
	if err != nil {
		t.Fatalf("FindWordlintToml: %v", err)
	}
	if ok {
		t.Fatal("found a manifest in an empty temp dir")
	}
}

func TestMerge(t *testing.T) {
	base := config.Config{
		DictPath:           "/base/dict.txt",
		DiagnosticSeverity: "warning",
		Dictionaries:       []config.Source{{Language: "en", Dic: "en.dic"}},
	}
	over := config.Config{DiagnosticSeverity: "hint"}
	got := config.Merge(base, over)
	if got.DictPath != "/base/dict.txt" {
		t.Fatalf("DictPath = %q", got.DictPath)
	}
	if got.DiagnosticSeverity != "hint" {
		t.Fatalf("DiagnosticSeverity = %q", got.DiagnosticSeverity)
	}
	if len(got.Dictionaries) != 1 {
		t.Fatalf("Dictionaries = %+v", got.Dictionaries)
	}
}

func TestSeverityDefault(t *testing.T) {
	sev, err := config.Config{}.Severity()
	if err != nil {
		t.Fatalf("Severity: %v", err)
	}
	if sev != diag.SevWarning {
		t.Fatalf("default severity = %v, want warning", sev)
	}

	if _, err := (config.Config{DiagnosticSeverity: "fatal"}).Severity(); err == nil {
		t.Fatal("expected error for unknown severity")
	}
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := config.ExpandTilde("~/dicts/en.dic")
	if err != nil {
		t.Fatalf("ExpandTilde: %v", err)
	}
	if got != filepath.Join(home, "dicts", "en.dic") {
		t.Fatalf("got %q", got)
	}

	got, err = config.ExpandTilde("/abs/path")
	if err != nil || got != "/abs/path" {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestDefaultDictPathHonorsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	got, err := config.DefaultDictPath()
	if err != nil {
		t.Fatalf("DefaultDictPath: %v", err)
	}
	if got != filepath.Join("/xdg/config", "wordlint", "dict.txt") {
		t.Fatalf("got %q", got)
	}
}

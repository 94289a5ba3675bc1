package lang

import "testing"

func TestForLanguageID(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"go", "go"},
		{"Go", "go"},
		{"rust", "rust"},
		{"typescript", "javascript"},
		{"cpp", "c"},
		{"bash", "shell"},
		{"markdown", "plaintext"},
		{"cobol", "plaintext"},
		{"", "plaintext"},
	}
	for _, tt := range tests {
		if got := ForLanguageID(tt.id); got.Tag != tt.want {
			t.Errorf("ForLanguageID(%q).Tag = %q, want %q", tt.id, got.Tag, tt.want)
		}
	}
}

func TestForPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"main.go", "go"},
		{"lib.RS", "rust"},
		{"src/app.tsx", "javascript"},
		{"setup.py", "python"},
		{"notes.txt", "plaintext"},
		{"Makefile", "plaintext"},
	}
	for _, tt := range tests {
		if got := ForPath(tt.path); got.Tag != tt.want {
			t.Errorf("ForPath(%q).Tag = %q, want %q", tt.path, got.Tag, tt.want)
		}
	}
}

func TestRustBlockCommentsNest(t *testing.T) {
	p := ForLanguageID("rust")
	if len(p.BlockComments) != 1 || !p.BlockComments[0].Nested {
		t.Fatalf("rust block comments must nest: %+v", p.BlockComments)
	}
}

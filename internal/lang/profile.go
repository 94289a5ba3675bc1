// Package lang holds the lexical profiles the scanner needs to find comments
// and strings in a document. Profiles are a closed table keyed by language
// tag: adding a language is one new entry, never new control flow.
package lang

import (
	"path/filepath"
	"strings"
)

// BlockPair is a block comment delimiter pair.
type BlockPair struct {
	Open   string
	Close  string
	Nested bool
}

// StringRule describes one string literal form. Escape is 0 when the form
// has no escape character (raw strings). Triple forms (""" / ''') are
// matched before their single-quote counterparts. Multiline controls whether
// an unterminated literal swallows the rest of the line or the rest of the
// file.
type StringRule struct {
	Quote     byte
	Escape    byte
	Triple    bool
	Multiline bool
}

// Profile is the per-language lexical table. Pure data, no state.
type Profile struct {
	Tag           string
	LineComments  []string
	BlockComments []BlockPair
	Strings       []StringRule
}

var plaintext = &Profile{Tag: "plaintext"}

var profiles = map[string]*Profile{
	"go": {
		Tag:           "go",
		LineComments:  []string{"//"},
		BlockComments: []BlockPair{{Open: "/*", Close: "*/"}},
		Strings: []StringRule{
			{Quote: '"', Escape: '\\'},
			{Quote: '`', Multiline: true},
			{Quote: '\'', Escape: '\\'},
		},
	},
	"rust": {
		Tag:           "rust",
		LineComments:  []string{"//"},
		BlockComments: []BlockPair{{Open: "/*", Close: "*/", Nested: true}},
		Strings: []StringRule{
			{Quote: '"', Escape: '\\', Multiline: true},
		},
	},
	"c": {
		Tag:           "c",
		LineComments:  []string{"//"},
		BlockComments: []BlockPair{{Open: "/*", Close: "*/"}},
		Strings: []StringRule{
			{Quote: '"', Escape: '\\'},
			{Quote: '\'', Escape: '\\'},
		},
	},
	"javascript": {
		Tag:           "javascript",
		LineComments:  []string{"//"},
		BlockComments: []BlockPair{{Open: "/*", Close: "*/"}},
		Strings: []StringRule{
			{Quote: '"', Escape: '\\'},
			{Quote: '\'', Escape: '\\'},
			{Quote: '`', Escape: '\\', Multiline: true},
		},
	},
	"python": {
		Tag:          "python",
		LineComments: []string{"#"},
		Strings: []StringRule{
			{Quote: '"', Escape: '\\', Triple: true, Multiline: true},
			{Quote: '\'', Escape: '\\', Triple: true, Multiline: true},
			{Quote: '"', Escape: '\\'},
			{Quote: '\'', Escape: '\\'},
		},
	},
	"ruby": {
		Tag:          "ruby",
		LineComments: []string{"#"},
		Strings: []StringRule{
			{Quote: '"', Escape: '\\'},
			{Quote: '\'', Escape: '\\'},
		},
	},
	"shell": {
		Tag:          "shell",
		LineComments: []string{"#"},
		Strings: []StringRule{
			{Quote: '"', Escape: '\\', Multiline: true},
			{Quote: '\'', Multiline: true},
		},
	},
	"toml": {
		Tag:          "toml",
		LineComments: []string{"#"},
		Strings: []StringRule{
			{Quote: '"', Escape: '\\'},
			{Quote: '\'', Escape: 0},
		},
	},
	"plaintext": plaintext,
}

var aliases = map[string]string{
	"cpp":             "c",
	"h":               "c",
	"typescript":      "javascript",
	"javascriptreact": "javascript",
	"typescriptreact": "javascript",
	"bash":            "shell",
	"zsh":             "shell",
	"sh":              "shell",
	"text":            "plaintext",
	"markdown":        "plaintext",
}

var extensions = map[string]string{
	".go":   "go",
	".rs":   "rust",
	".c":    "c",
	".h":    "c",
	".cc":   "c",
	".cpp":  "c",
	".hpp":  "c",
	".js":   "javascript",
	".jsx":  "javascript",
	".ts":   "javascript",
	".tsx":  "javascript",
	".py":   "python",
	".rb":   "ruby",
	".sh":   "shell",
	".bash": "shell",
	".toml": "toml",
	".txt":  "plaintext",
	".md":   "plaintext",
}

// ForLanguageID resolves an editor language identifier to a profile.
// Unknown languages fall back to plaintext: identifiers only, no
// comment or string structure.
func ForLanguageID(id string) *Profile {
	id = strings.ToLower(id)
	if alias, ok := aliases[id]; ok {
		id = alias
	}
	if p, ok := profiles[id]; ok {
		return p
	}
	return plaintext
}

// ForPath resolves a file path to a profile via its extension.
func ForPath(path string) *Profile {
	if tag, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return profiles[tag]
	}
	return plaintext
}

// Known reports whether the path maps to a non-plaintext profile.
func Known(path string) bool {
	_, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

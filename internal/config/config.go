package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"wordlint/internal/diag"
	"wordlint/internal/dict"
)

// Source names one dictionary word list. Aff is accepted for compatibility
// with hunspell-style configs but only the .dic word list is read.
type Source struct {
	Language string `toml:"language" json:"language"`
	Aff      string `toml:"aff" json:"aff"`
	Dic      string `toml:"dic" json:"dic"`
}

// Config is the merged wordlint configuration. Zero values mean "use the
// default": empty DictPath resolves to the per-user dictionary file and
// empty DiagnosticSeverity resolves to warning.
type Config struct {
	DictPath           string   `toml:"dict_path" json:"dict_path"`
	DiagnosticSeverity string   `toml:"diagnostic_severity" json:"diagnostic_severity"`
	Dictionaries       []Source `toml:"dictionaries" json:"dictionaries"`
}

// ParseJSON decodes configuration sent as LSP initializationOptions.
// A null or empty payload yields the zero config.
func ParseJSON(raw []byte) (Config, error) {
	var cfg Config
	if len(raw) == 0 || string(raw) == "null" {
		return cfg, nil
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse initialization options: %w", err)
	}
	return cfg, nil
}

// LoadTOML reads a wordlint.toml file.
func LoadTOML(path string) (Config, error) {
	var cfg Config
	if _, err := decodeTOMLFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return cfg, nil
}

// Merge overlays the non-zero fields of over onto base. Used to let editor
// initializationOptions override the project wordlint.toml.
func Merge(base, over Config) Config {
	out := base
	if over.DictPath != "" {
		out.DictPath = over.DictPath
	}
	if over.DiagnosticSeverity != "" {
		out.DiagnosticSeverity = over.DiagnosticSeverity
	}
	if len(over.Dictionaries) > 0 {
		out.Dictionaries = over.Dictionaries
	}
	return out
}

// Severity resolves the configured severity, defaulting to warning.
func (c Config) Severity() (diag.Severity, error) {
	if strings.TrimSpace(c.DiagnosticSeverity) == "" {
		return diag.SevWarning, nil
	}
	return diag.ParseSeverity(c.DiagnosticSeverity)
}

// ResolvedDictPath returns the personal dictionary path with ~ expanded,
// falling back to the per-user default.
func (c Config) ResolvedDictPath() (string, error) {
	if strings.TrimSpace(c.DictPath) != "" {
		return ExpandTilde(c.DictPath)
	}
	return DefaultDictPath()
}

// Sources converts the configured dictionaries into loader sources, with
// tilde expansion applied to paths.
func (c Config) Sources() ([]dict.Source, error) {
	out := make([]dict.Source, 0, len(c.Dictionaries))
	for _, d := range c.Dictionaries {
		dic, err := ExpandTilde(d.Dic)
		if err != nil {
			return nil, err
		}
		out = append(out, dict.Source{Language: d.Language, Aff: d.Aff, Dic: dic})
	}
	return out, nil
}

// DefaultDictPath is ~/.config/wordlint/dict.txt, honoring XDG_CONFIG_HOME.
func DefaultDictPath() (string, error) {
	if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
		return filepath.Join(base, "wordlint", "dict.txt"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "wordlint", "dict.txt"), nil
}

// ExpandTilde expands a leading "~/" to the user's home directory.
func ExpandTilde(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		if path == "~" {
			return home, nil
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}

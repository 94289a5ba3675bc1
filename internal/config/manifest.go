package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const manifestName = "wordlint.toml"

func decodeTOMLFile(path string, cfg *Config) (toml.MetaData, error) {
	return toml.DecodeFile(path, cfg)
}

// FindWordlintToml walks up from startDir to locate wordlint.toml.
func FindWordlintToml(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, manifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadProject loads the nearest wordlint.toml above startDir. Missing
// manifests are not an error; the zero config is returned.
func LoadProject(startDir string) (Config, string, error) {
	path, ok, err := FindWordlintToml(startDir)
	if err != nil || !ok {
		return Config{}, "", err
	}
	cfg, err := LoadTOML(path)
	if err != nil {
		return Config{}, path, err
	}
	return cfg, path, nil
}

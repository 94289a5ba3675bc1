package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wordlint/internal/config"
	"wordlint/internal/dict"
)

// loadConfig resolves the effective configuration: an explicit --config path
// wins, otherwise the nearest wordlint.toml upward from the working
// directory, otherwise defaults.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		return config.LoadTOML(path)
	}
	cfg, _, err := config.LoadProject(".")
	return cfg, err
}

// buildRegistry assembles the dictionary registry from the configuration:
// the personal dictionary plus every configured word list, cached on disk.
// Word lists that fail to load are reported on stderr and skipped.
func buildRegistry(ctx context.Context, cfg config.Config) (*dict.Registry, error) {
	var appender dict.Appender
	dictPath, err := cfg.ResolvedDictPath()
	if err == nil {
		appender = &dict.FileAppender{Path: dictPath}
	}
	reg := dict.NewRegistry(appender)

	if dictPath != "" {
		if err := dict.LoadPersonal(reg, dictPath); err != nil {
			return nil, fmt.Errorf("failed to load personal dictionary: %w", err)
		}
	}

	sources, err := cfg.Sources()
	if err != nil {
		return nil, err
	}
	if len(sources) > 0 {
		cache, err := dict.OpenDiskCache("wordlint")
		if err != nil {
			fmt.Fprintf(os.Stderr, "wordlint: word list cache disabled: %v\n", err)
		}
		for _, loadErr := range dict.LoadSources(ctx, reg, sources, cache) {
			fmt.Fprintf(os.Stderr, "wordlint: dictionary skipped: %v\n", loadErr)
		}
	}
	return reg, nil
}

func useColor(cmd *cobra.Command, f *os.File) bool {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false
	}
	return colorFlag == "on" || (colorFlag == "auto" && isTerminal(f))
}

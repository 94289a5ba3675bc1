package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"wordlint/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "wordlint",
	Short: "Spell checker for source code",
	Long:  `Wordlint finds misspelled words inside identifiers, comments and string literals`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(wordsCmd)
	rootCmd.AddCommand(lspCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().String("config", "", "path to wordlint.toml (default: nearest one upward from the working directory)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

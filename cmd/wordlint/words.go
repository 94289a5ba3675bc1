package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wordlint/internal/casing"
	"wordlint/internal/lang"
	"wordlint/internal/scanner"
	"wordlint/internal/source"
	"wordlint/internal/token"
)

var wordsCmd = &cobra.Command{
	Use:   "words [flags] <file>",
	Short: "Dump the words wordlint would check in a file",
	Long:  `Words tokenizes a file and prints every token with its decomposed sub-words, for debugging tokenization and casing splits`,
	Args:  cobra.ExactArgs(1),
	RunE:  runWords,
}

func init() {
	wordsCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	wordsCmd.Flags().String("language", "", "override language detection (e.g. go, rust, python)")
}

type wordEntry struct {
	Kind     string   `json:"kind"`
	Text     string   `json:"text"`
	Line     uint32   `json:"line"`
	Col      uint32   `json:"col"`
	SubWords []string `json:"sub_words"`
}

func runWords(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	languageID, err := cmd.Flags().GetString("language")
	if err != nil {
		return fmt.Errorf("failed to get language flag: %w", err)
	}

	fileSet := source.NewFileSet()
	id, err := fileSet.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load file: %w", err)
	}
	file := fileSet.Get(id)

	profile := lang.ForPath(file.Path)
	if languageID != "" {
		profile = lang.ForLanguageID(languageID)
	}

	sc := scanner.New(file, profile, scanner.Options{})
	var entries []wordEntry
	for {
		tok := sc.Next()
		if tok.Kind == token.EOF {
			break
		}
		start, _ := fileSet.Resolve(tok.Span)
		entry := wordEntry{
			Kind: tok.Kind.String(),
			Text: tok.Text,
			Line: start.Line,
			Col:  start.Col,
		}
		for _, sub := range casing.Decompose(tok.Text, tok.Span.Start, file.ID) {
			entry.SubWords = append(entry.SubWords, sub.Text)
		}
		entries = append(entries, entry)
	}

	switch format {
	case "pretty":
		for _, e := range entries {
			fmt.Fprintf(os.Stdout, "%d:%d %s %q", e.Line, e.Col, e.Kind, e.Text)
			if len(e.SubWords) > 0 {
				fmt.Fprintf(os.Stdout, " -> %v", e.SubWords)
			}
			fmt.Fprintln(os.Stdout)
		}
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(entries); err != nil {
			return fmt.Errorf("failed to encode words: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	return nil
}

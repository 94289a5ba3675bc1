package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"wordlint/internal/diag"
	"wordlint/internal/diagfmt"
	"wordlint/internal/engine"
	"wordlint/internal/lang"
	"wordlint/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file|directory>...",
	Short: "Spell-check source files",
	Long:  `Check scans identifiers, comments and string literals in the given files or directories and reports unknown words`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	checkCmd.Flags().String("severity", "", "override diagnostic severity (error|warning|info|hint)")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	checkCmd.Flags().Int("max-diagnostics", 0, "truncate output after this many findings (0=unlimited)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	severityFlag, err := cmd.Flags().GetString("severity")
	if err != nil {
		return fmt.Errorf("failed to get severity flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	maxDiagnostics, err := cmd.Flags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sev, err := cfg.Severity()
	if err != nil {
		return err
	}
	if severityFlag != "" {
		sev, err = diag.ParseSeverity(severityFlag)
		if err != nil {
			return err
		}
	}

	reg, err := buildRegistry(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	paths, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no files with a known language under %v", args)
	}

	fileSet := source.NewFileSet()
	ids := make([]source.FileID, 0, len(paths))
	for _, path := range paths {
		id, err := fileSet.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "wordlint: skipping %s: %v\n", path, err)
			continue
		}
		ids = append(ids, id)
	}

	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	results := make([][]diag.Diagnostic, len(ids))
	var g errgroup.Group
	g.SetLimit(jobs)
	for i, id := range ids {
		g.Go(func() error {
			file := fileSet.Get(id)
			results[i] = engine.Check(file, lang.ForPath(file.Path), reg, sev)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	bag := diag.NewBag()
	for _, diags := range results {
		bag.AddAll(diags)
	}
	bag.Sort()
	bag.Dedup()

	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}

	switch format {
	case "pretty":
		opts := diagfmt.PrettyOpts{
			Color:    useColor(cmd, os.Stdout),
			Context:  true,
			PathMode: pathMode,
		}
		diagfmt.Pretty(os.Stdout, bag, fileSet, opts)
		if bag.Len() > 0 {
			fmt.Fprintf(os.Stdout, "%d unknown word(s) in %d file(s)\n", bag.Len(), len(ids))
		}
	case "json":
		opts := diagfmt.JSONOpts{
			PathMode: pathMode,
			Max:      maxDiagnostics,
		}
		if err := diagfmt.JSON(os.Stdout, bag, fileSet, opts); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if bag.Len() > 0 {
		// Suppress cobra usage output on findings
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("") // Silent error - diagnostics already printed
	}
	return nil
}

// collectFiles expands the argument list into checkable files. Directories
// are walked recursively; files whose extension maps to no language profile
// are skipped. Explicitly named files are always included, falling back to
// the plaintext profile.
func collectFiles(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		st, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to stat path: %w", err)
		}
		if !st.IsDir() {
			paths = append(paths, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != arg && (d.Name() == ".git" || d.Name() == "node_modules") {
					return filepath.SkipDir
				}
				return nil
			}
			if lang.Known(path) {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return paths, nil
}

// Package cli wires the commands of the apidiff binary.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mvp-joe/apidiff/internal/config"
	"github.com/mvp-joe/apidiff/internal/diff"
	"github.com/mvp-joe/apidiff/internal/doxygen"
	"github.com/mvp-joe/apidiff/internal/headers"
	"github.com/mvp-joe/apidiff/internal/model"
	"github.com/mvp-joe/apidiff/internal/render"
	"github.com/mvp-joe/apidiff/internal/storage"
)

var (
	cfgFile string
	verbose bool
	quiet   bool

	format       string
	saveInput    string
	saveOldInput string
	dumpJSON     string
)

// exitCode is the process exit status: the highest change severity of a
// successful run, or 2 on usage errors so CI treats them like warnings
// at worst and never mistakes them for a clean pass.
var exitCode int

// rootCmd compares two API snapshots and reports every change.
var rootCmd = &cobra.Command{
	Use:   "apidiff NEW [OLD]",
	Short: "Report API changes between two C header snapshots",
	Long: `apidiff extracts the public API surface from two snapshots of a C
codebase and reports every addition, removal and modification, graded by
severity. The exit code is the highest severity found: 0 none, 1 notice,
2 warning, 3 critical.

A snapshot input is one of:
  - a doxygen XML output directory (contains index.xml)
  - a directory of C headers, scanned directly
  - a snapshot file previously written with --save-input

OLD may be omitted only together with --save-input, to pre-parse NEW
into a snapshot file for later comparisons.`,
	Args:          cobra.RangeArgs(1, 2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDiff(cmd.Context(), args)
	},
}

// Execute runs the CLI and exits with the run's severity code.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if exitCode == 0 {
			exitCode = 2
		}
	}
	os.Exit(exitCode)
}

func init() {
	cobra.OnInitialize(initLogging)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.apidiff.yaml or $HOME/.apidiff.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress output")
	rootCmd.PersistentFlags().StringVar(&format, "format", "text", "report format: text, markdown or json")

	rootCmd.Flags().StringVar(&saveInput, "save-input", "", "write the parsed NEW input to a snapshot file")
	rootCmd.Flags().StringVar(&saveOldInput, "save-old-input", "", "write the parsed OLD input to a snapshot file")
	rootCmd.Flags().StringVar(&dumpJSON, "dump-json", "", "write the parsed input(s) as JSON for debugging")
}

func initLogging() {
	logrus.SetOutput(os.Stderr)
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else if quiet {
		logrus.SetLevel(logrus.ErrorLevel)
	}
}

func runDiff(ctx context.Context, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	if len(args) == 1 && saveInput == "" {
		exitCode = 2
		return fmt.Errorf("OLD input omitted: comparing requires two inputs (use --save-input to pre-parse NEW only)")
	}

	newc, err := loadInput(ctx, args[0], cfg)
	if err != nil {
		exitCode = 2
		return err
	}
	if saveInput != "" {
		if err := storage.Save(saveInput, newc); err != nil {
			exitCode = 2
			return err
		}
	}

	var oldc *model.Collection
	if len(args) == 2 {
		oldc, err = loadInput(ctx, args[1], cfg)
		if err != nil {
			exitCode = 2
			return err
		}
		if saveOldInput != "" {
			if err := storage.Save(saveOldInput, oldc); err != nil {
				exitCode = 2
				return err
			}
		}
	}

	if dumpJSON != "" {
		if err := dumpCollections(dumpJSON, newc, oldc); err != nil {
			exitCode = 2
			return err
		}
	}

	if oldc == nil {
		return nil // pre-parse mode, snapshot written above
	}

	level, err := renderDiff(newc, oldc, os.Stdout)
	if err != nil {
		exitCode = 2
		return err
	}
	exitCode = int(level)
	return nil
}

func renderDiff(newc, oldc *model.Collection, w io.Writer) (render.Level, error) {
	result, err := diff.Compare(newc, oldc)
	if err != nil {
		return render.LevelNone, err
	}
	r, err := render.New(format)
	if err != nil {
		return render.LevelNone, err
	}
	return r.Render(result, w)
}

// loadInput resolves one positional input to an entity collection. A
// regular file must be a snapshot; a directory is either doxygen XML
// output or a header tree.
func loadInput(ctx context.Context, path string, cfg *config.Config) (*model.Collection, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("input %s: %w", path, err)
	}
	if !info.IsDir() {
		if !storage.IsSnapshot(path) {
			return nil, fmt.Errorf("input %s is not a snapshot file (expected a file written with --save-input)", path)
		}
		return storage.Load(path)
	}
	if doxygen.IsXMLDir(path) {
		return doxygen.Extract(ctx, path, doxygen.Options{
			Workers:  cfg.Workers,
			MinBatch: cfg.MinBatch,
			Progress: newProgressReporter(quiet),
		})
	}
	return headers.Scan(ctx, path, headers.Options{
		Patterns: cfg.HeaderPatterns,
		Ignores:  cfg.IgnorePatterns,
		Workers:  cfg.Workers,
		MinBatch: cfg.MinBatch,
		Progress: newProgressReporter(quiet),
	})
}

// dumpCollections writes the parsed inputs as JSON. With two inputs the
// requested name gains .new / .old markers so both sides land next to
// each other.
func dumpCollections(path string, newc, oldc *model.Collection) error {
	if oldc == nil {
		return writeJSON(path, newc)
	}
	base := strings.TrimSuffix(path, ".json")
	if err := writeJSON(base+".new.json", newc); err != nil {
		return err
	}
	return writeJSON(base+".old.json", oldc)
}

func writeJSON(path string, c *model.Collection) error {
	data, err := json.MarshalIndent(c.Entities, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

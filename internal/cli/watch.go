package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mvp-joe/apidiff/internal/config"
	"github.com/mvp-joe/apidiff/internal/doxygen"
	"github.com/mvp-joe/apidiff/internal/model"
	"github.com/mvp-joe/apidiff/internal/storage"
	"github.com/mvp-joe/apidiff/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch NEW OLD",
	Short: "Re-run the comparison whenever an input changes",
	Long: `watch runs the comparison once, then keeps watching both inputs and
re-runs it after every change, debounced so a burst of writes produces a
single run. Snapshot file inputs are loaded once and not watched.

The process runs until interrupted; its exit code is always 0.`,
	Args:          cobra.ExactArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(cmd.Context(), args)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(ctx context.Context, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	load := func(path string) (*model.Collection, error) {
		return loadInput(ctx, path, cfg)
	}

	rerun := func() {
		newc, err := load(args[0])
		if err != nil {
			logrus.Errorf("loading %s: %v", args[0], err)
			return
		}
		oldc, err := load(args[1])
		if err != nil {
			logrus.Errorf("loading %s: %v", args[1], err)
			return
		}
		if _, err := renderDiff(newc, oldc, os.Stdout); err != nil {
			logrus.Errorf("comparing: %v", err)
		}
	}
	rerun()

	watched := 0
	for _, path := range args {
		w, err := watchInput(path, rerun)
		if err != nil {
			return err
		}
		if w == nil {
			continue
		}
		defer w.Stop()
		w.Start(ctx)
		watched++
	}
	if watched == 0 {
		return fmt.Errorf("nothing to watch: both inputs are snapshot files")
	}

	fmt.Fprintln(os.Stderr, "Watching for changes. Press Ctrl-C to stop.")
	<-ctx.Done()
	return nil
}

// watchInput sets up the watcher for one input, or returns nil for
// snapshot files, which never change underneath us.
func watchInput(path string, rerun func()) (*watch.Watcher, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("input %s: %w", path, err)
	}
	if !info.IsDir() {
		if !storage.IsSnapshot(path) {
			return nil, fmt.Errorf("input %s is not a snapshot file", path)
		}
		return nil, nil
	}
	extensions := []string{".h"}
	if doxygen.IsXMLDir(path) {
		extensions = []string{".xml"}
	}
	return watch.New(path, extensions, watch.DefaultDebounce, func(files []string) {
		logrus.Debugf("%d file(s) changed under %s", len(files), path)
		rerun()
	})
}

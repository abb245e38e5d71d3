package cli

import (
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/mvp-joe/apidiff/internal/progress"
)

// barReporter shows a terminal progress bar for an extraction pass.
type barReporter struct {
	bar *progressbar.ProgressBar
}

// newProgressReporter returns the reporter for interactive runs, or the
// silent one when --quiet is set.
func newProgressReporter(quiet bool) progress.Reporter {
	if quiet {
		return progress.NoOp()
	}
	return &barReporter{}
}

func (r *barReporter) Start(label string, total int) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription(label),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *barReporter) Step(n int) {
	if r.bar != nil {
		_ = r.bar.Add(n)
	}
}

func (r *barReporter) Done() {
	if r.bar != nil {
		_ = r.bar.Finish()
		r.bar = nil
	}
}

package headers

import (
	"context"
	"os"
	"path/filepath"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/mvp-joe/apidiff/internal/model"
	"github.com/mvp-joe/apidiff/internal/progress"
)

// Options tunes a header scan.
type Options struct {
	// Patterns and Ignores are glob patterns over slash-separated paths
	// relative to the scan root; empty means the package defaults.
	Patterns []string
	Ignores  []string
	// Workers caps parallel file parsing; 0 means GOMAXPROCS.
	Workers int
	// MinBatch is the file count below which parallel dispatch is
	// skipped; 0 means the default of 20.
	MinBatch int
	Progress progress.Reporter
}

func (o *Options) normalize() {
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.MinBatch <= 0 {
		o.MinBatch = 20
	}
	if o.Progress == nil {
		o.Progress = progress.NoOp()
	}
}

// Scan extracts the API surface of every header under dir directly from
// source, without a documentation-generator pass. Files are independent
// work items: parsed in parallel when the batch is large enough, merged
// in path order, and a file that cannot be read or parsed is reported and
// skipped without aborting the batch.
func Scan(ctx context.Context, dir string, opts Options) (*model.Collection, error) {
	opts.normalize()

	discovery, err := NewDiscovery(dir, opts.Patterns, opts.Ignores)
	if err != nil {
		return nil, err
	}
	files, err := discovery.Discover()
	if err != nil {
		return nil, err
	}

	opts.Progress.Start("Scanning headers", len(files))
	defer opts.Progress.Done()

	results := make([][]*model.Entity, len(files))
	parseOne := func(i int, rel string) {
		source, err := os.ReadFile(filepath.Join(dir, rel))
		if err != nil {
			logrus.Warnf("skipping header %s: %v", rel, err)
			return
		}
		results[i] = newFileParser().parse(rel, source)
	}

	if len(files) < opts.MinBatch {
		for i, rel := range files {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			parseOne(i, rel)
			opts.Progress.Step(1)
		}
	} else {
		g, ctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Workers)
		for i, rel := range files {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				parseOne(i, rel)
				opts.Progress.Step(1)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	var entities []*model.Entity
	for _, r := range results {
		entities = append(entities, r...)
	}
	return model.NewCollection(entities), nil
}

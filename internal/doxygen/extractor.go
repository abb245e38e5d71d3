package doxygen

import (
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/mvp-joe/apidiff/internal/model"
	"github.com/mvp-joe/apidiff/internal/progress"
)

// IndexFile is the entry point of a doxygen XML output directory.
const IndexFile = "index.xml"

// Compound kinds the index may list but that carry no public C API.
var ignoredCompoundKinds = map[string]bool{
	"page":     true,
	"dir":      true,
	"category": true,
	"concept":  true,
	"example":  true,
}

var wantedCompoundKinds = map[string]bool{
	"file":   true,
	"group":  true,
	"struct": true,
	"class":  true,
	"union":  true,
}

// Options tunes an extraction pass.
type Options struct {
	// Workers caps parallel compound parsing; 0 means GOMAXPROCS.
	Workers int
	// MinBatch is the compound count below which parallel dispatch is
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

// IsXMLDir reports whether dir looks like a doxygen XML output directory.
func IsXMLDir(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, IndexFile))
	return err == nil && !info.IsDir()
}

// Extract builds the entity collection for one doxygen XML directory.
// Compounds are independent work items: they are parsed in parallel when
// the batch is large enough and merged in index order, and a compound
// that fails to parse is reported and skipped without aborting the batch.
func Extract(ctx context.Context, dir string, opts Options) (*model.Collection, error) {
	opts.normalize()

	refids, err := readIndex(dir)
	if err != nil {
		return nil, err
	}

	opts.Progress.Start("Parsing doxygen XML", len(refids))
	defer opts.Progress.Done()

	results := make([][]*model.Entity, len(refids))
	if len(refids) < opts.MinBatch {
		for i, refid := range refids {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = processCompound(dir, refid)
			opts.Progress.Step(1)
		}
	} else {
		g, ctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Workers)
		for i, refid := range refids {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				results[i] = processCompound(dir, refid)
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

// readIndex returns the refids of all compounds worth parsing, in index
// order. Unknown compound kinds are reported and skipped.
func readIndex(dir string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(dir, IndexFile))
	if err != nil {
		return nil, fmt.Errorf("doxygen: reading index: %w", err)
	}
	var idx doxIndex
	if err := xml.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("doxygen: parsing %s: %w", IndexFile, err)
	}

	var refids []string
	for _, c := range idx.Compounds {
		switch {
		case wantedCompoundKinds[c.Kind]:
			refids = append(refids, c.RefID)
		case ignoredCompoundKinds[c.Kind]:
		default:
			logrus.Warnf("unknown compound kind %q in index", c.Kind)
		}
	}
	return refids, nil
}

// processCompound parses one compound XML document into entities. Errors
// affect only this document.
func processCompound(dir, refid string) []*model.Entity {
	data, err := os.ReadFile(filepath.Join(dir, refid+".xml"))
	if err != nil {
		logrus.Warnf("skipping compound %s: %v", refid, err)
		return nil
	}
	var doc doxDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		logrus.Warnf("skipping compound %s: %v", refid, err)
		return nil
	}
	var entities []*model.Entity
	for i := range doc.Compounds {
		entities = append(entities, parseCompound(&doc.Compounds[i])...)
	}
	return entities
}

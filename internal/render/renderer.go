package render

import (
	"fmt"
	"io"

	"github.com/mvp-joe/apidiff/internal/diff"
)

// Renderer writes a report for a change tree and returns the highest
// severity level it contained. Renderers are pure consumers: they never
// feed back into matching.
type Renderer interface {
	Render(result *diff.Result, w io.Writer) (Level, error)
}

// New returns the renderer for a --format value.
func New(format string) (Renderer, error) {
	switch format {
	case "text":
		return &textRenderer{}, nil
	case "markdown":
		return &markdownRenderer{}, nil
	case "json":
		return &jsonRenderer{}, nil
	default:
		return nil, fmt.Errorf("render: unknown format %q", format)
	}
}

// MaxLevel computes the highest severity in the change tree without
// producing output.
func MaxLevel(result *diff.Result) (Level, error) {
	ms, err := newMessageSet()
	if err != nil {
		return LevelNone, err
	}
	defer ms.close()

	discard := func(string, Level, string) error { return nil }
	maxLevel := LevelNone
	for _, g := range result.Groups {
		level, err := ms.walkChanges(g.Changes, "", discard)
		if err != nil {
			return maxLevel, err
		}
		maxLevel = max(maxLevel, level)
	}
	return maxLevel, nil
}

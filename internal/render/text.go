package render

import (
	"fmt"
	"io"

	"github.com/mvp-joe/apidiff/internal/diff"
)

// textRenderer prints one line per fired message, prefixed with the
// declaring location in file:line: form so editors and CI annotations can
// pick it up.
type textRenderer struct{}

func (r *textRenderer) Render(result *diff.Result, w io.Writer) (Level, error) {
	ms, err := newMessageSet()
	if err != nil {
		return LevelNone, err
	}
	defer ms.close()

	maxLevel := LevelNone
	for _, g := range result.Groups {
		if g.Name != "" {
			if _, err := fmt.Fprintf(w, "=== Group %s: %s ===\n", g.Name, g.Title); err != nil {
				return maxLevel, err
			}
		}
		level, err := ms.walkChanges(g.Changes, "", func(loc string, level Level, text string) error {
			if loc != "" {
				_, err := fmt.Fprintf(w, "%s %s: %s\n", loc, level, text)
				return err
			}
			_, err := fmt.Fprintf(w, "%s: %s\n", level, text)
			return err
		})
		if err != nil {
			return maxLevel, err
		}
		maxLevel = max(maxLevel, level)
	}
	return maxLevel, nil
}

package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/mvp-joe/apidiff/internal/diff"
)

// markdownRenderer produces a report suitable for pasting into a pull
// request or release notes: one section per group, one bullet per fired
// message with a bold severity badge.
type markdownRenderer struct{}

func (r *markdownRenderer) Render(result *diff.Result, w io.Writer) (Level, error) {
	ms, err := newMessageSet()
	if err != nil {
		return LevelNone, err
	}
	defer ms.close()

	if _, err := fmt.Fprintln(w, "# API changes"); err != nil {
		return LevelNone, err
	}

	maxLevel := LevelNone
	for _, g := range result.Groups {
		if _, err := fmt.Fprintln(w); err != nil {
			return maxLevel, err
		}
		switch {
		case g.Name != "" && g.Title != "":
			_, err = fmt.Fprintf(w, "## %s (`%s`)\n\n", g.Title, g.Name)
		case g.Name != "":
			_, err = fmt.Fprintf(w, "## `%s`\n\n", g.Name)
		default:
			_, err = fmt.Fprintf(w, "## Ungrouped\n\n")
		}
		if err != nil {
			return maxLevel, err
		}

		level, err := ms.walkChanges(g.Changes, "", func(loc string, level Level, text string) error {
			if loc != "" {
				_, err := fmt.Fprintf(w, "- **%s**: %s (`%s`)\n", level, text, strings.TrimSuffix(loc, ":"))
				return err
			}
			_, err := fmt.Fprintf(w, "- **%s**: %s\n", level, text)
			return err
		})
		if err != nil {
			return maxLevel, err
		}
		maxLevel = max(maxLevel, level)
	}
	return maxLevel, nil
}

package render

import (
	"encoding/json"
	"io"

	"github.com/mvp-joe/apidiff/internal/diff"
)

// jsonRenderer emits the change tree as a machine-readable document. The
// shape is built from explicit DTOs and the per-kind flag tables, not by
// walking struct fields reflectively, so the output format is a deliberate
// contract.
type jsonRenderer struct{}

type jsonReport struct {
	Level  int         `json:"level"`
	Groups []jsonGroup `json:"groups"`
}

type jsonGroup struct {
	Name    string       `json:"name"`
	Title   string       `json:"title,omitempty"`
	Changes []jsonChange `json:"changes"`
}

type jsonChange struct {
	Kind    string           `json:"kind"`
	Action  string           `json:"action"`
	Name    string           `json:"name"`
	OldName string           `json:"old_name,omitempty"`
	File    string           `json:"file,omitempty"`
	Line    int              `json:"line,omitempty"`
	OldFile string           `json:"old_file,omitempty"`
	OldLine int              `json:"old_line,omitempty"`
	Flags   []string         `json:"flags,omitempty"`
	Items   []jsonItemChange `json:"items,omitempty"`
}

type jsonItemChange struct {
	Kind     string   `json:"kind"`
	Action   string   `json:"action"`
	Name     string   `json:"name"`
	Index    int      `json:"index"`
	OldIndex int      `json:"old_index,omitempty"`
	Flags    []string `json:"flags,omitempty"`
}

func (r *jsonRenderer) Render(result *diff.Result, w io.Writer) (Level, error) {
	level, err := MaxLevel(result)
	if err != nil {
		return LevelNone, err
	}

	report := jsonReport{Level: int(level), Groups: []jsonGroup{}}
	for _, g := range result.Groups {
		jg := jsonGroup{Name: g.Name, Title: g.Title, Changes: []jsonChange{}}
		for _, c := range g.Changes {
			jg.Changes = append(jg.Changes, toJSONChange(c))
		}
		report.Groups = append(report.Groups, jg)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	if err := enc.Encode(report); err != nil {
		return level, err
	}
	return level, nil
}

func toJSONChange(c *diff.Change) jsonChange {
	jc := jsonChange{
		Kind:   string(c.Kind),
		Action: string(c.Action),
		Name:   c.New.Name,
		File:   c.New.File,
		Line:   c.New.Line,
	}
	if c.Old != nil && c.Old != c.New {
		jc.OldName = c.Old.Name
		jc.OldFile = c.Old.File
		jc.OldLine = c.Old.Line
	}
	for _, f := range diff.Flags[c.Kind] {
		if f.Set(c) {
			jc.Flags = append(jc.Flags, f.Name)
		}
	}
	for _, ic := range c.SubChanges() {
		ji := jsonItemChange{
			Kind:   string(ic.Kind),
			Action: string(ic.Action),
			Name:   ic.New.Name,
			Index:  ic.New.Index,
		}
		if ic.Old != nil && ic.Old != ic.New {
			ji.OldIndex = ic.Old.Index
		}
		for _, f := range diff.ItemFlags {
			if f.Set(ic) {
				ji.Flags = append(ji.Flags, f.Name)
			}
		}
		jc.Items = append(jc.Items, ji)
	}
	return jc
}

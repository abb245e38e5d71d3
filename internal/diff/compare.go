package diff

import "github.com/mvp-joe/apidiff/internal/model"

// Result is the change tree handed to renderers: the flat ordered change
// list plus the same changes bucketed by enclosing documentation group.
type Result struct {
	Changes []*Change       `json:"changes"`
	Groups  []*GroupChanges `json:"groups"`
}

// GroupChanges is one presentation bucket. The anonymous bucket (empty
// name) collects changes with no enclosing group and always sorts first.
type GroupChanges struct {
	Name    string    `json:"name"`
	Title   string    `json:"title,omitempty"`
	Changes []*Change `json:"changes"`
}

// Compare diffs two snapshots: match the top-level entities, synthesize
// degenerate records for everything added or deleted, classify every
// matched pair, then bucket the flat list by group for presentation.
// Grouping never influences matching, only final ordering and labeling.
func Compare(newc, oldc *model.Collection) (*Result, error) {
	deleted, pairs, added := Match(newc, oldc)

	var changes []*Change
	for _, e := range deleted {
		if kind, ok := changeKind(e.Kind); ok {
			changes = append(changes, &Change{Kind: kind, Action: ActionDeleted, New: e, Old: e})
		}
	}
	for _, p := range pairs {
		c, err := Classify(p.New, p.Old)
		if err != nil {
			return nil, err
		}
		if c != nil {
			changes = append(changes, c)
		}
	}
	for _, e := range added {
		if kind, ok := changeKind(e.Kind); ok {
			changes = append(changes, &Change{Kind: kind, Action: ActionAdded, New: e, Old: e})
		}
	}

	return &Result{
		Changes: changes,
		Groups:  groupChanges(changes, newc, oldc),
	}, nil
}

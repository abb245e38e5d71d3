package diff

import "github.com/mvp-joe/apidiff/internal/model"

// Pair holds one matched new/old entity pair.
type Pair struct {
	New *model.Entity
	Old *model.Entity
}

// Match partitions the two snapshots into deleted old entities, matched
// pairs and added new entities. Matching is identity-exact over short
// identities, first match wins; there is no scoring between candidates.
//
// When a short identity names a single entity on both sides, the two are
// paired directly. When either side holds several entities under one
// short identity, both sides are compared at disambiguating-key
// granularity (a side with a single entity is upgraded to the same
// granularity), so that a codebase growing from one "FOO" to several
// does not turn the surviving one into an added+deleted pair.
//
// An old entity is consumed at most once: whatever was never consumed is
// deleted, never double-counted.
func Match(newc, oldc *model.Collection) (deleted []*model.Entity, pairs []Pair, added []*model.Entity) {
	consumed := make(map[*model.Entity]struct{})
	seen := make(map[string]struct{})

	for _, e := range newc.Entities {
		sid := e.ShortID()
		if _, ok := seen[sid]; ok {
			continue
		}
		seen[sid] = struct{}{}

		newGroup := newc.ByShortID(sid)
		oldGroup := oldc.ByShortID(sid)

		if len(oldGroup) == 0 {
			added = append(added, newGroup...)
			continue
		}

		if len(newGroup) == 1 && len(oldGroup) == 1 {
			pairs = append(pairs, Pair{New: newGroup[0], Old: oldGroup[0]})
			consumed[oldGroup[0]] = struct{}{}
			continue
		}

		// Name collision on at least one side: compare by
		// disambiguating key, first occurrence wins per key.
		oldByKey := make(map[string]*model.Entity, len(oldGroup))
		for _, o := range oldGroup {
			key := o.DisambigKey()
			if _, ok := oldByKey[key]; !ok {
				oldByKey[key] = o
			}
		}
		for _, n := range newGroup {
			o, ok := oldByKey[n.DisambigKey()]
			if !ok {
				added = append(added, n)
				continue
			}
			if _, done := consumed[o]; done {
				added = append(added, n)
				continue
			}
			pairs = append(pairs, Pair{New: n, Old: o})
			consumed[o] = struct{}{}
		}
	}

	for _, o := range oldc.Entities {
		if _, ok := consumed[o]; !ok {
			deleted = append(deleted, o)
		}
	}
	return deleted, pairs, added
}

// matchItems aligns two sub-item sequences by name. The first occurrence
// of a name wins on each side; later duplicates are invisible to
// matching. Added and modified records come out in new-side order,
// deletions are appended in old-side order.
func matchItems(kind Kind, newItems, oldItems []model.Item) []*ItemChange {
	oldByName := make(map[string]*model.Item, len(oldItems))
	for i := range oldItems {
		o := &oldItems[i]
		if _, ok := oldByName[o.Name]; !ok {
			oldByName[o.Name] = o
		}
	}

	var changes []*ItemChange
	matched := make(map[*model.Item]struct{})
	seen := make(map[string]struct{})
	for i := range newItems {
		n := &newItems[i]
		if _, dup := seen[n.Name]; dup {
			continue
		}
		seen[n.Name] = struct{}{}

		o, ok := oldByName[n.Name]
		if !ok {
			changes = append(changes, &ItemChange{Kind: kind, Action: ActionAdded, New: n, Old: n})
			continue
		}
		matched[o] = struct{}{}
		c := &ItemChange{
			Kind:   kind,
			Action: ActionModified,
			New:    n,
			Old:    o,
			Index:  n.Index != o.Index,
			Type:   n.Type != o.Type,
			Value:  n.Value != o.Value,
			Desc:   n.Desc != o.Desc,
		}
		if c.any() {
			changes = append(changes, c)
		}
	}
	for i := range oldItems {
		o := &oldItems[i]
		if _, ok := matched[o]; ok {
			continue
		}
		if oldByName[o.Name] != o {
			continue // duplicate name, invisible to matching
		}
		changes = append(changes, &ItemChange{Kind: kind, Action: ActionDeleted, New: o, Old: o})
	}
	return changes
}

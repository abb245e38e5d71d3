package render

import (
	"strconv"

	"github.com/mvp-joe/apidiff/internal/diff"
)

// emitFunc receives every fired message of a render pass: its location
// prefix (may be empty), severity and rendered body text.
type emitFunc func(loc string, level Level, text string) error

// walkChanges drives the message table over a change list, firing the
// base "kind-action" message and, for modifications, one message per set
// flag, then recursing into sub-item records with the enclosing change as
// context. Returns the highest level fired.
func (ms *messageSet) walkChanges(changes []*diff.Change, loc string, emit emitFunc) (Level, error) {
	maxLevel := LevelNone
	for _, c := range changes {
		cLoc := loc
		if c.New != nil && c.New.File != "" {
			cLoc = c.New.File + ":"
			if c.New.Line > 0 {
				cLoc = c.New.File + ":" + strconv.Itoa(c.New.Line) + ":"
			}
		}
		data := &msgData{New: c.New, Old: c.Old}

		prefix := string(c.Kind) + "-" + string(c.Action)
		keys := []string{prefix}
		if c.Action == diff.ActionModified {
			for _, f := range diff.Flags[c.Kind] {
				if f.Set(c) {
					keys = append(keys, prefix+"-"+f.Name)
				}
			}
		}
		for _, key := range keys {
			level, err := ms.fire(key, cLoc, data, emit)
			if err != nil {
				return maxLevel, err
			}
			maxLevel = max(maxLevel, level)
		}

		level, err := ms.walkItems(c, cLoc, emit)
		if err != nil {
			return maxLevel, err
		}
		maxLevel = max(maxLevel, level)
	}
	return maxLevel, nil
}

func (ms *messageSet) walkItems(parent *diff.Change, loc string, emit emitFunc) (Level, error) {
	maxLevel := LevelNone
	for _, ic := range parent.SubChanges() {
		data := &msgData{New: ic.New, Old: ic.Old}
		switch ic.Kind {
		case diff.KindField:
			data.Struct = parent
		case diff.KindParam:
			data.Parent = parent
		}

		prefix := string(ic.Kind) + "-" + string(ic.Action)
		keys := []string{prefix}
		if ic.Action == diff.ActionModified {
			for _, f := range diff.ItemFlags {
				if f.Set(ic) {
					keys = append(keys, prefix+"-"+f.Name)
				}
			}
		}
		for _, key := range keys {
			level, err := ms.fire(key, loc, data, emit)
			if err != nil {
				return maxLevel, err
			}
			maxLevel = max(maxLevel, level)
		}
	}
	return maxLevel, nil
}

// fire renders and emits one message key, silently skipping keys with no
// message in the table.
func (ms *messageSet) fire(key, loc string, data *msgData, emit emitFunc) (Level, error) {
	m, err := ms.get(key)
	if err != nil || m == nil {
		return LevelNone, err
	}
	text, err := m.render(data)
	if err != nil {
		return LevelNone, err
	}
	if err := emit(loc, m.level, text); err != nil {
		return LevelNone, err
	}
	return m.level, nil
}

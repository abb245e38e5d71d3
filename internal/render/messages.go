package render

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/maypok86/otter"

	"github.com/mvp-joe/apidiff/internal/diff"
)

// Level grades how compatibility-relevant a change is. The process exit
// code reports the highest level found, which is what makes the tool
// usable as a CI gate.
type Level int

const (
	LevelNone Level = iota
	LevelNotice
	LevelWarning
	LevelCritical
)

// String returns the lowercase label used in report output.
func (l Level) String() string {
	switch l {
	case LevelNotice:
		return "notice"
	case LevelWarning:
		return "warning"
	case LevelCritical:
		return "critical"
	default:
		return "none"
	}
}

// messageTexts maps "kind-action" and "kind-modified-field" keys to the
// message emitted when that change (or flag) fires. The severity prefix
// is split off at compile time.
var messageTexts = map[string]string{
	"typedef-added":         `notice: New type "{{.New.Name}}" definition added.`,
	"typedef-deleted":       `critical: Type "{{.Old.Name}}" definition deleted.`,
	"typedef-modified-file": `warning: Type "{{.New.Name}}" definition moved to a different file.`,
	"typedef-modified-desc": `notice: Type "{{.New.Name}}" definition description changed.`,
	"typedef-modified-type": `warning: Type "{{.New.Name}}" definition changed.`,

	"var-added":         `notice: New variable "{{.New.Name}}" added.`,
	"var-deleted":       `critical: Variable "{{.Old.Name}}" deleted.`,
	"var-modified-file": `warning: Variable "{{.New.Name}}" moved to a different file.`,
	"var-modified-desc": `notice: Variable "{{.New.Name}}" description changed.`,
	"var-modified-type": `warning: Variable "{{.New.Name}}" type changed.`,

	"enum-added":         `notice: New enum "{{.New.Name}}" added.`,
	"enum-deleted":       `critical: Enum "{{.Old.Name}}" deleted.`,
	"enum-modified-file": `warning: Enum "{{.New.Name}}" moved to a different file.`,
	"enum-modified-desc": `notice: Enum "{{.New.Name}}" description changed.`,

	"enum_value-added":          `notice: New enum value "{{.New.Name}}" added.`,
	"enum_value-deleted":        `critical: Enum value "{{.Old.Name}}" deleted.`,
	"enum_value-modified-index": `warning: Enum value "{{.New.Name}}" reordered.`,
	"enum_value-modified-value": `warning: Enum value "{{.New.Name}}" changed.`,
	"enum_value-modified-desc":  `notice: Enum value "{{.New.Name}}" description changed.`,

	"struct-added":         `notice: New structure "{{.New.Name}}" added.`,
	"struct-deleted":       `critical: Structure "{{.Old.Name}}" deleted.`,
	"struct-modified-file": `warning: Structure "{{.New.Name}}" moved to a different file.`,
	"struct-modified-desc": `notice: Structure "{{.New.Name}}" description changed.`,

	"field-added":          `notice: Structure "{{.Struct.New.Name}}" field "{{.New.Name}}" added.`,
	"field-deleted":        `critical: Structure "{{.Struct.New.Name}}" field "{{.Old.Name}}" deleted.`,
	"field-modified-index": `notice: Structure "{{.Struct.New.Name}}" field "{{.New.Name}}" reordered.`,
	"field-modified-type":  `warning: Structure "{{.Struct.New.Name}}" field "{{.New.Name}}" type changed.`,
	"field-modified-desc":  `notice: Structure "{{.Struct.New.Name}}" field "{{.New.Name}}" description changed.`,

	"func-added":                `notice: Function "{{.New.Name}}" added.`,
	"func-deleted":              `critical: Function "{{.Old.Name}}" deleted.`,
	"func-modified-return_type": `warning: Function "{{.New.Name}}" return type changed.`,
	"func-modified-file":        `warning: Function "{{.New.Name}}" moved to a different file.`,
	"func-modified-desc":        `notice: Function "{{.New.Name}}" description changed.`,

	"def-added":          `notice: Definition "{{.New.Name}}" added.`,
	"def-deleted":        `critical: Definition "{{.Old.Name}}" deleted.`,
	"def-modified-value": `notice: Definition "{{.New.Name}}" value changed.`,
	"def-modified-file":  `warning: Definition "{{.New.Name}}" moved to a different file.`,
	"def-modified-desc":  `notice: Definition "{{.New.Name}}" description changed.`,

	"param-added":          `critical: Parameter "{{.New.Name}}" added in "{{.Parent.New.Name}}".`,
	"param-deleted":        `critical: Parameter "{{.Old.Name}}" deleted from "{{.Parent.New.Name}}".`,
	"param-modified-index": `critical: Parameter "{{.New.Name}}" reordered in "{{.Parent.New.Name}}".`,
	"param-modified-type":  `warning: Parameter "{{.New.Name}}" type changed in "{{.Parent.New.Name}}".`,
	"param-modified-desc":  `notice: Parameter "{{.New.Name}}" description changed in "{{.Parent.New.Name}}".`,

	"kind-modified": `critical: "{{.New.Name}}" is now a different kind of API element.`,
}

// message is one compiled report message: the body template (severity
// prefix already stripped) and its level.
type message struct {
	tpl   *template.Template
	level Level
}

// msgData is what message templates render against. New and Old are
// either *model.Entity or *model.Item; Parent and Struct carry the
// enclosing function/macro or structure change for nested records.
type msgData struct {
	New    any
	Old    any
	Parent *diff.Change
	Struct *diff.Change
}

// messageSet compiles messages on demand and keeps them in a cache scoped
// to its own lifetime, typically one render pass. No process-wide
// template state.
type messageSet struct {
	cache otter.Cache[string, *message]
}

func newMessageSet() (*messageSet, error) {
	cache, err := otter.MustBuilder[string, *message](len(messageTexts)).Build()
	if err != nil {
		return nil, fmt.Errorf("render: building message cache: %w", err)
	}
	return &messageSet{cache: cache}, nil
}

func (ms *messageSet) close() {
	ms.cache.Close()
}

// get returns the compiled message for a key, or nil when the key has no
// message (not every change kind/flag combination has one).
func (ms *messageSet) get(key string) (*message, error) {
	if m, ok := ms.cache.Get(key); ok {
		return m, nil
	}
	text, ok := messageTexts[key]
	if !ok {
		return nil, nil
	}
	m, err := compileMessage(key, text)
	if err != nil {
		return nil, err
	}
	ms.cache.Set(key, m)
	return m, nil
}

func compileMessage(key, text string) (*message, error) {
	level := LevelNone
	for _, l := range []Level{LevelNotice, LevelWarning, LevelCritical} {
		if prefix := l.String() + ": "; strings.HasPrefix(text, prefix) {
			level = l
			text = strings.TrimPrefix(text, prefix)
			break
		}
	}
	tpl, err := template.New(key).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("render: compiling message %q: %w", key, err)
	}
	return &message{tpl: tpl, level: level}, nil
}

func (m *message) render(data *msgData) (string, error) {
	var sb strings.Builder
	if err := m.tpl.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}

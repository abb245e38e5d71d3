package diff

import "github.com/mvp-joe/apidiff/internal/model"

// Action says what happened to a matched (or unmatched) entity or sub-item.
type Action string

const (
	ActionAdded    Action = "added"
	ActionDeleted  Action = "deleted"
	ActionModified Action = "modified"
)

// Kind is the change-record variant. It mirrors the entity kinds that can
// produce a report, plus the sub-item kinds and the special "kind" record
// emitted when a name was reused for a different construct.
type Kind string

const (
	KindTypedef   Kind = "typedef"
	KindVar       Kind = "var"
	KindEnum      Kind = "enum"
	KindEnumValue Kind = "enum_value"
	KindStruct    Kind = "struct"
	KindField     Kind = "field"
	KindFunc      Kind = "func"
	KindDef       Kind = "def"
	KindParam     Kind = "param"
	KindKind      Kind = "kind"
)

// Change is the typed result of comparing one matched entity pair, or a
// degenerate record for an added/deleted entity (where New and Old both
// point at the same entity). The boolean flags report which scalar fields
// differ; which flags are meaningful for a given Kind is listed in Flags.
type Change struct {
	Kind   Kind          `json:"kind"`
	Action Action        `json:"action"`
	New    *model.Entity `json:"new"`
	Old    *model.Entity `json:"old"`

	File       bool `json:"file,omitempty"`
	Desc       bool `json:"desc,omitempty"`
	Type       bool `json:"type,omitempty"`        // typedef, var
	ReturnType bool `json:"return_type,omitempty"` // func
	Value      bool `json:"value,omitempty"`       // def

	Params []*ItemChange `json:"params,omitempty"` // func, def
	Values []*ItemChange `json:"values,omitempty"` // enum
	Fields []*ItemChange `json:"fields,omitempty"` // struct
}

// ItemChange is the nested record for one parameter, enum value or struct
// field. Index reports a positional move, which is reportable even when
// nothing else changed.
type ItemChange struct {
	Kind   Kind        `json:"kind"`
	Action Action      `json:"action"`
	New    *model.Item `json:"new"`
	Old    *model.Item `json:"old"`

	Index bool `json:"index,omitempty"`
	Type  bool `json:"type,omitempty"`
	Value bool `json:"value,omitempty"`
	Desc  bool `json:"desc,omitempty"`
}

// any reports whether the record carries at least one observable
// difference. Records without one are suppressed entirely.
func (c *Change) any() bool {
	return c.File || c.Desc || c.Type || c.ReturnType || c.Value ||
		len(c.Params) > 0 || len(c.Values) > 0 || len(c.Fields) > 0
}

func (c *ItemChange) any() bool {
	return c.Index || c.Type || c.Value || c.Desc
}

// SubChanges returns the nested sub-item records of a container change.
func (c *Change) SubChanges() []*ItemChange {
	switch c.Kind {
	case KindEnum:
		return c.Values
	case KindStruct:
		return c.Fields
	case KindFunc, KindDef:
		return c.Params
	default:
		return nil
	}
}

// Flag names one boolean diff flag of a change record together with an
// accessor, so renderers can enumerate fields without reflection.
type Flag struct {
	Name string
	Set  func(*Change) bool
}

// ItemFlag is the sub-item counterpart of Flag.
type ItemFlag struct {
	Name string
	Set  func(*ItemChange) bool
}

var (
	fileFlag = Flag{"file", func(c *Change) bool { return c.File }}
	descFlag = Flag{"desc", func(c *Change) bool { return c.Desc }}
)

// Flags lists, per change kind and in render order, the boolean fields a
// modified record of that kind can set.
var Flags = map[Kind][]Flag{
	KindTypedef: {
		{"type", func(c *Change) bool { return c.Type }},
		fileFlag,
		descFlag,
	},
	KindVar: {
		{"type", func(c *Change) bool { return c.Type }},
		fileFlag,
		descFlag,
	},
	KindEnum:   {fileFlag, descFlag},
	KindStruct: {fileFlag, descFlag},
	KindFunc: {
		{"return_type", func(c *Change) bool { return c.ReturnType }},
		fileFlag,
		descFlag,
	},
	KindDef: {
		{"value", func(c *Change) bool { return c.Value }},
		fileFlag,
		descFlag,
	},
	KindKind: nil,
}

// ItemFlags lists the boolean fields of a modified sub-item record, in
// render order. The same table serves parameters, enum values and struct
// fields; a flag that cannot fire for a given kind simply never does.
var ItemFlags = []ItemFlag{
	{"index", func(c *ItemChange) bool { return c.Index }},
	{"type", func(c *ItemChange) bool { return c.Type }},
	{"value", func(c *ItemChange) bool { return c.Value }},
	{"desc", func(c *ItemChange) bool { return c.Desc }},
}

// changeKind maps an entity kind to the change kind reported for it.
// File and group entities are containers: they produce no added/deleted
// records and no field-level diffs, so they have no change kind.
func changeKind(k model.Kind) (Kind, bool) {
	switch k {
	case model.KindTypedef:
		return KindTypedef, true
	case model.KindVar:
		return KindVar, true
	case model.KindEnum:
		return KindEnum, true
	case model.KindStruct, model.KindUnion:
		return KindStruct, true
	case model.KindFunc:
		return KindFunc, true
	case model.KindDef:
		return KindDef, true
	default:
		return "", false
	}
}

package model

// Kind identifies the concrete variant of an Entity. The set is closed:
// extraction warns and skips anything it does not recognize, while the
// classifier treats an unknown kind as a contract violation.
type Kind string

const (
	KindFile    Kind = "file"
	KindGroup   Kind = "group"
	KindStruct  Kind = "struct"
	KindUnion   Kind = "union"
	KindFunc    Kind = "func"
	KindDef     Kind = "def"
	KindEnum    Kind = "enum"
	KindTypedef Kind = "typedef"
	KindVar     Kind = "var"
)

// Item is a positioned, named child of an entity: a function or macro
// parameter, an enum value, or a struct field. Type is used by parameters
// and fields, Value by enum values; both are opaque rendered text, never
// parsed.
type Item struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Type  string `json:"type,omitempty"`
	Value string `json:"value,omitempty"`
	Desc  string `json:"desc,omitempty"`
}

// Entity is one documented element of the public API surface.
//
// ID is assigned by the extraction front end for a single run and is not
// comparable across runs; cross-version correlation goes through the short
// identity instead (see identity.go). Which of the kind-specific fields are
// meaningful depends on Kind.
type Entity struct {
	ID   string `json:"id"`
	Kind Kind   `json:"kind"`
	Name string `json:"name"`
	File string `json:"file,omitempty"`
	Line int    `json:"line,omitempty"`
	Desc string `json:"desc,omitempty"`

	// Graph navigation only; never used for matching.
	ParentIDs []string `json:"parent_ids,omitempty"`
	ChildIDs  []string `json:"children_ids,omitempty"`

	Title      string `json:"title,omitempty"`       // group
	Type       string `json:"type,omitempty"`        // typedef, var
	ReturnType string `json:"return_type,omitempty"` // func
	Value      string `json:"value,omitempty"`       // def

	Params []Item `json:"params,omitempty"` // func, def
	Values []Item `json:"values,omitempty"` // enum
	Fields []Item `json:"fields,omitempty"` // struct, union
}

// AddParent records a parent reference, ignoring duplicates.
func (e *Entity) AddParent(id string) {
	for _, p := range e.ParentIDs {
		if p == id {
			return
		}
	}
	e.ParentIDs = append(e.ParentIDs, id)
}

// AddChild records a child reference, ignoring duplicates.
func (e *Entity) AddChild(id string) {
	for _, c := range e.ChildIDs {
		if c == id {
			return
		}
	}
	e.ChildIDs = append(e.ChildIDs, id)
}

// AddParam appends an empty parameter with the next index and returns a
// pointer to it for the caller to fill in.
func (e *Entity) AddParam() *Item {
	e.Params = append(e.Params, Item{Index: len(e.Params)})
	return &e.Params[len(e.Params)-1]
}

// AddValue appends an empty enum value with the next index.
func (e *Entity) AddValue() *Item {
	e.Values = append(e.Values, Item{Index: len(e.Values)})
	return &e.Values[len(e.Values)-1]
}

// AddField appends an empty struct field with the next index.
func (e *Entity) AddField() *Item {
	e.Fields = append(e.Fields, Item{Index: len(e.Fields)})
	return &e.Fields[len(e.Fields)-1]
}

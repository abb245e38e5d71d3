package diff

import (
	"fmt"

	"github.com/mvp-joe/apidiff/internal/model"
)

// Classify compares one matched pair field by field and returns the typed
// change record, or nil when nothing observable differs. Comparisons are
// plain string/number equality; types, values and macro bodies are opaque
// text.
//
// A pair whose kinds differ is not comparable: a single "kind" record is
// emitted and no field-level diffing is attempted. An entity kind the
// classifier does not know is a contract violation and returns an error;
// variant coverage here must stay exhaustive.
func Classify(newE, oldE *model.Entity) (*Change, error) {
	if newE.Kind != oldE.Kind {
		return &Change{Kind: KindKind, Action: ActionModified, New: newE, Old: oldE}, nil
	}

	c := &Change{Action: ActionModified, New: newE, Old: oldE}

	switch newE.Kind {
	case model.KindFile, model.KindGroup:
		// Containers are never diffed field by field; membership
		// changes surface on the moved entities themselves.
		return nil, nil
	case model.KindTypedef:
		c.Kind = KindTypedef
		c.Type = newE.Type != oldE.Type
	case model.KindVar:
		c.Kind = KindVar
		c.Type = newE.Type != oldE.Type
	case model.KindEnum:
		c.Kind = KindEnum
		c.Values = matchItems(KindEnumValue, newE.Values, oldE.Values)
	case model.KindStruct, model.KindUnion:
		c.Kind = KindStruct
		c.Fields = matchItems(KindField, newE.Fields, oldE.Fields)
	case model.KindFunc:
		c.Kind = KindFunc
		c.ReturnType = newE.ReturnType != oldE.ReturnType
		c.Params = matchItems(KindParam, newE.Params, oldE.Params)
	case model.KindDef:
		c.Kind = KindDef
		c.Value = newE.Value != oldE.Value
		c.Params = matchItems(KindParam, newE.Params, oldE.Params)
	default:
		return nil, fmt.Errorf("classify: unsupported entity kind %q (%s)", newE.Kind, newE.Name)
	}

	c.File = newE.File != oldE.File
	c.Desc = newE.Desc != oldE.Desc

	if !c.any() {
		return nil, nil
	}
	return c, nil
}

package doxygen

import (
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mvp-joe/apidiff/internal/model"
)

// Only declarations living in headers are part of the public surface;
// locations pointing anywhere else are discarded.
const headerExtension = ".h"

// setLocation picks the declaring header for an entity, preferring the
// body location, then the reported file, then the declaration site.
func setLocation(e *model.Entity, loc *location) {
	switch {
	case loc == nil:
	case loc.BodyFile != "" && strings.HasSuffix(loc.BodyFile, headerExtension):
		e.File = loc.BodyFile
		e.Line = loc.BodyStart
	case loc.File != "" && strings.HasSuffix(loc.File, headerExtension):
		e.File = loc.File
		e.Line = loc.Line
	case loc.DeclFile != "" && strings.HasSuffix(loc.DeclFile, headerExtension):
		e.File = loc.DeclFile
		e.Line = loc.DeclLine
	}
}

func parseFunctionLike(e *model.Entity, m *memberDef) {
	setLocation(e, m.Location)
	e.Desc = m.Brief.Text
	for i := range m.Params {
		p := &m.Params[i]
		param := e.AddParam()
		param.Desc = p.Brief.Text
		param.Name = p.DeclName
		if param.Name == "" {
			param.Name = p.DefName
		}
		param.Type = textOrVoid(p.Type)
	}
}

func parseFunction(m *memberDef) *model.Entity {
	fn := &model.Entity{ID: m.ID, Kind: model.KindFunc, Name: m.Name}
	parseFunctionLike(fn, m)
	fn.ReturnType = textOrVoid(m.Type)
	return fn
}

func parseDefine(m *memberDef) *model.Entity {
	def := &model.Entity{ID: m.ID, Kind: model.KindDef, Name: m.Name}
	parseFunctionLike(def, m)
	def.Value = text(m.Initializer)
	return def
}

func parseEnum(m *memberDef, nameOverride string) *model.Entity {
	name := m.Name
	if nameOverride != "" {
		name = nameOverride
	}
	enum := &model.Entity{ID: m.ID, Kind: model.KindEnum, Name: name}
	setLocation(enum, m.Location)
	enum.Desc = m.Brief.Text
	for i := range m.EnumValues {
		ev := &m.EnumValues[i]
		value := enum.AddValue()
		value.Name = ev.Name
		value.Value = text(ev.Initializer)
		value.Desc = ev.Brief.Text
	}
	return enum
}

func parseSimple(kind model.Kind, m *memberDef) *model.Entity {
	e := &model.Entity{ID: m.ID, Kind: kind, Name: m.Name}
	setLocation(e, m.Location)
	e.Desc = m.Brief.Text
	// Trailing array or bracket suffixes live in argsstring.
	e.Type = textOrVoid(m.Type) + m.ArgsString
	return e
}

// parseMember maps one member definition to entities. Unknown member
// kinds are reported and skipped, never fatal.
func parseMember(m *memberDef) []*model.Entity {
	switch m.Kind {
	case "function":
		return []*model.Entity{parseFunction(m)}
	case "define":
		return []*model.Entity{parseDefine(m)}
	case "enum":
		return []*model.Entity{parseEnum(m, "")}
	case "typedef":
		return []*model.Entity{parseSimple(model.KindTypedef, m)}
	case "variable":
		return []*model.Entity{parseSimple(model.KindVar, m)}
	default:
		logrus.Warnf("unknown member kind %q", m.Kind)
		return nil
	}
}

// parseFileOrGroup parses a file or group compound: the container entity
// itself plus every member defined inline, with child links for graph
// navigation.
func parseFileOrGroup(container *model.Entity, c *compoundDef) []*model.Entity {
	result := []*model.Entity{container}
	setLocation(container, c.Location)
	container.Desc = c.Brief.Text
	for _, ref := range c.InnerClass {
		container.AddChild(ref.RefID)
	}
	for _, ref := range c.InnerGroup {
		container.AddChild(ref.RefID)
	}
	for si := range c.Sections {
		section := &c.Sections[si]
		for _, ref := range section.MemberRefs {
			container.AddChild(ref.RefID)
		}
		for mi := range section.Members {
			children := parseMember(&section.Members[mi])
			for _, child := range children {
				container.AddChild(child.ID)
				child.AddParent(container.ID)
			}
			result = append(result, children...)
		}
	}
	return result
}

func parseFile(c *compoundDef) []*model.Entity {
	file := &model.Entity{ID: c.ID, Kind: model.KindFile, Name: c.Name}
	return parseFileOrGroup(file, c)
}

func parseGroup(c *compoundDef) []*model.Entity {
	group := &model.Entity{ID: c.ID, Kind: model.KindGroup, Name: c.Name, Title: c.Title}
	return parseFileOrGroup(group, c)
}

// fieldWithMacroRE recognizes a function-pointer field whose declaration
// was mangled by a macro: the argsstring holds "(name)(args)" and
// optionally a trailing upper-case macro name that is the real field name.
var fieldWithMacroRE = regexp.MustCompile(`(?is)^\s*\(\s*([a-z_0-9]+)(?:\(.*?\)|.)*?\)(?:\s*([A-Z_0-9]+)\s*$)?`)

// parseFieldWithMacro reconstructs a function-pointer struct field from
// the combined return/name/args rendering.
func parseFieldWithMacro(m *memberDef) model.Item {
	field := model.Item{Name: m.Name, Desc: m.Brief.Text}
	args := m.ArgsString
	idx := fieldWithMacroRE.FindStringSubmatchIndex(args)
	field.Type = text(m.Type)
	if idx == nil {
		field.Type = text(m.Type) + args
		return field
	}
	if len(field.Type) > 0 {
		field.Type += " "
	}
	field.Type += field.Name
	var start, end int
	if idx[4] >= 0 {
		start, end = idx[4], idx[5]
	} else {
		start, end = idx[2], idx[3]
	}
	field.Type += strings.TrimSpace(strings.TrimSpace(args[:start]) + strings.TrimSpace(args[end:]))
	field.Name = args[start:end]
	return field
}

// parseStruct parses a struct, class or union compound. A member that is
// itself an anonymous nested enum is hoisted out as a sibling top-level
// enum entity qualified by the struct's name instead of being kept as a
// field.
func parseStruct(c *compoundDef, isUnion bool) []*model.Entity {
	kind := model.KindStruct
	if isUnion {
		kind = model.KindUnion
	}
	st := &model.Entity{ID: c.ID, Kind: kind, Name: c.Name}
	setLocation(st, c.Location)
	st.Desc = c.Brief.Text

	var result []*model.Entity
	for si := range c.Sections {
		for mi := range c.Sections[si].Members {
			m := &c.Sections[si].Members[mi]
			switch m.Kind {
			case "variable":
				field := st.AddField()
				field.Name = m.Name
				field.Type = textOrVoid(m.Type) + m.ArgsString
				field.Desc = m.Brief.Text
			case "function":
				item := parseFieldWithMacro(m)
				field := st.AddField()
				index := field.Index
				*field = item
				field.Index = index
			case "enum":
				fullName := m.QualifiedName
				if m.Name == "" {
					fullName += "::" + m.ID
				}
				result = append(result, parseEnum(m, fullName))
			default:
				logrus.Warnf("unknown structure member kind %q, name %s in %s, %s:%d",
					m.Kind, m.Name, st.Name, st.File, st.Line)
			}
		}
	}
	return append(result, st)
}

// parseCompound dispatches one compound definition by kind. Classes are
// treated as structs; unexpected compound kinds are reported and skipped.
func parseCompound(c *compoundDef) []*model.Entity {
	switch c.Kind {
	case "file":
		return parseFile(c)
	case "group":
		return parseGroup(c)
	case "struct", "class":
		return parseStruct(c, false)
	case "union":
		return parseStruct(c, true)
	default:
		logrus.Warnf("unexpected compound kind %q", c.Kind)
		return nil
	}
}

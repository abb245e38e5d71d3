package headers

import (
	"strings"

	"github.com/google/uuid"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tsc "github.com/tree-sitter/tree-sitter-c/bindings/go"

	"github.com/mvp-joe/apidiff/internal/model"
)

// fileParser turns one header into entities. Entity IDs are fresh UUIDs:
// they identify an entity within this run only, matching across runs goes
// through short identities.
type fileParser struct {
	language *sitter.Language
}

func newFileParser() *fileParser {
	return &fileParser{language: sitter.NewLanguage(tsc.Language())}
}

// parse extracts the API surface of a single header. relPath doubles as
// the file entity name and the declaring file of every member.
func (p *fileParser) parse(relPath string, source []byte) []*model.Entity {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(p.language)

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil
	}
	defer tree.Close()

	file := &model.Entity{ID: uuid.NewString(), Kind: model.KindFile, Name: relPath, File: relPath, Line: 1}
	entities := []*model.Entity{file}

	var walk func(node *sitter.Node, guard string)
	walk = func(node *sitter.Node, guard string) {
		switch node.Kind() {
		case "preproc_ifdef":
			// Descend into the include guard, remembering its name so the
			// guard's own #define is not reported as API.
			name := nodeText(node.ChildByFieldName("name"), source)
			for i := uint(0); i < node.ChildCount(); i++ {
				walk(node.Child(i), name)
			}
		case "preproc_if", "preproc_else", "preproc_elif":
			for i := uint(0); i < node.ChildCount(); i++ {
				walk(node.Child(i), guard)
			}
		case "preproc_def":
			if guard != "" && nodeText(node.ChildByFieldName("name"), source) == guard {
				return
			}
			fallthrough
		default:
			for _, e := range p.parseTopLevel(node, source) {
				e.File = relPath
				e.Desc = leadingComment(node, source)
				file.AddChild(e.ID)
				e.AddParent(file.ID)
				entities = append(entities, e)
			}
		}
	}
	root := tree.RootNode()
	for i := uint(0); i < root.ChildCount(); i++ {
		walk(root.Child(i), "")
	}
	return entities
}

func (p *fileParser) parseTopLevel(node *sitter.Node, source []byte) []*model.Entity {
	switch node.Kind() {
	case "preproc_def":
		return p.parseDefine(node, source)
	case "preproc_function_def":
		return p.parseMacro(node, source)
	case "declaration", "function_definition":
		return p.parseDeclaration(node, source)
	case "type_definition":
		return p.parseTypedef(node, source)
	case "struct_specifier", "union_specifier":
		if e := p.parseStruct(node, source, ""); e != nil {
			return []*model.Entity{e}
		}
	case "enum_specifier":
		if e := p.parseEnum(node, source, ""); e != nil {
			return []*model.Entity{e}
		}
	}
	return nil
}

// parseDefine handles an object-like #define.
func (p *fileParser) parseDefine(node *sitter.Node, source []byte) []*model.Entity {
	name := nodeText(node.ChildByFieldName("name"), source)
	if name == "" {
		return nil
	}
	def := &model.Entity{
		ID:    uuid.NewString(),
		Kind:  model.KindDef,
		Name:  name,
		Line:  line(node),
		Value: strings.TrimSpace(nodeText(node.ChildByFieldName("value"), source)),
	}
	return []*model.Entity{def}
}

// parseMacro handles a function-like #define with a parameter list.
func (p *fileParser) parseMacro(node *sitter.Node, source []byte) []*model.Entity {
	name := nodeText(node.ChildByFieldName("name"), source)
	if name == "" {
		return nil
	}
	def := &model.Entity{
		ID:    uuid.NewString(),
		Kind:  model.KindDef,
		Name:  name,
		Line:  line(node),
		Value: strings.TrimSpace(nodeText(node.ChildByFieldName("value"), source)),
	}
	if params := node.ChildByFieldName("parameters"); params != nil {
		for i := uint(0); i < params.NamedChildCount(); i++ {
			child := params.NamedChild(i)
			if child.Kind() != "identifier" {
				continue
			}
			param := def.AddParam()
			param.Name = nodeText(child, source)
		}
	}
	return []*model.Entity{def}
}

// parseDeclaration handles a top-level declaration: a function prototype
// or an exported variable.
func (p *fileParser) parseDeclaration(node *sitter.Node, source []byte) []*model.Entity {
	typeText := nodeText(node.ChildByFieldName("type"), source)
	declarator := node.ChildByFieldName("declarator")
	if declarator == nil {
		return nil
	}

	if fn, stars := findFunctionDeclarator(declarator); fn != nil {
		name := declaratorName(fn.ChildByFieldName("declarator"), source)
		if name == "" {
			return nil
		}
		e := &model.Entity{
			ID:         uuid.NewString(),
			Kind:       model.KindFunc,
			Name:       name,
			Line:       line(node),
			ReturnType: typeText + stars,
		}
		p.parseParams(e, fn.ChildByFieldName("parameters"), source)
		return []*model.Entity{e}
	}

	name := declaratorName(declarator, source)
	if name == "" {
		return nil
	}
	e := &model.Entity{
		ID:   uuid.NewString(),
		Kind: model.KindVar,
		Name: name,
		Line: line(node),
		Type: typeText + pointerStars(declarator) + arraySuffix(declarator, source),
	}
	return []*model.Entity{e}
}

// parseTypedef handles a type_definition, also emitting the struct, union
// or enum entity it defines when the underlying type carries a body.
func (p *fileParser) parseTypedef(node *sitter.Node, source []byte) []*model.Entity {
	typeNode := node.ChildByFieldName("type")
	declarator := node.ChildByFieldName("declarator")
	name := declaratorName(declarator, source)
	if name == "" {
		return nil
	}

	var result []*model.Entity
	if typeNode != nil && typeNode.ChildByFieldName("body") != nil {
		// Anonymous definitions inherit the typedef's name.
		switch typeNode.Kind() {
		case "struct_specifier", "union_specifier":
			if e := p.parseStruct(typeNode, source, name); e != nil {
				result = append(result, e)
			}
		case "enum_specifier":
			if e := p.parseEnum(typeNode, source, name); e != nil {
				result = append(result, e)
			}
		}
	}

	td := &model.Entity{
		ID:   uuid.NewString(),
		Kind: model.KindTypedef,
		Name: name,
		Line: line(node),
		Type: typedefUnderlyingType(typeNode, declarator, source),
	}
	return append(result, td)
}

// typedefUnderlyingType renders the right-hand side of a typedef. Bodies
// are collapsed to their introducing keyword plus tag so the comparison
// text stays stable across formatting changes.
func typedefUnderlyingType(typeNode, declarator *sitter.Node, source []byte) string {
	if typeNode == nil {
		return ""
	}
	text := nodeText(typeNode, source)
	if typeNode.ChildByFieldName("body") != nil {
		keyword := strings.SplitN(typeNode.Kind(), "_", 2)[0]
		if tag := nodeText(typeNode.ChildByFieldName("name"), source); tag != "" {
			text = keyword + " " + tag
		} else {
			text = keyword
		}
	}
	return text + pointerStars(declarator) + arraySuffix(declarator, source)
}

// parseStruct builds a struct or union entity from a specifier with a
// body. nameOverride substitutes for the tag of anonymous definitions.
func (p *fileParser) parseStruct(node *sitter.Node, source []byte, nameOverride string) *model.Entity {
	body := node.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	name := nodeText(node.ChildByFieldName("name"), source)
	if name == "" {
		name = nameOverride
	}
	if name == "" {
		return nil
	}
	kind := model.KindStruct
	if node.Kind() == "union_specifier" {
		kind = model.KindUnion
	}
	st := &model.Entity{ID: uuid.NewString(), Kind: kind, Name: name, Line: line(node)}
	for i := uint(0); i < body.NamedChildCount(); i++ {
		child := body.NamedChild(i)
		if child.Kind() != "field_declaration" {
			continue
		}
		p.parseField(st, child, source)
	}
	return st
}

func (p *fileParser) parseField(st *model.Entity, node *sitter.Node, source []byte) {
	typeText := nodeText(node.ChildByFieldName("type"), source)
	declarator := node.ChildByFieldName("declarator")
	if declarator == nil {
		return
	}
	name := declaratorName(declarator, source)
	if name == "" {
		return
	}
	field := st.AddField()
	field.Name = name
	field.Desc = leadingComment(node, source)
	if fn, _ := findFunctionDeclarator(declarator); fn != nil {
		// Function-pointer field: keep the full rendered declarator so
		// signature changes are visible, with the name spliced out.
		declText := strings.Join(strings.Fields(nodeText(declarator, source)), " ")
		field.Type = strings.TrimSpace(typeText + " " + strings.Replace(declText, name, "", 1))
	} else {
		field.Type = typeText + pointerStars(declarator) + arraySuffix(declarator, source)
	}
}

// parseEnum builds an enum entity from a specifier with a body.
func (p *fileParser) parseEnum(node *sitter.Node, source []byte, nameOverride string) *model.Entity {
	body := node.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	name := nodeText(node.ChildByFieldName("name"), source)
	if name == "" {
		name = nameOverride
	}
	if name == "" {
		return nil
	}
	enum := &model.Entity{ID: uuid.NewString(), Kind: model.KindEnum, Name: name, Line: line(node)}
	for i := uint(0); i < body.NamedChildCount(); i++ {
		child := body.NamedChild(i)
		if child.Kind() != "enumerator" {
			continue
		}
		value := enum.AddValue()
		value.Name = nodeText(child.ChildByFieldName("name"), source)
		value.Value = nodeText(child.ChildByFieldName("value"), source)
		value.Desc = leadingComment(child, source)
	}
	return enum
}

func (p *fileParser) parseParams(e *model.Entity, params *sitter.Node, source []byte) {
	if params == nil {
		return
	}
	for i := uint(0); i < params.NamedChildCount(); i++ {
		child := params.NamedChild(i)
		if child.Kind() != "parameter_declaration" {
			continue
		}
		typeText := nodeText(child.ChildByFieldName("type"), source)
		declarator := child.ChildByFieldName("declarator")
		if typeText == "void" && declarator == nil {
			continue // void parameter list
		}
		param := e.AddParam()
		param.Name = declaratorName(declarator, source)
		param.Type = typeText + pointerStars(declarator)
	}
}

// findFunctionDeclarator descends pointer wrapping looking for a function
// declarator, returning it plus the pointer stars passed on the way.
func findFunctionDeclarator(node *sitter.Node) (*sitter.Node, string) {
	stars := ""
	for node != nil {
		switch node.Kind() {
		case "function_declarator":
			return node, stars
		case "pointer_declarator":
			stars += "*"
			node = node.ChildByFieldName("declarator")
		default:
			return nil, ""
		}
	}
	return nil, ""
}

// declaratorName digs the identifier out of an arbitrarily wrapped
// declarator.
func declaratorName(node *sitter.Node, source []byte) string {
	for node != nil {
		switch node.Kind() {
		case "identifier", "field_identifier", "type_identifier":
			return nodeText(node, source)
		case "pointer_declarator", "array_declarator", "function_declarator",
			"parenthesized_declarator", "init_declarator":
			if inner := node.ChildByFieldName("declarator"); inner != nil {
				node = inner
				continue
			}
			node = firstNamedChild(node)
		default:
			node = firstNamedChild(node)
		}
	}
	return ""
}

func firstNamedChild(node *sitter.Node) *sitter.Node {
	if node == nil || node.NamedChildCount() == 0 {
		return nil
	}
	return node.NamedChild(0)
}

// pointerStars renders the pointer depth of a declarator chain.
func pointerStars(node *sitter.Node) string {
	stars := ""
	for node != nil && node.Kind() == "pointer_declarator" {
		stars += "*"
		node = node.ChildByFieldName("declarator")
	}
	if stars != "" {
		return " " + stars
	}
	return ""
}

// arraySuffix renders trailing bracket suffixes, e.g. "[16]".
func arraySuffix(node *sitter.Node, source []byte) string {
	suffix := ""
	for node != nil {
		if node.Kind() == "array_declarator" {
			text := nodeText(node, source)
			if i := strings.Index(text, "["); i >= 0 {
				suffix = text[i:] + suffix
			}
		}
		node = node.ChildByFieldName("declarator")
	}
	return suffix
}

// leadingComment returns the comment block immediately above a node,
// stripped of comment markers.
func leadingComment(node *sitter.Node, source []byte) string {
	prev := node.PrevNamedSibling()
	if prev == nil || prev.Kind() != "comment" {
		return ""
	}
	// Only adopt a comment that ends on the line directly above.
	if prev.EndPosition().Row+1 < node.StartPosition().Row {
		return ""
	}
	return cleanComment(nodeText(prev, source))
}

func cleanComment(text string) string {
	text = strings.TrimPrefix(text, "/**")
	text = strings.TrimPrefix(text, "/*")
	text = strings.TrimSuffix(text, "*/")
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "//")
		line = strings.TrimPrefix(line, "*")
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, " ")
}

func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

func line(node *sitter.Node) int {
	return int(node.StartPosition().Row) + 1
}

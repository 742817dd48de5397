// Package jsx parses JavaScript/TypeScript component sources with tree-sitter and
// exposes the JSX elements and object literals the detectors inspect.
package jsx

import (
	"path/filepath"
	"strings"
	"unicode/utf8"

	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// Attribute is a single JSX attribute. Value is the unquoted string literal or the
// trimmed expression inside braces; it is empty for bare boolean attributes.
type Attribute struct {
	Name      string
	Value     string
	ValueKind string // "string", "expression" or "" for bare attributes
}

// Element is a JSX opening or self-closing element.
type Element struct {
	Name        string // e.g. "TouchableOpacity", "Animated.View"
	Line        int
	Text        string // source of the opening tag
	Attrs       []Attribute
	SelfClosing bool
	Spread      bool // has {...props}; attributes may be supplied indirectly
}

// Attr returns the attribute with the given name.
func (e Element) Attr(name string) (Attribute, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// HasAny reports whether any of the named attributes is present.
func (e Element) HasAny(names ...string) bool {
	for _, n := range names {
		if _, ok := e.Attr(n); ok {
			return true
		}
	}
	return false
}

// AttrIs reports whether the attribute is present with the given value,
// e.g. AttrIs("accessible", "false") matches accessible={false}.
func (e Element) AttrIs(name, value string) bool {
	a, ok := e.Attr(name)
	return ok && a.Value == value
}

// BaseName returns the last segment of the element name ("Animated.View" -> "View").
func (e Element) BaseName() string {
	if i := strings.LastIndex(e.Name, "."); i >= 0 {
		return e.Name[i+1:]
	}
	return e.Name
}

// Property is a key/value pair inside an object literal.
type Property struct {
	Key       string
	Value     string
	ValueKind string // tree-sitter node kind, e.g. "number", "string"
	Line      int
}

// Object is an object literal such as a style definition.
type Object struct {
	Line  int
	Text  string
	Props []Property
}

// Document is the parsed view of one source file.
type Document struct {
	Elements  []Element
	Objects   []Object
	HasErrors bool
}

// IsComponent reports whether the file renders any JSX.
func (d *Document) IsComponent() bool {
	return d != nil && len(d.Elements) > 0
}

// ElementsNamed returns elements whose name or base name is in names.
func (d *Document) ElementsNamed(names map[string]bool) []Element {
	if d == nil {
		return nil
	}
	var out []Element
	for _, el := range d.Elements {
		if names[el.Name] || names[el.BaseName()] {
			out = append(out, el)
		}
	}
	return out
}

// Parse parses src and collects JSX elements and object literals. Files with
// syntax errors are still walked; tree-sitter recovers around the error.
func Parse(path string, src []byte) *Document {
	lang := typescript.LanguageTSX()
	if strings.ToLower(filepath.Ext(path)) == ".ts" {
		lang = typescript.LanguageTypescript()
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(sitter.NewLanguage(lang))

	tree := parser.Parse(src, nil)
	if tree == nil {
		return &Document{HasErrors: true}
	}
	defer tree.Close()

	root := tree.RootNode()
	doc := &Document{HasErrors: root.HasError()}
	walk(root, src, doc)
	return doc
}

func walk(node *sitter.Node, src []byte, doc *Document) {
	switch node.Kind() {
	case "jsx_opening_element", "jsx_self_closing_element":
		if el, ok := parseElement(node, src); ok {
			doc.Elements = append(doc.Elements, el)
		}
	case "object":
		doc.Objects = append(doc.Objects, parseObject(node, src))
	}

	for i := range node.ChildCount() {
		walk(node.Child(i), src, doc)
	}
}

func parseElement(node *sitter.Node, src []byte) (Element, bool) {
	name := node.ChildByFieldName("name")
	if name == nil {
		// Fragment: <>...</>
		return Element{}, false
	}

	el := Element{
		Name:        nodeText(name, src),
		Line:        int(node.StartPosition().Row) + 1,
		Text:        nodeText(node, src),
		SelfClosing: node.Kind() == "jsx_self_closing_element",
	}

	for i := range node.NamedChildCount() {
		child := node.NamedChild(i)
		switch child.Kind() {
		case "jsx_attribute":
			el.Attrs = append(el.Attrs, parseAttribute(child, src))
		case "jsx_expression":
			el.Spread = true
		}
	}
	return el, true
}

func parseAttribute(node *sitter.Node, src []byte) Attribute {
	var attr Attribute
	if node.NamedChildCount() == 0 {
		return attr
	}
	attr.Name = nodeText(node.NamedChild(0), src)
	if node.NamedChildCount() < 2 {
		return attr
	}

	value := node.NamedChild(1)
	switch value.Kind() {
	case "string":
		attr.ValueKind = "string"
		attr.Value = unquote(nodeText(value, src))
	case "jsx_expression":
		attr.ValueKind = "expression"
		text := nodeText(value, src)
		text = strings.TrimSuffix(strings.TrimPrefix(text, "{"), "}")
		attr.Value = strings.TrimSpace(text)
	default:
		attr.ValueKind = "expression"
		attr.Value = nodeText(value, src)
	}
	return attr
}

func parseObject(node *sitter.Node, src []byte) Object {
	obj := Object{
		Line: int(node.StartPosition().Row) + 1,
		Text: nodeText(node, src),
	}
	for i := range node.NamedChildCount() {
		pair := node.NamedChild(i)
		if pair.Kind() != "pair" {
			continue
		}
		key := pair.ChildByFieldName("key")
		value := pair.ChildByFieldName("value")
		if key == nil || value == nil {
			continue
		}
		prop := Property{
			Key:       unquote(nodeText(key, src)),
			ValueKind: value.Kind(),
			Value:     nodeText(value, src),
			Line:      int(pair.StartPosition().Row) + 1,
		}
		if prop.ValueKind == "string" {
			prop.Value = unquote(prop.Value)
		}
		obj.Props = append(obj.Props, prop)
	}
	return obj
}

// Snippet collapses whitespace and truncates source text for evidence fields.
func Snippet(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	const maxLen = 160
	if len(text) > maxLen {
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		return text[:cut] + "..."
	}
	return text
}

func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'' || first == '`') && first == last {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func nodeText(node *sitter.Node, src []byte) string {
	return string(src[node.StartByte():node.EndByte()])
}

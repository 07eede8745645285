package vdom

// Bag keys used by the Attr and Style helpers. They match the defaults of
// native.PropertyPolicy.
const (
	AttributesKey = "attributes"
	StyleKey      = "style"
)

// SVGNamespace is the namespace used by the svg factories.
const SVGNamespace = "http://www.w3.org/2000/svg"

// Attr is a single attribute. Attributes are collected into the element's
// attributes bag.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// Prop is a direct property assignment. The value may be a Hook.
type Prop struct {
	Name  string
	Value any
}

// StyleEntry is one declaration in the element's style bag.
type StyleEntry struct {
	Name  string
	Value string
}

// NamespaceOption sets the element namespace.
type NamespaceOption struct {
	URI string
}

// Namespace sets the element namespace.
func Namespace(uri string) NamespaceOption { return NamespaceOption{URI: uri} }

// Property assigns a direct property.
func Property(name string, value any) Prop { return Prop{Name: name, Value: value} }

// HookProp attaches a hook under name.
func HookProp(name string, h Hook) Prop { return Prop{Name: name, Value: h} }

// Style adds a style declaration.
func Style(name, value string) StyleEntry { return StyleEntry{Name: name, Value: value} }

// H creates an element with an arbitrary tag.
func H(tag string, args ...any) *VNode { return createElement(tag, "", args) }

// HNS creates an element in the given namespace.
func HNS(namespace, tag string, args ...any) *VNode { return createElement(tag, namespace, args) }

// createElement creates a new VNode with the given tag and arguments.
// Arguments can be: nil, Attr, []Attr, Prop, StyleEntry, NamespaceOption,
// Props, Node, []Node, string.
func createElement(tag, namespace string, args []any) *VNode {
	props := make(Props)
	var children []Node
	var key string

	setAttr := func(a Attr) {
		if a.Key == "" {
			return
		}
		if a.Key == "key" {
			if s, ok := a.Value.(string); ok {
				key = s
			}
			return
		}
		bag, _ := props[AttributesKey].(Props)
		if bag == nil {
			bag = make(Props)
			props[AttributesKey] = bag
		}
		bag[a.Key] = a.Value
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			// Ignore nil (allows conditional attributes)
			continue

		case Attr:
			setAttr(v)

		case []Attr:
			for _, a := range v {
				setAttr(a)
			}

		case Prop:
			if v.Name != "" {
				props[v.Name] = v.Value
			}

		case StyleEntry:
			bag, _ := props[StyleKey].(Props)
			if bag == nil {
				bag = make(Props)
				props[StyleKey] = bag
			}
			bag[v.Name] = v.Value

		case NamespaceOption:
			namespace = v.URI

		case Props:
			for k, val := range v {
				props[k] = val
			}

		case Node:
			if !isNil(v) {
				children = append(children, v)
			}

		case []Node:
			for _, child := range v {
				if !isNil(child) {
					children = append(children, child)
				}
			}

		case []*VNode:
			for _, child := range v {
				if child != nil {
					children = append(children, child)
				}
			}

		case string:
			// Shorthand for text node
			children = append(children, Text(v))
		}
	}

	return NewVNode(tag, namespace, key, props, children...)
}

// Document structure elements

func Html(args ...any) *VNode { return H("html", args...) }
func Head(args ...any) *VNode { return H("head", args...) }
func Body(args ...any) *VNode { return H("body", args...) }

// Content sectioning elements

func Header(args ...any) *VNode  { return H("header", args...) }
func Footer(args ...any) *VNode  { return H("footer", args...) }
func Main(args ...any) *VNode    { return H("main", args...) }
func Nav(args ...any) *VNode     { return H("nav", args...) }
func Section(args ...any) *VNode { return H("section", args...) }
func Article(args ...any) *VNode { return H("article", args...) }
func Aside(args ...any) *VNode   { return H("aside", args...) }
func H1(args ...any) *VNode      { return H("h1", args...) }
func H2(args ...any) *VNode      { return H("h2", args...) }
func H3(args ...any) *VNode      { return H("h3", args...) }

// Text content elements

func Div(args ...any) *VNode  { return H("div", args...) }
func P(args ...any) *VNode    { return H("p", args...) }
func Span(args ...any) *VNode { return H("span", args...) }
func Pre(args ...any) *VNode  { return H("pre", args...) }
func Ul(args ...any) *VNode   { return H("ul", args...) }
func Ol(args ...any) *VNode   { return H("ol", args...) }
func Li(args ...any) *VNode   { return H("li", args...) }
func Hr(args ...any) *VNode   { return H("hr", args...) }

// Inline text semantics

func A(args ...any) *VNode      { return H("a", args...) }
func Strong(args ...any) *VNode { return H("strong", args...) }
func Em(args ...any) *VNode     { return H("em", args...) }
func Code(args ...any) *VNode   { return H("code", args...) }
func Br(args ...any) *VNode     { return H("br", args...) }

// Forms

func Form(args ...any) *VNode     { return H("form", args...) }
func Input(args ...any) *VNode    { return H("input", args...) }
func Label(args ...any) *VNode    { return H("label", args...) }
func Button(args ...any) *VNode   { return H("button", args...) }
func Select(args ...any) *VNode   { return H("select", args...) }
func Option(args ...any) *VNode   { return H("option", args...) }
func Textarea(args ...any) *VNode { return H("textarea", args...) }

// Tables

func Table(args ...any) *VNode { return H("table", args...) }
func Thead(args ...any) *VNode { return H("thead", args...) }
func Tbody(args ...any) *VNode { return H("tbody", args...) }
func Tr(args ...any) *VNode    { return H("tr", args...) }
func Th(args ...any) *VNode    { return H("th", args...) }
func Td(args ...any) *VNode    { return H("td", args...) }

// Embedded content

func Img(args ...any) *VNode { return H("img", args...) }

// SVG

func Svg(args ...any) *VNode    { return HNS(SVGNamespace, "svg", args...) }
func Path(args ...any) *VNode   { return HNS(SVGNamespace, "path", args...) }
func Circle(args ...any) *VNode { return HNS(SVGNamespace, "circle", args...) }
func G(args ...any) *VNode      { return HNS(SVGNamespace, "g", args...) }

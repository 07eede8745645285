// Package memdom is an in-memory native tree implementing native.Driver.
//
// It backs the CLI, the inspector and the engine's tests. Nodes keep
// properties, attributes and style entries in plain maps so a patched tree
// can be compared structurally against a freshly created one.
package memdom

import (
	"fmt"
	"sort"

	"github.com/vango-dev/vpatch/pkg/native"
)

// NodeType distinguishes element and text nodes.
type NodeType uint8

const (
	ElementNode NodeType = 1
	TextNode    NodeType = 3
)

// Node is a live in-memory node.
type Node struct {
	Type      NodeType
	Tag       string
	Namespace string
	Data      string // Character data for text nodes

	Props map[string]any
	Attrs map[string]string
	Style map[string]string

	parent   *Node
	children []*Node
}

// Parent returns the parent node, or nil when detached.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the node's children. The slice must not be modified.
func (n *Node) Children() []*Node {
	return n.children
}

// Child returns the i-th child or nil.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// String returns a short description for test failures.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	if n.Type == TextNode {
		return fmt.Sprintf("#text(%q)", n.Data)
	}
	return fmt.Sprintf("<%s> (%d children)", n.Tag, len(n.children))
}

// Stats counts driver calls. Tests use it to prove nodes were moved rather
// than recreated.
type Stats struct {
	Created  int
	Appended int
	Inserted int
	Removed  int
	Replaced int
}

// Document creates and mutates memdom nodes.
type Document struct {
	Stats Stats
}

// New creates an empty Document.
func New() *Document {
	return &Document{}
}

var _ native.Driver = (*Document)(nil)

// node converts a handle back to *Node. Foreign handles panic, the same
// way a DOM rejects nodes from another document.
func node(n native.Node) *Node {
	if n == nil {
		return nil
	}
	mn, ok := n.(*Node)
	if !ok {
		panic(fmt.Sprintf("memdom: foreign node %T", n))
	}
	return mn
}

// CreateElement implements native.Driver.
func (d *Document) CreateElement(tag, namespace string) native.Node {
	d.Stats.Created++
	return &Node{Type: ElementNode, Tag: tag, Namespace: namespace}
}

// CreateTextNode implements native.Driver.
func (d *Document) CreateTextNode(text string) native.Node {
	d.Stats.Created++
	return &Node{Type: TextNode, Data: text}
}

// SetProperty implements native.Driver.
func (d *Document) SetProperty(n native.Node, name string, value any) {
	mn := node(n)
	if mn.Props == nil {
		mn.Props = make(map[string]any)
	}
	mn.Props[name] = value
}

// RemoveProperty implements native.Driver.
func (d *Document) RemoveProperty(n native.Node, name string) {
	delete(node(n).Props, name)
}

// SetAttribute implements native.Driver.
func (d *Document) SetAttribute(n native.Node, name, value string) {
	mn := node(n)
	if mn.Attrs == nil {
		mn.Attrs = make(map[string]string)
	}
	mn.Attrs[name] = value
}

// RemoveAttribute implements native.Driver.
func (d *Document) RemoveAttribute(n native.Node, name string) {
	delete(node(n).Attrs, name)
}

// SetStyle implements native.Driver.
func (d *Document) SetStyle(n native.Node, name, value string) {
	mn := node(n)
	if mn.Style == nil {
		mn.Style = make(map[string]string)
	}
	mn.Style[name] = value
}

// RemoveStyle implements native.Driver.
func (d *Document) RemoveStyle(n native.Node, name string) {
	delete(node(n).Style, name)
}

// AppendChild implements native.Driver.
func (d *Document) AppendChild(parent, child native.Node) {
	d.Stats.Appended++
	p, c := node(parent), node(child)
	c.detach()
	c.parent = p
	p.children = append(p.children, c)
}

// InsertBefore implements native.Driver.
func (d *Document) InsertBefore(parent, child, ref native.Node) {
	p, c := node(parent), node(child)
	r := node(ref)
	if r == nil || r.parent != p {
		d.AppendChild(parent, child)
		return
	}
	d.Stats.Inserted++
	c.detach()
	i := p.indexOf(r)
	p.children = append(p.children, nil)
	copy(p.children[i+1:], p.children[i:])
	p.children[i] = c
	c.parent = p
}

// RemoveChild implements native.Driver.
func (d *Document) RemoveChild(parent, child native.Node) {
	p, c := node(parent), node(child)
	if c.parent != p {
		return
	}
	d.Stats.Removed++
	c.detach()
}

// ReplaceChild implements native.Driver.
func (d *Document) ReplaceChild(parent, oldChild, newChild native.Node) {
	p, o, n := node(parent), node(oldChild), node(newChild)
	if o.parent != p || o == n {
		return
	}
	d.Stats.Replaced++
	n.detach()
	i := p.indexOf(o)
	p.children[i] = n
	n.parent = p
	o.parent = nil
}

// ParentOf implements native.Driver.
func (d *Document) ParentOf(n native.Node) native.Node {
	if p := node(n).parent; p != nil {
		return p
	}
	return nil
}

// ChildNodes implements native.Driver.
func (d *Document) ChildNodes(n native.Node) []native.Node {
	mn := node(n)
	out := make([]native.Node, len(mn.children))
	for i, c := range mn.children {
		out[i] = c
	}
	return out
}

// IsText implements native.Driver.
func (d *Document) IsText(n native.Node) bool {
	return node(n).Type == TextNode
}

// SetText implements native.Driver.
func (d *Document) SetText(n native.Node, text string) {
	node(n).Data = text
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

func (n *Node) detach() {
	p := n.parent
	if p == nil {
		return
	}
	if i := p.indexOf(n); i >= 0 {
		p.children = append(p.children[:i], p.children[i+1:]...)
	}
	n.parent = nil
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package vdom

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement Kind = iota + 1 // <div>, <button>, etc.
	KindText                    // Plain text leaf
	KindWidget                  // Opaque user-managed subtree
	KindThunk                   // Deferred subtree
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindWidget:
		return "Widget"
	case KindThunk:
		return "Thunk"
	default:
		return "Unknown"
	}
}

// Node is any virtual tree node. The set of implementations is closed.
type Node interface {
	Kind() Kind
	Key() string
	node()
}

// VNode is a virtual element.
type VNode struct {
	tag       string
	namespace string
	key       string
	props     Props
	children  []Node

	count           int
	hasWidgets      bool
	hasThunks       bool
	hooks           map[string]Unhooker
	descendantHooks bool
}

// NewVNode creates an element and computes its subtree metadata.
// Nil children are dropped.
func NewVNode(tag, namespace, key string, props Props, children ...Node) *VNode {
	v := &VNode{
		tag:       tag,
		namespace: namespace,
		key:       key,
		props:     props,
	}
	if v.props == nil {
		v.props = Props{}
	}
	v.children = make([]Node, 0, len(children))
	for _, c := range children {
		if !isNil(c) {
			v.children = append(v.children, c)
		}
	}
	v.seal()
	return v
}

// seal computes count, flags and hooks from props and children.
func (v *VNode) seal() {
	v.count = 0
	v.hasWidgets, v.hasThunks, v.descendantHooks = false, false, false
	v.hooks = nil

	for name, value := range v.props {
		if u, ok := value.(Unhooker); ok {
			if v.hooks == nil {
				v.hooks = make(map[string]Unhooker)
			}
			v.hooks[name] = u
		}
	}

	v.count = len(v.children)
	for _, child := range v.children {
		switch c := child.(type) {
		case *VNode:
			v.count += c.count
			if c.hasWidgets {
				v.hasWidgets = true
			}
			if c.hasThunks {
				v.hasThunks = true
			}
			if c.hooks != nil || c.descendantHooks {
				v.descendantHooks = true
			}
		case *WidgetNode:
			if _, ok := c.widget.(Destroyer); ok {
				v.hasWidgets = true
			}
		case *Thunk:
			v.hasThunks = true
		}
	}
}

func (v *VNode) Kind() Kind  { return KindElement }
func (v *VNode) Key() string { return v.key }
func (v *VNode) node()       {}

// Tag returns the element tag name.
func (v *VNode) Tag() string { return v.tag }

// Namespace returns the element namespace, empty for the default one.
func (v *VNode) Namespace() string { return v.namespace }

// Props returns the element's property bag. Callers must not modify it.
func (v *VNode) Props() Props { return v.props }

// Children returns the element's children. Callers must not modify it.
func (v *VNode) Children() []Node { return v.children }

// Count returns the number of descendants in the subtree, excluding the
// node itself. Widget, text and thunk children count as one each.
func (v *VNode) Count() int { return v.count }

// HasWidgets reports whether the subtree holds a widget with teardown.
func (v *VNode) HasWidgets() bool { return v.hasWidgets }

// HasThunks reports whether the subtree holds a thunk.
func (v *VNode) HasThunks() bool { return v.hasThunks }

// Hooks returns the top-level properties whose value can be unhooked.
func (v *VNode) Hooks() map[string]Unhooker { return v.hooks }

// DescendantHooks reports whether any descendant element carries hooks.
func (v *VNode) DescendantHooks() bool { return v.descendantHooks }

// VText is a virtual text leaf.
type VText struct {
	text string
}

// Text creates a text node.
func Text(content string) *VText {
	return &VText{text: content}
}

func (t *VText) Kind() Kind  { return KindText }
func (t *VText) Key() string { return "" }
func (t *VText) node()       {}

// Text returns the text content.
func (t *VText) Text() string { return t.text }

// KeyOf returns the key of n, or "" for nil and unkeyed nodes.
func KeyOf(n Node) string {
	if isNil(n) {
		return ""
	}
	return n.Key()
}

// CountOf returns the descendant count of n. Only elements have descendants.
func CountOf(n Node) int {
	if v, ok := n.(*VNode); ok && v != nil {
		return v.count
	}
	return 0
}

// isNil reports whether n is nil or a typed nil pointer.
func isNil(n Node) bool {
	switch v := n.(type) {
	case nil:
		return true
	case *VNode:
		return v == nil
	case *VText:
		return v == nil
	case *WidgetNode:
		return v == nil
	case *Thunk:
		return v == nil
	}
	return false
}

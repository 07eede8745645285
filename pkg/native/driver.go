package native

// Node is an opaque handle to a live node. Handles must be comparable with
// == (pointer-like); the engine uses them as identity.
type Node any

// Driver is the capability set the engine requires from a native tree.
// All methods are called from a single goroutine during a patch cycle.
type Driver interface {
	// CreateElement creates a detached element. namespace is empty for
	// the default namespace.
	CreateElement(tag, namespace string) Node

	// CreateTextNode creates a detached text node.
	CreateTextNode(text string) Node

	// SetProperty sets a direct native property.
	SetProperty(n Node, name string, value any)

	// RemoveProperty resets a direct native property.
	RemoveProperty(n Node, name string)

	// SetAttribute sets a namespaced attribute.
	SetAttribute(n Node, name, value string)

	// RemoveAttribute removes an attribute.
	RemoveAttribute(n Node, name string)

	// SetStyle sets one entry of the node's style bag.
	SetStyle(n Node, name, value string)

	// RemoveStyle clears one entry of the node's style bag.
	RemoveStyle(n Node, name string)

	// AppendChild appends child as the last child of parent.
	AppendChild(parent, child Node)

	// InsertBefore inserts child before ref. A nil ref appends.
	InsertBefore(parent, child, ref Node)

	// RemoveChild detaches child from parent.
	RemoveChild(parent, child Node)

	// ReplaceChild puts newChild where oldChild was.
	ReplaceChild(parent, oldChild, newChild Node)

	// ParentOf returns the parent of n, or nil when n is detached.
	ParentOf(n Node) Node

	// ChildNodes returns the current children of n in order.
	ChildNodes(n Node) []Node

	// IsText reports whether n is a text node.
	IsText(n Node) bool

	// SetText replaces the character data of a text node.
	SetText(n Node, text string)
}

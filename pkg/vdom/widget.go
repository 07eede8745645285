package vdom

import (
	"reflect"

	"github.com/vango-dev/vpatch/pkg/native"
)

// Widget is an opaque subtree whose native nodes are built and maintained by
// user code instead of the differ.
type Widget interface {
	// Init builds the widget's native node.
	Init(d native.Driver) native.Node

	// Update refreshes node, which was built by the compatible widget prev.
	// Returning nil or node keeps the node in place; returning another node
	// replaces it.
	Update(prev Widget, node native.Node) native.Node
}

// Destroyer is implemented by widgets that need teardown when removed.
type Destroyer interface {
	Destroy(node native.Node)
}

// Identifier is implemented by widgets that carry a stable identity. Two
// identified widgets of the same type are compatible only when their IDs
// match.
type Identifier interface {
	WidgetID() string
}

// WidgetNode places a Widget in the virtual tree.
type WidgetNode struct {
	widget Widget
	key    string
}

// NewWidget wraps w as a tree node.
func NewWidget(w Widget) *WidgetNode {
	return &WidgetNode{widget: w}
}

// KeyedWidget wraps w as a keyed tree node.
func KeyedWidget(key string, w Widget) *WidgetNode {
	return &WidgetNode{widget: w, key: key}
}

func (w *WidgetNode) Kind() Kind  { return KindWidget }
func (w *WidgetNode) Key() string { return w.key }
func (w *WidgetNode) node()       {}

// Widget returns the wrapped widget.
func (w *WidgetNode) Widget() Widget { return w.widget }

// Compatible reports whether the widget in b may update the native node
// built by the widget in a instead of replacing it. Both must be widgets of
// the same concrete type; when both carry an identity, the identities must
// also match.
func Compatible(a, b Node) bool {
	wa, ok := a.(*WidgetNode)
	if !ok || wa == nil {
		return false
	}
	wb, ok := b.(*WidgetNode)
	if !ok || wb == nil {
		return false
	}
	if reflect.TypeOf(wa.widget) != reflect.TypeOf(wb.widget) {
		return false
	}
	ia, aok := wa.widget.(Identifier)
	ib, bok := wb.widget.(Identifier)
	if aok && bok {
		return ia.WidgetID() == ib.WidgetID()
	}
	return true
}

package vdom

import (
	"errors"
	"fmt"
)

// ErrInvalidThunk is returned when a thunk renders nil or another thunk.
var ErrInvalidThunk = errors.New("thunk did not return a valid node")

// RenderFunc produces a thunk's subtree. previous is the thunk that occupied
// the same slot in the previous tree, or nil.
type RenderFunc func(previous Node) Node

// Thunk is a deferred subtree. It is resolved at most once; the result is
// memoized on the thunk.
type Thunk struct {
	key    string
	render RenderFunc

	// memo identity, set by Memo
	name string
	deps []any

	resolved bool
	vnode    Node
}

// NewThunk creates an unkeyed thunk.
func NewThunk(render RenderFunc) *Thunk {
	return &Thunk{render: render}
}

// KeyedThunk creates a keyed thunk.
func KeyedThunk(key string, render RenderFunc) *Thunk {
	return &Thunk{key: key, render: render}
}

// Memo creates a thunk that reuses the previous thunk's subtree when the
// previous thunk has the same name and equal deps. Reusing the subtree makes
// the differ skip it entirely.
func Memo(name string, render func() Node, deps ...any) *Thunk {
	t := &Thunk{name: name, deps: deps}
	t.render = func(previous Node) Node {
		if p, ok := previous.(*Thunk); ok && p.resolved && p.name == name && depsEqual(p.deps, deps) {
			return p.vnode
		}
		return render()
	}
	return t
}

// WithKey sets the thunk's key and returns it.
func (t *Thunk) WithKey(key string) *Thunk {
	t.key = key
	return t
}

func (t *Thunk) Kind() Kind  { return KindThunk }
func (t *Thunk) Key() string { return t.key }
func (t *Thunk) node()       {}

// Name returns the memo name, empty for plain thunks.
func (t *Thunk) Name() string { return t.name }

// Resolved reports whether the thunk has been rendered.
func (t *Thunk) Resolved() bool { return t.resolved }

// Rendered returns the memoized subtree, or nil before the first Resolve.
func (t *Thunk) Rendered() Node { return t.vnode }

// Resolve renders the thunk, or returns the memoized result. The result is
// always an element, text or widget node.
func (t *Thunk) Resolve(previous Node) (Node, error) {
	if t.resolved {
		return t.vnode, nil
	}
	if t.render == nil {
		return nil, fmt.Errorf("%w: no render function", ErrInvalidThunk)
	}
	n := t.render(previous)
	if isNil(n) {
		return nil, fmt.Errorf("%w: rendered nil", ErrInvalidThunk)
	}
	switch n.Kind() {
	case KindElement, KindText, KindWidget:
	default:
		return nil, fmt.Errorf("%w: rendered %s", ErrInvalidThunk, n.Kind())
	}
	t.vnode = n
	t.resolved = true
	return n, nil
}

// Resolve returns n itself, or the rendered subtree when n is a thunk.
func Resolve(n Node) (Node, error) {
	if t, ok := n.(*Thunk); ok {
		return t.Resolve(nil)
	}
	return n, nil
}

func depsEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !sameValue(a[i], b[i]) {
			return false
		}
	}
	return true
}

package vdom

import (
	"github.com/vango-dev/vpatch/pkg/native"
)

// recordHook logs Hook and Unhook calls.
type recordHook struct {
	name  string
	calls *[]string
}

func (h *recordHook) Hook(node native.Node, name string, previous any) {
	*h.calls = append(*h.calls, "hook:"+h.name)
}

func (h *recordHook) Unhook(node native.Node, name string, next any) {
	*h.calls = append(*h.calls, "unhook:"+h.name)
}

// setOnlyHook has no teardown.
type setOnlyHook struct{}

func (setOnlyHook) Hook(node native.Node, name string, previous any) {}

// boxWidget is a destroyable, identified widget.
type boxWidget struct {
	id        string
	destroyed *int
}

func (w *boxWidget) Init(d native.Driver) native.Node {
	return d.CreateElement("canvas", "")
}

func (w *boxWidget) Update(prev Widget, node native.Node) native.Node {
	return node
}

func (w *boxWidget) Destroy(node native.Node) {
	if w.destroyed != nil {
		*w.destroyed++
	}
}

func (w *boxWidget) WidgetID() string { return w.id }

// plainWidget has no teardown and no identity.
type plainWidget struct{}

func (plainWidget) Init(d native.Driver) native.Node { return d.CreateTextNode("plain") }

func (plainWidget) Update(prev Widget, node native.Node) native.Node { return nil }

func ops(list []Patch) []PatchOp {
	out := make([]PatchOp, len(list))
	for i, p := range list {
		out[i] = p.Op
	}
	return out
}

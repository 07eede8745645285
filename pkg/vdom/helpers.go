package vdom

import "fmt"

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VText {
	return Text(fmt.Sprintf(format, args...))
}

// If returns the node if condition is true, otherwise nil.
func If(condition bool, node Node) Node {
	if condition {
		return node
	}
	return nil
}

// IfElse returns the first node if condition is true, otherwise the second.
func IfElse(condition bool, ifTrue, ifFalse Node) Node {
	if condition {
		return ifTrue
	}
	return ifFalse
}

// When is like If but takes a function for lazy evaluation.
func When(condition bool, fn func() Node) Node {
	if condition {
		return fn()
	}
	return nil
}

// Range maps a slice to nodes. Nil results are dropped.
func Range[T any](items []T, fn func(item T, index int) Node) []Node {
	result := make([]Node, 0, len(items))
	for i, item := range items {
		if node := fn(item, i); !isNil(node) {
			result = append(result, node)
		}
	}
	return result
}

// Walk visits n and its descendants in pre-order, calling fn with each
// node's position. Thunks are visited but not resolved.
func Walk(n Node, fn func(pos int, n Node)) {
	walkNodes(n, 0, fn)
}

func walkNodes(n Node, pos int, fn func(pos int, n Node)) {
	if isNil(n) {
		return
	}
	fn(pos, n)
	v, ok := n.(*VNode)
	if !ok {
		return
	}
	for _, child := range v.children {
		pos++
		walkNodes(child, pos, fn)
		pos += CountOf(child)
	}
}

// Package vdom provides the virtual tree model and the differ for vpatch.
//
// A virtual tree is an immutable description of a native tree. Rendering
// produces a new virtual tree on every cycle; Diff compares the previous and
// next trees and returns a PatchSet that pkg/dom applies to the live native
// tree built from the previous one.
//
// # Core Types
//
// Node is a closed set of four variants:
//
//   - *VNode: an element with a tag, optional namespace and key, a Props
//     bag and an ordered child list.
//   - *VText: a text leaf.
//   - *WidgetNode: an opaque, user-managed subtree behind the Widget
//     interface.
//   - *Thunk: a deferred subtree, resolved lazily and memoized.
//
// VNode constructors compute subtree metadata (descendant count, widget,
// thunk and hook flags) once, so the differ and the indexer can prune
// without walking whole subtrees.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Ul(Class("list"),
//	    Li(Key("a"), "first"),
//	    Li(Key("b"), "second"),
//	)
//
// # Diffing
//
// Patches are keyed by pre-order position in the previous tree. Position 0
// is the root; each VNode advances the counter by one plus its descendant
// count. Keyed children are matched by key and moved with a single ORDER
// patch instead of being recreated.
package vdom

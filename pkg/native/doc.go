// Package native defines the narrow contract vpatch needs from a live,
// mutable tree such as a browser DOM.
//
// A Driver creates nodes, sets and removes properties, attributes and
// style entries, and moves nodes between parents. Node is an opaque handle
// owned by the driver; the engine only stores, compares and hands it back.
//
// PropertyPolicy decides how a virtual property name is routed: into the
// attribute namespace, into the style bag, or onto the node directly.
package native

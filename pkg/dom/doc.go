// Package dom builds and patches native trees through a native.Driver.
//
// Create renders a virtual tree into fresh native nodes. Index maps the
// positions of a patch set onto the live tree built from the patch set's
// previous tree, and Apply executes the patches position by position,
// returning the (possibly replaced) live root.
//
//	d := memdom.New()
//	root, _ := dom.Create(d, prev)
//	ps, _ := vdom.Diff(prev, next)
//	root, _ = dom.Apply(d, root, ps)
//
// Property values are routed by a native.PropertyPolicy: the attributes bag
// becomes SetAttribute/RemoveAttribute calls, the style bag becomes
// SetStyle/RemoveStyle calls, and everything else is assigned as a property.
package dom

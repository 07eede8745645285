package dom

import (
	"fmt"
	"strconv"

	"github.com/vango-dev/vpatch/pkg/native"
	"github.com/vango-dev/vpatch/pkg/vdom"
)

// applyProperties applies a property bag or PROPS delta to node. previous is
// the target's full property bag before the change, nil on creation.
func (p *patcher) applyProperties(node native.Node, props, previous vdom.Props) {
	for _, name := range props.Keys() {
		value := props[name]

		switch vdom.Classify(value) {
		case vdom.ValueUnset:
			p.removeProperty(node, name, nil, previous)

		case vdom.ValueHook:
			p.removeProperty(node, name, value, previous)
			if h, ok := value.(vdom.Hook); ok {
				h.Hook(node, name, previous[name])
			}

		case vdom.ValueNested:
			if vdom.IsHook(previous[name]) {
				p.removeProperty(node, name, value, previous)
			}
			p.patchObject(node, name, value.(vdom.Props), previous)

		default:
			// A hook replaced by a plain value still gets unhooked.
			if vdom.IsHook(previous[name]) {
				p.removeProperty(node, name, value, previous)
			}
			p.d.SetProperty(node, name, value)
		}
	}
}

// removeProperty undoes whatever the previous value of name did. next is the
// value taking its place, passed to Unhook.
func (p *patcher) removeProperty(node native.Node, name string, next any, previous vdom.Props) {
	if previous == nil {
		return
	}
	prev := previous[name]

	if vdom.IsHook(prev) {
		if u, ok := prev.(vdom.Unhooker); ok {
			u.Unhook(node, name, next)
		}
		return
	}

	switch p.policy.Route(name) {
	case native.RouteAttributes:
		if bag, ok := prev.(vdom.Props); ok {
			for _, attr := range bag.Keys() {
				p.d.RemoveAttribute(node, attr)
			}
			return
		}
	case native.RouteStyle:
		if bag, ok := prev.(vdom.Props); ok {
			for _, decl := range bag.Keys() {
				p.d.RemoveStyle(node, decl)
			}
			return
		}
	}
	p.d.RemoveProperty(node, name)
}

// patchObject applies a nested bag. Attribute and style bags map to their
// own driver calls entry by entry. Any other nested bag is merged into the
// previous bag and assigned whole.
func (p *patcher) patchObject(node native.Node, name string, bag vdom.Props, previous vdom.Props) {
	switch p.policy.Route(name) {
	case native.RouteAttributes:
		for _, attr := range bag.Keys() {
			if v := bag[attr]; vdom.IsUnset(v) {
				p.d.RemoveAttribute(node, attr)
			} else {
				p.d.SetAttribute(node, attr, Stringify(v))
			}
		}
		return

	case native.RouteStyle:
		for _, decl := range bag.Keys() {
			if v := bag[decl]; vdom.IsUnset(v) {
				p.d.RemoveStyle(node, decl)
			} else {
				p.d.SetStyle(node, decl, Stringify(v))
			}
		}
		return
	}

	merged := make(vdom.Props)
	if prev, ok := previous[name].(vdom.Props); ok {
		for k, v := range prev {
			merged[k] = v
		}
	}
	for k, v := range bag {
		if vdom.IsUnset(v) {
			delete(merged, k)
			continue
		}
		merged[k] = v
	}
	p.d.SetProperty(node, name, merged)
}

// Stringify converts an attribute or style value to its string form.
// Booleans render as "true"/"false"; nil renders as "".
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

package vdom

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/vango-dev/vpatch/pkg/native"
)

// Props holds an element's properties. A value is a scalar, a nested Props
// bag, a Hook, or Unset inside a patch payload.
type Props map[string]any

// UnsetValue is the type of Unset.
type UnsetValue struct{}

// Unset marks a property removal inside a PROPS patch payload.
var Unset = UnsetValue{}

// IsUnset reports whether v is the removal marker.
func IsUnset(v any) bool {
	_, ok := v.(UnsetValue)
	return ok
}

// Hook is a property value that runs custom logic against the live node
// instead of being assigned. previous is the value the property held before,
// or nil when the node is new.
type Hook interface {
	Hook(node native.Node, name string, previous any)
}

// Unhooker is implemented by hooks that need to undo their effect when the
// property is removed, replaced, or the owning element is torn down. next is
// the replacement value, or nil.
type Unhooker interface {
	Unhook(node native.Node, name string, next any)
}

// IsHook reports whether v is a hook value.
func IsHook(v any) bool {
	switch v.(type) {
	case Hook, Unhooker:
		return true
	}
	return false
}

// ValueKind classifies property values.
type ValueKind uint8

const (
	ValueScalar ValueKind = iota
	ValueNested
	ValueHook
	ValueUnset
)

// String returns the string representation of the ValueKind.
func (k ValueKind) String() string {
	switch k {
	case ValueScalar:
		return "scalar"
	case ValueNested:
		return "nested"
	case ValueHook:
		return "hook"
	case ValueUnset:
		return "unset"
	default:
		return "unknown"
	}
}

// Classify returns the kind of a property value.
func Classify(v any) ValueKind {
	switch {
	case IsUnset(v):
		return ValueUnset
	case IsHook(v):
		return ValueHook
	}
	if _, ok := v.(Props); ok {
		return ValueNested
	}
	return ValueScalar
}

// Clone returns a deep copy of the bag. Nested bags are copied, other values
// are shared.
func (p Props) Clone() Props {
	if p == nil {
		return nil
	}
	out := make(Props, len(p))
	for k, v := range p {
		if nested, ok := v.(Props); ok {
			out[k] = nested.Clone()
			continue
		}
		out[k] = v
	}
	return out
}

// Keys returns the bag's keys in sorted order.
func (p Props) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String renders the bag deterministically, for logs and test output.
func (p Props) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range p.Keys() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(k)
		sb.WriteByte(':')
		switch v := p[k].(type) {
		case UnsetValue:
			sb.WriteString("<unset>")
		case Props:
			sb.WriteString(v.String())
		case string:
			sb.WriteString(strconv.Quote(v))
		default:
			if IsHook(v) {
				fmt.Fprintf(&sb, "<hook %T>", v)
			} else {
				fmt.Fprintf(&sb, "%v", v)
			}
		}
	}
	sb.WriteByte('}')
	return sb.String()
}

// sameValue reports whether two property values are identical for diffing.
// Comparable values compare with ==; nested bags compare by reference so the
// caller recurses; anything else falls back to reflect.DeepEqual.
func sameValue(a, b any) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case Props:
		bv, ok := b.(Props)
		return ok && reflect.ValueOf(av).UnsafePointer() == reflect.ValueOf(bv).UnsafePointer()
	}

	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	switch ta.Kind() {
	case reflect.Func:
		return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
	case reflect.Slice, reflect.Map:
		return reflect.DeepEqual(a, b)
	}
	if ta.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

package memdom

import (
	"fmt"
	"reflect"
)

// Equal reports whether two live trees have the same shape: tags,
// namespaces, text, properties, attributes, style and children.
func Equal(a, b *Node) bool {
	return Mismatch(a, b) == ""
}

// Mismatch returns a description of the first difference between a and b,
// or "" when they are equal.
func Mismatch(a, b *Node) string {
	return mismatch(a, b, "root")
}

func mismatch(a, b *Node, path string) string {
	switch {
	case a == nil && b == nil:
		return ""
	case a == nil || b == nil:
		return fmt.Sprintf("%s: %v vs %v", path, a, b)
	case a.Type != b.Type:
		return fmt.Sprintf("%s: type %d vs %d", path, a.Type, b.Type)
	case a.Type == TextNode:
		if a.Data != b.Data {
			return fmt.Sprintf("%s: text %q vs %q", path, a.Data, b.Data)
		}
		return ""
	case a.Tag != b.Tag || a.Namespace != b.Namespace:
		return fmt.Sprintf("%s: tag %s:%s vs %s:%s", path, a.Namespace, a.Tag, b.Namespace, b.Tag)
	}

	if !sameMap(a.Props, b.Props) {
		return fmt.Sprintf("%s: props %v vs %v", path, a.Props, b.Props)
	}
	if !sameMap(a.Attrs, b.Attrs) {
		return fmt.Sprintf("%s: attrs %v vs %v", path, a.Attrs, b.Attrs)
	}
	if !sameMap(a.Style, b.Style) {
		return fmt.Sprintf("%s: style %v vs %v", path, a.Style, b.Style)
	}
	if len(a.children) != len(b.children) {
		return fmt.Sprintf("%s: %d children vs %d", path, len(a.children), len(b.children))
	}
	for i := range a.children {
		if m := mismatch(a.children[i], b.children[i], fmt.Sprintf("%s/%d", path, i)); m != "" {
			return m
		}
	}
	return ""
}

// sameMap treats nil and empty maps as equal.
func sameMap[V any](a, b map[string]V) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}

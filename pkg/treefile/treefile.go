package treefile

import (
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/goccy/go-yaml"

	vperrors "github.com/vango-dev/vpatch/internal/errors"
	"github.com/vango-dev/vpatch/pkg/vdom"
)

// MaxDepth bounds element nesting in a document.
const MaxDepth = 256

var elementFields = map[string]bool{
	"tag": true, "ns": true, "key": true, "attrs": true,
	"props": true, "style": true, "children": true,
}

// Load reads and parses the document at path.
func Load(path string) (vdom.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, vperrors.New("E150").WithDetailf("reading %s", path).Wrap(err)
	}
	n, err := Parse(data)
	if err != nil {
		if e, ok := err.(*vperrors.Error); ok && e.Detail != "" {
			e.Detail = path + ": " + e.Detail
		}
		return nil, err
	}
	return n, nil
}

// Parse decodes a YAML or JSON document into a virtual tree.
func Parse(data []byte) (vdom.Node, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, vperrors.New("E150").
			WithDetail(yaml.FormatError(err, false, true)).
			Wrap(err)
	}
	if doc == nil {
		return nil, invalid("$", "document is empty")
	}
	return parseNode(doc, "$", "", 0)
}

func parseNode(v any, path, ns string, depth int) (vdom.Node, error) {
	if depth > MaxDepth {
		return nil, invalid(path, "nesting deeper than %d", MaxDepth)
	}

	switch v := v.(type) {
	case string:
		return vdom.Text(v), nil
	case map[string]any:
		switch {
		case v["widget"] != nil:
			return parseWidget(v, path)
		case v["text"] != nil:
			if len(v) != 1 {
				return nil, invalid(path, "text nodes take no other fields")
			}
			s, ok := v["text"].(string)
			if !ok {
				return nil, invalid(path+".text", "want a string, got %s", typeName(v["text"]))
			}
			return vdom.Text(s), nil
		default:
			return parseElement(v, path, ns, depth)
		}
	default:
		return nil, invalid(path, "want a string or a mapping, got %s", typeName(v))
	}
}

func parseElement(m map[string]any, path, ns string, depth int) (vdom.Node, error) {
	for _, name := range sortedKeys(m) {
		if !elementFields[name] {
			return nil, invalid(path, "unknown field %q", name)
		}
	}

	tag, err := stringField(m, "tag", path)
	if err != nil {
		return nil, err
	}
	if tag == "" {
		return nil, invalid(path, "elements need a tag")
	}
	if _, ok := m["ns"]; ok {
		if ns, err = stringField(m, "ns", path); err != nil {
			return nil, err
		}
		if ns == "svg" {
			ns = vdom.SVGNamespace
		}
	}
	key, err := scalarField(m, "key", path)
	if err != nil {
		return nil, err
	}

	props := make(vdom.Props)
	if v, ok := m["props"]; ok {
		bag, err := parseBag(v, path+".props", 0)
		if err != nil {
			return nil, err
		}
		for k, val := range bag {
			props[k] = val
		}
	}
	for _, section := range []struct{ field, bag string }{
		{"attrs", vdom.AttributesKey},
		{"style", vdom.StyleKey},
	} {
		v, ok := m[section.field]
		if !ok {
			continue
		}
		bag, err := parseFlatBag(v, path+"."+section.field)
		if err != nil {
			return nil, err
		}
		if len(bag) > 0 {
			props[section.bag] = bag
		}
	}

	var children []vdom.Node
	if v, ok := m["children"]; ok && v != nil {
		list, ok := v.([]any)
		if !ok {
			return nil, invalid(path+".children", "want a list, got %s", typeName(v))
		}
		children = make([]vdom.Node, 0, len(list))
		for i, c := range list {
			child, err := parseNode(c, fmt.Sprintf("%s.children[%d]", path, i), ns, depth+1)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
	}

	return vdom.NewVNode(tag, ns, key, props, children...), nil
}

func parseWidget(m map[string]any, path string) (vdom.Node, error) {
	for _, name := range sortedKeys(m) {
		if name != "widget" && name != "tag" && name != "key" {
			return nil, invalid(path, "unknown widget field %q", name)
		}
	}
	id, err := scalarField(m, "widget", path)
	if err != nil {
		return nil, err
	}
	tag, err := stringField(m, "tag", path)
	if err != nil {
		return nil, err
	}
	key, err := scalarField(m, "key", path)
	if err != nil {
		return nil, err
	}
	return vdom.KeyedWidget(key, &Placeholder{ID: id, Tag: tag}), nil
}

// parseBag converts a props mapping. Nested mappings become nested bags and
// null entries are dropped.
func parseBag(v any, path string, depth int) (vdom.Props, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, invalid(path, "want a mapping, got %s", typeName(v))
	}
	if depth > MaxDepth {
		return nil, invalid(path, "nesting deeper than %d", MaxDepth)
	}
	bag := make(vdom.Props, len(m))
	for name, val := range m {
		switch val := val.(type) {
		case nil:
			continue
		case map[string]any:
			nested, err := parseBag(val, path+"."+name, depth+1)
			if err != nil {
				return nil, err
			}
			bag[name] = nested
		default:
			s, ok := scalar(val)
			if !ok {
				return nil, invalid(path+"."+name, "unsupported value of type %s", typeName(val))
			}
			bag[name] = s
		}
	}
	return bag, nil
}

// parseFlatBag converts attrs and style mappings, which only hold scalars.
func parseFlatBag(v any, path string) (vdom.Props, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, invalid(path, "want a mapping, got %s", typeName(v))
	}
	bag := make(vdom.Props, len(m))
	for name, val := range m {
		if val == nil {
			continue
		}
		s, ok := scalar(val)
		if !ok {
			return nil, invalid(path+"."+name, "want a scalar, got %s", typeName(val))
		}
		bag[name] = s
	}
	return bag, nil
}

// scalar normalizes decoded YAML scalars. Integers that fit become int.
func scalar(v any) (any, bool) {
	switch v := v.(type) {
	case string, bool, float64:
		return v, true
	case int:
		return v, true
	case int64:
		if v >= math.MinInt && v <= math.MaxInt {
			return int(v), true
		}
		return v, true
	case uint64:
		if v <= math.MaxInt {
			return int(v), true
		}
		return float64(v), true
	case float32:
		return float64(v), true
	default:
		return nil, false
	}
}

func stringField(m map[string]any, name, path string) (string, error) {
	v, ok := m[name]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", invalid(path+"."+name, "want a string, got %s", typeName(v))
	}
	return s, nil
}

// scalarField reads a field that may be written as a number, like keys.
func scalarField(m map[string]any, name, path string) (string, error) {
	v, ok := m[name]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := scalar(v)
	if !ok {
		return "", invalid(path+"."+name, "want a scalar, got %s", typeName(v))
	}
	return fmt.Sprint(s), nil
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "mapping"
	case []any:
		return "list"
	case string:
		return "string"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func invalid(path, format string, args ...any) error {
	return vperrors.New("E150").WithDetailf("%s: %s", path, fmt.Sprintf(format, args...))
}

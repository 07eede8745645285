package protocol

import (
	"fmt"
	"strconv"

	"github.com/vango-dev/vpatch/pkg/vdom"
)

// nilMarker stands in for a missing node.
const nilMarker = 0xFF

// PropKind tags the type of a property value on the wire.
type PropKind uint8

const (
	PropString PropKind = iota + 1
	PropBool
	PropInt
	PropFloat
	PropOther  // any other scalar, stringified
	PropUnset  // removal marker inside a PROPS payload
	PropNested // nested property bag
	PropHook   // hook; Value holds the hook's type name
)

// String returns the string representation of the PropKind.
func (k PropKind) String() string {
	switch k {
	case PropString:
		return "string"
	case PropBool:
		return "bool"
	case PropInt:
		return "int"
	case PropFloat:
		return "float"
	case PropOther:
		return "other"
	case PropUnset:
		return "unset"
	case PropNested:
		return "nested"
	case PropHook:
		return "hook"
	default:
		return fmt.Sprintf("PropKind(%d)", k)
	}
}

// PropWire is one property on the wire. Bags are sorted by name.
type PropWire struct {
	Name   string     `json:"name"`
	Kind   PropKind   `json:"kind"`
	Value  string     `json:"value,omitempty"`
	Nested []PropWire `json:"nested,omitempty"`
}

// NodeWire is the serializable form of a virtual node. Widgets and thunks
// are described, not serialized: Text carries the widget's ID or type name,
// or the thunk's memo name.
type NodeWire struct {
	Kind      vdom.Kind   `json:"kind"`
	Tag       string      `json:"tag,omitempty"`
	Namespace string      `json:"ns,omitempty"`
	Key       string      `json:"key,omitempty"`
	Props     []PropWire  `json:"props,omitempty"`
	Children  []*NodeWire `json:"children,omitempty"`
	Text      string      `json:"text,omitempty"`
}

// PropsToWire converts a property bag to wire form.
func PropsToWire(p vdom.Props) []PropWire {
	if len(p) == 0 {
		return nil
	}
	out := make([]PropWire, 0, len(p))
	for _, name := range p.Keys() {
		out = append(out, propToWire(name, p[name]))
	}
	return out
}

func propToWire(name string, v any) PropWire {
	w := PropWire{Name: name}
	switch val := v.(type) {
	case vdom.UnsetValue:
		w.Kind = PropUnset
	case vdom.Props:
		w.Kind = PropNested
		w.Nested = PropsToWire(val)
	case vdom.Hook, vdom.Unhooker:
		w.Kind = PropHook
		w.Value = fmt.Sprintf("%T", val)
	case string:
		w.Kind = PropString
		w.Value = val
	case bool:
		w.Kind = PropBool
		w.Value = strconv.FormatBool(val)
	case int:
		w.Kind = PropInt
		w.Value = strconv.Itoa(val)
	case int64:
		w.Kind = PropInt
		w.Value = strconv.FormatInt(val, 10)
	case float64:
		w.Kind = PropFloat
		w.Value = strconv.FormatFloat(val, 'g', -1, 64)
	default:
		w.Kind = PropOther
		w.Value = fmt.Sprint(val)
	}
	return w
}

// NodeToWire converts a virtual node to wire form. A resolved thunk carries
// its rendered subtree as its only child.
func NodeToWire(n vdom.Node) *NodeWire {
	switch node := n.(type) {
	case *vdom.VNode:
		if node == nil {
			return nil
		}
		w := &NodeWire{
			Kind:      vdom.KindElement,
			Tag:       node.Tag(),
			Namespace: node.Namespace(),
			Key:       node.Key(),
			Props:     PropsToWire(node.Props()),
		}
		if children := node.Children(); len(children) > 0 {
			w.Children = make([]*NodeWire, 0, len(children))
			for _, c := range children {
				w.Children = append(w.Children, NodeToWire(c))
			}
		}
		return w
	case *vdom.VText:
		if node == nil {
			return nil
		}
		return &NodeWire{Kind: vdom.KindText, Text: node.Text()}
	case *vdom.WidgetNode:
		if node == nil {
			return nil
		}
		return &NodeWire{Kind: vdom.KindWidget, Key: node.Key(), Text: widgetName(node.Widget())}
	case *vdom.Thunk:
		if node == nil {
			return nil
		}
		w := &NodeWire{Kind: vdom.KindThunk, Key: node.Key(), Text: node.Name()}
		if r := node.Rendered(); r != nil {
			w.Children = []*NodeWire{NodeToWire(r)}
		}
		return w
	}
	return nil
}

func widgetName(w vdom.Widget) string {
	if id, ok := w.(vdom.Identifier); ok {
		return id.WidgetID()
	}
	return fmt.Sprintf("%T", w)
}

// EncodeNodeWire writes n, or the nil marker.
func EncodeNodeWire(e *Encoder, n *NodeWire) {
	if n == nil {
		e.WriteByte(nilMarker)
		return
	}
	e.WriteByte(byte(n.Kind))

	switch n.Kind {
	case vdom.KindElement:
		e.WriteString(n.Tag)
		e.WriteString(n.Namespace)
		e.WriteString(n.Key)
		encodeProps(e, n.Props)
		encodeChildren(e, n.Children)
	case vdom.KindText:
		e.WriteString(n.Text)
	case vdom.KindWidget:
		e.WriteString(n.Key)
		e.WriteString(n.Text)
	case vdom.KindThunk:
		e.WriteString(n.Key)
		e.WriteString(n.Text)
		encodeChildren(e, n.Children)
	}
}

func encodeChildren(e *Encoder, children []*NodeWire) {
	e.writeCount(len(children))
	for _, c := range children {
		EncodeNodeWire(e, c)
	}
}

func encodeProps(e *Encoder, props []PropWire) {
	e.writeCount(len(props))
	for i := range props {
		p := &props[i]
		e.WriteString(p.Name)
		e.WriteByte(byte(p.Kind))
		switch p.Kind {
		case PropNested:
			encodeProps(e, p.Nested)
		case PropUnset:
		default:
			e.WriteString(p.Value)
		}
	}
}

// DecodeNodeWire reads a node written by EncodeNodeWire.
func DecodeNodeWire(d *Decoder) (*NodeWire, error) {
	return decodeNode(d, 0)
}

func decodeNode(d *Decoder, depth int) (*NodeWire, error) {
	if err := checkDepth(depth, d.limits.NodeDepth); err != nil {
		return nil, err
	}

	kind, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	if kind == nilMarker {
		return nil, nil
	}

	n := &NodeWire{Kind: vdom.Kind(kind)}
	switch n.Kind {
	case vdom.KindElement:
		if n.Tag, err = d.ReadString(); err != nil {
			return nil, err
		}
		if n.Namespace, err = d.ReadString(); err != nil {
			return nil, err
		}
		if n.Key, err = d.ReadString(); err != nil {
			return nil, err
		}
		if n.Props, err = decodeProps(d, 0); err != nil {
			return nil, err
		}
		if n.Children, err = decodeChildren(d, depth); err != nil {
			return nil, err
		}
	case vdom.KindText:
		if n.Text, err = d.ReadString(); err != nil {
			return nil, err
		}
	case vdom.KindWidget:
		if n.Key, err = d.ReadString(); err != nil {
			return nil, err
		}
		if n.Text, err = d.ReadString(); err != nil {
			return nil, err
		}
	case vdom.KindThunk:
		if n.Key, err = d.ReadString(); err != nil {
			return nil, err
		}
		if n.Text, err = d.ReadString(); err != nil {
			return nil, err
		}
		if n.Children, err = decodeChildren(d, depth); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, kind)
	}
	return n, nil
}

func decodeChildren(d *Decoder, depth int) ([]*NodeWire, error) {
	count, err := d.ReadCollectionCount()
	if err != nil || count == 0 {
		return nil, err
	}
	children := make([]*NodeWire, count)
	for i := range children {
		if children[i], err = decodeNode(d, depth+1); err != nil {
			return nil, err
		}
	}
	return children, nil
}

func decodeProps(d *Decoder, depth int) ([]PropWire, error) {
	if err := checkDepth(depth, d.limits.PropDepth); err != nil {
		return nil, err
	}
	count, err := d.ReadCollectionCount()
	if err != nil || count == 0 {
		return nil, err
	}
	props := make([]PropWire, count)
	for i := range props {
		p := &props[i]
		if p.Name, err = d.ReadString(); err != nil {
			return nil, err
		}
		kind, err := d.ReadByte()
		if err != nil {
			return nil, err
		}
		p.Kind = PropKind(kind)
		switch p.Kind {
		case PropNested:
			if p.Nested, err = decodeProps(d, depth+1); err != nil {
				return nil, err
			}
		case PropUnset:
		case PropString, PropBool, PropInt, PropFloat, PropOther, PropHook:
			if p.Value, err = d.ReadString(); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("%w: %d", ErrUnknownPropKind, kind)
		}
	}
	return props, nil
}

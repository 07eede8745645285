package protocol

import (
	"reflect"
	"testing"

	"github.com/vango-dev/vpatch/pkg/vdom"
)

func TestNodeToWire(t *testing.T) {
	thunk := textThunk("lazy")
	if _, err := thunk.Resolve(nil); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	node := vdom.Div(
		vdom.ID("main"),
		vdom.Style("color", "red"),
		vdom.Svg(vdom.ViewBox("0 0 10 10")),
		"hello",
		thunk,
		vdom.NewThunk(func(vdom.Node) vdom.Node { return vdom.Text("unused") }),
	)

	got := NodeToWire(node)
	want := &NodeWire{
		Kind: vdom.KindElement,
		Tag:  "div",
		Props: []PropWire{
			{Name: "attributes", Kind: PropNested, Nested: []PropWire{{Name: "id", Kind: PropString, Value: "main"}}},
			{Name: "style", Kind: PropNested, Nested: []PropWire{{Name: "color", Kind: PropString, Value: "red"}}},
		},
		Children: []*NodeWire{
			{
				Kind:      vdom.KindElement,
				Tag:       "svg",
				Namespace: vdom.SVGNamespace,
				Props: []PropWire{
					{Name: "attributes", Kind: PropNested, Nested: []PropWire{{Name: "viewBox", Kind: PropString, Value: "0 0 10 10"}}},
				},
			},
			{Kind: vdom.KindText, Text: "hello"},
			{Kind: vdom.KindThunk, Children: []*NodeWire{{Kind: vdom.KindText, Text: "lazy"}}},
			{Kind: vdom.KindThunk},
		},
	}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("NodeToWire()\ngot:  %s\nwant: %s", jsonString(got), jsonString(want))
	}

	e := NewEncoder()
	EncodeNodeWire(e, got)
	decoded, err := DecodeNodeWire(NewDecoder(e.Bytes()))
	if err != nil {
		t.Fatalf("DecodeNodeWire() error = %v", err)
	}
	if !reflect.DeepEqual(decoded, got) {
		t.Errorf("round trip\ngot:  %s\nwant: %s", jsonString(decoded), jsonString(got))
	}
}

func TestNodeWireNil(t *testing.T) {
	if NodeToWire(nil) != nil {
		t.Error("NodeToWire(nil) should be nil")
	}
	var v *vdom.VNode
	if NodeToWire(v) != nil {
		t.Error("NodeToWire(typed nil) should be nil")
	}

	e := NewEncoder()
	EncodeNodeWire(e, nil)
	if got := e.Bytes(); len(got) != 1 || got[0] != nilMarker {
		t.Fatalf("nil node encoded as %x", got)
	}
	n, err := DecodeNodeWire(NewDecoder(e.Bytes()))
	if err != nil || n != nil {
		t.Errorf("DecodeNodeWire() = %v, %v; want nil, nil", n, err)
	}
}

func TestPropKindString(t *testing.T) {
	tests := []struct {
		kind PropKind
		want string
	}{
		{PropString, "string"},
		{PropNested, "nested"},
		{PropHook, "hook"},
		{PropKind(99), "PropKind(99)"},
	}
	for _, tc := range tests {
		if got := tc.kind.String(); got != tc.want {
			t.Errorf("PropKind(%d).String() = %q, want %q", tc.kind, got, tc.want)
		}
	}
}

func BenchmarkEncodeNodeWire(b *testing.B) {
	items := make([]vdom.Node, 0, 50)
	for i := 0; i < 50; i++ {
		items = append(items, vdom.Li(vdom.Key(i), vdom.Class("item"), vdom.Textf("item %d", i)))
	}
	w := NodeToWire(vdom.Ul(items))

	e := NewEncoder()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Reset()
		EncodeNodeWire(e, w)
	}
}

package vdom

import (
	"errors"
	"testing"
)

func TestDiffBothNil(t *testing.T) {
	ps, err := Diff(nil, nil)
	if err != nil {
		t.Fatalf("Diff error: %v", err)
	}
	if !ps.Empty() {
		t.Errorf("Expected empty patch set, got %s", ps)
	}
}

func TestDiffSameTree(t *testing.T) {
	tree := Div(P("a"), Span(Class("x"), "b"))
	ps, err := Diff(tree, tree)
	if err != nil {
		t.Fatalf("Diff error: %v", err)
	}
	if !ps.Empty() {
		t.Errorf("Expected empty patch set, got %s", ps)
	}
}

func TestDiffStructurallyEqualTrees(t *testing.T) {
	a := Div(P(ID("p"), "a"), Ul(Li(Key("1"), "one")))
	b := Div(P(ID("p"), "a"), Ul(Li(Key("1"), "one")))
	ps, err := Diff(a, b)
	if err != nil {
		t.Fatalf("Diff error: %v", err)
	}
	if !ps.Empty() {
		t.Errorf("Expected empty patch set, got %s", ps)
	}
}

func TestDiffNodeRemoved(t *testing.T) {
	prev := Div()
	ps, _ := Diff(prev, nil)

	list := ps.At(0)
	if len(list) != 1 {
		t.Fatalf("Expected 1 patch, got %d", len(list))
	}
	if list[0].Op != PatchRemove {
		t.Errorf("Op = %v, want REMOVE", list[0].Op)
	}
	if list[0].VNode != Node(prev) {
		t.Error("REMOVE should target the previous node")
	}
}

func TestDiffTextChange(t *testing.T) {
	prev := Text("Hello")
	next := Text("World")
	ps, _ := Diff(prev, next)

	list := ps.At(0)
	if len(list) != 1 || list[0].Op != PatchVText {
		t.Fatalf("patches = %v, want one VTEXT", ops(list))
	}
	if list[0].Node != Node(next) {
		t.Error("VTEXT should carry the next node")
	}
}

func TestDiffTextUnchanged(t *testing.T) {
	ps, _ := Diff(Text("Hello"), Text("Hello"))
	if !ps.Empty() {
		t.Errorf("Expected no patches, got %s", ps)
	}
}

func TestDiffScalarPropertyChange(t *testing.T) {
	prev := Span(Property("title", "x"))
	next := Span(Property("title", "y"))
	ps, _ := Diff(prev, next)

	if got := ps.Positions(); len(got) != 1 || got[0] != 0 {
		t.Fatalf("Positions() = %v, want [0]", got)
	}
	list := ps.At(0)
	if len(list) != 1 || list[0].Op != PatchProps {
		t.Fatalf("patches = %v, want one PROPS", ops(list))
	}
	if len(list[0].Props) != 1 || list[0].Props["title"] != "y" {
		t.Errorf("Props = %s, want {title:\"y\"}", list[0].Props)
	}
}

func TestDiffAttributeChangeIsNested(t *testing.T) {
	prev := Span(TitleAttr("x"), ID("s"))
	next := Span(TitleAttr("y"), ID("s"))
	ps, _ := Diff(prev, next)

	list := ps.At(0)
	if len(list) != 1 || list[0].Op != PatchProps {
		t.Fatalf("patches = %v, want one PROPS", ops(list))
	}
	attrs, ok := list[0].Props[AttributesKey].(Props)
	if !ok {
		t.Fatalf("Props = %s, want nested attributes", list[0].Props)
	}
	if len(attrs) != 1 || attrs["title"] != "y" {
		t.Errorf("attributes delta = %s, want {title:\"y\"}", attrs)
	}
}

func TestDiffTextChildRemoved(t *testing.T) {
	prev := Div("a")
	next := Div()
	ps, _ := Diff(prev, next)

	if got := ps.Positions(); len(got) != 1 || got[0] != 1 {
		t.Fatalf("Positions() = %v, want [1]", got)
	}
	list := ps.At(1)
	if len(list) != 1 || list[0].Op != PatchRemove {
		t.Errorf("patches = %v, want one REMOVE", ops(list))
	}
}

func TestDiffChildInsertedGoesToParent(t *testing.T) {
	prev := Ul(Li("a"))
	next := Ul(Li("a"), Li("b"))
	ps, _ := Diff(prev, next)

	list := ps.At(0)
	if len(list) != 1 || list[0].Op != PatchInsert {
		t.Fatalf("patches at 0 = %v, want one INSERT", ops(list))
	}
	if list[0].VNode != nil {
		t.Error("INSERT should not target an existing node")
	}
	if ps.Len() != 1 {
		t.Errorf("Len() = %d, want 1", ps.Len())
	}
}

func TestDiffTagChangeReplaces(t *testing.T) {
	prev := Div(P("a"))
	next := Div(Span("a"))
	ps, _ := Diff(prev, next)

	list := ps.At(1)
	if len(list) != 1 || list[0].Op != PatchVNode {
		t.Fatalf("patches at 1 = %v, want one VNODE", ops(list))
	}
	if ps.Len() != 1 {
		t.Errorf("replaced subtree should not be diffed, got %s", ps)
	}
}

func TestDiffKeyChangeReplaces(t *testing.T) {
	ps, _ := Diff(Div(Key("a")), Div(Key("b")))
	if list := ps.At(0); len(list) != 1 || list[0].Op != PatchVNode {
		t.Errorf("patches = %v, want one VNODE", ops(list))
	}
}

func TestDiffNamespaceChangeReplaces(t *testing.T) {
	ps, _ := Diff(H("a"), HNS(SVGNamespace, "a"))
	if list := ps.At(0); len(list) != 1 || list[0].Op != PatchVNode {
		t.Errorf("patches = %v, want one VNODE", ops(list))
	}
}

func TestDiffKeyedSwap(t *testing.T) {
	prev := Ul(Li(Key("a"), "a"), Li(Key("b"), "b"))
	next := Ul(Li(Key("b"), "b"), Li(Key("a"), "a"))
	ps, _ := Diff(prev, next)

	if got := ps.Positions(); len(got) != 1 || got[0] != 0 {
		t.Fatalf("Positions() = %v, want [0]; %s", got, ps)
	}
	list := ps.At(0)
	if len(list) != 1 || list[0].Op != PatchOrder {
		t.Fatalf("patches = %v, want one ORDER", ops(list))
	}
	m := list[0].Moves
	if len(m.Removes) != 1 || len(m.Inserts) != 1 {
		t.Fatalf("Moves = %s, want one remove and one insert", m)
	}
	if m.Removes[0] != (Remove{From: 1, Key: "b"}) {
		t.Errorf("Removes[0] = %+v", m.Removes[0])
	}
	if m.Inserts[0] != (Insert{Key: "b", To: 0}) {
		t.Errorf("Inserts[0] = %+v", m.Inserts[0])
	}
}

func TestDiffKeyedChildPatchedAtOldPosition(t *testing.T) {
	prev := Ul(Li(Key("a"), "a"), Li(Key("b"), "b"))
	next := Ul(Li(Key("b"), "B"), Li(Key("a"), "a"))
	ps, _ := Diff(prev, next)

	// ul=0, li a=1, "a"=2, li b=3, "b"=4
	if list := ps.At(4); len(list) != 1 || list[0].Op != PatchVText {
		t.Errorf("patches at 4 = %v, want one VTEXT; %s", ops(list), ps)
	}
	if list := ps.At(0); len(list) != 1 || list[0].Op != PatchOrder {
		t.Errorf("patches at 0 = %v, want one ORDER", ops(list))
	}
}

func TestDiffPatchOrderWithinPosition(t *testing.T) {
	prev := Ul(Class("x"), Li(Key("a")), Li(Key("b")))
	next := Ul(Class("y"), Li(Key("b")), Li(Key("a")), Li(Key("c")))
	ps, _ := Diff(prev, next)

	got := ops(ps.At(0))
	want := []PatchOp{PatchProps, PatchInsert, PatchOrder}
	if len(got) != len(want) {
		t.Fatalf("patches at 0 = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("patch %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDiffWidget(t *testing.T) {
	w1 := NewWidget(&boxWidget{id: "1"})
	w2 := NewWidget(&boxWidget{id: "1"})

	ps, _ := Diff(Div(w1), Div(w2))
	list := ps.At(1)
	if len(list) != 1 || list[0].Op != PatchWidget {
		t.Fatalf("patches = %v, want one WIDGET", ops(list))
	}

	ps, _ = Diff(Div(w1), Div(w1))
	if !ps.Empty() {
		t.Errorf("same widget node should not patch, got %s", ps)
	}
}

func TestDiffElementReplacedByWidgetTearsDown(t *testing.T) {
	calls := []string{}
	prev := Div(P(HookProp("focus", &recordHook{name: "p", calls: &calls})))
	next := Div(NewWidget(plainWidget{}))
	ps, _ := Diff(prev, next)

	got := ops(ps.At(1))
	if len(got) != 2 || got[0] != PatchWidget || got[1] != PatchProps {
		t.Fatalf("patches at 1 = %v, want [WIDGET PROPS]", got)
	}
	if !IsUnset(ps.At(1)[1].Props["focus"]) {
		t.Errorf("teardown PROPS = %s, want focus unset", ps.At(1)[1].Props)
	}
}

func TestDiffTeardownCompleteness(t *testing.T) {
	calls := []string{}
	destroyed := 0
	prev := Div(
		Section(HookProp("a", &recordHook{name: "a", calls: &calls}),
			P(HookProp("b", &recordHook{name: "b", calls: &calls}), "text"),
			NewWidget(&boxWidget{id: "w", destroyed: &destroyed}),
		),
	)
	next := Div(Text("gone"))
	ps, err := Diff(prev, next)
	if err != nil {
		t.Fatalf("Diff error: %v", err)
	}

	// div=0, section=1, p=2, "text"=3, widget=4
	at1 := ops(ps.At(1))
	if len(at1) != 2 || at1[0] != PatchVText || at1[1] != PatchProps {
		t.Errorf("patches at 1 = %v, want [VTEXT PROPS]", at1)
	}
	at2 := ops(ps.At(2))
	if len(at2) != 1 || at2[0] != PatchProps {
		t.Errorf("patches at 2 = %v, want [PROPS]", at2)
	}
	at4 := ops(ps.At(4))
	if len(at4) != 1 || at4[0] != PatchRemove {
		t.Errorf("patches at 4 = %v, want [REMOVE]", at4)
	}
	if len(ps.At(3)) != 0 {
		t.Errorf("text leaf should need no teardown, got %v", ops(ps.At(3)))
	}
}

func TestDiffRemoveTearsDownBeforeRemoving(t *testing.T) {
	calls := []string{}
	prev := Div(P(HookProp("h", &recordHook{name: "h", calls: &calls})))
	next := Div()
	ps, _ := Diff(prev, next)

	got := ops(ps.At(1))
	if len(got) != 2 || got[0] != PatchProps || got[1] != PatchRemove {
		t.Errorf("patches at 1 = %v, want [PROPS REMOVE]", got)
	}
}

func TestDiffRemovedWidgetHasSingleRemove(t *testing.T) {
	prev := Div(NewWidget(&boxWidget{id: "w"}))
	ps, _ := Diff(prev, Div())
	if got := ops(ps.At(1)); len(got) != 1 || got[0] != PatchRemove {
		t.Errorf("patches at 1 = %v, want [REMOVE]", got)
	}
}

func TestDiffSkipsSubtreesWithoutTeardown(t *testing.T) {
	prev := Div(Section(P("a"), P("b")))
	ps, _ := Diff(prev, Text("x"))
	if ps.Len() != 1 {
		t.Errorf("Len() = %d, want 1; %s", ps.Len(), ps)
	}
}

func TestDiffMemoUnchanged(t *testing.T) {
	renders := 0
	render := func() Node {
		renders++
		return Div(P("expensive"))
	}

	prevThunk := Memo("card", render, 1, "x")
	prev := Section(prevThunk)
	if _, err := prevThunk.Resolve(nil); err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	next := Section(Memo("card", render, 1, "x"))
	ps, err := Diff(prev, next)
	if err != nil {
		t.Fatalf("Diff error: %v", err)
	}
	if !ps.Empty() {
		t.Errorf("unchanged memo should produce no patches, got %s", ps)
	}
	if renders != 1 {
		t.Errorf("render called %d times, want 1", renders)
	}
}

func TestDiffMemoChanged(t *testing.T) {
	label := "one"
	render := func() Node { return Div(P(label)) }

	prevThunk := Memo("card", render, 1)
	prev := Section(prevThunk)
	prevThunk.Resolve(nil)

	label = "two"
	next := Section(Memo("card", render, 2))
	ps, err := Diff(prev, next)
	if err != nil {
		t.Fatalf("Diff error: %v", err)
	}

	list := ps.At(1)
	if len(list) != 1 || list[0].Op != PatchThunk {
		t.Fatalf("patches at 1 = %v, want [THUNK]", ops(list))
	}
	nested := list[0].Thunk
	// div=0, p=1, text=2 inside the thunk
	if got := ops(nested.At(2)); len(got) != 1 || got[0] != PatchVText {
		t.Errorf("nested patches at 2 = %v, want [VTEXT]", got)
	}
}

func TestDiffThunkRemovedIsNested(t *testing.T) {
	th := NewThunk(func(Node) Node { return Div() })
	th.Resolve(nil)

	ps, _ := Diff(Section(th), Section())
	list := ps.At(1)
	if len(list) != 1 || list[0].Op != PatchThunk {
		t.Fatalf("patches at 1 = %v, want [THUNK]", ops(list))
	}
	if got := ops(list[0].Thunk.At(0)); len(got) != 1 || got[0] != PatchRemove {
		t.Errorf("nested patches = %v, want [REMOVE]", got)
	}
}

func TestDiffInvalidThunk(t *testing.T) {
	good := NewThunk(func(Node) Node { return Text("ok") })
	good.Resolve(nil)
	bad := NewThunk(func(Node) Node { return nil })
	_, err := Diff(Div(good), Div(bad))
	if !errors.Is(err, ErrInvalidThunk) {
		t.Errorf("Diff error = %v, want ErrInvalidThunk", err)
	}
}

func TestDiffPositionsCoverOldTree(t *testing.T) {
	prev := Div(
		Ul(Li("1"), Li("2")),
		P("tail"),
	)
	next := Div(
		Ul(Li("1"), Li("two")),
		P("end"),
	)
	ps, _ := Diff(prev, next)

	// div=0 ul=1 li=2 "1"=3 li=4 "2"=5 p=6 "tail"=7
	want := []int{5, 7}
	got := ps.Positions()
	if len(got) != len(want) {
		t.Fatalf("Positions() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Positions()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestPatchSetSummary(t *testing.T) {
	prev := Ul(Li(Key("a")), Li(Key("b")), Li("c"))
	next := Ul(Li(Key("b")), Li(Key("a")), Li("C"), Li("d"))
	ps, _ := Diff(prev, next)

	sum := ps.Summary()
	if sum[PatchOrder] != 1 {
		t.Errorf("ORDER count = %d, want 1", sum[PatchOrder])
	}
	if sum[PatchInsert] != 1 {
		t.Errorf("INSERT count = %d, want 1", sum[PatchInsert])
	}
	if sum[PatchVText] != 1 {
		t.Errorf("VTEXT count = %d, want 1", sum[PatchVText])
	}
	if ps.Count() != 3 {
		t.Errorf("Count() = %d, want 3", ps.Count())
	}
	if ps.String() == "" {
		t.Error("String() should describe the patches")
	}
}

func TestPatchOpString(t *testing.T) {
	tests := []struct {
		op   PatchOp
		want string
	}{
		{PatchNone, "NONE"},
		{PatchVText, "VTEXT"},
		{PatchVNode, "VNODE"},
		{PatchWidget, "WIDGET"},
		{PatchProps, "PROPS"},
		{PatchOrder, "ORDER"},
		{PatchInsert, "INSERT"},
		{PatchRemove, "REMOVE"},
		{PatchThunk, "THUNK"},
		{PatchOp(42), "PatchOp(42)"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

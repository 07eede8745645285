package vdom

import (
	"fmt"
	"sort"
	"strings"
)

// PatchOp identifies a patch operation.
type PatchOp uint8

const (
	PatchNone   PatchOp = iota // No-op
	PatchVText                 // Replace text, or replace the node with text
	PatchVNode                 // Replace the node with a new element
	PatchWidget                // Update or replace a widget
	PatchProps                 // Apply a property delta
	PatchOrder                 // Reorder keyed children
	PatchInsert                // Append a new child
	PatchRemove                // Remove the node
	PatchThunk                 // Apply a nested patch set to a thunk's subtree
)

// String returns the string representation of the PatchOp.
func (op PatchOp) String() string {
	switch op {
	case PatchNone:
		return "NONE"
	case PatchVText:
		return "VTEXT"
	case PatchVNode:
		return "VNODE"
	case PatchWidget:
		return "WIDGET"
	case PatchProps:
		return "PROPS"
	case PatchOrder:
		return "ORDER"
	case PatchInsert:
		return "INSERT"
	case PatchRemove:
		return "REMOVE"
	case PatchThunk:
		return "THUNK"
	default:
		return fmt.Sprintf("PatchOp(%d)", op)
	}
}

// Patch is a single operation against the live node at its position.
type Patch struct {
	Op PatchOp

	// VNode is the previous-tree node the patch targets. Nil for INSERT.
	VNode Node

	// Node is the replacement or inserted node for VTEXT, VNODE, WIDGET
	// and INSERT.
	Node Node

	// Props is the PROPS payload. Removed keys map to Unset.
	Props Props

	// Moves is the ORDER payload.
	Moves *Moves

	// Thunk is the THUNK payload.
	Thunk *PatchSet
}

// String returns a compact description for logs.
func (p Patch) String() string {
	switch p.Op {
	case PatchProps:
		return "PROPS " + p.Props.String()
	case PatchOrder:
		return "ORDER " + p.Moves.String()
	case PatchThunk:
		return fmt.Sprintf("THUNK (%d positions)", p.Thunk.Len())
	case PatchVText:
		if t, ok := p.Node.(*VText); ok {
			return fmt.Sprintf("VTEXT %q", t.text)
		}
	case PatchVNode, PatchInsert:
		if v, ok := p.Node.(*VNode); ok {
			return fmt.Sprintf("%s <%s>", p.Op, v.tag)
		}
	}
	return p.Op.String()
}

// Remove takes the child at From out of the parent. Key is set when the
// child is keyed and will be reinserted.
type Remove struct {
	From int
	Key  string
}

// Insert puts the keyed child removed earlier at To.
type Insert struct {
	Key string
	To  int
}

// Moves is the reorder payload. Removes run first, in order, against the
// live child list; inserts then run in order.
type Moves struct {
	Removes []Remove
	Inserts []Insert
}

// String returns a compact description for logs.
func (m *Moves) String() string {
	if m == nil {
		return "{}"
	}
	var sb strings.Builder
	sb.WriteString("{removes:[")
	for i, r := range m.Removes {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%d:%q", r.From, r.Key)
	}
	sb.WriteString("] inserts:[")
	for i, in := range m.Inserts {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%q:%d", in.Key, in.To)
	}
	sb.WriteString("]}")
	return sb.String()
}

// PatchSet is the result of a diff: the previous tree plus, per pre-order
// position, the ordered list of patches to apply there.
type PatchSet struct {
	// Old is the previous virtual tree the positions refer to.
	Old Node

	byPos map[int][]Patch
}

// NewPatchSet creates an empty patch set over old.
func NewPatchSet(old Node) *PatchSet {
	return &PatchSet{Old: old, byPos: make(map[int][]Patch)}
}

// Append adds p to the list at pos.
func (ps *PatchSet) Append(pos int, p Patch) {
	ps.byPos[pos] = append(ps.byPos[pos], p)
}

// set replaces the list at pos with p.
func (ps *PatchSet) set(pos int, p Patch) {
	ps.byPos[pos] = []Patch{p}
}

// At returns the patches at pos in application order.
func (ps *PatchSet) At(pos int) []Patch {
	if ps == nil {
		return nil
	}
	return ps.byPos[pos]
}

// Positions returns the patched positions in ascending order.
func (ps *PatchSet) Positions() []int {
	if ps == nil {
		return nil
	}
	out := make([]int, 0, len(ps.byPos))
	for pos := range ps.byPos {
		out = append(out, pos)
	}
	sort.Ints(out)
	return out
}

// Len returns the number of patched positions.
func (ps *PatchSet) Len() int {
	if ps == nil {
		return 0
	}
	return len(ps.byPos)
}

// Empty reports whether there is nothing to apply.
func (ps *PatchSet) Empty() bool {
	return ps.Len() == 0
}

// Count returns the total number of patches, not counting nested sets.
func (ps *PatchSet) Count() int {
	if ps == nil {
		return 0
	}
	n := 0
	for _, list := range ps.byPos {
		n += len(list)
	}
	return n
}

// Summary counts patches by operation, including nested thunk sets.
func (ps *PatchSet) Summary() map[PatchOp]int {
	out := make(map[PatchOp]int)
	ps.summarize(out)
	return out
}

func (ps *PatchSet) summarize(out map[PatchOp]int) {
	if ps == nil {
		return
	}
	for _, list := range ps.byPos {
		for _, p := range list {
			out[p.Op]++
			if p.Op == PatchThunk {
				p.Thunk.summarize(out)
			}
		}
	}
}

// String renders the set one position per line, for logs and the CLI.
func (ps *PatchSet) String() string {
	var sb strings.Builder
	ps.write(&sb, "")
	return sb.String()
}

func (ps *PatchSet) write(sb *strings.Builder, indent string) {
	for _, pos := range ps.Positions() {
		for _, p := range ps.byPos[pos] {
			fmt.Fprintf(sb, "%s%d: %s\n", indent, pos, p)
			if p.Op == PatchThunk {
				p.Thunk.write(sb, indent+"  ")
			}
		}
	}
}

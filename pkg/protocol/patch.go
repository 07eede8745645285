package protocol

import (
	"fmt"
	"strings"

	vperrors "github.com/vango-dev/vpatch/internal/errors"
	"github.com/vango-dev/vpatch/pkg/vdom"
)

// RemoveWire is one removal of an ORDER payload.
type RemoveWire struct {
	From int    `json:"from"`
	Key  string `json:"key,omitempty"`
}

// InsertWire is one insertion of an ORDER payload.
type InsertWire struct {
	Key string `json:"key"`
	To  int    `json:"to"`
}

// MovesWire is the ORDER payload.
type MovesWire struct {
	Removes []RemoveWire `json:"removes,omitempty"`
	Inserts []InsertWire `json:"inserts,omitempty"`
}

// PatchWire is one patch on the wire. Which payload field is set depends on
// Op: Node for VTEXT, VNODE, WIDGET and INSERT; Props for PROPS; Moves for
// ORDER; Thunk for THUNK. The previous-tree node is not carried.
type PatchWire struct {
	Op    vdom.PatchOp  `json:"op"`
	Node  *NodeWire     `json:"node,omitempty"`
	Props []PropWire    `json:"props,omitempty"`
	Moves *MovesWire    `json:"moves,omitempty"`
	Thunk *PatchesFrame `json:"thunk,omitempty"`
}

// PositionPatches lists the patches for one pre-order position.
type PositionPatches struct {
	Index   int         `json:"index"`
	Patches []PatchWire `json:"patches"`
}

// PatchesFrame is an encoded patch set. Positions are ascending. Nested
// frames inside THUNK patches have Seq 0.
type PatchesFrame struct {
	Seq       uint64            `json:"seq"`
	Positions []PositionPatches `json:"positions"`
}

// FrameFromPatchSet converts ps to wire form.
func FrameFromPatchSet(seq uint64, ps *vdom.PatchSet) *PatchesFrame {
	pf := &PatchesFrame{Seq: seq}
	for _, pos := range ps.Positions() {
		list := ps.At(pos)
		pp := PositionPatches{Index: pos, Patches: make([]PatchWire, 0, len(list))}
		for _, p := range list {
			pp.Patches = append(pp.Patches, patchToWire(p))
		}
		pf.Positions = append(pf.Positions, pp)
	}
	return pf
}

func patchToWire(p vdom.Patch) PatchWire {
	w := PatchWire{Op: p.Op}
	switch p.Op {
	case vdom.PatchVText, vdom.PatchVNode, vdom.PatchWidget, vdom.PatchInsert:
		w.Node = NodeToWire(p.Node)
	case vdom.PatchProps:
		w.Props = PropsToWire(p.Props)
	case vdom.PatchOrder:
		w.Moves = movesToWire(p.Moves)
	case vdom.PatchThunk:
		w.Thunk = FrameFromPatchSet(0, p.Thunk)
	}
	return w
}

func movesToWire(m *vdom.Moves) *MovesWire {
	if m == nil {
		return nil
	}
	w := &MovesWire{}
	for _, r := range m.Removes {
		w.Removes = append(w.Removes, RemoveWire{From: r.From, Key: r.Key})
	}
	for _, in := range m.Inserts {
		w.Inserts = append(w.Inserts, InsertWire{Key: in.Key, To: in.To})
	}
	return w
}

// Count returns the number of patches, not counting nested frames.
func (pf *PatchesFrame) Count() int {
	n := 0
	for _, pp := range pf.Positions {
		n += len(pp.Patches)
	}
	return n
}

// String renders the frame one patch per line.
func (pf *PatchesFrame) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "seq %d: %d positions, %d patches\n", pf.Seq, len(pf.Positions), pf.Count())
	pf.write(&sb, "  ")
	return sb.String()
}

func (pf *PatchesFrame) write(sb *strings.Builder, indent string) {
	for _, pp := range pf.Positions {
		for _, p := range pp.Patches {
			fmt.Fprintf(sb, "%s%d: %s\n", indent, pp.Index, p.describe())
			if p.Op == vdom.PatchThunk && p.Thunk != nil {
				p.Thunk.write(sb, indent+"  ")
			}
		}
	}
}

func (p PatchWire) describe() string {
	switch p.Op {
	case vdom.PatchProps:
		parts := make([]string, 0, len(p.Props))
		for _, prop := range p.Props {
			parts = append(parts, prop.describe())
		}
		return "PROPS {" + strings.Join(parts, " ") + "}"
	case vdom.PatchOrder:
		if p.Moves == nil {
			return "ORDER {}"
		}
		return fmt.Sprintf("ORDER %d removes, %d inserts", len(p.Moves.Removes), len(p.Moves.Inserts))
	case vdom.PatchVText, vdom.PatchVNode, vdom.PatchWidget, vdom.PatchInsert:
		return p.Op.String() + " " + p.Node.describe()
	}
	return p.Op.String()
}

func (p PropWire) describe() string {
	switch p.Kind {
	case PropUnset:
		return p.Name + "=<unset>"
	case PropHook:
		return fmt.Sprintf("%s=<hook %s>", p.Name, p.Value)
	case PropNested:
		parts := make([]string, 0, len(p.Nested))
		for _, n := range p.Nested {
			parts = append(parts, n.describe())
		}
		return p.Name + "={" + strings.Join(parts, " ") + "}"
	case PropString:
		return fmt.Sprintf("%s=%q", p.Name, p.Value)
	}
	return p.Name + "=" + p.Value
}

func (n *NodeWire) describe() string {
	if n == nil {
		return "<nil>"
	}
	switch n.Kind {
	case vdom.KindElement:
		if n.Key != "" {
			return fmt.Sprintf("<%s key=%q>", n.Tag, n.Key)
		}
		return "<" + n.Tag + ">"
	case vdom.KindText:
		return fmt.Sprintf("%q", n.Text)
	case vdom.KindWidget:
		return "widget " + n.Text
	case vdom.KindThunk:
		return "thunk " + n.Text
	}
	return n.Kind.String()
}

// EncodePatches encodes a patches frame.
func EncodePatches(pf *PatchesFrame) []byte {
	e := NewEncoder()
	EncodePatchesTo(e, pf)
	return e.Bytes()
}

// EncodePatchesTo encodes a patches frame with the provided encoder.
func EncodePatchesTo(e *Encoder, pf *PatchesFrame) {
	e.WriteUvarint(pf.Seq)
	encodePositions(e, pf.Positions)
}

func encodePositions(e *Encoder, positions []PositionPatches) {
	e.writeCount(len(positions))
	for _, pp := range positions {
		e.WriteUvarint(uint64(pp.Index))
		e.writeCount(len(pp.Patches))
		for i := range pp.Patches {
			encodePatch(e, &pp.Patches[i])
		}
	}
}

func encodePatch(e *Encoder, p *PatchWire) {
	e.WriteByte(byte(p.Op))

	switch p.Op {
	case vdom.PatchVText, vdom.PatchVNode, vdom.PatchWidget, vdom.PatchInsert:
		EncodeNodeWire(e, p.Node)

	case vdom.PatchProps:
		encodeProps(e, p.Props)

	case vdom.PatchOrder:
		var m MovesWire
		if p.Moves != nil {
			m = *p.Moves
		}
		e.writeCount(len(m.Removes))
		for _, r := range m.Removes {
			e.WriteUvarint(uint64(r.From))
			e.WriteString(r.Key)
		}
		e.writeCount(len(m.Inserts))
		for _, in := range m.Inserts {
			e.WriteString(in.Key)
			e.WriteUvarint(uint64(in.To))
		}

	case vdom.PatchThunk:
		var positions []PositionPatches
		if p.Thunk != nil {
			positions = p.Thunk.Positions
		}
		encodePositions(e, positions)

	case vdom.PatchRemove, vdom.PatchNone:
		// No payload
	}
}

// DecodePatches decodes a frame written by EncodePatches. Failures carry
// code E170 and wrap the underlying decode error.
func DecodePatches(data []byte) (*PatchesFrame, error) {
	d := NewDecoder(data)
	pf, err := DecodePatchesFrom(d)
	if err == nil && !d.EOF() {
		err = ErrTrailingBytes
	}
	if err != nil {
		return nil, vperrors.New("E170").
			WithDetailf("decoding stopped at byte %d of %d", d.Position(), len(data)).
			Wrap(err)
	}
	return pf, nil
}

// DecodePatchesFrom decodes a patches frame from a decoder.
func DecodePatchesFrom(d *Decoder) (*PatchesFrame, error) {
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	positions, err := decodePositions(d, 0)
	if err != nil {
		return nil, err
	}
	return &PatchesFrame{Seq: seq, Positions: positions}, nil
}

func decodePositions(d *Decoder, depth int) ([]PositionPatches, error) {
	if err := checkDepth(depth, d.limits.PatchDepth); err != nil {
		return nil, err
	}
	count, err := d.ReadCollectionCount()
	if err != nil || count == 0 {
		return nil, err
	}

	positions := make([]PositionPatches, count)
	for i := range positions {
		pp := &positions[i]
		index, err := d.ReadUvarint()
		if err != nil {
			return nil, err
		}
		pp.Index = int(index)

		n, err := d.ReadCollectionCount()
		if err != nil {
			return nil, err
		}
		pp.Patches = make([]PatchWire, n)
		for j := range pp.Patches {
			if err := decodePatch(d, &pp.Patches[j], depth); err != nil {
				return nil, err
			}
		}
	}
	return positions, nil
}

func decodePatch(d *Decoder, p *PatchWire, depth int) error {
	op, err := d.ReadByte()
	if err != nil {
		return err
	}
	p.Op = vdom.PatchOp(op)

	switch p.Op {
	case vdom.PatchVText, vdom.PatchVNode, vdom.PatchWidget, vdom.PatchInsert:
		p.Node, err = DecodeNodeWire(d)
		return err

	case vdom.PatchProps:
		p.Props, err = decodeProps(d, 0)
		return err

	case vdom.PatchOrder:
		return decodeMoves(d, p)

	case vdom.PatchThunk:
		positions, err := decodePositions(d, depth+1)
		if err != nil {
			return err
		}
		p.Thunk = &PatchesFrame{Positions: positions}
		return nil

	case vdom.PatchRemove, vdom.PatchNone:
		return nil

	default:
		return fmt.Errorf("%w: %d", ErrUnknownOp, op)
	}
}

func decodeMoves(d *Decoder, p *PatchWire) error {
	m := &MovesWire{}

	n, err := d.ReadCollectionCount()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		from, err := d.ReadUvarint()
		if err != nil {
			return err
		}
		key, err := d.ReadString()
		if err != nil {
			return err
		}
		m.Removes = append(m.Removes, RemoveWire{From: int(from), Key: key})
	}

	n, err = d.ReadCollectionCount()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		key, err := d.ReadString()
		if err != nil {
			return err
		}
		to, err := d.ReadUvarint()
		if err != nil {
			return err
		}
		m.Inserts = append(m.Inserts, InsertWire{Key: key, To: int(to)})
	}

	p.Moves = m
	return nil
}

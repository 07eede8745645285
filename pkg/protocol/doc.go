// Package protocol implements the binary wire format for patch sets.
//
// A vdom.PatchSet holds live references (hooks, widgets, thunk closures)
// that cannot leave the process. FrameFromPatchSet converts it to a
// PatchesFrame: plain data describing every patch, with widgets and hooks
// reduced to their names. Frames are what gets stored by pkg/snapshot,
// printed by the CLI and streamed by pkg/inspect. They are records for
// inspection and replay tooling; a decoded frame cannot be applied.
//
// # Wire Format
//
// Stored frames are wrapped in a 6-byte header:
//
//	┌─────────────┬──────────────┬───────────────────────────────┐
//	│ Frame Type  │ Version      │ Payload Length                │
//	│ (1 byte)    │ (1 byte)     │ (4 bytes, big-endian)         │
//	└─────────────┴──────────────┴───────────────────────────────┘
//
// A patches payload is:
//
//	[Seq: varint][Positions: count]
//	  per position: [Index: varint][Patches: count]
//	    per patch: [Op: byte][op-specific payload]
//
// Payloads by op:
//
//   - VTEXT, VNODE, WIDGET, INSERT: a node (kind byte, 0xFF for none)
//   - PROPS: a property bag, sorted by name, each entry tagged with a PropKind
//   - ORDER: removes as (from, key), then inserts as (key, to)
//   - THUNK: a nested positions list
//   - REMOVE: nothing
//
// # Encoding
//
//   - Varint: protobuf-style unsigned integers and counts
//   - Length-prefixed: strings carry a varint length
//   - Big-endian: the header's payload length
//
// # Limits
//
// Decoding is bounded by Limits: string sizes, collection counts, node
// depth, THUNK nesting and property bag nesting. DecodePatches reports any
// failure as an E170 error wrapping the sentinel (ErrUnknownOp,
// ErrMaxDepthExceeded, io.ErrUnexpectedEOF, ...).
//
// # Usage Example
//
//	ps, err := vdom.Diff(prev, next)
//	if err != nil {
//	    return err
//	}
//	data := protocol.NewPatchesFrame(protocol.FrameFromPatchSet(seq, ps)).Encode()
//
//	f, err := protocol.DecodeFrame(data)
//	if err != nil {
//	    return err
//	}
//	pf, err := f.Patches()
package protocol

package protocol

import "errors"

// ErrMaxDepthExceeded is returned when a decoded structure nests deeper than
// the configured limit.
var ErrMaxDepthExceeded = errors.New("protocol: maximum nesting depth exceeded")

// Default decoding limits.
const (
	// DefaultMaxAllocation caps a single string (4MB).
	DefaultMaxAllocation = 4 * 1024 * 1024

	// HardMaxAllocation caps any allocation, whatever the configured limit.
	HardMaxAllocation = 16 * 1024 * 1024

	// MaxCollectionCount caps the length of any list or property bag.
	MaxCollectionCount = 100_000

	// MaxNodeDepth caps node nesting inside VNODE and INSERT payloads.
	MaxNodeDepth = 256

	// MaxPatchDepth caps THUNK nesting.
	MaxPatchDepth = 64

	// MaxPropDepth caps nested property bags.
	MaxPropDepth = 32
)

// Limits bounds what a Decoder will allocate or recurse into.
type Limits struct {
	MaxAllocation int
	MaxCollection int
	NodeDepth     int
	PatchDepth    int
	PropDepth     int
}

// DefaultLimits returns the default limits.
func DefaultLimits() Limits {
	return Limits{
		MaxAllocation: DefaultMaxAllocation,
		MaxCollection: MaxCollectionCount,
		NodeDepth:     MaxNodeDepth,
		PatchDepth:    MaxPatchDepth,
		PropDepth:     MaxPropDepth,
	}
}

func (l Limits) withDefaults() Limits {
	def := DefaultLimits()
	if l.MaxAllocation <= 0 {
		l.MaxAllocation = def.MaxAllocation
	}
	if l.MaxAllocation > HardMaxAllocation {
		l.MaxAllocation = HardMaxAllocation
	}
	if l.MaxCollection <= 0 {
		l.MaxCollection = def.MaxCollection
	}
	if l.NodeDepth <= 0 {
		l.NodeDepth = def.NodeDepth
	}
	if l.PatchDepth <= 0 {
		l.PatchDepth = def.PatchDepth
	}
	if l.PropDepth <= 0 {
		l.PropDepth = def.PropDepth
	}
	return l
}

// checkDepth fails once current exceeds max.
func checkDepth(current, max int) error {
	if current > max {
		return ErrMaxDepthExceeded
	}
	return nil
}

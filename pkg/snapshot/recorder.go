package snapshot

import (
	"context"
	"fmt"
	"strings"

	vperrors "github.com/vango-dev/vpatch/internal/errors"
	"github.com/vango-dev/vpatch/pkg/metrics"
	"github.com/vango-dev/vpatch/pkg/protocol"
	"github.com/vango-dev/vpatch/pkg/vdom"
)

// FrameExt is the extension of stored frame keys.
const FrameExt = ".vpf"

// DefaultPrefix is the key prefix a Recorder writes under.
const DefaultPrefix = "frames/"

// FrameKey returns the key for seq under prefix. Sequence numbers are
// zero-padded so keys sort in cycle order.
func FrameKey(prefix string, seq uint64) string {
	return fmt.Sprintf("%s%020d%s", prefix, seq, FrameExt)
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithPrefix sets the key prefix. Default: DefaultPrefix.
func WithPrefix(prefix string) RecorderOption {
	return func(r *Recorder) {
		r.prefix = prefix
	}
}

// WithMetrics records frame counts and sizes.
func WithMetrics(m *metrics.Collector) RecorderOption {
	return func(r *Recorder) {
		r.metrics = m
	}
}

// Recorder encodes patch sets as frames and writes them to a Store. It
// satisfies tree.Recorder.
type Recorder struct {
	store   Store
	prefix  string
	metrics *metrics.Collector
}

// NewRecorder creates a Recorder writing to store.
func NewRecorder(store Store, opts ...RecorderOption) *Recorder {
	r := &Recorder{store: store, prefix: DefaultPrefix}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Prefix returns the key prefix frames are written under.
func (r *Recorder) Prefix() string {
	return r.prefix
}

// Record stores ps as frame seq.
func (r *Recorder) Record(ctx context.Context, seq uint64, ps *vdom.PatchSet) error {
	data := protocol.NewPatchesFrame(protocol.FrameFromPatchSet(seq, ps)).Encode()
	if err := r.store.Put(ctx, FrameKey(r.prefix, seq), data); err != nil {
		return err
	}
	r.metrics.RecordFrame(len(data))
	return nil
}

// Frames lists the frame keys under prefix in sequence order.
func Frames(ctx context.Context, store Store, prefix string) ([]string, error) {
	keys, err := store.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	out := keys[:0]
	for _, k := range keys {
		if strings.HasSuffix(k, FrameExt) {
			out = append(out, k)
		}
	}
	return out, nil
}

// Load reads and decodes the frame stored under key.
func Load(ctx context.Context, store Store, key string) (*protocol.PatchesFrame, error) {
	data, err := store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	f, err := protocol.DecodeFrame(data)
	if err != nil {
		return nil, vperrors.New("E170").WithDetailf("key %q", key).Wrap(err)
	}
	return f.Patches()
}

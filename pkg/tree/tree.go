// Package tree owns a mounted native tree and runs diff/patch cycles
// against it.
//
// A Tree pairs the live native root with the virtual tree it was built from.
// Update diffs the current virtual tree with the next one, applies the
// patches and swaps both in. Cycles are single-writer: a second Update that
// starts while one is running fails with E102 instead of interleaving
// mutations.
package tree

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	vperrors "github.com/vango-dev/vpatch/internal/errors"
	"github.com/vango-dev/vpatch/pkg/dom"
	"github.com/vango-dev/vpatch/pkg/metrics"
	"github.com/vango-dev/vpatch/pkg/native"
	"github.com/vango-dev/vpatch/pkg/vdom"
)

// ErrCycleInProgress is returned by Update when another cycle is running.
var ErrCycleInProgress = vperrors.New("E102")

// Recorder stores the patch set produced by a cycle.
type Recorder interface {
	Record(ctx context.Context, seq uint64, ps *vdom.PatchSet) error
}

// Observer is notified after every successful cycle.
type Observer interface {
	CycleDone(r *Report)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(r *Report)

// CycleDone implements Observer.
func (f ObserverFunc) CycleDone(r *Report) { f(r) }

// Report describes a finished cycle.
type Report struct {
	Seq           uint64
	Started       time.Time
	Duration      time.Duration
	DiffDuration  time.Duration
	ApplyDuration time.Duration

	// Patches is the applied patch set.
	Patches *vdom.PatchSet

	// Summary counts patches by op, including nested thunk sets.
	Summary map[vdom.PatchOp]int

	// Skipped lists patched positions that had no live node.
	Skipped []int

	// RootReplaced is set when the cycle replaced the live root.
	RootReplaced bool

	// Nodes is the node count of the new virtual tree.
	Nodes int
}

// Tree is a mounted native tree.
type Tree struct {
	d   native.Driver
	cfg config

	busy atomic.Bool

	mu      sync.RWMutex
	root    native.Node
	current vdom.Node
	seq     uint64
}

// Mount builds the native tree for node and returns it mounted.
func Mount(d native.Driver, node vdom.Node, opts ...Option) (*Tree, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	root, err := dom.Create(d, node, dom.WithPolicy(cfg.policy))
	if err != nil {
		return nil, vperrors.New("E103").Wrap(err)
	}

	t := &Tree{
		d:       d,
		cfg:     cfg,
		root:    root,
		current: node,
	}

	nodes := nodeCount(node)
	cfg.metrics.SetTreeNodes(nodes)
	cfg.logger.Info("tree mounted", "nodes", nodes)
	return t, nil
}

// Update transforms the live tree to match next and makes next the current
// tree. On error the current tree is left unchanged; a failure during the
// apply phase may leave the live tree partially patched.
func (t *Tree) Update(ctx context.Context, next vdom.Node) (*Report, error) {
	if !t.busy.CompareAndSwap(false, true) {
		return nil, ErrCycleInProgress
	}
	defer t.busy.Store(false)

	t.mu.RLock()
	seq := t.seq + 1
	prev := t.current
	t.mu.RUnlock()

	ctx, span := t.cfg.tracer.Start(ctx, "vpatch.cycle",
		trace.WithAttributes(attribute.Int64("vpatch.seq", int64(seq))),
	)
	defer span.End()

	report := &Report{Seq: seq, Started: time.Now()}
	err := t.cycle(ctx, prev, next, report)
	report.Duration = time.Since(report.Started)

	t.cfg.metrics.ObserveCycle(report.Duration, report.Summary, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		t.cfg.logger.Error("patch cycle failed", "seq", seq, "error", err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("vpatch.positions", report.Patches.Len()),
		attribute.Int("vpatch.patches", report.Patches.Count()),
		attribute.Int("vpatch.skipped", len(report.Skipped)),
	)
	span.SetStatus(codes.Ok, "")

	if len(report.Skipped) > 0 {
		t.cfg.logger.Debug("patched positions had no live node", "seq", seq, "positions", report.Skipped)
	}
	t.cfg.logger.Debug("patch cycle done",
		"seq", seq,
		"positions", report.Patches.Len(),
		"patches", report.Patches.Count(),
		"duration", report.Duration,
	)

	if t.cfg.recorder != nil && !report.Patches.Empty() {
		if err := t.cfg.recorder.Record(ctx, seq, report.Patches); err != nil {
			t.cfg.logger.Warn("failed to record patch frame", "seq", seq, "error", err)
		}
	}

	for _, o := range t.cfg.observers {
		o.CycleDone(report)
	}
	return report, nil
}

func (t *Tree) cycle(ctx context.Context, prev, next vdom.Node, report *Report) error {
	_, diffSpan := t.cfg.tracer.Start(ctx, "vpatch.diff")
	start := time.Now()
	ps, err := vdom.Diff(prev, next)
	report.DiffDuration = time.Since(start)
	t.cfg.metrics.ObservePhase(metrics.PhaseDiff, report.DiffDuration)
	if err != nil {
		err = vperrors.New("E101").Wrap(err)
		diffSpan.RecordError(err)
		diffSpan.SetStatus(codes.Error, err.Error())
		diffSpan.End()
		return err
	}
	diffSpan.SetAttributes(attribute.Int("vpatch.positions", ps.Len()))
	diffSpan.End()

	report.Patches = ps
	report.Summary = ps.Summary()

	_, applySpan := t.cfg.tracer.Start(ctx, "vpatch.apply")
	defer applySpan.End()

	t.mu.Lock()
	defer t.mu.Unlock()

	start = time.Now()
	oldRoot := t.root
	root, err := dom.Apply(t.d, t.root, ps,
		dom.WithPolicy(t.cfg.policy),
		dom.WithSkipHandler(func(pos int) {
			report.Skipped = append(report.Skipped, pos)
			t.cfg.metrics.RecordSkip()
		}),
	)
	report.ApplyDuration = time.Since(start)
	t.cfg.metrics.ObservePhase(metrics.PhaseApply, report.ApplyDuration)
	if err != nil {
		err = vperrors.New("E104").Wrap(err)
		applySpan.RecordError(err)
		applySpan.SetStatus(codes.Error, err.Error())
		return err
	}

	t.root = root
	t.current = next
	t.seq = report.Seq
	report.RootReplaced = root != oldRoot
	report.Nodes = nodeCount(next)
	t.cfg.metrics.SetTreeNodes(report.Nodes)
	return nil
}

// Root returns the live native root.
func (t *Tree) Root() native.Node {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.root
}

// Current returns the virtual tree the live tree currently matches.
func (t *Tree) Current() vdom.Node {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}

// Seq returns the sequence number of the last successful cycle.
func (t *Tree) Seq() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.seq
}

// View calls fn with the live root while holding the tree's read lock, so
// fn can walk the native tree without racing a cycle.
func (t *Tree) View(fn func(root native.Node, current vdom.Node)) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	fn(t.root, t.current)
}

func nodeCount(n vdom.Node) int {
	if n == nil {
		return 0
	}
	return vdom.CountOf(n) + 1
}

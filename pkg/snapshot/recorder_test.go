package snapshot_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	vperrors "github.com/vango-dev/vpatch/internal/errors"
	"github.com/vango-dev/vpatch/pkg/metrics"
	"github.com/vango-dev/vpatch/pkg/native/memdom"
	"github.com/vango-dev/vpatch/pkg/snapshot"
	"github.com/vango-dev/vpatch/pkg/tree"
	"github.com/vango-dev/vpatch/pkg/vdom"
)

func TestFrameKeySorts(t *testing.T) {
	a := snapshot.FrameKey("p/", 9)
	b := snapshot.FrameKey("p/", 10)
	if a >= b {
		t.Errorf("FrameKey(9)=%q should sort before FrameKey(10)=%q", a, b)
	}
	if want := "p/00000000000000000009.vpf"; a != want {
		t.Errorf("FrameKey = %q, want %q", a, want)
	}
}

func TestRecorder_WithTree(t *testing.T) {
	ctx := context.Background()
	store := snapshot.NewMemoryStore()
	rec := snapshot.NewRecorder(store,
		snapshot.WithPrefix("run1/"),
		snapshot.WithMetrics(metrics.New(metrics.WithRegistry(prometheus.NewRegistry()))),
	)

	tr, err := tree.Mount(memdom.New(), vdom.Div("a"), tree.WithRecorder(rec))
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	tr.Update(ctx, vdom.Div("b"))
	tr.Update(ctx, vdom.Div("b"))
	tr.Update(ctx, vdom.Div(vdom.Class("x"), "b"))

	keys, err := snapshot.Frames(ctx, store, rec.Prefix())
	if err != nil {
		t.Fatalf("Frames: %v", err)
	}
	want := []string{snapshot.FrameKey("run1/", 1), snapshot.FrameKey("run1/", 3)}
	if len(keys) != 2 || keys[0] != want[0] || keys[1] != want[1] {
		t.Fatalf("Frames = %v, want %v", keys, want)
	}

	pf, err := snapshot.Load(ctx, store, keys[0])
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if pf.Seq != 1 || pf.Count() != 1 || pf.Positions[0].Patches[0].Op != vdom.PatchVText {
		t.Errorf("frame 1 = %s", pf)
	}

	pf, _ = snapshot.Load(ctx, store, keys[1])
	if pf.Seq != 3 || pf.Positions[0].Patches[0].Op != vdom.PatchProps {
		t.Errorf("frame 3 = %s", pf)
	}
}

func TestFrames_SkipsOtherFiles(t *testing.T) {
	ctx := context.Background()
	store := snapshot.NewMemoryStore()
	store.Put(ctx, "frames/notes.txt", []byte("x"))
	rec := snapshot.NewRecorder(store)
	ps, _ := vdom.Diff(vdom.Div("a"), vdom.Div("b"))
	if err := rec.Record(ctx, 4, ps); err != nil {
		t.Fatalf("Record: %v", err)
	}

	keys, _ := snapshot.Frames(ctx, store, snapshot.DefaultPrefix)
	if len(keys) != 1 || keys[0] != snapshot.FrameKey(snapshot.DefaultPrefix, 4) {
		t.Errorf("Frames = %v", keys)
	}
}

func TestLoad_Errors(t *testing.T) {
	ctx := context.Background()
	store := snapshot.NewMemoryStore()

	if _, err := snapshot.Load(ctx, store, "frames/none.vpf"); !errors.Is(err, snapshot.ErrNotFound) {
		t.Errorf("Load(missing) err = %v, want ErrNotFound", err)
	}

	store.Put(ctx, "frames/bad.vpf", []byte{0x02, 0x01, 0x00})
	if _, err := snapshot.Load(ctx, store, "frames/bad.vpf"); !vperrors.HasCode(err, "E170") {
		t.Errorf("Load(corrupt) err = %v, want E170", err)
	}
}

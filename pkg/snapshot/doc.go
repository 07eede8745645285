// Package snapshot persists encoded patch frames.
//
// A Recorder plugs into a tree.Tree and writes every non-empty patch set as
// a protocol frame under a sequence-ordered key:
//
//	store, _ := snapshot.NewDiskStore(".vpatch/frames")
//	t, _ := tree.Mount(d, view, tree.WithRecorder(snapshot.NewRecorder(store)))
//
// Stores are interchangeable: MemoryStore for tests and short sessions,
// DiskStore for local debugging, S3Store for shared or long-lived capture.
// Frames and Load read them back for replay tooling.
package snapshot

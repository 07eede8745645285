package inspect

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/vpatch/pkg/metrics"
	"github.com/vango-dev/vpatch/pkg/native/memdom"
	"github.com/vango-dev/vpatch/pkg/protocol"
	"github.com/vango-dev/vpatch/pkg/snapshot"
	"github.com/vango-dev/vpatch/pkg/tree"
	"github.com/vango-dev/vpatch/pkg/vdom"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func list(items ...string) vdom.Node {
	children := make([]vdom.Node, 0, len(items))
	for _, it := range items {
		children = append(children, vdom.Li(vdom.Key(it), it))
	}
	return vdom.Ul(children)
}

// mounted returns a server attached to a memdom tree recording into a
// memory store.
func mounted(t *testing.T, opts ...Option) (*Server, *tree.Tree, snapshot.Store) {
	t.Helper()
	store := snapshot.NewMemoryStore()
	opts = append([]Option{WithLogger(quietLogger()), WithStore(store, "")}, opts...)
	srv := New(opts...)

	tr, err := tree.Mount(memdom.New(), list("a", "b"),
		tree.WithLogger(quietLogger()),
		tree.WithObserver(srv),
		tree.WithRecorder(snapshot.NewRecorder(store)),
	)
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	srv.Attach(tr)
	return srv, tr, store
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealth(t *testing.T) {
	srv, tr, _ := mounted(t)
	if _, err := tr.Update(context.Background(), list("b", "a")); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	rec := get(t, srv.Handler(), "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Status  string `json:"status"`
		Seq     uint64 `json:"seq"`
		Clients int    `json:"clients"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "ok" || body.Seq != 1 || body.Clients != 0 {
		t.Errorf("health = %+v", body)
	}
}

func TestHTML(t *testing.T) {
	srv, tr, _ := mounted(t)
	if _, err := tr.Update(context.Background(), list("b", "a", "c")); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	rec := get(t, srv.Handler(), "/html")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Body.String(); got != "<ul><li>b</li><li>a</li><li>c</li></ul>" {
		t.Errorf("body = %s", got)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}

	pretty := get(t, srv.Handler(), "/html?pretty=1").Body.String()
	if !strings.Contains(pretty, "\n  <li>b</li>\n") {
		t.Errorf("pretty body = %s", pretty)
	}
}

func TestNoTreeAttached(t *testing.T) {
	srv := New(WithLogger(quietLogger()))
	for _, path := range []string{"/html", "/tree"} {
		if rec := get(t, srv.Handler(), path); rec.Code != http.StatusServiceUnavailable {
			t.Errorf("GET %s = %d, want 503", path, rec.Code)
		}
	}
	if rec := get(t, srv.Handler(), "/cycles/last"); rec.Code != http.StatusNotFound {
		t.Errorf("GET /cycles/last = %d, want 404", rec.Code)
	}
	if rec := get(t, srv.Handler(), "/frames"); rec.Code != http.StatusNotImplemented {
		t.Errorf("GET /frames = %d, want 501", rec.Code)
	}
}

func TestTree(t *testing.T) {
	srv, _, _ := mounted(t)
	rec := get(t, srv.Handler(), "/tree")
	var w protocol.NodeWire
	if err := json.Unmarshal(rec.Body.Bytes(), &w); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if w.Tag != "ul" || len(w.Children) != 2 || w.Children[1].Key != "b" {
		t.Errorf("tree = %+v", w)
	}
}

func TestLastCycle(t *testing.T) {
	srv, tr, _ := mounted(t)
	if _, err := tr.Update(context.Background(), list("b", "a")); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	rec := get(t, srv.Handler(), "/cycles/last")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var msg CycleMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Seq != 1 || msg.Summary["ORDER"] != 1 || msg.Nodes != 5 {
		t.Errorf("cycle = %+v", msg)
	}
	if msg.Frame == nil || msg.Frame.Count() != 1 {
		t.Errorf("frame = %+v", msg.Frame)
	}
	if msg.HTML != "<ul><li>b</li><li>a</li></ul>" {
		t.Errorf("html = %s", msg.HTML)
	}
}

func TestFrames(t *testing.T) {
	srv, tr, _ := mounted(t)
	ctx := context.Background()
	if _, err := tr.Update(ctx, list("b", "a")); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.Update(ctx, list("b", "a", "c")); err != nil {
		t.Fatal(err)
	}

	rec := get(t, srv.Handler(), "/frames")
	var keys []string
	if err := json.Unmarshal(rec.Body.Bytes(), &keys); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []string{snapshot.FrameKey(snapshot.DefaultPrefix, 1), snapshot.FrameKey(snapshot.DefaultPrefix, 2)}
	if len(keys) != 2 || keys[0] != want[0] || keys[1] != want[1] {
		t.Fatalf("keys = %v, want %v", keys, want)
	}

	rec = get(t, srv.Handler(), "/"+keys[1])
	if rec.Code != http.StatusOK {
		t.Fatalf("GET frame status = %d: %s", rec.Code, rec.Body)
	}
	var pf protocol.PatchesFrame
	if err := json.Unmarshal(rec.Body.Bytes(), &pf); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if pf.Seq != 2 || pf.Count() != 1 {
		t.Errorf("frame = %+v", pf)
	}

	text := get(t, srv.Handler(), "/"+keys[0]+"?format=text").Body.String()
	if !strings.HasPrefix(text, "seq 1:") || !strings.Contains(text, "ORDER") {
		t.Errorf("text frame = %s", text)
	}

	raw := get(t, srv.Handler(), "/"+keys[0]+"?format=binary")
	if _, err := protocol.DecodeFrame(raw.Body.Bytes()); err != nil {
		t.Errorf("binary frame does not decode: %v", err)
	}
}

func TestFrameErrors(t *testing.T) {
	srv, _, store := mounted(t)
	ctx := context.Background()
	if err := store.Put(ctx, "frames/junk.vpf", []byte{0x01}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path string
		want int
	}{
		{"/frames/frames/missing.vpf", http.StatusNotFound},
		{"/frames/frames/junk.vpf", http.StatusUnprocessableEntity},
		{"/frames/frames/../x", http.StatusBadRequest},
	}
	for _, tc := range tests {
		rec := get(t, srv.Handler(), tc.path)
		if rec.Code != tc.want {
			t.Errorf("GET %s = %d, want %d: %s", tc.path, rec.Code, tc.want, rec.Body)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := metrics.New(metrics.WithRegistry(reg))
	srv := New(WithLogger(quietLogger()), WithRegistry(reg))

	tr, err := tree.Mount(memdom.New(), list("a"),
		tree.WithLogger(quietLogger()),
		tree.WithMetrics(collector),
	)
	if err != nil {
		t.Fatal(err)
	}
	srv.Attach(tr)
	get(t, srv.Handler(), "/html")

	body := get(t, srv.Handler(), "/metrics").Body.String()
	for _, want := range []string{"vpatch_tree_nodes", "vpatch_inspect_requests_total"} {
		if !strings.Contains(body, want) {
			t.Errorf("/metrics missing %s", want)
		}
	}
}

func TestWebSocketStream(t *testing.T) {
	srv, tr, _ := mounted(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var hello Message
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatalf("ReadJSON(hello) error = %v", err)
	}
	if hello.Type != MessageHello || hello.Cycle != nil {
		t.Errorf("hello = %+v", hello)
	}

	if _, err := tr.Update(context.Background(), list("a", "b", "c")); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON(cycle) error = %v", err)
	}
	if msg.Type != MessageCycle || msg.Cycle == nil || msg.Cycle.Seq != 1 || msg.Cycle.Summary["INSERT"] != 1 {
		t.Errorf("cycle message = %+v", msg.Cycle)
	}
	if srv.Hub().ClientCount() != 1 {
		t.Errorf("ClientCount() = %d, want 1", srv.Hub().ClientCount())
	}
}

func TestServeShutdown(t *testing.T) {
	srv := New(WithLogger(quietLogger()))
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz error = %v", err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

package inspect

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	vperrors "github.com/vango-dev/vpatch/internal/errors"
	"github.com/vango-dev/vpatch/pkg/middleware"
	"github.com/vango-dev/vpatch/pkg/native"
	"github.com/vango-dev/vpatch/pkg/native/memdom"
	"github.com/vango-dev/vpatch/pkg/protocol"
	"github.com/vango-dev/vpatch/pkg/render"
	"github.com/vango-dev/vpatch/pkg/snapshot"
	"github.com/vango-dev/vpatch/pkg/tree"
	"github.com/vango-dev/vpatch/pkg/vdom"
)

// CycleMessage is the JSON form of a tree.Report.
type CycleMessage struct {
	Seq          uint64                 `json:"seq"`
	Started      time.Time              `json:"started"`
	DurationUS   int64                  `json:"durationUs"`
	DiffUS       int64                  `json:"diffUs"`
	ApplyUS      int64                  `json:"applyUs"`
	Summary      map[string]int         `json:"summary"`
	Skipped      []int                  `json:"skipped,omitempty"`
	RootReplaced bool                   `json:"rootReplaced,omitempty"`
	Nodes        int                    `json:"nodes"`
	Frame        *protocol.PatchesFrame `json:"frame"`
	HTML         string                 `json:"html,omitempty"`
}

// Server serves debugging views of a mounted tree.
type Server struct {
	cfg    options
	hub    *Hub
	router chi.Router

	mu   sync.RWMutex
	tree *tree.Tree
	last *CycleMessage
}

// New creates an inspector server. Attach a tree and register the server
// as its observer to stream cycles:
//
//	srv := inspect.New(inspect.WithLogger(logger))
//	tr, _ := tree.Mount(doc, root, tree.WithObserver(srv))
//	srv.Attach(tr)
func New(opts ...Option) *Server {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Server{
		cfg: cfg,
		hub: NewHub(cfg.logger),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logger(s.cfg.logger))
	if s.cfg.registerer != nil {
		r.Use(middleware.Prometheus(middleware.WithRegistry(s.cfg.registerer)))
	}
	r.Use(middleware.OpenTelemetry(
		middleware.WithTracerName(s.cfg.tracerName),
		middleware.WithRequestFilter(func(r *http.Request) bool {
			return r.URL.Path != "/healthz" && r.URL.Path != "/metrics"
		}),
	))

	r.Get("/healthz", s.handleHealth)
	r.Get("/html", s.handleHTML)
	r.Get("/tree", s.handleTree)
	r.Get("/cycles/last", s.handleLastCycle)
	r.Get("/frames", s.handleFrames)
	r.Get("/frames/*", s.handleFrame)
	r.Get("/ws", s.handleWebSocket)
	if s.cfg.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.cfg.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the websocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Attach sets the tree served by /html and /tree.
func (s *Server) Attach(t *tree.Tree) {
	s.mu.Lock()
	s.tree = t
	s.mu.Unlock()
}

// CycleDone implements tree.Observer. It stores the report as the last
// cycle and broadcasts it to websocket clients.
func (s *Server) CycleDone(r *tree.Report) {
	msg := &CycleMessage{
		Seq:          r.Seq,
		Started:      r.Started,
		DurationUS:   r.Duration.Microseconds(),
		DiffUS:       r.DiffDuration.Microseconds(),
		ApplyUS:      r.ApplyDuration.Microseconds(),
		Summary:      make(map[string]int, len(r.Summary)),
		Skipped:      r.Skipped,
		RootReplaced: r.RootReplaced,
		Nodes:        r.Nodes,
		Frame:        protocol.FrameFromPatchSet(r.Seq, r.Patches),
	}
	for op, n := range r.Summary {
		msg.Summary[op.String()] = n
	}

	if t, _ := s.attached(); t != nil {
		t.View(func(root native.Node, _ vdom.Node) {
			if n, ok := root.(*memdom.Node); ok {
				msg.HTML = render.HTML(n, render.RendererConfig{})
			}
		})
	}

	s.mu.Lock()
	s.last = msg
	s.mu.Unlock()

	s.hub.Broadcast(Message{Type: MessageCycle, Cycle: msg})
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.cfg.logger.Info("inspector listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) attached() (*tree.Tree, *CycleMessage) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree, s.last
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	t, _ := s.attached()
	resp := map[string]any{
		"status":  "ok",
		"clients": s.hub.ClientCount(),
	}
	if t != nil {
		resp["seq"] = t.Seq()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHTML(w http.ResponseWriter, r *http.Request) {
	t, _ := s.attached()
	if t == nil {
		http.Error(w, "no tree attached", http.StatusServiceUnavailable)
		return
	}

	cfg := render.RendererConfig{Pretty: r.URL.Query().Get("pretty") != ""}
	var (
		html string
		ok   bool
	)
	t.View(func(root native.Node, _ vdom.Node) {
		var n *memdom.Node
		if n, ok = root.(*memdom.Node); ok {
			html = render.HTML(n, cfg)
		}
	})
	if !ok {
		http.Error(w, "the mounted driver is not an in-memory tree", http.StatusNotImplemented)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	t, _ := s.attached()
	if t == nil {
		http.Error(w, "no tree attached", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, protocol.NodeToWire(t.Current()))
}

func (s *Server) handleLastCycle(w http.ResponseWriter, r *http.Request) {
	_, last := s.attached()
	if last == nil {
		http.Error(w, "no cycle yet", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, last)
}

func (s *Server) handleFrames(w http.ResponseWriter, r *http.Request) {
	if s.cfg.store == nil {
		http.Error(w, "no snapshot store configured", http.StatusNotImplemented)
		return
	}
	keys, err := snapshot.Frames(r.Context(), s.cfg.store, s.cfg.prefix)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if keys == nil {
		keys = []string{}
	}
	writeJSON(w, http.StatusOK, keys)
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	if s.cfg.store == nil {
		http.Error(w, "no snapshot store configured", http.StatusNotImplemented)
		return
	}
	key := chi.URLParam(r, "*")

	if r.URL.Query().Get("format") == "binary" {
		data, err := s.cfg.store.Get(r.Context(), key)
		if err != nil {
			s.writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(data)
		return
	}

	pf, err := snapshot.Load(r.Context(), s.cfg.store, key)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(pf.String()))
		return
	}
	writeJSON(w, http.StatusOK, pf)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	_, last := s.attached()
	s.hub.HandleWebSocket(w, r, Message{Type: MessageHello, Cycle: last})
}

// writeError maps structured errors to status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case vperrors.HasCode(err, "E160"):
		status = http.StatusNotFound
	case errors.Is(err, snapshot.ErrInvalidKey):
		status = http.StatusBadRequest
	case vperrors.HasCode(err, "E170"):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		s.cfg.logger.Warn("inspector request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": strings.TrimSpace(err.Error())})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

var _ tree.Observer = (*Server)(nil)

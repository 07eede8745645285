package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

func newRouter(mw ...func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(mw...)
	r.Get("/frames/{key}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chi.URLParam(r, "key")))
	})
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	return r
}

func serve(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func gather(t *testing.T, reg *prometheus.Registry, name string) []*dto.Metric {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	for _, f := range families {
		if f.GetName() == name {
			return f.GetMetric()
		}
	}
	t.Fatalf("metric %s not found", name)
	return nil
}

func labels(m *dto.Metric) map[string]string {
	out := make(map[string]string)
	for _, l := range m.GetLabel() {
		out[l.GetName()] = l.GetValue()
	}
	return out
}

func TestPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := newRouter(Prometheus(WithRegistry(reg)))

	serve(r, "/frames/a")
	serve(r, "/frames/b")
	serve(r, "/boom")

	counts := make(map[string]float64)
	for _, m := range gather(t, reg, "vpatch_inspect_requests_total") {
		l := labels(m)
		counts[l["route"]+" "+l["code"]] = m.GetCounter().GetValue()
	}
	if counts["/frames/{key} 200"] != 2 {
		t.Errorf("frames requests = %v, want 2 under one route label", counts)
	}
	if counts["/boom 500"] != 1 {
		t.Errorf("boom requests = %v", counts)
	}

	for _, m := range gather(t, reg, "vpatch_inspect_request_duration_seconds") {
		if labels(m)["route"] == "/frames/{key}" && m.GetHistogram().GetSampleCount() != 2 {
			t.Errorf("duration samples = %d, want 2", m.GetHistogram().GetSampleCount())
		}
	}

	if g := gather(t, reg, "vpatch_inspect_requests_in_flight"); g[0].GetGauge().GetValue() != 0 {
		t.Errorf("in flight = %v after requests finished", g[0].GetGauge().GetValue())
	}
}

func TestPrometheusOptions(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := newRouter(Prometheus(
		WithRegistry(reg),
		WithNamespace("app"),
		WithSubsystem("debug"),
		WithConstLabels(prometheus.Labels{"env": "test"}),
		WithBuckets([]float64{0.1}),
	))
	serve(r, "/frames/x")

	m := gather(t, reg, "app_debug_requests_total")
	if labels(m[0])["env"] != "test" {
		t.Errorf("const label missing: %v", labels(m[0]))
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := newRouter(Logger(logger))

	serve(r, "/frames/abc")
	serve(r, "/boom")

	out := buf.String()
	for _, want := range []string{
		"level=DEBUG",
		`route=/frames/{key}`,
		"status=200",
		"bytes=3",
		"level=WARN",
		"status=500",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

func TestOpenTelemetry(t *testing.T) {
	var sawSpan bool
	r := chi.NewRouter()
	r.Use(OpenTelemetry(WithTracerProvider(noop.NewTracerProvider()), WithTracerName("test")))
	r.Get("/x", func(w http.ResponseWriter, r *http.Request) {
		sawSpan = trace.SpanFromContext(r.Context()) != nil
		w.WriteHeader(http.StatusNoContent)
	})

	if rec := serve(r, "/x"); rec.Code != http.StatusNoContent {
		t.Errorf("status = %d", rec.Code)
	}
	if !sawSpan {
		t.Error("handler context should carry a span")
	}
}

func TestOpenTelemetryFilter(t *testing.T) {
	called := false
	h := OpenTelemetry(WithRequestFilter(func(r *http.Request) bool {
		called = true
		return r.URL.Path != "/healthz"
	}))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	serve(h, "/healthz")
	if !called {
		t.Error("filter was not consulted")
	}
}

func TestRoutePatternWithoutChi(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := Prometheus(WithRegistry(reg))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	serve(h, "/plain")

	m := gather(t, reg, "vpatch_inspect_requests_total")
	if got := labels(m[0])["route"]; got != "/plain" {
		t.Errorf("route = %q, want /plain", got)
	}
}

func TestStatusRecorderDefaults(t *testing.T) {
	rec := &statusRecorder{ResponseWriter: httptest.NewRecorder()}
	if rec.code() != http.StatusOK {
		t.Errorf("code() = %d before writes, want 200", rec.code())
	}
	rec.WriteHeader(http.StatusTeapot)
	rec.WriteHeader(http.StatusOK)
	if rec.code() != http.StatusTeapot {
		t.Errorf("code() = %d, want first status", rec.code())
	}
	if _, _, err := rec.Hijack(); err == nil {
		t.Error("Hijack() on a recorder should fail")
	}
}

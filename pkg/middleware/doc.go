// Package middleware provides net/http middleware for the inspector server.
//
// This package includes:
//   - OpenTelemetry tracing middleware
//   - Prometheus request metrics middleware
//   - Structured request logging
//
// All three take the route label from chi's route context when the handler
// is mounted on a chi router, so /frames/{key} requests share one series.
//
//	r := chi.NewRouter()
//	r.Use(middleware.Logger(logger))
//	r.Use(middleware.Prometheus(middleware.WithRegistry(reg)))
//	r.Use(middleware.OpenTelemetry(middleware.WithTracerName("vpatch")))
//
// The tracer uses the global OpenTelemetry tracer provider unless one is
// passed with WithTracerProvider.
package middleware

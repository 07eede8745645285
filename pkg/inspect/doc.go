// Package inspect serves debugging views of a mounted tree over HTTP.
//
// Routes:
//
//	GET /healthz        status, websocket client count and current seq
//	GET /html           live tree as HTML (?pretty=1 for indented output)
//	GET /tree           current virtual tree as JSON
//	GET /cycles/last    the last cycle report
//	GET /frames         recorded frame keys
//	GET /frames/{key}   a recorded frame (?format=text|binary, JSON default)
//	GET /metrics        Prometheus metrics
//	GET /ws             websocket stream of cycle reports
//
// The server is a tree.Observer: register it with tree.WithObserver and
// every finished cycle is stored and broadcast as a "cycle" message.
package inspect

// Package server exposes the factorial engine over HTTP.
//
// Routes:
//
//	GET /healthz               liveness and a system load sample
//	GET /metrics               Prometheus exposition of the shared Recorder
//	GET /v1/factorial/{n}      computes n!, bounded by ?timeout=<ms>
//
// Every computation runs on the request context, so a client that goes away
// aborts its computation.
package server

// Package server assembles the editor service.
//
// NewServer builds every component from a config.Config: the logger,
// metrics registry, tracer, asset fetcher, image and font loaders, the
// document store and the editor itself. The gin router serves the HTTP API
// and the /stream WebSocket behind recovery, tracing, metrics, CORS and
// rate limiting middleware.
package server

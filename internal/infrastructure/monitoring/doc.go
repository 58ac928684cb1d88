/*
Package monitoring provides metrics collection for the editor server.

# Overview

Metrics are kept in a per-instance Prometheus registry. The Metrics
type satisfies the recorder interfaces of the history, snapshot and tools
packages.

# Features

- HTTP request metrics (latency, throughput, size)
- History operations and size
- Scene restores (outcome, duration) and font loads
- Tool apply and cancel commands per panel
- WebSocket connection metrics
- Uptime, Go runtime and process metrics

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	ed := editor.New(editor.Options{Metrics: metrics})
*/
package monitoring

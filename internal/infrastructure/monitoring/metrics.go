package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// History metrics
	HistoryOps  *prometheus.CounterVec
	HistorySize prometheus.Gauge

	// Restore metrics
	Restores        *prometheus.CounterVec
	RestoreDuration prometheus.Histogram
	FontLoads       *prometheus.CounterVec

	// Tool metrics
	ToolCommands *prometheus.CounterVec

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.GaugeFunc
	startTime time.Time

	// Snapshot for JSON API - track current values
	snapshot Snapshot

	mu sync.RWMutex
}

// Snapshot holds current metric values for the JSON API
type Snapshot struct {
	TotalRequests     int64   `json:"total_requests"`
	TotalErrors       int64   `json:"total_errors"`
	AvgDurationMS     float64 `json:"avg_duration_ms"`
	HistorySize       int     `json:"history_size"`
	Restores          int64   `json:"restores"`
	RestoreFailures   int64   `json:"restore_failures"`
	FontFailures      int64   `json:"font_failures"`
	ToolCommands      int64   `json:"tool_commands"`
	ActiveConnections int64   `json:"active_connections"`
	UptimeSeconds     float64 `json:"uptime_seconds"`

	totalDuration float64
}

// NewMetrics creates a metrics collector with its own registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		// HTTP metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "editor_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "editor_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "editor_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "editor_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),

		// History metrics
		HistoryOps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "editor_history_operations_total",
				Help: "Total number of history operations",
			},
			[]string{"op"},
		),
		HistorySize: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "editor_history_entries",
				Help: "Number of entries in the history",
			},
		),

		// Restore metrics
		Restores: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "editor_restores_total",
				Help: "Total number of scene restores",
			},
			[]string{"outcome"},
		),
		RestoreDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "editor_restore_duration_seconds",
				Help:    "Scene restore duration in seconds",
				Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
		),
		FontLoads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "editor_font_loads_total",
				Help: "Total number of font loads",
			},
			[]string{"outcome"},
		),

		// Tool metrics
		ToolCommands: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "editor_tool_commands_total",
				Help: "Total number of tool apply and cancel commands",
			},
			[]string{"panel", "command", "outcome"},
		),

		// WebSocket metrics
		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "editor_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "editor_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),
	}

	m.Uptime = factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "editor_uptime_seconds",
			Help: "Server uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Registry returns the registry holding every metric
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.totalDuration += duration.Seconds()
	if status != "" && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordHistory records a history operation and the resulting size
func (m *Metrics) RecordHistory(op string, size int) {
	m.HistoryOps.WithLabelValues(op).Inc()
	m.HistorySize.Set(float64(size))

	m.mu.Lock()
	m.snapshot.HistorySize = size
	m.mu.Unlock()
}

// RecordRestore records a scene restore
func (m *Metrics) RecordRestore(duration time.Duration, err error) {
	m.Restores.WithLabelValues(outcome(err)).Inc()
	m.RestoreDuration.Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.Restores++
	if err != nil {
		m.snapshot.RestoreFailures++
	}
	m.mu.Unlock()
}

// RecordFontLoad records a font load. The family is not a label to keep
// cardinality bounded.
func (m *Metrics) RecordFontLoad(_ string, err error) {
	m.FontLoads.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		m.mu.Lock()
		m.snapshot.FontFailures++
		m.mu.Unlock()
	}
}

// RecordToolCommand records an apply or cancel routed to a tool
func (m *Metrics) RecordToolCommand(panel, command string, err error) {
	m.ToolCommands.WithLabelValues(panel, command, outcome(err)).Inc()

	m.mu.Lock()
	m.snapshot.ToolCommands++
	m.mu.Unlock()
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
	m.mu.Lock()
	m.snapshot.ActiveConnections++
	m.mu.Unlock()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
	m.mu.Lock()
	m.snapshot.ActiveConnections--
	m.mu.Unlock()
}

// Snapshot returns the current values for the JSON API
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.snapshot
	if s.TotalRequests > 0 {
		s.AvgDurationMS = s.totalDuration / float64(s.TotalRequests) * 1000
	}
	s.UptimeSeconds = time.Since(m.startTime).Seconds()
	return s
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

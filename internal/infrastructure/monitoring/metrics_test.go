package monitoring

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordHistory(t *testing.T) {
	m := NewMetrics()

	m.RecordHistory("add", 1)
	m.RecordHistory("add", 2)
	m.RecordHistory("undo", 2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HistoryOps.WithLabelValues("add")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HistoryOps.WithLabelValues("undo")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.HistorySize))
	assert.Equal(t, 2, m.Snapshot().HistorySize)
}

func TestRecordRestoreAndFonts(t *testing.T) {
	m := NewMetrics()

	m.RecordRestore(5*time.Millisecond, nil)
	m.RecordRestore(time.Millisecond, errors.New("boom"))
	m.RecordFontLoad("Roboto", nil)
	m.RecordFontLoad("Missing", errors.New("not found"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Restores.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Restores.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FontLoads.WithLabelValues("error")))

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Restores)
	assert.Equal(t, int64(1), snap.RestoreFailures)
	assert.Equal(t, int64(1), snap.FontFailures)
}

func TestRecordToolCommand(t *testing.T) {
	m := NewMetrics()

	m.RecordToolCommand("filter", "apply", nil)
	m.RecordToolCommand("filter", "cancel", errors.New("failed"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ToolCommands.WithLabelValues("filter", "apply", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ToolCommands.WithLabelValues("filter", "cancel", "error")))
	assert.Equal(t, int64(2), m.Snapshot().ToolCommands)
}

func TestWSConnections(t *testing.T) {
	m := NewMetrics()

	m.IncWSConnections()
	m.IncWSConnections()
	m.DecWSConnections()
	m.RecordWSMessage("out", "history_changed")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.WSConnections))
	assert.Equal(t, int64(1), m.Snapshot().ActiveConnections)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WSMessages.WithLabelValues("out", "history_changed")))
}

func TestIndependentRegistries(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()

	a.RecordHistory("add", 1)

	assert.Equal(t, 0.0, testutil.ToFloat64(b.HistoryOps.WithLabelValues("add")))
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()

	router := gin.New()
	router.Use(Middleware(m))
	router.GET("/objects/:id", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	router.GET("/fail", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	router.GET("/metrics", gin.WrapH(m.Handler()))

	for _, path := range []string{"/objects/a", "/objects/b", "/fail"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/objects/:id", "200")))
	snap := m.Snapshot()
	assert.Equal(t, int64(3), snap.TotalRequests)
	assert.Equal(t, int64(1), snap.TotalErrors)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "editor_http_requests_total")
	assert.Contains(t, w.Body.String(), "editor_uptime_seconds")
}

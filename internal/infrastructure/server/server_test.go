package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/infrastructure/config"
)

func testConfig(t *testing.T, driver string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = "0"
	cfg.Logging.Level = "error"
	cfg.Storage.Driver = driver
	cfg.Storage.Path = filepath.Join(t.TempDir(), "documents")
	if driver == "sqlite" {
		cfg.Storage.Path += ".db"
	}
	return cfg
}

func newServer(t *testing.T, driver string) *Server {
	t.Helper()
	srv, err := NewServer(testConfig(t, driver))
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

func TestNewServerRoutes(t *testing.T) {
	srv := newServer(t, "none")

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/documents", nil))
	assert.Equal(t, http.StatusNotImplemented, w.Code)

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "editor_uptime_seconds")
}

func TestDocumentDrivers(t *testing.T) {
	for _, driver := range []string{"file", "sqlite"} {
		t.Run(driver, func(t *testing.T) {
			srv := newServer(t, driver)
			srv.Editor().NewFile(800, 600)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/documents", strings.NewReader(`{"name":"poster"}`))
			req.Header.Set("Content-Type", "application/json")
			srv.Handler().ServeHTTP(w, req)
			assert.Equal(t, http.StatusCreated, w.Code)

			w = httptest.NewRecorder()
			srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/documents", nil))
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), "poster")
		})
	}
}

func TestInvalidSettingsFile(t *testing.T) {
	cfg := testConfig(t, "none")
	cfg.Editor.SettingsFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := NewServer(cfg)
	assert.Error(t, err)
}

func TestServeStreamAndShutdown(t *testing.T) {
	srv, err := NewServer(testConfig(t, "none"))
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ln) }()

	base := "http://" + ln.Addr().String()
	resp, err := http.Get(base + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), "online")

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/stream", nil)
	require.NoError(t, err)
	defer conn.Close()

	readType := func() string {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		var msg struct {
			Type string `json:"type"`
		}
		require.NoError(t, sonic.Unmarshal(data, &msg))
		return msg.Type
	}
	assert.Equal(t, "connected", readType())

	require.Eventually(t, func() bool { return srv.hub.Clients() == 1 }, time.Second, 10*time.Millisecond)
	srv.Editor().NewFile(400, 300)

	seen := map[string]bool{}
	for range 10 {
		seen[readType()] = true
		if seen["history_changed"] {
			break
		}
	}
	assert.True(t, seen["history_changed"])

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	assert.NoError(t, <-done)
	assert.NoError(t, srv.Shutdown(ctx), "second shutdown is a no-op")
}

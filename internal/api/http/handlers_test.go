package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/canvas"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/editor"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/snapshot"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/providers/fonts"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
)

type fixedLoader struct{}

func (fixedLoader) Load(_ context.Context, src string) (canvas.Image, error) {
	return canvas.Image{Src: src, Width: 800, Height: 600}, nil
}

type fixture struct {
	t       *testing.T
	router  *gin.Engine
	editor  *editor.Editor
	metrics *monitoring.Metrics
}

func newFixture(t *testing.T, docs snapshot.Store) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	metrics := monitoring.NewMetrics()
	ed := editor.New(editor.Options{
		Viewport:  types.Size{Width: 1240, Height: 840},
		Images:    fixedLoader{},
		Documents: docs,
		Metrics:   metrics,
	})
	t.Cleanup(ed.Close)

	router := gin.New()
	router.Use(monitoring.Middleware(metrics))
	NewHandlers(ed, metrics, fonts.NewCatalog(nil), nil).Register(router)
	return &fixture{t: t, router: router, editor: ed, metrics: metrics}
}

func (f *fixture) do(method, path string, body any) *httptest.ResponseRecorder {
	f.t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	case []byte:
		reader = bytes.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(f.t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func historyNames(ed *editor.Editor) []string {
	var names []string
	for _, e := range ed.History() {
		names = append(names, e.Name)
	}
	return names
}

func TestHealthAndStatus(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode(t, w)["status"])

	w = f.do(http.MethodGet, "/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decode(t, w), "history")
}

func TestNewFileAndState(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodPost, "/new", map[string]float64{"width": 640, "height": 480})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{types.HistoryInitial.Name}, historyNames(f.editor))

	w = f.do(http.MethodGet, "/state", nil)
	require.Equal(t, http.StatusOK, w.Code)
	tag := w.Header().Get("ETag")
	require.NotEmpty(t, tag)
	state := decode(t, w)
	assert.Contains(t, state, "canvas")

	req := httptest.NewRequest(http.MethodGet, "/state", nil)
	req.Header.Set("If-None-Match", tag)
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotModified, w.Code)
}

func TestNewFileWithoutBodyUsesDefaults(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodPost, "/new", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, types.Size{Width: canvas.DefaultWidth, Height: canvas.DefaultHeight}, f.editor.Status().Canvas)
}

func TestPutStateRejectsMalformed(t *testing.T) {
	f := newFixture(t, nil)
	f.editor.NewFile(800, 600)

	w := f.do(http.MethodPut, "/state", "{")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, f.editor.History(), 1)
}

func TestPutStateAddsEntry(t *testing.T) {
	f := newFixture(t, nil)
	f.editor.NewFile(800, 600)
	data, err := f.editor.State()
	require.NoError(t, err)

	w := f.do(http.MethodPut, "/state", data)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, f.editor.History(), 2)
}

func TestSepiaFilterApplyAndUndo(t *testing.T) {
	f := newFixture(t, nil)

	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/image", map[string]string{"src": "photo.png"}).Code)
	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/panels/filter", nil).Code)
	w := f.do(http.MethodPost, "/tools/filter/sepia", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, decode(t, w)["dirty"])

	w = f.do(http.MethodPost, "/apply", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(types.PanelNavigation), decode(t, w)["panel"])
	assert.Equal(t, []string{types.HistoryInitial.Name, types.HistoryFilter.Name}, historyNames(f.editor))

	w = f.do(http.MethodGet, "/tools", nil)
	assert.Equal(t, []any{"sepia"}, decode(t, w)["applied"])

	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/history/undo", nil).Code)
	w = f.do(http.MethodGet, "/tools", nil)
	assert.Empty(t, decode(t, w)["applied"])

	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/history/redo", nil).Code)
	assert.Len(t, f.editor.History(), 2)
}

func TestUnknownFilterAndPanel(t *testing.T) {
	f := newFixture(t, nil)
	f.editor.NewFile(800, 600)

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/panels/nope", nil).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/tools/filter/nope", nil).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/tools/shapes/nope", nil).Code)
}

func TestTextAddThenCancel(t *testing.T) {
	f := newFixture(t, nil)
	f.editor.NewFile(800, 600)

	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/panels/text", nil).Code)
	w := f.do(http.MethodPost, "/tools/text", map[string]any{"text": "hello"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotEmpty(t, decode(t, w)["id"])
	assert.Len(t, f.editor.Layers(), 1)

	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/cancel", nil).Code)

	assert.Empty(t, f.editor.Layers())
	assert.Len(t, f.editor.History(), 1)
}

func TestReorderLayers(t *testing.T) {
	f := newFixture(t, nil)
	f.editor.NewFile(800, 600)
	for range 3 {
		require.Equal(t, http.StatusCreated, f.do(http.MethodPost, "/tools/shapes/rectangle", nil).Code)
	}
	before := f.editor.Layers()

	w := f.do(http.MethodPost, "/layers/reorder", map[string]int{"previous": 0, "current": 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	after := f.editor.Layers()
	assert.Equal(t, []any{before[1].ID, before[2].ID, before[0].ID},
		[]any{after[0].ID, after[1].ID, after[2].ID})
	names := historyNames(f.editor)
	assert.Equal(t, types.HistoryObjectOrder.Name, names[len(names)-1])

	w = f.do(http.MethodPost, "/layers/reorder", map[string]int{"previous": 0, "current": 9})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodPost, "/layers/reorder", map[string]int{"previous": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSelectionEndpoints(t *testing.T) {
	f := newFixture(t, nil)
	f.editor.NewFile(800, 600)

	assert.Equal(t, http.StatusConflict, f.do(http.MethodPatch, "/selection", map[string]string{"fill": "#fff"}).Code)
	assert.Equal(t, http.StatusConflict, f.do(http.MethodPost, "/objects/obj_missing/select", nil).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/objects/bad..id/select", nil).Code)

	w := f.do(http.MethodPost, "/tools/shapes/circle", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	oid := decode(t, w)["id"].(string)
	f.editor.Deselect()

	w = f.do(http.MethodPost, "/objects/"+oid+"/select", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, oid, decode(t, w)["id"])

	w = f.do(http.MethodPatch, "/selection", map[string]string{"fill": "#00ff00"})
	require.Equal(t, http.StatusOK, w.Code)
	values := decode(t, w)["values"].(map[string]any)
	assert.Equal(t, "#00ff00", values["fill"])

	w = f.do(http.MethodPost, "/selection/duplicate", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, f.editor.Layers(), 2)

	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/selection/move", map[string]any{"direction": "left", "amount": 5}).Code)
	entries := len(f.editor.History())
	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/selection/move", map[string]any{"direction": "left", "replace": true}).Code)
	assert.Len(t, f.editor.History(), entries)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/selection/move", map[string]any{"direction": "sideways"}).Code)

	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/selection/delete", nil).Code)
	assert.Len(t, f.editor.Layers(), 1)

	require.Equal(t, http.StatusOK, f.do(http.MethodDelete, "/selection", nil).Code)
	oidAfter, _ := f.editor.Selection()
	assert.Empty(t, oidAfter)
}

func TestZoom(t *testing.T) {
	f := newFixture(t, nil)
	f.editor.NewFile(800, 600)

	w := f.do(http.MethodPost, "/zoom", map[string]int{"percent": 50})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 50.0, decode(t, w)["zoom"])

	w = f.do(http.MethodPost, "/zoom/in", nil)
	assert.Equal(t, 55.0, decode(t, w)["zoom"])

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPut, "/viewport", map[string]int{"width": 0, "height": 10}).Code)
}

func TestOpenFileUpload(t *testing.T) {
	f := newFixture(t, nil)
	f.editor.NewFile(640, 480)
	data, err := f.editor.State()
	require.NoError(t, err)
	f.editor.NewFile(800, 600)

	upload := func(name string, content []byte) *httptest.ResponseRecorder {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		part, err := mw.CreateFormFile("file", name)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/files", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)
		return w
	}

	w := upload("scene.json", data)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, types.Size{Width: 640, Height: 480}, f.editor.Status().Canvas)

	w = upload("photo.png", []byte("not a png"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/files", nil).Code)
}

func TestHistoryEndpoints(t *testing.T) {
	f := newFixture(t, nil)
	f.editor.NewFile(800, 600)

	w := f.do(http.MethodPost, "/history", map[string]string{"name": "Checkpoint"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.do(http.MethodGet, "/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["entries"], 2)

	require.Equal(t, http.StatusOK, f.do(http.MethodPut, "/history/current", nil).Code)
	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/history/reload", nil).Code)

	require.Equal(t, http.StatusOK, f.do(http.MethodDelete, "/history", nil).Code)
	assert.Empty(t, f.editor.History())
	assert.Equal(t, http.StatusConflict, f.do(http.MethodPut, "/history/current", nil).Code)
}

func TestDocumentsEndpoints(t *testing.T) {
	store, err := snapshot.NewFileStore(t.TempDir(), snapshot.CompressionGzip)
	require.NoError(t, err)
	f := newFixture(t, store)
	f.editor.NewFile(320, 200)

	w := f.do(http.MethodPost, "/documents", map[string]string{"name": "poster"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	docID := decode(t, w)["id"].(string)

	w = f.do(http.MethodGet, "/documents", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, decode(t, w)["count"])

	require.Equal(t, http.StatusOK, f.do(http.MethodPut, "/documents/"+docID, nil).Code)

	f.editor.NewFile(800, 600)
	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/documents/"+docID+"/open", nil).Code)
	assert.Equal(t, types.Size{Width: 320, Height: 200}, f.editor.Status().Canvas)

	require.Equal(t, http.StatusOK, f.do(http.MethodDelete, "/documents/"+docID, nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodPost, "/documents/"+docID+"/open", nil).Code)
}

func TestDocumentsWithoutStore(t *testing.T) {
	f := newFixture(t, nil)

	assert.Equal(t, http.StatusNotImplemented, f.do(http.MethodGet, "/documents", nil).Code)
}

func TestStreamLogs(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodPost, "/logs", map[string]any{"source": "bot", "entries": []any{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodPost, "/logs", UILogStreamRequest{
		Source: "ui",
		Entries: []UILogEntry{
			{ID: "1", Level: "warn", Message: "slow render", Context: map[string]any{"ms": 120.0}},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, decode(t, w)["entries_processed"])
}

func TestMetricsEndpoints(t *testing.T) {
	f := newFixture(t, nil)
	f.do(http.MethodPost, "/new", nil)

	w := f.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "editor_history_operations_total"))

	w = f.do(http.MethodGet, "/metrics/json", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, decode(t, w)["history_size"])
}

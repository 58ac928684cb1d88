package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/canvas"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/editor"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/registry"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/snapshot"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/tools"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/providers/imports"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/utils"
)

var errNoMainImage = fmt.Errorf("%w: document has no main image", canvas.ErrNoImage)

// FontSearcher pages through the font catalog
type FontSearcher interface {
	Search(query, category string, page, perPage int) []types.FontItem
}

// Handlers serves the editor over HTTP
type Handlers struct {
	editor  *editor.Editor
	metrics *monitoring.Metrics
	fonts   FontSearcher
	hasher  *utils.Hasher
	logger  *zap.Logger
}

// NewHandlers creates a new handler set. metrics and fonts may be nil.
func NewHandlers(ed *editor.Editor, metrics *monitoring.Metrics, fonts FontSearcher, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		editor:  ed,
		metrics: metrics,
		fonts:   fonts,
		hasher:  utils.DefaultHasher(),
		logger:  logger,
	}
}

// Register mounts every route on r
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	r.GET("/status", h.Status)

	r.GET("/state", h.GetState)
	r.PUT("/state", h.PutState)
	r.POST("/new", h.NewFile)
	r.POST("/image", h.OpenImage)
	r.POST("/files", h.OpenFile)
	r.POST("/reset", h.Reset)

	history := r.Group("/history")
	history.GET("", h.History)
	history.POST("", h.AddHistory)
	history.PUT("/current", h.ReplaceHistory)
	history.DELETE("", h.ClearHistory)
	history.POST("/undo", h.Undo)
	history.POST("/redo", h.Redo)
	history.POST("/reload", h.Reload)

	r.POST("/panels/:panel", h.OpenPanel)
	r.DELETE("/panels", h.ClosePanel)
	r.POST("/apply", h.Apply)
	r.POST("/cancel", h.Cancel)

	r.GET("/layers", h.Layers)
	r.POST("/layers/reorder", h.Reorder)
	r.POST("/objects/:id/select", h.Select)

	sel := r.Group("/selection")
	sel.GET("", h.Selection)
	sel.PATCH("", h.SetValues)
	sel.DELETE("", h.Deselect)
	sel.POST("/duplicate", h.Duplicate)
	sel.POST("/delete", h.DeleteSelected)
	sel.POST("/move", h.Move)
	sel.POST("/front", h.BringToFront)
	sel.POST("/back", h.SendToBack)

	zoom := r.Group("/zoom")
	zoom.POST("", h.SetZoom)
	zoom.POST("/in", h.ZoomIn)
	zoom.POST("/out", h.ZoomOut)
	zoom.POST("/fit", h.FitToScreen)
	r.PUT("/viewport", h.SetViewport)

	t := r.Group("/tools")
	t.GET("", h.ToolCatalog)
	t.POST("/filter/:name", h.ToggleFilter)
	t.PATCH("/filter/:name", h.FilterValue)
	t.DELETE("/filter/:name", h.RemoveFilter)
	t.POST("/text", h.AddText)
	t.POST("/shapes/:name", h.AddShape)
	t.POST("/stickers/:category/:name", h.AddSticker)
	t.POST("/resize", h.Resize)
	t.POST("/crop", h.DrawCropZone)
	t.PATCH("/crop", h.ResizeCropZone)
	t.POST("/transform", h.Transform)
	t.POST("/draw", h.Draw)
	t.POST("/frame/:name", h.AddFrame)
	t.DELETE("/frame", h.RemoveFrame)
	t.POST("/corners", h.Corners)
	t.POST("/background", h.Background)

	r.GET("/fonts", h.Fonts)

	docs := r.Group("/documents")
	docs.GET("", h.ListDocuments)
	docs.POST("", h.SaveDocument)
	docs.PUT("/:id", h.SaveDocument)
	docs.POST("/:id/open", h.OpenDocument)
	docs.DELETE("/:id", h.DeleteDocument)

	r.POST("/logs", h.StreamLogs)

	if h.metrics != nil {
		r.GET("/metrics", gin.WrapH(h.metrics.Handler()))
		r.GET("/metrics/json", h.MetricsJSON)
	}
}

// Root handles the service banner
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "PixelDesk editor",
		"version": "0.1.0",
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	status := h.editor.Status()
	c.JSON(http.StatusOK, gin.H{
		"status":         "healthy",
		"content_loaded": status.State.ContentLoaded,
		"history":        status.History,
		"registry":       status.Registry,
	})
}

// Status returns the editor summary
func (h *Handlers) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.editor.Status())
}

// MetricsJSON returns the metrics snapshot
func (h *Handlers) MetricsJSON(c *gin.Context) {
	c.JSON(http.StatusOK, h.metrics.Snapshot())
}

// fail writes err with the status its kind maps to
func (h *Handlers) fail(c *gin.Context, err error) {
	code := statusOf(err)
	if code >= http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			tracing.Field(c.Request.Context()),
			zap.Error(err))
	}
	_ = c.Error(err)
	c.JSON(code, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   "Invalid request: " + err.Error(),
	})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, imports.ErrValidation),
		errors.Is(err, snapshot.ErrInvalidDocument),
		errors.Is(err, editor.ErrUnknownPanel),
		errors.Is(err, registry.ErrIndexOutOfRange),
		errors.Is(err, tools.ErrUnknownFilter),
		errors.Is(err, tools.ErrUnknownFrame),
		errors.Is(err, tools.ErrUnknownShape),
		errors.Is(err, tools.ErrUnknownSticker),
		errors.Is(err, tools.ErrInvalidRatio),
		errors.Is(err, tools.ErrEmptyStroke):
		return http.StatusBadRequest
	case errors.Is(err, snapshot.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, editor.ErrNoSelection),
		errors.Is(err, snapshot.ErrRestoreInProgress):
		return http.StatusConflict
	case errors.Is(err, canvas.ErrNoImage):
		return http.StatusUnprocessableEntity
	case errors.Is(err, editor.ErrNoDocuments):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/history"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/selection"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/id"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/utils"
)

// Layers lists the content objects, top-most first
func (h *Handlers) Layers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"layers": h.editor.Layers()})
}

// Reorder moves a layer and records the new order
func (h *Handlers) Reorder(c *gin.Context) {
	var req struct {
		Previous *int `json:"previous" binding:"required"`
		Current  *int `json:"current" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.editor.Reorder(*req.Previous, *req.Current); err != nil {
		h.fail(c, err)
		return
	}
	h.Layers(c)
}

// Select makes an object the active selection
func (h *Handlers) Select(c *gin.Context) {
	oid := c.Param("id")
	if err := utils.ValidateID(oid, "id", true); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.editor.Select(id.ObjectID(oid)); err != nil {
		h.fail(c, err)
		return
	}
	h.Selection(c)
}

// Selection returns the selected object and its form values
func (h *Handlers) Selection(c *gin.Context) {
	oid, values := h.editor.Selection()
	c.JSON(http.StatusOK, gin.H{
		"id":     oid,
		"values": values,
	})
}

// SetValues writes form values onto the selected object
func (h *Handlers) SetValues(c *gin.Context) {
	var values types.Values
	if !bindLimited(c, &values) {
		return
	}
	if values.Text != nil {
		if err := utils.ValidateText(*values.Text); err != nil {
			badRequest(c, err)
			return
		}
	}
	if err := h.editor.SetValues(values); err != nil {
		h.fail(c, err)
		return
	}
	h.Selection(c)
}

// Deselect clears the selection
func (h *Handlers) Deselect(c *gin.Context) {
	h.editor.Deselect()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Duplicate clones the selected object
func (h *Handlers) Duplicate(c *gin.Context) {
	oid, err := h.editor.Duplicate()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"id":      oid,
	})
}

// DeleteSelected removes the selected object
func (h *Handlers) DeleteSelected(c *gin.Context) {
	h.result(c, h.editor.Delete())
}

// Move nudges the selected object. With replace set the move amends the
// current history entry instead of adding one.
func (h *Handlers) Move(c *gin.Context) {
	var req struct {
		Direction selection.Direction `json:"direction" binding:"required,oneof=up down left right"`
		Amount    float64             `json:"amount"`
		Replace   bool                `json:"replace"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Amount == 0 {
		req.Amount = 1
	}
	mode := history.ModeAdd
	if req.Replace {
		mode = history.ModeReplace
	}
	h.result(c, h.editor.Move(req.Direction, req.Amount, mode))
}

// BringToFront raises the selected object to the top
func (h *Handlers) BringToFront(c *gin.Context) {
	h.result(c, h.editor.BringToFront())
}

// SendToBack lowers the selected object to the bottom
func (h *Handlers) SendToBack(c *gin.Context) {
	h.result(c, h.editor.SendToBack())
}

// ============================================================================
// Zoom
// ============================================================================

// SetZoom zooms to a percentage
func (h *Handlers) SetZoom(c *gin.Context) {
	var req struct {
		Percent int `json:"percent" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	zoomResponse(c, h.editor.SetZoom(req.Percent))
}

// ZoomIn zooms in by one step
func (h *Handlers) ZoomIn(c *gin.Context) { zoomResponse(c, h.editor.ZoomIn()) }

// ZoomOut zooms out by one step
func (h *Handlers) ZoomOut(c *gin.Context) { zoomResponse(c, h.editor.ZoomOut()) }

// FitToScreen zooms so the canvas fits the viewport
func (h *Handlers) FitToScreen(c *gin.Context) { zoomResponse(c, h.editor.FitToScreen()) }

// SetViewport changes the viewport size
func (h *Handlers) SetViewport(c *gin.Context) {
	var req types.Size
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Width <= 0 || req.Height <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "viewport must have a positive size",
		})
		return
	}
	zoomResponse(c, h.editor.SetViewport(req))
}

func zoomResponse(c *gin.Context, percent int) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"zoom":    percent,
	})
}

func (h *Handlers) result(c *gin.Context, err error) {
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// bindLimited binds a small JSON body into v, writing a 400 on failure
func bindLimited(c *gin.Context, v any) bool {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, utils.MaxValuesSize)
	if err := c.ShouldBindJSON(v); err != nil {
		badRequest(c, err)
		return false
	}
	return true
}

package http

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/snapshot"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/providers/imports"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/utils"
)

// GetState returns the captured scene as a state document, or 304 when
// If-None-Match matches its ETag
func (h *Handlers) GetState(c *gin.Context) {
	data, err := h.editor.State()
	if err != nil {
		h.fail(c, err)
		return
	}

	tag := h.hasher.ETag(data)
	c.Header("ETag", tag)
	if c.GetHeader("If-None-Match") == tag {
		c.Status(http.StatusNotModified)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// PutState records a state document as a new history entry and restores it
func (h *Handlers) PutState(c *gin.Context) {
	data, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, utils.MaxStateSize))
	if err != nil {
		badRequest(c, err)
		return
	}
	if err := utils.StateValidator().ValidateJSON(data); err != nil {
		h.fail(c, fmt.Errorf("%w: %w", snapshot.ErrInvalidDocument, err))
		return
	}
	if err := h.editor.LoadState(c.Request.Context(), data); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"history": h.editor.Status().History,
	})
}

// NewFile replaces the document with a blank canvas
func (h *Handlers) NewFile(c *gin.Context) {
	var req struct {
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}
	size := h.editor.NewFile(req.Width, req.Height)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"canvas":  size,
	})
}

// OpenImage replaces the document with the image at src
func (h *Handlers) OpenImage(c *gin.Context) {
	var req struct {
		Src string `json:"src" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.editor.OpenMainImage(c.Request.Context(), req.Src); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"canvas":  h.editor.Status().Canvas,
	})
}

// OpenFile imports an uploaded state file or image
func (h *Handlers) OpenFile(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		badRequest(c, err)
		return
	}
	f, err := header.Open()
	if err != nil {
		h.fail(c, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, utils.MaxStateSize+1))
	if err != nil {
		h.fail(c, err)
		return
	}
	if len(data) > utils.MaxStateSize {
		h.fail(c, fmt.Errorf("%w: file exceeds %d bytes", imports.ErrValidation, utils.MaxStateSize))
		return
	}

	background, _ := strconv.ParseBool(c.PostForm("background"))
	file, err := h.editor.OpenFile(c.Request.Context(), header.Filename, data, background)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"file":    file,
		"history": h.editor.Status().History,
	})
}

// Reset returns to an empty, unloaded editor
func (h *Handlers) Reset(c *gin.Context) {
	h.editor.ResetEditor()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ============================================================================
// History
// ============================================================================

// History lists the entries, oldest first
func (h *Handlers) History(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"entries": h.editor.History(),
		"stats":   h.editor.Status().History,
	})
}

// AddHistory records the scene, or the given state, as a new entry
func (h *Handlers) AddHistory(c *gin.Context) {
	var req struct {
		Name  string       `json:"name" binding:"required"`
		Icon  string       `json:"icon"`
		State *types.State `json:"state"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := utils.ValidateName(req.Name, "name"); err != nil {
		badRequest(c, err)
		return
	}
	snap := h.editor.AddHistory(types.HistoryName{Name: req.Name, Icon: req.Icon}, req.State)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"id":      snap.ID,
	})
}

// ReplaceHistory overwrites the current entry with the scene
func (h *Handlers) ReplaceHistory(c *gin.Context) {
	if !h.editor.ReplaceHistory() {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   "history is empty",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ClearHistory removes every entry
func (h *Handlers) ClearHistory(c *gin.Context) {
	h.editor.ClearHistory()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Undo restores the previous entry
func (h *Handlers) Undo(c *gin.Context) {
	h.navigate(c, h.editor.Undo(c.Request.Context()))
}

// Redo restores the next entry
func (h *Handlers) Redo(c *gin.Context) {
	h.navigate(c, h.editor.Redo(c.Request.Context()))
}

// Reload restores the current entry
func (h *Handlers) Reload(c *gin.Context) {
	h.navigate(c, h.editor.Reload(c.Request.Context()))
}

func (h *Handlers) navigate(c *gin.Context, err error) {
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"history": h.editor.Status().History,
	})
}

// ============================================================================
// Panels
// ============================================================================

// OpenPanel makes the named panel active
func (h *Handlers) OpenPanel(c *gin.Context) {
	if err := h.editor.OpenPanel(c.Param("panel")); err != nil {
		h.fail(c, err)
		return
	}
	h.panelResponse(c)
}

// ClosePanel returns to navigation without applying or cancelling
func (h *Handlers) ClosePanel(c *gin.Context) {
	h.editor.ClosePanel()
	h.panelResponse(c)
}

// Apply applies the tool of the active panel
func (h *Handlers) Apply(c *gin.Context) {
	if err := h.editor.Apply(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	h.panelResponse(c)
}

// Cancel reverts the tool of the active panel
func (h *Handlers) Cancel(c *gin.Context) {
	if err := h.editor.Cancel(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	h.panelResponse(c)
}

func (h *Handlers) panelResponse(c *gin.Context) {
	status := h.editor.Status()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"panel":   status.State.ActivePanel,
		"dirty":   status.Dirty,
		"history": status.History,
	})
}

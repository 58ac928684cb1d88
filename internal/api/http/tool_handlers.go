package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/editor"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/scene"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/tools"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/utils"
)

// ToolCatalog lists what every tool offers
func (h *Handlers) ToolCatalog(c *gin.Context) {
	var out gin.H
	_ = h.editor.WithTools(func(t *editor.Tools) error {
		out = gin.H{
			"filters":    t.Filter.All(),
			"applied":    t.Filter.AppliedFilters(),
			"shapes":     t.Shapes.Shapes(),
			"stickers":   t.Stickers.Categories(),
			"frames":     t.Frame.Frames(),
			"frame":      t.Frame.Active(),
			"ratios":     t.Crop.Ratios(),
			"brush":      t.Draw.Brush(),
			"background": t.Background.Color(),
			"presets":    t.Background.Presets(),
		}
		return nil
	})
	c.JSON(http.StatusOK, out)
}

// ToggleFilter applies the named filter, or removes it when applied
func (h *Handlers) ToggleFilter(c *gin.Context) {
	name := c.Param("name")
	h.toolResult(c, func(t *editor.Tools) error { return t.Filter.Toggle(name) })
}

// FilterValue changes an option of an applied filter
func (h *Handlers) FilterValue(c *gin.Context) {
	var req struct {
		Option string `json:"option" binding:"required"`
		Value  any    `json:"value"`
	}
	if !bindLimited(c, &req) {
		return
	}
	name := c.Param("name")
	h.toolResult(c, func(t *editor.Tools) error {
		t.Filter.OpenControls(name)
		return t.Filter.ApplyValue(name, req.Option, req.Value)
	})
}

// RemoveFilter removes the named filter
func (h *Handlers) RemoveFilter(c *gin.Context) {
	name := c.Param("name")
	h.toolResult(c, func(t *editor.Tools) error { return t.Filter.Remove(name) })
}

// AddText places a text object
func (h *Handlers) AddText(c *gin.Context) {
	var req struct {
		Text   string       `json:"text"`
		Values types.Values `json:"values"`
	}
	if !bindLimited(c, &req) {
		return
	}
	if err := utils.ValidateText(req.Text); err != nil {
		badRequest(c, err)
		return
	}
	h.addObject(c, func(t *editor.Tools) (*scene.Object, error) {
		return t.Text.Add(req.Text, req.Values), nil
	})
}

// AddShape places the named basic shape
func (h *Handlers) AddShape(c *gin.Context) {
	name := c.Param("name")
	h.addObject(c, func(t *editor.Tools) (*scene.Object, error) {
		return t.Shapes.AddBasicShape(name)
	})
}

// AddSticker places a sticker from a category
func (h *Handlers) AddSticker(c *gin.Context) {
	category, name := c.Param("category"), c.Param("name")
	ctx := c.Request.Context()
	h.addObject(c, func(t *editor.Tools) (*scene.Object, error) {
		return t.Stickers.AddSticker(ctx, category, name)
	})
}

// Resize scales the document
func (h *Handlers) Resize(c *gin.Context) {
	var req struct {
		Width       float64 `json:"width" binding:"required,gt=0"`
		Height      float64 `json:"height" binding:"required,gt=0"`
		Percentages bool    `json:"percentages"`
	}
	if !bindLimited(c, &req) {
		return
	}
	var changed bool
	_ = h.editor.WithTools(func(t *editor.Tools) error {
		changed = t.Resize.Resize(req.Width, req.Height, req.Percentages)
		return nil
	})
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"changed": changed,
		"canvas":  h.editor.Status().Canvas,
	})
}

// DrawCropZone draws the crop zone, optionally with an aspect ratio
func (h *Handlers) DrawCropZone(c *gin.Context) {
	var req struct {
		Ratio string `json:"ratio"`
	}
	if c.Request.ContentLength != 0 && !bindLimited(c, &req) {
		return
	}
	var box types.Box
	err := h.editor.WithTools(func(t *editor.Tools) error {
		var err error
		box, err = t.Crop.ChangeAspectRatio(req.Ratio)
		return err
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "zone": box})
}

// ResizeCropZone changes the size of the crop zone
func (h *Handlers) ResizeCropZone(c *gin.Context) {
	var req struct {
		Width  float64 `json:"width" binding:"required,gt=0"`
		Height float64 `json:"height" binding:"required,gt=0"`
	}
	if !bindLimited(c, &req) {
		return
	}
	var (
		box types.Box
		ok  bool
	)
	_ = h.editor.WithTools(func(t *editor.Tools) error {
		box, ok = t.Crop.ResizeZone(req.Width, req.Height)
		return nil
	})
	if !ok {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   "no crop zone",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "zone": box})
}

// Transform rotates and flips the document
func (h *Handlers) Transform(c *gin.Context) {
	var req struct {
		Rotate float64             `json:"rotate"`
		Flip   tools.FlipDirection `json:"flip" binding:"omitempty,oneof=horizontal vertical"`
	}
	if !bindLimited(c, &req) {
		return
	}
	h.toolResult(c, func(t *editor.Tools) error {
		t.Transform.Rotate(req.Rotate)
		if req.Flip != "" {
			return t.Transform.Flip(req.Flip)
		}
		return nil
	})
}

// Draw adds a stroke, optionally changing the brush first
func (h *Handlers) Draw(c *gin.Context) {
	var req struct {
		Path  string       `json:"path" binding:"required"`
		Brush *tools.Brush `json:"brush"`
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, utils.MaxStateSize)
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.addObject(c, func(t *editor.Tools) (*scene.Object, error) {
		if req.Brush != nil {
			t.Draw.SetBrush(*req.Brush)
		}
		return t.Draw.AddStroke(req.Path)
	})
}

// AddFrame draws the named frame
func (h *Handlers) AddFrame(c *gin.Context) {
	var req struct {
		Size  float64 `json:"size"`
		Color string  `json:"color"`
	}
	if c.Request.ContentLength != 0 && !bindLimited(c, &req) {
		return
	}
	name := c.Param("name")
	h.toolResult(c, func(t *editor.Tools) error {
		if err := t.Frame.Add(name, req.Size); err != nil {
			return err
		}
		if req.Color != "" {
			t.Frame.ChangeColor(req.Color)
		}
		return nil
	})
}

// RemoveFrame removes the active frame
func (h *Handlers) RemoveFrame(c *gin.Context) {
	h.toolResult(c, func(t *editor.Tools) error {
		t.Frame.RemoveFrame()
		return nil
	})
}

// Corners previews or applies rounded corners
func (h *Handlers) Corners(c *gin.Context) {
	var req struct {
		Radius  float64 `json:"radius" binding:"gte=0"`
		Preview bool    `json:"preview"`
	}
	if !bindLimited(c, &req) {
		return
	}
	h.toolResult(c, func(t *editor.Tools) error {
		if req.Preview {
			t.Corners.DrawPreview(req.Radius)
			return nil
		}
		if !t.Corners.Round(req.Radius) {
			return errNoMainImage
		}
		return nil
	})
}

// Background changes the canvas background color
func (h *Handlers) Background(c *gin.Context) {
	var req struct {
		Color string `json:"color" binding:"required"`
	}
	if !bindLimited(c, &req) {
		return
	}
	h.toolResult(c, func(t *editor.Tools) error {
		t.Background.SetColor(req.Color)
		return nil
	})
}

// Fonts pages through the font catalog
func (h *Handlers) Fonts(c *gin.Context) {
	if h.fonts == nil {
		c.JSON(http.StatusOK, gin.H{"fonts": []types.FontItem{}})
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	c.JSON(http.StatusOK, gin.H{
		"fonts": h.fonts.Search(c.Query("q"), c.Query("category"), page, perPage),
		"page":  page,
	})
}

func (h *Handlers) toolResult(c *gin.Context, fn func(t *editor.Tools) error) {
	if err := h.editor.WithTools(fn); err != nil {
		h.fail(c, err)
		return
	}
	h.panelResponse(c)
}

func (h *Handlers) addObject(c *gin.Context, fn func(t *editor.Tools) (*scene.Object, error)) {
	var obj *scene.Object
	err := h.editor.WithTools(func(t *editor.Tools) error {
		var err error
		obj, err = fn(t)
		return err
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"id":      obj.ID(),
		"dirty":   h.editor.Status().Dirty,
	})
}

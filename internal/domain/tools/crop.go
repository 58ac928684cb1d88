package tools

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/scene"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
)

var ErrInvalidRatio = errors.New("invalid aspect ratio")

// Ratio is a crop aspect ratio such as 16:9
type Ratio struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ParseRatio parses "w:h"
func ParseRatio(s string) (Ratio, error) {
	w, h, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Ratio{}, fmt.Errorf("%w: %q", ErrInvalidRatio, s)
	}
	rw, err := strconv.ParseFloat(strings.TrimSpace(w), 64)
	if err != nil || rw <= 0 {
		return Ratio{}, fmt.Errorf("%w: %q", ErrInvalidRatio, s)
	}
	rh, err := strconv.ParseFloat(strings.TrimSpace(h), 64)
	if err != nil || rh <= 0 {
		return Ratio{}, fmt.Errorf("%w: %q", ErrInvalidRatio, s)
	}
	return Ratio{Width: rw, Height: rh}, nil
}

func (r Ratio) String() string {
	return strconv.FormatFloat(r.Width, 'f', -1, 64) + ":" + strconv.FormatFloat(r.Height, 'f', -1, 64)
}

// CropState is the payload of the crop tool
type CropState struct {
	Ratio *Ratio `json:"ratio,omitempty"`
}

// CropTool trims the document to a zone drawn over the canvas
type CropTool struct {
	*ToolState[CropState]
	env Env
}

// NewCropTool creates the crop tool
func NewCropTool(env Env) *CropTool {
	t := &CropTool{env: env}
	t.ToolState = NewToolState(types.PanelCrop, types.HistoryCrop, env.History, env.Store, CropState{}, Hooks[CropState]{
		OnApply:  func(*CropState) { t.RemoveZone() },
		OnCancel: func(*CropState) { t.RemoveZone() },
	})
	return t
}

// Ratios returns the aspect ratios offered by the crop settings
func (t *CropTool) Ratios() []Ratio {
	var out []Ratio
	for _, item := range t.env.Settings.Tools.Crop.Items {
		if r, err := ParseRatio(item); err == nil {
			out = append(out, r)
		}
	}
	return out
}

// DrawZone draws the crop zone over the canvas. With a ratio the zone is the
// largest centered box of that ratio; without one it covers the canvas.
func (t *CropTool) DrawZone(ratio *Ratio) types.Box {
	t.RemoveZone()

	size := t.env.Canvas.Original()
	box := types.Box{Width: size.Width, Height: size.Height}
	if ratio != nil {
		box = fitRatio(size, *ratio)
	}

	zone := scene.New(types.KindCropZone, types.TypeRect)
	zone.Fill = "rgba(0,0,0,0)"
	zone.Stroke = "#fff"
	zone.StrokeWidth = 1
	zone.Left, zone.Top, zone.Width, zone.Height = box.Left, box.Top, box.Width, box.Height

	t.env.surface().Add(zone)
	t.env.surface().SetActive(zone, false)
	t.env.Canvas.Render()

	t.Set(func(p *CropState) { p.Ratio = ratio })
	return box
}

// ChangeAspectRatio redraws the zone with ratio; an empty ratio frees it
func (t *CropTool) ChangeAspectRatio(ratio string) (types.Box, error) {
	if ratio == "" {
		return t.DrawZone(nil), nil
	}
	r, err := ParseRatio(ratio)
	if err != nil {
		return types.Box{}, err
	}
	return t.DrawZone(&r), nil
}

// ResizeZone sets the zone size, keeping it inside the canvas and centered
// on its previous center
func (t *CropTool) ResizeZone(width, height float64) (types.Box, bool) {
	zone := t.zone()
	if zone == nil {
		return types.Box{}, false
	}
	size := t.env.Canvas.Original()
	width = math.Min(math.Max(width, 1), size.Width)
	height = math.Min(math.Max(height, 1), size.Height)

	cx := zone.Left + scaledWidth(zone)/2
	cy := zone.Top + scaledHeight(zone)/2
	zone.ScaleX, zone.ScaleY = 1, 1
	zone.Width, zone.Height = width, height
	zone.Left = clamp(cx-width/2, 0, size.Width-width)
	zone.Top = clamp(cy-height/2, 0, size.Height-height)

	t.env.surface().Modified(zone)
	t.env.Canvas.Render()
	return boxOf(zone), true
}

// Zone returns the current crop zone
func (t *CropTool) Zone() (types.Box, bool) {
	zone := t.zone()
	if zone == nil {
		return types.Box{}, false
	}
	return boxOf(zone), true
}

// RemoveZone removes the crop zone guide
func (t *CropTool) RemoveZone() {
	zones := t.env.surface().ObjectsOfKind(types.KindCropZone)
	if len(zones) == 0 {
		return
	}
	t.env.surface().Remove(zones...)
	t.env.Canvas.Render()
}

// Crop trims the document to box. Objects keep their position relative to
// the box; the main image is cut to it.
func (t *CropTool) Crop(box types.Box) bool {
	t.RemoveZone()

	size := t.env.Canvas.Original()
	box.Left = clamp(math.Round(box.Left), 0, size.Width)
	box.Top = clamp(math.Round(box.Top), 0, size.Height)
	box.Width = math.Min(math.Round(box.Width), size.Width-box.Left)
	box.Height = math.Min(math.Round(box.Height), size.Height-box.Top)
	if box.Width <= 0 || box.Height <= 0 {
		return false
	}

	t.env.Canvas.Resize(box.Width, box.Height)

	main := t.env.Canvas.MainImage()
	for _, obj := range t.env.content() {
		if obj == main {
			continue
		}
		obj.Left -= box.Left
		obj.Top -= box.Top
	}
	if main != nil {
		sx, sy := scaleOf(main.ScaleX), scaleOf(main.ScaleY)
		main.CropX += box.Left / sx
		main.CropY += box.Top / sy
		main.Width = box.Width / sx
		main.Height = box.Height / sy
		main.Left, main.Top = 0, 0
		t.env.surface().Modified(main)
	}

	t.env.Canvas.FitToScreen()
	t.env.Canvas.Render()
	t.MarkDirty()

	t.env.logger().Debug("Cropped canvas",
		zap.Float64("left", box.Left),
		zap.Float64("top", box.Top),
		zap.Float64("width", box.Width),
		zap.Float64("height", box.Height))
	return true
}

// Apply crops to the drawn zone, if any, and commits
func (t *CropTool) Apply(ctx context.Context) error {
	if box, ok := t.Zone(); ok {
		t.Crop(box)
	}
	return t.ToolState.Apply(ctx)
}

func (t *CropTool) zone() *scene.Object {
	zones := t.env.surface().ObjectsOfKind(types.KindCropZone)
	if len(zones) == 0 {
		return nil
	}
	return zones[len(zones)-1]
}

func fitRatio(size types.Size, r Ratio) types.Box {
	width := size.Width
	height := width * r.Height / r.Width
	if height > size.Height {
		height = size.Height
		width = height * r.Width / r.Height
	}
	return types.Box{
		Left:   (size.Width - width) / 2,
		Top:    (size.Height - height) / 2,
		Width:  width,
		Height: height,
	}
}

func boxOf(obj *scene.Object) types.Box {
	return types.Box{Left: obj.Left, Top: obj.Top, Width: scaledWidth(obj), Height: scaledHeight(obj)}
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return math.Min(math.Max(v, lo), hi)
}

var _ Tool = (*CropTool)(nil)

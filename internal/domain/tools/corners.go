package tools

import (
	"context"
	"math"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/scene"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
)

// CornersState is the payload of the corners tool
type CornersState struct {
	Radius float64 `json:"radius"`
}

// CornersTool rounds the corners of the main image
type CornersTool struct {
	*ToolState[CornersState]
	env Env
}

// NewCornersTool creates the corners tool
func NewCornersTool(env Env) *CornersTool {
	t := &CornersTool{env: env}
	t.ToolState = NewToolState(types.PanelCorners, types.HistoryCorners, env.History, env.Store,
		CornersState{}, Hooks[CornersState]{
			OnApply:  func(*CornersState) { t.removePreview() },
			OnCancel: func(*CornersState) { t.removePreview() },
		})
	return t
}

// DrawPreview outlines the canvas with corners of radius
func (t *CornersTool) DrawPreview(radius float64) {
	t.removePreview()

	size := t.env.Canvas.Original()
	radius = t.clampRadius(radius)

	preview := scene.New(types.KindRoundPreview, types.TypeRect)
	preview.Width, preview.Height = size.Width, size.Height
	preview.Fill = "rgba(0,0,0,0)"
	preview.Stroke = "#fff"
	preview.StrokeWidth = 2
	preview.Rx, preview.Ry = radius, radius
	preview.Selectable = types.BoolPtr(false)

	t.env.surface().Add(preview)
	t.env.Canvas.Render()
	t.Set(func(p *CornersState) { p.Radius = radius })
}

// Round rounds the main image corners. Returns false without a main image.
func (t *CornersTool) Round(radius float64) bool {
	t.removePreview()

	main := t.env.Canvas.MainImage()
	if main == nil {
		return false
	}
	radius = t.clampRadius(radius)
	main.CornerRadius = radius
	t.env.surface().Modified(main)
	t.env.Canvas.Render()

	t.Update(func(p *CornersState) { p.Radius = radius })
	return true
}

// Apply rounds to the previewed radius, if any, and commits
func (t *CornersTool) Apply(ctx context.Context) error {
	if len(t.env.surface().ObjectsOfKind(types.KindRoundPreview)) > 0 {
		t.Round(t.Get().Radius)
	}
	return t.ToolState.Apply(ctx)
}

// clampRadius keeps radius within half the shorter canvas side
func (t *CornersTool) clampRadius(radius float64) float64 {
	size := t.env.Canvas.Original()
	return clamp(radius, 0, math.Min(size.Width, size.Height)/2)
}

func (t *CornersTool) removePreview() {
	previews := t.env.surface().ObjectsOfKind(types.KindRoundPreview)
	if len(previews) == 0 {
		return
	}
	t.env.surface().Remove(previews...)
	t.env.Canvas.Render()
}

var _ Tool = (*CornersTool)(nil)

package tools

import (
	"math"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
)

// ResizeState is the payload of the resize tool
type ResizeState struct {
	Width               float64 `json:"width"`
	Height              float64 `json:"height"`
	UsePercentages      bool    `json:"usePercentages"`
	MaintainAspectRatio bool    `json:"maintainAspectRatio"`
}

// ResizeTool scales the document and every object on it
type ResizeTool struct {
	*ToolState[ResizeState]
	env Env
}

// NewResizeTool creates the resize tool
func NewResizeTool(env Env) *ResizeTool {
	return &ResizeTool{
		ToolState: NewToolState(types.PanelResize, types.HistoryResize, env.History, env.Store,
			ResizeState{MaintainAspectRatio: true}, Hooks[ResizeState]{}),
		env: env,
	}
}

// Resize scales the document to width x height, in pixels or in percent of
// the current size. Returns false when the size would not change.
func (t *ResizeTool) Resize(width, height float64, percentages bool) bool {
	current := t.env.Canvas.Original()
	curWidth, curHeight := math.Ceil(current.Width), math.Ceil(current.Height)
	if curWidth <= 0 || curHeight <= 0 {
		return false
	}

	newWidth, newHeight := math.Ceil(width), math.Ceil(height)
	if percentages {
		newWidth = curWidth * (width / 100)
		newHeight = curHeight * (height / 100)
	}
	if newWidth <= 0 || newHeight <= 0 || (newWidth == curWidth && newHeight == curHeight) {
		return false
	}

	scaleX := newWidth / curWidth
	scaleY := newHeight / curHeight

	t.env.Canvas.SetZoom(1, false)
	t.env.Canvas.Resize(math.Round(newWidth), math.Round(newHeight))

	for _, obj := range t.env.surface().Objects() {
		obj.ScaleX = scaleOf(obj.ScaleX) * scaleX
		obj.ScaleY = scaleOf(obj.ScaleY) * scaleY
		obj.Left *= scaleX
		obj.Top *= scaleY
	}

	t.env.Canvas.FitToScreen()
	t.env.Canvas.Render()

	t.Update(func(p *ResizeState) {
		p.Width, p.Height, p.UsePercentages = width, height, percentages
	})
	t.env.logger().Debug("Resized canvas",
		zap.Float64("width", math.Round(newWidth)),
		zap.Float64("height", math.Round(newHeight)))
	return true
}

// AspectHeight returns the height matching width at the current aspect ratio
func (t *ResizeTool) AspectHeight(width float64) float64 {
	size := t.env.Canvas.Original()
	if size.Width <= 0 {
		return 0
	}
	return math.Round(width * size.Height / size.Width)
}

// AspectWidth returns the width matching height at the current aspect ratio
func (t *ResizeTool) AspectWidth(height float64) float64 {
	size := t.env.Canvas.Original()
	if size.Height <= 0 {
		return 0
	}
	return math.Round(height * size.Width / size.Height)
}

var _ Tool = (*ResizeTool)(nil)

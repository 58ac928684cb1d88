package tools

import (
	"fmt"
	"math"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
)

// FlipDirection names a flip axis
type FlipDirection string

const (
	FlipHorizontal FlipDirection = "horizontal"
	FlipVertical   FlipDirection = "vertical"
)

// TransformState is the payload of the transform tool
type TransformState struct {
	Rotation float64 `json:"rotation"`
	FlippedX bool    `json:"flippedX"`
	FlippedY bool    `json:"flippedY"`
}

// TransformTool rotates and flips the whole document.
// Object angles rotate about the object's center.
type TransformTool struct {
	*ToolState[TransformState]
	env Env
}

// NewTransformTool creates the transform tool
func NewTransformTool(env Env) *TransformTool {
	return &TransformTool{
		ToolState: NewToolState(types.PanelTransform, types.HistoryTransform, env.History, env.Store,
			TransformState{}, Hooks[TransformState]{}),
		env: env,
	}
}

// Rotate turns the document by deg degrees clockwise. Quarter turns swap the
// canvas width and height.
func (t *TransformTool) Rotate(deg float64) {
	if math.Mod(deg, 360) == 0 {
		return
	}
	size := t.env.Canvas.Original()
	next := size
	if quarter := math.Mod(math.Abs(deg), 180); quarter == 90 {
		next = types.Size{Width: size.Height, Height: size.Width}
	}

	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	for _, obj := range t.env.content() {
		w, h := scaledWidth(obj), scaledHeight(obj)
		cx := obj.Left + w/2 - size.Width/2
		cy := obj.Top + h/2 - size.Height/2
		rx := cx*cos - cy*sin
		ry := cx*sin + cy*cos
		obj.Left = rx + next.Width/2 - w/2
		obj.Top = ry + next.Height/2 - h/2
		obj.Angle = normalizeAngle(obj.Angle + deg)
		t.env.surface().Modified(obj)
	}

	if next != size {
		t.env.Canvas.Resize(next.Width, next.Height)
		t.env.Canvas.FitToScreen()
	}
	t.env.Canvas.Render()

	t.Update(func(p *TransformState) { p.Rotation = normalizeAngle(p.Rotation + deg) })
}

// Flip mirrors the document along direction
func (t *TransformTool) Flip(direction FlipDirection) error {
	if direction != FlipHorizontal && direction != FlipVertical {
		return fmt.Errorf("unknown flip direction %q", direction)
	}
	size := t.env.Canvas.Original()
	for _, obj := range t.env.content() {
		if direction == FlipHorizontal {
			obj.Left = size.Width - obj.Left - scaledWidth(obj)
			obj.FlipX = !obj.FlipX
		} else {
			obj.Top = size.Height - obj.Top - scaledHeight(obj)
			obj.FlipY = !obj.FlipY
		}
		if obj.Angle != 0 {
			obj.Angle = normalizeAngle(-obj.Angle)
		}
		t.env.surface().Modified(obj)
	}
	t.env.Canvas.Render()

	t.Update(func(p *TransformState) {
		if direction == FlipHorizontal {
			p.FlippedX = !p.FlippedX
		} else {
			p.FlippedY = !p.FlippedY
		}
	})
	return nil
}

func normalizeAngle(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

var _ Tool = (*TransformTool)(nil)

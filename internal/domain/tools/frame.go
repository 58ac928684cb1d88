package tools

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/scene"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
)

var ErrUnknownFrame = errors.New("unknown frame")

const defaultFrameColor = "rgb(255, 255, 255)"

// frame border parts, clockwise from the top
var frameParts = []string{"top", "right", "bottom", "left"}

// FrameState is the payload of the frame tool
type FrameState struct {
	Active *types.Frame `json:"active,omitempty"`
}

// FrameTool draws a decorative frame around the document.
// The frame is document state: it is captured with the editor metadata and
// redrawn on restore.
type FrameTool struct {
	*ToolState[FrameState]
	env    Env
	frames []types.Frame
}

// NewFrameTool creates the frame tool; configured frames replace the
// builtin ones
func NewFrameTool(env Env) *FrameTool {
	frames := env.Settings.Tools.Frame.Items
	if len(frames) == 0 {
		frames = BuiltinFrames()
	}
	return &FrameTool{
		ToolState: NewToolState(types.PanelFrame, types.HistoryFrame, env.History, env.Store,
			FrameState{}, Hooks[FrameState]{}),
		env:    env,
		frames: frames,
	}
}

// Frames returns the available frames
func (t *FrameTool) Frames() []types.Frame { return append([]types.Frame(nil), t.frames...) }

// ByName returns the frame with the given name
func (t *FrameTool) ByName(name string) (types.Frame, bool) {
	for _, f := range t.frames {
		if f.Name == name {
			return f, true
		}
	}
	return types.Frame{}, false
}

// Active returns a copy of the active frame, or nil
func (t *FrameTool) Active() *types.Frame {
	p := t.Get()
	if p.Active == nil {
		return nil
	}
	f := *p.Active
	return &f
}

// Add draws the named frame; size is a percentage of the shorter canvas
// side, clamped to the frame's bounds, and 0 selects the frame default
func (t *FrameTool) Add(name string, size float64) error {
	def, ok := t.ByName(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFrame, name)
	}
	frame := def
	frame.Thickness = clampSize(def.Size, size)
	if frame.Mode == types.FrameModeBasic {
		frame.Color = defaultFrameColor
		if active := t.Active(); active != nil && active.Name == name && active.Color != "" {
			frame.Color = active.Color
		}
	}

	t.draw(frame)
	t.Update(func(p *FrameState) { p.Active = &frame })
	t.env.logger().Debug("Added frame", zap.String("frame", name), zap.Float64("size", frame.Thickness))
	return nil
}

// RemoveFrame removes the active frame as an edit
func (t *FrameTool) RemoveFrame() {
	if t.Active() == nil {
		return
	}
	t.Remove()
	t.MarkDirty()
}

// Remove clears the frame without marking the tool dirty
func (t *FrameTool) Remove() {
	t.removeBorders()
	t.Set(func(p *FrameState) { p.Active = nil })
}

// Restore redraws frame without marking the tool dirty
func (t *FrameTool) Restore(frame *types.Frame) error {
	if frame == nil {
		t.Remove()
		return nil
	}
	def, ok := t.ByName(frame.Name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFrame, frame.Name)
	}
	restored := def
	restored.Thickness = clampSize(def.Size, frame.Thickness)
	restored.Color = frame.Color

	t.draw(restored)
	t.Set(func(p *FrameState) { p.Active = &restored })
	return nil
}

// ChangeSize redraws the active frame with a new size
func (t *FrameTool) ChangeSize(size float64) bool {
	active := t.Active()
	if active == nil {
		return false
	}
	active.Thickness = clampSize(active.Size, size)
	t.draw(*active)
	t.Update(func(p *FrameState) { p.Active = active })
	return true
}

// ChangeColor recolors the active basic frame
func (t *FrameTool) ChangeColor(color string) bool {
	active := t.Active()
	if active == nil || active.Mode != types.FrameModeBasic || color == "" {
		return false
	}
	active.Color = color
	t.draw(*active)
	t.Update(func(p *FrameState) { p.Active = active })
	return true
}

// BorderURL returns the asset of one border part of an image frame
func (t *FrameTool) BorderURL(frame types.Frame, part string) string {
	return assetURL(t.env.Settings.BaseURL, "images/frames/"+frame.Name+"/"+part+".png")
}

func (t *FrameTool) draw(frame types.Frame) {
	t.removeBorders()

	size := t.env.Canvas.Original()
	thickness := math.Round(math.Min(size.Width, size.Height) * frame.Thickness / 100)
	if thickness <= 0 {
		return
	}

	boxes := []types.Box{
		{Left: 0, Top: 0, Width: size.Width, Height: thickness},
		{Left: size.Width - thickness, Top: 0, Width: thickness, Height: size.Height},
		{Left: 0, Top: size.Height - thickness, Width: size.Width, Height: thickness},
		{Left: 0, Top: 0, Width: thickness, Height: size.Height},
	}

	borders := make([]*scene.Object, 0, len(boxes))
	for i, box := range boxes {
		var obj *scene.Object
		if frame.Mode == types.FrameModeBasic {
			obj = scene.New(types.KindFrameBorder, types.TypeRect)
			obj.Fill = frame.Color
		} else {
			obj = scene.New(types.KindFrameBorder, types.TypeImage)
			obj.Src = t.BorderURL(frame, frameParts[i])
		}
		obj.Left, obj.Top, obj.Width, obj.Height = box.Left, box.Top, box.Width, box.Height
		obj.Selectable = types.BoolPtr(false)
		obj.SetExtra("framePart", frameParts[i])
		borders = append(borders, obj)
	}
	t.env.surface().Add(borders...)
	t.env.Canvas.Render()
}

func (t *FrameTool) removeBorders() {
	borders := t.env.surface().ObjectsOfKind(types.KindFrameBorder)
	if len(borders) == 0 {
		return
	}
	t.env.surface().Remove(borders...)
	t.env.Canvas.Render()
}

func clampSize(bounds types.FrameSize, size float64) float64 {
	if size <= 0 {
		size = bounds.Default
	}
	if bounds.Max > 0 {
		size = math.Min(size, bounds.Max)
	}
	return math.Max(size, bounds.Min)
}

var _ Tool = (*FrameTool)(nil)

package tools

import (
	"errors"
	"slices"
	"strings"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/scene"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
)

var ErrEmptyStroke = errors.New("stroke has no path")

// Brush configures free drawing
type Brush struct {
	Type  string  `json:"type"`
	Size  float64 `json:"size"`
	Color string  `json:"color"`
}

// DrawState is the payload of the draw tool
type DrawState struct {
	Brush   Brush `json:"brush"`
	Strokes int   `json:"strokes"`
}

// DrawTool adds free hand strokes
type DrawTool struct {
	*ToolState[DrawState]
	env Env
}

// NewDrawTool creates the draw tool with the first configured brush
func NewDrawTool(env Env) *DrawTool {
	brush := Brush{Type: "PencilBrush", Size: 10, Color: env.Settings.ObjectDefaults.Fill}
	cfg := env.Settings.Tools.Draw
	if len(cfg.BrushTypes) > 0 {
		brush.Type = cfg.BrushTypes[0]
	}
	if len(cfg.BrushSizes) > 0 {
		brush.Size = cfg.BrushSizes[0]
	}
	if brush.Color == "" {
		brush.Color = "#000"
	}
	return &DrawTool{
		ToolState: NewToolState(types.PanelDraw, types.HistoryDraw, env.History, env.Store,
			DrawState{Brush: brush}, Hooks[DrawState]{
				OnApply:  func(p *DrawState) { p.Strokes = 0 },
				OnCancel: func(p *DrawState) { p.Strokes = 0 },
			}),
		env: env,
	}
}

// Brush returns the current brush
func (t *DrawTool) Brush() Brush { return t.Get().Brush }

// SetBrush changes the brush; unknown brush types are ignored
func (t *DrawTool) SetBrush(b Brush) {
	known := t.env.Settings.Tools.Draw.BrushTypes
	t.Set(func(p *DrawState) {
		if b.Type != "" && (len(known) == 0 || slices.Contains(known, b.Type)) {
			p.Brush.Type = b.Type
		}
		if b.Size > 0 {
			p.Brush.Size = b.Size
		}
		if b.Color != "" {
			p.Brush.Color = b.Color
		}
	})
}

// AddStroke adds a drawn path with the current brush
func (t *DrawTool) AddStroke(path string) (*scene.Object, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrEmptyStroke
	}
	brush := t.Brush()

	obj := scene.New(types.KindDrawing, types.TypePath)
	obj.Path = path
	obj.Stroke = brush.Color
	obj.StrokeWidth = brush.Size
	t.env.surface().Add(obj)
	t.env.Canvas.Render()

	t.Update(func(p *DrawState) { p.Strokes++ })
	return obj, nil
}

var _ Tool = (*DrawTool)(nil)

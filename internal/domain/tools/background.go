package tools

import (
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
)

// BackgroundState is the payload of the background tool
type BackgroundState struct {
	Color string `json:"color"`
}

// BackgroundTool sets the canvas background color
type BackgroundTool struct {
	*ToolState[BackgroundState]
	env Env
}

// NewBackgroundTool creates the background tool
func NewBackgroundTool(env Env) *BackgroundTool {
	return &BackgroundTool{
		ToolState: NewToolState(types.PanelBackground, types.HistoryBackground, env.History, env.Store,
			BackgroundState{}, Hooks[BackgroundState]{}),
		env: env,
	}
}

// SetColor paints the canvas background; an empty color makes it transparent
func (t *BackgroundTool) SetColor(color string) {
	if t.env.surface().Background() == color {
		return
	}
	t.env.surface().SetBackground(color)
	t.env.Canvas.Render()
	t.Update(func(p *BackgroundState) { p.Color = color })
}

// Color returns the canvas background color
func (t *BackgroundTool) Color() string { return t.env.surface().Background() }

// Presets returns the configured color presets
func (t *BackgroundTool) Presets() []string {
	return append([]string(nil), t.env.Settings.ColorPresets...)
}

var _ Tool = (*BackgroundTool)(nil)

package tools

import (
	"math"
	"unicode/utf8"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/scene"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/selection"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
)

const (
	DefaultText     = "Double click to edit"
	DefaultFontSize = 40

	textMinWidth   = 250
	textMargin     = 20
	glyphAdvance   = 0.5
	lineHeightRate = 1.16
)

// FontCatalog resolves font families to catalog entries
type FontCatalog interface {
	Find(family string) (types.FontItem, bool)
}

// TextState is the payload of the text tool
type TextState struct {
	Added int `json:"added"`
}

// TextTool adds text objects styled from the selection form
type TextTool struct {
	*ToolState[TextState]
	env     Env
	catalog FontCatalog
}

// NewTextTool creates the text tool; catalog may be nil
func NewTextTool(env Env, catalog FontCatalog) *TextTool {
	return &TextTool{
		ToolState: NewToolState(types.PanelText, types.HistoryText, env.History, env.Store,
			TextState{}, Hooks[TextState]{
				OnApply:  func(p *TextState) { p.Added = 0 },
				OnCancel: func(p *TextState) { p.Added = 0 },
			}),
		env:     env,
		catalog: catalog,
	}
}

// Add places a text object styled with the form values and values, scaled
// and positioned so it does not cover other text. An empty text falls back
// to the configured default.
func (t *TextTool) Add(text string, values types.Values) *scene.Object {
	if text == "" {
		text = t.env.Settings.Tools.Text.DefaultText
	}
	if text == "" {
		text = DefaultText
	}

	obj := scene.New(types.KindText, types.TypeText)
	selection.Normalize(t.formValues()).ApplyTo(&obj.Properties)
	selection.Normalize(values).ApplyTo(&obj.Properties)
	obj.Text = text
	obj.Name = types.KindText
	obj.Type = types.TypeText
	if obj.FontSize <= 0 {
		obj.FontSize = DefaultFontSize
	}
	obj.Width, obj.Height = measureText(obj.Text, obj.FontSize)

	t.env.surface().Add(obj)
	t.autoPosition(obj)
	t.env.surface().SetActive(obj, false)
	t.env.Canvas.Render()

	t.Update(func(p *TextState) { p.Added++ })
	return obj
}

func (t *TextTool) formValues() types.Values {
	if t.env.Selection == nil {
		return types.ValuesOf(t.env.Settings.ObjectDefaults)
	}
	return t.env.Selection.Form()
}

func (t *TextTool) autoPosition(obj *scene.Object) {
	size := t.env.Canvas.Original()

	minWidth := math.Min(size.Width, textMinWidth)
	scaleToWidth(obj, math.Max(size.Width/3, minWidth))
	if scaledHeight(obj) > size.Height {
		scaleToHeight(obj, size.Height-textMargin)
	}

	center(obj, size)

	for _, other := range t.env.surface().Objects() {
		if other == obj || other.Type != types.TypeText {
			continue
		}
		if !intersects(other, obj) {
			continue
		}
		top := obj.Top + (other.Top - obj.Top) + scaledHeight(other)
		if top > size.Height-scaledHeight(other) {
			top = 0
		}
		obj.Top = top
	}
}

// UsedFonts returns the catalog entries of fonts used by text objects,
// excluding basic fonts, each listed once
func (t *TextTool) UsedFonts() []types.FontItem {
	if t.catalog == nil {
		return nil
	}
	var out []types.FontItem
	seen := make(map[string]bool)
	for _, obj := range t.env.surface().Objects() {
		if obj.Type != types.TypeText || seen[obj.FontFamily] {
			continue
		}
		seen[obj.FontFamily] = true
		font, ok := t.catalog.Find(obj.FontFamily)
		if !ok || font.Type == types.FontTypeBasic {
			continue
		}
		out = append(out, font)
	}
	return out
}

// measureText estimates the unscaled box of a single line of text
func measureText(text string, fontSize float64) (float64, float64) {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		n = 1
	}
	return float64(n) * fontSize * glyphAdvance, fontSize * lineHeightRate
}

var _ Tool = (*TextTool)(nil)

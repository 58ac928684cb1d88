package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectKindGuides(t *testing.T) {
	tests := []struct {
		kind      ObjectKind
		guide     bool
		selection bool
		known     bool
	}{
		{KindMainImage, false, false, true},
		{KindText, false, false, true},
		{KindCropZone, true, true, true},
		{KindRoundPreview, true, true, true},
		{KindFrameBorder, true, false, true},
		{ObjectKind("frame.corner.top"), true, false, true},
		{ObjectKind("balloon"), false, false, false},
		{ObjectKind(""), false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.guide, tt.kind.IsGuide())
			assert.Equal(t, tt.selection, tt.kind.IsSelectionGuide())
			assert.Equal(t, tt.known, tt.kind.Known())
		})
	}
}

func TestShadowVisible(t *testing.T) {
	var none *Shadow
	assert.False(t, none.Visible())
	assert.False(t, (&Shadow{OffsetX: -1}).Visible())
	assert.True(t, (&Shadow{OffsetX: 2, Blur: 3}).Visible())
}

func TestStateCloneIsDeep(t *testing.T) {
	orig := State{
		Canvas: []ObjectRecord{{
			Properties: Properties{
				Name:    KindImage,
				Filters: []Filter{{Type: "sepia"}},
				Shadow:  &Shadow{Color: "#000"},
			},
			Objects: []ObjectRecord{{Properties: Properties{Fill: "red"}}},
		}},
		Editor: EditorMeta{Frame: &Frame{Name: "oak"}, Fonts: []FontItem{{Family: "Roboto"}}},
	}

	cp := orig.Clone()
	cp.Canvas[0].Filters[0].Type = "invert"
	cp.Canvas[0].Shadow.Color = "#fff"
	cp.Canvas[0].Objects[0].Fill = "blue"
	cp.Editor.Frame.Name = "pine"
	cp.Editor.Fonts[0].Family = "Lato"

	assert.Equal(t, "sepia", orig.Canvas[0].Filters[0].Type)
	assert.Equal(t, "#000", orig.Canvas[0].Shadow.Color)
	assert.Equal(t, "red", orig.Canvas[0].Objects[0].Fill)
	assert.Equal(t, "oak", orig.Editor.Frame.Name)
	assert.Equal(t, "Roboto", orig.Editor.Fonts[0].Family)
}

func TestValuesApplyTo(t *testing.T) {
	p := Properties{Fill: "red", Opacity: 1, FontSize: 12}
	Values{Fill: StringPtr("blue"), Opacity: Float64Ptr(0.5)}.ApplyTo(&p)

	assert.Equal(t, "blue", p.Fill)
	assert.Equal(t, 0.5, p.Opacity)
	assert.Equal(t, float64(12), p.FontSize)
	assert.True(t, Values{}.Empty())
}

func TestParsePanel(t *testing.T) {
	p, ok := ParsePanel("filter")
	assert.True(t, ok)
	assert.Equal(t, PanelFilter, p)

	_, ok = ParsePanel("navigation")
	assert.True(t, ok)

	_, ok = ParsePanel("export")
	assert.False(t, ok)
}

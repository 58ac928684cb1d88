package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/scene"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/id"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
)

type genAllocator struct{}

func (genAllocator) Allocate() id.ObjectID { return id.NewObjectID() }

func defaults() types.Properties {
	p := types.DefaultProperties()
	p.Fill = "rgb(30, 139, 195)"
	p.StrokeWidth = 0.1
	p.FontFamily = "Times New Roman"
	p.FontWeight = 400
	p.TextAlign = "initial"
	p.Shadow = &types.Shadow{Color: "#000", Blur: 3, OffsetX: -1}
	return p
}

func newTracker() (*Tracker, *scene.Graph) {
	graph := scene.NewGraph()
	return NewTracker(graph, genAllocator{}, defaults()), graph
}

func selected(graph *scene.Graph, kind types.ObjectKind) *scene.Object {
	obj := scene.New(kind, types.TypeRect)
	obj.Data.ID = id.NewObjectID()
	graph.Add(obj)
	graph.SetActive(obj, true)
	return obj
}

func TestGetHidesGuides(t *testing.T) {
	tests := []struct {
		kind types.ObjectKind
		want bool
	}{
		{types.KindText, true},
		{types.KindFrameBorder, true},
		{types.KindCropZone, false},
		{types.KindRoundPreview, false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			tr, graph := newTracker()
			obj := selected(graph, tt.kind)

			if tt.want {
				assert.Same(t, obj, tr.Get())
				assert.Equal(t, obj.ID(), tr.ID())
			} else {
				assert.Nil(t, tr.Get())
				assert.Empty(t, tr.ID())
			}
		})
	}
}

func TestSetValuesRecolorsStickerPaths(t *testing.T) {
	tr, graph := newTracker()
	sticker := selected(graph, types.KindSticker)
	sticker.Fill = "black"
	sticker.Children = []*scene.Object{
		scene.New(types.KindSticker, types.TypePath),
		scene.New(types.KindSticker, types.TypePath),
	}
	sticker.Children[0].Stroke = "gray"

	require.True(t, tr.SetValues(types.Values{Fill: types.StringPtr("red")}))

	for _, path := range sticker.Children {
		assert.Equal(t, "red", path.Fill)
	}
	assert.Equal(t, "gray", sticker.Children[0].Stroke)
}

func TestSetValuesLeavesStickerPathsWhenFillUnchanged(t *testing.T) {
	tr, graph := newTracker()
	sticker := selected(graph, types.KindSticker)
	sticker.Fill = "black"
	sticker.Children = []*scene.Object{scene.New(types.KindSticker, types.TypePath)}
	sticker.Children[0].Fill = "white"

	tr.SetValues(types.Values{Fill: types.StringPtr("black"), Opacity: types.Float64Ptr(0.5)})

	assert.Equal(t, "white", sticker.Children[0].Fill)
	assert.Equal(t, 0.5, sticker.Opacity)
}

func TestSetValuesDropsHiddenShadow(t *testing.T) {
	tr, graph := newTracker()
	obj := selected(graph, types.KindShape)

	tr.SetValues(types.Values{Shadow: &types.Shadow{OffsetX: -1, Blur: 3}})
	assert.Nil(t, obj.Shadow)

	tr.SetValues(types.Values{Shadow: &types.Shadow{OffsetX: 2, Blur: 3}})
	require.NotNil(t, obj.Shadow)
	assert.Equal(t, 2.0, obj.Shadow.OffsetX)
}

func TestSetValuesNotifiesAndRenders(t *testing.T) {
	tr, graph := newTracker()
	selected(graph, types.KindShape)

	every, once := 0, 0
	tr.OnPropsChanged(func() { every++ })
	tr.OncePropsChanged(func() { once++ })

	renders := graph.Renders()
	tr.SetValues(types.Values{Opacity: types.Float64Ptr(0.3)})
	tr.SetValues(types.Values{Opacity: types.Float64Ptr(0.4)})

	assert.Equal(t, 2, every)
	assert.Equal(t, 1, once)
	assert.Equal(t, renders+2, graph.Renders())
}

func TestSetValuesWithoutSelection(t *testing.T) {
	tr, _ := newTracker()
	called := false
	tr.OnPropsChanged(func() { called = true })

	assert.False(t, tr.SetValues(types.Values{Fill: types.StringPtr("red")}))
	assert.False(t, called)
}

func TestDuplicate(t *testing.T) {
	tr, graph := newTracker()
	orig := selected(graph, types.KindText)
	orig.Left, orig.Top = 100, 50
	orig.Text = "hello"

	clone := tr.Duplicate()
	require.NotNil(t, clone)

	assert.NotEqual(t, orig.ID(), clone.ID())
	assert.Equal(t, 110.0, clone.Left)
	assert.Equal(t, 60.0, clone.Top)
	assert.Equal(t, "hello", clone.Text)
	assert.Same(t, clone, tr.Get())
	assert.Len(t, graph.Objects(), 2)
}

func TestSyncForm(t *testing.T) {
	tr, graph := newTracker()

	form := tr.SyncForm()
	require.NotNil(t, form.Fill)
	assert.Equal(t, "rgb(30, 139, 195)", *form.Fill)

	obj := selected(graph, types.KindShape)
	obj.Fill = "green"
	form = tr.SyncForm()
	assert.Equal(t, "green", *form.Fill)
	assert.Equal(t, form, tr.Form())

	tr.Deselect()
	assert.Equal(t, "rgb(30, 139, 195)", *tr.SyncForm().Fill)
}

func TestStackingAndTransforms(t *testing.T) {
	tr, graph := newTracker()
	bottom := scene.New(types.KindShape, types.TypeRect)
	graph.Add(bottom)
	obj := selected(graph, types.KindShape)
	top := scene.New(types.KindShape, types.TypeRect)
	graph.Add(top)

	assert.True(t, tr.BringToFront())
	assert.Equal(t, 2, graph.IndexOf(obj))
	assert.True(t, tr.SendToBack())
	assert.Equal(t, 0, graph.IndexOf(obj))

	tr.FlipHorizontal()
	assert.True(t, obj.FlipX)

	tr.Move(Right, 5)
	tr.Move(Down, 3)
	assert.Equal(t, 5.0, obj.Left)
	assert.Equal(t, 3.0, obj.Top)

	assert.True(t, tr.Delete())
	assert.Equal(t, -1, graph.IndexOf(obj))
	assert.Nil(t, tr.Get())
}

func TestPickRespectsSelectable(t *testing.T) {
	tr, graph := newTracker()
	main := scene.New(types.KindMainImage, types.TypeImage)
	main.Selectable = types.BoolPtr(false)
	graph.Add(main)

	assert.False(t, tr.Pick(main))
	assert.Nil(t, graph.Active())
}

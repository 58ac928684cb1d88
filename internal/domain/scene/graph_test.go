package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/id"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
)

type recordingIdentifier struct {
	identified []*Object
	forgotten  []*Object
}

func (r *recordingIdentifier) Identify(obj *Object) {
	if obj.Data.ID == "" {
		obj.Data.ID = id.NewObjectID()
	}
	r.identified = append(r.identified, obj)
}

func (r *recordingIdentifier) Forget(obj *Object) {
	r.forgotten = append(r.forgotten, obj)
}

func TestGraphAddIdentifiesBeforeListeners(t *testing.T) {
	g := NewGraph()
	g.SetIdentifier(&recordingIdentifier{})

	var seen id.ObjectID
	g.On(EventObjectAdded, func(ev Event) {
		seen = ev.Object.ID()
	})

	obj := New(types.KindText, types.TypeText)
	g.Add(obj)

	assert.NotEmpty(t, seen)
	assert.Equal(t, obj.ID(), seen)
}

func TestGraphOrderingAndMoveTo(t *testing.T) {
	g := NewGraph()
	a := New(types.KindShape, types.TypeRect)
	b := New(types.KindShape, types.TypeRect)
	c := New(types.KindShape, types.TypeRect)
	g.Add(a, b, c)

	g.MoveTo(a, 2)
	assert.Equal(t, []*Object{b, c, a}, g.Objects())

	g.MoveTo(a, -5)
	assert.Equal(t, []*Object{a, b, c}, g.Objects())

	g.MoveTo(c, 99)
	assert.Equal(t, 2, g.IndexOf(c))
	assert.Equal(t, -1, g.IndexOf(New(types.KindImage, types.TypeImage)))
}

func TestGraphRemoveClearsSelection(t *testing.T) {
	g := NewGraph()
	ident := &recordingIdentifier{}
	g.SetIdentifier(ident)

	obj := New(types.KindShape, types.TypeRect)
	g.Add(obj)
	g.SetActive(obj, true)

	var events []EventType
	g.On(EventSelectionCleared, func(ev Event) { events = append(events, ev.Type) })
	g.On(EventObjectRemoved, func(ev Event) { events = append(events, ev.Type) })

	g.Remove(obj)

	assert.Nil(t, g.Active())
	assert.Empty(t, g.Objects())
	assert.Equal(t, []EventType{EventSelectionCleared, EventObjectRemoved}, events)
	assert.Equal(t, []*Object{obj}, ident.forgotten)
}

func TestGraphSelectionEvents(t *testing.T) {
	g := NewGraph()
	a := New(types.KindShape, types.TypeRect)
	b := New(types.KindShape, types.TypeRect)
	g.Add(a, b)

	var got []Event
	for _, et := range []EventType{EventSelectionCreated, EventSelectionUpdated, EventSelectionCleared} {
		g.On(et, func(ev Event) { got = append(got, ev) })
	}

	g.SetActive(a, true)
	g.SetActive(b, false)
	g.DiscardActive()
	g.DiscardActive()

	require.Len(t, got, 3)
	assert.Equal(t, EventSelectionCreated, got[0].Type)
	assert.True(t, got[0].FromUser)
	assert.Equal(t, EventSelectionUpdated, got[1].Type)
	assert.Equal(t, EventSelectionCleared, got[2].Type)
}

func TestGraphReplaceReidentifies(t *testing.T) {
	g := NewGraph()
	ident := &recordingIdentifier{}
	g.SetIdentifier(ident)

	old := New(types.KindImage, types.TypeImage)
	g.Add(old)

	replaced := 0
	added := 0
	g.On(EventReplaced, func(Event) { replaced++ })
	g.On(EventObjectAdded, func(Event) { added++ })

	fresh := []*Object{New(types.KindText, types.TypeText), New(types.KindShape, types.TypeCircle)}
	g.Replace(fresh)

	assert.Equal(t, 1, replaced)
	assert.Equal(t, 0, added)
	assert.Equal(t, fresh, g.Objects())
	assert.Contains(t, ident.forgotten, old)
	for _, obj := range fresh {
		assert.NotEmpty(t, obj.ID())
	}
}

func TestGraphUnsubscribe(t *testing.T) {
	g := NewGraph()
	calls := 0
	off := g.On(EventObjectAdded, func(Event) { calls++ })

	g.Add(New(types.KindShape, types.TypeRect))
	off()
	g.Add(New(types.KindShape, types.TypeRect))

	assert.Equal(t, 1, calls)
}

func TestObjectRecordRoundTrip(t *testing.T) {
	sticker := New(types.KindSticker, types.TypeGroup)
	sticker.Data.ID = "obj_1"
	sticker.Children = []*Object{New(types.KindSticker, types.TypePath), New(types.KindSticker, types.TypePath)}
	sticker.SetExtra("hoverCursor", "move")

	rec := sticker.Record()
	require.Len(t, rec.Objects, 2)

	back := FromRecord(rec)
	assert.Equal(t, sticker.Properties, back.Properties)
	assert.Len(t, back.Children, 2)
	assert.Nil(t, back.Extra)
}

func TestObjectCloneIsDeep(t *testing.T) {
	obj := New(types.KindImage, types.TypeImage)
	obj.Filters = []types.Filter{{Type: "sepia"}}
	obj.SetExtra("k", 1)

	cp := obj.Clone()
	cp.Filters[0].Type = "invert"
	cp.Extra["k"] = 2

	assert.Equal(t, "sepia", obj.Filters[0].Type)
	assert.Equal(t, 1, obj.Extra["k"])
}

func TestLoopFlushRunsNestedWork(t *testing.T) {
	loop := NewLoop()
	var order []int

	loop.Defer(func() {
		order = append(order, 1)
		loop.Defer(func() { order = append(order, 3) })
	})
	loop.Defer(func() { order = append(order, 2) })

	assert.Equal(t, 2, loop.Pending())
	assert.Equal(t, 3, loop.Flush())
	assert.Equal(t, []int{1, 2, 3}, order)
	assert.Equal(t, 0, loop.Pending())
}

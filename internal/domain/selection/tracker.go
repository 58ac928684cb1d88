// Package selection tracks the active scene object and exposes its
// editable properties as a form.
package selection

import (
	"slices"
	"sync"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/scene"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/id"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
)

// DuplicateOffset is how far a duplicate is shifted from its original
const DuplicateOffset = 10

// Direction is a nudge direction
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// IDAllocator hands out fresh object ids
type IDAllocator interface {
	Allocate() id.ObjectID
}

// Tracker operates on the active selection
type Tracker struct {
	surface  scene.Surface
	ids      IDAllocator
	defaults types.Properties

	mu        sync.Mutex
	form      types.Values
	listeners map[int]func()
	once      map[int]bool
	nextID    int
}

// NewTracker creates a tracker; defaults fill the form when nothing is selected
func NewTracker(surface scene.Surface, ids IDAllocator, defaults types.Properties) *Tracker {
	return &Tracker{
		surface:   surface,
		ids:       ids,
		defaults:  defaults,
		form:      types.ValuesOf(defaults),
		listeners: make(map[int]func()),
		once:      make(map[int]bool),
	}
}

// Get returns the selected object, or nil when nothing or a guide is selected
func (t *Tracker) Get() *scene.Object {
	obj := t.surface.Active()
	if obj == nil || obj.Name == "" {
		return nil
	}
	if obj.Name.IsSelectionGuide() {
		return nil
	}
	return obj
}

// ID returns the id of the selected object, or ""
func (t *Tracker) ID() id.ObjectID {
	if obj := t.Get(); obj != nil {
		return obj.ID()
	}
	return ""
}

// Defaults returns the object defaults
func (t *Tracker) Defaults() types.Properties { return t.defaults.Clone() }

// Normalize drops a shadow that would not render
func Normalize(v types.Values) types.Values {
	if v.Shadow != nil && !v.Shadow.Visible() {
		v.Shadow = nil
	}
	return v
}

// SetValues applies a partial update to the selected object. A fill change
// on a sticker is written to each of its paths.
func (t *Tracker) SetValues(values types.Values) bool {
	obj := t.Get()
	if obj == nil {
		return false
	}

	if obj.Name == types.KindSticker && values.Fill != nil && *values.Fill != obj.Fill {
		for _, path := range obj.Children {
			path.Fill = *values.Fill
		}
	}

	Normalize(values).ApplyTo(&obj.Properties)

	t.mu.Lock()
	t.form = types.ValuesOf(obj.Properties)
	t.mu.Unlock()

	t.surface.Modified(obj)
	t.emitPropsChanged()
	t.surface.RequestRender()
	return true
}

// Set mutates the selected object through fn
func (t *Tracker) Set(fn func(p *types.Properties)) bool {
	obj := t.Get()
	if obj == nil {
		return false
	}
	fn(&obj.Properties)
	t.surface.Modified(obj)
	t.surface.RequestRender()
	return true
}

// Move nudges the selected object
func (t *Tracker) Move(dir Direction, amount float64) bool {
	return t.Set(func(p *types.Properties) {
		switch dir {
		case Up:
			p.Top -= amount
		case Down:
			p.Top += amount
		case Left:
			p.Left -= amount
		case Right:
			p.Left += amount
		}
	})
}

// BringToFront moves the selected object to the top of the stack
func (t *Tracker) BringToFront() bool {
	obj := t.Get()
	if obj == nil {
		return false
	}
	t.surface.MoveTo(obj, len(t.surface.Objects())-1)
	t.surface.RequestRender()
	return true
}

// SendToBack moves the selected object to the bottom of the stack
func (t *Tracker) SendToBack() bool {
	obj := t.Get()
	if obj == nil {
		return false
	}
	t.surface.MoveTo(obj, 0)
	t.surface.RequestRender()
	return true
}

// FlipHorizontal mirrors the selected object
func (t *Tracker) FlipHorizontal() bool {
	return t.Set(func(p *types.Properties) {
		p.FlipX = !p.FlipX
	})
}

// Duplicate clones the selected object with a fresh id, shifts it and
// selects the clone
func (t *Tracker) Duplicate() *scene.Object {
	original := t.Get()
	if original == nil {
		return nil
	}

	t.Deselect()

	clone := original.Clone()
	clone.Left = original.Left + DuplicateOffset
	clone.Top = original.Top + DuplicateOffset
	clone.Name = original.Name
	clone.Data.ID = t.ids.Allocate()

	t.surface.Add(clone)
	t.Select(clone)
	t.surface.RequestRender()
	return clone
}

// Delete removes the selected object from the scene
func (t *Tracker) Delete() bool {
	obj := t.Get()
	if obj == nil {
		return false
	}
	t.surface.Remove(obj)
	t.surface.RequestRender()
	return true
}

// Deselect clears the selection
func (t *Tracker) Deselect() {
	t.surface.DiscardActive()
	t.surface.RequestRender()
}

// Select makes obj the active selection programmatically
func (t *Tracker) Select(obj *scene.Object) {
	t.surface.SetActive(obj, false)
}

// Pick makes obj the active selection as a user action
func (t *Tracker) Pick(obj *scene.Object) bool {
	if obj == nil || !obj.IsSelectable() {
		return false
	}
	t.surface.SetActive(obj, true)
	t.surface.RequestRender()
	return true
}

// SyncForm refreshes the form from the selection, or from the defaults
// when nothing is selected
func (t *Tracker) SyncForm() types.Values {
	var form types.Values
	if obj := t.Get(); obj != nil {
		form = types.ValuesOf(obj.Properties)
	} else {
		form = types.ValuesOf(t.defaults)
	}

	t.mu.Lock()
	t.form = form
	t.mu.Unlock()
	return form
}

// Form returns the current form values
func (t *Tracker) Form() types.Values {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.form
}

// ============================================================================
// Properties Changed
// ============================================================================

// OnPropsChanged registers fn for every property write
func (t *Tracker) OnPropsChanged(fn func()) func() {
	return t.subscribe(fn, false)
}

// OncePropsChanged registers fn for the next property write only
func (t *Tracker) OncePropsChanged(fn func()) func() {
	return t.subscribe(fn, true)
}

func (t *Tracker) subscribe(fn func(), once bool) func() {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := t.nextID
	t.nextID++
	t.listeners[key] = fn
	if once {
		t.once[key] = true
	}

	return func() {
		t.mu.Lock()
		delete(t.listeners, key)
		delete(t.once, key)
		t.mu.Unlock()
	}
}

func (t *Tracker) emitPropsChanged() {
	t.mu.Lock()
	keys := make([]int, 0, len(t.listeners))
	for k := range t.listeners {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	fns := make([]func(), 0, len(keys))
	for _, k := range keys {
		fns = append(fns, t.listeners[k])
		if t.once[k] {
			delete(t.listeners, k)
			delete(t.once, k)
		}
	}
	t.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

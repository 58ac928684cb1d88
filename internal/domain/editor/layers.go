package editor

import (
	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/history"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/selection"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/id"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
)

// Layer describes one content object, top-most first
type Layer struct {
	ID       id.ObjectID      `json:"id"`
	Kind     types.ObjectKind `json:"kind"`
	Type     string           `json:"type"`
	Index    int              `json:"index"`
	Selected bool             `json:"selected"`
	Label    string           `json:"label,omitempty"`
}

// Layers returns the layer list
func (e *Editor) Layers() []Layer {
	e.mu.Lock()
	defer e.mu.Unlock()

	objects := e.registry.All()
	out := make([]Layer, len(objects))
	for i, obj := range objects {
		out[i] = Layer{
			ID:       obj.ID(),
			Kind:     obj.Name,
			Type:     obj.Type,
			Index:    i,
			Selected: e.registry.IsActive(obj),
			Label:    obj.Text,
		}
	}
	return out
}

// Reorder moves the layer at prev to cur and records the new order
func (e *Editor) Reorder(prev, cur int) error {
	return e.do(func() error {
		if prev == cur {
			return nil
		}
		if err := e.registry.Reorder(prev, cur); err != nil {
			return err
		}
		e.history.Commit(history.ModeAdd, types.HistoryObjectOrder)
		return nil
	})
}

// Select makes the object with the given id the active selection, as a
// user pick would
func (e *Editor) Select(oid id.ObjectID) error {
	return e.do(func() error {
		obj := e.registry.GetByID(oid)
		if obj == nil || !e.selection.Pick(obj) {
			return ErrNoSelection
		}
		return nil
	})
}

// Deselect clears the selection
func (e *Editor) Deselect() {
	_ = e.do(func() error {
		e.selection.Deselect()
		return nil
	})
}

// Selection returns the form of the selected object, or the defaults
func (e *Editor) Selection() (id.ObjectID, types.Values) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selection.ID(), e.selection.Form()
}

// SetValues writes form values onto the selected object. The object
// settings tool records the change when its panel is applied.
func (e *Editor) SetValues(values types.Values) error {
	return e.do(func() error {
		if e.selection.Get() == nil {
			return ErrNoSelection
		}
		e.selection.SetValues(values)
		return nil
	})
}

// Duplicate clones the selected object and records it
func (e *Editor) Duplicate() (id.ObjectID, error) {
	var oid id.ObjectID
	err := e.do(func() error {
		clone := e.selection.Duplicate()
		if clone == nil {
			return ErrNoSelection
		}
		oid = clone.ID()
		e.history.Commit(history.ModeAdd, types.HistoryObjectAdded)
		return nil
	})
	return oid, err
}

// Delete removes the selected object and records it
func (e *Editor) Delete() error {
	return e.do(func() error {
		if !e.selection.Delete() {
			return ErrNoSelection
		}
		e.history.Commit(history.ModeAdd, types.HistoryObjectGone)
		return nil
	})
}

// Move nudges the selected object. ModeAdd records a new entry; ModeReplace
// folds the move into the current one, as successive steps of one drag do.
func (e *Editor) Move(dir selection.Direction, amount float64, mode history.Mode) error {
	return e.do(func() error {
		if !e.selection.Move(dir, amount) {
			return ErrNoSelection
		}
		e.history.Commit(mode, types.HistoryObjectMoved)
		return nil
	})
}

// BringToFront raises the selected object to the top and records it
func (e *Editor) BringToFront() error {
	return e.do(func() error {
		if !e.selection.BringToFront() {
			return ErrNoSelection
		}
		e.registry.Sync()
		e.history.Commit(history.ModeAdd, types.HistoryObjectOrder)
		return nil
	})
}

// SendToBack lowers the selected object to the bottom and records it
func (e *Editor) SendToBack() error {
	return e.do(func() error {
		if !e.selection.SendToBack() {
			return ErrNoSelection
		}
		e.registry.Sync()
		e.history.Commit(history.ModeAdd, types.HistoryObjectOrder)
		return nil
	})
}

// ============================================================================
// Zoom
// ============================================================================

// ZoomIn zooms in by one step
func (e *Editor) ZoomIn() int {
	return e.zoom(func() { e.canvas.ZoomIn() })
}

// ZoomOut zooms out by one step
func (e *Editor) ZoomOut() int {
	return e.zoom(func() { e.canvas.ZoomOut() })
}

// SetZoom zooms to percent, clamped to the canvas limits
func (e *Editor) SetZoom(percent int) int {
	return e.zoom(func() { e.canvas.SetZoom(float64(percent)/100, true) })
}

// FitToScreen zooms so the canvas fits the viewport
func (e *Editor) FitToScreen() int {
	return e.zoom(e.canvas.FitToScreen)
}

// SetViewport changes the viewport size and refits the canvas
func (e *Editor) SetViewport(size types.Size) int {
	return e.zoom(func() {
		e.canvas.SetViewport(size)
		e.canvas.FitToScreen()
	})
}

func (e *Editor) zoom(fn func()) int {
	var percent int
	_ = e.do(func() error {
		fn()
		percent = e.canvas.ZoomPercent()
		return nil
	})
	return percent
}

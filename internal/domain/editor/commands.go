package editor

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/canvas"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/history"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/registry"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/snapshot"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/state"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/providers/imports"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
)

// Status summarizes the editor for clients
type Status struct {
	State    state.State    `json:"state"`
	History  history.Stats  `json:"history"`
	Registry registry.Stats `json:"registry"`
	Canvas   types.Size     `json:"canvas"`
	Zoom     int            `json:"zoom"`
	Dirty    bool           `json:"dirty"`
}

// Status returns a summary of the editor
func (e *Editor) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Status{
		State:    e.store.State(),
		History:  e.history.Stats(),
		Registry: e.registry.Stats(),
		Canvas:   e.canvas.Original(),
		Zoom:     e.canvas.ZoomPercent(),
		Dirty:    e.coord.Dirty(),
	}
}

// ============================================================================
// History
// ============================================================================

// Undo restores the previous history entry; a no-op at the first entry
func (e *Editor) Undo(ctx context.Context) error {
	return e.do(func() error { return e.history.Undo(ctx) })
}

// Redo restores the next history entry; a no-op at the last entry
func (e *Editor) Redo(ctx context.Context) error {
	return e.do(func() error { return e.history.Redo(ctx) })
}

// Reload restores the current history entry
func (e *Editor) Reload(ctx context.Context) error {
	return e.do(func() error { return e.history.Reload(ctx) })
}

// AddHistory records a new entry named name. A nil st captures the scene.
func (e *Editor) AddHistory(name types.HistoryName, st *types.State) types.Snapshot {
	var snap types.Snapshot
	_ = e.do(func() error {
		if st == nil {
			snap = e.history.Add(name)
		} else {
			snap = e.history.AddState(name, *st)
		}
		return nil
	})
	return snap
}

// ReplaceHistory overwrites the current entry with the scene
func (e *Editor) ReplaceHistory() bool {
	var ok bool
	_ = e.do(func() error {
		ok = e.history.ReplaceCurrent()
		return nil
	})
	return ok
}

// LoadState records a serialized state as a new entry and restores it.
// Malformed documents change nothing.
func (e *Editor) LoadState(ctx context.Context, data []byte) error {
	return e.do(func() error { return e.history.AddFromJSON(ctx, data) })
}

// CurrentState captures the scene without recording it
func (e *Editor) CurrentState() types.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CurrentState()
}

// State returns the captured scene as a state document
func (e *Editor) State() ([]byte, error) {
	return snapshot.Encode(e.CurrentState())
}

// ClearHistory removes every entry
func (e *Editor) ClearHistory() {
	_ = e.do(func() error {
		e.history.Clear()
		return nil
	})
}

// AddInitial records the initial entry when the history is empty
func (e *Editor) AddInitial() bool {
	var ok bool
	_ = e.do(func() error {
		ok = e.history.AddInitial()
		return nil
	})
	return ok
}

// History returns the history entries, oldest first
func (e *Editor) History() []types.Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Entries()
}

// ============================================================================
// Panels and tools
// ============================================================================

// OpenPanel makes name the active panel
func (e *Editor) OpenPanel(name string) error {
	panel, ok := types.ParsePanel(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPanel, name)
	}
	return e.do(func() error {
		if panel == types.PanelNavigation {
			e.store.Dispatch(state.CloseForePanel{})
			return nil
		}
		e.store.Dispatch(state.OpenPanel{Panel: panel})
		return nil
	})
}

// ClosePanel returns to the navigation panel without applying or cancelling
func (e *Editor) ClosePanel() {
	_ = e.do(func() error {
		e.store.Dispatch(state.CloseForePanel{})
		return nil
	})
}

// Apply applies the tool of the active panel
func (e *Editor) Apply(ctx context.Context) error {
	return e.do(func() error { return e.coord.Apply(ctx) })
}

// Cancel cancels the tool of the active panel
func (e *Editor) Cancel(ctx context.Context) error {
	return e.do(func() error { return e.coord.Cancel(ctx) })
}

// WithTools runs fn with exclusive access to the tools
func (e *Editor) WithTools(fn func(t *Tools) error) error {
	return e.do(func() error { return fn(e.tools) })
}

// ============================================================================
// Documents
// ============================================================================

// NewFile replaces the document with a blank canvas
func (e *Editor) NewFile(width, height float64) types.Size {
	var size types.Size
	_ = e.do(func() error {
		e.reset(false)
		if width <= 0 || height <= 0 {
			if blank := e.settings.BlankCanvasSize; blank != nil {
				width, height = blank.Width, blank.Height
			} else {
				width, height = canvas.DefaultWidth, canvas.DefaultHeight
			}
		}
		size = e.canvas.OpenNew(width, height)
		return nil
	})
	return size
}

// OpenMainImage replaces the document with the image at src
func (e *Editor) OpenMainImage(ctx context.Context, src string) error {
	return e.do(func() error {
		e.reset(false)
		_, err := e.canvas.LoadMainImage(ctx, src)
		return err
	})
}

// OpenFile imports an uploaded file. State files replace the document.
// Images are added as an overlay, or replace the main image when
// background is set.
func (e *Editor) OpenFile(ctx context.Context, name string, data []byte, background bool) (imports.File, error) {
	file, err := e.validator.Validate(name, data)
	if err != nil {
		return imports.File{}, err
	}

	err = e.do(func() error {
		switch {
		case file.IsState():
			return e.openStateFile(ctx, file.Data)
		case background:
			return e.openBackgroundImage(ctx, file.Source)
		default:
			if _, err := e.canvas.OpenImage(ctx, file.Source); err != nil {
				return err
			}
			e.history.Add(types.HistoryOverlay)
			return nil
		}
	})
	if err != nil {
		return imports.File{}, err
	}

	e.logger.Info("Imported file",
		zap.String("name", file.Name),
		zap.String("mime", file.MIME),
		zap.Int64("size", file.Size),
		zap.Bool("background", background))
	return file, nil
}

func (e *Editor) openStateFile(ctx context.Context, data []byte) error {
	st, err := snapshot.DecodeState(data)
	if err != nil {
		return fmt.Errorf("%w: %w", imports.ErrValidation, err)
	}
	e.validator.SanitizeState(&st)
	return e.openState(ctx, st)
}

// openState replaces the document and the history with st
func (e *Editor) openState(ctx context.Context, st types.State) error {
	e.reset(false)
	e.history.AddState(types.HistoryInitial, st)
	if err := e.history.Reload(ctx); err != nil {
		return err
	}
	e.store.Dispatch(state.ContentLoaded{})
	return nil
}

func (e *Editor) openBackgroundImage(ctx context.Context, src string) error {
	e.reset(true)
	recorded := e.history.List().Len() > 0
	if _, err := e.canvas.LoadMainImage(ctx, src); err != nil {
		return err
	}
	if recorded {
		e.history.Add(types.HistoryLoadedState)
	}
	return nil
}

// ResetEditor returns to an empty, unloaded editor
func (e *Editor) ResetEditor() {
	_ = e.do(func() error {
		e.reset(false)
		return nil
	})
}

func (e *Editor) reset(preserveHistory bool) {
	e.graph.Clear()
	e.tools.Frame.Remove()
	e.tools.Crop.RemoveZone()
	e.coord.Reset()
	e.store.Dispatch(state.ResetEditor{})
	if !preserveHistory {
		e.history.Clear()
	}
}

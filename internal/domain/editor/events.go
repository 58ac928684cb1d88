package editor

import (
	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/state"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
)

// EventType names an editor notification
type EventType string

const (
	EventHistoryChanged EventType = "history_changed"
	EventObjectsSynced  EventType = "objects_synced"
	EventContentLoaded  EventType = "content_loaded"
	EventPanelChanged   EventType = "panel_changed"
	EventZoomChanged    EventType = "zoom_changed"
)

// Event is an editor notification
type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data,omitempty"`
}

// HistoryEvent is the payload of EventHistoryChanged
type HistoryEvent struct {
	Size     int  `json:"size"`
	Pointer  int  `json:"pointer"`
	CanUndo  bool `json:"canUndo"`
	CanRedo  bool `json:"canRedo"`
	Restored bool `json:"restored"`
}

// PanelEvent is the payload of EventPanelChanged
type PanelEvent struct {
	Panel    types.Panel `json:"panel"`
	Previous types.Panel `json:"previous"`
}

// Subscribe registers fn for every editor event. fn runs while a command
// holds the editor and must not call back into it.
func (e *Editor) Subscribe(fn func(Event)) func() {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	key := e.nextSub
	e.nextSub++
	e.subs[key] = fn
	return func() {
		e.subMu.Lock()
		defer e.subMu.Unlock()
		delete(e.subs, key)
	}
}

func (e *Editor) emit(ev Event) {
	e.subMu.RLock()
	fns := make([]func(Event), 0, len(e.subs))
	for _, fn := range e.subs {
		fns = append(fns, fn)
	}
	e.subMu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// publishAction turns store transitions into editor events
func (e *Editor) publishAction(action state.Action, next state.State) {
	switch a := action.(type) {
	case state.HistoryUpdated:
		e.emit(Event{Type: EventHistoryChanged, Data: historyEvent(next, false)})
	case state.HistoryChanged:
		e.emit(Event{Type: EventHistoryChanged, Data: historyEvent(next, true)})
	case state.ObjectsSynced:
		e.emit(Event{Type: EventObjectsSynced, Data: map[string]int{"count": a.Count}})
	case state.ContentLoaded:
		e.emit(Event{Type: EventContentLoaded})
	case state.SetZoom:
		e.emit(Event{Type: EventZoomChanged, Data: map[string]int{"percent": a.Percent}})
	}

	if panel := state.ActivePanel(next); panel != e.lastPanel {
		prev := e.lastPanel
		e.lastPanel = panel
		e.emit(Event{Type: EventPanelChanged, Data: PanelEvent{Panel: panel, Previous: prev}})
	}
}

func historyEvent(s state.State, restored bool) HistoryEvent {
	return HistoryEvent{
		Size:     s.HistorySize,
		Pointer:  s.HistoryPointer,
		CanUndo:  state.CanUndo(s),
		CanRedo:  state.CanRedo(s),
		Restored: restored,
	}
}

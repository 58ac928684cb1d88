// Package state holds the editor's application state.
//
// State changes only through named actions reduced by Reduce. Readers use
// the selector functions; listeners receive every action after it has been
// reduced.
package state

import (
	"slices"
	"sync"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/id"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
)

// State is the editor's application state
type State struct {
	Visible          bool        `json:"visible"`
	ActivePanel      types.Panel `json:"activePanel"`
	ContentLoaded    bool        `json:"contentLoaded"`
	Zoom             int         `json:"zoom"`
	ActiveObjectID   id.ObjectID `json:"activeObjectId,omitempty"`
	ActiveObjIsText  bool        `json:"activeObjIsText"`
	ActiveObjIsShape bool        `json:"activeObjIsShape"`
	Layers           int         `json:"layers"`
	HistorySize      int         `json:"historySize"`
	HistoryPointer   int         `json:"historyPointer"`
}

// Initial returns the state of a freshly opened editor
func Initial() State {
	return State{
		Visible:        true,
		ActivePanel:    types.PanelNavigation,
		Zoom:           100,
		HistoryPointer: -1,
	}
}

// Listener receives an action and the state it produced
type Listener func(action Action, next State)

// Store owns the application state
type Store struct {
	mu        sync.RWMutex
	state     State
	listeners map[int]Listener
	nextID    int
}

// NewStore creates a store holding initial
func NewStore(initial State) *Store {
	return &Store{
		state:     initial,
		listeners: make(map[int]Listener),
	}
}

// Dispatch reduces action into the state and notifies listeners
func (s *Store) Dispatch(action Action) {
	s.mu.Lock()
	s.state = Reduce(s.state, action)
	next := s.state
	keys := make([]int, 0, len(s.listeners))
	for k := range s.listeners {
		keys = append(keys, k)
	}
	s.mu.Unlock()

	slices.Sort(keys)
	for _, k := range keys {
		s.mu.RLock()
		fn, ok := s.listeners[k]
		s.mu.RUnlock()
		if ok {
			fn(action, next)
		}
	}
}

// State returns a copy of the current state
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers fn and returns its unsubscribe func
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.nextID
	s.nextID++
	s.listeners[key] = fn

	return func() {
		s.mu.Lock()
		delete(s.listeners, key)
		s.mu.Unlock()
	}
}

// ============================================================================
// Selectors
// ============================================================================

// ActivePanel returns the open panel
func ActivePanel(s State) types.Panel { return s.ActivePanel }

// IsNavigation reports whether no tool panel is open
func IsNavigation(s State) bool { return s.ActivePanel == types.PanelNavigation }

// IsContentLoaded reports whether a document is loaded
func IsContentLoaded(s State) bool { return s.ContentLoaded }

// ZoomPercent returns the zoom level in percent
func ZoomPercent(s State) int { return s.Zoom }

// HasSelection reports whether an object is selected
func HasSelection(s State) bool { return s.ActiveObjectID != "" }

// CanUndo reports whether there is a history entry before the current one
func CanUndo(s State) bool { return s.HistoryPointer > 0 }

// CanRedo reports whether there is a history entry after the current one
func CanRedo(s State) bool { return s.HistoryPointer >= 0 && s.HistoryPointer < s.HistorySize-1 }

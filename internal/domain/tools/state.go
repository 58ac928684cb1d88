package tools

import (
	"context"
	"fmt"
	"sync"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/state"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
)

// History is the part of the history service tools commit through
type History interface {
	Add(name types.HistoryName) types.Snapshot
	Reload(ctx context.Context) error
}

// Tool is a named editing mode owning a panel
type Tool interface {
	Panel() types.Panel
	Dirty() bool
	Clean()
	Apply(ctx context.Context) error
	Cancel(ctx context.Context) error
}

// Hooks are the tool specific side effects of apply and cancel. Every hook
// is optional and runs with the payload locked.
type Hooks[T any] struct {
	OnApply          func(p *T)
	OnCancel         func(p *T)
	StayOpenOnApply  func(p *T) bool
	StayOpenOnCancel func(p *T) bool
}

// ToolState is the clean/dirty machine shared by every tool.
// Update marks the tool dirty; Set changes the payload without doing so.
type ToolState[T any] struct {
	panel   types.Panel
	name    types.HistoryName
	history History
	store   *state.Store
	hooks   Hooks[T]

	mu      sync.Mutex
	dirty   bool
	payload T
}

// NewToolState creates a clean tool state
func NewToolState[T any](panel types.Panel, name types.HistoryName, history History, store *state.Store, initial T, hooks Hooks[T]) *ToolState[T] {
	return &ToolState[T]{
		panel:   panel,
		name:    name,
		history: history,
		store:   store,
		hooks:   hooks,
		payload: initial,
	}
}

// Panel returns the panel owned by the tool
func (s *ToolState[T]) Panel() types.Panel { return s.panel }

// HistoryName returns the label recorded when the tool applies
func (s *ToolState[T]) HistoryName() types.HistoryName { return s.name }

// Dirty reports whether the tool has uncommitted changes
func (s *ToolState[T]) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// MarkDirty flags uncommitted changes
func (s *ToolState[T]) MarkDirty() {
	s.mu.Lock()
	s.dirty = true
	s.mu.Unlock()
}

// Clean drops the dirty flag without committing or discarding anything
func (s *ToolState[T]) Clean() {
	s.mu.Lock()
	s.dirty = false
	s.mu.Unlock()
}

// Update mutates the payload and marks the tool dirty
func (s *ToolState[T]) Update(fn func(p *T)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fn != nil {
		fn(&s.payload)
	}
	s.dirty = true
}

// Set mutates the payload without marking the tool dirty
func (s *ToolState[T]) Set(fn func(p *T)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.payload)
}

// Get returns a copy of the payload
func (s *ToolState[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payload
}

// Apply commits uncommitted changes as a history entry, cleans the tool
// and returns to navigation unless the tool stays open
func (s *ToolState[T]) Apply(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	dirty := s.dirty
	s.mu.Unlock()

	if dirty {
		s.history.Add(s.name)
	}

	s.mu.Lock()
	stay := s.hooks.StayOpenOnApply != nil && s.hooks.StayOpenOnApply(&s.payload)
	s.dirty = false
	if s.hooks.OnApply != nil {
		s.hooks.OnApply(&s.payload)
	}
	s.mu.Unlock()

	if !stay {
		s.store.Dispatch(state.CloseForePanel{})
	}
	return nil
}

// Cancel discards uncommitted changes by reloading the current history
// entry, cleans the tool and returns to navigation unless the tool stays
// open. A failed reload leaves the tool dirty.
func (s *ToolState[T]) Cancel(ctx context.Context) error {
	s.mu.Lock()
	dirty := s.dirty
	s.mu.Unlock()

	if dirty {
		if err := s.history.Reload(ctx); err != nil {
			return fmt.Errorf("failed to discard %s changes: %w", s.panel, err)
		}
	}

	s.mu.Lock()
	stay := s.hooks.StayOpenOnCancel != nil && s.hooks.StayOpenOnCancel(&s.payload)
	s.dirty = false
	if s.hooks.OnCancel != nil {
		s.hooks.OnCancel(&s.payload)
	}
	s.mu.Unlock()

	if !stay {
		s.store.Dispatch(state.CloseForePanel{})
	}
	return nil
}

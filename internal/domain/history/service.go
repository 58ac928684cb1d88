package history

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/snapshot"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/state"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
)

// Mode selects how a tool commits its changes
type Mode int

const (
	// ModeAdd appends a new history entry
	ModeAdd Mode = iota
	// ModeReplace overwrites the current entry
	ModeReplace
)

func (m Mode) String() string {
	if m == ModeReplace {
		return "replace"
	}
	return "add"
}

// Serializer captures and restores the scene
type Serializer interface {
	Capture() types.State
	Snapshot(name string, icon *string) types.Snapshot
	Entry(st types.State, name string, icon *string) types.Snapshot
	Restore(ctx context.Context, st types.State) error
}

// Recorder receives history metrics
type Recorder interface {
	RecordHistory(op string, size int)
}

// Stats describes the history
type Stats struct {
	Size         int        `json:"size"`
	Pointer      int        `json:"pointer"`
	CanUndo      bool       `json:"can_undo"`
	CanRedo      bool       `json:"can_redo"`
	LastAdded    *time.Time `json:"last_added,omitempty"`
	LastRestored *time.Time `json:"last_restored,omitempty"`
}

// Service drives the history list: it records snapshots and restores them
type Service struct {
	list    *List
	ser     Serializer
	store   *state.Store
	metrics Recorder
	logger  *zap.Logger

	// armed is set while the next content load should add the initial entry
	armed atomic.Bool
	unsub func()

	mu           sync.RWMutex
	lastAdded    *time.Time
	lastRestored *time.Time
}

// NewService creates a history service. The first ContentLoaded dispatched
// on store adds the initial entry.
func NewService(ser Serializer, store *state.Store, metrics Recorder, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{
		list:    NewList(),
		ser:     ser,
		store:   store,
		metrics: metrics,
		logger:  log,
	}
	s.armed.Store(true)
	s.unsub = store.Subscribe(func(action state.Action, _ state.State) {
		if _, ok := action.(state.ContentLoaded); !ok {
			return
		}
		if s.armed.CompareAndSwap(true, false) {
			s.AddInitial()
		}
	})
	return s
}

// Close stops listening for content loads
func (s *Service) Close() {
	if s.unsub != nil {
		s.unsub()
	}
}

// List returns the underlying history list
func (s *Service) List() *List { return s.list }

// ============================================================================
// Navigation
// ============================================================================

// Undo restores the previous entry; a no-op at the start of the history
func (s *Service) Undo(ctx context.Context) error {
	prev, ok := s.list.Previous()
	if !ok {
		return nil
	}
	return s.load(ctx, "undo", prev)
}

// Redo restores the next entry; a no-op at the end of the history
func (s *Service) Redo(ctx context.Context) error {
	next, ok := s.list.Next()
	if !ok {
		return nil
	}
	return s.load(ctx, "redo", next)
}

// Reload restores the current entry, discarding uncommitted scene edits
func (s *Service) Reload(ctx context.Context) error {
	current, ok := s.list.Current()
	if !ok {
		return nil
	}
	return s.load(ctx, "reload", current)
}

func (s *Service) load(ctx context.Context, op string, snap types.Snapshot) error {
	prev := s.list.Pointer()
	s.list.UpdatePointerByID(snap.ID)
	s.publish(op)

	if err := s.ser.Restore(ctx, snap.State); err != nil {
		s.restorePointer(prev)
		return fmt.Errorf("%s failed: %w", op, err)
	}

	now := time.Now()
	s.mu.Lock()
	s.lastRestored = &now
	s.mu.Unlock()

	s.logger.Debug("Restored history entry",
		zap.String("op", op),
		zap.String("snapshot_id", snap.ID.String()),
		zap.String("name", snap.Name))
	return nil
}

func (s *Service) restorePointer(pointer int) {
	items := s.list.Items()
	if pointer >= 0 && pointer < len(items) {
		s.list.UpdatePointerByID(items[pointer].ID)
		s.publish("revert")
	}
}

// ============================================================================
// Recording
// ============================================================================

// Add captures the scene as a new entry after the current one
func (s *Service) Add(name types.HistoryName) types.Snapshot {
	snap := s.ser.Snapshot(name.Name, iconOf(name))
	s.push(snap)
	return snap
}

// AddState records st as a new entry without capturing the scene
func (s *Service) AddState(name types.HistoryName, st types.State) types.Snapshot {
	snap := s.ser.Entry(st, name.Name, iconOf(name))
	s.push(snap)
	return snap
}

func (s *Service) push(snap types.Snapshot) {
	s.list.Add(snap)

	now := time.Now()
	s.mu.Lock()
	s.lastAdded = &now
	s.mu.Unlock()

	s.publish("add")
	s.logger.Debug("Added history entry",
		zap.String("snapshot_id", snap.ID.String()),
		zap.String("name", snap.Name),
		zap.Int("size", s.list.Len()))
}

// ReplaceCurrent overwrites the current entry with the scene, keeping its
// name and icon. Returns false when the history is empty.
func (s *Service) ReplaceCurrent() bool {
	current, ok := s.list.Current()
	if !ok {
		return false
	}
	snap := s.ser.Snapshot(current.Name, current.Icon)
	if !s.list.ReplaceCurrent(snap) {
		return false
	}
	s.publish("replace")
	return true
}

// Commit records the scene according to mode
func (s *Service) Commit(mode Mode, name types.HistoryName) {
	switch mode {
	case ModeReplace:
		if !s.ReplaceCurrent() {
			s.Add(name)
		}
	default:
		s.Add(name)
	}
}

// AddFromJSON validates a state document, records it and restores it.
// Invalid documents leave the history and the scene untouched.
func (s *Service) AddFromJSON(ctx context.Context, data []byte) error {
	st, err := snapshot.DecodeState(data)
	if err != nil {
		return err
	}

	name := types.HistoryLoadedState
	if s.list.Len() == 0 {
		name = types.HistoryInitial
	}
	s.AddState(name, st)
	return s.Reload(ctx)
}

// CurrentState captures the scene without recording it
func (s *Service) CurrentState() types.State {
	return s.ser.Capture()
}

// Clear empties the history and re-arms the initial entry for the next
// content load
func (s *Service) Clear() {
	s.list.Reset()
	s.armed.Store(true)
	s.publish("clear")
}

// AddInitial records the initial entry when the history is empty
func (s *Service) AddInitial() bool {
	if s.list.Len() > 0 {
		return false
	}
	s.Add(types.HistoryInitial)
	return true
}

// ============================================================================
// Queries
// ============================================================================

// Current returns the current entry
func (s *Service) Current() (types.Snapshot, bool) { return s.list.Current() }

// Entries returns the listing view of the history
func (s *Service) Entries() []types.Entry { return s.list.Entries() }

// CanUndo reports whether Undo would move
func (s *Service) CanUndo() bool { return s.list.CanUndo() }

// CanRedo reports whether Redo would move
func (s *Service) CanRedo() bool { return s.list.CanRedo() }

// Stats returns history statistics
func (s *Service) Stats() Stats {
	s.mu.RLock()
	lastAdded := s.lastAdded
	lastRestored := s.lastRestored
	s.mu.RUnlock()

	return Stats{
		Size:         s.list.Len(),
		Pointer:      s.list.Pointer(),
		CanUndo:      s.list.CanUndo(),
		CanRedo:      s.list.CanRedo(),
		LastAdded:    lastAdded,
		LastRestored: lastRestored,
	}
}

func (s *Service) publish(op string) {
	size := s.list.Len()
	s.store.Dispatch(state.HistoryUpdated{Size: size, Pointer: s.list.Pointer()})
	if s.metrics != nil {
		s.metrics.RecordHistory(op, size)
	}
}

func iconOf(name types.HistoryName) *string {
	if name.Icon == "" {
		return nil
	}
	return types.StringPtr(name.Icon)
}

package history

import (
	"sync"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/id"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
)

// List is the ordered history with a pointer to the current entry.
// The pointer is -1 while the list is empty.
type List struct {
	mu      sync.RWMutex
	items   []types.Snapshot
	pointer int
}

// NewList creates an empty list
func NewList() *List {
	return &List{pointer: -1}
}

// Add drops every entry after the pointer, appends snap and makes it current
func (l *List) Add(snap types.Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = append(l.items[:l.pointer+1], snap.Clone())
	l.pointer = len(l.items) - 1
}

// ReplaceCurrent overwrites the current entry; false when the list is empty
func (l *List) ReplaceCurrent(snap types.Snapshot) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.pointer < 0 {
		return false
	}
	l.items[l.pointer] = snap.Clone()
	return true
}

// Reset empties the list
func (l *List) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = nil
	l.pointer = -1
}

// UpdatePointerByID moves the pointer to the entry with the given id
func (l *List) UpdatePointerByID(sid id.SnapshotID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, item := range l.items {
		if item.ID == sid {
			l.pointer = i
			return true
		}
	}
	return false
}

func (l *List) at(i int) (types.Snapshot, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.pointer < 0 {
		return types.Snapshot{}, false
	}
	i += l.pointer
	if i < 0 || i >= len(l.items) {
		return types.Snapshot{}, false
	}
	return l.items[i].Clone(), true
}

// Previous returns the entry before the current one
func (l *List) Previous() (types.Snapshot, bool) { return l.at(-1) }

// Current returns the current entry
func (l *List) Current() (types.Snapshot, bool) { return l.at(0) }

// Next returns the entry after the current one
func (l *List) Next() (types.Snapshot, bool) { return l.at(1) }

// CanUndo reports whether an entry precedes the current one
func (l *List) CanUndo() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.pointer > 0
}

// CanRedo reports whether an entry follows the current one
func (l *List) CanRedo() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.pointer >= 0 && l.pointer < len(l.items)-1
}

// Len returns the number of entries
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Pointer returns the index of the current entry, or -1
func (l *List) Pointer() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.pointer
}

// Items returns copies of every entry, oldest first
func (l *List) Items() []types.Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]types.Snapshot, len(l.items))
	for i, item := range l.items {
		out[i] = item.Clone()
	}
	return out
}

// Entries returns the listing view of the history, oldest first
func (l *List) Entries() []types.Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]types.Entry, len(l.items))
	for i, item := range l.items {
		out[i] = types.Entry{
			ID:      item.ID,
			Name:    item.Name,
			Icon:    item.Icon,
			Current: i == l.pointer,
		}
	}
	return out
}

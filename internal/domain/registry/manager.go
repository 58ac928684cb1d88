package registry

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/scene"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/state"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/id"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
)

var ErrIndexOutOfRange = errors.New("layer index out of range")

// Stats describes the registry
type Stats struct {
	Live   int `json:"live"`
	Layers int `json:"layers"`
	Issued int `json:"issued"`
	Syncs  int `json:"syncs"`
}

// Manager tracks scene object identity and the layer list
type Manager struct {
	mu      sync.RWMutex
	surface scene.Surface
	store   *state.Store
	loop    *scene.Loop
	gen     *id.Generator
	logger  *zap.Logger

	live   map[id.ObjectID]*scene.Object
	issued map[id.ObjectID]struct{}
	layers []*scene.Object
	syncs  int
}

// NewManager creates a registry for surface
func NewManager(surface scene.Surface, store *state.Store, loop *scene.Loop, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		surface: surface,
		store:   store,
		loop:    loop,
		gen:     id.Default(),
		logger:  log,
		live:    make(map[id.ObjectID]*scene.Object),
		issued:  make(map[id.ObjectID]struct{}),
	}
}

// WithGenerator overrides the id generator
func (m *Manager) WithGenerator(gen *id.Generator) *Manager {
	m.gen = gen
	return m
}

// Bind installs the registry as the surface identifier and subscribes the
// layer sync to scene changes. The returned func undoes both.
func (m *Manager) Bind() func() {
	m.surface.SetIdentifier(m)

	offs := []func(){
		m.surface.On(scene.EventObjectAdded, func(scene.Event) {
			m.loop.Defer(m.Sync)
		}),
		m.surface.On(scene.EventObjectRemoved, func(scene.Event) {
			m.Sync()
		}),
		m.surface.On(scene.EventCleared, func(scene.Event) {
			m.Sync()
		}),
	}

	return func() {
		for _, off := range offs {
			off()
		}
		m.surface.SetIdentifier(nil)
	}
}

// ============================================================================
// Identity
// ============================================================================

// Identify assigns an id to obj. An existing id is kept unless another live
// object already owns it.
func (m *Manager) Identify(obj *scene.Object) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := obj.ID()
	if owner, taken := m.live[current]; current != "" && (!taken || owner == obj) {
		m.live[current] = obj
		m.issued[current] = struct{}{}
		return
	}

	fresh := m.allocateLocked()
	if current != "" {
		m.logger.Debug("Reassigned duplicate object id",
			zap.String("old_id", current.String()),
			zap.String("new_id", fresh.String()))
	}
	obj.Data.ID = fresh
	m.live[fresh] = obj
}

// Forget releases the live binding of obj; its id stays issued
func (m *Manager) Forget(obj *scene.Object) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if owner, ok := m.live[obj.ID()]; ok && owner == obj {
		delete(m.live, obj.ID())
	}
}

// Allocate returns a fresh id that has never been issued
func (m *Manager) Allocate() id.ObjectID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.allocateLocked()
}

func (m *Manager) allocateLocked() id.ObjectID {
	for {
		oid := m.gen.NewObjectID()
		if _, used := m.issued[oid]; !used {
			m.issued[oid] = struct{}{}
			return oid
		}
	}
}

// Lookup finds a live object by id, including objects not yet synced
func (m *Manager) Lookup(oid id.ObjectID) *scene.Object {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.live[oid]
}

// ============================================================================
// Layer List
// ============================================================================

// Sync recomputes the layer list from the scene graph
func (m *Manager) Sync() {
	objects := m.surface.Objects()
	layers := make([]*scene.Object, 0, len(objects))
	for i := len(objects) - 1; i >= 0; i-- {
		obj := objects[i]
		if obj.Name == "" || obj.IsGuide() {
			continue
		}
		layers = append(layers, obj)
	}

	m.mu.Lock()
	m.layers = layers
	m.syncs++
	m.mu.Unlock()

	m.store.Dispatch(state.ObjectsSynced{Count: len(layers)})
}

// All returns the layer list, top-most first
func (m *Manager) All() []*scene.Object {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*scene.Object(nil), m.layers...)
}

// Get returns the first layer of the given kind
func (m *Manager) Get(kind types.ObjectKind) *scene.Object {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, obj := range m.layers {
		if obj.Name == kind {
			return obj
		}
	}
	return nil
}

// GetByID returns the layer with the given id
func (m *Manager) GetByID(oid id.ObjectID) *scene.Object {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, obj := range m.layers {
		if obj.ID() == oid {
			return obj
		}
	}
	return nil
}

// Has reports whether a layer of the given kind exists
func (m *Manager) Has(kind types.ObjectKind) bool {
	return m.Get(kind) != nil
}

// IsActive reports whether obj is the active selection
func (m *Manager) IsActive(obj *scene.Object) bool {
	active := m.surface.Active()
	return active != nil && obj != nil && active.ID() == obj.ID()
}

// Select makes obj the active selection
func (m *Manager) Select(obj *scene.Object) {
	m.surface.SetActive(obj, false)
	m.surface.RequestRender()
}

// Reorder moves the layer at prev to cur (both top-most first) and applies
// the new order to the scene graph. Guide objects keep their graph slots.
func (m *Manager) Reorder(prev, cur int) error {
	layers := m.All()
	if prev < 0 || prev >= len(layers) || cur < 0 || cur >= len(layers) {
		return fmt.Errorf("%w: move %d to %d of %d", ErrIndexOutOfRange, prev, cur, len(layers))
	}
	if prev == cur {
		return nil
	}

	moved := layers[prev]
	layers = append(layers[:prev], layers[prev+1:]...)
	layers = append(layers[:cur], append([]*scene.Object{moved}, layers[cur:]...)...)

	// bottom-most first
	content := make([]*scene.Object, len(layers))
	for i, obj := range layers {
		content[len(layers)-1-i] = obj
	}

	objects := m.surface.Objects()
	inLayers := make(map[*scene.Object]struct{}, len(content))
	for _, obj := range content {
		inLayers[obj] = struct{}{}
	}

	next := 0
	target := make([]*scene.Object, len(objects))
	for i, obj := range objects {
		if _, ok := inLayers[obj]; ok {
			target[i] = content[next]
			next++
		} else {
			target[i] = obj
		}
	}
	for i, obj := range target {
		if m.surface.IndexOf(obj) != i {
			m.surface.MoveTo(obj, i)
		}
	}

	m.Sync()
	m.surface.RequestRender()

	m.logger.Debug("Reordered layer",
		zap.String("object_id", moved.ID().String()),
		zap.Int("from", prev),
		zap.Int("to", cur))
	return nil
}

// Stats returns registry statistics
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Stats{
		Live:   len(m.live),
		Layers: len(m.layers),
		Issued: len(m.issued),
		Syncs:  m.syncs,
	}
}

// Package scene provides the live scene graph the editor renders.
//
// The graph is an ordered object list (bottom-most first) plus viewport
// state. Rendering itself happens elsewhere; the graph only counts render
// requests and announces changes to listeners.
package scene

import (
	"slices"
	"sync"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
)

// EventType names a scene notification
type EventType string

const (
	EventObjectAdded      EventType = "object:added"
	EventObjectRemoved    EventType = "object:removed"
	EventObjectModified   EventType = "object:modified"
	EventCleared          EventType = "canvas:cleared"
	EventReplaced         EventType = "canvas:replaced"
	EventSelectionCreated EventType = "selection:created"
	EventSelectionUpdated EventType = "selection:updated"
	EventSelectionCleared EventType = "selection:cleared"
)

// Event is delivered to listeners after the graph changed
type Event struct {
	Type     EventType
	Object   *Object
	FromUser bool
}

// Listener receives scene events
type Listener func(Event)

// Identifier assigns identity to objects entering the graph.
// It runs synchronously, before any listener sees the object.
type Identifier interface {
	Identify(obj *Object)
	Forget(obj *Object)
}

// Surface is the rendering surface the editor drives
type Surface interface {
	Add(objs ...*Object)
	Remove(objs ...*Object)
	Clear()
	Replace(objs []*Object)
	Objects() []*Object
	ObjectsOfKind(kind types.ObjectKind) []*Object
	IndexOf(obj *Object) int
	MoveTo(obj *Object, index int)
	Modified(obj *Object)

	SetActive(obj *Object, fromUser bool)
	Active() *Object
	DiscardActive()

	Dimensions() types.Size
	SetDimensions(size types.Size)
	Zoom() float64
	SetZoom(zoom float64)
	CalcOffset()
	Background() string
	SetBackground(color string)

	RequestRender()
	On(event EventType, fn Listener) func()
	SetIdentifier(ident Identifier)
}

// Graph is the in-memory Surface
type Graph struct {
	mu         sync.RWMutex
	objects    []*Object
	active     *Object
	size       types.Size
	zoom       float64
	background string
	renders    int
	offsets    int

	ident     Identifier
	listeners map[EventType]map[int]Listener
	nextID    int
}

// NewGraph creates an empty graph at zoom 1
func NewGraph() *Graph {
	return &Graph{
		zoom:      1,
		listeners: make(map[EventType]map[int]Listener),
	}
}

// SetIdentifier installs the identity hook
func (g *Graph) SetIdentifier(ident Identifier) {
	g.mu.Lock()
	g.ident = ident
	g.mu.Unlock()
}

// On registers a listener and returns its unsubscribe func
func (g *Graph) On(event EventType, fn Listener) func() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.listeners[event] == nil {
		g.listeners[event] = make(map[int]Listener)
	}
	key := g.nextID
	g.nextID++
	g.listeners[event][key] = fn

	return func() {
		g.mu.Lock()
		delete(g.listeners[event], key)
		g.mu.Unlock()
	}
}

func (g *Graph) emit(ev Event) {
	g.mu.RLock()
	registered := g.listeners[ev.Type]
	keys := make([]int, 0, len(registered))
	for k := range registered {
		keys = append(keys, k)
	}
	g.mu.RUnlock()

	slices.Sort(keys)
	for _, k := range keys {
		g.mu.RLock()
		fn, ok := g.listeners[ev.Type][k]
		g.mu.RUnlock()
		if ok {
			fn(ev)
		}
	}
}

func (g *Graph) identifier() Identifier {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.ident
}

// Add appends objects on top of the graph
func (g *Graph) Add(objs ...*Object) {
	ident := g.identifier()
	for _, obj := range objs {
		if ident != nil {
			ident.Identify(obj)
		}
		g.mu.Lock()
		g.objects = append(g.objects, obj)
		g.mu.Unlock()
		g.emit(Event{Type: EventObjectAdded, Object: obj})
	}
}

// Remove deletes objects from the graph; unknown objects are ignored
func (g *Graph) Remove(objs ...*Object) {
	ident := g.identifier()
	for _, obj := range objs {
		g.mu.Lock()
		idx := g.indexOfLocked(obj)
		if idx < 0 {
			g.mu.Unlock()
			continue
		}
		g.objects = append(g.objects[:idx], g.objects[idx+1:]...)
		wasActive := g.active == obj
		if wasActive {
			g.active = nil
		}
		g.mu.Unlock()

		if ident != nil {
			ident.Forget(obj)
		}
		if wasActive {
			g.emit(Event{Type: EventSelectionCleared, Object: obj})
		}
		g.emit(Event{Type: EventObjectRemoved, Object: obj})
	}
}

// Clear removes every object and the background
func (g *Graph) Clear() {
	g.mu.Lock()
	old := g.objects
	g.objects = nil
	hadActive := g.active != nil
	g.active = nil
	g.background = ""
	g.mu.Unlock()

	if ident := g.identifier(); ident != nil {
		for _, obj := range old {
			ident.Forget(obj)
		}
	}
	if hadActive {
		g.emit(Event{Type: EventSelectionCleared})
	}
	g.emit(Event{Type: EventCleared})
}

// Replace swaps the whole object list, as loading a document does
func (g *Graph) Replace(objs []*Object) {
	g.mu.Lock()
	old := g.objects
	g.objects = nil
	hadActive := g.active != nil
	g.active = nil
	g.mu.Unlock()

	ident := g.identifier()
	if ident != nil {
		for _, obj := range old {
			ident.Forget(obj)
		}
		for _, obj := range objs {
			ident.Identify(obj)
		}
	}

	g.mu.Lock()
	g.objects = append([]*Object(nil), objs...)
	g.mu.Unlock()

	if hadActive {
		g.emit(Event{Type: EventSelectionCleared})
	}
	g.emit(Event{Type: EventReplaced})
}

// Objects returns the objects bottom-most first
func (g *Graph) Objects() []*Object {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]*Object(nil), g.objects...)
}

// ObjectsOfKind returns objects of the given kind bottom-most first
func (g *Graph) ObjectsOfKind(kind types.ObjectKind) []*Object {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []*Object
	for _, obj := range g.objects {
		if obj.Name == kind {
			out = append(out, obj)
		}
	}
	return out
}

// IndexOf returns the stacking index of obj, or -1
func (g *Graph) IndexOf(obj *Object) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.indexOfLocked(obj)
}

func (g *Graph) indexOfLocked(obj *Object) int {
	for i, o := range g.objects {
		if o == obj {
			return i
		}
	}
	return -1
}

// MoveTo changes the stacking index of obj, clamped to the graph bounds
func (g *Graph) MoveTo(obj *Object, index int) {
	g.mu.Lock()
	from := g.indexOfLocked(obj)
	if from < 0 {
		g.mu.Unlock()
		return
	}
	g.objects = append(g.objects[:from], g.objects[from+1:]...)
	if index < 0 {
		index = 0
	}
	if index > len(g.objects) {
		index = len(g.objects)
	}
	g.objects = append(g.objects, nil)
	copy(g.objects[index+1:], g.objects[index:])
	g.objects[index] = obj
	g.mu.Unlock()

	g.emit(Event{Type: EventObjectModified, Object: obj})
}

// Modified announces an in-place change of obj
func (g *Graph) Modified(obj *Object) {
	g.emit(Event{Type: EventObjectModified, Object: obj})
}

// SetActive makes obj the active selection
func (g *Graph) SetActive(obj *Object, fromUser bool) {
	g.mu.Lock()
	prev := g.active
	g.active = obj
	g.mu.Unlock()

	if obj == nil {
		if prev != nil {
			g.emit(Event{Type: EventSelectionCleared, Object: prev})
		}
		return
	}
	evType := EventSelectionCreated
	if prev != nil {
		evType = EventSelectionUpdated
	}
	g.emit(Event{Type: evType, Object: obj, FromUser: fromUser})
}

// Active returns the active selection, or nil
func (g *Graph) Active() *Object {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.active
}

// DiscardActive clears the active selection
func (g *Graph) DiscardActive() {
	g.SetActive(nil, false)
}

// Dimensions returns the canvas element size
func (g *Graph) Dimensions() types.Size {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.size
}

// SetDimensions sets the canvas element size
func (g *Graph) SetDimensions(size types.Size) {
	g.mu.Lock()
	g.size = size
	g.mu.Unlock()
}

// Zoom returns the viewport scale
func (g *Graph) Zoom() float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.zoom
}

// SetZoom sets the viewport scale
func (g *Graph) SetZoom(zoom float64) {
	g.mu.Lock()
	g.zoom = zoom
	g.mu.Unlock()
}

// CalcOffset recomputes the element offset after layout changes
func (g *Graph) CalcOffset() {
	g.mu.Lock()
	g.offsets++
	g.mu.Unlock()
}

// Background returns the background color
func (g *Graph) Background() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.background
}

// SetBackground sets the background color
func (g *Graph) SetBackground(color string) {
	g.mu.Lock()
	g.background = color
	g.mu.Unlock()
}

// RequestRender asks for a re-render
func (g *Graph) RequestRender() {
	g.mu.Lock()
	g.renders++
	g.mu.Unlock()
}

// Renders returns the number of render requests so far
func (g *Graph) Renders() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.renders
}

// Offsets returns the number of offset recalculations so far
func (g *Graph) Offsets() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.offsets
}

package scene

import (
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
)

// Object is a live scene graph entry.
// Properties are persisted; Extra holds runtime-only state that capture drops.
type Object struct {
	types.Properties
	Children []*Object
	Extra    map[string]any

	filterPasses int
}

// New creates an object of the given kind and primitive type
func New(kind types.ObjectKind, typ string) *Object {
	props := types.DefaultProperties()
	props.Name = kind
	props.Type = typ
	return &Object{Properties: props}
}

// FromRecord builds a live object from its serialized form
func FromRecord(r types.ObjectRecord) *Object {
	obj := &Object{Properties: r.Properties.Clone()}
	for _, child := range r.Objects {
		obj.Children = append(obj.Children, FromRecord(child))
	}
	return obj
}

// Record returns the whitelisted, serializable form of the object
func (o *Object) Record() types.ObjectRecord {
	rec := types.ObjectRecord{Properties: o.Properties.Clone()}
	for _, child := range o.Children {
		rec.Objects = append(rec.Objects, child.Record())
	}
	return rec
}

// Clone returns a deep copy of the object, runtime fields included
func (o *Object) Clone() *Object {
	cp := &Object{Properties: o.Properties.Clone()}
	for _, child := range o.Children {
		cp.Children = append(cp.Children, child.Clone())
	}
	if o.Extra != nil {
		cp.Extra = make(map[string]any, len(o.Extra))
		for k, v := range o.Extra {
			cp.Extra[k] = v
		}
	}
	return cp
}

// Kind returns the logical kind of the object
func (o *Object) Kind() types.ObjectKind { return o.Name }

// IsGuide reports whether the object is tool scaffolding
func (o *Object) IsGuide() bool { return o.Name.IsGuide() }

// IsGroup reports whether the object has group members
func (o *Object) IsGroup() bool { return len(o.Children) > 0 }

// ApplyFilters recomputes the filtered pixels of a media object.
// The scene keeps no pixel data; the pass counter lets callers observe it.
func (o *Object) ApplyFilters() {
	o.filterPasses++
}

// FilterPasses returns how many times ApplyFilters ran on the object
func (o *Object) FilterPasses() int { return o.filterPasses }

// SetExtra stores a runtime-only value
func (o *Object) SetExtra(key string, v any) {
	if o.Extra == nil {
		o.Extra = make(map[string]any)
	}
	o.Extra[key] = v
}

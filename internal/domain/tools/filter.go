package tools

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/state"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
)

var ErrUnknownFilter = errors.New("unknown filter")

// FilterState is the payload of the filter tool
type FilterState struct {
	Applied  []string `json:"applied"`
	Selected string   `json:"selected,omitempty"`
}

// FilterTool applies image filters to every image object
type FilterTool struct {
	*ToolState[FilterState]
	env     Env
	catalog []types.FilterDef
	unsub   func()
}

// NewFilterTool creates the filter tool. Only filters named in the filter
// settings are offered; an empty list offers every builtin filter.
func NewFilterTool(env Env) *FilterTool {
	t := &FilterTool{env: env, catalog: filterCatalog(env.Settings.Tools.Filter.Items)}
	t.ToolState = NewToolState(types.PanelFilter, types.HistoryFilter, env.History, env.Store, FilterState{}, Hooks[FilterState]{
		OnApply:  func(p *FilterState) { p.Selected = "" },
		OnCancel: func(p *FilterState) { p.Selected = "" },
		// cancel closes the controls of the selected filter first
		StayOpenOnCancel: func(p *FilterState) bool { return p.Selected != "" },
	})
	t.unsub = env.Store.Subscribe(func(action state.Action, _ state.State) {
		if _, ok := action.(state.HistoryChanged); ok {
			t.syncApplied()
		}
	})
	return t
}

func filterCatalog(names []string) []types.FilterDef {
	all := BuiltinFilters()
	if len(names) == 0 {
		return all
	}
	out := make([]types.FilterDef, 0, len(names))
	for _, name := range names {
		for _, def := range all {
			if def.Name == name {
				out = append(out, def)
			}
		}
	}
	return out
}

// Close stops following history changes
func (t *FilterTool) Close() {
	if t.unsub != nil {
		t.unsub()
	}
}

// All returns the filter catalog
func (t *FilterTool) All() []types.FilterDef { return slices.Clone(t.catalog) }

// ByName returns the catalog entry with the given name
func (t *FilterTool) ByName(name string) (types.FilterDef, bool) {
	for _, def := range t.catalog {
		if def.Name == name {
			return def, true
		}
	}
	return types.FilterDef{}, false
}

// HasOptions reports whether the filter has adjustable options
func (t *FilterTool) HasOptions(name string) bool {
	def, ok := t.ByName(name)
	return ok && len(def.Options) > 0
}

// Toggle applies the filter to every image, or removes it when the main
// image already has it
func (t *FilterTool) Toggle(name string) error {
	def, ok := t.ByName(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFilter, name)
	}
	if t.Applied(def.Name) {
		return t.Remove(def.Name)
	}

	t.Update(func(p *FilterState) {
		p.Applied = append(p.Applied, def.Name)
	})
	for _, img := range t.env.media() {
		img.Filters = append(img.Filters, newFilter(def))
		img.ApplyFilters()
	}
	t.env.Canvas.Render()

	t.env.logger().Debug("Applied filter", zap.String("filter", def.Name))
	return nil
}

// Remove strips the filter from every image
func (t *FilterTool) Remove(name string) error {
	def, ok := t.ByName(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFilter, name)
	}

	t.env.Canvas.SetLoading(true)
	defer t.env.Canvas.SetLoading(false)

	t.Update(func(p *FilterState) {
		p.Applied = slices.DeleteFunc(p.Applied, func(f string) bool { return f == def.Name })
	})
	for _, img := range t.env.media() {
		if i := findFilter(def, img.Filters); i >= 0 {
			img.Filters = slices.Delete(img.Filters, i, i+1)
			img.ApplyFilters()
		}
	}
	t.env.Canvas.Render()
	return nil
}

// ApplyValue changes an option of an applied filter on every image
func (t *FilterTool) ApplyValue(name, option string, value any) error {
	def, ok := t.ByName(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFilter, name)
	}
	if _, known := def.Options[option]; !known {
		return fmt.Errorf("%w: %s has no option %q", ErrUnknownFilter, name, option)
	}

	t.env.Canvas.SetLoading(true)
	defer t.env.Canvas.SetLoading(false)

	changed := false
	for _, img := range t.env.media() {
		i := slices.IndexFunc(img.Filters, func(f types.Filter) bool {
			return strings.EqualFold(f.Type, def.Name)
		})
		if i < 0 {
			continue
		}
		if img.Filters[i].Options == nil {
			img.Filters[i].Options = make(map[string]any)
		}
		img.Filters[i].Options[option] = value
		img.ApplyFilters()
		changed = true
	}
	if changed {
		t.MarkDirty()
	}
	t.env.Canvas.Render()
	return nil
}

// Applied reports whether the main image has the filter
func (t *FilterTool) Applied(name string) bool {
	def, ok := t.ByName(name)
	if !ok {
		return false
	}
	main := t.env.Canvas.MainImage()
	if main == nil {
		return false
	}
	return findFilter(def, main.Filters) >= 0
}

// OpenControls selects the filter whose options are being edited
func (t *FilterTool) OpenControls(name string) {
	t.Set(func(p *FilterState) { p.Selected = name })
}

// Selected returns the filter whose controls are open
func (t *FilterTool) Selected() string { return t.Get().Selected }

// AppliedFilters returns the names of the applied filters
func (t *FilterTool) AppliedFilters() []string {
	return slices.Clone(t.Get().Applied)
}

func (t *FilterTool) syncApplied() {
	var names []string
	for _, def := range t.catalog {
		if t.Applied(def.Name) {
			names = append(names, def.Name)
		}
	}
	t.Set(func(p *FilterState) { p.Applied = names })
}

func newFilter(def types.FilterDef) types.Filter {
	if def.Uses != "" {
		return types.Filter{Type: def.Uses, Matrix: slices.Clone(def.Matrix)}
	}
	f := types.Filter{Type: def.Name}
	if len(def.Options) > 0 {
		f.Options = make(map[string]any, len(def.Options))
		for key, opt := range def.Options {
			f.Options[key] = opt.Current
		}
	}
	return f
}

// findFilter matches filters by type, or matrix based filters by matrix
func findFilter(def types.FilterDef, filters []types.Filter) int {
	return slices.IndexFunc(filters, func(f types.Filter) bool {
		if strings.EqualFold(f.Type, def.Name) {
			return true
		}
		return strings.EqualFold(f.Type, FilterTypeConvolute) &&
			len(def.Matrix) > 0 && len(def.Matrix) == len(f.Matrix) &&
			floats.Equal(def.Matrix, f.Matrix)
	})
}

var _ Tool = (*FilterTool)(nil)

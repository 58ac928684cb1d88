package fonts

import (
	"slices"
	"strings"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
)

// BasicFonts are the families every renderer provides
var BasicFonts = []types.FontItem{
	{Family: "Arial", Category: "sans-serif", Type: types.FontTypeBasic},
	{Family: "Times New Roman", Category: "serif", Type: types.FontTypeBasic},
	{Family: "Verdana", Category: "sans-serif", Type: types.FontTypeBasic},
	{Family: "Georgia", Category: "serif", Type: types.FontTypeBasic},
	{Family: "Courier New", Category: "monospace", Type: types.FontTypeBasic},
}

// Catalog lists the fonts the text tool offers
type Catalog struct {
	items []types.FontItem
}

// NewCatalog creates a catalog of the basic fonts followed by items.
// An item replaces a basic font of the same family.
func NewCatalog(items []types.FontItem) *Catalog {
	out := make([]types.FontItem, 0, len(BasicFonts)+len(items))
	for _, basic := range BasicFonts {
		if !slices.ContainsFunc(items, func(f types.FontItem) bool { return f.Family == basic.Family }) {
			out = append(out, basic)
		}
	}
	return &Catalog{items: append(out, items...)}
}

// Find returns the catalog entry of family
func (c *Catalog) Find(family string) (types.FontItem, bool) {
	i := slices.IndexFunc(c.items, func(f types.FontItem) bool { return f.Family == family })
	if i < 0 {
		return types.FontItem{}, false
	}
	return c.items[i], true
}

// All returns every catalog entry
func (c *Catalog) All() []types.FontItem { return slices.Clone(c.items) }

// Search returns the entries of category whose family contains query,
// one page at a time. An empty category matches every entry.
func (c *Catalog) Search(query, category string, page, perPage int) []types.FontItem {
	query = strings.ToLower(query)
	var matched []types.FontItem
	for _, f := range c.items {
		if category != "" && f.Category != category {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(f.Family), query) {
			continue
		}
		matched = append(matched, f)
	}
	if perPage <= 0 {
		return matched
	}
	start := max(page-1, 0) * perPage
	if start >= len(matched) {
		return nil
	}
	return matched[start:min(start+perPage, len(matched))]
}

package types

// FilterOption is an adjustable parameter of a filter
type FilterOption struct {
	Type    string  `json:"type"`
	Min     float64 `json:"min,omitempty"`
	Max     float64 `json:"max,omitempty"`
	Step    float64 `json:"step,omitempty"`
	Current any     `json:"current"`
}

// FilterDef describes a filter of the filter catalog.
// Filters with Uses set are built from another filter type and matched by
// their matrix.
type FilterDef struct {
	Name    string                  `json:"name"`
	Uses    string                  `json:"uses,omitempty"`
	Matrix  []float64               `json:"matrix,omitempty"`
	Options map[string]FilterOption `json:"options,omitempty"`
}

// ShapeDef describes a basic shape of the shapes tool
type ShapeDef struct {
	Name   string    `json:"name"`
	Type   string    `json:"type"`
	Path   string    `json:"path,omitempty"`
	Points []float64 `json:"points,omitempty"`
}

// StickerCategory groups stickers stored as numbered assets
type StickerCategory struct {
	Name         string   `json:"name"`
	Items        int      `json:"items"`
	Type         string   `json:"type"`
	List         []string `json:"list,omitempty"`
	ThumbnailURL string   `json:"thumbnailUrl,omitempty"`
}

// FilterSettings configures the filter tool
type FilterSettings struct {
	Items []string `json:"items"`
}

// CropSettings configures the crop tool
type CropSettings struct {
	DefaultRatio string   `json:"defaultRatio"`
	Items        []string `json:"items"`
}

// TextSettings configures the text tool
type TextSettings struct {
	DefaultText     string     `json:"defaultText"`
	DefaultCategory string     `json:"defaultCategory"`
	Items           []FontItem `json:"items,omitempty"`
}

// DrawSettings configures the draw tool
type DrawSettings struct {
	BrushSizes []float64 `json:"brushSizes"`
	BrushTypes []string  `json:"brushTypes"`
}

// ShapeSettings configures the shapes tool
type ShapeSettings struct {
	Items []ShapeDef `json:"items"`
}

// StickerSettings configures the stickers tool
type StickerSettings struct {
	Items []StickerCategory `json:"items"`
}

// FrameSettings configures the frame tool
type FrameSettings struct {
	Items []Frame `json:"items"`
}

// ImportSettings restricts imported files
type ImportSettings struct {
	ValidExtensions []string `json:"validExtensions"`
	MaxFileSize     int64    `json:"maxFileSize,omitempty"`
}

// ExportSettings are the export defaults
type ExportSettings struct {
	DefaultFormat  string  `json:"defaultFormat"`
	DefaultQuality float64 `json:"defaultQuality"`
	DefaultName    string  `json:"defaultName"`
}

// ToolSettings groups the per-tool settings
type ToolSettings struct {
	Filter   FilterSettings  `json:"filter"`
	Crop     CropSettings    `json:"crop"`
	Text     TextSettings    `json:"text"`
	Draw     DrawSettings    `json:"draw"`
	Shapes   ShapeSettings   `json:"shapes"`
	Stickers StickerSettings `json:"stickers"`
	Frame    FrameSettings   `json:"frame"`
	Import   ImportSettings  `json:"import"`
	Export   ExportSettings  `json:"export"`
}

// Settings are the editor settings: tool defaults and import/export options
type Settings struct {
	BaseURL         string       `json:"baseUrl,omitempty"`
	CrossOrigin     bool         `json:"crossOrigin"`
	BlankCanvasSize *Size        `json:"blankCanvasSize,omitempty"`
	ColorPresets    []string     `json:"colorPresets,omitempty"`
	ObjectDefaults  Properties   `json:"objectDefaults"`
	Tools           ToolSettings `json:"tools"`
}

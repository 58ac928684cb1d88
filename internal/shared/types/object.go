package types

import (
	"strings"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/id"
)

// ObjectKind is the logical kind of a scene object, stored in its name
type ObjectKind string

const (
	KindMainImage ObjectKind = "mainImage"
	KindImage     ObjectKind = "image"
	KindText      ObjectKind = "text"
	KindShape     ObjectKind = "shape"
	KindSticker   ObjectKind = "sticker"
	KindDrawing   ObjectKind = "drawing"

	// Guide kinds are transient scaffolding drawn by tools
	KindCropZone     ObjectKind = "crop.zone"
	KindRoundPreview ObjectKind = "round.preview"
	KindFrameBorder  ObjectKind = "frame.border"
)

// Reserved name prefixes of guide objects
const (
	CropPrefix  = "crop."
	RoundPrefix = "round."
	FramePrefix = "frame."
)

var contentKinds = map[ObjectKind]struct{}{
	KindMainImage: {},
	KindImage:     {},
	KindText:      {},
	KindShape:     {},
	KindSticker:   {},
	KindDrawing:   {},
}

// IsGuide reports whether the kind carries a reserved guide prefix
func (k ObjectKind) IsGuide() bool {
	s := string(k)
	return strings.Contains(s, CropPrefix) ||
		strings.Contains(s, RoundPrefix) ||
		strings.Contains(s, FramePrefix)
}

// IsSelectionGuide reports whether the kind is a guide that must never be
// reported as the active selection
func (k ObjectKind) IsSelectionGuide() bool {
	s := string(k)
	return strings.Contains(s, CropPrefix) || strings.Contains(s, RoundPrefix)
}

// Known reports whether the kind is a content kind or a guide kind
func (k ObjectKind) Known() bool {
	if _, ok := contentKinds[k]; ok {
		return true
	}
	return k.IsGuide()
}

// IsMedia reports whether filters apply to objects of this kind
func (k ObjectKind) IsMedia() bool {
	return k == KindMainImage || k == KindImage
}

func (k ObjectKind) String() string { return string(k) }

// Primitive types of scene objects
const (
	TypeImage    = "image"
	TypeText     = "i-text"
	TypeRect     = "rect"
	TypeCircle   = "circle"
	TypeEllipse  = "ellipse"
	TypeTriangle = "triangle"
	TypePolygon  = "polygon"
	TypeGroup    = "group"
	TypePath     = "path"
)

// ObjectData carries identity of a scene object
type ObjectData struct {
	ID id.ObjectID `json:"id"`
}

// Shadow describes a drop shadow
type Shadow struct {
	Color   string  `json:"color"`
	Blur    float64 `json:"blur"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
}

// Visible reports whether the shadow would render; offsetX == -1 marks the
// "no shadow" sentinel
func (s *Shadow) Visible() bool {
	return s != nil && s.OffsetX != -1
}

// Filter is an image filter applied to a media object
type Filter struct {
	Type    string         `json:"type"`
	Matrix  []float64      `json:"matrix,omitempty"`
	Options map[string]any `json:"options,omitempty"`
}

// Clone returns a deep copy of the filter
func (f Filter) Clone() Filter {
	out := Filter{Type: f.Type}
	if f.Matrix != nil {
		out.Matrix = append([]float64(nil), f.Matrix...)
	}
	if f.Options != nil {
		out.Options = make(map[string]any, len(f.Options))
		for k, v := range f.Options {
			out.Options[k] = v
		}
	}
	return out
}

// Properties is the persisted whitelist of a scene object.
// Anything not listed here is runtime-only and is lost on capture.
type Properties struct {
	Name ObjectKind `json:"name,omitempty"`
	Type string     `json:"type"`
	Data ObjectData `json:"data"`

	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	ScaleX float64 `json:"scaleX"`
	ScaleY float64 `json:"scaleY"`
	Angle  float64 `json:"angle"`
	FlipX  bool    `json:"flipX"`
	FlipY  bool    `json:"flipY"`

	Fill            string  `json:"fill,omitempty"`
	Stroke          string  `json:"stroke,omitempty"`
	StrokeWidth     float64 `json:"strokeWidth"`
	Opacity         float64 `json:"opacity"`
	BackgroundColor string  `json:"backgroundColor,omitempty"`
	Shadow          *Shadow `json:"shadow,omitempty"`
	CornerRadius    float64 `json:"cornerRadius,omitempty"`
	Selectable      *bool   `json:"selectable,omitempty"`

	// Image
	Src         string   `json:"src,omitempty"`
	CrossOrigin string   `json:"crossOrigin,omitempty"`
	CropX       float64  `json:"cropX,omitempty"`
	CropY       float64  `json:"cropY,omitempty"`
	Filters     []Filter `json:"filters,omitempty"`

	// Text
	Text        string  `json:"text,omitempty"`
	FontFamily  string  `json:"fontFamily,omitempty"`
	FontSize    float64 `json:"fontSize,omitempty"`
	FontWeight  int     `json:"fontWeight,omitempty"`
	FontStyle   string  `json:"fontStyle,omitempty"`
	TextAlign   string  `json:"textAlign,omitempty"`
	Underline   bool    `json:"underline,omitempty"`
	Linethrough bool    `json:"linethrough,omitempty"`

	// Shapes and drawings
	Radius float64 `json:"radius,omitempty"`
	Rx     float64 `json:"rx,omitempty"`
	Ry     float64 `json:"ry,omitempty"`
	Path   string  `json:"path,omitempty"`
}

// ID returns the object id
func (p *Properties) ID() id.ObjectID { return p.Data.ID }

// IsSelectable reports whether the object can become the active selection
func (p *Properties) IsSelectable() bool {
	return p.Selectable == nil || *p.Selectable
}

// ScaledWidth returns width multiplied by horizontal scale
func (p *Properties) ScaledWidth() float64 { return p.Width * scale(p.ScaleX) }

// ScaledHeight returns height multiplied by vertical scale
func (p *Properties) ScaledHeight() float64 { return p.Height * scale(p.ScaleY) }

func scale(s float64) float64 {
	if s == 0 {
		return 1
	}
	return s
}

// Clone returns a deep copy of the properties
func (p Properties) Clone() Properties {
	out := p
	if p.Shadow != nil {
		s := *p.Shadow
		out.Shadow = &s
	}
	if p.Selectable != nil {
		b := *p.Selectable
		out.Selectable = &b
	}
	if p.Filters != nil {
		out.Filters = make([]Filter, len(p.Filters))
		for i, f := range p.Filters {
			out.Filters[i] = f.Clone()
		}
	}
	return out
}

// ObjectRecord is the serialized form of a scene object
type ObjectRecord struct {
	Properties
	Objects []ObjectRecord `json:"objects,omitempty"`
}

// Clone returns a deep copy of the record
func (r ObjectRecord) Clone() ObjectRecord {
	out := ObjectRecord{Properties: r.Properties.Clone()}
	if r.Objects != nil {
		out.Objects = make([]ObjectRecord, len(r.Objects))
		for i, child := range r.Objects {
			out.Objects[i] = child.Clone()
		}
	}
	return out
}

// BoolPtr returns a pointer to b
func BoolPtr(b bool) *bool { return &b }

// StringPtr returns a pointer to s
func StringPtr(s string) *string { return &s }

// Float64Ptr returns a pointer to f
func Float64Ptr(f float64) *float64 { return &f }

// DefaultProperties returns properties every new object starts from
func DefaultProperties() Properties {
	return Properties{
		ScaleX:  1,
		ScaleY:  1,
		Opacity: 1,
	}
}

package types

// Panel names a tool panel of the editor
type Panel string

const (
	PanelNavigation     Panel = "navigation"
	PanelFilter         Panel = "filter"
	PanelResize         Panel = "resize"
	PanelCrop           Panel = "crop"
	PanelTransform      Panel = "transform"
	PanelDraw           Panel = "draw"
	PanelText           Panel = "text"
	PanelShapes         Panel = "shapes"
	PanelStickers       Panel = "stickers"
	PanelFrame          Panel = "frame"
	PanelCorners        Panel = "corners"
	PanelBackground     Panel = "background"
	PanelObjectSettings Panel = "objectSettings"
)

// Panels lists every tool panel in display order
var Panels = []Panel{
	PanelFilter, PanelResize, PanelCrop, PanelTransform, PanelDraw,
	PanelText, PanelShapes, PanelStickers, PanelFrame, PanelCorners,
	PanelBackground, PanelObjectSettings,
}

// ParsePanel returns the panel with the given name
func ParsePanel(name string) (Panel, bool) {
	p := Panel(name)
	if p == PanelNavigation {
		return p, true
	}
	for _, known := range Panels {
		if known == p {
			return p, true
		}
	}
	return "", false
}

func (p Panel) String() string { return string(p) }

// HistoryName is the label and icon of a history entry
type HistoryName struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

var (
	HistoryInitial     = HistoryName{Name: "Initial", Icon: "history"}
	HistoryLoadedState = HistoryName{Name: "Loaded State", Icon: "history"}
	HistoryFilter      = HistoryName{Name: "Applied: Filter", Icon: "filter-custom"}
	HistoryResize      = HistoryName{Name: "Applied: Resize", Icon: "resize-custom"}
	HistoryCrop        = HistoryName{Name: "Applied: Crop", Icon: "crop-custom"}
	HistoryTransform   = HistoryName{Name: "Applied: Transform", Icon: "transform-custom"}
	HistoryDraw        = HistoryName{Name: "Added: Drawing", Icon: "pencil-custom"}
	HistoryText        = HistoryName{Name: "Added: Text", Icon: "text-box-custom"}
	HistoryShapes      = HistoryName{Name: "Added: Shape", Icon: "polygon-custom"}
	HistoryStickers    = HistoryName{Name: "Added: Sticker", Icon: "sticker-custom"}
	HistoryFrame       = HistoryName{Name: "Applied: Frame", Icon: "frame-custom"}
	HistoryCorners     = HistoryName{Name: "Applied: Corners", Icon: "rounded-corner-custom"}
	HistoryBackground  = HistoryName{Name: "Applied: Background", Icon: "background-custom"}
	HistoryOverlay     = HistoryName{Name: "Added: Image", Icon: "image"}
	HistoryObjectStyle = HistoryName{Name: "Changed: Style", Icon: "style"}
	HistoryObjectOrder = HistoryName{Name: "Changed: Order", Icon: "layers"}
	HistoryObjectMoved = HistoryName{Name: "Changed: Position", Icon: "move"}
	HistoryObjectAdded = HistoryName{Name: "Duplicated: Object", Icon: "copy"}
	HistoryObjectGone  = HistoryName{Name: "Deleted: Object", Icon: "delete"}
)

// Values is a partial property update; nil fields are left untouched
type Values struct {
	Fill            *string  `json:"fill,omitempty"`
	Stroke          *string  `json:"stroke,omitempty"`
	StrokeWidth     *float64 `json:"strokeWidth,omitempty"`
	Opacity         *float64 `json:"opacity,omitempty"`
	BackgroundColor *string  `json:"backgroundColor,omitempty"`
	Shadow          *Shadow  `json:"shadow,omitempty"`
	FontFamily      *string  `json:"fontFamily,omitempty"`
	FontSize        *float64 `json:"fontSize,omitempty"`
	FontWeight      *int     `json:"fontWeight,omitempty"`
	FontStyle       *string  `json:"fontStyle,omitempty"`
	TextAlign       *string  `json:"textAlign,omitempty"`
	Underline       *bool    `json:"underline,omitempty"`
	Linethrough     *bool    `json:"linethrough,omitempty"`
	Text            *string  `json:"text,omitempty"`
}

// Empty reports whether no field is set
func (v Values) Empty() bool {
	return v == Values{}
}

// ApplyTo writes every set field onto p
func (v Values) ApplyTo(p *Properties) {
	if v.Fill != nil {
		p.Fill = *v.Fill
	}
	if v.Stroke != nil {
		p.Stroke = *v.Stroke
	}
	if v.StrokeWidth != nil {
		p.StrokeWidth = *v.StrokeWidth
	}
	if v.Opacity != nil {
		p.Opacity = *v.Opacity
	}
	if v.BackgroundColor != nil {
		p.BackgroundColor = *v.BackgroundColor
	}
	if v.Shadow != nil {
		s := *v.Shadow
		p.Shadow = &s
	}
	if v.FontFamily != nil {
		p.FontFamily = *v.FontFamily
	}
	if v.FontSize != nil {
		p.FontSize = *v.FontSize
	}
	if v.FontWeight != nil {
		p.FontWeight = *v.FontWeight
	}
	if v.FontStyle != nil {
		p.FontStyle = *v.FontStyle
	}
	if v.TextAlign != nil {
		p.TextAlign = *v.TextAlign
	}
	if v.Underline != nil {
		p.Underline = *v.Underline
	}
	if v.Linethrough != nil {
		p.Linethrough = *v.Linethrough
	}
	if v.Text != nil {
		p.Text = *v.Text
	}
}

// ValuesOf builds the full form for properties p
func ValuesOf(p Properties) Values {
	v := Values{
		Fill:            StringPtr(p.Fill),
		Stroke:          StringPtr(p.Stroke),
		StrokeWidth:     Float64Ptr(p.StrokeWidth),
		Opacity:         Float64Ptr(p.Opacity),
		BackgroundColor: StringPtr(p.BackgroundColor),
		FontFamily:      StringPtr(p.FontFamily),
		FontSize:        Float64Ptr(p.FontSize),
		FontWeight:      &p.FontWeight,
		FontStyle:       StringPtr(p.FontStyle),
		TextAlign:       StringPtr(p.TextAlign),
		Underline:       BoolPtr(p.Underline),
		Linethrough:     BoolPtr(p.Linethrough),
	}
	if p.Shadow != nil {
		s := *p.Shadow
		v.Shadow = &s
	}
	return v
}

package types

import "github.com/GriffinCanCode/PixelDesk/backend/internal/shared/id"

// FrameSize bounds the thickness of a frame, in percent of the shorter side
type FrameSize struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Default float64 `json:"default"`
}

// Frame modes
const (
	FrameModeBasic   = "basic"
	FrameModeStretch = "stretch"
	FrameModeRepeat  = "repeat"
)

// Frame describes a decorative frame around the canvas
type Frame struct {
	Name        string    `json:"name"`
	DisplayName string    `json:"displayName,omitempty"`
	Mode        string    `json:"mode"`
	Size        FrameSize `json:"size"`
	Thickness   float64   `json:"thickness,omitempty"`
	Color       string    `json:"color,omitempty"`
}

// Font types
const (
	FontTypeBasic  = "basic"
	FontTypeGoogle = "google"
	FontTypeCustom = "custom"
)

// FontItem describes a font used by text objects
type FontItem struct {
	Family   string `json:"family"`
	Category string `json:"category,omitempty"`
	Type     string `json:"type"`
	URL      string `json:"url,omitempty"`
}

// EditorMeta holds document state that does not live on scene objects
type EditorMeta struct {
	Frame      *Frame     `json:"frame"`
	Fonts      []FontItem `json:"fonts"`
	Background string     `json:"background,omitempty"`
}

// State is the full editable scene: what "get state" returns
type State struct {
	Canvas       []ObjectRecord `json:"canvas"`
	Editor       EditorMeta     `json:"editor"`
	CanvasWidth  float64        `json:"canvasWidth"`
	CanvasHeight float64        `json:"canvasHeight"`
}

// HasDimensions reports whether the state carries a canvas size
func (s *State) HasDimensions() bool {
	return s.CanvasWidth > 0 && s.CanvasHeight > 0
}

// Clone returns a deep copy of the state
func (s State) Clone() State {
	out := State{
		CanvasWidth:  s.CanvasWidth,
		CanvasHeight: s.CanvasHeight,
		Editor:       EditorMeta{Background: s.Editor.Background},
	}
	if s.Canvas != nil {
		out.Canvas = make([]ObjectRecord, len(s.Canvas))
		for i, r := range s.Canvas {
			out.Canvas[i] = r.Clone()
		}
	}
	if s.Editor.Frame != nil {
		f := *s.Editor.Frame
		out.Editor.Frame = &f
	}
	if s.Editor.Fonts != nil {
		out.Editor.Fonts = append([]FontItem(nil), s.Editor.Fonts...)
	}
	return out
}

// Snapshot is one history entry
type Snapshot struct {
	State
	Name           string        `json:"name"`
	ID             id.SnapshotID `json:"id"`
	Icon           *string       `json:"icon"`
	Zoom           float64       `json:"zoom"`
	ActiveObjectID *id.ObjectID  `json:"activeObjectId"`
}

// Clone returns a deep copy of the snapshot
func (s Snapshot) Clone() Snapshot {
	out := s
	out.State = s.State.Clone()
	if s.Icon != nil {
		icon := *s.Icon
		out.Icon = &icon
	}
	if s.ActiveObjectID != nil {
		oid := *s.ActiveObjectID
		out.ActiveObjectID = &oid
	}
	return out
}

// Entry is a lightweight view of a history entry for listing
type Entry struct {
	ID      id.SnapshotID `json:"id"`
	Name    string        `json:"name"`
	Icon    *string       `json:"icon"`
	Current bool          `json:"current"`
}

// Size is a width/height pair
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Box is a rectangle in canvas coordinates
type Box struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

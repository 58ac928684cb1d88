package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/id"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
)

// ErrInvalidDocument marks a state document that cannot be loaded
var ErrInvalidDocument = errors.New("invalid state document")

var api = sonic.ConfigStd

type wireState struct {
	Canvas       json.RawMessage   `json:"canvas"`
	Editor       *types.EditorMeta `json:"editor"`
	CanvasWidth  float64           `json:"canvasWidth"`
	CanvasHeight float64           `json:"canvasHeight"`
}

type wireSnapshot struct {
	wireState
	Name           string        `json:"name"`
	ID             id.SnapshotID `json:"id"`
	Icon           *string       `json:"icon"`
	Zoom           float64       `json:"zoom"`
	ActiveObjectID *id.ObjectID  `json:"activeObjectId"`
}

// canvasEnvelope is the renderer's own object list format
type canvasEnvelope struct {
	Version string               `json:"version,omitempty"`
	Objects []types.ObjectRecord `json:"objects"`
}

// Encode serializes v as JSON
func Encode(v any) ([]byte, error) {
	data, err := api.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return data, nil
}

// EncodeIndent serializes v as indented JSON
func EncodeIndent(v any) ([]byte, error) {
	data, err := api.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return data, nil
}

// DecodeState parses and validates a state document
func DecodeState(data []byte) (types.State, error) {
	var w wireState
	if err := api.Unmarshal(data, &w); err != nil {
		return types.State{}, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return w.state()
}

// DecodeSnapshot parses and validates a history entry
func DecodeSnapshot(data []byte) (types.Snapshot, error) {
	var w wireSnapshot
	if err := api.Unmarshal(data, &w); err != nil {
		return types.Snapshot{}, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	st, err := w.wireState.state()
	if err != nil {
		return types.Snapshot{}, err
	}
	return types.Snapshot{
		State:          st,
		Name:           w.Name,
		ID:             w.ID,
		Icon:           w.Icon,
		Zoom:           w.Zoom,
		ActiveObjectID: w.ActiveObjectID,
	}, nil
}

func (w wireState) state() (types.State, error) {
	if len(w.Canvas) == 0 {
		return types.State{}, fmt.Errorf("%w: missing canvas", ErrInvalidDocument)
	}
	if w.Editor == nil {
		return types.State{}, fmt.Errorf("%w: missing editor", ErrInvalidDocument)
	}

	objects, err := decodeCanvas(w.Canvas)
	if err != nil {
		return types.State{}, err
	}

	st := types.State{
		Canvas:       objects,
		Editor:       *w.Editor,
		CanvasWidth:  w.CanvasWidth,
		CanvasHeight: w.CanvasHeight,
	}
	if st.Editor.Fonts == nil {
		st.Editor.Fonts = []types.FontItem{}
	}
	if err := Validate(st); err != nil {
		return types.State{}, err
	}
	return st, nil
}

// decodeCanvas accepts an object list, a renderer envelope, or either one
// encoded as a JSON string
func decodeCanvas(raw json.RawMessage) ([]types.ObjectRecord, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, fmt.Errorf("%w: missing canvas", ErrInvalidDocument)
	}

	switch raw[0] {
	case '"':
		var inner string
		if err := api.Unmarshal(raw, &inner); err != nil {
			return nil, fmt.Errorf("%w: canvas: %w", ErrInvalidDocument, err)
		}
		if inner == "" {
			return nil, fmt.Errorf("%w: empty canvas", ErrInvalidDocument)
		}
		if inner[0] == '"' {
			return nil, fmt.Errorf("%w: canvas is nested too deeply", ErrInvalidDocument)
		}
		return decodeCanvas(json.RawMessage(inner))
	case '[':
		var objects []types.ObjectRecord
		if err := api.Unmarshal(raw, &objects); err != nil {
			return nil, fmt.Errorf("%w: canvas: %w", ErrInvalidDocument, err)
		}
		if objects == nil {
			objects = []types.ObjectRecord{}
		}
		return objects, nil
	case '{':
		var env canvasEnvelope
		if err := api.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("%w: canvas: %w", ErrInvalidDocument, err)
		}
		if env.Objects == nil {
			env.Objects = []types.ObjectRecord{}
		}
		return env.Objects, nil
	default:
		return nil, fmt.Errorf("%w: canvas must be a list of objects", ErrInvalidDocument)
	}
}

// Validate checks a decoded state before it touches the scene
func Validate(st types.State) error {
	if st.CanvasWidth < 0 || st.CanvasHeight < 0 {
		return fmt.Errorf("%w: negative canvas size %vx%v", ErrInvalidDocument, st.CanvasWidth, st.CanvasHeight)
	}
	for i, rec := range st.Canvas {
		if rec.Name != "" && !rec.Name.Known() {
			return fmt.Errorf("%w: object %d has unknown kind %q", ErrInvalidDocument, i, rec.Name)
		}
		for _, f := range rec.Filters {
			if f.Type == "" {
				return fmt.Errorf("%w: object %d has a filter without type", ErrInvalidDocument, i)
			}
		}
	}
	if f := st.Editor.Frame; f != nil && f.Name == "" {
		return fmt.Errorf("%w: frame without name", ErrInvalidDocument)
	}
	return nil
}

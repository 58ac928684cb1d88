package tools

import (
	"go.uber.org/zap"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/canvas"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/scene"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/selection"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/state"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
)

// Env holds the collaborators every tool works with
type Env struct {
	Canvas    *canvas.Canvas
	Selection *selection.Tracker
	History   History
	Store     *state.Store
	Settings  types.Settings
	Logger    *zap.Logger
}

func (e Env) surface() scene.Surface { return e.Canvas.Surface() }

func (e Env) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

// content returns every non-guide object, bottom-most first
func (e Env) content() []*scene.Object {
	objects := e.surface().Objects()
	out := objects[:0]
	for _, obj := range objects {
		if !obj.IsGuide() {
			out = append(out, obj)
		}
	}
	return out
}

// media returns every image object, main image included
func (e Env) media() []*scene.Object {
	var out []*scene.Object
	for _, obj := range e.surface().Objects() {
		if obj.Name.IsMedia() {
			out = append(out, obj)
		}
	}
	return out
}

// scaleToWidth scales obj uniformly so its scaled width is width
func scaleToWidth(obj *scene.Object, width float64) {
	base := baseWidth(obj)
	if base <= 0 {
		return
	}
	obj.ScaleX = width / base
	obj.ScaleY = obj.ScaleX
}

// scaleToHeight scales obj uniformly so its scaled height is height
func scaleToHeight(obj *scene.Object, height float64) {
	base := baseHeight(obj)
	if base <= 0 {
		return
	}
	obj.ScaleY = height / base
	obj.ScaleX = obj.ScaleY
}

func baseWidth(obj *scene.Object) float64 {
	switch obj.Type {
	case types.TypeCircle:
		return obj.Radius * 2
	case types.TypeEllipse:
		return obj.Rx * 2
	}
	return obj.Width
}

func baseHeight(obj *scene.Object) float64 {
	switch obj.Type {
	case types.TypeCircle:
		return obj.Radius * 2
	case types.TypeEllipse:
		return obj.Ry * 2
	}
	return obj.Height
}

func scaledWidth(obj *scene.Object) float64  { return baseWidth(obj) * scaleOf(obj.ScaleX) }
func scaledHeight(obj *scene.Object) float64 { return baseHeight(obj) * scaleOf(obj.ScaleY) }

func scaleOf(s float64) float64 {
	if s == 0 {
		return 1
	}
	return s
}

// center positions obj in the middle of a canvas of the given size
func center(obj *scene.Object, size types.Size) {
	obj.Left = (size.Width - scaledWidth(obj)) / 2
	obj.Top = (size.Height - scaledHeight(obj)) / 2
}

func intersects(a, b *scene.Object) bool {
	return a.Left < b.Left+scaledWidth(b) && b.Left < a.Left+scaledWidth(a) &&
		a.Top < b.Top+scaledHeight(b) && b.Top < a.Top+scaledHeight(a)
}

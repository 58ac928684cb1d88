// Package canvas manages the document canvas: its original size, zoom
// level and the main image.
package canvas

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/scene"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/state"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/id"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
)

const (
	MinScale    = 0.1
	MaxScale    = 2.0
	ZoomStep    = 0.05
	FitMargin   = 40
	MinWidth    = 50
	MinHeight   = 50
	overlayFill = 0.9

	DefaultWidth  = 800
	DefaultHeight = 600
)

var ErrNoImage = errors.New("image could not be loaded")

// Image is a decoded image reference
type Image struct {
	Src    string
	Width  float64
	Height float64
}

// ImageLoader resolves an image source to its dimensions
type ImageLoader interface {
	Load(ctx context.Context, src string) (Image, error)
}

// Options configures a Canvas
type Options struct {
	Viewport    types.Size
	CrossOrigin string
}

// Canvas wraps the scene surface with document geometry
type Canvas struct {
	surface scene.Surface
	store   *state.Store
	loop    *scene.Loop
	loader  ImageLoader
	logger  *zap.Logger

	viewport    types.Size
	crossOrigin string
	original    types.Size
	zoom        float64
	loading     bool
}

// New creates a canvas over surface
func New(surface scene.Surface, store *state.Store, loop *scene.Loop, loader ImageLoader, opts Options, log *zap.Logger) *Canvas {
	if log == nil {
		log = zap.NewNop()
	}
	return &Canvas{
		surface:     surface,
		store:       store,
		loop:        loop,
		loader:      loader,
		logger:      log,
		viewport:    opts.Viewport,
		crossOrigin: opts.CrossOrigin,
		zoom:        1,
	}
}

// Surface returns the underlying scene surface
func (c *Canvas) Surface() scene.Surface { return c.surface }

// Render requests a re-render
func (c *Canvas) Render() { c.surface.RequestRender() }

// Original returns the unzoomed canvas size
func (c *Canvas) Original() types.Size { return c.original }

// Resize sets the original size; the element size follows the zoom
func (c *Canvas) Resize(width, height float64) {
	c.surface.SetDimensions(types.Size{Width: width * c.zoom, Height: height * c.zoom})
	c.original = types.Size{Width: width, Height: height}
}

// SetViewport sets the size of the area the canvas is displayed in
func (c *Canvas) SetViewport(size types.Size) { c.viewport = size }

// Viewport returns the display area size
func (c *Canvas) Viewport() types.Size { return c.viewport }

// ============================================================================
// Zoom
// ============================================================================

// Zoom returns the current scale
func (c *Canvas) Zoom() float64 { return c.zoom }

// ZoomPercent returns the current scale in whole percent
func (c *Canvas) ZoomPercent() int { return int(math.Floor(c.zoom*100 + 1e-9)) }

// SetZoom scales the view; out of range scales are ignored
func (c *Canvas) SetZoom(scale float64, resize bool) bool {
	if scale < MinScale || scale > MaxScale {
		return false
	}

	c.surface.SetZoom(scale)
	if resize {
		c.surface.SetDimensions(types.Size{
			Width:  c.original.Width * scale,
			Height: c.original.Height * scale,
		})
	}

	c.zoom = scale
	c.store.Dispatch(state.SetZoom{Percent: c.ZoomPercent()})
	return true
}

// ZoomIn increases the scale by one step
func (c *Canvas) ZoomIn() bool { return c.SetZoom(c.zoom+ZoomStep, true) }

// ZoomOut decreases the scale by one step
func (c *Canvas) ZoomOut() bool { return c.SetZoom(c.zoom-ZoomStep, true) }

// FitToScreen scales the canvas down when it exceeds the viewport
func (c *Canvas) FitToScreen() {
	if c.viewport.Width <= 0 || c.viewport.Height <= 0 {
		return
	}
	maxWidth := c.viewport.Width - FitMargin
	maxHeight := c.viewport.Height - FitMargin

	if c.original.Height > maxHeight || c.original.Width > maxWidth {
		scale := math.Min(maxHeight/c.original.Height, maxWidth/c.original.Width)
		c.SetZoom(scale, true)
	}
}

// ============================================================================
// Content
// ============================================================================

// OpenNew starts a blank document of at least MinWidth x MinHeight.
// Fitting and the content-loaded signal happen on the next loop turn.
func (c *Canvas) OpenNew(width, height float64) types.Size {
	width = math.Max(width, MinWidth)
	height = math.Max(height, MinHeight)

	c.surface.Clear()
	c.Resize(width, height)

	c.loop.Defer(func() {
		c.FitToScreen()
		c.store.Dispatch(state.ContentLoaded{})
	})

	c.logger.Debug("Opened blank canvas", zap.Float64("width", width), zap.Float64("height", height))
	return types.Size{Width: width, Height: height}
}

// LoadMainImage replaces the document with the image at src
func (c *Canvas) LoadMainImage(ctx context.Context, src string) (*scene.Object, error) {
	img, err := c.load(ctx, src)
	if err != nil {
		return nil, err
	}

	c.surface.Clear()
	obj := c.imageObject(types.KindMainImage, img)
	obj.Selectable = types.BoolPtr(false)
	c.surface.Add(obj)
	c.Resize(img.Width, img.Height)
	c.FitToScreen()
	c.store.Dispatch(state.ContentLoaded{})

	c.logger.Info("Loaded main image",
		zap.String("object_id", obj.ID().String()),
		zap.Float64("width", img.Width),
		zap.Float64("height", img.Height))
	return obj, nil
}

// OpenImage adds the image at src as an overlay, scaled to fit 90% of the
// canvas and centered
func (c *Canvas) OpenImage(ctx context.Context, src string) (*scene.Object, error) {
	img, err := c.load(ctx, src)
	if err != nil {
		return nil, err
	}

	obj := c.imageObject(types.KindImage, img)
	maxWidth, maxHeight := c.original.Width, c.original.Height
	if maxWidth > 0 && maxHeight > 0 && (obj.Width >= maxWidth || obj.Height >= maxHeight) {
		newWidth := maxWidth * overlayFill
		newHeight := maxHeight * overlayFill
		factor := math.Min(newHeight/obj.ScaledHeight(), newWidth/obj.ScaledWidth())
		obj.ScaleX *= factor
		obj.ScaleY *= factor
	}

	c.surface.Add(obj)
	c.Center(obj)
	c.Render()
	c.FitToScreen()
	return obj, nil
}

// Center positions obj in the middle of the canvas
func (c *Canvas) Center(obj *scene.Object) {
	obj.Left = (c.original.Width - obj.ScaledWidth()) / 2
	obj.Top = (c.original.Height - obj.ScaledHeight()) / 2
}

func (c *Canvas) load(ctx context.Context, src string) (Image, error) {
	if c.loader == nil {
		return Image{}, ErrNoImage
	}
	img, err := c.loader.Load(ctx, src)
	if err != nil {
		return Image{}, fmt.Errorf("%w: %w", ErrNoImage, err)
	}
	if img.Width <= 0 || img.Height <= 0 {
		return Image{}, fmt.Errorf("%w: empty image", ErrNoImage)
	}
	return img, nil
}

func (c *Canvas) imageObject(kind types.ObjectKind, img Image) *scene.Object {
	obj := scene.New(kind, types.TypeImage)
	obj.Src = img.Src
	obj.Width = img.Width
	obj.Height = img.Height
	obj.CrossOrigin = c.crossOrigin
	return obj
}

// MainImage returns the main image object, if any
func (c *Canvas) MainImage() *scene.Object {
	for _, obj := range c.surface.Objects() {
		if obj.Name == types.KindMainImage {
			return obj
		}
	}
	return nil
}

// ObjectByID finds a live object by id, guides included
func (c *Canvas) ObjectByID(oid id.ObjectID) *scene.Object {
	for _, obj := range c.surface.Objects() {
		if obj.ID() == oid {
			return obj
		}
	}
	return nil
}

// Loading reports whether a document restore is in progress
func (c *Canvas) Loading() bool { return c.loading }

// SetLoading marks a document restore as started or finished
func (c *Canvas) SetLoading(loading bool) { c.loading = loading }

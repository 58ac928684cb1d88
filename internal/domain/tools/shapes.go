package tools

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/canvas"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/scene"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
)

var (
	ErrUnknownShape   = errors.New("unknown shape")
	ErrUnknownSticker = errors.New("unknown sticker")
)

const (
	stickerTypeSVG     = "svg"
	stickerDefaultSize = 100
)

// ShapesState is the payload of the shapes and stickers tools
type ShapesState struct {
	Added int `json:"added"`
}

// ShapesTool adds basic shapes
type ShapesTool struct {
	*ToolState[ShapesState]
	env    Env
	shapes []types.ShapeDef
}

// NewShapesTool creates the shapes tool; configured shapes replace the
// builtin ones
func NewShapesTool(env Env) *ShapesTool {
	shapes := env.Settings.Tools.Shapes.Items
	if len(shapes) == 0 {
		shapes = BuiltinShapes()
	}
	return &ShapesTool{
		ToolState: NewToolState(types.PanelShapes, types.HistoryShapes, env.History, env.Store,
			ShapesState{}, addedHooks()),
		env:    env,
		shapes: slices.Clone(shapes),
	}
}

func addedHooks() Hooks[ShapesState] {
	return Hooks[ShapesState]{
		OnApply:  func(p *ShapesState) { p.Added = 0 },
		OnCancel: func(p *ShapesState) { p.Added = 0 },
	}
}

// Shapes returns the available shapes
func (t *ShapesTool) Shapes() []types.ShapeDef { return slices.Clone(t.shapes) }

// ShapeByName returns the shape with the given name
func (t *ShapesTool) ShapeByName(name string) (types.ShapeDef, bool) {
	for _, s := range t.shapes {
		if s.Name == name {
			return s, true
		}
	}
	return types.ShapeDef{}, false
}

// AddBasicShape adds the named shape at half the canvas width, then scales
// it to a quarter of the canvas width and centers it
func (t *ShapesTool) AddBasicShape(name string) (*scene.Object, error) {
	def, ok := t.ShapeByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownShape, name)
	}

	size := t.env.Canvas.Original().Width / 2
	obj := scene.New(types.KindShape, def.Type)
	switch def.Name {
	case "circle":
		obj.Radius = size
	case "ellipse":
		obj.Rx = size
		obj.Ry = size / 2
	default:
		obj.Width = size
		obj.Height = size
	}
	obj.Path = def.Path
	if len(def.Points) > 0 {
		obj.Path = pointsPath(def.Points)
	}
	if fill := t.env.Settings.ObjectDefaults.Fill; fill != "" {
		obj.Fill = fill
	}

	addAndPosition(t.env, obj)
	t.Update(func(p *ShapesState) { p.Added++ })
	return obj, nil
}

// StickersTool adds stickers from the sticker categories
type StickersTool struct {
	*ToolState[ShapesState]
	env    Env
	loader canvas.ImageLoader
}

// NewStickersTool creates the stickers tool; loader resolves sticker images
func NewStickersTool(env Env, loader canvas.ImageLoader) *StickersTool {
	return &StickersTool{
		ToolState: NewToolState(types.PanelStickers, types.HistoryStickers, env.History, env.Store,
			ShapesState{}, addedHooks()),
		env:    env,
		loader: loader,
	}
}

// Categories returns the sticker categories
func (t *StickersTool) Categories() []types.StickerCategory {
	return slices.Clone(t.env.Settings.Tools.Stickers.Items)
}

// Category returns the category with the given name
func (t *StickersTool) Category(name string) (types.StickerCategory, bool) {
	for _, c := range t.env.Settings.Tools.Stickers.Items {
		if c.Name == name {
			return c, true
		}
	}
	return types.StickerCategory{}, false
}

// StickerURL returns the asset url of a sticker
func (t *StickersTool) StickerURL(category types.StickerCategory, name string) string {
	return assetURL(t.env.Settings.BaseURL, "images/stickers/"+category.Name+"/"+name+"."+category.Type)
}

// CategoryURL returns the thumbnail of a category, its first sticker by default
func (t *StickersTool) CategoryURL(category types.StickerCategory) string {
	if category.ThumbnailURL != "" {
		return assetURL(t.env.Settings.BaseURL, category.ThumbnailURL)
	}
	return t.StickerURL(category, "1")
}

// AddSticker adds a sticker of category. Vector stickers become groups so
// their paths can be recolored.
func (t *StickersTool) AddSticker(ctx context.Context, categoryName, name string) (*scene.Object, error) {
	category, ok := t.Category(categoryName)
	if !ok || !stickerExists(category, name) {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnknownSticker, categoryName, name)
	}
	src := t.StickerURL(category, name)

	img, err := t.load(ctx, src)
	svg := category.Type == stickerTypeSVG
	if err != nil && !svg {
		return nil, err
	}
	if err != nil {
		img = canvas.Image{Src: src, Width: stickerDefaultSize, Height: stickerDefaultSize}
	}

	var obj *scene.Object
	if svg {
		obj = scene.New(types.KindSticker, types.TypeGroup)
		part := scene.New(types.KindSticker, types.TypeImage)
		part.Src, part.Width, part.Height = src, img.Width, img.Height
		obj.Children = []*scene.Object{part}
	} else {
		obj = scene.New(types.KindSticker, types.TypeImage)
		obj.Src = src
	}
	obj.Width, obj.Height = img.Width, img.Height

	addAndPosition(t.env, obj)
	t.Update(func(p *ShapesState) { p.Added++ })
	return obj, nil
}

func (t *StickersTool) load(ctx context.Context, src string) (canvas.Image, error) {
	if t.loader == nil {
		return canvas.Image{}, canvas.ErrNoImage
	}
	img, err := t.loader.Load(ctx, src)
	if err != nil {
		return canvas.Image{}, fmt.Errorf("%w: %w", canvas.ErrNoImage, err)
	}
	if img.Width <= 0 || img.Height <= 0 {
		return canvas.Image{}, fmt.Errorf("%w: empty image", canvas.ErrNoImage)
	}
	return img, nil
}

func stickerExists(c types.StickerCategory, name string) bool {
	if len(c.List) > 0 {
		return slices.Contains(c.List, name)
	}
	n, err := strconv.Atoi(name)
	return err == nil && n >= 1 && (c.Items == 0 || n <= c.Items)
}

func addAndPosition(env Env, obj *scene.Object) {
	env.surface().Add(obj)
	env.surface().SetActive(obj, false)
	size := env.Canvas.Original()
	scaleToWidth(obj, size.Width/4)
	center(obj, size)
	env.Canvas.Render()
}

// pointsPath encodes polygon points as a closed path
func pointsPath(points []float64) string {
	var b strings.Builder
	for i := 0; i+1 < len(points); i += 2 {
		if i == 0 {
			b.WriteString("M ")
		} else {
			b.WriteString(" L ")
		}
		b.WriteString(strconv.FormatFloat(points[i], 'f', -1, 64))
		b.WriteByte(' ')
		b.WriteString(strconv.FormatFloat(points[i+1], 'f', -1, 64))
	}
	if b.Len() > 0 {
		b.WriteString(" Z")
	}
	return b.String()
}

func assetURL(base, path string) string {
	if base == "" || strings.Contains(path, "://") {
		return path
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

var (
	_ Tool = (*ShapesTool)(nil)
	_ Tool = (*StickersTool)(nil)
)

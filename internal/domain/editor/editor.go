package editor

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/canvas"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/history"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/registry"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/scene"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/selection"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/snapshot"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/state"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/tools"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/providers/imports"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
)

var (
	ErrNoDocuments  = errors.New("document storage is not configured")
	ErrUnknownPanel = errors.New("unknown panel")
	ErrNoSelection  = errors.New("nothing is selected")
)

// Metrics receives the metrics of every editor component
type Metrics interface {
	snapshot.Recorder
	history.Recorder
	tools.Recorder
}

// Options configures an Editor
type Options struct {
	Viewport     types.Size
	Settings     types.Settings
	Images       canvas.ImageLoader
	Fonts        snapshot.FontLoader
	Catalog      tools.FontCatalog
	Documents    snapshot.Store
	Metrics      Metrics
	Logger       *zap.Logger
	FallbackFont string
}

// Tools are the editing tools, one per panel
type Tools struct {
	Filter         *tools.FilterTool
	Resize         *tools.ResizeTool
	Crop           *tools.CropTool
	Transform      *tools.TransformTool
	Draw           *tools.DrawTool
	Text           *tools.TextTool
	Shapes         *tools.ShapesTool
	Stickers       *tools.StickersTool
	Frame          *tools.FrameTool
	Corners        *tools.CornersTool
	Background     *tools.BackgroundTool
	ObjectSettings *tools.ObjectSettingsTool
}

// Editor owns one document and every component editing it. Commands run
// one at a time; deferred work is flushed before a command returns.
type Editor struct {
	mu sync.Mutex

	graph     *scene.Graph
	loop      *scene.Loop
	store     *state.Store
	canvas    *canvas.Canvas
	registry  *registry.Manager
	selection *selection.Tracker
	ser       *snapshot.Serializer
	history   *history.Service
	coord     *tools.Coordinator
	tools     *Tools
	validator *imports.Validator
	documents snapshot.Store
	settings  types.Settings
	logger    *zap.Logger

	subMu     sync.RWMutex
	subs      map[int]func(Event)
	nextSub   int
	lastPanel types.Panel

	closers []func()
}

// New creates an editor with an empty, unloaded document
func New(opts Options) *Editor {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	e := &Editor{
		graph:     scene.NewGraph(),
		loop:      scene.NewLoop(),
		store:     state.NewStore(state.Initial()),
		documents: opts.Documents,
		settings:  opts.Settings,
		logger:    log,
		subs:      make(map[int]func(Event)),
		lastPanel: types.PanelNavigation,
	}

	crossOrigin := ""
	if opts.Settings.CrossOrigin {
		crossOrigin = "anonymous"
	}
	e.canvas = canvas.New(e.graph, e.store, e.loop, opts.Images,
		canvas.Options{Viewport: opts.Viewport, CrossOrigin: crossOrigin}, log.Named("canvas"))

	e.registry = registry.NewManager(e.graph, e.store, e.loop, log.Named("registry"))
	e.closers = append(e.closers, e.registry.Bind())

	e.selection = selection.NewTracker(e.graph, e.registry, objectDefaults(opts.Settings))

	e.ser = snapshot.NewSerializer(snapshot.Deps{
		Surface:      e.graph,
		Canvas:       e.canvas,
		Registry:     e.registry,
		Store:        e.store,
		Selection:    e.selection,
		Fonts:        opts.Fonts,
		Metrics:      opts.Metrics,
		Logger:       log.Named("snapshot"),
		FallbackFont: opts.FallbackFont,
	})
	e.history = history.NewService(e.ser, e.store, opts.Metrics, log.Named("history"))
	e.closers = append(e.closers, e.history.Close)

	env := tools.Env{
		Canvas:    e.canvas,
		Selection: e.selection,
		History:   e.history,
		Store:     e.store,
		Settings:  opts.Settings,
		Logger:    log.Named("tools"),
	}
	e.tools = &Tools{
		Filter:         tools.NewFilterTool(env),
		Resize:         tools.NewResizeTool(env),
		Crop:           tools.NewCropTool(env),
		Transform:      tools.NewTransformTool(env),
		Draw:           tools.NewDrawTool(env),
		Text:           tools.NewTextTool(env, catalogOrEmpty(opts.Catalog)),
		Shapes:         tools.NewShapesTool(env),
		Stickers:       tools.NewStickersTool(env, opts.Images),
		Frame:          tools.NewFrameTool(env),
		Corners:        tools.NewCornersTool(env),
		Background:     tools.NewBackgroundTool(env),
		ObjectSettings: tools.NewObjectSettingsTool(env),
	}
	e.closers = append(e.closers, e.tools.Filter.Close, e.tools.ObjectSettings.Close)

	e.coord = tools.NewCoordinator(e.store, opts.Metrics, log.Named("tools"))
	e.coord.Register(
		e.tools.Filter, e.tools.Resize, e.tools.Crop, e.tools.Transform,
		e.tools.Draw, e.tools.Text, e.tools.Shapes, e.tools.Stickers,
		e.tools.Frame, e.tools.Corners, e.tools.Background, e.tools.ObjectSettings,
	)

	e.ser.SetFrameController(e.tools.Frame)
	e.ser.SetFontTracker(e.tools.Text)

	e.validator = imports.NewValidator(opts.Settings.Tools.Import)

	e.bindSelection()
	e.closers = append(e.closers, e.store.Subscribe(e.publishAction))

	log.Info("Editor created",
		zap.Float64("viewport_width", opts.Viewport.Width),
		zap.Float64("viewport_height", opts.Viewport.Height),
		zap.Int("panels", len(e.coord.Panels())))
	return e
}

// Close detaches every component listener
func (e *Editor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
	e.closers = nil
}

// bindSelection mirrors scene selection changes into the editor state and
// the selection form
func (e *Editor) bindSelection() {
	selected := func(ev scene.Event) {
		obj := e.selection.Get()
		if obj == nil {
			return
		}
		e.store.Dispatch(state.ObjectSelected{
			ID:             obj.ID(),
			IsText:         obj.Type == types.TypeText,
			IsShape:        obj.Name == types.KindShape,
			FromUserAction: ev.FromUser,
		})
		e.selection.SyncForm()
	}

	e.closers = append(e.closers,
		e.graph.On(scene.EventSelectionCreated, selected),
		e.graph.On(scene.EventSelectionUpdated, selected),
		e.graph.On(scene.EventSelectionCleared, func(scene.Event) {
			e.store.Dispatch(state.ObjectDeselected{SettingsDirty: e.tools.ObjectSettings.Dirty()})
			e.selection.SyncForm()
		}),
	)
}

// do runs a command exclusively and flushes the work it deferred
func (e *Editor) do(fn func() error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	err := fn()
	e.loop.Flush()
	return err
}

// objectDefaults returns the configured object defaults, or the built-in
// ones when none are configured
func objectDefaults(s types.Settings) types.Properties {
	d := s.ObjectDefaults
	if d.Fill == "" && d.Opacity == 0 && d.FontFamily == "" {
		return types.DefaultProperties()
	}
	return d.Clone()
}

func catalogOrEmpty(c tools.FontCatalog) tools.FontCatalog {
	if c == nil {
		return emptyCatalog{}
	}
	return c
}

type emptyCatalog struct{}

func (emptyCatalog) Find(string) (types.FontItem, bool) { return types.FontItem{}, false }

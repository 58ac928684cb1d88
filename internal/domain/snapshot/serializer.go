package snapshot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/scene"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/state"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/id"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
)

// ErrRestoreInProgress is returned when a restore is requested while
// another one is still running
var ErrRestoreInProgress = errors.New("restore already in progress")

// RenderFontKey is the runtime field holding the font actually used to
// render a text object whose family failed to load
const RenderFontKey = "renderFont"

// maxFontLoads bounds concurrent font fetches during a restore
const maxFontLoads = 4

// Canvas is the document geometry the serializer reads and restores
type Canvas interface {
	Original() types.Size
	Resize(width, height float64)
	SetZoom(scale float64, resize bool) bool
	ZoomPercent() int
	FitToScreen()
	SetLoading(loading bool)
	Render()
}

// Syncer recomputes the layer list
type Syncer interface {
	Sync()
}

// ActiveID reports the id of the selected object
type ActiveID interface {
	ID() id.ObjectID
}

// FontLoader makes a font available to the renderer
type FontLoader interface {
	Load(ctx context.Context, font types.FontItem) error
}

// FrameController applies and removes the document frame
type FrameController interface {
	Active() *types.Frame
	Restore(frame *types.Frame) error
	Remove()
}

// FontTracker reports fonts used by text objects
type FontTracker interface {
	UsedFonts() []types.FontItem
}

// Recorder receives restore metrics
type Recorder interface {
	RecordRestore(duration time.Duration, err error)
	RecordFontLoad(family string, err error)
}

// Deps are the collaborators of a Serializer
type Deps struct {
	Surface      scene.Surface
	Canvas       Canvas
	Registry     Syncer
	Store        *state.Store
	Selection    ActiveID
	Fonts        FontLoader
	Metrics      Recorder
	Logger       *zap.Logger
	FallbackFont string
	Generator    *id.Generator
}

// Serializer captures the scene into snapshots and restores them
type Serializer struct {
	surface   scene.Surface
	canvas    Canvas
	registry  Syncer
	store     *state.Store
	selection ActiveID
	fonts     FontLoader
	metrics   Recorder
	logger    *zap.Logger
	fallback  string
	gen       *id.Generator

	mu        sync.RWMutex
	frames    FrameController
	usedFonts FontTracker

	restoring atomic.Bool
}

// NewSerializer creates a serializer
func NewSerializer(d Deps) *Serializer {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Generator == nil {
		d.Generator = id.Default()
	}
	return &Serializer{
		surface:   d.Surface,
		canvas:    d.Canvas,
		registry:  d.Registry,
		store:     d.Store,
		selection: d.Selection,
		fonts:     d.Fonts,
		metrics:   d.Metrics,
		logger:    d.Logger,
		fallback:  d.FallbackFont,
		gen:       d.Generator,
	}
}

// SetFrameController installs the frame tool
func (s *Serializer) SetFrameController(fc FrameController) {
	s.mu.Lock()
	s.frames = fc
	s.mu.Unlock()
}

// SetFontTracker installs the text tool
func (s *Serializer) SetFontTracker(ft FontTracker) {
	s.mu.Lock()
	s.usedFonts = ft
	s.mu.Unlock()
}

func (s *Serializer) frameController() FrameController {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frames
}

func (s *Serializer) fontTracker() FontTracker {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.usedFonts
}

// Restoring reports whether a restore is running
func (s *Serializer) Restoring() bool { return s.restoring.Load() }

// ============================================================================
// Capture
// ============================================================================

// Capture returns the current scene as a state document. Guide objects
// and runtime-only fields are not included.
func (s *Serializer) Capture() types.State {
	objects := s.surface.Objects()
	records := make([]types.ObjectRecord, 0, len(objects))
	for _, obj := range objects {
		if obj.IsGuide() {
			continue
		}
		records = append(records, obj.Record())
	}

	meta := types.EditorMeta{
		Fonts:      []types.FontItem{},
		Background: s.surface.Background(),
	}
	if fc := s.frameController(); fc != nil {
		if frame := fc.Active(); frame != nil {
			f := *frame
			meta.Frame = &f
		}
	}
	if ft := s.fontTracker(); ft != nil {
		meta.Fonts = append(meta.Fonts, ft.UsedFonts()...)
	}

	size := s.canvas.Original()
	return types.State{
		Canvas:       records,
		Editor:       meta,
		CanvasWidth:  size.Width,
		CanvasHeight: size.Height,
	}
}

// Snapshot captures the scene as a named history entry
func (s *Serializer) Snapshot(name string, icon *string) types.Snapshot {
	return s.Entry(s.Capture(), name, icon)
}

// Entry wraps st as a named history entry carrying the current zoom and
// selection
func (s *Serializer) Entry(st types.State, name string, icon *string) types.Snapshot {
	snap := types.Snapshot{
		State: st,
		Name:  name,
		ID:    s.gen.NewSnapshotID(),
		Icon:  icon,
		Zoom:  float64(s.canvas.ZoomPercent()),
	}
	if s.selection != nil {
		if oid := s.selection.ID(); oid != "" {
			snap.ActiveObjectID = &oid
		}
	}
	return snap
}

// ============================================================================
// Restore
// ============================================================================

type restoreRun struct {
	state   types.State
	failed  map[string]struct{}
	objects []*scene.Object
}

type stage struct {
	name string
	run  func(ctx context.Context, r *restoreRun) error
}

// Restore replaces the scene with the given state. Stages run in order and
// each completes before the next begins. Font failures fall back to the
// configured fallback font and never abort the restore.
func (s *Serializer) Restore(ctx context.Context, st types.State) (err error) {
	if !s.restoring.CompareAndSwap(false, true) {
		return ErrRestoreInProgress
	}
	defer s.restoring.Store(false)

	start := time.Now()
	s.canvas.SetLoading(true)
	defer func() {
		s.canvas.SetLoading(false)
		if s.metrics != nil {
			s.metrics.RecordRestore(time.Since(start), err)
		}
	}()

	run := &restoreRun{state: st, failed: make(map[string]struct{})}
	stages := []stage{
		{"fonts", s.stageFonts},
		{"replace", s.stageReplace},
		{"zoom", s.stageZoom},
		{"resize", s.stageResize},
		{"frame", s.stageFrame},
		{"layout", s.stageLayout},
		{"sync", s.stageSync},
		{"filters", s.stageFilters},
		{"complete", s.stageComplete},
	}

	// Cancellation is only honored until the scene is replaced. Past that
	// point every remaining stage runs so the scene is never half restored.
	for _, stg := range stages {
		if stg.name == "fonts" || stg.name == "replace" {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("restore interrupted before %s: %w", stg.name, err)
			}
		}
		if stg.name == "replace" {
			ctx = context.WithoutCancel(ctx)
		}
		if err := stg.run(ctx, run); err != nil {
			return fmt.Errorf("restore stage %s failed: %w", stg.name, err)
		}
	}

	s.logger.Debug("Restored state",
		zap.Int("objects", len(run.objects)),
		zap.Int("failed_fonts", len(run.failed)),
		zap.Duration("duration", time.Since(start)))
	return nil
}

func (s *Serializer) stageFonts(ctx context.Context, r *restoreRun) error {
	if s.fonts == nil || len(r.state.Editor.Fonts) == 0 {
		return nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxFontLoads)

	for _, font := range r.state.Editor.Fonts {
		if font.Type == types.FontTypeBasic {
			continue
		}
		g.Go(func() error {
			err := s.fonts.Load(gctx, font)
			if s.metrics != nil {
				s.metrics.RecordFontLoad(font.Family, err)
			}
			if err != nil {
				s.logger.Warn("Font unavailable, using fallback",
					zap.String("family", font.Family),
					zap.String("fallback", s.fallback),
					zap.Error(err))
				mu.Lock()
				r.failed[font.Family] = struct{}{}
				mu.Unlock()
			}
			return nil
		})
	}
	return g.Wait()
}

func (s *Serializer) stageReplace(_ context.Context, r *restoreRun) error {
	r.objects = make([]*scene.Object, 0, len(r.state.Canvas))
	for _, rec := range r.state.Canvas {
		obj := scene.FromRecord(rec)
		if _, failed := r.failed[obj.FontFamily]; failed && obj.FontFamily != "" {
			obj.SetExtra(RenderFontKey, s.fallback)
		}
		r.objects = append(r.objects, obj)
	}
	s.surface.Replace(r.objects)
	return nil
}

func (s *Serializer) stageZoom(context.Context, *restoreRun) error {
	s.canvas.SetZoom(1, true)
	return nil
}

func (s *Serializer) stageResize(_ context.Context, r *restoreRun) error {
	if r.state.HasDimensions() {
		s.canvas.Resize(r.state.CanvasWidth, r.state.CanvasHeight)
	}
	return nil
}

func (s *Serializer) stageFrame(_ context.Context, r *restoreRun) error {
	s.surface.SetBackground(r.state.Editor.Background)

	fc := s.frameController()
	if fc == nil {
		return nil
	}
	if r.state.Editor.Frame == nil {
		fc.Remove()
		return nil
	}
	if err := fc.Restore(r.state.Editor.Frame); err != nil {
		s.logger.Warn("Frame could not be restored",
			zap.String("frame", r.state.Editor.Frame.Name),
			zap.Error(err))
		fc.Remove()
	}
	return nil
}

func (s *Serializer) stageLayout(context.Context, *restoreRun) error {
	s.canvas.Render()
	s.surface.CalcOffset()
	s.canvas.FitToScreen()
	return nil
}

func (s *Serializer) stageSync(context.Context, *restoreRun) error {
	if s.registry != nil {
		s.registry.Sync()
	}
	return nil
}

func (s *Serializer) stageFilters(_ context.Context, r *restoreRun) error {
	for i, obj := range r.objects {
		if r.state.Canvas[i].Filters == nil {
			continue
		}
		obj.ApplyFilters()
	}
	s.canvas.Render()
	return nil
}

func (s *Serializer) stageComplete(context.Context, *restoreRun) error {
	if s.store != nil {
		s.store.Dispatch(state.HistoryChanged{})
	}
	return nil
}

package tools

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/state"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
)

// Recorder receives tool command metrics
type Recorder interface {
	RecordToolCommand(panel, command string, err error)
}

// Coordinator routes apply and cancel to the tool owning the active panel
type Coordinator struct {
	mu      sync.RWMutex
	tools   map[types.Panel]Tool
	store   *state.Store
	metrics Recorder
	logger  *zap.Logger
}

// NewCoordinator creates an empty coordinator
func NewCoordinator(store *state.Store, metrics Recorder, log *zap.Logger) *Coordinator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Coordinator{
		tools:   make(map[types.Panel]Tool),
		store:   store,
		metrics: metrics,
		logger:  log,
	}
}

// Register adds tools, replacing any tool that owns the same panel
func (c *Coordinator) Register(tools ...Tool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range tools {
		c.tools[t.Panel()] = t
	}
}

// Get returns the tool owning panel
func (c *Coordinator) Get(panel types.Panel) (Tool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tools[panel]
	return t, ok
}

// Panels returns the panels with a registered tool
func (c *Coordinator) Panels() []types.Panel {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]types.Panel, 0, len(c.tools))
	for _, p := range types.Panels {
		if _, ok := c.tools[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Active returns the tool owning the active panel, if any
func (c *Coordinator) Active() (Tool, bool) {
	return c.Get(state.ActivePanel(c.store.State()))
}

// Dirty reports whether the active tool has uncommitted changes
func (c *Coordinator) Dirty() bool {
	t, ok := c.Active()
	return ok && t.Dirty()
}

// Reset cleans every tool
func (c *Coordinator) Reset() {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, t := range c.tools {
		t.Clean()
	}
}

// Apply applies the active tool; a no-op on navigation or unknown panels
func (c *Coordinator) Apply(ctx context.Context) error {
	return c.run(ctx, "apply", state.ActivePanel(c.store.State()))
}

// Cancel cancels the active tool; a no-op on navigation or unknown panels
func (c *Coordinator) Cancel(ctx context.Context) error {
	return c.run(ctx, "cancel", state.ActivePanel(c.store.State()))
}

// ApplyPanel applies the tool owning panel
func (c *Coordinator) ApplyPanel(ctx context.Context, panel types.Panel) error {
	return c.run(ctx, "apply", panel)
}

// CancelPanel cancels the tool owning panel
func (c *Coordinator) CancelPanel(ctx context.Context, panel types.Panel) error {
	return c.run(ctx, "cancel", panel)
}

func (c *Coordinator) run(ctx context.Context, command string, panel types.Panel) error {
	t, ok := c.Get(panel)
	if !ok {
		c.logger.Debug("No tool for panel", zap.String("panel", panel.String()), zap.String("command", command))
		return nil
	}

	dirty := t.Dirty()
	var err error
	if command == "apply" {
		err = t.Apply(ctx)
	} else {
		err = t.Cancel(ctx)
	}

	if c.metrics != nil {
		c.metrics.RecordToolCommand(panel.String(), command, err)
	}
	if err != nil {
		c.logger.Warn("Tool command failed",
			zap.String("panel", panel.String()),
			zap.String("command", command),
			zap.Error(err))
		return err
	}
	c.logger.Debug("Tool command",
		zap.String("panel", panel.String()),
		zap.String("command", command),
		zap.Bool("dirty", dirty))
	return nil
}

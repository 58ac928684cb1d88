package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/state"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
)

type mockHistory struct{ mock.Mock }

func (m *mockHistory) Add(name types.HistoryName) types.Snapshot {
	m.Called(name)
	return types.Snapshot{Name: name.Name}
}

func (m *mockHistory) Reload(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type toolRecorder struct{ commands []string }

func (r *toolRecorder) RecordToolCommand(panel, command string, err error) {
	entry := panel + ":" + command
	if err != nil {
		entry += ":error"
	}
	r.commands = append(r.commands, entry)
}

type counter struct{ n int }

func newCounterTool(h History, store *state.Store, hooks Hooks[counter]) *ToolState[counter] {
	return NewToolState(types.PanelDraw, types.HistoryDraw, h, store, counter{}, hooks)
}

func TestToolStateUpdateAndSet(t *testing.T) {
	tool := newCounterTool(&mockHistory{}, state.NewStore(state.Initial()), Hooks[counter]{})

	tool.Set(func(p *counter) { p.n = 3 })
	assert.False(t, tool.Dirty())
	tool.Update(func(p *counter) { p.n++ })
	assert.True(t, tool.Dirty())
	assert.Equal(t, 4, tool.Get().n)
	assert.Equal(t, types.HistoryDraw, tool.HistoryName())
}

func TestToolStateApplyDirtyGate(t *testing.T) {
	h := &mockHistory{}
	h.On("Add", types.HistoryDraw).Return().Once()
	store := state.NewStore(state.Initial())
	tool := newCounterTool(h, store, Hooks[counter]{})
	ctx := context.Background()

	store.Dispatch(state.OpenPanel{Panel: types.PanelDraw})
	require.NoError(t, tool.Apply(ctx))
	h.AssertNotCalled(t, "Add", mock.Anything)
	assert.True(t, state.IsNavigation(store.State()))

	store.Dispatch(state.OpenPanel{Panel: types.PanelDraw})
	tool.MarkDirty()
	require.NoError(t, tool.Apply(ctx))
	h.AssertNumberOfCalls(t, "Add", 1)
	assert.False(t, tool.Dirty())
}

func TestToolStateCancelReloadFailureStaysDirty(t *testing.T) {
	h := &mockHistory{}
	h.On("Reload", mock.Anything).Return(errors.New("busy")).Once()
	h.On("Reload", mock.Anything).Return(nil).Once()
	store := state.NewStore(state.Initial())
	tool := newCounterTool(h, store, Hooks[counter]{})
	ctx := context.Background()

	store.Dispatch(state.OpenPanel{Panel: types.PanelDraw})
	tool.MarkDirty()
	require.Error(t, tool.Cancel(ctx))
	assert.True(t, tool.Dirty())
	assert.Equal(t, types.PanelDraw, state.ActivePanel(store.State()))

	require.NoError(t, tool.Cancel(ctx))
	assert.False(t, tool.Dirty())
	assert.True(t, state.IsNavigation(store.State()))
	h.AssertExpectations(t)
}

func TestToolStateStayOpenSeesPayloadBeforeHooks(t *testing.T) {
	store := state.NewStore(state.Initial())
	tool := newCounterTool(&mockHistory{}, store, Hooks[counter]{
		OnApply:         func(p *counter) { p.n = 0 },
		StayOpenOnApply: func(p *counter) bool { return p.n > 0 },
	})

	store.Dispatch(state.OpenPanel{Panel: types.PanelDraw})
	tool.Set(func(p *counter) { p.n = 1 })
	require.NoError(t, tool.Apply(context.Background()))
	assert.Equal(t, types.PanelDraw, state.ActivePanel(store.State()))
	assert.Zero(t, tool.Get().n)

	require.NoError(t, tool.Apply(context.Background()))
	assert.True(t, state.IsNavigation(store.State()))
}

func TestToolStateApplyCancelledContext(t *testing.T) {
	tool := newCounterTool(&mockHistory{}, state.NewStore(state.Initial()), Hooks[counter]{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, tool.Apply(ctx), context.Canceled)
}

func TestCoordinatorRoutesToActivePanel(t *testing.T) {
	h := &mockHistory{}
	h.On("Add", mock.Anything).Return()
	store := state.NewStore(state.Initial())
	metrics := &toolRecorder{}
	coord := NewCoordinator(store, metrics, nil)

	draw := NewToolState(types.PanelDraw, types.HistoryDraw, h, store, counter{}, Hooks[counter]{})
	text := NewToolState(types.PanelText, types.HistoryText, h, store, counter{}, Hooks[counter]{})
	coord.Register(text, draw)
	assert.Equal(t, []types.Panel{types.PanelDraw, types.PanelText}, coord.Panels())

	ctx := context.Background()
	require.NoError(t, coord.Apply(ctx))
	assert.Empty(t, metrics.commands)

	store.Dispatch(state.OpenPanel{Panel: types.PanelText})
	text.MarkDirty()
	draw.MarkDirty()
	assert.True(t, coord.Dirty())
	require.NoError(t, coord.Apply(ctx))

	assert.False(t, text.Dirty())
	assert.True(t, draw.Dirty())
	h.AssertCalled(t, "Add", types.HistoryText)
	assert.Equal(t, []string{"text:apply"}, metrics.commands)
	assert.False(t, coord.Dirty())
}

func TestCoordinatorUnknownPanelIsNoop(t *testing.T) {
	store := state.NewStore(state.Initial())
	coord := NewCoordinator(store, nil, nil)

	store.Dispatch(state.OpenPanel{Panel: types.PanelCrop})
	assert.NoError(t, coord.Cancel(context.Background()))
	assert.NoError(t, coord.CancelPanel(context.Background(), types.PanelFrame))
	_, ok := coord.Active()
	assert.False(t, ok)
}

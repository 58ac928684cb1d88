package state

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
)

func TestReduceSelection(t *testing.T) {
	tests := []struct {
		name   string
		start  types.Panel
		action Action
		want   types.Panel
	}{
		{"user select on navigation opens settings", types.PanelNavigation, ObjectSelected{ID: "obj_1", FromUserAction: true}, types.PanelObjectSettings},
		{"programmatic select keeps navigation", types.PanelNavigation, ObjectSelected{ID: "obj_1"}, types.PanelNavigation},
		{"user select inside a tool keeps tool", types.PanelText, ObjectSelected{ID: "obj_1", FromUserAction: true}, types.PanelText},
		{"clean deselect leaves settings", types.PanelObjectSettings, ObjectDeselected{}, types.PanelNavigation},
		{"dirty deselect keeps settings", types.PanelObjectSettings, ObjectDeselected{SettingsDirty: true}, types.PanelObjectSettings},
		{"deselect inside a tool keeps tool", types.PanelFilter, ObjectDeselected{}, types.PanelFilter},
		{"close fore panel", types.PanelCrop, CloseForePanel{}, types.PanelNavigation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Initial()
			s.ActivePanel = tt.start
			next := Reduce(s, tt.action)
			assert.Equal(t, tt.want, next.ActivePanel)
		})
	}
}

func TestReduceIsPure(t *testing.T) {
	s := Initial()
	next := Reduce(s, OpenPanel{Panel: types.PanelFilter})

	assert.Equal(t, types.PanelNavigation, s.ActivePanel)
	assert.Equal(t, types.PanelFilter, next.ActivePanel)
}

func TestStoreNotifiesAfterReduce(t *testing.T) {
	store := NewStore(Initial())

	var seen []string
	var panel types.Panel
	off := store.Subscribe(func(a Action, next State) {
		seen = append(seen, a.Name())
		panel = next.ActivePanel
	})

	store.Dispatch(OpenPanel{Panel: types.PanelResize})
	assert.Equal(t, types.PanelResize, panel)

	store.Dispatch(SetZoom{Percent: 50})
	off()
	store.Dispatch(ContentLoaded{})

	assert.Equal(t, []string{"open_panel", "set_zoom"}, seen)
	assert.Equal(t, 50, ZoomPercent(store.State()))
	assert.True(t, IsContentLoaded(store.State()))
}

func TestResetEditor(t *testing.T) {
	s := Initial()
	s = Reduce(s, ContentLoaded{})
	s = Reduce(s, ObjectSelected{ID: "obj_1", IsText: true})
	s = Reduce(s, SetZoom{Percent: 40})
	s = Reduce(s, ResetEditor{})

	assert.False(t, s.ContentLoaded)
	assert.False(t, HasSelection(s))
	assert.True(t, IsNavigation(s))
	assert.Equal(t, 100, s.Zoom)
}

func TestHistorySelectors(t *testing.T) {
	s := Initial()
	assert.False(t, CanUndo(s))
	assert.False(t, CanRedo(s))

	s = Reduce(s, HistoryUpdated{Size: 3, Pointer: 2})
	assert.True(t, CanUndo(s))
	assert.False(t, CanRedo(s))

	s = Reduce(s, HistoryUpdated{Size: 3, Pointer: 0})
	assert.False(t, CanUndo(s))
	assert.True(t, CanRedo(s))
}

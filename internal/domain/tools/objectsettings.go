package tools

import (
	"sync"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/state"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
)

// ObjectSettingsState is the payload of the object settings tool
type ObjectSettingsState struct{}

// ObjectSettingsTool commits style changes of the selected object. Each time
// its panel opens it becomes dirty on the first property write.
type ObjectSettingsTool struct {
	*ToolState[ObjectSettingsState]
	env Env

	mu     sync.Mutex
	disarm func()
	unsub  func()
}

// NewObjectSettingsTool creates the tool and follows the active panel
func NewObjectSettingsTool(env Env) *ObjectSettingsTool {
	t := &ObjectSettingsTool{env: env}
	t.ToolState = NewToolState(types.PanelObjectSettings, types.HistoryObjectStyle, env.History, env.Store,
		ObjectSettingsState{}, Hooks[ObjectSettingsState]{})
	t.unsub = env.Store.Subscribe(func(_ state.Action, next state.State) {
		if state.ActivePanel(next) == types.PanelObjectSettings {
			t.Arm()
		} else {
			t.Disarm()
		}
	})
	return t
}

// Arm marks the tool dirty on the next property change, once per opening
func (t *ObjectSettingsTool) Arm() {
	if t.env.Selection == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.disarm != nil {
		return
	}
	t.disarm = t.env.Selection.OncePropsChanged(t.MarkDirty)
}

// Disarm stops waiting for property changes
func (t *ObjectSettingsTool) Disarm() {
	t.mu.Lock()
	disarm := t.disarm
	t.disarm = nil
	t.mu.Unlock()
	if disarm != nil {
		disarm()
	}
}

// Armed reports whether the tool waits for a property change
func (t *ObjectSettingsTool) Armed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.disarm != nil
}

// Close stops following the active panel
func (t *ObjectSettingsTool) Close() {
	t.Disarm()
	if t.unsub != nil {
		t.unsub()
	}
}

var _ Tool = (*ObjectSettingsTool)(nil)

package state

import (
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/id"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
)

// Action is a named state transition
type Action interface {
	Name() string
}

// OpenPanel opens a tool panel
type OpenPanel struct {
	Panel types.Panel
}

// CloseForePanel returns to the navigation panel
type CloseForePanel struct{}

// ObjectSelected records a new active selection
type ObjectSelected struct {
	ID             id.ObjectID
	IsText         bool
	IsShape        bool
	FromUserAction bool
}

// ObjectDeselected records that the selection was cleared
type ObjectDeselected struct {
	SettingsDirty bool
}

// ContentLoaded records that a document finished loading
type ContentLoaded struct{}

// SetZoom records the zoom level in percent
type SetZoom struct {
	Percent int
}

// HistoryChanged records that a history entry was restored
type HistoryChanged struct{}

// HistoryUpdated records the size of the history list and its pointer
type HistoryUpdated struct {
	Size    int
	Pointer int
}

// ObjectsSynced records that the layer list was recomputed
type ObjectsSynced struct {
	Count int
}

// OpenEditor shows the editor
type OpenEditor struct{}

// CloseEditor hides the editor
type CloseEditor struct{}

// ResetEditor returns to an empty, unloaded editor
type ResetEditor struct{}

func (OpenPanel) Name() string        { return "open_panel" }
func (CloseForePanel) Name() string   { return "close_fore_panel" }
func (ObjectSelected) Name() string   { return "object_selected" }
func (ObjectDeselected) Name() string { return "object_deselected" }
func (ContentLoaded) Name() string    { return "content_loaded" }
func (SetZoom) Name() string          { return "set_zoom" }
func (HistoryChanged) Name() string   { return "history_changed" }
func (HistoryUpdated) Name() string   { return "history_updated" }
func (ObjectsSynced) Name() string    { return "objects_synced" }
func (OpenEditor) Name() string       { return "open_editor" }
func (CloseEditor) Name() string      { return "close_editor" }
func (ResetEditor) Name() string      { return "reset_editor" }

// Reduce returns the state produced by applying action to s
func Reduce(s State, action Action) State {
	switch a := action.(type) {
	case OpenPanel:
		s.ActivePanel = a.Panel
	case CloseForePanel:
		s.ActivePanel = types.PanelNavigation
	case ObjectSelected:
		s.ActiveObjectID = a.ID
		s.ActiveObjIsText = a.IsText
		s.ActiveObjIsShape = a.IsShape
		if a.FromUserAction && s.ActivePanel == types.PanelNavigation {
			s.ActivePanel = types.PanelObjectSettings
		}
	case ObjectDeselected:
		s.ActiveObjectID = ""
		s.ActiveObjIsText = false
		s.ActiveObjIsShape = false
		if s.ActivePanel == types.PanelObjectSettings && !a.SettingsDirty {
			s.ActivePanel = types.PanelNavigation
		}
	case ContentLoaded:
		s.ContentLoaded = true
	case SetZoom:
		s.Zoom = a.Percent
	case HistoryUpdated:
		s.HistorySize = a.Size
		s.HistoryPointer = a.Pointer
	case ObjectsSynced:
		s.Layers = a.Count
	case OpenEditor:
		s.Visible = true
	case CloseEditor:
		s.Visible = false
	case ResetEditor:
		s.ContentLoaded = false
		s.ActivePanel = types.PanelNavigation
		s.ActiveObjectID = ""
		s.ActiveObjIsText = false
		s.ActiveObjIsShape = false
		s.Zoom = 100
	}
	return s
}

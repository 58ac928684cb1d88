// Package types provides shared data structures for the editor backend.
//
// This package defines the persisted document model used across the
// registry, serializer, history and tool packages.
//
// Core Types:
//   - ObjectKind: Logical object kind, including reserved guide kinds
//   - Properties: Whitelisted, persisted properties of a scene object
//   - ObjectRecord: Serialized object including group members
//   - State: Full editable scene ("get state" document)
//   - Snapshot: History entry (State plus name, id, icon, zoom, selection)
//
// Editor Types:
//   - Panel: Named tool panel; navigation is the idle panel
//   - HistoryName: Label and icon attached to a history entry
//   - Values: Partial property update used by the selection form
//
// Example Usage:
//
//	snap := types.Snapshot{
//	    State: state,
//	    Name:  types.HistoryFilter.Name,
//	    Icon:  types.StringPtr(types.HistoryFilter.Icon),
//	}
package types

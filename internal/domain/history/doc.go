// Package history provides undo and redo for the editor.
//
// The history is an ordered list of snapshots with a pointer to the current
// entry. Recording after an undo drops the entries ahead of the pointer.
//
// Components:
//   - List: entries and pointer
//   - Service: records scene snapshots and restores them through the
//     snapshot serializer
//
// Lifecycle:
//  1. The first ContentLoaded after construction or Clear records "Initial"
//  2. Tools record entries as they apply their changes
//  3. Undo, Redo and Reload move the pointer and restore the entry
//
// Example Usage:
//
//	svc := history.NewService(serializer, store, metrics, logger)
//	svc.Add(types.HistoryFilter)
//	err := svc.Undo(ctx)
package history

// Package snapshot captures the editable scene as a serializable document
// and restores it.
//
// Components:
//   - Serializer: Capture, Snapshot and staged Restore
//   - Codec: JSON encode/decode with validation (DecodeState, DecodeSnapshot)
//   - Stores: FileStore (compressed files) and SQLiteStore for saved documents
//
// Restore Stages (each awaited before the next):
//  1. fonts     load referenced fonts; failures fall back
//  2. replace   replace the scene graph
//  3. zoom      reset zoom to 100%
//  4. resize    apply stored canvas dimensions
//  5. frame     reapply or remove the frame, restore background
//  6. layout    recompute offsets and fit to the viewport
//  7. sync      resynchronize the layer list
//  8. filters   recompute filters of objects that had them
//  9. complete  signal that the restore finished
//
// Example Usage:
//
//	ser := snapshot.NewSerializer(snapshot.Deps{Surface: graph, Canvas: cnv, Store: store})
//	snap := ser.Snapshot("Initial", nil)
//	err := ser.Restore(ctx, snap.State)
package snapshot

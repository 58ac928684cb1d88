// Package registry keeps stable identity for scene objects and maintains
// the user-facing layer list.
//
// Components:
//   - Manager: id allocation, id lookup, layer sync and reordering
//
// Features:
//   - Synchronous id assignment before any scene listener runs
//   - Explicit id to live object map; ids are never reused
//   - Layer list excludes guide objects and unnamed objects
//   - Layer list is ordered top-most first
//
// Sync Points:
//   - After an add: deferred to the next loop turn
//   - After a remove or clear: immediate
//   - After a full replace: called by the snapshot serializer
//
// Example Usage:
//
//	reg := registry.NewManager(graph, store, loop, logger)
//	unbind := reg.Bind()
//	defer unbind()
//	layers := reg.All()
//	err := reg.Reorder(0, 2)
package registry

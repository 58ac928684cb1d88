// Package main is the entry point for the PixelDesk editor server.
//
// The server holds one scene editor document and exposes it over a REST
// API and a WebSocket event stream. Clients open tool panels, apply or
// cancel their edits, walk the undo history and save documents to the
// configured store.
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - An optional settings file for the editor itself
//
// Usage:
//
//	# Production mode
//	./server -port 8000 -storage sqlite -storage-path data/documents.db
//
//	# Development mode (colored logs, debug level)
//	./server -dev -settings editor.yaml
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main

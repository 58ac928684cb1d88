// Package http provides HTTP handlers and routing for the editor REST API.
//
// This package implements every endpoint using the Gin framework. Handlers
// are thin: each one binds and validates the request, runs one editor
// command and writes the result. Editor errors map onto status codes:
// malformed input is 400, unknown documents 404, commands needing a
// selection 409, images that failed to load 422.
//
// Endpoints:
//   - Health: /, /health, /status
//   - State: GET/PUT /state, /new, /image, /files, /reset
//   - History: /history, /history/{undo,redo,reload,current}
//   - Panels: /panels/:panel, /apply, /cancel
//   - Layers and selection: /layers, /layers/reorder, /objects/:id/select, /selection/...
//   - Zoom: /zoom, /zoom/{in,out,fit}, /viewport
//   - Tools: /tools, /tools/{filter,text,shapes,stickers,resize,crop,transform,draw,frame,corners,background}
//   - Fonts: /fonts
//   - Documents: /documents, /documents/:id, /documents/:id/open
//   - Logs: /logs
//   - Metrics: /metrics, /metrics/json
//
// Example Usage:
//
//	handlers := http.NewHandlers(ed, metrics, fontCatalog, logger)
//	handlers.Register(router)
package http

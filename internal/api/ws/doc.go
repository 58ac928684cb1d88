// Package ws streams editor events to WebSocket clients.
//
// Every connected client receives the editor notifications as JSON text
// frames, one event per frame. Clients are identified by a random uuid and
// each has a bounded send buffer; a client that falls behind is dropped
// rather than stalling the editor.
//
// Message Types (Client → Server):
//   - ping: Keep-alive ping
//   - status: Request the editor status
//
// Message Types (Server → Client):
//   - connected: Sent once with the client id
//   - history_changed, objects_synced, content_loaded, panel_changed, zoom_changed: Editor events
//   - pong, status, error: Replies
//
// Example Usage:
//
//	hub := ws.NewHub(ws.Options{Metrics: metrics, Logger: logger})
//	detach := hub.Attach(ed)
//	router.GET("/stream", hub.ServeWS)
package ws

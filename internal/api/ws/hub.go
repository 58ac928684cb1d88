package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/editor"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/id"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 64
	maxMessage = 4096
)

// Recorder receives stream metrics
type Recorder interface {
	IncWSConnections()
	DecWSConnections()
	RecordWSMessage(direction, msgType string)
}

// EventSource publishes editor events
type EventSource interface {
	Subscribe(fn func(editor.Event)) func()
}

// Options configures a Hub
type Options struct {
	// AllowedOrigins restricts the Origin header; empty allows every origin
	AllowedOrigins []string
	// Status answers "status" requests from clients; nil disables them
	Status  func() any
	Metrics Recorder
	Logger  *zap.Logger
}

// Hub fans editor events out to every connected client. Broadcasts never
// block: a client whose buffer is full is disconnected.
type Hub struct {
	upgrader websocket.Upgrader
	status   func() any
	metrics  Recorder
	logger   *zap.Logger

	mu      sync.RWMutex
	clients map[id.ClientID]*client
	closed  bool
}

// NewHub creates a hub with no clients
func NewHub(opts Options) *Hub {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	h := &Hub{
		status:  opts.Status,
		metrics: opts.Metrics,
		logger:  log,
		clients: make(map[id.ClientID]*client),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     originChecker(opts.AllowedOrigins),
	}
	return h
}

// Attach forwards the events of src to every client until the returned
// func is called
func (h *Hub) Attach(src EventSource) func() {
	return src.Subscribe(h.Broadcast)
}

// Broadcast sends ev to every client
func (h *Hub) Broadcast(ev editor.Event) {
	data, err := sonic.Marshal(ev)
	if err != nil {
		h.logger.Error("Failed to encode event", zap.String("type", string(ev.Type)), zap.Error(err))
		return
	}

	h.mu.RLock()
	var slow []*client
	for _, cl := range h.clients {
		if !cl.enqueue(data) {
			slow = append(slow, cl)
		}
	}
	sent := len(h.clients) - len(slow)
	h.mu.RUnlock()

	for range sent {
		h.record("out", string(ev.Type))
	}
	for _, cl := range slow {
		h.logger.Warn("Dropping slow stream client", zap.String("client_id", cl.id.String()))
		h.unregister(cl)
	}
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS upgrades the request and streams events until the client leaves
func (h *Hub) ServeWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	cl := newClient(h, conn)
	cl.send(message{Type: "connected", ClientID: cl.id})
	if !h.register(cl) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}

	go cl.writePump()
	cl.readPump()
}

// Close disconnects every client and refuses new ones
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for _, cl := range h.clients {
		clients = append(clients, cl)
	}
	h.mu.Unlock()

	for _, cl := range clients {
		h.unregister(cl)
	}
}

func (h *Hub) register(cl *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[cl.id] = cl
	if h.metrics != nil {
		h.metrics.IncWSConnections()
	}
	h.logger.Debug("Stream client connected", zap.String("client_id", cl.id.String()))
	return true
}

func (h *Hub) unregister(cl *client) {
	h.mu.Lock()
	_, ok := h.clients[cl.id]
	delete(h.clients, cl.id)
	h.mu.Unlock()

	if !ok {
		return
	}
	cl.close()
	if h.metrics != nil {
		h.metrics.DecWSConnections()
	}
	h.logger.Debug("Stream client disconnected", zap.String("client_id", cl.id.String()))
}

func (h *Hub) record(direction, msgType string) {
	if h.metrics != nil {
		h.metrics.RecordWSMessage(direction, msgType)
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

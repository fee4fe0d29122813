package server

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/wippyai/wcp-tools/store"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const clientBuffer = 64

// hub fans store events out to websocket clients. A client whose buffer is
// full misses events rather than blocking the store.
type hub struct {
	clients map[chan store.Event]struct{}
	mu      sync.Mutex
	closed  bool
}

func newHub() *hub {
	return &hub{clients: make(map[chan store.Event]struct{})}
}

func (h *hub) OnStoreEvent(e store.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- e:
		default:
			Logger().Warn("server: websocket client lagging, event dropped", zap.String("name", e.Name))
		}
	}
}

func (h *hub) subscribe() (chan store.Event, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, false
	}
	ch := make(chan store.Event, clientBuffer)
	h.clients[ch] = struct{}{}
	return ch, true
}

func (h *hub) unsubscribe(ch chan store.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[ch]; ok {
		delete(h.clients, ch)
		close(ch)
	}
}

func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for ch := range h.clients {
		delete(h.clients, ch)
		close(ch)
	}
}

// handleWebSocket upgrades to WebSocket and streams store events as JSON.
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		Logger().Warn("server: websocket upgrade failed", zap.Error(err))
		return
	}
	defer func() { _ = conn.Close() }()

	events, ok := s.hub.subscribe()
	if !ok {
		return
	}
	defer s.hub.unsubscribe(events)

	// Read pump: detect client disconnect.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(e); err != nil {
				Logger().Debug("server: websocket write failed", zap.Error(err))
				return
			}
		}
	}
}

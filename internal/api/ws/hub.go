// Package ws streams payment state events to browser clients over websocket,
// the server-side counterpart of the original processing screen.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/RealNoorMuhammad/nfcpay/internal/observability"
	"github.com/RealNoorMuhammad/nfcpay/internal/service"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The demo is same-origin only in spirit; it has no auth surface.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Hub fans payment events out to every connected client. It implements
// service.Notifier, so the orchestrator publishes transitions directly.
type Hub struct {
	mu        sync.Mutex
	clients   map[*websocket.Conn]struct{}
	broadcast chan []byte
	logger    *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:   make(map[*websocket.Conn]struct{}),
		broadcast: make(chan []byte, 64),
		logger:    logger,
	}
}

// Run delivers broadcasts until ctx is canceled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case msg := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients {
				conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					h.logger.Debug("ws write failed, dropping client", zap.Error(err))
					conn.Close()
					delete(h.clients, conn)
				}
			}
			observability.SetWSClients(len(h.clients))
			h.mu.Unlock()
		}
	}
}

// PaymentEvent implements service.Notifier. Slow consumers never block a
// payment: when the buffer is full the event is dropped.
func (h *Hub) PaymentEvent(ev service.Event) {
	msg, err := json.Marshal(map[string]any{
		"type":      "payment_update",
		"event":     ev,
		"timestamp": time.Now().UTC(),
	})
	if err != nil {
		h.logger.Warn("marshal payment event", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Debug("event buffer full, dropping payment event")
	}
}

// ServeWS upgrades the request and registers the client. Clients are
// listen-only; inbound messages are read and discarded to service pings.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	observability.SetWSClients(len(h.clients))
	h.mu.Unlock()
	h.logger.Info("ws client connected")

	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.clients, conn)
			observability.SetWSClients(len(h.clients))
			h.mu.Unlock()
			conn.Close()
			h.logger.Info("ws client disconnected")
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
	observability.SetWSClients(0)
}

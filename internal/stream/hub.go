// Package stream pushes quote updates to websocket subscribers whenever a
// simulated price moves.
package stream

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Quote is one streamed price update.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Timestamp     int64   `json:"timestamp"`
}

const (
	writeWait      = 10 * time.Second
	clientBuffer   = 64
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub fans quotes out to connected clients. Slow clients are dropped rather
// than allowed to stall the broadcast path.
type Hub struct {
	mu      sync.Mutex
	clients map[chan Quote]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[chan Quote]struct{})}
}

// Broadcast implements market.QuoteBroadcaster.
func (h *Hub) Broadcast(symbol string, price, change, changePercent float64) {
	quote := Quote{
		Symbol:        symbol,
		Price:         price,
		Change:        change,
		ChangePercent: changePercent,
		Timestamp:     time.Now().UnixMilli(),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- quote:
		default:
			// Client is not keeping up; close its channel and let the
			// writer loop tear the connection down.
			delete(h.clients, ch)
			close(ch)
		}
	}
}

func (h *Hub) subscribe() chan Quote {
	ch := make(chan Quote, clientBuffer)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) unsubscribe(ch chan Quote) {
	h.mu.Lock()
	if _, ok := h.clients[ch]; ok {
		delete(h.clients, ch)
		close(ch)
	}
	h.mu.Unlock()
}

// ClientCount reports how many subscribers are connected.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and streams quotes until the client leaves.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Debug("Websocket upgrade failed", "error", err)
		return
	}

	ch := h.subscribe()
	defer h.unsubscribe(ch)
	defer conn.Close()

	// Reader loop only services control frames and detects disconnects.
	go func() {
		conn.SetReadLimit(maxMessageSize)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.unsubscribe(ch)
				return
			}
		}
	}()

	for quote := range ch {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(quote); err != nil {
			return
		}
	}
	// Hub closed the channel; say goodbye cleanly.
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

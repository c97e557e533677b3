package livehttp

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	appcfg "github.com/farzanaesha/crypto-analysis/internal/config"
	"github.com/farzanaesha/crypto-analysis/internal/logger"
	"github.com/farzanaesha/crypto-analysis/internal/metrics"
	"github.com/farzanaesha/crypto-analysis/internal/store"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPongTimeout  = 60 * time.Second
	wsPingPeriod   = 30 * time.Second
	wsSendBuffer   = 8
)

// UpdateMessage is pushed to every websocket client after a completed
// refresh tick, and once on connect with the current state.
type UpdateMessage struct {
	Type      string    `json:"type"`
	Symbol    string    `json:"symbol"`
	Interval  string    `json:"interval"`
	Sequence  uint64    `json:"sequence"`
	Candles   int       `json:"candles"`
	Stale     bool      `json:"stale"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewUpdateMessage(snap store.Snapshot, chart appcfg.ChartConfig) UpdateMessage {
	return UpdateMessage{
		Type:      "refresh",
		Symbol:    chart.Symbol,
		Interval:  chart.Interval,
		Sequence:  snap.Sequence,
		Candles:   len(snap.Series),
		Stale:     snap.Stale(),
		UpdatedAt: snap.UpdatedAt,
	}
}

// Hub fans refresh notifications out to connected websocket clients. A
// client whose send buffer is full misses that update instead of stalling
// the refresh loop; the next tick catches it up.
type Hub struct {
	metrics *metrics.Metrics

	mu      sync.RWMutex
	clients map[*wsClient]bool
}

func NewHub(m *metrics.Metrics) *Hub {
	return &Hub{
		metrics: m,
		clients: make(map[*wsClient]bool),
	}
}

func (h *Hub) Broadcast(msg UpdateMessage) {
	if h == nil {
		return
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.send <- payload:
		default:
			logger.Debugf("[live] ws client lagging, skipping update seq=%d", msg.Sequence)
		}
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) add(c *wsClient) {
	h.mu.Lock()
	h.clients[c] = true
	count := len(h.clients)
	h.mu.Unlock()
	h.setClientGauge(count)
	logger.Debugf("[live] ws client connected (%d total)", count)
}

func (h *Hub) remove(c *wsClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	count := len(h.clients)
	h.mu.Unlock()
	close(c.send)
	h.setClientGauge(count)
	logger.Debugf("[live] ws client disconnected (%d total)", count)
}

func (h *Hub) setClientGauge(n int) {
	if h.metrics != nil {
		h.metrics.WSClients.Set(float64(n))
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

func (r *Router) handleWS(c *gin.Context) {
	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warnf("[live] ws upgrade failed: %v", err)
		return
	}
	if r.Hub == nil {
		conn.Close()
		return
	}
	client := &wsClient{conn: conn, send: make(chan []byte, wsSendBuffer), hub: r.Hub}
	r.Hub.add(client)

	// Deliver current state right away so a fresh page never waits a tick.
	if payload, err := json.Marshal(NewUpdateMessage(r.Store.Latest(), r.Chart)); err == nil {
		client.send <- payload
	}

	go client.writePump()
	go client.readPump()
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
	hub  *Hub
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only services control frames and detects disconnects; the page
// never sends application data.
func (c *wsClient) readPump() {
	defer func() {
		c.hub.remove(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/smartboard-dev/smartboard/internal/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// BoardHub fans reload notifications out to every connected board client.
// Clients re-fetch the board on a "refresh" event instead of receiving row
// data over the socket.
type BoardHub struct {
	allowedOrigins []string

	mu      sync.RWMutex
	clients map[*websocket.Conn]bool
}

func NewBoardHub(allowedOrigins []string) *BoardHub {
	return &BoardHub{
		allowedOrigins: allowedOrigins,
		clients:        make(map[*websocket.Conn]bool),
	}
}

// BroadcastRefresh tells every client the board snapshot changed.
func (h *BoardHub) BroadcastRefresh() {
	h.mu.RLock()
	if len(h.clients) == 0 {
		h.mu.RUnlock()
		return
	}

	clients := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		clients = append(clients, conn)
	}
	h.mu.RUnlock()

	for _, conn := range clients {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			logger.Log.WithError(err).Warn("Failed to set write deadline for broadcast")
			continue
		}

		err := conn.WriteJSON(map[string]string{
			"type":    "refresh",
			"message": "Board data updated",
		})

		if err != nil {
			logger.Log.WithError(err).Warn("Failed to broadcast refresh to client")
			h.drop(conn)
		}
	}
}

func (h *BoardHub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

// Serve upgrades the request and keeps the connection alive with ping/pong
// until the client goes away.
func (h *BoardHub) Serve(c *gin.Context) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				// Non-browser client; the board is public.
				return true
			}
			for _, allowed := range h.allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Log.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logger.Log.WithError(err).Warn("Failed to set initial read deadline")
		conn.Close()
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.drop(conn)
		logger.Log.Debug("Board websocket connection closed")
	}()

	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return
	}

	err = conn.WriteJSON(map[string]string{
		"type":    "connected",
		"message": "WebSocket connection established",
	})

	if err != nil {
		logger.Log.WithError(err).Warn("Failed to send welcome message")
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	// Closed on disconnect so the ping goroutine exits even when no tick is
	// pending on the stopped ticker.
	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	for {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			break
		}

		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.WithError(err).Debug("Board websocket read error")
			}
			break
		}
	}
}

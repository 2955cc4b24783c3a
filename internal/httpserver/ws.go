// internal/httpserver/ws.go
//
// Websocket notification stream at /ws.
// Every controller event ("win", "blackout", "state") is pushed to every
// connected client as JSON. Slow clients have messages dropped rather than
// blocking the controller.

package httpserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/spooky-bingo/internal/game"
)

const (
	wsSendBuffer = 16
	wsWriteWait  = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || origin == clientOrigin() || origin == "http://"+r.Host
	},
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// hub fans events out to connected clients.
type hub struct {
	mu      sync.Mutex
	clients map[*wsClient]struct{}
}

func newHub() *hub {
	return &hub{clients: make(map[*wsClient]struct{})}
}

// publish is subscribed to the controller. It never blocks.
func (h *hub) publish(e game.Event) {
	b, err := json.Marshal(e)
	if err != nil {
		log.Warn().Err(err).Msg("encode event")
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- b:
		default:
			log.Warn().Str("event", string(e.Type)).Msg("dropping event for slow client")
		}
	}
}

func (h *hub) add(c *wsClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *hub) remove(c *wsClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *hub) size() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// handleWS upgrades the connection and streams events until the client leaves.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade")
		return
	}
	c := &wsClient{conn: conn, send: make(chan []byte, wsSendBuffer)}
	s.hub.add(c)
	log.Debug().Int("clients", s.hub.size()).Msg("websocket connected")

	go c.writePump()
	c.readPump()
	s.hub.remove(c)
}

// readPump discards inbound messages; it returns when the connection closes.
func (c *wsClient) readPump() {
	defer c.conn.Close()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *wsClient) writePump() {
	for b := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

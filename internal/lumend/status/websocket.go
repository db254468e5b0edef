package status

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/lumen-signage/lumen-player/api/types/v1alpha1"
	"github.com/lumen-signage/lumen-player/internal/lumend/engine"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The API binds to loopback; any local origin may subscribe
		return true
	},
}

// connection is a middleman between one websocket subscriber and the hub
type connection struct {
	id     uuid.UUID
	ws     *websocket.Conn
	send   chan []byte
	hub    *Hub
	logger zerolog.Logger
}

func (c *connection) cleanup() {
	c.hub.unregister <- c
	if err := c.ws.Close(); err != nil {
		c.logger.Debug().Err(err).Stringer("subscriber", c.id).Msg("closing websocket")
	}
}

// readPump discards inbound frames; the event stream is one-way. Reading
// still has to happen so close frames and pongs are processed.
func (c *connection) readPump() {
	defer c.cleanup()

	c.ws.SetReadLimit(maxMessageSize)
	if err := c.ws.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Stringer("subscriber", c.id).Msg("failed to set read deadline")
		return
	}

	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug().Err(err).Stringer("subscriber", c.id).Msg("websocket read error")
			}
			return
		}
	}
}

func (c *connection) write(mt int, payload []byte) error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteMessage(mt, payload)
}

func (c *connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				_ = c.write(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.write(websocket.TextMessage, message); err != nil {
				c.logger.Debug().Err(err).Stringer("subscriber", c.id).Msg("failed to write message")
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, []byte{}); err != nil {
				return
			}
		}
	}
}

// Hub fans player events out to websocket subscribers. It implements the
// engine's event publisher; slow subscribers are dropped rather than
// allowed to stall a canvas loop.
type Hub struct {
	connections map[*connection]bool
	register    chan *connection
	unregister  chan *connection
	broadcast   chan []byte
	logger      zerolog.Logger
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:   make(chan []byte, 64),
		register:    make(chan *connection),
		unregister:  make(chan *connection),
		connections: make(map[*connection]bool),
		logger:      logger.With().Str("component", "status-events").Logger(),
	}
}

// Run owns the connection set until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for c := range h.connections {
				close(c.send)
				delete(h.connections, c)
			}
			return
		case c := <-h.register:
			h.connections[c] = true
			h.logger.Info().
				Stringer("subscriber", c.id).
				Int("connections", len(h.connections)).
				Msg("event subscriber connected")
		case c := <-h.unregister:
			if _, ok := h.connections[c]; ok {
				delete(h.connections, c)
				close(c.send)
				h.logger.Info().
					Stringer("subscriber", c.id).
					Int("connections", len(h.connections)).
					Msg("event subscriber disconnected")
			}
		case m := <-h.broadcast:
			for c := range h.connections {
				select {
				case c.send <- m:
				default:
					close(c.send)
					delete(h.connections, c)
				}
			}
		}
	}
}

// Publish converts a player event to its wire frame and queues it for all
// subscribers. It never blocks; when the broadcast buffer is full the
// event is dropped.
func (h *Hub) Publish(_ context.Context, event engine.Event) error {
	frame := v1alpha1.EventFrame{
		Type:            string(event.Type),
		CanvasID:        event.CanvasID,
		Item:            event.Item,
		ManifestVersion: event.ManifestVersion,
		Timestamp:       event.Timestamp,
	}
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- data:
	default:
		h.logger.Debug().Str("type", frame.Type).Msg("event stream backlogged, dropping event")
	}
	return nil
}

// ServeWs upgrades a status API request to an event stream subscription
func (h *Handler) ServeWs(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		h.respondError(w, ErrUnavailable("event stream not configured"))
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &connection{
		id:     uuid.New(),
		send:   make(chan []byte, 256),
		ws:     ws,
		hub:    h.hub,
		logger: h.hub.logger,
	}

	c.hub.register <- c

	go c.writePump()
	c.readPump()
}

package events

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/khaledhosny129/Educational-platform/api/types/v1alpha1"
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

	// Outbound messages buffered per subscriber before it is dropped
	sendBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Subscribers are authenticated administrators; the bearer token gates the route
	CheckOrigin: func(r *http.Request) bool { return true },
}

// subscriber is a middleman between one websocket connection and the hub
type subscriber struct {
	ws   *websocket.Conn
	send chan []byte
}

// Hub fans events out to every connected websocket subscriber. It implements Publisher.
type Hub struct {
	logger zerolog.Logger

	mu          sync.Mutex
	subscribers map[*subscriber]struct{}
	closed      bool
}

// NewHub creates an empty hub
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		logger:      logger.With().Str("component", "event-hub").Logger(),
		subscribers: make(map[*subscriber]struct{}),
	}
}

// Publish encodes the event and queues it for every subscriber. Slow
// subscribers whose buffer is full are disconnected.
func (h *Hub) Publish(ctx context.Context, event Event) error {
	msg, err := json.Marshal(toWire(event))
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for s := range h.subscribers {
		select {
		case s.send <- msg:
		default:
			h.logger.Warn().Msg("dropping slow event subscriber")
			h.removeLocked(s)
		}
	}
	return nil
}

// Subscribers returns the number of connected subscribers
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Run blocks until ctx is done and then disconnects every subscriber
func (h *Hub) Run(ctx context.Context) error {
	<-ctx.Done()

	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for s := range h.subscribers {
		h.removeLocked(s)
	}
	return nil
}

// ServeHTTP upgrades the request to a websocket and streams events until the
// peer goes away
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	s := &subscriber{ws: ws, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		ws.Close()
		return
	}
	h.subscribers[s] = struct{}{}
	h.mu.Unlock()

	h.logger.Info().Str("remoteAddr", r.RemoteAddr).Msg("event subscriber connected")

	go h.writePump(s)
	h.readPump(s)
}

func (h *Hub) remove(s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(s)
}

// removeLocked unregisters s; h.mu must be held
func (h *Hub) removeLocked(s *subscriber) {
	if _, ok := h.subscribers[s]; !ok {
		return
	}
	delete(h.subscribers, s)
	close(s.send)
}

// readPump discards inbound messages and keeps the read deadline alive
func (h *Hub) readPump(s *subscriber) {
	defer func() {
		h.remove(s)
		s.ws.Close()
	}()

	s.ws.SetReadLimit(maxMessageSize)
	_ = s.ws.SetReadDeadline(time.Now().Add(pongWait))
	s.ws.SetPongHandler(func(string) error {
		return s.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := s.ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn().Err(err).Msg("event subscriber closed unexpectedly")
			}
			return
		}
	}
}

func (h *Hub) writePump(s *subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.ws.Close()
	}()

	for {
		select {
		case msg, ok := <-s.send:
			_ = s.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func toWire(e Event) v1alpha1.Event {
	out := v1alpha1.Event{
		Type:      v1alpha1.EventType(e.Type),
		VideoPath: e.VideoPath,
		UserID:    e.UserID,
		Timestamp: e.Timestamp,
	}
	out.ActivationID = optionalID(e.ActivationID)
	out.VideoID = optionalID(e.VideoID)
	out.CodeID = optionalID(e.CodeID)
	if !e.ExpiresAt.IsZero() {
		expiresAt := e.ExpiresAt
		out.ExpiresAt = &expiresAt
	}
	return out
}

func optionalID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}

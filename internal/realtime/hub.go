// Package realtime pushes vocabulary updates to browser clients over WebSocket.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"aprende/internal/contextutil"
	"aprende/internal/storage"
)

// MessageTypeVocabularyUpdate is the only message type exchanged with clients.
const MessageTypeVocabularyUpdate = "vocabulary_update"

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 << 10
	reloadTimeout  = 10 * time.Second
)

// ErrHubStopped is returned when a notification arrives after Run has returned.
var ErrHubStopped = errors.New("realtime: hub stopped")

// VocabularyLister reads the current vocabulary list.
type VocabularyLister interface {
	List(ctx context.Context, filter storage.VocabularyFilter) ([]storage.VocabularyItem, error)
}

// Publisher fans the full vocabulary list out to other server instances.
// A nil items slice asks the receivers to reload it themselves.
type Publisher interface {
	Publish(ctx context.Context, items []storage.VocabularyItem) error
}

// Update is the server to client message.
type Update struct {
	Type  string                   `json:"type"`
	Items []storage.VocabularyItem `json:"items"`
}

// inbound is the client to server message.
type inbound struct {
	Type string          `json:"type"`
	Item json.RawMessage `json:"item"`
}

// Options configures a Hub.
type Options struct {
	// SendBuffer is the per-client outbound queue length.
	SendBuffer int
	// AllowedOrigins lists accepted Origin headers. Empty or "*" accepts any origin.
	AllowedOrigins []string
}

type envelope struct {
	data   []byte
	except *client
}

// Hub tracks connected clients and broadcasts vocabulary updates to them.
type Hub struct {
	vocabulary VocabularyLister
	publisher  Publisher
	upgrader   websocket.Upgrader
	sendBuffer int

	register   chan *client
	unregister chan *client
	broadcast  chan envelope
	stopped    chan struct{}

	// clients is owned by Run.
	clients   map[*client]struct{}
	connected atomic.Int64
}

// NewHub creates a new Hub. Call Run to start delivering messages.
func NewHub(vocabulary VocabularyLister, opts Options) *Hub {
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = 16
	}
	h := &Hub{
		vocabulary: vocabulary,
		sendBuffer: opts.SendBuffer,
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan envelope),
		stopped:    make(chan struct{}),
		clients:    make(map[*client]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     originChecker(opts.AllowedOrigins),
	}
	return h
}

// SetPublisher enables cross-instance fan-out. Must be called before Run.
func (h *Hub) SetPublisher(p Publisher) {
	h.publisher = p
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 || slices.Contains(allowed, "*") {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, origin)
	}
}

// Run delivers messages until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) error {
	logger := contextutil.LoggerFromContext(ctx)
	defer close(h.stopped)

	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			h.connected.Store(0)
			logger.InfoContext(ctx, "websocket hub stopped")
			return nil

		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.connected.Store(int64(len(h.clients)))
			logger.DebugContext(ctx, "websocket client connected", "client_id", c.id, "clients", len(h.clients))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.connected.Store(int64(len(h.clients)))
				logger.DebugContext(ctx, "websocket client disconnected", "client_id", c.id, "clients", len(h.clients))
			}

		case env := <-h.broadcast:
			for c := range h.clients {
				if c == env.except {
					continue
				}
				select {
				case c.send <- env.data:
				default:
					logger.WarnContext(ctx, "websocket client queue full, dropping message", "client_id", c.id)
				}
			}
		}
	}
}

// ClientCount returns the number of registered clients.
func (h *Hub) ClientCount() int {
	return int(h.connected.Load())
}

// NotifyVocabulary re-reads the vocabulary list and sends it to every local
// client and, when a publisher is set, to the other instances. added only
// feeds the log line; clients always receive the full list.
func (h *Hub) NotifyVocabulary(ctx context.Context, added []storage.VocabularyItem) error {
	items, err := h.reload(ctx, nil)
	if err != nil {
		return err
	}
	contextutil.LoggerFromContext(ctx).DebugContext(ctx, "vocabulary update sent", "added", len(added), "items", len(items))

	h.publish(ctx, items)
	return nil
}

// BroadcastLocal sends a full vocabulary list to every client connected to this instance.
func (h *Hub) BroadcastLocal(ctx context.Context, items []storage.VocabularyItem) error {
	return h.send(ctx, items, nil)
}

// Reload re-reads the vocabulary list and sends it to every local client.
func (h *Hub) Reload(ctx context.Context) error {
	_, err := h.reload(ctx, nil)
	return err
}

func (h *Hub) reload(ctx context.Context, skip *client) ([]storage.VocabularyItem, error) {
	items, err := h.vocabulary.List(ctx, storage.VocabularyFilter{})
	if err != nil {
		return nil, fmt.Errorf("list vocabulary: %w", err)
	}
	if items == nil {
		items = []storage.VocabularyItem{}
	}
	return items, h.send(ctx, items, skip)
}

func (h *Hub) publish(ctx context.Context, items []storage.VocabularyItem) {
	if h.publisher == nil {
		return
	}
	if err := h.publisher.Publish(ctx, items); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to publish vocabulary update", "error", err)
	}
}

func (h *Hub) send(ctx context.Context, items []storage.VocabularyItem, except *client) error {
	if items == nil {
		items = []storage.VocabularyItem{}
	}
	data, err := json.Marshal(Update{Type: MessageTypeVocabularyUpdate, Items: items})
	if err != nil {
		return err
	}

	select {
	case h.broadcast <- envelope{data: data, except: except}:
		return nil
	case <-h.stopped:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ServeWS upgrades the request and serves the connection until it closes.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	logger := contextutil.LoggerFromContext(r.Context())

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an error response.
		logger.WarnContext(r.Context(), "websocket upgrade failed", "error", err)
		return
	}

	c := &client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, h.sendBuffer),
		id:     uuid.NewString(),
		logger: logger,
	}

	select {
	case h.register <- c:
	case <-h.stopped:
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}

	go c.writePump()
	c.readPump(context.WithoutCancel(r.Context()))
}

// client is one WebSocket connection.
type client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	id     string
	logger *slog.Logger
}

func (c *client) readPump(ctx context.Context) {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.stopped:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				c.logger.WarnContext(ctx, "websocket read failed", "client_id", c.id, "error", err)
			}
			return
		}
		c.handle(ctx, data)
	}
}

func (c *client) handle(ctx context.Context, data []byte) {
	var msg inbound
	if err := json.Unmarshal(data, &msg); err != nil {
		c.logger.WarnContext(ctx, "ignoring malformed websocket message", "client_id", c.id, "error", err)
		return
	}

	switch msg.Type {
	case MessageTypeVocabularyUpdate:
		reloadCtx, cancel := context.WithTimeout(ctx, reloadTimeout)
		defer cancel()

		items, err := c.hub.reload(reloadCtx, c)
		if err != nil {
			c.logger.ErrorContext(ctx, "failed to broadcast vocabulary reload", "client_id", c.id, "error", err)
			return
		}
		c.hub.publish(contextutil.WithLogger(reloadCtx, c.logger), items)
	default:
		c.logger.WarnContext(ctx, "ignoring unknown websocket message type", "client_id", c.id, "type", msg.Type)
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

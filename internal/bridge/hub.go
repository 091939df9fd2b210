// Package bridge connects viewer sessions to the browser that renders them.
//
// Commands for the map, the AR scene, the permission prompt and the device
// location API are pushed to the session's websocket clients as JSON
// messages. The browser reports outcomes (scene ready, camera answer, location
// samples and errors) back over HTTP, and Browser turns those reports into
// the return values and callbacks the services package expects.
package bridge

import (
	"context"
	"sort"
	"sync"

	"github.com/goccy/go-json"

	"poiviewer/internal/logging"
)

// Message types pushed to the browser.
const (
	MessageMapShow         = "map.show"
	MessageMapHide         = "map.hide"
	MessageMapCenter       = "map.center"
	MessageSceneInit       = "scene.init"
	MessageScenePause      = "scene.pause"
	MessageScenePopulate   = "scene.populate"
	MessageSceneShow       = "scene.show"
	MessageSceneHide       = "scene.hide"
	MessageCameraRequest   = "camera.request"
	MessageLocationWatch   = "location.watch"
	MessageLocationClear   = "location.clear"
	MessageLocationCurrent = "location.current"
	MessageStatusGPS       = "status.gps"
	MessageStatusAR        = "status.ar"
	MessageLoading         = "status.loading"
	MessageLoadingDone     = "status.loading_done"
	MessageNotice          = "notice"
	MessagePing            = "ping"
	MessagePong            = "pong"
)

// maxBacklog bounds the messages kept for a session with no connected client.
const maxBacklog = 64

// Message is one websocket frame.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// MarshalMessage converts a message to JSON.
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// Hub tracks the websocket clients of every session and routes each message
// to the clients of its session only. Messages for a session without a
// connected client are kept in a short backlog and flushed when a client
// registers, so commands issued right after session creation are not lost.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]bool
	backlog map[string][]Message

	register chan *Client
}

func NewHub() *Hub {
	return &Hub{
		clients:  make(map[string]map[*Client]bool),
		backlog:  make(map[string][]Message),
		register: make(chan *Client),
	}
}

// Serve processes client registration until ctx is done, then closes every
// client. It has the signature of a suture service.
//
// Go Learning Note — Priority select:
// When several channels are ready Go picks one at random. Checking ctx.Done
// in its own non-blocking select first makes shutdown win over pending
// registrations.
func (h *Hub) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return ctx.Err()
		default:
		}

		select {
		case <-ctx.Done():
			h.shutdown()
			return ctx.Err()
		case c := <-h.register:
			h.add(c)
		}
	}
}

// String names the hub in supervisor logs.
func (h *Hub) String() string { return "websocket-hub" }

// Register attaches a client to its session. It blocks until the hub is
// serving or ctx is done.
func (h *Hub) Register(ctx context.Context, c *Client) error {
	select {
	case h.register <- c:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[c.session]
	if !ok {
		set = make(map[*Client]bool)
		h.clients[c.session] = set
	}
	set[c] = true

	for _, msg := range h.backlog[c.session] {
		select {
		case c.send <- msg:
		default:
		}
	}
	delete(h.backlog, c.session)

	logging.Info().Str("session", c.session).Int("session_clients", len(set)).Msg("websocket client connected")
}

// remove detaches a client. Clients already dropped by Send, DropSession or
// shutdown are ignored.
func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set := h.clients[c.session]
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.send)
	if len(set) == 0 {
		delete(h.clients, c.session)
	}
	logging.Info().Str("session", c.session).Msg("websocket client disconnected")
}

// Send delivers msg to every client of the session, in connection order.
// Clients that cannot keep up are dropped.
func (h *Hub) Send(session string, msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set := h.clients[session]
	if len(set) == 0 {
		q := append(h.backlog[session], msg)
		if len(q) > maxBacklog {
			q = q[len(q)-maxBacklog:]
		}
		h.backlog[session] = q
		return
	}

	clients := make([]*Client, 0, len(set))
	for c := range set {
		clients = append(clients, c)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].id < clients[j].id })

	for _, c := range clients {
		select {
		case c.send <- msg:
		default:
			logging.Warn().Str("session", session).Str("type", msg.Type).Msg("websocket client too slow, dropping it")
			close(c.send)
			delete(set, c)
		}
	}
	if len(set) == 0 {
		delete(h.clients, session)
	}
}

// reply sends msg to one client if it is still attached. Client goroutines
// use it instead of writing to c.send, which the hub may have closed.
func (h *Hub) reply(c *Client, msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if !h.clients[c.session][c] {
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}

// DropSession disconnects every client of the session and discards its
// backlog.
func (h *Hub) DropSession(session string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients[session] {
		close(c.send)
	}
	delete(h.clients, session)
	delete(h.backlog, session)
}

// ClientCount returns the number of clients connected for the session.
func (h *Hub) ClientCount(session string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[session])
}

// Backlog returns a copy of the messages waiting for the session's first
// client.
func (h *Hub) Backlog(session string) []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]Message(nil), h.backlog[session]...)
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0
	for session, set := range h.clients {
		for c := range set {
			close(c.send)
			n++
		}
		delete(h.clients, session)
	}
	logging.Info().Str("component", "websocket-hub").Int("clients_closed", n).Msg("websocket hub stopped")
}

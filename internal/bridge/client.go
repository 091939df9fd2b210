package bridge

import (
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"poiviewer/internal/logging"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 16 * 1024
	sendBuffer     = 128
)

var clientIDCounter atomic.Uint64

// Client is one browser websocket connection bound to a session.
type Client struct {
	id      uint64
	session string
	hub     *Hub
	conn    *websocket.Conn
	send    chan Message
}

// NewClient creates a client for the session. Call Start after the client
// has been registered with the hub.
func NewClient(hub *Hub, conn *websocket.Conn, session string) *Client {
	return &Client{
		id:      clientIDCounter.Add(1),
		session: session,
		hub:     hub,
		conn:    conn,
		send:    make(chan Message, sendBuffer),
	}
}

// Start runs the read and write pumps.
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

// readPump only answers pings; device reports arrive over HTTP.
func (c *Client) readPump() {
	defer func() {
		c.hub.remove(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logging.Error().Err(err).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Warn().Err(err).Str("session", c.session).Msg("unexpected websocket close")
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			logging.Debug().Err(err).Str("session", c.session).Msg("ignoring malformed websocket message")
			continue
		}
		if msg.Type == MessagePing {
			c.hub.reply(c, Message{Type: MessagePong})
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := MarshalMessage(msg)
			if err != nil {
				logging.Error().Err(err).Str("type", msg.Type).Msg("failed to encode websocket message")
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

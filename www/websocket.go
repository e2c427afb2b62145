package www

import (
	"log/slog"
	"net/http"
	"time"

	ws "github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// Client is one connected quote session: a websocket with a buffered send
// queue, pumped by two goroutines.
type Client struct {
	logger *slog.Logger
	hub    *Hub
	conn   *ws.Conn
	send   chan []byte
	name   string
}

func NewClient(hub *Hub, upgrader *ws.Upgrader, w http.ResponseWriter, r *http.Request, name string) (*Client, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		logger: hub.logger.With(slog.String("client", name)),
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		name:   name,
	}, nil
}

// ReadPump reads compute requests from the socket and queues the responses.
// It owns unregistration: the send channel is only closed after this pump
// has returned, so queueing a response can never hit a closed channel.
func (c *Client) ReadPump(evaluate func(msg []byte) []byte) {
	defer func() {
		c.hub.Unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Warn("web socket set read deadline failed", slog.Any("error", err))
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		msgType, msg, err := c.conn.ReadMessage()
		if err != nil {
			if ws.IsUnexpectedCloseError(err, ws.CloseGoingAway, ws.CloseNormalClosure) {
				c.logger.Warn("web socket read failed", slog.Any("error", err))
			}
			return
		}
		if msgType != ws.TextMessage {
			continue
		}

		select {
		case c.send <- evaluate(msg):
		default: // Client's channel is full, drop the response
			c.logger.Warn("client send buffer full, dropping response")
		}
	}
}

// WritePump serializes all writes to the connection: queued responses,
// broadcast notices and keepalive pings. It never unregisters the client;
// closing the connection is enough to make ReadPump do that.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				// The hub closed the channel, say goodbye properly.
				if err := c.write(ws.CloseMessage, []byte{}); err != nil {
					c.logger.Warn("web socket close message failed", slog.Any("error", err))
				}
				return
			}
			if err := c.write(ws.TextMessage, message); err != nil {
				c.logger.Warn("web socket write failed", slog.Any("error", err))
				return
			}

		case <-ticker.C:
			if err := c.write(ws.PingMessage, nil); err != nil {
				c.logger.Warn("web socket ping failed", slog.Any("error", err))
				return
			}
		}
	}
}

// write applies the write deadline and sends a single frame.
func (c *Client) write(messageType int, payload []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, payload)
}

// Hub tracks the connected quote sessions and fans notices out to them.
// All bookkeeping happens on the Run goroutine; the clients map is owned
// by it and needs no lock.
type Hub struct {
	Broadcast  chan []byte
	Register   chan *Client
	Unregister chan *Client
	clients    map[*Client]bool
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		Broadcast:  make(chan []byte),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.Register:
			h.logger.Debug("registering client", slog.String("client", c.name))
			h.clients[c] = true

		case c := <-h.Unregister:
			h.logger.Debug("unregistering client", slog.String("client", c.name))
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}

		case message := <-h.Broadcast:
			for c := range h.clients {
				select {
				case c.send <- message:
				default: // Client's channel is full, drop the notice
					h.logger.Warn("client send buffer full, dropping message", slog.String("client", c.name))
				}
			}
		}
	}
}

package transport

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// WebSocket heartbeat settings to detect a dead server
	PING_INTERVAL = 10 * time.Second // Frequency of sending ping messages
	PONG_WAIT     = 60 * time.Second // Time to wait for any read before considering the link dead
	WRITE_WAIT    = 10 * time.Second // Deadline for a single write
	SEND_BUFFER   = 64               // Outbound intents queued per connection
)

// connection is one established socket with its write queue.
type connection struct {
	ws   *websocket.Conn
	send chan []byte
	done chan struct{} // Closed by the read pump when the socket dies
}

// Client keeps a websocket to the game server open, reconnecting after a fixed delay.
// Inbound frames go to deliver; intents go out through Send.
type Client struct {
	url            string
	id             string
	reconnectDelay time.Duration
	dialer         *websocket.Dialer
	deliver        func(raw []byte) bool
	onDisconnect   func()

	mu     sync.Mutex
	active *connection
}

// NewClient prepares a client. deliver returning false closes the socket and stops reconnects.
func NewClient(url string, reconnectDelay time.Duration, deliver func(raw []byte) bool) *Client {
	return &Client{
		url:            url,
		id:             uuid.NewString(),
		reconnectDelay: reconnectDelay,
		dialer:         &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		deliver:        deliver,
	}
}

// OnDisconnect registers a hook run each time an established connection drops.
func (c *Client) OnDisconnect(fn func()) {
	c.onDisconnect = fn
}

// ID is the per-process client identifier sent with every dial.
func (c *Client) ID() string {
	return c.id
}

func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active != nil
}

// Send queues an encoded intent. It returns false while disconnected or when the queue is full.
func (c *Client) Send(raw []byte) bool {
	c.mu.Lock()
	cn := c.active
	c.mu.Unlock()
	if cn == nil {
		return false
	}
	select {
	case cn.send <- raw:
		return true
	case <-cn.done:
		return false
	default:
		log.Printf("Client %s: send queue full, dropping intent", c.id)
		return false
	}
}

func (c *Client) setActive(cn *connection) {
	c.mu.Lock()
	c.active = cn
	c.mu.Unlock()
}

// errStopped ends Run when the consumer refuses further frames.
var errStopped = errors.New("consumer stopped")

// Run connects and reconnects until ctx ends or the consumer stops accepting frames.
func (c *Client) Run(ctx context.Context) error {
	header := http.Header{}
	header.Set("X-Client-Id", c.id)

	for {
		ws, _, err := c.dialer.DialContext(ctx, c.url, header)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("Client %s: dial %s failed: %v", c.id, c.url, err)
		} else {
			log.Printf("Client %s: connected to %s", c.id, c.url)
			err = c.serve(ctx, ws)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, errStopped) {
				return nil
			}
			if c.onDisconnect != nil {
				c.onDisconnect()
			}
			log.Printf("Client %s: disconnected, reconnecting in %s", c.id, c.reconnectDelay)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.reconnectDelay):
		}
	}
}

// serve runs both pumps for one socket and returns once it is closed.
func (c *Client) serve(ctx context.Context, ws *websocket.Conn) error {
	cn := &connection{ws: ws, send: make(chan []byte, SEND_BUFFER), done: make(chan struct{})}
	c.setActive(cn)
	defer c.setActive(nil)

	stop := context.AfterFunc(ctx, func() { ws.Close() })
	defer stop()

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		c.writePump(cn)
	}()
	err := c.readPump(cn)
	<-writerDone
	return err
}

// readPump hands every inbound frame to the consumer until the socket fails.
func (c *Client) readPump(cn *connection) error {
	defer func() {
		close(cn.done) // Signal the write pump to terminate
		cn.ws.Close()
	}()

	cn.ws.SetReadDeadline(time.Now().Add(PONG_WAIT))
	cn.ws.SetPongHandler(func(string) error {
		cn.ws.SetReadDeadline(time.Now().Add(PONG_WAIT))
		return nil
	})

	for {
		_, message, err := cn.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Client %s: unexpected close: %v", c.id, err)
			}
			return err
		}
		cn.ws.SetReadDeadline(time.Now().Add(PONG_WAIT))
		if !c.deliver(message) {
			return errStopped
		}
	}
}

// writePump sends queued intents and periodic pings until the read pump gives up.
func (c *Client) writePump(cn *connection) {
	ticker := time.NewTicker(PING_INTERVAL)
	defer ticker.Stop()

	for {
		select {
		case message := <-cn.send:
			cn.ws.SetWriteDeadline(time.Now().Add(WRITE_WAIT))
			if err := cn.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("Client %s: error sending message: %v", c.id, err)
				cn.ws.Close()
				return
			}
		case <-ticker.C:
			cn.ws.SetWriteDeadline(time.Now().Add(WRITE_WAIT))
			if err := cn.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("Client %s: error sending ping: %v", c.id, err)
				cn.ws.Close()
				return
			}
		case <-cn.done:
			cn.ws.SetWriteDeadline(time.Now().Add(WRITE_WAIT))
			_ = cn.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

package wsconn

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/johnquangdev/meeting-coach/internal/usecase/bridge"
)

// Options tune a client websocket
type Options struct {
	MaxFrameBytes int64
	WriteTimeout  time.Duration
	PingInterval  time.Duration
}

// ErrClosed is returned by writes after Close
var ErrClosed = errors.New("websocket connection closed")

// Conn adapts a gorilla websocket to the bridge client connection.
// Writes are serialized; gorilla allows one concurrent writer.
type Conn struct {
	ws   *websocket.Conn
	opts Options

	writeMu   sync.Mutex
	closeOnce sync.Once
	done      chan struct{}
}

// Ensure Conn implements bridge.ClientConn
var _ bridge.ClientConn = (*Conn)(nil)

// New wraps ws and starts the keepalive pinger when PingInterval is set
func New(ws *websocket.Conn, opts Options) *Conn {
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 5 * time.Second
	}
	c := &Conn{
		ws:   ws,
		opts: opts,
		done: make(chan struct{}),
	}

	if opts.MaxFrameBytes > 0 {
		ws.SetReadLimit(opts.MaxFrameBytes)
	}
	if opts.PingInterval > 0 {
		_ = ws.SetReadDeadline(time.Now().Add(c.pongWait()))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(c.pongWait()))
		})
		go c.pingLoop()
	}
	return c
}

// pongWait is how long a silent peer is tolerated
func (c *Conn) pongWait() time.Duration {
	return 2*c.opts.PingInterval + c.opts.WriteTimeout
}

// Read returns the next binary or text message
func (c *Conn) Read(ctx context.Context) (bridge.Frame, error) {
	for {
		if err := ctx.Err(); err != nil {
			return bridge.Frame{}, err
		}
		messageType, data, err := c.ws.ReadMessage()
		if err != nil {
			return bridge.Frame{}, err
		}
		if c.opts.PingInterval > 0 {
			_ = c.ws.SetReadDeadline(time.Now().Add(c.pongWait()))
		}
		switch messageType {
		case websocket.BinaryMessage:
			return bridge.Frame{Binary: true, Data: data}, nil
		case websocket.TextMessage:
			return bridge.Frame{Data: data}, nil
		}
	}
}

// WriteJSON writes v as one text message under the write deadline
func (c *Conn) WriteJSON(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	if err := c.ws.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout)); err != nil {
		return err
	}
	return c.ws.WriteJSON(v)
}

// Close sends a normal closure and closes the socket. Safe to call more than once.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.writeMu.Lock()
		close(c.done)
		_ = c.ws.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(c.opts.WriteTimeout),
		)
		c.writeMu.Unlock()
		err = c.ws.Close()
	})
	return err
}

func (c *Conn) pingLoop() {
	ticker := time.NewTicker(c.opts.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.writeMu.Lock()
			select {
			case <-c.done:
				c.writeMu.Unlock()
				return
			default:
			}
			err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.opts.WriteTimeout))
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

package websocket

import (
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/rs/zerolog"

	"relaychat/server/internal/logger"
)

// Options tune a live connection.
type Options struct {
	SendBuffer     int
	MaxMessageSize int64
	PingInterval   time.Duration
	PongWait       time.Duration
	WriteWait      time.Duration

	// Relay lets clients push chat frames that are fanned out to every
	// live connection.
	Relay bool
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{
		SendBuffer:     256,
		MaxMessageSize: 64 * 1024,
		PingInterval:   54 * time.Second,
		PongWait:       60 * time.Second,
		WriteWait:      10 * time.Second,
	}
}

// socket is the part of *websocket.Conn a Client drives.
type socket interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

// Client represents one live channel. It stays inert until the peer sends
// an auth frame naming the principal that was authenticated on upgrade.
type Client struct {
	principal string
	conn      socket
	registry  *Registry
	router    *Router
	opts      Options
	log       zerolog.Logger

	// Only touched by the read pump.
	userID string
	handle Handle

	send      chan []byte
	done      chan struct{}
	open      atomic.Bool
	closeOnce sync.Once
}

// NewClient wraps conn for the authenticated principal.
func NewClient(principal string, conn socket, registry *Registry, router *Router, opts Options) *Client {
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = DefaultOptions().SendBuffer
	}
	c := &Client{
		principal: principal,
		conn:      conn,
		registry:  registry,
		router:    router,
		opts:      opts,
		log:       logger.L().With().Str(logger.FieldUserID, principal).Logger(),
		send:      make(chan []byte, opts.SendBuffer),
		done:      make(chan struct{}),
	}
	c.open.Store(true)
	return c
}

// Handle returns the registry handle, empty until the handshake succeeds.
func (c *Client) Handle() Handle { return c.handle }

// Run pumps the connection until it closes.
func (c *Client) Run() {
	go c.WritePump()
	c.ReadPump()
}

// Send queues data for the write pump. It never blocks.
func (c *Client) Send(data []byte) error {
	if !c.open.Load() {
		return ErrConnClosed
	}
	select {
	case <-c.done:
		return ErrConnClosed
	default:
	}
	select {
	case c.send <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// IsOpen reports whether the connection still accepts frames.
func (c *Client) IsOpen() bool { return c.open.Load() }

// Close stops the client. The write pump sends a close frame and tears the
// socket down; the read pump then unregisters the handle.
func (c *Client) Close() error {
	closed := false
	c.closeOnce.Do(func() {
		c.open.Store(false)
		close(c.done)
		closed = true
	})
	if !closed {
		return ErrConnClosed
	}
	return nil
}

// ReadPump handles incoming frames until the socket fails or closes.
func (c *Client) ReadPump() {
	defer func() {
		if c.handle != "" {
			c.registry.Unregister(c.handle)
			c.log.Info().Str(logger.FieldHandle, string(c.handle)).Msg("live channel closed")
		}
		_ = c.Close()
		_ = c.conn.Close()
	}()

	if c.opts.MaxMessageSize > 0 {
		c.conn.SetReadLimit(c.opts.MaxMessageSize)
	}
	if c.opts.PongWait > 0 {
		_ = c.conn.SetReadDeadline(time.Now().Add(c.opts.PongWait))
		c.conn.SetPongHandler(func(string) error {
			return c.conn.SetReadDeadline(time.Now().Add(c.opts.PongWait))
		})
	}

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.log.Warn().Err(err).Msg("live channel read failed")
			}
			return
		}
		c.handleFrame(data)
	}
}

// WritePump writes queued frames and keeps the connection alive with pings.
func (c *Client) WritePump() {
	var tick <-chan time.Time
	if c.opts.PingInterval > 0 {
		ticker := time.NewTicker(c.opts.PingInterval)
		defer ticker.Stop()
		tick = ticker.C
	}
	defer c.conn.Close()

	for {
		select {
		case data := <-c.send:
			c.setWriteDeadline()
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.log.Warn().Err(err).Msg("live channel write failed")
				_ = c.Close()
				return
			}

		case <-tick:
			c.setWriteDeadline()
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = c.Close()
				return
			}

		case <-c.done:
			c.setWriteDeadline()
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (c *Client) setWriteDeadline() {
	if c.opts.WriteWait > 0 {
		_ = c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
	}
}

// handleFrame dispatches one inbound frame.
func (c *Client) handleFrame(data []byte) {
	frame, err := DecodeInbound(data)
	if err != nil {
		code := ErrCodeBadFrame
		if errors.Is(err, errUnknownType) {
			code = ErrCodeUnknownType
		}
		c.reply(NewErrorFrame(code, err.Error()))
		return
	}

	switch f := frame.(type) {
	case AuthFrame:
		c.handleAuth(f)
	case ChatFrame:
		c.handleChat(f)
	}
}

func (c *Client) handleAuth(f AuthFrame) {
	if c.handle != "" {
		c.reply(NewErrorFrame(ErrCodeAlreadyAuthenticated, "connection is already authenticated"))
		return
	}
	if f.UserID != c.principal {
		c.log.Warn().Str("claimed_user_id", f.UserID).Msg("auth frame does not match session")
		c.reply(NewErrorFrame(ErrCodeAuthMismatch, "userId does not match the authenticated session"))
		return
	}

	c.userID = f.UserID
	c.handle = c.registry.Register(c.userID, c)
	c.log.Info().Str(logger.FieldHandle, string(c.handle)).Msg("live channel authenticated")
	c.reply(AuthOKFrame{Type: FrameAuthOK, UserID: c.userID})
}

func (c *Client) handleChat(f ChatFrame) {
	if c.handle == "" {
		c.reply(NewErrorFrame(ErrCodeNotAuthenticated, "send an auth frame first"))
		return
	}
	if !c.opts.Relay {
		c.reply(NewErrorFrame(ErrCodeRelayDisabled, "post messages to /api/messages; they are delivered live once stored"))
		return
	}
	n := c.router.PublishChat(c.userID, f)
	c.log.Debug().Int("recipients", n).Msg("relayed chat frame")
}

// reply sends a frame to this connection only.
func (c *Client) reply(frame any) {
	data, err := json.Marshal(frame)
	if err != nil {
		c.log.Error().Err(err).Msg("failed to encode reply")
		return
	}
	if err := c.Send(data); err != nil {
		c.log.Warn().Err(err).Msg("failed to queue reply")
	}
}

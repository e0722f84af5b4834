package websocket

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/contrib/websocket"
)

// fakeConn records every frame handed to it.
type fakeConn struct {
	mu      sync.Mutex
	frames  [][]byte
	closed  atomic.Bool
	sendErr error
	onSend  func()
}

func (f *fakeConn) Send(data []byte) error {
	if f.onSend != nil {
		f.onSend()
	}
	if f.closed.Load() {
		return ErrConnClosed
	}
	if f.sendErr != nil {
		return f.sendErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, data)
	return nil
}

func (f *fakeConn) IsOpen() bool { return !f.closed.Load() }

func (f *fakeConn) Close() error {
	if f.closed.Swap(true) {
		return ErrConnClosed
	}
	return nil
}

func (f *fakeConn) received() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]byte(nil), f.frames...)
}

type panicConn struct{ fakeConn }

func (p *panicConn) Send([]byte) error { panic("boom") }

var errSocketClosed = errors.New("socket closed")

// fakeSocket feeds scripted inbound frames and captures writes.
type fakeSocket struct {
	in      chan []byte
	written chan []byte

	mu     sync.Mutex
	limit  int64
	closed bool
}

func newFakeSocket() *fakeSocket {
	return &fakeSocket{in: make(chan []byte, 16), written: make(chan []byte, 64)}
}

func (s *fakeSocket) ReadMessage() (int, []byte, error) {
	data, ok := <-s.in
	if !ok {
		return 0, nil, errSocketClosed
	}
	return websocket.TextMessage, data, nil
}

func (s *fakeSocket) WriteMessage(messageType int, data []byte) error {
	if messageType != websocket.TextMessage {
		return nil
	}
	s.written <- data
	return nil
}

func (s *fakeSocket) SetReadLimit(limit int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limit = limit
}

func (s *fakeSocket) SetReadDeadline(time.Time) error   { return nil }
func (s *fakeSocket) SetWriteDeadline(time.Time) error  { return nil }
func (s *fakeSocket) SetPongHandler(func(string) error) {}

func (s *fakeSocket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeSocket) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

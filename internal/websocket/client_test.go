package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clientHarness struct {
	t        *testing.T
	socket   *fakeSocket
	client   *Client
	registry *Registry
	done     chan struct{}
}

func startClient(t *testing.T, principal string, registry *Registry, relay bool) *clientHarness {
	t.Helper()
	opts := DefaultOptions()
	opts.PingInterval = 0
	opts.Relay = relay

	sock := newFakeSocket()
	c := NewClient(principal, sock, registry, NewRouter(registry), opts)
	h := &clientHarness{t: t, socket: sock, client: c, registry: registry, done: make(chan struct{})}
	go func() {
		c.Run()
		close(h.done)
	}()
	t.Cleanup(h.stop)
	return h
}

func (h *clientHarness) push(frame string) {
	h.socket.in <- []byte(frame)
}

func (h *clientHarness) next() map[string]any {
	h.t.Helper()
	select {
	case data := <-h.socket.written:
		var got map[string]any
		require.NoError(h.t, json.Unmarshal(data, &got))
		return got
	case <-time.After(2 * time.Second):
		h.t.Fatal("timed out waiting for a frame")
		return nil
	}
}

func (h *clientHarness) stop() {
	select {
	case <-h.done:
		return
	default:
	}
	close(h.socket.in)
	select {
	case <-h.done:
	case <-time.After(2 * time.Second):
		h.t.Fatal("client did not stop")
	}
}

func TestClient_AuthRegistersConnection(t *testing.T) {
	reg := NewRegistry()
	h := startClient(t, "alice", reg, false)

	h.push(`{"type":"auth","userId":"alice"}`)
	got := h.next()

	assert.Equal(t, "auth_ok", got["type"])
	assert.Equal(t, "alice", got["userId"])
	assert.Eventually(t, func() bool { return reg.Count() == 1 }, time.Second, 10*time.Millisecond)
	assert.Len(t, reg.HandlesFor("alice"), 1)
}

func TestClient_AuthMismatchStaysUnregistered(t *testing.T) {
	reg := NewRegistry()
	h := startClient(t, "alice", reg, false)

	h.push(`{"type":"auth","userId":"mallory"}`)
	got := h.next()

	assert.Equal(t, "error", got["type"])
	assert.Equal(t, ErrCodeAuthMismatch, got["code"])
	assert.Zero(t, reg.Count())
}

func TestClient_FramesBeforeAuthAreRejected(t *testing.T) {
	reg := NewRegistry()
	h := startClient(t, "alice", reg, true)

	h.push(`{"type":"chat","content":"hi"}`)
	assert.Equal(t, ErrCodeNotAuthenticated, h.next()["code"])

	h.push(`{"type":"presence"}`)
	assert.Equal(t, ErrCodeUnknownType, h.next()["code"])

	h.push(`not json`)
	assert.Equal(t, ErrCodeBadFrame, h.next()["code"])

	assert.Zero(t, reg.Count())
}

func TestClient_DuplicateAuth(t *testing.T) {
	reg := NewRegistry()
	h := startClient(t, "alice", reg, false)

	h.push(`{"type":"auth","userId":"alice"}`)
	require.Equal(t, "auth_ok", h.next()["type"])

	h.push(`{"type":"auth","userId":"alice"}`)
	assert.Equal(t, ErrCodeAlreadyAuthenticated, h.next()["code"])
	assert.Equal(t, 1, reg.Count())
}

func TestClient_ChatRelay(t *testing.T) {
	reg := NewRegistry()
	other := &fakeConn{}
	reg.Register("bob", other)
	h := startClient(t, "alice", reg, true)

	h.push(`{"type":"auth","userId":"alice"}`)
	require.Equal(t, "auth_ok", h.next()["type"])

	h.push(`{"type":"chat","content":"hello"}`)
	got := h.next()
	assert.Equal(t, "chat", got["type"])
	assert.Equal(t, "alice", got["senderId"])
	assert.Equal(t, "hello", got["content"])

	require.Len(t, other.received(), 1)
}

func TestClient_ChatRelayDisabled(t *testing.T) {
	reg := NewRegistry()
	other := &fakeConn{}
	reg.Register("bob", other)
	h := startClient(t, "alice", reg, false)

	h.push(`{"type":"auth","userId":"alice"}`)
	require.Equal(t, "auth_ok", h.next()["type"])

	h.push(`{"type":"chat","content":"hello"}`)
	assert.Equal(t, ErrCodeRelayDisabled, h.next()["code"])
	assert.Empty(t, other.received())
}

func TestClient_CloseUnregisters(t *testing.T) {
	reg := NewRegistry()
	h := startClient(t, "alice", reg, false)

	h.push(`{"type":"auth","userId":"alice"}`)
	require.Equal(t, "auth_ok", h.next()["type"])
	require.Equal(t, 1, reg.Count())

	h.stop()

	assert.Zero(t, reg.Count())
	assert.False(t, h.client.IsOpen())
	assert.True(t, h.socket.isClosed())
	assert.ErrorIs(t, h.client.Send([]byte("x")), ErrConnClosed)
}

func TestClient_SendBufferFull(t *testing.T) {
	opts := DefaultOptions()
	opts.SendBuffer = 1
	c := NewClient("alice", newFakeSocket(), NewRegistry(), nil, opts)

	require.NoError(t, c.Send([]byte("1")))
	assert.ErrorIs(t, c.Send([]byte("2")), ErrSendBufferFull)

	require.NoError(t, c.Close())
	assert.ErrorIs(t, c.Close(), ErrConnClosed)
}

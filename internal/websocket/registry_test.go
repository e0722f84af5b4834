package websocket

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_MultipleConnectionsPerUser(t *testing.T) {
	r := NewRegistry()
	a, b := &fakeConn{}, &fakeConn{}

	h1 := r.Register("alice", a)
	h2 := r.Register("alice", b)

	assert.NotEqual(t, h1, h2)
	assert.Equal(t, 2, r.Count())
	assert.ElementsMatch(t, []Handle{h1, h2}, r.HandlesFor("alice"))
	assert.Equal(t, []string{"alice"}, r.Users())
	assert.True(t, a.IsOpen(), "registering a second connection must not evict the first")
}

func TestRegistry_UnregisterIsIdempotent(t *testing.T) {
	r := NewRegistry()
	h := r.Register("alice", &fakeConn{})
	other := r.Register("alice", &fakeConn{})

	assert.True(t, r.Unregister(h))
	assert.False(t, r.Unregister(h))
	assert.False(t, r.Unregister("missing"))

	assert.Equal(t, []Handle{other}, r.HandlesFor("alice"))

	r.Unregister(other)
	assert.Empty(t, r.Users())
	assert.Zero(t, r.Count())
}

func TestRegistry_SnapshotIsStable(t *testing.T) {
	r := NewRegistry()
	h1 := r.Register("alice", &fakeConn{})
	h2 := r.Register("bob", &fakeConn{})
	h3 := r.Register("alice", &fakeConn{})

	snap := r.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, []Handle{h1, h2, h3}, []Handle{snap[0].Handle, snap[1].Handle, snap[2].Handle})

	r.Unregister(h2)
	r.Register("carol", &fakeConn{})
	assert.Len(t, snap, 3)
	assert.Equal(t, "bob", snap[1].UserID)
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h := r.Register("alice", &fakeConn{})
			_ = r.Snapshot()
			r.Unregister(h)
		}()
	}
	wg.Wait()
	assert.Zero(t, r.Count())
}

func TestRegistry_CloseClosesConnections(t *testing.T) {
	r := NewRegistry()
	a, b := &fakeConn{}, &fakeConn{}
	r.Register("alice", a)
	r.Register("bob", b)
	require.NoError(t, b.Close())

	assert.NoError(t, r.Close())
	assert.False(t, a.IsOpen())
	assert.Zero(t, r.Count())
}

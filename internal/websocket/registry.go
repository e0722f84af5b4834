package websocket

import (
	"cmp"
	"errors"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

var (
	ErrConnClosed     = errors.New("connection closed")
	ErrSendBufferFull = errors.New("send buffer full")
)

// Conn is a live transport handle.
type Conn interface {
	// Send queues data for delivery without blocking.
	Send(data []byte) error
	IsOpen() bool
	Close() error
}

// Handle identifies one registered connection.
type Handle string

// Entry is one live connection in a registry snapshot.
type Entry struct {
	Handle Handle
	UserID string
	Conn   Conn

	seq uint64
}

// Registry maps live connections to users. Entries are keyed by handle,
// with a secondary index from user id to that user's handles, so a user
// may hold any number of simultaneous connections.
type Registry struct {
	mu      sync.RWMutex
	entries map[Handle]Entry
	byUser  map[string]map[Handle]struct{}
	seq     uint64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[Handle]Entry),
		byUser:  make(map[string]map[Handle]struct{}),
	}
}

// Register adds a connection for userID and returns its handle. Existing
// connections of the same user are left alone.
func (r *Registry) Register(userID string, conn Conn) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	h := Handle(uuid.NewString())
	r.entries[h] = Entry{Handle: h, UserID: userID, Conn: conn, seq: r.seq}

	if _, ok := r.byUser[userID]; !ok {
		r.byUser[userID] = make(map[Handle]struct{})
	}
	r.byUser[userID][h] = struct{}{}
	return h
}

// Unregister removes the entry for h. It reports whether an entry was
// removed; removing an absent handle is a no-op.
func (r *Registry) Unregister(h Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[h]
	if !ok {
		return false
	}
	delete(r.entries, h)

	if handles, ok := r.byUser[entry.UserID]; ok {
		delete(handles, h)
		if len(handles) == 0 {
			delete(r.byUser, entry.UserID)
		}
	}
	return true
}

// Snapshot copies the current entries in registration order. The copy is
// safe to iterate while connections come and go.
func (r *Registry) Snapshot() []Entry {
	r.mu.RLock()
	entries := lo.Values(r.entries)
	r.mu.RUnlock()

	slices.SortFunc(entries, func(a, b Entry) int { return cmp.Compare(a.seq, b.seq) })
	return entries
}

// HandlesFor lists the handles registered for userID.
func (r *Registry) HandlesFor(userID string) []Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Keys(r.byUser[userID])
}

// Users lists the ids with at least one live connection.
func (r *Registry) Users() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Keys(r.byUser)
}

// Count returns the number of registered connections.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Close empties the registry and closes every connection it held.
func (r *Registry) Close() error {
	r.mu.Lock()
	entries := lo.Values(r.entries)
	r.entries = make(map[Handle]Entry)
	r.byUser = make(map[string]map[Handle]struct{})
	r.mu.Unlock()

	var errs []error
	for _, e := range entries {
		if err := e.Conn.Close(); err != nil && !errors.Is(err, ErrConnClosed) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

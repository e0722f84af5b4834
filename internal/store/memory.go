package store

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/samber/lo"

	"relaychat/server/internal/models"
)

type pair struct{ from, to string }

// MemoryStore keeps every aggregate in-process. Nothing survives a restart.
type MemoryStore struct {
	mu        sync.RWMutex
	users     map[string]models.User
	usernames map[string]string // username -> user ID
	messages  []models.Message  // already in (timestamp, id) order
	edges     map[int64]models.FriendEdge
	pairs     map[pair]int64

	nextMessageID int64
	nextEdgeID    int64
	lastStamp     time.Time
	now           func() time.Time
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[string]models.User),
		usernames: make(map[string]string),
		edges:     make(map[int64]models.FriendEdge),
		pairs:     make(map[pair]int64),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (m *MemoryStore) CreateUser(_ context.Context, user models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.usernames[user.Username]; ok {
		return models.User{}, usernameTaken(user.Username)
	}
	now := m.now()
	user.CreatedAt, user.UpdatedAt = now, now
	m.users[user.ID] = user
	m.usernames[user.Username] = user.ID
	return user, nil
}

func (m *MemoryStore) GetUser(_ context.Context, id string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return models.User{}, userNotFound(id)
	}
	return user, nil
}

func (m *MemoryStore) GetUserByUsername(_ context.Context, username string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.usernames[username]
	if !ok {
		return models.User{}, userNotFound(username)
	}
	return m.users[id], nil
}

func (m *MemoryStore) UpdateUser(_ context.Context, id string, update models.UserUpdate) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return models.User{}, userNotFound(id)
	}
	oldName := user.Username
	if update.Username != nil && *update.Username != oldName {
		if _, taken := m.usernames[*update.Username]; taken {
			return models.User{}, usernameTaken(*update.Username)
		}
	}

	update.Apply(&user)
	user.UpdatedAt = m.now()
	m.users[id] = user
	if user.Username != oldName {
		delete(m.usernames, oldName)
		m.usernames[user.Username] = id
	}
	return user, nil
}

func (m *MemoryStore) UserExists(_ context.Context, id string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.users[id]
	return ok, nil
}

func (m *MemoryStore) Append(_ context.Context, senderID, content string, fileURL *string) (models.Message, error) {
	draft, err := prepareAppend(senderID, content, fileURL)
	if err != nil {
		return models.Message{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[draft.SenderID]; !ok {
		return models.Message{}, userNotFound(draft.SenderID)
	}

	stamp := m.now()
	if stamp.Before(m.lastStamp) {
		stamp = m.lastStamp
	}
	m.lastStamp = stamp
	m.nextMessageID++

	msg := models.Message{
		ID:        m.nextMessageID,
		SenderID:  draft.SenderID,
		Content:   draft.Content,
		FileURL:   draft.FileURL,
		Timestamp: stamp,
	}
	m.messages = append(m.messages, msg)
	return msg, nil
}

func (m *MemoryStore) ListAll(_ context.Context) ([]models.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	res := make([]models.Message, len(m.messages))
	copy(res, m.messages)
	return res, nil
}

func (m *MemoryStore) CreateEdge(_ context.Context, userID, friendID string, status models.FriendStatus) (models.FriendEdge, error) {
	if err := prepareEdge(userID, friendID, status); err != nil {
		return models.FriendEdge{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range []string{userID, friendID} {
		if _, ok := m.users[id]; !ok {
			return models.FriendEdge{}, userNotFound(id)
		}
	}
	key := pair{userID, friendID}
	if _, ok := m.pairs[key]; ok {
		return models.FriendEdge{}, edgeExists(userID, friendID)
	}

	m.nextEdgeID++
	edge := models.FriendEdge{ID: m.nextEdgeID, UserID: userID, FriendID: friendID, Status: status}
	m.edges[edge.ID] = edge
	m.pairs[key] = edge.ID
	return edge, nil
}

func (m *MemoryStore) GetEdge(_ context.Context, id int64) (models.FriendEdge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	edge, ok := m.edges[id]
	if !ok {
		return models.FriendEdge{}, edgeNotFound(id)
	}
	return edge, nil
}

func (m *MemoryStore) UpdateEdgeStatus(_ context.Context, id int64, update EdgeUpdate) (models.FriendEdge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	edge, ok := m.edges[id]
	if !ok {
		return models.FriendEdge{}, edgeNotFound(id)
	}
	next, err := update(edge)
	if err != nil {
		return models.FriendEdge{}, err
	}
	edge.Status = next
	m.edges[id] = edge
	return edge, nil
}

func (m *MemoryStore) ListEdgesFor(_ context.Context, userID string) ([]models.FriendEdge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	res := lo.Filter(lo.Values(m.edges), func(edge models.FriendEdge, _ int) bool {
		return edge.Involves(userID)
	})
	slices.SortFunc(res, func(a, b models.FriendEdge) int { return cmp.Compare(a.ID, b.ID) })
	return res, nil
}

func (m *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)

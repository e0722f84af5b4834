package store

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"relaychat/server/internal/apperr"
	"relaychat/server/internal/models"
)

// runContract exercises the behaviour every driver must share.
func runContract(t *testing.T, open func(t *testing.T) Store) {
	t.Run("append then list keeps order", func(t *testing.T) { testAppendOrder(t, open(t)) })
	t.Run("append rejects empty message", func(t *testing.T) { testAppendEmpty(t, open(t)) })
	t.Run("append accepts file only", func(t *testing.T) { testAppendFileOnly(t, open(t)) })
	t.Run("append rejects unknown sender", func(t *testing.T) { testAppendUnknownSender(t, open(t)) })
	t.Run("concurrent appends stay ordered", func(t *testing.T) { testConcurrentAppends(t, open(t)) })
	t.Run("duplicate edge conflicts", func(t *testing.T) { testDuplicateEdge(t, open(t)) })
	t.Run("edge needs known users", func(t *testing.T) { testEdgeUnknownUser(t, open(t)) })
	t.Run("edge update applies or leaves unchanged", func(t *testing.T) { testEdgeUpdate(t, open(t)) })
	t.Run("edges listed from both ends", func(t *testing.T) { testListEdges(t, open(t)) })
	t.Run("users create lookup update", func(t *testing.T) { testUsers(t, open(t)) })
}

func seedUser(t *testing.T, s Store, name string) models.User {
	t.Helper()
	user, err := s.CreateUser(context.Background(), models.User{
		ID:           uuid.NewString(),
		Username:     name,
		PasswordHash: "hash",
		Theme:        models.DefaultTheme,
	})
	require.NoError(t, err)
	return user
}

func testAppendOrder(t *testing.T, s Store) {
	req := require.New(t)
	ctx := context.Background()
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")

	contents := []string{"hi", "hello", "how are you", "fine"}
	var appended []models.Message
	for i, content := range contents {
		sender := lo.Ternary(i%2 == 0, alice.ID, bob.ID)
		msg, err := s.Append(ctx, sender, content, nil)
		req.NoError(err)
		req.Equal(sender, msg.SenderID)
		req.Equal(content, msg.Content)
		req.Nil(msg.FileURL)
		if len(appended) > 0 {
			prev := appended[len(appended)-1]
			req.Greater(msg.ID, prev.ID)
			req.False(msg.Timestamp.Before(prev.Timestamp))
		}
		appended = append(appended, msg)
	}

	log, err := s.ListAll(ctx)
	req.NoError(err)
	req.Len(log, len(contents))
	for i, msg := range log {
		req.Equal(appended[i].ID, msg.ID)
		req.Equal(appended[i].Content, msg.Content)
		req.True(appended[i].Timestamp.Equal(msg.Timestamp))
		if i > 0 {
			req.True(log[i-1].Less(msg))
		}
	}
}

func testAppendEmpty(t *testing.T, s Store) {
	req := require.New(t)
	ctx := context.Background()
	alice := seedUser(t, s, "alice")

	_, err := s.Append(ctx, alice.ID, "first", nil)
	req.NoError(err)
	before, err := s.ListAll(ctx)
	req.NoError(err)

	_, err = s.Append(ctx, alice.ID, "", nil)
	req.ErrorIs(err, apperr.ErrValidation)
	_, err = s.Append(ctx, alice.ID, "   ", lo.ToPtr(""))
	req.ErrorIs(err, apperr.ErrValidation)

	after, err := s.ListAll(ctx)
	req.NoError(err)
	req.Len(after, len(before))
}

func testAppendFileOnly(t *testing.T, s Store) {
	req := require.New(t)
	alice := seedUser(t, s, "alice")

	msg, err := s.Append(context.Background(), alice.ID, "", lo.ToPtr("https://files.example/cat.png"))
	req.NoError(err)
	req.Equal("", msg.Content)
	req.NotNil(msg.FileURL)
	req.Equal("https://files.example/cat.png", *msg.FileURL)
}

func testAppendUnknownSender(t *testing.T, s Store) {
	req := require.New(t)
	ctx := context.Background()

	_, err := s.Append(ctx, uuid.NewString(), "hi", nil)
	req.ErrorIs(err, apperr.ErrNotFound)

	log, err := s.ListAll(ctx)
	req.NoError(err)
	req.Empty(log)
}

func testConcurrentAppends(t *testing.T, s Store) {
	req := require.New(t)
	ctx := context.Background()
	alice := seedUser(t, s, "alice")

	const n = 40
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Append(ctx, alice.ID, "ping", nil)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		req.NoError(err)
	}

	log, err := s.ListAll(ctx)
	req.NoError(err)
	req.Len(log, n)
	ids := make(map[int64]struct{}, n)
	for i, msg := range log {
		ids[msg.ID] = struct{}{}
		if i > 0 {
			req.False(msg.Timestamp.Before(log[i-1].Timestamp))
			req.True(log[i-1].Less(msg))
		}
	}
	req.Len(ids, n)
}

func testDuplicateEdge(t *testing.T, s Store) {
	req := require.New(t)
	ctx := context.Background()
	a := seedUser(t, s, "a")
	b := seedUser(t, s, "b")

	edge, err := s.CreateEdge(ctx, a.ID, b.ID, models.FriendPending)
	req.NoError(err)
	req.Equal(models.FriendPending, edge.Status)

	_, err = s.CreateEdge(ctx, a.ID, b.ID, models.FriendPending)
	req.ErrorIs(err, apperr.ErrConflict)

	// The opposite direction is a different ordered pair.
	reverse, err := s.CreateEdge(ctx, b.ID, a.ID, models.FriendPending)
	req.NoError(err)
	req.NotEqual(edge.ID, reverse.ID)

	edges, err := s.ListEdgesFor(ctx, a.ID)
	req.NoError(err)
	req.Len(lo.Filter(edges, func(e models.FriendEdge, _ int) bool {
		return e.UserID == a.ID && e.FriendID == b.ID
	}), 1)
}

func testEdgeUnknownUser(t *testing.T, s Store) {
	req := require.New(t)
	a := seedUser(t, s, "a")

	_, err := s.CreateEdge(context.Background(), a.ID, uuid.NewString(), models.FriendPending)
	req.ErrorIs(err, apperr.ErrNotFound)

	_, err = s.CreateEdge(context.Background(), a.ID, a.ID, models.FriendPending)
	req.ErrorIs(err, apperr.ErrValidation)
}

func testEdgeUpdate(t *testing.T, s Store) {
	req := require.New(t)
	ctx := context.Background()
	a := seedUser(t, s, "a")
	b := seedUser(t, s, "b")
	edge, err := s.CreateEdge(ctx, a.ID, b.ID, models.FriendPending)
	req.NoError(err)

	updated, err := s.UpdateEdgeStatus(ctx, edge.ID, func(current models.FriendEdge) (models.FriendStatus, error) {
		req.Equal(models.FriendPending, current.Status)
		return models.FriendBlocked, nil
	})
	req.NoError(err)
	req.Equal(models.FriendBlocked, updated.Status)

	_, err = s.UpdateEdgeStatus(ctx, edge.ID, func(models.FriendEdge) (models.FriendStatus, error) {
		return "", apperr.InvalidTransition("nope")
	})
	req.ErrorIs(err, apperr.ErrInvalidTransition)

	stored, err := s.GetEdge(ctx, edge.ID)
	req.NoError(err)
	req.Equal(models.FriendBlocked, stored.Status)

	_, err = s.UpdateEdgeStatus(ctx, edge.ID+1000, func(models.FriendEdge) (models.FriendStatus, error) {
		return models.FriendAccepted, nil
	})
	req.ErrorIs(err, apperr.ErrNotFound)
	_, err = s.GetEdge(ctx, edge.ID+1000)
	req.ErrorIs(err, apperr.ErrNotFound)
}

func testListEdges(t *testing.T, s Store) {
	req := require.New(t)
	ctx := context.Background()
	a := seedUser(t, s, "a")
	b := seedUser(t, s, "b")
	c := seedUser(t, s, "c")

	ab, err := s.CreateEdge(ctx, a.ID, b.ID, models.FriendPending)
	req.NoError(err)
	ca, err := s.CreateEdge(ctx, c.ID, a.ID, models.FriendPending)
	req.NoError(err)
	bc, err := s.CreateEdge(ctx, b.ID, c.ID, models.FriendPending)
	req.NoError(err)

	edges, err := s.ListEdgesFor(ctx, a.ID)
	req.NoError(err)
	req.ElementsMatch([]int64{ab.ID, ca.ID}, lo.Map(edges, func(e models.FriendEdge, _ int) int64 { return e.ID }))

	edges, err = s.ListEdgesFor(ctx, c.ID)
	req.NoError(err)
	req.ElementsMatch([]int64{ca.ID, bc.ID}, lo.Map(edges, func(e models.FriendEdge, _ int) int64 { return e.ID }))

	edges, err = s.ListEdgesFor(ctx, uuid.NewString())
	req.NoError(err)
	req.Empty(edges)
}

func testUsers(t *testing.T, s Store) {
	req := require.New(t)
	ctx := context.Background()
	alice := seedUser(t, s, "alice")
	seedUser(t, s, "bob")

	_, err := s.CreateUser(ctx, models.User{ID: uuid.NewString(), Username: "alice", PasswordHash: "x", Theme: "dark"})
	req.ErrorIs(err, apperr.ErrConflict)

	found, err := s.GetUserByUsername(ctx, "alice")
	req.NoError(err)
	req.Equal(alice.ID, found.ID)

	ok, err := s.UserExists(ctx, alice.ID)
	req.NoError(err)
	req.True(ok)
	ok, err = s.UserExists(ctx, uuid.NewString())
	req.NoError(err)
	req.False(ok)

	updated, err := s.UpdateUser(ctx, alice.ID, models.UserUpdate{
		Username: lo.ToPtr("alicia"),
		Theme:    lo.ToPtr(models.ThemeLight),
	})
	req.NoError(err)
	req.Equal("alicia", updated.Username)
	req.Equal(models.ThemeLight, updated.Theme)
	req.Equal("hash", updated.PasswordHash)

	_, err = s.GetUserByUsername(ctx, "alice")
	req.ErrorIs(err, apperr.ErrNotFound)
	_, err = s.UpdateUser(ctx, alice.ID, models.UserUpdate{Username: lo.ToPtr("bob")})
	req.ErrorIs(err, apperr.ErrConflict)
	_, err = s.UpdateUser(ctx, uuid.NewString(), models.UserUpdate{Theme: lo.ToPtr("dark")})
	req.ErrorIs(err, apperr.ErrNotFound)
	_, err = s.GetUser(ctx, uuid.NewString())
	req.ErrorIs(err, apperr.ErrNotFound)

	// Messages keep only the sender id, so a profile change never rewrites them.
	msg, err := s.Append(ctx, alice.ID, "still me", nil)
	req.NoError(err)
	req.Equal(alice.ID, msg.SenderID)
}

func TestMemoryStore(t *testing.T) {
	runContract(t, func(t *testing.T) Store { return NewMemoryStore() })
}

func TestBadgerStore(t *testing.T) {
	runContract(t, func(t *testing.T) Store {
		s, err := OpenBadgerStore(t.TempDir())
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestPostgresStore(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	runContract(t, func(t *testing.T) Store {
		return openPostgresForTest(t, url)
	})
}

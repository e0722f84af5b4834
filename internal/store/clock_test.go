package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// backwardsClock returns each of the given instants in turn.
func backwardsClock(instants ...time.Time) func() time.Time {
	i := 0
	return func() time.Time {
		t := instants[i%len(instants)]
		i++
		return t
	}
}

func TestMemoryStore_ClampsTimestamp(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	s := NewMemoryStore()
	alice := seedUser(t, s, "alice")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = backwardsClock(base, base.Add(-time.Minute))

	first, err := s.Append(ctx, alice.ID, "one", nil)
	req.NoError(err)
	second, err := s.Append(ctx, alice.ID, "two", nil)
	req.NoError(err)

	req.True(second.Timestamp.Equal(first.Timestamp))
	req.Greater(second.ID, first.ID)
}

func TestBadgerStore_ClampsTimestampAcrossReopen(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	dir := t.TempDir()

	s, err := OpenBadgerStore(dir)
	req.NoError(err)
	alice := seedUser(t, s, "alice")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }
	first, err := s.Append(ctx, alice.ID, "before restart", nil)
	req.NoError(err)
	req.NoError(s.Close())

	s, err = OpenBadgerStore(dir)
	req.NoError(err)
	defer s.Close()

	// The clock went back while the process was down.
	s.now = func() time.Time { return base.Add(-time.Hour) }
	second, err := s.Append(ctx, alice.ID, "after restart", nil)
	req.NoError(err)
	req.False(second.Timestamp.Before(first.Timestamp))
	req.Greater(second.ID, first.ID)

	log, err := s.ListAll(ctx)
	req.NoError(err)
	req.Len(log, 2)
	req.Equal("before restart", log[0].Content)
	req.Equal("after restart", log[1].Content)

	user, err := s.GetUser(ctx, alice.ID)
	req.NoError(err)
	req.Equal("alice", user.Username)
}

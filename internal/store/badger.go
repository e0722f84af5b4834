package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"relaychat/server/internal/apperr"
	"relaychat/server/internal/logger"
	"relaychat/server/internal/models"
)

// Key layout:
//
//	user:{id}                       -> userRecord
//	username:{name}                 -> user id
//	msg:{unixnano:019}:{id:019}     -> messageRecord
//	edge:{id:019}                   -> edgeRecord
//	friendpair:{user}\x00{friend}   -> edge id
//	edgeof:{user}\x00{id:019}       -> empty, one per party
//
// The zero padding makes lexicographic key order equal (timestamp, id)
// order, so a prefix scan replays the log.
const (
	prefixUser     = "user:"
	prefixUsername = "username:"
	prefixMessage  = "msg:"
	prefixEdge     = "edge:"
	prefixPair     = "friendpair:"
	prefixEdgeOf   = "edgeof:"

	seqMessages  = "seq:messages"
	seqEdges     = "seq:edges"
	seqBandwidth = 64
)

// BadgerStore implements Store on an embedded badger database.
type BadgerStore struct {
	db *badger.DB

	// Writes go through one writer so id allocation, the timestamp clamp
	// and uniqueness checks never interleave.
	writeMu   sync.Mutex
	msgSeq    *badger.Sequence
	edgeSeq   *badger.Sequence
	lastStamp int64
	now       func() time.Time
}

// OpenBadgerStore opens (or creates) a database under path.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(badgerLogger{logger.L().With().Str("component", "badger").Logger()})
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %s: %w", path, err)
	}
	return newBadgerStore(db)
}

func newBadgerStore(db *badger.DB) (*BadgerStore, error) {
	msgSeq, err := db.GetSequence([]byte(seqMessages), seqBandwidth)
	if err != nil {
		return nil, err
	}
	edgeSeq, err := db.GetSequence([]byte(seqEdges), seqBandwidth)
	if err != nil {
		_ = msgSeq.Release()
		return nil, err
	}

	s := &BadgerStore{
		db:      db,
		msgSeq:  msgSeq,
		edgeSeq: edgeSeq,
		now:     func() time.Time { return time.Now().UTC() },
	}
	if s.lastStamp, err = s.loadLastStamp(); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// loadLastStamp finds the newest message timestamp with a reverse scan.
func (s *BadgerStore) loadLastStamp() (int64, error) {
	var last int64
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		it.Seek([]byte(prefixMessage + "\xff"))
		if !it.ValidForPrefix([]byte(prefixMessage)) {
			return nil
		}
		stamp, err := parseMessageStamp(it.Item().Key())
		if err != nil {
			return err
		}
		last = stamp
		return nil
	})
	return last, err
}

func userKey(id string) []byte        { return []byte(prefixUser + id) }
func usernameKey(name string) []byte  { return []byte(prefixUsername + name) }
func edgeKey(id int64) []byte         { return []byte(fmt.Sprintf("%s%019d", prefixEdge, id)) }
func pairKey(from, to string) []byte  { return []byte(prefixPair + from + "\x00" + to) }
func edgeOfPrefix(user string) []byte { return []byte(prefixEdgeOf + user + "\x00") }
func edgeOfKey(user string, id int64) []byte {
	return append(edgeOfPrefix(user), []byte(fmt.Sprintf("%019d", id))...)
}
func messageKey(stamp, id int64) []byte {
	return []byte(fmt.Sprintf("%s%019d:%019d", prefixMessage, stamp, id))
}

func parseMessageStamp(key []byte) (int64, error) {
	rest := strings.TrimPrefix(string(key), prefixMessage)
	stamp, _, ok := strings.Cut(rest, ":")
	if !ok {
		return 0, fmt.Errorf("malformed message key %q", key)
	}
	return strconv.ParseInt(stamp, 10, 64)
}

// nextID draws from a badger sequence, skipping the initial zero.
func nextID(seq *badger.Sequence) (int64, error) {
	for {
		n, err := seq.Next()
		if err != nil {
			return 0, err
		}
		if n > 0 {
			return int64(n), nil
		}
	}
}

func getRecord(txn *badger.Txn, key []byte, v any) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return decode(val, v)
	})
}

func setRecord(txn *badger.Txn, key []byte, v any) error {
	data, err := encode(v)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}

func exists(txn *badger.Txn, key []byte) (bool, error) {
	_, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	return err == nil, err
}

// classify turns a badger fault into a storage error. Errors already
// classified pass through.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperr.StorageUnavailable(err)
}

func toUser(r userRecord) models.User {
	return models.User{
		ID:           r.ID,
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		Avatar:       r.Avatar,
		FileURL:      r.FileURL,
		Theme:        r.Theme,
		CreatedAt:    time.Unix(0, r.CreatedAt).UTC(),
		UpdatedAt:    time.Unix(0, r.UpdatedAt).UTC(),
	}
}

func fromUser(u models.User) userRecord {
	return userRecord{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Avatar:       u.Avatar,
		FileURL:      u.FileURL,
		Theme:        u.Theme,
		CreatedAt:    u.CreatedAt.UnixNano(),
		UpdatedAt:    u.UpdatedAt.UnixNano(),
	}
}

func toEdge(r edgeRecord) models.FriendEdge {
	return models.FriendEdge{ID: r.ID, UserID: r.UserID, FriendID: r.FriendID, Status: models.FriendStatus(r.Status)}
}

func (s *BadgerStore) CreateUser(_ context.Context, user models.User) (models.User, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	now := s.now()
	user.CreatedAt, user.UpdatedAt = now, now
	err := s.db.Update(func(txn *badger.Txn) error {
		taken, err := exists(txn, usernameKey(user.Username))
		if err != nil {
			return err
		}
		if taken {
			return usernameTaken(user.Username)
		}
		if err := setRecord(txn, userKey(user.ID), fromUser(user)); err != nil {
			return err
		}
		return txn.Set(usernameKey(user.Username), []byte(user.ID))
	})
	if err != nil {
		return models.User{}, classify(err)
	}
	// Round-trip through the record so callers see stored precision.
	return toUser(fromUser(user)), nil
}

func (s *BadgerStore) GetUser(_ context.Context, id string) (models.User, error) {
	var rec userRecord
	err := s.db.View(func(txn *badger.Txn) error {
		return getRecord(txn, userKey(id), &rec)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return models.User{}, userNotFound(id)
	}
	if err != nil {
		return models.User{}, classify(err)
	}
	return toUser(rec), nil
}

func (s *BadgerStore) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	var id string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(usernameKey(username))
		if err != nil {
			return err
		}
		val, err := item.ValueCopy(nil)
		id = string(val)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return models.User{}, userNotFound(username)
	}
	if err != nil {
		return models.User{}, classify(err)
	}
	return s.GetUser(ctx, id)
}

func (s *BadgerStore) UpdateUser(_ context.Context, id string, update models.UserUpdate) (models.User, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var user models.User
	err := s.db.Update(func(txn *badger.Txn) error {
		var rec userRecord
		if err := getRecord(txn, userKey(id), &rec); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return userNotFound(id)
			}
			return err
		}
		user = toUser(rec)
		oldName := user.Username

		update.Apply(&user)
		user.UpdatedAt = s.now()

		if user.Username != oldName {
			taken, err := exists(txn, usernameKey(user.Username))
			if err != nil {
				return err
			}
			if taken {
				return usernameTaken(user.Username)
			}
			if err := txn.Delete(usernameKey(oldName)); err != nil {
				return err
			}
			if err := txn.Set(usernameKey(user.Username), []byte(id)); err != nil {
				return err
			}
		}
		return setRecord(txn, userKey(id), fromUser(user))
	})
	if err != nil {
		return models.User{}, classify(err)
	}
	return toUser(fromUser(user)), nil
}

func (s *BadgerStore) UserExists(_ context.Context, id string) (bool, error) {
	var found bool
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		found, err = exists(txn, userKey(id))
		return err
	})
	return found, classify(err)
}

func (s *BadgerStore) Append(_ context.Context, senderID, content string, fileURL *string) (models.Message, error) {
	draft, err := prepareAppend(senderID, content, fileURL)
	if err != nil {
		return models.Message{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var rec messageRecord
	err = s.db.Update(func(txn *badger.Txn) error {
		found, err := exists(txn, userKey(draft.SenderID))
		if err != nil {
			return err
		}
		if !found {
			return userNotFound(draft.SenderID)
		}

		id, err := nextID(s.msgSeq)
		if err != nil {
			return err
		}
		stamp := s.now().UnixNano()
		if stamp < s.lastStamp {
			stamp = s.lastStamp
		}

		rec = messageRecord{
			ID:        id,
			SenderID:  draft.SenderID,
			Content:   draft.Content,
			FileURL:   draft.FileURL,
			Timestamp: stamp,
		}
		return setRecord(txn, messageKey(stamp, id), rec)
	})
	if err != nil {
		return models.Message{}, classify(err)
	}
	s.lastStamp = rec.Timestamp

	return models.Message{
		ID:        rec.ID,
		SenderID:  rec.SenderID,
		Content:   rec.Content,
		FileURL:   rec.FileURL,
		Timestamp: time.Unix(0, rec.Timestamp).UTC(),
	}, nil
}

func (s *BadgerStore) ListAll(_ context.Context) ([]models.Message, error) {
	messages := []models.Message{}
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(prefixMessage)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec messageRecord
			if err := it.Item().Value(func(val []byte) error {
				return decode(val, &rec)
			}); err != nil {
				return err
			}
			messages = append(messages, models.Message{
				ID:        rec.ID,
				SenderID:  rec.SenderID,
				Content:   rec.Content,
				FileURL:   rec.FileURL,
				Timestamp: time.Unix(0, rec.Timestamp).UTC(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}
	return messages, nil
}

func (s *BadgerStore) CreateEdge(_ context.Context, userID, friendID string, status models.FriendStatus) (models.FriendEdge, error) {
	if err := prepareEdge(userID, friendID, status); err != nil {
		return models.FriendEdge{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var rec edgeRecord
	err := s.db.Update(func(txn *badger.Txn) error {
		for _, id := range []string{userID, friendID} {
			found, err := exists(txn, userKey(id))
			if err != nil {
				return err
			}
			if !found {
				return userNotFound(id)
			}
		}
		dup, err := exists(txn, pairKey(userID, friendID))
		if err != nil {
			return err
		}
		if dup {
			return edgeExists(userID, friendID)
		}

		id, err := nextID(s.edgeSeq)
		if err != nil {
			return err
		}
		rec = edgeRecord{ID: id, UserID: userID, FriendID: friendID, Status: string(status)}
		if err := setRecord(txn, edgeKey(id), rec); err != nil {
			return err
		}
		if err := txn.Set(pairKey(userID, friendID), []byte(strconv.FormatInt(id, 10))); err != nil {
			return err
		}
		if err := txn.Set(edgeOfKey(userID, id), nil); err != nil {
			return err
		}
		return txn.Set(edgeOfKey(friendID, id), nil)
	})
	if err != nil {
		return models.FriendEdge{}, classify(err)
	}
	return toEdge(rec), nil
}

func (s *BadgerStore) GetEdge(_ context.Context, id int64) (models.FriendEdge, error) {
	var rec edgeRecord
	err := s.db.View(func(txn *badger.Txn) error {
		return getRecord(txn, edgeKey(id), &rec)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return models.FriendEdge{}, edgeNotFound(id)
	}
	if err != nil {
		return models.FriendEdge{}, classify(err)
	}
	return toEdge(rec), nil
}

func (s *BadgerStore) UpdateEdgeStatus(_ context.Context, id int64, update EdgeUpdate) (models.FriendEdge, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var rec edgeRecord
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := getRecord(txn, edgeKey(id), &rec); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return edgeNotFound(id)
			}
			return err
		}
		next, err := update(toEdge(rec))
		if err != nil {
			return err
		}
		rec.Status = string(next)
		return setRecord(txn, edgeKey(id), rec)
	})
	if err != nil {
		return models.FriendEdge{}, classify(err)
	}
	return toEdge(rec), nil
}

func (s *BadgerStore) ListEdgesFor(_ context.Context, userID string) ([]models.FriendEdge, error) {
	edges := []models.FriendEdge{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := edgeOfPrefix(userID)
		var ids []int64
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			id, err := strconv.ParseInt(string(it.Item().Key()[len(prefix):]), 10, 64)
			if err != nil {
				return fmt.Errorf("malformed edge index key %q: %w", it.Item().Key(), err)
			}
			ids = append(ids, id)
		}

		for _, id := range ids {
			var rec edgeRecord
			if err := getRecord(txn, edgeKey(id), &rec); err != nil {
				return err
			}
			edges = append(edges, toEdge(rec))
		}
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}
	return edges, nil
}

// Close releases the id sequences and closes the database.
func (s *BadgerStore) Close() error {
	return errors.Join(s.msgSeq.Release(), s.edgeSeq.Release(), s.db.Close())
}

// badgerLogger routes badger's internal logging through zerolog.
type badgerLogger struct {
	log zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...any)   { l.log.Error().Msgf(format, args...) }
func (l badgerLogger) Warningf(format string, args ...any) { l.log.Warn().Msgf(format, args...) }
func (l badgerLogger) Infof(format string, args ...any)    { l.log.Debug().Msgf(format, args...) }
func (l badgerLogger) Debugf(format string, args ...any)   { l.log.Trace().Msgf(format, args...) }

var _ Store = (*BadgerStore)(nil)

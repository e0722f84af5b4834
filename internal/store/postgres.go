package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"relaychat/server/internal/apperr"
	"relaychat/server/internal/models"
)

// appendLockKey serialises appends so the log timestamp never goes back.
const appendLockKey int64 = 0x6d7367 // "msg"

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

const userColumns = `id, username, password_hash, avatar, file_url, theme, created_at, updated_at`

// PostgresStore implements Store on a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an open pool. The pool is closed by Close.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// translate classifies a pgx error. Errors already classified pass through.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("record not found")
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperr.Conflict("record already exists")
		case pgForeignKeyViolation:
			return apperr.NotFound("referenced user not found")
		case pgCheckViolation:
			return apperr.Validation("record rejected by constraint %s", pgErr.ConstraintName)
		}
	}
	return apperr.StorageUnavailable(err)
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Avatar,
		&user.FileURL, &user.Theme, &user.CreatedAt, &user.UpdatedAt)
	return user, err
}

func (s *PostgresStore) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	now := time.Now().UTC()
	created, err := scanUser(s.pool.QueryRow(ctx, `
		INSERT INTO users (id, username, password_hash, avatar, file_url, theme, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING `+userColumns,
		user.ID, user.Username, user.PasswordHash, user.Avatar, user.FileURL, user.Theme, now))
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, usernameTaken(user.Username)
		}
		return models.User{}, translate(err)
	}
	return created, nil
}

func (s *PostgresStore) GetUser(ctx context.Context, id string) (models.User, error) {
	user, err := scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, userNotFound(id)
	}
	return user, translate(err)
}

func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	user, err := scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, userNotFound(username)
	}
	return user, translate(err)
}

func (s *PostgresStore) UpdateUser(ctx context.Context, id string, update models.UserUpdate) (models.User, error) {
	user, err := scanUser(s.pool.QueryRow(ctx, `
		UPDATE users SET
			username   = COALESCE($2, username),
			avatar     = COALESCE($3, avatar),
			file_url   = COALESCE($4, file_url),
			theme      = COALESCE($5, theme),
			updated_at = $6
		WHERE id = $1
		RETURNING `+userColumns,
		id, update.Username, update.Avatar, update.FileURL, update.Theme, time.Now().UTC()))
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return models.User{}, userNotFound(id)
	case isUniqueViolation(err):
		return models.User{}, usernameTaken(*update.Username)
	}
	return user, translate(err)
}

func (s *PostgresStore) UserExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	return exists, translate(err)
}

func (s *PostgresStore) Append(ctx context.Context, senderID, content string, fileURL *string) (models.Message, error) {
	draft, err := prepareAppend(senderID, content, fileURL)
	if err != nil {
		return models.Message{}, err
	}

	var msg models.Message
	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, appendLockKey); err != nil {
			return err
		}

		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, draft.SenderID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return userNotFound(draft.SenderID)
		}

		// The new timestamp is clamped to the newest one in the log.
		return tx.QueryRow(ctx, `
			INSERT INTO messages (sender_id, content, file_url, sent_at)
			SELECT $1::text, $2::text, $3::text,
			       GREATEST(clock_timestamp(), COALESCE(MAX(sent_at), '-infinity'::timestamptz))
			FROM messages
			RETURNING id, sender_id, content, file_url, sent_at
		`, draft.SenderID, draft.Content, draft.FileURL).
			Scan(&msg.ID, &msg.SenderID, &msg.Content, &msg.FileURL, &msg.Timestamp)
	})
	if err != nil {
		return models.Message{}, translate(err)
	}
	return msg, nil
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]models.Message, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, sender_id, content, file_url, sent_at
		FROM messages
		ORDER BY sent_at ASC, id ASC
	`)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(&msg.ID, &msg.SenderID, &msg.Content, &msg.FileURL, &msg.Timestamp); err != nil {
			return nil, translate(err)
		}
		messages = append(messages, msg)
	}
	return messages, translate(rows.Err())
}

func scanEdge(row pgx.Row) (models.FriendEdge, error) {
	var edge models.FriendEdge
	var status string
	if err := row.Scan(&edge.ID, &edge.UserID, &edge.FriendID, &status); err != nil {
		return models.FriendEdge{}, err
	}
	edge.Status = models.FriendStatus(status)
	return edge, nil
}

func (s *PostgresStore) CreateEdge(ctx context.Context, userID, friendID string, status models.FriendStatus) (models.FriendEdge, error) {
	if err := prepareEdge(userID, friendID, status); err != nil {
		return models.FriendEdge{}, err
	}

	edge, err := scanEdge(s.pool.QueryRow(ctx, `
		INSERT INTO friends (user_id, friend_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, friend_id, status
	`, userID, friendID, string(status)))
	if err != nil {
		if isUniqueViolation(err) {
			return models.FriendEdge{}, edgeExists(userID, friendID)
		}
		return models.FriendEdge{}, translate(err)
	}
	return edge, nil
}

func (s *PostgresStore) GetEdge(ctx context.Context, id int64) (models.FriendEdge, error) {
	edge, err := scanEdge(s.pool.QueryRow(ctx, `
		SELECT id, user_id, friend_id, status FROM friends WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.FriendEdge{}, edgeNotFound(id)
	}
	return edge, translate(err)
}

func (s *PostgresStore) UpdateEdgeStatus(ctx context.Context, id int64, update EdgeUpdate) (models.FriendEdge, error) {
	var edge models.FriendEdge
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		current, err := scanEdge(tx.QueryRow(ctx, `
			SELECT id, user_id, friend_id, status FROM friends WHERE id = $1 FOR UPDATE
		`, id))
		if errors.Is(err, pgx.ErrNoRows) {
			return edgeNotFound(id)
		}
		if err != nil {
			return err
		}

		next, err := update(current)
		if err != nil {
			return err
		}

		edge, err = scanEdge(tx.QueryRow(ctx, `
			UPDATE friends SET status = $2 WHERE id = $1
			RETURNING id, user_id, friend_id, status
		`, id, string(next)))
		return err
	})
	if err != nil {
		return models.FriendEdge{}, translate(err)
	}
	return edge, nil
}

func (s *PostgresStore) ListEdgesFor(ctx context.Context, userID string) ([]models.FriendEdge, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, friend_id, status
		FROM friends
		WHERE user_id = $1 OR friend_id = $1
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	edges := []models.FriendEdge{}
	for rows.Next() {
		edge, err := scanEdge(rows)
		if err != nil {
			return nil, translate(err)
		}
		edges = append(edges, edge)
	}
	return edges, translate(rows.Err())
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

var _ Store = (*PostgresStore)(nil)

//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=../mocks/mock_store.go -package=mocks -exclude_interfaces=Store

// Package store holds the durable records of the service: users, the
// append-only message log and the directed friend edges. Every driver
// implements the same contract; errors are classified with apperr.
package store

import (
	"context"
	"strings"

	"relaychat/server/internal/apperr"
	"relaychat/server/internal/models"
)

// UserStore is the identity collaborator the core relies on.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	GetUser(ctx context.Context, id string) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	UpdateUser(ctx context.Context, id string, update models.UserUpdate) (models.User, error)
	UserExists(ctx context.Context, id string) (bool, error)
}

// MessageStore is the durable, append-only message log.
//
// Append assigns the id and the timestamp. Ids grow monotonically and
// timestamps never decrease across the log. ListAll replays the full log
// ordered by (timestamp, id).
type MessageStore interface {
	Append(ctx context.Context, senderID, content string, fileURL *string) (models.Message, error)
	ListAll(ctx context.Context) ([]models.Message, error)
}

// EdgeUpdate receives the current edge and returns its next status. An
// error leaves the edge unchanged.
type EdgeUpdate func(current models.FriendEdge) (models.FriendStatus, error)

// FriendStore persists directed friend edges. At most one edge exists per
// ordered (userID, friendID) pair and edges are never removed.
type FriendStore interface {
	CreateEdge(ctx context.Context, userID, friendID string, status models.FriendStatus) (models.FriendEdge, error)
	GetEdge(ctx context.Context, id int64) (models.FriendEdge, error)
	UpdateEdgeStatus(ctx context.Context, id int64, update EdgeUpdate) (models.FriendEdge, error)
	ListEdgesFor(ctx context.Context, userID string) ([]models.FriendEdge, error)
}

// Store bundles every aggregate behind one driver.
type Store interface {
	UserStore
	MessageStore
	FriendStore
	Close() error
}

// prepareAppend validates a message before anything is written.
func prepareAppend(senderID, content string, fileURL *string) (models.MessageDraft, error) {
	if strings.TrimSpace(senderID) == "" {
		return models.MessageDraft{}, apperr.Validation("sender is required")
	}
	draft := models.MessageDraft{SenderID: senderID, Content: content, FileURL: fileURL}.Normalize()
	if !draft.HasBody() {
		return models.MessageDraft{}, apperr.Validation("message needs content or a file")
	}
	if draft.ContentTooLong() {
		return models.MessageDraft{}, apperr.Validation("content exceeds %d characters", models.MaxContentLength)
	}
	return draft, nil
}

// prepareEdge validates a new edge before anything is written.
func prepareEdge(userID, friendID string, status models.FriendStatus) error {
	if userID == "" || friendID == "" {
		return apperr.Validation("both users are required")
	}
	if userID == friendID {
		return apperr.Validation("cannot befriend yourself")
	}
	if !status.Valid() {
		return apperr.Validation("unknown status %q", status)
	}
	return nil
}

func userNotFound(id string) error {
	return apperr.NotFound("user %s not found", id)
}

func edgeNotFound(id int64) error {
	return apperr.NotFound("friend edge %d not found", id)
}

func edgeExists(userID, friendID string) error {
	return apperr.Conflict("relationship from %s to %s already exists", userID, friendID)
}

func usernameTaken(username string) error {
	return apperr.Conflict("username %q is already taken", username)
}

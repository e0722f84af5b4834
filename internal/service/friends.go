package service

import (
	"context"
	"strings"

	"relaychat/server/internal/apperr"
	"relaychat/server/internal/logger"
	"relaychat/server/internal/models"
	"relaychat/server/internal/store"
)

// FriendGraph manages directed relationship edges.
type FriendGraph struct {
	store        store.FriendStore
	requireParty bool
}

// NewFriendGraph creates a friend graph. With requireParty set, only the
// two ends of an edge may change its status.
func NewFriendGraph(s store.FriendStore, requireParty bool) *FriendGraph {
	return &FriendGraph{store: s, requireParty: requireParty}
}

// Request creates a pending edge from userID to friendID.
func (g *FriendGraph) Request(ctx context.Context, userID, friendID string) (models.FriendEdge, error) {
	userID, friendID = strings.TrimSpace(userID), strings.TrimSpace(friendID)
	if userID == "" || friendID == "" {
		return models.FriendEdge{}, apperr.Validation("userId and friendId are required")
	}
	if userID == friendID {
		return models.FriendEdge{}, apperr.Validation("cannot befriend yourself")
	}

	edge, err := g.store.CreateEdge(ctx, userID, friendID, models.FriendPending)
	if err != nil {
		return models.FriendEdge{}, err
	}
	l := logger.Ctx(ctx)
	l.Info().
		Int64(logger.FieldEdgeID, edge.ID).
		Str("friend_id", friendID).
		Msg("friend request created")
	return edge, nil
}

// SetStatus moves an edge to status following the transition table. A
// rejected change leaves the edge untouched.
func (g *FriendGraph) SetStatus(ctx context.Context, edgeID int64, status models.FriendStatus) (models.FriendEdge, error) {
	return g.setStatus(ctx, "", edgeID, status)
}

// SetStatusAs is SetStatus on behalf of callerID. The caller is checked
// against the edge's parties only when the graph requires it.
func (g *FriendGraph) SetStatusAs(ctx context.Context, callerID string, edgeID int64, status models.FriendStatus) (models.FriendEdge, error) {
	return g.setStatus(ctx, callerID, edgeID, status)
}

func (g *FriendGraph) setStatus(ctx context.Context, callerID string, edgeID int64, status models.FriendStatus) (models.FriendEdge, error) {
	if !status.Valid() {
		return models.FriendEdge{}, apperr.Validation("unknown status %q", status)
	}
	checkParty := g.requireParty && callerID != ""

	edge, err := g.store.UpdateEdgeStatus(ctx, edgeID, func(current models.FriendEdge) (models.FriendStatus, error) {
		if checkParty && !current.Involves(callerID) {
			return "", apperr.Forbidden("only the two users of an edge may change it")
		}
		if !current.Status.CanTransitionTo(status) {
			return "", apperr.InvalidTransition("cannot move edge from %s to %s", current.Status, status)
		}
		return status, nil
	})
	if err != nil {
		return models.FriendEdge{}, err
	}

	l := logger.Ctx(ctx)
	l.Info().
		Int64(logger.FieldEdgeID, edge.ID).
		Str("status", string(edge.Status)).
		Msg("friend status changed")
	return edge, nil
}

// ListFor returns every edge with userID at either end.
func (g *FriendGraph) ListFor(ctx context.Context, userID string) ([]models.FriendEdge, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperr.Validation("userId is required")
	}
	return g.store.ListEdgesFor(ctx, userID)
}

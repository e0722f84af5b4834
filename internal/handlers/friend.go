package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"relaychat/server/internal/apperr"
	"relaychat/server/internal/middleware"
	"relaychat/server/internal/models"
)

// AddFriendRequest represents a friend request body. Status may be omitted;
// when given it must be pending.
type AddFriendRequest struct {
	FriendID string `json:"friendId" validate:"required"`
	Status   string `json:"status" validate:"omitempty,eq=pending"`
}

// UpdateFriendRequest represents a status change body
type UpdateFriendRequest struct {
	Status string `json:"status" validate:"required"`
}

// AddFriend creates a pending edge from the caller to friendId
func (h *Handler) AddFriend(c *fiber.Ctx) error {
	var req AddFriendRequest
	if err := h.bind(c, &req); err != nil {
		return fail(c, err)
	}

	edge, err := h.friends.Request(c.UserContext(), middleware.GetUserID(c), req.FriendID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusCreated, edge)
}

// GetFriends lists every edge touching the caller
func (h *Handler) GetFriends(c *fiber.Ctx) error {
	edges, err := h.friends.ListFor(c.UserContext(), middleware.GetUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, edges)
}

// UpdateFriendStatus moves an edge to a new status
func (h *Handler) UpdateFriendStatus(c *fiber.Ctx) error {
	edgeID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || edgeID <= 0 {
		return fail(c, apperr.Validation("Invalid friend id"))
	}

	var req UpdateFriendRequest
	if err := h.bind(c, &req); err != nil {
		return fail(c, err)
	}

	edge, err := h.friends.SetStatusAs(c.UserContext(), middleware.GetUserID(c), edgeID, models.FriendStatus(req.Status))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, edge)
}

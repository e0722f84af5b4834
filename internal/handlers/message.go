package handlers

import (
	"github.com/gofiber/fiber/v2"

	"relaychat/server/internal/middleware"
)

// SendMessageRequest represents send message request body
type SendMessageRequest struct {
	Content string  `json:"content"`
	FileURL *string `json:"fileUrl"`
}

// SendMessage appends a message to the global log
func (h *Handler) SendMessage(c *fiber.Ctx) error {
	var req SendMessageRequest
	if err := h.bind(c, &req); err != nil {
		return fail(c, err)
	}

	msg, err := h.chat.Send(c.UserContext(), middleware.GetUserID(c), req.Content, req.FileURL)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusCreated, msg)
}

// GetMessages returns the full log, oldest first
func (h *Handler) GetMessages(c *fiber.Ctx) error {
	messages, err := h.chat.List(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, messages)
}

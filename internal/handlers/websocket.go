package handlers

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"relaychat/server/internal/middleware"
	ws "relaychat/server/internal/websocket"
)

// WebSocketUpgrade checks if the request should be upgraded to WebSocket
func (h *Handler) WebSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}

	return c.Status(fiber.StatusUpgradeRequired).JSON(fiber.Map{
		"success": false,
		"error":   "WebSocket upgrade required",
		"code":    "UPGRADE_REQUIRED",
	})
}

// WebSocketHandler runs one live channel until it closes. The principal
// was authenticated on the upgrade request.
func (h *Handler) WebSocketHandler(c *websocket.Conn) {
	principal, _ := c.Locals(middleware.LocalUserID).(string)

	client := ws.NewClient(principal, c, h.registry, h.router, h.wsOptions)
	client.Run()
}

// GetWebSocketStats returns live connection statistics
func (h *Handler) GetWebSocketStats(c *fiber.Ctx) error {
	return ok(c, fiber.StatusOK, fiber.Map{
		"connections": h.registry.Count(),
		"onlineUsers": len(h.registry.Users()),
		"userIds":     h.registry.Users(),
	})
}

// Health reports that the process is serving
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"message": "Relaychat API is running",
	})
}

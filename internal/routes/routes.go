package routes

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"relaychat/server/internal/handlers"
	"relaychat/server/internal/middleware"
	"relaychat/server/internal/utils"
)

// Options toggles optional route middleware.
type Options struct {
	// RateLimit enables the per-user/IP limiters.
	RateLimit bool
}

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App, h *handlers.Handler, tokens *utils.TokenManager, opts Options) {
	limit := func(l func() fiber.Handler) fiber.Handler {
		if !opts.RateLimit {
			return func(c *fiber.Ctx) error { return c.Next() }
		}
		return l()
	}
	auth := middleware.Auth(tokens)

	api := app.Group("/api")

	// Health check (public)
	api.Get("/health", h.Health)

	// Auth routes (public)
	api.Post("/register", limit(middleware.StrictRateLimiter), h.Register)
	api.Post("/login", limit(middleware.StrictRateLimiter), h.Login)
	api.Post("/refresh", limit(middleware.StrictRateLimiter), h.RefreshToken)
	api.Post("/logout", auth, h.Logout)

	// Profile routes (protected)
	api.Get("/user", auth, h.GetMe)
	api.Patch("/user", auth, limit(middleware.ModerateRateLimiter), h.UpdateProfile)

	// Message routes (protected)
	messages := api.Group("/messages", auth)
	messages.Get("/", limit(middleware.RelaxedRateLimiter), h.GetMessages)
	messages.Post("/", limit(middleware.ModerateRateLimiter), h.SendMessage)

	// Friend routes (protected)
	friends := api.Group("/friends", auth)
	friends.Get("/", limit(middleware.RelaxedRateLimiter), h.GetFriends)
	friends.Post("/", limit(middleware.ModerateRateLimiter), h.AddFriend)
	friends.Patch("/:id", limit(middleware.ModerateRateLimiter), h.UpdateFriendStatus)

	// WebSocket route (protected)
	api.Get("/ws", auth, h.WebSocketUpgrade, websocket.New(h.WebSocketHandler))

	// WebSocket stats (protected, for debugging)
	api.Get("/ws/stats", auth, h.GetWebSocketStats)
}

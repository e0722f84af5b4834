package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"relaychat/server/internal/logger"
	"relaychat/server/internal/utils"
)

// Context keys set by Auth.
const (
	LocalUserID   = "userID"
	LocalUsername = "username"
)

// AccessCookie names the cookie carrying the access token.
const AccessCookie = "token"

// TokenVerifier checks an access token and returns its claims.
type TokenVerifier interface {
	ValidateToken(tokenString, tokenType string) (*utils.Claims, error)
}

// Auth validates the JWT access token from the cookie or a Bearer header
// and stores the principal in the request context.
func Auth(tokens TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := extractToken(c)
		if tokenString == "" {
			return unauthorized(c, "Unauthorized - No token provided")
		}

		claims, err := tokens.ValidateToken(tokenString, utils.TokenAccess)
		if err != nil {
			l := logger.Ctx(c.UserContext())
			l.Debug().Err(err).Msg("rejected access token")
			return unauthorized(c, "Unauthorized - Invalid token")
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalUsername, claims.Username)

		l := logger.Ctx(c.UserContext()).With().Str(logger.FieldUserID, claims.UserID).Logger()
		c.SetUserContext(logger.WithLogger(c.UserContext(), l))

		return c.Next()
	}
}

func extractToken(c *fiber.Ctx) string {
	if token := c.Cookies(AccessCookie); token != "" {
		return token
	}
	header := c.Get(fiber.HeaderAuthorization)
	if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return ""
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"error":   msg,
		"code":    "UNAUTHENTICATED",
	})
}

// GetUserID gets user ID from context
func GetUserID(c *fiber.Ctx) string {
	userID, ok := c.Locals(LocalUserID).(string)
	if !ok {
		return ""
	}
	return userID
}

// GetUsername gets the username from context
func GetUsername(c *fiber.Ctx) string {
	username, ok := c.Locals(LocalUsername).(string)
	if !ok {
		return ""
	}
	return username
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"relaychat/server/internal/apperr"
	"relaychat/server/internal/logger"
	"relaychat/server/internal/middleware"
	"relaychat/server/internal/models"
	"relaychat/server/internal/utils"
)

const refreshCookie = "refresh_token"

// RegisterRequest represents registration request body
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest represents login request body
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest represents a partial profile change
type UpdateProfileRequest struct {
	Username *string `json:"username"`
	Avatar   *string `json:"avatar" validate:"omitnil,omitempty,url"`
	FileURL  *string `json:"fileUrl" validate:"omitnil,omitempty,url"`
	Theme    *string `json:"theme" validate:"omitnil,oneof=light dark"`
}

// Register handles user registration
func (h *Handler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := h.bind(c, &req); err != nil {
		return fail(c, err)
	}

	user, err := h.accounts.Register(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return fail(c, err)
	}
	if err := h.issueTokens(c, user); err != nil {
		return fail(c, err)
	}

	return ok(c, fiber.StatusCreated, user.ToResponse())
}

// Login handles user login
func (h *Handler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := h.bind(c, &req); err != nil {
		return fail(c, err)
	}

	user, err := h.accounts.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return fail(c, err)
	}
	if err := h.issueTokens(c, user); err != nil {
		return fail(c, err)
	}

	return ok(c, fiber.StatusOK, fiber.Map{"user": user.ToResponse()})
}

// GetMe returns current authenticated user
func (h *Handler) GetMe(c *fiber.Ctx) error {
	user, err := h.accounts.Get(c.UserContext(), middleware.GetUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, user.ToResponse())
}

// UpdateProfile applies a partial profile change to the current user
func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	var req UpdateProfileRequest
	if err := h.bind(c, &req); err != nil {
		return fail(c, err)
	}

	user, err := h.accounts.UpdateProfile(c.UserContext(), middleware.GetUserID(c), models.UserUpdate{
		Username: req.Username,
		Avatar:   req.Avatar,
		FileURL:  req.FileURL,
		Theme:    req.Theme,
	})
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, user.ToResponse())
}

// Logout clears the session cookies
func (h *Handler) Logout(c *fiber.Ctx) error {
	h.setCookie(c, middleware.AccessCookie, "", -1)
	h.setCookie(c, refreshCookie, "", -1)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged out successfully",
	})
}

// RefreshToken handles token refresh
func (h *Handler) RefreshToken(c *fiber.Ctx) error {
	refreshToken := c.Cookies(refreshCookie)
	if refreshToken == "" {
		return fail(c, apperr.Unauthenticated("Refresh token not found"))
	}

	claims, err := h.tokens.ValidateToken(refreshToken, utils.TokenRefresh)
	if err != nil {
		l := logger.Ctx(c.UserContext())
		l.Debug().Err(err).Msg("rejected refresh token")
		return fail(c, apperr.Unauthenticated("Invalid refresh token"))
	}

	// The account may have been renamed since the token was issued.
	user, err := h.accounts.Get(c.UserContext(), claims.UserID)
	if err != nil {
		if apperr.KindOf(err) == apperr.ErrNotFound {
			return fail(c, apperr.Unauthenticated("Invalid refresh token"))
		}
		return fail(c, err)
	}
	if err := h.issueTokens(c, user); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Tokens refreshed successfully",
	})
}

func (h *Handler) issueTokens(c *fiber.Ctx, user models.User) error {
	pair, err := h.tokens.GeneratePair(user.ID, user.Username)
	if err != nil {
		return err
	}
	h.setCookie(c, middleware.AccessCookie, pair.Access, int(h.tokens.AccessTTL().Seconds()))
	h.setCookie(c, refreshCookie, pair.Refresh, int(h.tokens.RefreshTTL().Seconds()))
	return nil
}

func (h *Handler) setCookie(c *fiber.Ctx, name, value string, maxAge int) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: "Lax",
		MaxAge:   maxAge,
	})
}

package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"relaychat/server/internal/apperr"
	"relaychat/server/internal/logger"
	"relaychat/server/internal/models"
	"relaychat/server/internal/store"
	"relaychat/server/internal/utils"
)

// Credential limits.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 32
	MinPasswordLength = 6
)

// Accounts registers users, checks their credentials and edits profiles.
type Accounts struct {
	users store.UserStore
}

func NewAccounts(users store.UserStore) *Accounts {
	return &Accounts{users: users}
}

// Register creates a user with the default profile.
func (a *Accounts) Register(ctx context.Context, username, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	if err := validateUsername(username); err != nil {
		return models.User{}, err
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return models.User{}, apperr.Validation("password must be at least %d characters", MinPasswordLength)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	avatar := models.DefaultAvatar
	user, err := a.users.CreateUser(ctx, models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Avatar:       &avatar,
		Theme:        models.DefaultTheme,
	})
	if err != nil {
		return models.User{}, err
	}

	l := logger.Ctx(ctx)
	l.Info().Str(logger.FieldUserID, user.ID).Msg("user registered")
	return user, nil
}

// Login returns the user owning the credentials. Unknown names and wrong
// passwords are indistinguishable to the caller.
func (a *Accounts) Login(ctx context.Context, username, password string) (models.User, error) {
	user, err := a.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, apperr.ErrNotFound) {
		return models.User{}, apperr.Unauthenticated("invalid username or password")
	}
	if err != nil {
		return models.User{}, err
	}
	if !utils.CheckPassword(user.PasswordHash, password) {
		return models.User{}, apperr.Unauthenticated("invalid username or password")
	}
	return user, nil
}

// Get loads a user by id.
func (a *Accounts) Get(ctx context.Context, id string) (models.User, error) {
	return a.users.GetUser(ctx, id)
}

// UpdateProfile applies a partial profile change.
func (a *Accounts) UpdateProfile(ctx context.Context, id string, update models.UserUpdate) (models.User, error) {
	if update.Empty() {
		return models.User{}, apperr.Validation("nothing to update")
	}
	if update.Username != nil {
		name := strings.TrimSpace(*update.Username)
		if err := validateUsername(name); err != nil {
			return models.User{}, err
		}
		update.Username = &name
	}
	if update.Theme != nil && *update.Theme != models.ThemeDark && *update.Theme != models.ThemeLight {
		return models.User{}, apperr.Validation("theme must be %s or %s", models.ThemeLight, models.ThemeDark)
	}

	user, err := a.users.UpdateUser(ctx, id, update)
	if err != nil {
		return models.User{}, err
	}
	l := logger.Ctx(ctx)
	l.Info().Str(logger.FieldUserID, id).Msg("profile updated")
	return user, nil
}

func validateUsername(name string) error {
	n := utf8.RuneCountInString(name)
	if n < MinUsernameLength || n > MaxUsernameLength {
		return apperr.Validation("username must be %d to %d characters", MinUsernameLength, MaxUsernameLength)
	}
	return nil
}

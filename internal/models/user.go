package models

import "time"

// Profile defaults for newly registered users.
const (
	DefaultAvatar = "https://images.unsplash.com/photo-1499557354967-2b2d8910bcca"
	DefaultTheme  = ThemeDark
)

// Themes a user can pick.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// User represents a user in the system
type User struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never expose in JSON
	Avatar       *string   `json:"avatar,omitempty" db:"avatar"`
	FileURL      *string   `json:"fileUrl,omitempty" db:"file_url"`
	Theme        string    `json:"theme" db:"theme"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// UserResponse is what we send to clients (without sensitive data)
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Avatar    *string   `json:"avatar,omitempty"`
	FileURL   *string   `json:"fileUrl,omitempty"`
	Theme     string    `json:"theme"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Avatar:    u.Avatar,
		FileURL:   u.FileURL,
		Theme:     u.Theme,
		CreatedAt: u.CreatedAt,
	}
}

// UserUpdate is a partial profile change. Nil fields are left untouched.
type UserUpdate struct {
	Username *string `json:"username,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
	FileURL  *string `json:"fileUrl,omitempty"`
	Theme    *string `json:"theme,omitempty"`
}

// Empty reports whether the update changes nothing.
func (u UserUpdate) Empty() bool {
	return u.Username == nil && u.Avatar == nil && u.FileURL == nil && u.Theme == nil
}

// Apply copies the set fields of u onto user.
func (u UserUpdate) Apply(user *User) {
	if u.Username != nil {
		user.Username = *u.Username
	}
	if u.Avatar != nil {
		user.Avatar = u.Avatar
	}
	if u.FileURL != nil {
		user.FileURL = u.FileURL
	}
	if u.Theme != nil {
		user.Theme = *u.Theme
	}
}

package models

import "time"

// Theme is the board colour scheme chosen by the user.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeViolet Theme = "violet"
)

// DefaultTheme is assigned to every newly registered user.
const DefaultTheme = ThemeLight

// Valid reports whether t is one of the supported themes.
func (t Theme) Valid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeViolet:
		return true
	}
	return false
}

// Next returns the theme that follows t in the light -> dark -> violet cycle.
func (t Theme) Next() Theme {
	switch t {
	case ThemeLight:
		return ThemeDark
	case ThemeDark:
		return ThemeViolet
	default:
		return ThemeLight
	}
}

// User represents a TaskPro account.
// Credential fields are never serialized outward.
type User struct {
	// ID is the server-generated identifier of the user (UUIDv7).
	// It never changes after registration.
	ID string `json:"id"`

	// Email is the login identifier. Stored trimmed and lower-cased,
	// unique across all users.
	Email string `json:"email"`

	// Name is the display name shown on the board.
	Name string `json:"name"`

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string `json:"-"`

	// Theme is the selected colour scheme.
	Theme Theme `json:"theme"`

	// AvatarURL points to the uploaded avatar, empty when none.
	AvatarURL string `json:"avatarURL,omitempty"`

	// Verified is true once the user followed the confirmation link.
	Verified bool `json:"verified"`

	// VerificationToken is the one-time value embedded in the
	// confirmation link. Cleared after confirmation.
	VerificationToken string `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// UserUpdate carries a partial update of a user record.
// Only non-nil fields are written.
type UserUpdate struct {
	Name         *string
	Email        *string
	PasswordHash *string
	Theme        *Theme
	AvatarURL    *string
}

// IsEmpty reports whether the update would not change anything.
func (u UserUpdate) IsEmpty() bool {
	return u.Name == nil && u.Email == nil && u.PasswordHash == nil && u.Theme == nil && u.AvatarURL == nil
}

package models

// RegisterRequest is the body of POST /api/users/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /api/users/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest is the body of POST /api/users/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// VerifyEmailRequest is the body of POST /api/users/verify.
type VerifyEmailRequest struct {
	Email string `json:"email"`
}

// ProfileUpdateRequest is the body of PUT /api/users/profile.
// Only non-nil fields are changed.
type ProfileUpdateRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

// ThemeRequest is the body of PATCH /api/users/theme.
type ThemeRequest struct {
	Theme Theme `json:"theme"`
}

// HelpRequest is the body of POST /api/users/help.
type HelpRequest struct {
	Email   string `json:"email"`
	Comment string `json:"comment"`
}

// Avatar is an uploaded profile picture.
type Avatar struct {
	// Filename is the client-supplied name, used only for its extension.
	Filename string
	Content  []byte
}

package models

// MessageResponse is a plain confirmation or error body.
type MessageResponse struct {
	Message string `json:"message"`
}

// LoginResponse is the body returned by a successful login.
type LoginResponse struct {
	User User `json:"user"`
	TokenPair
}

// UserResponse wraps a user projection.
type UserResponse struct {
	User User `json:"user"`
}

// NotFoundResponse is returned for unknown routes.
type NotFoundResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// WelcomeResponse is returned by the API root.
type WelcomeResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Health  string `json:"health"`
}

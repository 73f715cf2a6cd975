package session

import "github.com/MKhiriev/go-taskpro/models"

// Status is the state of the client session.
type Status int

const (
	// StatusUnauthenticated: no confirmed identity.
	StatusUnauthenticated Status = iota
	// StatusRefreshing: a persisted pair is being confirmed at startup.
	StatusRefreshing
	// StatusAuthenticated: the server confirmed the identity.
	StatusAuthenticated
	// StatusPendingConfirmation: an account was registered and awaits
	// email confirmation. No tokens are held.
	StatusPendingConfirmation
)

func (s Status) String() string {
	switch s {
	case StatusUnauthenticated:
		return "unauthenticated"
	case StatusRefreshing:
		return "refreshing"
	case StatusAuthenticated:
		return "authenticated"
	case StatusPendingConfirmation:
		return "pending confirmation"
	default:
		return "unknown"
	}
}

// Session is a snapshot of the machine. A non-nil Error is the AuthError
// condition; it is layered over Status, which keeps its value.
type Session struct {
	Status Status
	User   *models.User

	// Token is the current access token, "" when none.
	Token string

	IsLoading bool
	Error     error

	// Notice is an informational message from the server, such as the
	// registration confirmation text.
	Notice string
}

// IsLoggedIn is true only after the server confirmed the identity.
func (s Session) IsLoggedIn() bool {
	return s.Status == StatusAuthenticated
}

func (s Session) IsRefreshing() bool {
	return s.Status == StatusRefreshing
}

// clone detaches the snapshot from the machine's user value.
func (s Session) clone() Session {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

package store

import (
	"context"

	"github.com/MKhiriev/go-taskpro/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// TokenStore persists the client's token pair between runs.
type TokenStore interface {
	// Load returns the saved pair or [ErrNoPersistedSession].
	Load(ctx context.Context) (models.TokenPair, error)
	// Save replaces the saved pair.
	Save(ctx context.Context, pair models.TokenPair) error
	// Clear removes the saved pair. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}

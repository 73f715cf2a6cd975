package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-taskpro/models"
)

// memoryUserRepository keeps users in process memory. Every operation runs
// under one mutex, so the uniqueness check and the insert cannot interleave
// with another registration.
type memoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[string]models.User
	byEmail map[string]string
	now     func() time.Time
}

func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{
		byID:    make(map[string]models.User),
		byEmail: make(map[string]string),
		now:     time.Now,
	}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (m *memoryUserRepository) CreateUser(_ context.Context, user models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := emailKey(user.Email)
	if _, ok := m.byEmail[key]; ok {
		return models.User{}, ErrEmailAlreadyExists
	}

	now := m.now().UTC()
	user.Email = key
	user.CreatedAt = now
	user.UpdatedAt = now

	m.byID[user.ID] = user
	m.byEmail[key] = user.ID

	return user, nil
}

func (m *memoryUserRepository) FindUserByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[emailKey(email)]
	if !ok {
		return models.User{}, ErrNoUserWasFound
	}
	return m.byID[id], nil
}

func (m *memoryUserRepository) FindUserByID(_ context.Context, id string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.byID[id]
	if !ok {
		return models.User{}, ErrNoUserWasFound
	}
	return user, nil
}

func (m *memoryUserRepository) FindUserByVerificationToken(_ context.Context, token string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if token == "" {
		return models.User{}, ErrNoUserWasFound
	}
	for _, user := range m.byID {
		if user.VerificationToken == token {
			return user, nil
		}
	}
	return models.User{}, ErrNoUserWasFound
}

func (m *memoryUserRepository) UpdateUser(_ context.Context, id string, update models.UserUpdate) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.byID[id]
	if !ok {
		return models.User{}, ErrNoUserWasFound
	}

	if update.Email != nil {
		key := emailKey(*update.Email)
		if owner, taken := m.byEmail[key]; taken && owner != id {
			return models.User{}, ErrEmailAlreadyExists
		}
		delete(m.byEmail, user.Email)
		m.byEmail[key] = id
		user.Email = key
	}
	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.PasswordHash != nil {
		user.PasswordHash = *update.PasswordHash
	}
	if update.Theme != nil {
		user.Theme = *update.Theme
	}
	if update.AvatarURL != nil {
		user.AvatarURL = *update.AvatarURL
	}
	user.UpdatedAt = m.now().UTC()

	m.byID[id] = user
	return user, nil
}

func (m *memoryUserRepository) MarkVerified(_ context.Context, id string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.byID[id]
	if !ok {
		return models.User{}, ErrNoUserWasFound
	}
	user.Verified = true
	user.VerificationToken = ""
	user.UpdatedAt = m.now().UTC()

	m.byID[id] = user
	return user, nil
}

func (m *memoryUserRepository) Ping(context.Context) error {
	return nil
}

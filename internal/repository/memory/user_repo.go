// internal/repository/memory/user_repo.go
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"alcyxob/neurofeedback-app/internal/domain"
	"alcyxob/neurofeedback-app/internal/repository"
)

// userRepository implements repository.UserRepository in process memory.
type userRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.User
	byEmail map[string]string // lowercased email -> id
}

// NewUserRepository creates an empty user repository.
func NewUserRepository() repository.UserRepository {
	return &userRepository{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

// Create stores a new user with a fresh UUID and returns the id.
// Emails are unique case-insensitively.
func (r *userRepository) Create(ctx context.Context, user *domain.User) (string, error) {
	if user == nil || user.Email == "" {
		return "", repository.ErrInvalidRecord
	}
	email := strings.ToLower(user.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[email]; exists {
		return "", repository.ErrDuplicateKey
	}
	user.ID = uuid.New().String()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	r.byID[user.ID] = &stored
	r.byEmail[email] = user.ID
	return user.ID, nil
}

// GetByEmail finds a user by email (case-insensitive).
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	user := *r.byID[id]
	return &user, nil
}

// GetByID finds a user by id.
func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	user := *stored
	return &user, nil
}

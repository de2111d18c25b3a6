package users

import (
	"context"
	"sync"
	"time"

	"github.com/smartedu/smartedu/backend/go-services/internal/models"
)

// MemoryUserRepository is an in-process UserRepository used by tests and as
// the fallback when MongoDB is not configured.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	byEmail map[string]*models.User
	byID    map[string]*models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byEmail: map[string]*models.User{},
		byID:    map[string]*models.User{},
	}
}

func (r *MemoryUserRepository) Insert(ctx context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	cp := *u
	r.byEmail[u.Email] = &cp
	r.byID[u.UserID] = &cp
	return nil
}

func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *MemoryUserRepository) GetByUserID(ctx context.Context, userID string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[userID]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

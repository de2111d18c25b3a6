package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/smartedu/smartedu/backend/go-services/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrUserExists is returned by Register when the email is already taken.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials is returned by Authenticate for unknown email or
	// wrong password (single error on purpose, no account probing).
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Service encapsulates user-related business logic
type Service struct {
	repo UserRepository
}

func NewService(r UserRepository) *Service {
	return &Service{repo: r}
}

// Register creates a new account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		UserID:       uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.repo.Insert(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate verifies email + password and returns the matching user.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) GetByUserID(ctx context.Context, userID string) (*models.User, error) {
	return s.repo.GetByUserID(ctx, userID)
}

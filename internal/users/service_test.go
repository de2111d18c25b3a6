package users

import (
	"context"
	"testing"

	"github.com/smartedu/smartedu/backend/go-services/internal/models"
	"golang.org/x/crypto/bcrypt"
)

type fakeRepo struct {
	byEmail map[string]*models.User
	byID    map[string]*models.User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byEmail: map[string]*models.User{}, byID: map[string]*models.User{}}
}

func (f *fakeRepo) Insert(ctx context.Context, u *models.User) error {
	f.byEmail[u.Email] = u
	f.byID[u.UserID] = u
	return nil
}

func (f *fakeRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.byEmail[email], nil
}

func (f *fakeRepo) GetByUserID(ctx context.Context, userID string) (*models.User, error) {
	return f.byID[userID], nil
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	u, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("unexpected register error: %v", err)
	}
	if u.UserID == "" {
		t.Fatal("expected a generated userId")
	}
	if u.PasswordHash == "s3cret-pass" {
		t.Fatal("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret-pass")); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}

	got, err := svc.Authenticate(ctx, "alice@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("unexpected authenticate error: %v", err)
	}
	if got.UserID != u.UserID {
		t.Fatalf("authenticated wrong user: %s != %s", got.UserID, u.UserID)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "bob", "bob@example.com", "pw-one-123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := svc.Register(ctx, "bob2", "bob@example.com", "pw-two-456")
	if err != ErrUserExists {
		t.Fatalf("expected ErrUserExists, got: %v", err)
	}
}

func TestAuthenticate_Failures(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "carol", "carol@example.com", "right-pass"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Authenticate(ctx, "carol@example.com", "wrong-pass"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody@example.com", "whatever"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got: %v", err)
	}
}

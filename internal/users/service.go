package users

import (
	"context"
	"fmt"

	"gatehouse/internal/auth"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TestEmailMarker tags accounts created by the automated-test factory
// (tester<uuid>@testpoc.com). Cleanup removes every email containing it.
const TestEmailMarker = "tester"

type Service struct {
	repo auth.UserRepository
}

func NewService(repo auth.UserRepository) *Service {
	return &Service{repo: repo}
}

// ListUsers returns every user; the password column never leaves the store
// (excluded by projection).
func (s *Service) ListUsers(ctx context.Context) ([]auth.User, error) {
	return s.repo.FindAll(ctx)
}

// DeleteUser removes a user row by id. No cascade, no ownership
// reassignment, no self-delete restriction.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Invite creates a Member with a random temporary credential. The account
// stays unconfirmed until the invitee completes a password reset.
func (s *Service) Invite(ctx context.Context, name, email string) (*auth.User, error) {
	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("checking email: %w", err)
	}
	if exists {
		return nil, auth.ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(uuid.New().String()), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &auth.User{
		Name:           name,
		Email:          email,
		Password:       string(hashedPassword),
		Role:           auth.RoleMember,
		EmailConfirmed: false,
	}
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	user.Password = ""
	return user, nil
}

// CleanupTestUsers deletes every user carrying the test-email marker.
// Maintenance surface for automated-test teardown only.
func (s *Service) CleanupTestUsers(ctx context.Context) (int64, error) {
	return s.repo.DeleteByEmailMarker(ctx, TestEmailMarker)
}

package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// User-facing sentinel errors. The sign-in message is identical for an
// unknown email and a wrong password so the response never reveals which
// half was wrong.
var (
	ErrInvalidCredentials = errors.New("Invalid email or password")
	ErrEmailTaken         = errors.New("The email address is already taken.")
)

// hashCost matches the cost the original records were created with, so old
// and new hashes verify interchangeably.
const hashCost = 10

type Service struct {
	repo UserRepository
}

func NewService(repo UserRepository) *Service {
	return &Service{repo: repo}
}

// SignUp creates a new Member with emailConfirmed=false. No session is
// issued; the caller signs in separately.
func (s *Service) SignUp(ctx context.Context, name, email, password string) error {
	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("checking email: %w", err)
	}
	if exists {
		return ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return err
	}

	user := &User{
		Name:           name,
		Email:          email,
		Password:       string(hashedPassword),
		Role:           RoleMember,
		EmailConfirmed: false,
	}
	return s.repo.Save(ctx, user)
}

// SignIn verifies the credentials and returns the matching user record.
// Callers must strip the hash before the record travels any further.
func (s *Service) SignIn(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// SetNewPassword re-hashes and overwrites the target user's password and
// marks the email confirmed. Fails with ErrUserNotFound when id matches no
// row.
func (s *Service) SetNewPassword(ctx context.Context, id, password string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, id, string(hashedPassword))
}

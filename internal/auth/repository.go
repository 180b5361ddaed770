package auth

import (
	"context"
	"errors"
)

// ErrUserNotFound is returned by lookups that match no row.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the data-access contract.
// Services depend ONLY on this interface.
type UserRepository interface {
	Save(ctx context.Context, user *User) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	// FindAll returns every user with the password column excluded by
	// projection.
	FindAll(ctx context.Context) ([]User, error)
	// UpdatePassword overwrites the stored hash and marks the email
	// confirmed in the same statement.
	UpdatePassword(ctx context.Context, id, hashedPassword string) error
	Delete(ctx context.Context, id string) error
	// DeleteByEmailMarker removes every user whose email contains marker.
	// Test-cleanup surface only.
	DeleteByEmailMarker(ctx context.Context, marker string) (int64, error)
}

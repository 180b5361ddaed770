package auth

import "time"

// Roles assignable to a user. Sign-up always produces a Member; Admin is
// only ever set store-side.
const (
	RoleMember = "Member"
	RoleAdmin  = "Admin"
)

// User is the domain entity. Password always holds a bcrypt hash, never raw
// input, and is excluded from JSON.
type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Password       string    `json:"-"`
	Role           string    `json:"role"`
	EmailConfirmed bool      `json:"emailConfirmed"`
	CreatedAt      time.Time `json:"-"`
}

package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// InMemoryUserRepository backs service and handler tests.
type InMemoryUserRepository struct {
	users map[string]*User // keyed by id
	order []string         // insertion order, mirrors ORDER BY created_at
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		users: make(map[string]*User),
	}
}

func (r *InMemoryUserRepository) Save(_ context.Context, user *User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return ErrEmailTaken
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	cp := *user
	r.users[user.ID] = &cp
	r.order = append(r.order, user.ID)
	return nil
}

func (r *InMemoryUserRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *InMemoryUserRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *InMemoryUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *InMemoryUserRepository) FindAll(_ context.Context) ([]User, error) {
	users := []User{}
	for _, id := range r.order {
		u, ok := r.users[id]
		if !ok {
			continue
		}
		cp := *u
		cp.Password = ""
		users = append(users, cp)
	}
	return users, nil
}

func (r *InMemoryUserRepository) UpdatePassword(_ context.Context, id, hashedPassword string) error {
	u, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.Password = hashedPassword
	u.EmailConfirmed = true
	return nil
}

func (r *InMemoryUserRepository) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *InMemoryUserRepository) DeleteByEmailMarker(_ context.Context, marker string) (int64, error) {
	var n int64
	for id, u := range r.users {
		if strings.Contains(u.Email, marker) {
			delete(r.users, id)
			n++
		}
	}
	return n, nil
}

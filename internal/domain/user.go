package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Identity is what the identity provider asserts about the caller at login
type Identity struct {
	Subject    string
	Email      string
	Name       *string
	PictureURL *string
}

// User owns accounts, budgets and reports. Users are provisioned on first login.
type User struct {
	ID         uuid.UUID
	Auth0ID    string
	Email      string
	Name       *string
	PictureURL *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DisplayName is the user's name, falling back to the local part of the email
func (u *User) DisplayName() string {
	if u.Name != nil && strings.TrimSpace(*u.Name) != "" {
		return strings.TrimSpace(*u.Name)
	}
	local, _, _ := strings.Cut(u.Email, "@")
	return local
}

// UserRepository defines the interface for user persistence operations
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByAuth0ID(ctx context.Context, auth0ID string) (*User, error)
	// Upsert creates the user or refreshes the profile of an existing one.
	// A name the user already has is kept.
	Upsert(ctx context.Context, identity Identity) (*User, error)
}

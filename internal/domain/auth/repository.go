package auth

import (
	"context"

	"github.com/tentenpanashe01/retail-backend/internal/core/id"
)

// Repository persists user accounts.
type Repository interface {
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error

	// GetByID returns NOT_FOUND when the user does not exist.
	GetByID(ctx context.Context, userID id.ID) (*User, error)

	// GetByUsername returns NOT_FOUND when no account uses the username.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// Exists reports whether the username is taken.
	Exists(ctx context.Context, username string) (bool, error)

	List(ctx context.Context) ([]User, error)
}

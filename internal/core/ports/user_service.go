package ports

import (
	"context"

	"github.com/identity-platform/accounts-api/internal/core/domain"
)

// UpdateUserInput carries the replacement profile for an account. The
// password is re-validated against policy and re-hashed before storage.
type UpdateUserInput struct {
	Username string
	Email    string
	Password string
}

// UserService defines the role-gated account management operations.
type UserService interface {
	ListUsers(ctx context.Context) ([]domain.Identity, error)
	GetUser(ctx context.Context, id string) (*domain.Identity, error)
	UpdateUser(ctx context.Context, id string, in UpdateUserInput) (*domain.Identity, error)
	DeleteUser(ctx context.Context, id string) error
}

package ports

import (
	"context"

	"github.com/identity-platform/accounts-api/internal/core/domain"
)

// UserRepository defines the interface for account persistence. Uniqueness of
// username and email is enforced by the storage layer; Insert and Update map
// constraint violations to domain.ErrUsernameTaken / domain.ErrEmailTaken.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.Identity, error)
	FindByEmail(ctx context.Context, email string) (*domain.Identity, error)
	FindByID(ctx context.Context, id string) (*domain.Identity, error)
	List(ctx context.Context) ([]domain.Identity, error)
	Insert(ctx context.Context, identity *domain.Identity) (*domain.Identity, error)
	Update(ctx context.Context, identity *domain.Identity) (*domain.Identity, error)
	Delete(ctx context.Context, id string) error

	// FindOrCreateRole upserts the catalog record for a known role name.
	// It never mints role names outside the closed domain.Role set.
	FindOrCreateRole(ctx context.Context, name domain.Role) (*domain.RoleRecord, error)
}

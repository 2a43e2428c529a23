package ports

import (
	"context"
	"time"

	"github.com/identity-platform/accounts-api/internal/core/domain"
)

// RegisterInput carries the data needed to create an account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	// Role defaults to domain.RoleUser when empty.
	Role domain.Role
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	AccessToken string
	TokenType   string
	User        *domain.Identity
}

// CurrentUserResult is the identity resolved from a bearer token, plus the
// last recorded login time (zero when unknown).
type CurrentUserResult struct {
	User      *domain.Identity
	LastLogin time.Time
}

// AuthService defines the registration, login, and access-check workflows.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Identity, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)

	// Authorize validates the token and checks that its role satisfies the
	// required role. Token failures surface as domain.ErrUnauthorized,
	// insufficient rank as domain.ErrForbidden.
	Authorize(ctx context.Context, token string, required domain.Role) (*domain.Claims, error)

	// CurrentUser resolves the account behind a valid token. The token alone
	// proves identity; no password check is repeated here.
	CurrentUser(ctx context.Context, token string) (*CurrentUserResult, error)
}

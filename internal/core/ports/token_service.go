package ports

import (
	"time"

	"github.com/identity-platform/accounts-api/internal/core/domain"
)

// TokenService issues and validates signed bearer tokens. Validation is
// self-contained given the signing key; no repository access is involved.
type TokenService interface {
	Issue(subject string, role domain.Role, ttl time.Duration) (string, error)

	// Validate checks the signature first, then expiry, then extracts the
	// claims. Failures are domain.ErrInvalidSignature, domain.ErrTokenExpired,
	// or domain.ErrTokenMalformed.
	Validate(token string) (*domain.Claims, error)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/identity-platform/accounts-api/internal/api/metrics"
	"github.com/identity-platform/accounts-api/internal/core/domain"
	"github.com/identity-platform/accounts-api/internal/core/ports"
)

// LoginTracker abstracts the last-login store (Redis).
type LoginTracker interface {
	Record(ctx context.Context, username string, ts time.Time) error
	Last(ctx context.Context, username string) (time.Time, error)
}

const defaultTokenTTL = 30 * time.Minute

// enumerationGuardHash is a well-formed bcrypt hash compared against when a
// username does not exist, so the miss path costs the same as a wrong
// password. It never verifies any real credential.
const enumerationGuardHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthEngine implements registration, login, and access checks. It holds no
// per-request state; the signing key and hashing cost live in its immutable
// collaborators.
type AuthEngine struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenService
	audit  ports.AuditRecorder
	logins LoginTracker

	tokenTTL time.Duration
	log      zerolog.Logger
}

func NewAuthEngine(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenService,
	audit ports.AuditRecorder,
	logins LoginTracker,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *AuthEngine {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &AuthEngine{
		repo:     repo,
		hasher:   hasher,
		tokens:   tokens,
		audit:    audit,
		logins:   logins,
		tokenTTL: tokenTTL,
		log:      log,
	}
}

func (e *AuthEngine) Register(ctx context.Context, in ports.RegisterInput) (*domain.Identity, error) {
	if in.Username == "" || in.Email == "" || in.Password == "" {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: username, email and password are required", domain.ErrInvalidInput)
	}

	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Known() {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, in.Role)
	}

	// Advisory duplicate checks. The unique indexes are the authoritative
	// guard; Insert maps constraint violations to the same errors.
	if _, err := e.repo.FindByUsername(ctx, in.Username); err == nil {
		metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
		return nil, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if _, err := e.repo.FindByEmail(ctx, in.Email); err == nil {
		metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	if err := domain.ValidatePassword(in.Password); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("weak_password").Inc()
		return nil, err
	}

	hash, err := e.hasher.Hash(ctx, in.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		} else {
			metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	if _, err := e.repo.FindOrCreateRole(ctx, role); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("ensure role: %w", err)
	}

	now := time.Now().UTC()
	created, err := e.repo.Insert(ctx, &domain.Identity{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) || errors.Is(err, domain.ErrEmailTaken) {
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
		} else {
			metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	metrics.RegistrationsTotal.WithLabelValues("ok").Inc()
	e.recordAudit(ctx, domain.AuditRegister, created.Username, domain.AuditOK, string(created.Role))
	e.log.Info().Str("username", created.Username).Str("role", string(created.Role)).Msg("account registered")

	return created, nil
}

func (e *AuthEngine) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	if username == "" || password == "" {
		// Empty credentials still pay the bcrypt cost so they are not
		// timing-distinguishable from a wrong password.
		_, _ = e.hasher.Verify(ctx, password, enumerationGuardHash)
		metrics.LoginsTotal.WithLabelValues("denied").Inc()
		e.recordAudit(ctx, domain.AuditLogin, username, domain.AuditDenied, "")
		return nil, domain.ErrInvalidCredentials
	}

	user, err := e.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Burn a bcrypt comparison so an unknown username is
			// indistinguishable from a wrong password, in timing and in error.
			_, _ = e.hasher.Verify(ctx, password, enumerationGuardHash)
			metrics.LoginsTotal.WithLabelValues("denied").Inc()
			e.recordAudit(ctx, domain.AuditLogin, username, domain.AuditDenied, "")
			return nil, domain.ErrInvalidCredentials
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	ok, err := e.hasher.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		// Corrupt stored hash is a system fault, not a client error.
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		e.log.Error().Err(err).Str("username", username).Msg("password verification failed")
		return nil, err
	}
	if !ok {
		metrics.LoginsTotal.WithLabelValues("denied").Inc()
		e.recordAudit(ctx, domain.AuditLogin, username, domain.AuditDenied, "")
		return nil, domain.ErrInvalidCredentials
	}

	token, err := e.tokens.Issue(user.Username, user.Role, e.tokenTTL)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("issue token: %w", err)
	}

	if e.logins != nil {
		if err := e.logins.Record(ctx, user.Username, time.Now().UTC()); err != nil {
			e.log.Warn().Err(err).Str("username", username).Msg("failed to record last login")
		}
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	metrics.TokensIssuedTotal.Inc()
	e.recordAudit(ctx, domain.AuditLogin, user.Username, domain.AuditOK, "")
	e.log.Info().Str("username", user.Username).Msg("login succeeded")

	return &ports.LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	}, nil
}

func (e *AuthEngine) Authorize(ctx context.Context, token string, required domain.Role) (*domain.Claims, error) {
	claims, err := e.tokens.Validate(token)
	if err != nil {
		metrics.AuthzDecisionsTotal.WithLabelValues("unauthorized").Inc()
		e.log.Debug().Err(err).Msg("token rejected")
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}

	if !claims.Role.Satisfies(required) {
		metrics.AuthzDecisionsTotal.WithLabelValues("forbidden").Inc()
		e.recordAudit(ctx, domain.AuditAuthorize, claims.Subject, domain.AuditDenied, string(required))
		return nil, domain.ErrForbidden
	}

	metrics.AuthzDecisionsTotal.WithLabelValues("allow").Inc()
	return claims, nil
}

func (e *AuthEngine) CurrentUser(ctx context.Context, token string) (*ports.CurrentUserResult, error) {
	claims, err := e.tokens.Validate(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}

	user, err := e.repo.FindByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// The account was deleted after the token was issued.
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}

	result := &ports.CurrentUserResult{User: user}
	if e.logins != nil {
		last, err := e.logins.Last(ctx, user.Username)
		if err != nil {
			e.log.Warn().Err(err).Str("username", user.Username).Msg("failed to read last login")
		} else {
			result.LastLogin = last
		}
	}
	return result, nil
}

// recordAudit writes an audit entry, logging and swallowing failures.
func (e *AuthEngine) recordAudit(ctx context.Context, action, subject, outcome, detail string) {
	if e.audit == nil {
		return
	}
	entry := domain.AuditEntry{
		Action:    action,
		Subject:   subject,
		Outcome:   outcome,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	}
	if err := e.audit.Record(ctx, entry); err != nil {
		e.log.Warn().Err(err).Str("action", action).Msg("failed to write audit entry")
	}
}

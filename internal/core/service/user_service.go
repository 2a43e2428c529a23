package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/identity-platform/accounts-api/internal/core/domain"
	"github.com/identity-platform/accounts-api/internal/core/ports"
)

// UserManager implements the role-gated account management operations.
// Access control happens at the transport layer; the service assumes the
// caller was already authorized.
type UserManager struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	log    zerolog.Logger
}

func NewUserManager(repo ports.UserRepository, hasher ports.PasswordHasher, log zerolog.Logger) *UserManager {
	return &UserManager{repo: repo, hasher: hasher, log: log}
}

func (m *UserManager) ListUsers(ctx context.Context) ([]domain.Identity, error) {
	return m.repo.List(ctx)
}

func (m *UserManager) GetUser(ctx context.Context, id string) (*domain.Identity, error) {
	return m.repo.FindByID(ctx, id)
}

func (m *UserManager) UpdateUser(ctx context.Context, id string, in ports.UpdateUserInput) (*domain.Identity, error) {
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", domain.ErrInvalidInput)
	}

	user, err := m.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	hash, err := m.hasher.Hash(ctx, in.Password)
	if err != nil {
		return nil, err
	}

	user.Username = in.Username
	user.Email = in.Email
	user.PasswordHash = hash
	user.UpdatedAt = time.Now().UTC()

	updated, err := m.repo.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	m.log.Info().Str("id", id).Str("username", updated.Username).Msg("account updated")
	return updated, nil
}

func (m *UserManager) DeleteUser(ctx context.Context, id string) error {
	if err := m.repo.Delete(ctx, id); err != nil {
		return err
	}
	m.log.Info().Str("id", id).Msg("account deleted")
	return nil
}

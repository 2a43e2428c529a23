package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/identity-platform/accounts-api/internal/core/auth"
	"github.com/identity-platform/accounts-api/internal/core/domain"
	"github.com/identity-platform/accounts-api/internal/core/ports"
)

func newTestManager(repo *stubUserRepo) *UserManager {
	return NewUserManager(repo, auth.NewBcryptHasher(bcrypt.MinCost), zerolog.Nop())
}

func seedUser(t *testing.T, repo *stubUserRepo, username, email string) *domain.Identity {
	t.Helper()
	hash, err := auth.NewBcryptHasher(bcrypt.MinCost).Hash(context.Background(), "Passw0rd")
	if err != nil {
		t.Fatalf("seed hash: %v", err)
	}
	created, err := repo.Insert(context.Background(), &domain.Identity{
		Username: username, Email: email, PasswordHash: hash, Role: domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("seed insert: %v", err)
	}
	return created
}

func TestUserManager_ListUsers(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "alice", "a@x.com")
	seedUser(t, repo, "bob", "b@x.com")

	users, err := newTestManager(repo).ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers returned error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
}

func TestUserManager_GetUser_NotFound(t *testing.T) {
	repo := newStubUserRepo()

	_, err := newTestManager(repo).GetUser(context.Background(), "missing")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserManager_UpdateUser(t *testing.T) {
	repo := newStubUserRepo()
	created := seedUser(t, repo, "alice", "a@x.com")
	oldHash := created.PasswordHash

	updated, err := newTestManager(repo).UpdateUser(context.Background(), created.ID, ports.UpdateUserInput{
		Username: "alice2",
		Email:    "a2@x.com",
		Password: "N3wsecret",
	})
	if err != nil {
		t.Fatalf("UpdateUser returned error: %v", err)
	}
	if updated.Username != "alice2" || updated.Email != "a2@x.com" {
		t.Fatalf("profile not updated: %+v", updated)
	}
	if updated.PasswordHash == oldHash {
		t.Fatalf("expected password to be re-hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("N3wsecret")); err != nil {
		t.Fatalf("new hash does not match new password: %v", err)
	}
}

func TestUserManager_UpdateUser_WeakPassword(t *testing.T) {
	repo := newStubUserRepo()
	created := seedUser(t, repo, "alice", "a@x.com")

	_, err := newTestManager(repo).UpdateUser(context.Background(), created.ID, ports.UpdateUserInput{
		Username: "alice", Email: "a@x.com", Password: "weak",
	})
	if !errors.Is(err, domain.ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}

func TestUserManager_UpdateUser_MissingFields(t *testing.T) {
	repo := newStubUserRepo()
	created := seedUser(t, repo, "alice", "a@x.com")

	_, err := newTestManager(repo).UpdateUser(context.Background(), created.ID, ports.UpdateUserInput{
		Username: "alice",
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUserManager_DeleteUser(t *testing.T) {
	repo := newStubUserRepo()
	created := seedUser(t, repo, "alice", "a@x.com")
	mgr := newTestManager(repo)

	if err := mgr.DeleteUser(context.Background(), created.ID); err != nil {
		t.Fatalf("DeleteUser returned error: %v", err)
	}
	if err := mgr.DeleteUser(context.Background(), created.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound on second delete, got %v", err)
	}
}

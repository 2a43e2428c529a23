package auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/identity-platform/accounts-api/internal/core/domain"
)

// Tests run at MinCost; production cost is a config concern.
func testHasher() *BcryptHasher {
	return NewBcryptHasher(bcrypt.MinCost)
}

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := testHasher()
	ctx := context.Background()

	hash, err := h.Hash(ctx, "Passw0rd")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if hash == "Passw0rd" {
		t.Fatalf("hash must not equal the plaintext")
	}

	ok, err := h.Verify(ctx, "Passw0rd", hash)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected matching password to verify")
	}

	ok, err = h.Verify(ctx, "wrongpass", hash)
	if err != nil {
		t.Fatalf("Verify returned error on mismatch: %v", err)
	}
	if ok {
		t.Fatalf("expected mismatch to fail verification")
	}
}

func TestBcryptHasher_DistinctSalts(t *testing.T) {
	h := testHasher()
	ctx := context.Background()

	h1, err := h.Hash(ctx, "Passw0rd")
	if err != nil {
		t.Fatalf("first hash: %v", err)
	}
	h2, err := h.Hash(ctx, "Passw0rd")
	if err != nil {
		t.Fatalf("second hash: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("two hashes of the same password should differ (distinct salts)")
	}

	for _, hash := range []string{h1, h2} {
		ok, err := h.Verify(ctx, "Passw0rd", hash)
		if err != nil || !ok {
			t.Fatalf("hash %q should verify the original password (ok=%v err=%v)", hash, ok, err)
		}
	}
}

func TestBcryptHasher_EmptyPassword(t *testing.T) {
	h := testHasher()

	if _, err := h.Hash(context.Background(), ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestBcryptHasher_OverlongPassword(t *testing.T) {
	h := testHasher()
	ctx := context.Background()

	// bcrypt caps input at 72 bytes; anything longer is bad client input,
	// not a system fault.
	long := strings.Repeat("a", 90)
	if _, err := h.Hash(ctx, long); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for 90-byte password, got %v", err)
	}

	// Verifying the same input against a stored hash is a plain mismatch.
	hash, err := h.Hash(ctx, "Passw0rd")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	ok, err := h.Verify(ctx, long, hash)
	if err != nil {
		t.Fatalf("Verify returned error for overlong password: %v", err)
	}
	if ok {
		t.Fatalf("overlong password must not verify")
	}
}

func TestBcryptHasher_CorruptStoredHash(t *testing.T) {
	h := testHasher()

	_, err := h.Verify(context.Background(), "Passw0rd", "not-a-bcrypt-hash")
	if !errors.Is(err, domain.ErrCorruptHash) {
		t.Fatalf("expected ErrCorruptHash, got %v", err)
	}
}

func TestNewBcryptHasher_CostClamped(t *testing.T) {
	h := NewBcryptHasher(99)
	if h.cost != DefaultCost {
		t.Fatalf("expected out-of-range cost to fall back to %d, got %d", DefaultCost, h.cost)
	}
}

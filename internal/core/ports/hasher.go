package ports

import "context"

// PasswordHasher abstracts one-way credential hashing so the services do not
// care about the algorithm or where the work runs. The produced hash embeds
// its own salt and cost; verification needs no external state.
type PasswordHasher interface {
	// Hash derives a salted hash from a plaintext password. Empty plaintext
	// is rejected with domain.ErrInvalidInput.
	Hash(ctx context.Context, plaintext string) (string, error)

	// Verify reports whether plaintext matches storedHash. A mismatch is
	// (false, nil); an unparseable storedHash is domain.ErrCorruptHash.
	Verify(ctx context.Context, plaintext, storedHash string) (bool, error)
}

package queue

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/identity-platform/accounts-api/internal/core/auth"
)

func TestHashPool_RoundTrip(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := NewHashPool(2, auth.NewBcryptHasher(bcrypt.MinCost), zerolog.Nop())
	pool.Start(ctx)

	hash, err := pool.Hash(ctx, "Passw0rd")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}

	ok, err := pool.Verify(ctx, "Passw0rd", hash)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected pooled hash to verify")
	}

	ok, err = pool.Verify(ctx, "wrong", hash)
	if err != nil {
		t.Fatalf("Verify returned error on mismatch: %v", err)
	}
	if ok {
		t.Fatalf("expected mismatch to fail")
	}
}

func TestHashPool_Concurrent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := NewHashPool(4, auth.NewBcryptHasher(bcrypt.MinCost), zerolog.Nop())
	pool.Start(ctx)

	const n = 16
	var wg sync.WaitGroup
	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hash, err := pool.Hash(ctx, "Passw0rd")
			if err != nil {
				errs <- err
				return
			}
			ok, err := pool.Verify(ctx, "Passw0rd", hash)
			if err != nil {
				errs <- err
				return
			}
			if !ok {
				errs <- errors.New("pooled hash did not verify")
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent hashing failed: %v", err)
	}
}

func TestHashPool_SubmitRespectsContext(t *testing.T) {
	// No workers started: the queue fills and submission must fail fast once
	// the context is cancelled.
	pool := NewHashPool(1, auth.NewBcryptHasher(bcrypt.MinCost), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for i := 0; i < queueBuffer; i++ {
		pool.tasks <- func() {}
	}

	if _, err := pool.Hash(ctx, "Passw0rd"); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

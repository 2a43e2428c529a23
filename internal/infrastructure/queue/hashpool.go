package queue

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/identity-platform/accounts-api/internal/api/metrics"
	"github.com/identity-platform/accounts-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	queueBuffer    = 64
)

// HashPool runs bcrypt operations on a fixed set of workers so the
// deliberately expensive hashing never ties up request goroutines. It
// implements ports.PasswordHasher by delegation, so services stay unaware
// of the pooling.
type HashPool struct {
	hasher  ports.PasswordHasher
	tasks   chan func()
	workers int
	log     zerolog.Logger
}

// NewHashPool creates a HashPool with numWorkers workers backed by hasher.
// If numWorkers <= 0, defaultWorkers is used.
func NewHashPool(numWorkers int, hasher ports.PasswordHasher, log zerolog.Logger) *HashPool {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	return &HashPool{
		hasher:  hasher,
		tasks:   make(chan func(), queueBuffer),
		workers: numWorkers,
		log:     log,
	}
}

// Start launches the worker goroutines. Workers stop when ctx is cancelled;
// a task that already reached a worker runs to completion.
func (p *HashPool) Start(ctx context.Context) {
	p.log.Debug().Int("workers", p.workers).Msg("starting hash pool")
	for i := 0; i < p.workers; i++ {
		go p.runWorker(ctx)
	}
}

func (p *HashPool) runWorker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case task, ok := <-p.tasks:
			if !ok {
				return
			}
			metrics.HashQueueDepth.Set(float64(len(p.tasks)))
			task()
		}
	}
}

// submit enqueues a task and waits for it to finish. Enqueueing respects ctx;
// a task that reached a worker runs to completion regardless.
func (p *HashPool) submit(ctx context.Context, task func()) error {
	done := make(chan struct{})
	wrapped := func() {
		start := time.Now()
		task()
		metrics.PasswordHashDuration.Observe(time.Since(start).Seconds())
		close(done)
	}

	select {
	case p.tasks <- wrapped:
		metrics.HashQueueDepth.Set(float64(len(p.tasks)))
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		// The caller gives up waiting; the job itself still runs to completion.
		return ctx.Err()
	}
}

func (p *HashPool) Hash(ctx context.Context, plaintext string) (string, error) {
	var (
		hash string
		err  error
	)
	if submitErr := p.submit(ctx, func() {
		hash, err = p.hasher.Hash(ctx, plaintext)
	}); submitErr != nil {
		return "", submitErr
	}
	return hash, err
}

func (p *HashPool) Verify(ctx context.Context, plaintext, storedHash string) (bool, error) {
	var (
		ok  bool
		err error
	)
	if submitErr := p.submit(ctx, func() {
		ok, err = p.hasher.Verify(ctx, plaintext, storedHash)
	}); submitErr != nil {
		return false, submitErr
	}
	return ok, err
}

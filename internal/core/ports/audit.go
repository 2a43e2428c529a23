package ports

import (
	"context"

	"github.com/identity-platform/accounts-api/internal/core/domain"
)

// AuditRecorder persists authentication and authorization decisions for the
// audit trail. Writes are best-effort; a failed insert never fails the
// request that produced it.
type AuditRecorder interface {
	Record(ctx context.Context, entry domain.AuditEntry) error
}

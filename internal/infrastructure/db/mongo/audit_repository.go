package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/identity-platform/accounts-api/internal/core/domain"
)

const auditCollection = "auth_audit"

// MongoAuditRepository persists authentication and authorization decisions.
// Callers treat failures as non-fatal; this repository only reports them.
type MongoAuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *MongoAuditRepository {
	return &MongoAuditRepository{coll: db.Collection(auditCollection)}
}

type mongoAuditEntry struct {
	Action    string `bson:"action"`
	Subject   string `bson:"subject"`
	Outcome   string `bson:"outcome"`
	Detail    string `bson:"detail,omitempty"`
	Timestamp int64  `bson:"timestamp"`
}

func (r *MongoAuditRepository) Record(ctx context.Context, entry domain.AuditEntry) error {
	doc := mongoAuditEntry{
		Action:    entry.Action,
		Subject:   entry.Subject,
		Outcome:   entry.Outcome,
		Detail:    entry.Detail,
		Timestamp: entry.Timestamp.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

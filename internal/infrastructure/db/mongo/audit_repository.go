package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/retailops/session-gateway/internal/core/domain"
)

const auditCollection = "session_audit"

// MongoAuditRepository persists session audit events as append-only documents.
type MongoAuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *MongoAuditRepository {
	return &MongoAuditRepository{coll: db.Collection(auditCollection)}
}

type auditDocument struct {
	SID   string `bson:"sid"`
	Kind  string `bson:"kind"`
	Email string `bson:"email,omitempty"`
	At    int64  `bson:"at"`
}

// Record appends one audit event. Events are never updated or deleted here.
func (r *MongoAuditRepository) Record(ctx context.Context, event domain.AuditEvent) error {
	doc := auditDocument{
		SID:   event.SID,
		Kind:  event.Kind,
		Email: event.Email,
		At:    event.At.Unix(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

package repository

import (
	"context"

	"clinic-booking-service/internal/domain/entity"
	"clinic-booking-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoAuditRepository implements the AuditRepository interface.
// Audit entries are append-only; there is no update path.
type MongoAuditRepository struct {
	collection *mongo.Collection
}

// NewMongoAuditRepository creates a new MongoDB audit repository
func NewMongoAuditRepository(db *mongo.Database) repository.AuditRepository {
	collection := db.Collection("audit_entries")

	// Create indexes for better performance
	ctx := context.Background()

	entityIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "entityType", Value: 1}, {Key: "entityId", Value: 1}},
	}
	timestampIndex := mongo.IndexModel{
		Keys: bson.M{"timestamp": -1},
	}

	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{entityIndex, timestampIndex})

	return &MongoAuditRepository{
		collection: collection,
	}
}

// Record appends one immutable audit entry
func (r *MongoAuditRepository) Record(ctx context.Context, entry *entity.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = primitive.NewObjectID().Hex()
	}

	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

// FindByEntity returns the audit trail for one entity, newest first
func (r *MongoAuditRepository) FindByEntity(ctx context.Context, entityType, entityID string) ([]*entity.AuditEntry, error) {
	filter := bson.M{"entityType": entityType, "entityId": entityID}
	opts := options.Find().SetSort(bson.M{"timestamp": -1})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*entity.AuditEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}

	return entries, nil
}

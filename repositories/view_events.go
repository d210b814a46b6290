package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"folio/models"
)

type ViewEventRepository struct {
	col *mongo.Collection
}

func NewViewEventRepository(db *mongo.Database) *ViewEventRepository {
	return &ViewEventRepository{col: db.Collection("viewevents")}
}

// Exists checks whether a dedup record for (slug, ipHash) is present.
func (r *ViewEventRepository) Exists(ctx context.Context, slug, ipHash string) (bool, error) {
	err := r.col.FindOne(ctx, bson.M{"slug": slug, "ip_hash": ipHash}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	return err == nil, err
}

// Insert appends a dedup record. Records are never updated or deleted
// here; pruning old buckets is an external concern.
func (r *ViewEventRepository) Insert(ctx context.Context, ev *models.ViewEvent) (*mongo.InsertOneResult, error) {
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now()
	}
	return r.col.InsertOne(ctx, ev)
}

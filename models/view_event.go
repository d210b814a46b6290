package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ViewEvent is an append-only dedup record for view counting. Only its
// existence matters; it is never updated and never read back beyond the
// existence probe.
// Collection: viewevents
type ViewEvent struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Slug      string             `bson:"slug" json:"slug"`
	IPHash    string             `bson:"ip_hash" json:"ipHash"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

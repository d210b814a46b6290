package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category is a named node in a parent/children tree. There is no category
// CRUD surface yet; documents are seeded out of band and only read to
// resolve the references posts carry.
// Collection: categories
type Category struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name      string               `bson:"name" json:"name"`
	Slug      string               `bson:"slug" json:"slug"`
	Parent    *primitive.ObjectID  `bson:"parent,omitempty" json:"parent,omitempty"`
	Children  []primitive.ObjectID `bson:"children,omitempty" json:"children,omitempty"`
	CreatedAt time.Time            `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updated_at" json:"updatedAt"`
}

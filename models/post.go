package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Section classifies a post for listing.
type Section string

const (
	SectionContent    Section = "content"
	SectionCategories Section = "categories"
	SectionOther      Section = "other"
)

// Valid reports whether s is one of the known sections.
func (s Section) Valid() bool {
	switch s {
	case SectionContent, SectionCategories, SectionOther:
		return true
	}
	return false
}

// Page is a numbered section of a post's content. Pages exist only inside
// their post document; the id is a uuid assigned when the page first enters
// a write so reorder requests can reference it.
type Page struct {
	ID         string `bson:"_id,omitempty" json:"id,omitempty"`
	PageNumber int    `bson:"page_number" json:"pageNumber"`
	Title      string `bson:"title" json:"title"`
	Content    string `bson:"content" json:"content"`
}

// Post is a blog article.
// Collection: posts
type Post struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Slug        string               `bson:"slug" json:"slug"`
	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	Pages       []Page               `bson:"pages" json:"pages"`
	Author      string               `bson:"author" json:"author"`
	Image       string               `bson:"image,omitempty" json:"image,omitempty"`
	Tags        []string             `bson:"tags" json:"tags"`
	Published   bool                 `bson:"published" json:"published"`
	Views       int64                `bson:"views" json:"views"`
	Categories  []primitive.ObjectID `bson:"categories" json:"categories"`
	Section     Section              `bson:"section" json:"section"`
	CreatedAt   time.Time            `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updated_at" json:"updatedAt"`

	// LegacyContent is the flat body of posts written before pages existed.
	// Never written by this code; read only by the compatibility shim.
	LegacyContent string `bson:"content,omitempty" json:"-"`
}

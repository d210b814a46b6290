package repositories

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"folio/models"
)

type PostRepository struct {
	col *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{col: db.Collection("posts")}
}

type ListPostsOptions struct {
	Query      string
	Tag        string
	CategoryID string
	Author     string
	Section    models.Section
	// Published filters by state; nil means published only.
	Published *bool
	// Take is the page size; 0 means unlimited.
	Take int
	// Page is 1-based.
	Page int
	// SortBy is one of createdAt, updatedAt, views, title.
	SortBy string
	// SortOrder is 1 (ascending) or -1 (descending, default).
	SortOrder int
}

var sortFields = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"views":     "views",
	"title":     "title",
}

// listFilter builds the query document for opt.
func listFilter(opt ListPostsOptions) bson.M {
	filter := bson.M{}

	if opt.Published != nil {
		filter["published"] = *opt.Published
	} else {
		filter["published"] = true
	}

	if opt.Query != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(opt.Query), Options: "i"}
		filter["$or"] = []bson.M{
			{"title": re},
			{"description": re},
			{"tags": opt.Query},
			{"pages.content": re},
		}
	}

	if opt.Tag != "" {
		filter["tags"] = opt.Tag
	}

	if opt.CategoryID != "" {
		if cid, err := primitive.ObjectIDFromHex(opt.CategoryID); err == nil {
			filter["categories"] = cid
		} else {
			// malformed id matches nothing
			filter["categories"] = opt.CategoryID
		}
	}

	if opt.Author != "" {
		filter["author"] = opt.Author
	}

	// applied verbatim: an unknown section matches nothing rather than
	// widening the result to every post
	if opt.Section != "" {
		filter["section"] = opt.Section
	}

	return filter
}

// List returns posts matching opt, sorted and paginated.
func (r *PostRepository) List(ctx context.Context, opt ListPostsOptions) ([]models.Post, error) {
	filter := listFilter(opt)

	sortField, ok := sortFields[opt.SortBy]
	if !ok {
		sortField = "created_at"
	}
	order := opt.SortOrder
	if order != 1 {
		order = -1
	}

	findOpts := options.Find().SetSort(bson.D{
		{Key: sortField, Value: order},
		{Key: "_id", Value: order},
	})
	if opt.Take > 0 {
		page := opt.Page
		if page < 1 {
			page = 1
		}
		findOpts.SetSkip(int64((page - 1) * opt.Take))
		findOpts.SetLimit(int64(opt.Take))
	}

	cur, err := r.col.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var results []models.Post
	for cur.Next(ctx) {
		var p models.Post
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		results = append(results, p)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// ListAll returns every post regardless of published state, newest first.
// Used by the admin panel; never cached.
func (r *PostRepository) ListAll(ctx context.Context) ([]models.Post, error) {
	findOpts := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: -1},
		{Key: "_id", Value: -1},
	})
	cur, err := r.col.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var results []models.Post
	for cur.Next(ctx) {
		var p models.Post
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		results = append(results, p)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// FindBySlug returns a post by its normalized slug.
func (r *PostRepository) FindBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var p models.Post
	if err := r.col.FindOne(ctx, bson.M{"slug": slug}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ExistsBySlug checks if a post exists by its normalized slug.
func (r *PostRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	err := r.col.FindOne(ctx, bson.M{"slug": slug}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	return err == nil, err
}

// Insert inserts a new post document, stamping timestamps.
func (r *PostRepository) Insert(ctx context.Context, p *models.Post) (*mongo.InsertOneResult, error) {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	return r.col.InsertOne(ctx, p)
}

// Update applies set to the post with the given slug and returns the
// updated document. mongo.ErrNoDocuments when the slug is unknown.
func (r *PostRepository) Update(ctx context.Context, slug string, set bson.M) (*models.Post, error) {
	set["updated_at"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p models.Post
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"slug": slug}, bson.M{"$set": set}, opts).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ReplacePages swaps the post's page list wholesale.
func (r *PostRepository) ReplacePages(ctx context.Context, slug string, pages []models.Page) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"slug": slug}, bson.M{
		"$set": bson.M{"pages": pages, "updated_at": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes the post with the given slug. Deleting an absent slug is
// not an error.
func (r *PostRepository) Delete(ctx context.Context, slug string) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"slug": slug})
	return err
}

// IncrementViews bumps the view counter by 1. View traffic deliberately
// does not touch updated_at, so it cannot disturb updatedAt sorting.
func (r *PostRepository) IncrementViews(ctx context.Context, slug string) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"slug": slug}, bson.M{
		"$inc": bson.M{"views": 1},
	})
	return err
}

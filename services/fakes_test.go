package services_test

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"folio/models"
	"folio/repositories"
)

// fakePostStore is an in-memory services.PostStore keyed by slug. It
// mirrors the store behavior the service relies on: ErrNoDocuments for
// missing slugs, published-only default listing, updates applied as a
// field set.
type fakePostStore struct {
	posts map[string]models.Post
	incs  map[string]int
}

func newFakePostStore(seed ...models.Post) *fakePostStore {
	s := &fakePostStore{
		posts: make(map[string]models.Post),
		incs:  make(map[string]int),
	}
	for _, p := range seed {
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		s.posts[p.Slug] = p
	}
	return s
}

func (s *fakePostStore) List(_ context.Context, opt repositories.ListPostsOptions) ([]models.Post, error) {
	published := true
	if opt.Published != nil {
		published = *opt.Published
	}
	var out []models.Post
	for _, p := range s.posts {
		if p.Published == published {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakePostStore) ListAll(_ context.Context) ([]models.Post, error) {
	var out []models.Post
	for _, p := range s.posts {
		out = append(out, p)
	}
	return out, nil
}

func (s *fakePostStore) FindBySlug(_ context.Context, slug string) (*models.Post, error) {
	p, ok := s.posts[slug]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &p, nil
}

func (s *fakePostStore) ExistsBySlug(_ context.Context, slug string) (bool, error) {
	_, ok := s.posts[slug]
	return ok, nil
}

func (s *fakePostStore) Insert(_ context.Context, p *models.Post) (*mongo.InsertOneResult, error) {
	id := primitive.NewObjectID()
	p.ID = id
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	s.posts[p.Slug] = *p
	return &mongo.InsertOneResult{InsertedID: id}, nil
}

func (s *fakePostStore) Update(_ context.Context, slug string, set bson.M) (*models.Post, error) {
	p, ok := s.posts[slug]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	for k, v := range set {
		switch k {
		case "slug":
			p.Slug = v.(string)
		case "title":
			p.Title = v.(string)
		case "description":
			p.Description = v.(string)
		case "pages":
			p.Pages = v.([]models.Page)
		case "author":
			p.Author = v.(string)
		case "image":
			p.Image = v.(string)
		case "tags":
			p.Tags = v.([]string)
		case "published":
			p.Published = v.(bool)
		case "categories":
			p.Categories = v.([]primitive.ObjectID)
		case "section":
			p.Section = v.(models.Section)
		}
	}
	p.UpdatedAt = time.Now()
	if p.Slug != slug {
		delete(s.posts, slug)
	}
	s.posts[p.Slug] = p
	return &p, nil
}

func (s *fakePostStore) ReplacePages(_ context.Context, slug string, pages []models.Page) error {
	p, ok := s.posts[slug]
	if !ok {
		return mongo.ErrNoDocuments
	}
	p.Pages = pages
	p.UpdatedAt = time.Now()
	s.posts[slug] = p
	return nil
}

func (s *fakePostStore) Delete(_ context.Context, slug string) error {
	delete(s.posts, slug)
	return nil
}

func (s *fakePostStore) IncrementViews(_ context.Context, slug string) error {
	s.incs[slug]++
	if p, ok := s.posts[slug]; ok {
		p.Views++
		s.posts[slug] = p
	}
	return nil
}

// fakeCategoryStore is an in-memory services.CategoryStore.
type fakeCategoryStore struct {
	cats map[primitive.ObjectID]models.Category
}

func newFakeCategoryStore(seed ...models.Category) *fakeCategoryStore {
	s := &fakeCategoryStore{cats: make(map[primitive.ObjectID]models.Category)}
	for _, c := range seed {
		if c.ID.IsZero() {
			c.ID = primitive.NewObjectID()
		}
		s.cats[c.ID] = c
	}
	return s
}

func (s *fakeCategoryStore) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Category, error) {
	var out []models.Category
	for _, id := range ids {
		if c, ok := s.cats[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *fakeCategoryStore) FindByHexIDs(ctx context.Context, hexIDs []string) ([]models.Category, error) {
	ids := make([]primitive.ObjectID, 0, len(hexIDs))
	for _, h := range hexIDs {
		if id, err := primitive.ObjectIDFromHex(h); err == nil {
			ids = append(ids, id)
		}
	}
	return s.FindByIDs(ctx, ids)
}

// fakeViewEventStore is an in-memory services.ViewEventStore.
type fakeViewEventStore struct {
	seen map[string]struct{}
}

func newFakeViewEventStore() *fakeViewEventStore {
	return &fakeViewEventStore{seen: make(map[string]struct{})}
}

func (s *fakeViewEventStore) Exists(_ context.Context, slug, ipHash string) (bool, error) {
	_, ok := s.seen[slug+"|"+ipHash]
	return ok, nil
}

func (s *fakeViewEventStore) Insert(_ context.Context, ev *models.ViewEvent) (*mongo.InsertOneResult, error) {
	s.seen[ev.Slug+"|"+ev.IPHash] = struct{}{}
	return &mongo.InsertOneResult{InsertedID: primitive.NewObjectID()}, nil
}

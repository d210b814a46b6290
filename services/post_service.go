package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"folio/cache"
	"folio/dto"
	"folio/logger"
	"folio/models"
	"folio/pages"
	"folio/renderer"
	"folio/repositories"
)

const (
	listCacheTTL   = 60 * time.Second
	detailCacheTTL = 300 * time.Second

	tagPosts = "posts"
)

func postTag(s string) string { return "post:" + s }

// NormalizeSlug applies the canonical slug form used before every read or
// write comparison.
func NormalizeSlug(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ApplyLegacyContent is the read-boundary compatibility adapter: posts
// written before pages existed carry a flat content field, which is
// surfaced as a single synthetic page. Stored data is never mutated.
func ApplyLegacyContent(p models.Post) models.Post {
	if len(p.Pages) == 0 && p.LegacyContent != "" {
		p.Pages = []models.Page{{
			PageNumber: 1,
			Title:      p.Title,
			Content:    p.LegacyContent,
		}}
	}
	return p
}

// PostStore is the post persistence surface the service needs. Satisfied
// by repositories.PostRepository.
type PostStore interface {
	List(ctx context.Context, opt repositories.ListPostsOptions) ([]models.Post, error)
	ListAll(ctx context.Context) ([]models.Post, error)
	FindBySlug(ctx context.Context, slug string) (*models.Post, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
	Insert(ctx context.Context, p *models.Post) (*mongo.InsertOneResult, error)
	Update(ctx context.Context, slug string, set bson.M) (*models.Post, error)
	ReplacePages(ctx context.Context, slug string, pages []models.Page) error
	Delete(ctx context.Context, slug string) error
}

// CategoryStore resolves category references. Satisfied by
// repositories.CategoryRepository.
type CategoryStore interface {
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Category, error)
	FindByHexIDs(ctx context.Context, hexIDs []string) ([]models.Category, error)
}

// PostService is the query layer and the admin mutation API for posts.
// Reads go through a short-lived tag-invalidated cache; every mutation
// funnels through onMutation so invalidation coverage is structural.
type PostService struct {
	repo  PostStore
	cats  CategoryStore
	cache *cache.Cache
}

func NewPostService(repo PostStore, cats CategoryStore, c *cache.Cache) *PostService {
	return &PostService{repo: repo, cats: cats, cache: c}
}

// onMutation is the single invalidation hook behind every write path.
// The store write has already completed when it runs, so a reader that
// observes the invalidation also observes the write.
func (s *PostService) onMutation(slugs ...string) {
	s.cache.InvalidateTag(tagPosts)
	for _, sl := range slugs {
		s.cache.InvalidateTag(postTag(sl))
	}
	logger.DebugWithFields("post cache invalidated", logger.Fields{"slugs": slugs})
}

type ListOptions struct {
	Q          string
	Tag        string
	CategoryID string
	Author     string
	Section    string
	Published  *bool
	Take       int
	Page       int
	SortBy     string
	SortOrder  int
}

// List serves filtered, sorted, paginated post projections. Results are
// cached for 60s keyed by (q, tag, take) under the global posts tag.
func (s *PostService) List(ctx context.Context, opts ListOptions) ([]dto.PostDTO, error) {
	takeKey := "all"
	if opts.Take > 0 {
		takeKey = fmt.Sprintf("%d", opts.Take)
	}
	key := fmt.Sprintf("posts-%s-%s-%s", opts.Q, opts.Tag, takeKey)
	if v, ok := s.cache.Get(key); ok {
		return v.([]dto.PostDTO), nil
	}

	items, err := s.repo.List(ctx, repositories.ListPostsOptions{
		Query:      opts.Q,
		Tag:        opts.Tag,
		CategoryID: opts.CategoryID,
		Author:     opts.Author,
		Section:    models.Section(opts.Section),
		Published:  opts.Published,
		Take:       opts.Take,
		Page:       opts.Page,
		SortBy:     opts.SortBy,
		SortOrder:  opts.SortOrder,
	})
	if err != nil {
		return nil, err
	}

	cats, err := s.resolveCategories(ctx, items)
	if err != nil {
		return nil, err
	}

	out := make([]dto.PostDTO, 0, len(items))
	for _, p := range items {
		out = append(out, dto.NewPostDTO(p, cats))
	}

	s.cache.Set(key, out, listCacheTTL, tagPosts)
	return out, nil
}

// ListAll is the admin listing: drafts included, newest first, uncached.
func (s *PostService) ListAll(ctx context.Context) ([]dto.PostDTO, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	cats, err := s.resolveCategories(ctx, items)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PostDTO, 0, len(items))
	for _, p := range items {
		out = append(out, dto.NewPostDTO(p, cats))
	}
	return out, nil
}

// GetBySlug is the detail read: legacy shim applied, categories resolved,
// cached 300s under both the global and per-slug tags. A missing post is
// (nil, nil), not an error.
func (s *PostService) GetBySlug(ctx context.Context, sl string) (*dto.PostDTO, error) {
	sl = NormalizeSlug(sl)
	key := "post-" + sl
	if v, ok := s.cache.Get(key); ok {
		d := v.(dto.PostDTO)
		return &d, nil
	}

	p, err := s.repo.FindBySlug(ctx, sl)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	shimmed := ApplyLegacyContent(*p)
	cats, err := s.resolveCategories(ctx, []models.Post{shimmed})
	if err != nil {
		return nil, err
	}
	d := dto.NewPostDTO(shimmed, cats)

	s.cache.Set(key, d, detailCacheTTL, tagPosts, postTag(sl))
	return &d, nil
}

// GetRenderedPage renders one page of a post with its navigation envelope.
// The requested number is clamped into [1, pageCount]. Nil when the post
// is missing or has no stored pages.
func (s *PostService) GetRenderedPage(ctx context.Context, sl string, pageNumber int) (*dto.RenderedPage, error) {
	sl = NormalizeSlug(sl)
	p, err := s.repo.FindBySlug(ctx, sl)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	if len(p.Pages) == 0 {
		return nil, nil
	}

	ordered := pages.Normalize(p.Pages)
	idx := pageNumber - 1
	if idx < 0 {
		idx = 0
	}
	if idx > len(ordered)-1 {
		idx = len(ordered) - 1
	}
	current := ordered[idx]

	out := &dto.RenderedPage{
		PageNumber:      current.PageNumber,
		Title:           current.Title,
		ContentMarkdown: current.Content,
		ContentHTML:     renderer.ToHTML(current.Content),
		PagesCount:      len(ordered),
	}
	if idx > 0 {
		n := ordered[idx-1].PageNumber
		out.PrevPageNumber = &n
	}
	if idx < len(ordered)-1 {
		n := ordered[idx+1].PageNumber
		out.NextPageNumber = &n
	}
	out.JumpTo = make([]dto.JumpEntry, 0, len(ordered))
	for _, pg := range ordered {
		out.JumpTo = append(out.JumpTo, dto.JumpEntry{PageNumber: pg.PageNumber, Title: pg.Title})
	}
	return out, nil
}

// MutationResult is what admin write operations report back.
type MutationResult struct {
	OK   bool   `json:"ok"`
	ID   string `json:"id,omitempty"`
	Slug string `json:"slug,omitempty"`
}

type CreatePostInput struct {
	Slug               string        `json:"slug"`
	Title              string        `json:"title"`
	Description        string        `json:"description"`
	Pages              []models.Page `json:"pages"`
	Author             string        `json:"author"`
	Image              string        `json:"image"`
	Tags               []string      `json:"tags"`
	Published          bool          `json:"published"`
	Categories         []string      `json:"categories"`
	Section            string        `json:"section"`
	AutoPlaceInSection bool          `json:"autoPlaceInSection"`
}

// Create validates and stores a new post. The page list is normalized
// before the write; the cache tags are busted after it.
func (s *PostService) Create(ctx context.Context, in CreatePostInput) (*MutationResult, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, validationf("Title is required")
	}
	if strings.TrimSpace(in.Author) == "" {
		return nil, validationf("Author is required")
	}
	if len(in.Pages) == 0 {
		return nil, validationf("At least one page with content is required")
	}
	for _, pg := range in.Pages {
		if strings.TrimSpace(pg.Content) == "" {
			return nil, validationf("Page content cannot be empty")
		}
	}

	sl := NormalizeSlug(in.Slug)
	if sl == "" {
		sl = slug.Make(in.Title)
	}

	exists, err := s.repo.ExistsBySlug(ctx, sl)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrSlugExists
	}

	catIDs, err := s.verifyCategoryIDs(ctx, in.Categories)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Slug:        sl,
		Title:       in.Title,
		Description: in.Description,
		Pages:       pages.Normalize(in.Pages),
		Author:      in.Author,
		Image:       in.Image,
		Tags:        in.Tags,
		Published:   in.Published,
		Categories:  catIDs,
		Section:     resolveSection(in.Section, in.AutoPlaceInSection, len(catIDs)),
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}

	res, err := s.repo.Insert(ctx, post)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrSlugExists
		}
		return nil, err
	}

	s.onMutation(sl)
	logger.InfoWithFields("post created", logger.Fields{"slug": sl})

	id := ""
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		id = oid.Hex()
	}
	return &MutationResult{OK: true, ID: id, Slug: sl}, nil
}

// UpdatePostInput carries a partial update; nil fields are untouched.
type UpdatePostInput struct {
	Slug               *string       `json:"slug"`
	Title              *string       `json:"title"`
	Description        *string       `json:"description"`
	Pages              []models.Page `json:"pages"`
	Author             *string       `json:"author"`
	Image              *string       `json:"image"`
	Tags               []string      `json:"tags"`
	Published          *bool         `json:"published"`
	Categories         []string      `json:"categories"`
	Section            *string       `json:"section"`
	AutoPlaceInSection bool          `json:"autoPlaceInSection"`
}

// Update applies a partial update to the post with the given slug.
func (s *PostService) Update(ctx context.Context, sl string, in UpdatePostInput) (*MutationResult, error) {
	sl = NormalizeSlug(sl)

	set := bson.M{}
	if in.Slug != nil {
		newSlug := NormalizeSlug(*in.Slug)
		if newSlug == "" {
			return nil, validationf("Slug cannot be empty")
		}
		set["slug"] = newSlug
	}
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, validationf("Title is required")
		}
		set["title"] = *in.Title
	}
	if in.Description != nil {
		set["description"] = *in.Description
	}
	if len(in.Pages) > 0 {
		for _, pg := range in.Pages {
			if strings.TrimSpace(pg.Content) == "" {
				return nil, validationf("Page content cannot be empty")
			}
		}
		set["pages"] = pages.Normalize(in.Pages)
	}
	if in.Author != nil {
		set["author"] = *in.Author
	}
	if in.Image != nil {
		set["image"] = *in.Image
	}
	if in.Tags != nil {
		set["tags"] = in.Tags
	}
	if in.Published != nil {
		set["published"] = *in.Published
	}
	if in.Categories != nil {
		catIDs, err := s.verifyCategoryIDs(ctx, in.Categories)
		if err != nil {
			return nil, err
		}
		set["categories"] = catIDs
	}
	if in.AutoPlaceInSection {
		set["section"] = models.SectionCategories
	} else if in.Section != nil {
		sec := models.Section(*in.Section)
		if !sec.Valid() {
			return nil, validationf("Unknown section %q", *in.Section)
		}
		set["section"] = sec
	}

	p, err := s.repo.Update(ctx, sl, set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrSlugExists
		}
		return nil, err
	}

	// a rename busts both the old and the new slug tag
	s.onMutation(sl, p.Slug)
	return &MutationResult{OK: true, ID: p.ID.Hex(), Slug: p.Slug}, nil
}

// Delete removes a post. Deleting an already-gone slug succeeds.
func (s *PostService) Delete(ctx context.Context, sl string) error {
	sl = NormalizeSlug(sl)
	if err := s.repo.Delete(ctx, sl); err != nil {
		return err
	}
	s.onMutation(sl)
	return nil
}

// ReorderPages applies a requested page ordering (see pages.Reorder).
func (s *PostService) ReorderPages(ctx context.Context, sl string, order []pages.OrderEntry) (*MutationResult, error) {
	sl = NormalizeSlug(sl)
	p, err := s.repo.FindBySlug(ctx, sl)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	reordered := pages.Reorder(p.Pages, order)
	if err := s.repo.ReplacePages(ctx, sl, reordered); err != nil {
		return nil, err
	}

	s.onMutation(sl)
	return &MutationResult{OK: true, Slug: sl}, nil
}

// InsertPage inserts a new page at the requested position (see
// pages.Insert).
func (s *PostService) InsertPage(ctx context.Context, sl string, page models.Page) (*MutationResult, error) {
	sl = NormalizeSlug(sl)
	if strings.TrimSpace(page.Content) == "" {
		return nil, validationf("Page content cannot be empty")
	}

	p, err := s.repo.FindBySlug(ctx, sl)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	updated := pages.Insert(p.Pages, page, page.PageNumber)
	if err := s.repo.ReplacePages(ctx, sl, updated); err != nil {
		return nil, err
	}

	s.onMutation(sl)
	return &MutationResult{OK: true, Slug: sl}, nil
}

// resolveSection reproduces the create-time placement rule: an explicit
// auto-place wins, then a valid explicit section, then "categories" when
// category refs were supplied, then "content".
func resolveSection(explicit string, autoPlace bool, catCount int) models.Section {
	if autoPlace {
		return models.SectionCategories
	}
	if sec := models.Section(explicit); sec.Valid() {
		return sec
	}
	if catCount > 0 {
		return models.SectionCategories
	}
	return models.SectionContent
}

// verifyCategoryIDs filters the supplied hex ids down to categories that
// actually exist.
func (s *PostService) verifyCategoryIDs(ctx context.Context, hexIDs []string) ([]primitive.ObjectID, error) {
	if len(hexIDs) == 0 {
		return []primitive.ObjectID{}, nil
	}
	cats, err := s.cats.FindByHexIDs(ctx, hexIDs)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(cats))
	for _, c := range cats {
		ids = append(ids, c.ID)
	}
	return ids, nil
}

// resolveCategories batch-loads every category referenced by the given
// posts, keyed by hex id.
func (s *PostService) resolveCategories(ctx context.Context, posts []models.Post) (map[string]models.Category, error) {
	seen := make(map[primitive.ObjectID]struct{})
	var ids []primitive.ObjectID
	for _, p := range posts {
		for _, id := range p.Categories {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}
	cats, err := s.cats.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[string]models.Category, len(cats))
	for _, c := range cats {
		out[c.ID.Hex()] = c
	}
	return out, nil
}

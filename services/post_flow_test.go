package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/cache"
	"folio/models"
	"folio/services"
)

func newPostService(store *fakePostStore) *services.PostService {
	return services.NewPostService(store, newFakeCategoryStore(), cache.New())
}

func strPtr(s string) *string { return &s }

func seedPost(slug, title string) models.Post {
	return models.Post{
		Slug:      slug,
		Title:     title,
		Author:    "Ada",
		Published: true,
		Pages: []models.Page{
			{ID: "p1", PageNumber: 1, Title: "Page 1", Content: "body"},
		},
	}
}

func TestGetBySlugSeesUpdateDespiteCacheTTL(t *testing.T) {
	ctx := context.Background()
	store := newFakePostStore(seedPost("hello", "Before"))
	svc := newPostService(store)

	first, err := svc.GetBySlug(ctx, "hello")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "Before", first.Title)

	// the detail entry is now cached with a TTL far beyond this test
	_, err = svc.Update(ctx, "hello", services.UpdatePostInput{Title: strPtr("After")})
	require.NoError(t, err)

	second, err := svc.GetBySlug(ctx, "hello")
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, "After", second.Title)
}

func TestGetBySlugSeesDeleteImmediately(t *testing.T) {
	ctx := context.Background()
	store := newFakePostStore(seedPost("hello", "Hello"))
	svc := newPostService(store)

	first, err := svc.GetBySlug(ctx, "hello")
	require.NoError(t, err)
	require.NotNil(t, first)

	require.NoError(t, svc.Delete(ctx, "hello"))

	second, err := svc.GetBySlug(ctx, "hello")
	require.NoError(t, err)
	assert.Nil(t, second)
}

func TestListSeesCreateImmediately(t *testing.T) {
	ctx := context.Background()
	store := newFakePostStore()
	svc := newPostService(store)

	empty, err := svc.List(ctx, services.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = svc.Create(ctx, services.CreatePostInput{
		Title:     "Fresh",
		Author:    "Ada",
		Published: true,
		Pages:     []models.Page{{Content: "body"}},
	})
	require.NoError(t, err)

	listed, err := svc.List(ctx, services.ListOptions{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Fresh", listed[0].Title)
}

func TestRenameBustsBothSlugEntries(t *testing.T) {
	ctx := context.Background()
	store := newFakePostStore(seedPost("old-name", "Post"))
	svc := newPostService(store)

	first, err := svc.GetBySlug(ctx, "old-name")
	require.NoError(t, err)
	require.NotNil(t, first)

	res, err := svc.Update(ctx, "old-name", services.UpdatePostInput{Slug: strPtr("new-name")})
	require.NoError(t, err)
	assert.Equal(t, "new-name", res.Slug)

	gone, err := svc.GetBySlug(ctx, "old-name")
	require.NoError(t, err)
	assert.Nil(t, gone)

	moved, err := svc.GetBySlug(ctx, "new-name")
	require.NoError(t, err)
	require.NotNil(t, moved)
	assert.Equal(t, "Post", moved.Title)
}

func TestCreateExistingSlugFailsWithoutOverwrite(t *testing.T) {
	ctx := context.Background()
	store := newFakePostStore(seedPost("taken", "Original"))
	svc := newPostService(store)

	_, err := svc.Create(ctx, services.CreatePostInput{
		Slug:   "taken",
		Title:  "Usurper",
		Author: "Eve",
		Pages:  []models.Page{{Content: "body"}},
	})
	assert.ErrorIs(t, err, services.ErrSlugExists)

	kept, findErr := store.FindBySlug(ctx, "taken")
	require.NoError(t, findErr)
	assert.Equal(t, "Original", kept.Title)
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	svc := newPostService(newFakePostStore())

	_, err := svc.Create(ctx, services.CreatePostInput{
		Author: "Ada",
		Pages:  []models.Page{{Content: "body"}},
	})
	assert.True(t, services.IsValidation(err))

	_, err = svc.Create(ctx, services.CreatePostInput{
		Title:  "No pages",
		Author: "Ada",
	})
	assert.True(t, services.IsValidation(err))

	_, err = svc.Create(ctx, services.CreatePostInput{
		Title:  "Blank page",
		Author: "Ada",
		Pages:  []models.Page{{Content: "   "}},
	})
	assert.True(t, services.IsValidation(err))
}

func TestCreateDerivesSlugFromTitle(t *testing.T) {
	ctx := context.Background()
	store := newFakePostStore()
	svc := newPostService(store)

	res, err := svc.Create(ctx, services.CreatePostInput{
		Title:  "Hello, World!",
		Author: "Ada",
		Pages:  []models.Page{{Content: "body"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "hello-world", res.Slug)

	p, err := store.FindBySlug(ctx, "hello-world")
	require.NoError(t, err)
	require.Len(t, p.Pages, 1)
	assert.Equal(t, 1, p.Pages[0].PageNumber)
	assert.NotEmpty(t, p.Pages[0].ID)
}

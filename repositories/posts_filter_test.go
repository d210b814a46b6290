package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"folio/models"
)

func TestListFilterDefaultsToPublished(t *testing.T) {
	f := listFilter(ListPostsOptions{})
	assert.Equal(t, bson.M{"published": true}, f)
}

func TestListFilterPublishedOverride(t *testing.T) {
	drafts := false
	f := listFilter(ListPostsOptions{Published: &drafts})
	assert.Equal(t, false, f["published"])
}

func TestListFilterQuerySearchesAllFields(t *testing.T) {
	f := listFilter(ListPostsOptions{Query: "go 1.22"})
	or, ok := f["$or"].([]bson.M)
	require.True(t, ok)
	require.Len(t, or, 4)

	re, ok := or[0]["title"].(primitive.Regex)
	require.True(t, ok)
	// the query is matched literally, not as a pattern
	assert.Equal(t, `go 1\.22`, re.Pattern)
	assert.Equal(t, "i", re.Options)
	assert.Equal(t, "go 1.22", or[2]["tags"])
}

func TestListFilterSectionAppliedVerbatim(t *testing.T) {
	f := listFilter(ListPostsOptions{Section: models.SectionCategories})
	assert.Equal(t, models.SectionCategories, f["section"])

	// an unknown section still reaches the query, where it matches no
	// document, instead of silently widening the listing
	f = listFilter(ListPostsOptions{Section: "bogus"})
	assert.Equal(t, models.Section("bogus"), f["section"])
}

func TestListFilterMalformedCategoryIDMatchesNothing(t *testing.T) {
	f := listFilter(ListPostsOptions{CategoryID: "not-a-hex-id"})
	assert.Equal(t, "not-a-hex-id", f["categories"])

	id := primitive.NewObjectID()
	f = listFilter(ListPostsOptions{CategoryID: id.Hex()})
	assert.Equal(t, id, f["categories"])
}

package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/models"
	"folio/services"
)

func TestNormalizeSlug(t *testing.T) {
	assert.Equal(t, "hello-world", services.NormalizeSlug("  Hello-World \n"))
	assert.Equal(t, "", services.NormalizeSlug("   "))
}

func TestApplyLegacyContentSynthesizesPage(t *testing.T) {
	p := models.Post{
		Title:         "Old Post",
		LegacyContent: "Legacy text",
	}
	out := services.ApplyLegacyContent(p)
	require.Len(t, out.Pages, 1)
	assert.Equal(t, 1, out.Pages[0].PageNumber)
	assert.Equal(t, "Old Post", out.Pages[0].Title)
	assert.Equal(t, "Legacy text", out.Pages[0].Content)

	// input is a value; the shim never mutates the caller's post
	assert.Empty(t, p.Pages)
}

func TestApplyLegacyContentLeavesPagedPostsAlone(t *testing.T) {
	p := models.Post{
		Title:         "New Post",
		LegacyContent: "stale leftover",
		Pages: []models.Page{
			{PageNumber: 1, Title: "Page 1", Content: "real"},
		},
	}
	out := services.ApplyLegacyContent(p)
	require.Len(t, out.Pages, 1)
	assert.Equal(t, "real", out.Pages[0].Content)
}

func TestApplyLegacyContentNoContentNoPages(t *testing.T) {
	out := services.ApplyLegacyContent(models.Post{Title: "Empty"})
	assert.Empty(t, out.Pages)
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"folio/services"
)

// ListPostsHandler godoc
// @Summary      List posts
// @Description  List published posts with filters, sorting and pagination
// @Tags         blog
// @Param        q          query  string  false  "Free-text query (title, description, tags, page content)"
// @Param        tag        query  string  false  "Exact tag"
// @Param        categoryId query  string  false  "Category id"
// @Param        author     query  string  false  "Author"
// @Param        section    query  string  false  "Section (content|categories|other)"
// @Param        published  query  bool    false  "Published state (default: published only)"
// @Param        take       query  int     false  "Page size (0 = unlimited)"
// @Param        page       query  int     false  "Page number (1-based)"
// @Param        sortBy     query  string  false  "createdAt|updatedAt|views|title"
// @Param        sortOrder  query  string  false  "asc|desc (also 1|-1)"
// @Produce      json
// @Success      200  {array}  dto.PostDTO
// @Router       /blog [get]
func ListPostsHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var opts services.ListOptions
		opts.Q = c.Query("q")
		opts.Tag = c.Query("tag")
		opts.CategoryID = c.Query("categoryId")
		opts.Author = c.Query("author")
		opts.Section = c.Query("section")
		if v := c.Query("published"); v != "" {
			b := v == "true"
			opts.Published = &b
		}
		opts.Take, _ = strconv.Atoi(c.DefaultQuery("take", "0"))
		opts.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
		opts.SortBy = c.Query("sortBy")
		opts.SortOrder = parseSortOrder(c.Query("sortOrder"))

		items, err := svc.List(c.Request.Context(), opts)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// GetPostHandler godoc
// @Summary      Get post by slug
// @Tags         blog
// @Param        slug  path  string  true  "Post slug"
// @Produce      json
// @Success      200  {object}  dto.PostDTO
// @Failure      404  {object}  map[string]string
// @Router       /blog/{slug} [get]
func GetPostHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		post, err := svc.GetBySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			writeError(c, err)
			return
		}
		if post == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.JSON(http.StatusOK, post)
	}
}

// GetPostPageHandler godoc
// @Summary      Get post detail plus one rendered page
// @Description  Renders the requested page (clamped to the page range) with its navigation envelope
// @Tags         blog
// @Param        slug  path   string  true   "Post slug"
// @Param        page  query  int     false  "1-based page number"
// @Produce      json
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]string
// @Router       /blog/{slug}/page [get]
func GetPostPageHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := c.Param("slug")
		pageNumber, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		if pageNumber < 1 {
			pageNumber = 1
		}

		post, err := svc.GetBySlug(c.Request.Context(), slug)
		if err != nil {
			writeError(c, err)
			return
		}
		rendered, err := svc.GetRenderedPage(c.Request.Context(), slug, pageNumber)
		if err != nil {
			writeError(c, err)
			return
		}
		if post == nil || rendered == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"blog": gin.H{
				"slug":        post.Slug,
				"title":       post.Title,
				"description": post.Description,
				"author":      post.Author,
				"image":       post.Image,
				"tags":        post.Tags,
				"views":       post.Views,
				"categories":  post.Categories,
				"published":   post.Published,
				"createdAt":   post.CreatedAt,
				"updatedAt":   post.UpdatedAt,
			},
			"page": rendered,
		})
	}
}

func parseSortOrder(v string) int {
	switch v {
	case "asc", "1":
		return 1
	default:
		return -1
	}
}

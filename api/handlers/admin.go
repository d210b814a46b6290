package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"folio/models"
	"folio/pages"
	"folio/services"
)

// AdminListPostsHandler godoc
// @Summary      List all posts including drafts
// @Tags         admin
// @Produce      json
// @Success      200  {array}  dto.PostDTO
// @Failure      401  {object}  map[string]string
// @Router       /admin/posts [get]
func AdminListPostsHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svc.ListAll(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// CreatePostHandler godoc
// @Summary      Create a post
// @Tags         admin
// @Accept       json
// @Param        body  body  services.CreatePostInput  true  "Post fields including pages"
// @Produce      json
// @Success      201  {object}  services.MutationResult
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /admin/posts [post]
func CreatePostHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.CreatePostInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		res, err := svc.Create(c.Request.Context(), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, res)
	}
}

// UpdatePostHandler godoc
// @Summary      Update a post
// @Tags         admin
// @Accept       json
// @Param        slug  path  string                    true  "Post slug"
// @Param        body  body  services.UpdatePostInput  true  "Fields to change"
// @Produce      json
// @Success      200  {object}  services.MutationResult
// @Failure      404  {object}  map[string]string
// @Router       /admin/posts/{slug} [patch]
func UpdatePostHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.UpdatePostInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		res, err := svc.Update(c.Request.Context(), c.Param("slug"), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// DeletePostHandler godoc
// @Summary      Delete a post
// @Description  Deleting an already-absent slug succeeds
// @Tags         admin
// @Param        slug  path  string  true  "Post slug"
// @Produce      json
// @Success      200  {object}  map[string]bool
// @Router       /admin/posts/{slug} [delete]
func DeletePostHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("slug")); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// ReorderPagesHandler godoc
// @Summary      Reorder a post's pages
// @Description  Requested page numbers are an ordering hint; the result is renumbered from 1
// @Tags         admin
// @Accept       json
// @Param        slug  path  string  true  "Post slug"
// @Param        body  body  object{order=[]pages.OrderEntry}  true  "Target ordering"
// @Produce      json
// @Success      200  {object}  services.MutationResult
// @Failure      404  {object}  map[string]string
// @Router       /admin/posts/{slug}/reorder-pages [patch]
func ReorderPagesHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Order []pages.OrderEntry `json:"order"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		res, err := svc.ReorderPages(c.Request.Context(), c.Param("slug"), body.Order)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// InsertPageHandler godoc
// @Summary      Insert a page into a post
// @Description  The position is clamped into [1, pageCount+1]; later pages shift up
// @Tags         admin
// @Accept       json
// @Param        slug  path  string       true  "Post slug"
// @Param        body  body  models.Page  true  "New page (pageNumber is the target position)"
// @Produce      json
// @Success      200  {object}  services.MutationResult
// @Failure      404  {object}  map[string]string
// @Router       /admin/posts/{slug}/insert-page [post]
func InsertPageHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var page models.Page
		if err := c.ShouldBindJSON(&page); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		res, err := svc.InsertPage(c.Request.Context(), c.Param("slug"), page)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

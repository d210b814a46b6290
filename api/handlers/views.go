package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"folio/services"
)

// TrackViewHandler godoc
// @Summary      Record a post view
// @Description  At most one counted view per client per post per 6-hour window
// @Tags         views
// @Accept       json
// @Param        body  body  object{slug=string}  true  "Post slug"
// @Produce      json
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]string
// @Router       /views [post]
func TrackViewHandler(svc *services.ViewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Slug string `json:"slug"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || body.Slug == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing slug"})
			return
		}

		ip := services.ClientIP(c.Request)
		rateLimited, err := svc.Track(c.Request.Context(), body.Slug, ip)
		if err != nil {
			writeError(c, err)
			return
		}
		if rateLimited {
			c.JSON(http.StatusOK, gin.H{"ok": true, "rateLimited": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

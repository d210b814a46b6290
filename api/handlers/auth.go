package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"folio/logger"
	"folio/services"
)

// LoginHandler godoc
// @Summary      Sign in
// @Description  Sets the HTTP-only session cookie on success
// @Tags         auth
// @Accept       json
// @Param        body  body  object{email=string,password=string}  true  "Credentials"
// @Produce      json
// @Success      200  {object}  map[string]bool
// @Failure      401  {object}  map[string]string
// @Router       /login [post]
func LoginHandler(svc *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		principal, err := svc.Login(c.Request.Context(), body.Email, body.Password)
		if err != nil {
			writeError(c, err)
			return
		}

		session := sessions.Default(c)
		SetPrincipal(session, *principal)
		if err := session.Save(); err != nil {
			writeError(c, err)
			return
		}

		logger.InfoWithFields("user signed in", logger.Fields{"email": principal.Email})
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// LogoutHandler godoc
// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]bool
// @Router       /logout [post]
func LogoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		ClearPrincipal(session)
		_ = session.Save()
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

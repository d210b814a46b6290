package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"folio/models"
	"folio/services"
)

const (
	sessionKeyUserID    = "user_id"
	sessionKeyUserEmail = "user_email"
	sessionKeyUserName  = "user_name"
	sessionKeyUserRole  = "user_role"
)

// SetPrincipal stores the signed-in user in the session cookie.
func SetPrincipal(session sessions.Session, p services.Principal) {
	session.Set(sessionKeyUserID, p.ID)
	session.Set(sessionKeyUserEmail, p.Email)
	session.Set(sessionKeyUserName, p.Name)
	session.Set(sessionKeyUserRole, p.Role)
}

// ClearPrincipal removes the signed-in user from the session.
func ClearPrincipal(session sessions.Session) {
	session.Clear()
}

// CurrentPrincipal reads the session principal, if any.
func CurrentPrincipal(c *gin.Context) (services.Principal, bool) {
	session := sessions.Default(c)
	id, _ := session.Get(sessionKeyUserID).(string)
	if id == "" {
		return services.Principal{}, false
	}
	email, _ := session.Get(sessionKeyUserEmail).(string)
	name, _ := session.Get(sessionKeyUserName).(string)
	role, _ := session.Get(sessionKeyUserRole).(string)
	return services.Principal{ID: id, Email: email, Name: name, Role: role}, true
}

// RequireAdmin rejects requests without an admin session. The response
// never reveals whether the targeted resource exists.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := CurrentPrincipal(c)
		if !ok || p.Role != models.RoleAdmin {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}

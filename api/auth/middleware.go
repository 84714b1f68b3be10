package auth

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/jon4hz/yurei/api/models"
)

// RequireAuth rejects requests without a valid session. The user is stored
// in the gin context under "user".
func (p *Provider) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := userFromSession(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, models.Response{Success: false, Error: "unauthorized"})
			c.Abort()
			return
		}
		c.Set("user", user)
		c.Next()
	}
}

// OptionalAuth attaches the user to the context when a session exists but
// never rejects the request.
func (p *Provider) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := userFromSession(c); user != nil {
			c.Set("user", user)
		}
		c.Next()
	}
}

// RequireAdmin rejects non-admin users. Must run after RequireAuth.
func (p *Provider) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := c.MustGet("user").(*models.SessionUser)
		if !ok || !user.IsAdmin {
			c.JSON(http.StatusForbidden, models.Response{Success: false, Error: "forbidden"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the session user attached by the auth middleware, or
// nil when the request is anonymous.
func CurrentUser(c *gin.Context) *models.SessionUser {
	if user, ok := c.Get("user"); ok {
		if su, ok := user.(*models.SessionUser); ok {
			return su
		}
	}
	return nil
}

func userFromSession(c *gin.Context) *models.SessionUser {
	session := sessions.Default(c)
	userID, ok := session.Get(sessionUserID).(uint)
	if !ok || userID == 0 {
		return nil
	}
	return &models.SessionUser{
		ID:       userID,
		Username: getSessionString(session, sessionUserName),
		IsAdmin:  getSessionBool(session, sessionUserIsAdmin),
	}
}

func getSessionString(session sessions.Session, key string) string {
	if val := session.Get(key); val != nil {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

func getSessionBool(session sessions.Session, key string) bool {
	if val := session.Get(key); val != nil {
		if b, ok := val.(bool); ok {
			return b
		}
	}
	return false
}

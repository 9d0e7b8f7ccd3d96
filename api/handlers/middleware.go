package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/electodo/electodo/internal/auth"
)

const sessionKey = "session"

// RequireSession validates the Bearer token and stores the session on the
// request context for the handlers behind it.
func (h *Handler) RequireSession(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
		return
	}

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "malformed authorization header"})
		return
	}

	session, err := h.auth.Parse(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
		return
	}

	c.Set(sessionKey, session)
	c.Next()
}

// currentSession returns the session stored by RequireSession.
func currentSession(c *gin.Context) *auth.Session {
	return c.MustGet(sessionKey).(*auth.Session)
}

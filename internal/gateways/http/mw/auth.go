package mw

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-openapi/strfmt"

	"notarycalc/internal/auth"
	"notarycalc/internal/usecase"
)

// SessionCookie is the cookie name browsers send the session token in.
const SessionCookie = "session"

const tokenKey = "session_token"

// Authenticator resolves a session token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (strfmt.UUID, error)
}

// RequireSession rejects requests without a live session and stores the user id in the request context.
func RequireSession(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token, _ = c.Cookie(SessionCookie)
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		userID, err := a.Authenticate(c.Request.Context(), token)
		switch {
		case errors.Is(err, usecase.ErrUnauthorized):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		case err != nil:
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.Set(tokenKey, token)
		c.Request = c.Request.WithContext(auth.ContextWithUser(c.Request.Context(), userID))
		c.Next()
	}
}

// SessionToken returns the raw token the current request was authenticated with.
func SessionToken(c *gin.Context) string {
	return c.GetString(tokenKey)
}

// UserID returns the authenticated user of the request.
func UserID(c *gin.Context) (strfmt.UUID, bool) {
	return auth.UserFromContext(c.Request.Context())
}

func bearerToken(h string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(h), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

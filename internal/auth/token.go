package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/go-openapi/strfmt"
)

const tokenBytes = 32

// NewToken returns a random URL-safe opaque token.
func NewToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// TokenDigest is the storage key for a token; raw tokens are never persisted.
func TokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

type contextKey string

const userContextKey contextKey = "auth_user"

// ContextWithUser stores the authenticated user id.
func ContextWithUser(ctx context.Context, userID strfmt.UUID) context.Context {
	return context.WithValue(ctx, userContextKey, userID)
}

// UserFromContext returns the authenticated user id, false when the request is anonymous.
func UserFromContext(ctx context.Context) (strfmt.UUID, bool) {
	id, ok := ctx.Value(userContextKey).(strfmt.UUID)
	return id, ok && id != ""
}

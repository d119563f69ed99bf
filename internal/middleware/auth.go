package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/isaiahpere/notion-clony/internal/auth"
	"github.com/isaiahpere/notion-clony/internal/errors"
)

// UserIDKey is the gin context key holding the authenticated subject.
const UserIDKey = "user_id"

func bearerToken(ctx *gin.Context) string {
	authHeader := ctx.GetHeader("Authorization")
	if authHeader != "" {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ctx.Query("token")
}

// RequireAuth rejects the request with 401 unless a valid bearer token
// is presented. On success the subject is stored under UserIDKey.
func RequireAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := bearerToken(ctx)
		if token == "" {
			ctx.Error(errors.Unauthorized("Not authenticated", nil))
			ctx.Abort()
			return
		}

		userID, err := auth.VerifyToken(token)
		if err != nil {
			ctx.Error(errors.Unauthorized("Invalid token", err))
			ctx.Abort()
			return
		}

		ctx.Set(UserIDKey, userID)
		ctx.Next()
	}
}

// OptionalAuth resolves the caller identity when a token is present but
// lets anonymous requests through. Published documents are readable
// without any identity, so the document show route uses this instead of
// RequireAuth.
func OptionalAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := bearerToken(ctx)
		if token == "" {
			ctx.Next()
			return
		}

		userID, err := auth.VerifyToken(token)
		if err != nil {
			// A malformed token is treated as anonymous, not rejected
			ctx.Next()
			return
		}

		ctx.Set(UserIDKey, userID)
		ctx.Next()
	}
}

// SubjectFromContext returns the authenticated subject or "" for an
// anonymous caller.
func SubjectFromContext(ctx *gin.Context) string {
	if v, ok := ctx.Get(UserIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/syncstash/syncstash/internal/server/auth"
	"github.com/syncstash/syncstash/internal/server/handlers/api"
)

const (
	bearerPrefix   = "Bearer "
	authHeader     = "Authorization"
	userContextKey = "user"
)

// BearerAuth validates the Authorization header before any handler runs.
// Preflight answers OPTIONS earlier in the chain, so everything that
// reaches this middleware must carry a valid token.
func BearerAuth(authService *auth.AuthService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeaderValue := ctx.GetHeader(authHeader)
		if authHeaderValue == "" {
			api.AbortWithError(ctx, http.StatusUnauthorized, api.CodeUnauthorized, errors.New("authorization header is missing"))
			return
		}

		if !strings.HasPrefix(authHeaderValue, bearerPrefix) {
			api.AbortWithError(ctx, http.StatusUnauthorized, api.CodeUnauthorized, errors.New("authorization header format must be Bearer {token}"))
			return
		}

		tokenString := strings.TrimPrefix(authHeaderValue, bearerPrefix)
		if tokenString == "" {
			api.AbortWithError(ctx, http.StatusUnauthorized, api.CodeUnauthorized, errors.New("token is missing"))
			return
		}

		subject, err := authService.ValidateToken(ctx, tokenString)
		if err != nil {
			api.AbortWithError(ctx, http.StatusUnauthorized, api.CodeUnauthorized, err)
			return
		}

		ctx.Set(userContextKey, subject)
		ctx.Next()
	}
}

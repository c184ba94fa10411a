package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/taskflow-dev/taskflow/internal/apperrors"
	"github.com/taskflow-dev/taskflow/internal/services"
	"github.com/taskflow-dev/taskflow/internal/types"
	"github.com/taskflow-dev/taskflow/internal/utils"
)

// AuthMiddleware resolves the bearer token to a user and attaches the
// identity to the request context. Token verification lives in the identity
// service so the 401 taxonomy has a single home.
func AuthMiddleware(identity *services.IdentityService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")

		if authHeader == "" {
			abortUnauthorized(ctx, "Authorization token is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)

		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(ctx, "Authorization header format must be Bearer {token}")
			return
		}

		user, err := identity.Authenticate(parts[1])

		if err != nil {
			utils.WriteError(ctx, err)
			ctx.Abort()
			return
		}

		ctx.Set(types.ContextUserKey, types.AuthenticatedUser{
			ID:        user.ID,
			Name:      user.Name,
			Email:     user.Email,
			Slug:      user.Slug,
			CreatedAt: user.CreatedAt,
			UpdatedAt: user.UpdatedAt,
		})
		ctx.Next()
	}
}

func abortUnauthorized(ctx *gin.Context, message string) {
	utils.WriteError(ctx, apperrors.Authentication(message))
	ctx.Abort()
}

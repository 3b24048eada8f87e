package middleware

import (
	"net/http"
	"strings"

	"github.com/ecoconnect-dev/ecoconnect/internal/auth"
	"github.com/ecoconnect-dev/ecoconnect/internal/store"
	"github.com/ecoconnect-dev/ecoconnect/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type AuthenticatedUser struct {
	ID       uint       `json:"id"`
	Username string     `json:"username"`
	Email    string     `json:"email"`
	Role     types.Role `json:"role"`
}

// Auth resolves the session token (Bearer header or cookie) to a local
// user and stores it on the request context.
func Auth(tokens *auth.JWT, st *store.Store) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString := extractToken(ctx)

		if tokenString == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token is required"})
			return
		}

		token, err := tokens.Verify(tokenString)

		if err != nil || !token.Valid {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)

		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		userIDFloat, ok := claims["user_id"].(float64)

		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID in token claims"})
			return
		}

		user, err := st.GetUser(uint(userIDFloat))

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}

		ctx.Set(types.ContextUserKey, AuthenticatedUser{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Role:     user.Role,
		})
		ctx.Next()
	}
}

// RequireRole gates a route to the given roles. Must run after Auth.
func RequireRole(roles ...types.Role) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		value, exists := ctx.Get(types.ContextUserKey)

		if !exists {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		user, ok := value.(AuthenticatedUser)

		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		for _, role := range roles {
			if user.Role == role {
				ctx.Next()
				return
			}
		}

		ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient role for this operation"})
	}
}

func extractToken(ctx *gin.Context) string {
	authHeader := ctx.GetHeader("Authorization")

	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)

		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}

		return ""
	}

	if cookie, err := ctx.Cookie("token"); err == nil {
		return cookie
	}

	return ""
}

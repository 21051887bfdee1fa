package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/witthaya/event-booking-api/internal/domain"
	"github.com/witthaya/event-booking-api/internal/dto"
)

// Context keys set by the auth middleware and read by handlers.
const (
	ContextUserID   = "user_id"
	ContextUserRole = "user_role"
)

// AuthConfig configures JWT verification
type AuthConfig struct {
	Secret string
	Issuer string
}

// Auth verifies the Bearer token on the request and stores the caller's
// identity in the gin context. Tokens must be HMAC-signed; any other signing
// method is rejected.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			abortUnauthorized(c, "invalid authorization header")
			return
		}

		opts := []jwt.ParserOption{
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		}
		if cfg.Issuer != "" {
			opts = append(opts, jwt.WithIssuer(cfg.Issuer))
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			return []byte(cfg.Secret), nil
		}, opts...)
		if err != nil || !token.Valid {
			abortUnauthorized(c, "invalid token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c, "invalid claims")
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			abortUnauthorized(c, "invalid claims")
			return
		}

		role := domain.RoleUser.String()
		if r, ok := claims["role"].(string); ok && r != "" {
			role = r
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextUserRole, role)
		c.Next()
	}
}

// AdminOnly rejects callers whose role claim is not ADMIN. It must run after
// Auth on the same route group.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextUserRole) != domain.RoleAdmin.String() {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{
				Error: "admin access required",
				Code:  "FORBIDDEN",
			})
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
		Error: msg,
		Code:  "UNAUTHORIZED",
	})
}

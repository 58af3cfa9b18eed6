package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cloudvorkala/SPEED/helper"
	"github.com/cloudvorkala/SPEED/policy"
	"github.com/cloudvorkala/SPEED/services"
)

const (
	identityKey = "identity"
	claimsKey   = "claims"
)

var HTTPHelper = &helper.HTTPHelper{}

// AuthMiddleware requires a valid bearer token and stores the caller's
// identity on the context.
func AuthMiddleware(authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			HTTPHelper.SendUnauthorizedError(c, "Authorization header required", HTTPHelper.EmptyJsonMap())
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			HTTPHelper.SendUnauthorizedError(c, "Bearer token required", HTTPHelper.EmptyJsonMap())
			c.Abort()
			return
		}

		claims, err := authService.ParseToken(c.Request.Context(), tokenString)
		if err != nil {
			HTTPHelper.SendServiceError(c, err)
			c.Abort()
			return
		}

		c.Set(claimsKey, claims)
		c.Set(identityKey, claims.Identity())

		c.Next()
	}
}

// RequireRole admits callers holding any of roles, matched
// case-insensitively. No role implies another.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := CurrentIdentity(c)
		if identity == nil {
			HTTPHelper.SendUnauthorizedError(c, "Authentication required", HTTPHelper.EmptyJsonMap())
			c.Abort()
			return
		}

		if !policy.Allows(identity, roles...) {
			HTTPHelper.SendForbiddenError(c, "Insufficient permissions", HTTPHelper.EmptyJsonMap())
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentIdentity returns the authenticated caller or nil.
func CurrentIdentity(c *gin.Context) *policy.Identity {
	value, exists := c.Get(identityKey)
	if !exists {
		return nil
	}
	identity, _ := value.(*policy.Identity)
	return identity
}

// CurrentClaims returns the parsed token of the caller or nil.
func CurrentClaims(c *gin.Context) *services.TokenClaims {
	value, exists := c.Get(claimsKey)
	if !exists {
		return nil
	}
	claims, _ := value.(*services.TokenClaims)
	return claims
}

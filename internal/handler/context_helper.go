package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ispkai/docrepo-api/internal/middleware"
	"github.com/ispkai/docrepo-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// userIDFromContext returns the caller's user id or nil for anonymous
// requests. Used for event attribution on public routes.
func userIDFromContext(c *gin.Context) *string {
	claims := claimsFromContext(c)
	if claims == nil {
		return nil
	}
	return &claims.UserID
}

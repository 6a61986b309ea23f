package api

import (
	"storefront-be/internal/auth"
	"storefront-be/internal/utils"

	"github.com/gin-gonic/gin"
)

// RequireAuth rejects requests that reach it without a verified principal.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := utils.GetUserIDFromContext(c.Request.Context()); !ok {
			respondError(c, errUnauthorized)
			return
		}
		c.Next()
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if utils.GetUserRoleFromContext(c.Request.Context()) != role {
			respondError(c, errForbidden)
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) uint {
	id, _ := utils.GetUserIDFromContext(c.Request.Context())
	return id
}

func isAdmin(c *gin.Context) bool {
	return utils.GetUserRoleFromContext(c.Request.Context()) == auth.RoleAdmin
}

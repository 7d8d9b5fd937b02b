package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classroom-dashboard/internal/models"
	appErrors "github.com/noah-isme/classroom-dashboard/pkg/errors"
	"github.com/noah-isme/classroom-dashboard/pkg/response"
)

// ContextRoleKey holds the session role on the gin context.
const ContextRoleKey = "session_role"

// SessionRole stamps the configured session role on every request.
func SessionRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextRoleKey, role)
		c.Next()
	}
}

// RequireRoles rejects requests whose session role is not allowed.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		value, exists := c.Get(ContextRoleKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		role, _ := value.(models.Role)
		if _, ok := allowed[role]; ok {
			c.Next()
			return
		}
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, fmt.Sprintf("not available to a %s session", role)))
		c.Abort()
	}
}

package middlewares

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cityfix-be/models"
	"cityfix-be/storage"
)

// RequireAdmin gates a route group to admin accounts. Must run after
// AuthMiddleware so "user_email" is present.
func RequireAdmin(users *storage.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, exists := c.Get("user_email")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			c.Abort()
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		user, err := users.FindByEmail(ctx, email.(string))
		if err != nil || user.Role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin only route"})
			c.Abort()
			return
		}

		c.Next()
	}
}

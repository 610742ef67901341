package routes

import (
	"github.com/gin-gonic/gin"

	"cityfix-be/controllers"
	"cityfix-be/middlewares"
)

// UserRoutes sets up the user profile routes
func UserRoutes(r *gin.Engine, users *controllers.UserController) {
	group := r.Group("/api/users")
	{
		group.POST("", users.SaveUser)
		group.GET("/role/:email", users.GetRole)
		group.GET("/:email", middlewares.AuthMiddleware(), users.GetUser)
		group.PATCH("/:email", middlewares.AuthMiddleware(), users.UpdateProfile)
	}
}

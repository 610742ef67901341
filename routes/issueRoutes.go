package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"cityfix-be/controllers"
	"cityfix-be/middlewares"
)

// IssueRoutes sets up the issue routes
func IssueRoutes(r *gin.Engine, issues *controllers.IssueController, rdb *redis.Client) {
	group := r.Group("/api/issues")
	{
		group.GET("", issues.List)
		group.POST("", middlewares.AuthMiddleware(), middlewares.IssueRateLimiter(rdb, 10), issues.Create)
		group.GET("/mine", middlewares.AuthMiddleware(), issues.MyIssues)
		group.GET("/:id", issues.GetOne)
		group.PATCH("/:id", middlewares.AuthMiddleware(), issues.Update)
		group.DELETE("/:id", middlewares.AuthMiddleware(), issues.Delete)
		group.PATCH("/upvote/:id", middlewares.AuthMiddleware(), issues.Upvote)
	}
}

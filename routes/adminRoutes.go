package routes

import (
	"github.com/gin-gonic/gin"

	"cityfix-be/controllers"
	"cityfix-be/middlewares"
	"cityfix-be/storage"
)

// AdminRoutes sets up the admin moderation routes
func AdminRoutes(r *gin.Engine, admin *controllers.AdminController, users *storage.UserStore) {
	group := r.Group("/api/admin", middlewares.AuthMiddleware(), middlewares.RequireAdmin(users))
	{
		group.GET("/dashboard/stats", admin.Stats)
		group.GET("/issues", admin.ListIssues)
		group.PATCH("/issues/:id/assign", admin.Assign)
		group.PATCH("/issues/:id/reject", admin.Reject)
		group.GET("/users", admin.ListCitizens)
		group.PATCH("/users/:email/block", admin.BlockUser)
		group.PATCH("/users/:email/unblock", admin.UnblockUser)
		group.POST("/staff", admin.CreateStaff)
		group.GET("/staff", admin.ListStaff)
		group.PATCH("/staff/:email", admin.UpdateStaff)
		group.DELETE("/staff/:email", admin.DeleteStaff)
		group.GET("/payments", admin.ListPayments)
	}
}

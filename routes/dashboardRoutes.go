package routes

import (
	"github.com/gin-gonic/gin"

	"cityfix-be/controllers"
	"cityfix-be/middlewares"
)

// DashboardRoutes sets up the citizen and staff dashboard routes
func DashboardRoutes(r *gin.Engine, dashboard *controllers.DashboardController, issues *controllers.IssueController) {
	group := r.Group("/api/dashboard", middlewares.AuthMiddleware())
	{
		group.GET("/citizen/stats", dashboard.CitizenStats)
		group.GET("/staff/issues", dashboard.StaffIssues)
		group.GET("/staff/stats", dashboard.StaffStats)
		group.PATCH("/staff/status/:id", issues.Transition)
	}
}

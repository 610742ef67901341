package routes

import (
	"github.com/gin-gonic/gin"

	"cityfix-be/controllers"
	"cityfix-be/middlewares"
)

// PaymentRoutes sets up the checkout and confirmation routes
func PaymentRoutes(r *gin.Engine, payments *controllers.PaymentController) {
	group := r.Group("/api/payments")
	{
		group.POST("/boost-issue", middlewares.AuthMiddleware(), payments.BoostCheckout)
		group.GET("/boost-success", payments.BoostSuccess)
		group.POST("/subscribe", middlewares.AuthMiddleware(), payments.SubscribeCheckout)
		group.GET("/subscribe-success", payments.SubscribeSuccess)
	}
}

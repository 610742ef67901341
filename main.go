package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/stripe/stripe-go/v79"

	"cityfix-be/config"
	"cityfix-be/controllers"
	"cityfix-be/core"
	"cityfix-be/routes"
	"cityfix-be/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	db := config.ConnectDB()
	if db == nil {
		log.Fatal("Failed to connect to MongoDB")
	}
	log.Println("MongoDB connection established successfully!")

	rdb := config.ConnectRedis()

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	issueStore := storage.NewIssueStore(db)
	voteStore := storage.NewVoteStore(db)
	userStore := storage.NewUserStore(db)
	paymentStore := storage.NewPaymentStore(db)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := voteStore.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create vote index: %v", err)
	}
	cancel()

	quota := core.NewQuotaPolicy(userStore, issueStore)
	timeline := core.NewTimelineRecorder(issueStore)
	lifecycle := core.NewLifecycle(issueStore, voteStore, quota, timeline)
	ledger := core.NewVoteLedger(issueStore, voteStore)
	escalation := core.NewEscalation(issueStore, userStore, paymentStore, timeline)

	authController := controllers.NewAuthController(userStore)
	issueController := controllers.NewIssueController(db, lifecycle, ledger, userStore)
	userController := controllers.NewUserController(userStore)
	dashboardController := controllers.NewDashboardController(db, paymentStore)
	adminController := controllers.NewAdminController(db, userStore, paymentStore, lifecycle)
	paymentController := controllers.NewPaymentController(escalation, userStore)

	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	routes.AuthRoutes(r, authController)
	routes.IssueRoutes(r, issueController, rdb)
	routes.UserRoutes(r, userController)
	routes.DashboardRoutes(r, dashboardController, issueController)
	routes.AdminRoutes(r, adminController, userStore)
	routes.PaymentRoutes(r, paymentController)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

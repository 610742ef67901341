package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"cityfix-be/models"
	"cityfix-be/storage"
)

type DashboardController struct {
	issues   *mongo.Collection
	payments *storage.PaymentStore
}

func NewDashboardController(db *mongo.Database, payments *storage.PaymentStore) *DashboardController {
	return &DashboardController{
		issues:   db.Collection("issues"),
		payments: payments,
	}
}

// CitizenStats returns per-status issue counts and payment count for the
// authenticated citizen
func (d *DashboardController) CitizenStats(c *gin.Context) {
	email, ok := actorEmail(c)
	if !ok {
		return
	}
	if q := c.Query("email"); q != "" && q != email {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	countByStatus := func(status models.IssueStatus) int64 {
		count, err := d.issues.CountDocuments(ctx, bson.M{"userEmail": email, "status": status})
		if err != nil {
			return 0
		}
		return count
	}

	total, err := d.issues.CountDocuments(ctx, bson.M{"userEmail": email})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	paymentCount, err := d.payments.CountByEmail(ctx, email)
	if err != nil {
		paymentCount = 0
	}

	c.JSON(http.StatusOK, gin.H{
		"total":      total,
		"pending":    countByStatus(models.StatusPending),
		"inProgress": countByStatus(models.StatusInProgress),
		"working":    countByStatus(models.StatusWorking),
		"resolved":   countByStatus(models.StatusResolved),
		"closed":     countByStatus(models.StatusClosed),
		"payments":   paymentCount,
	})
}

// StaffIssues lists the issues assigned to the authenticated staff member,
// highest priority first
func (d *DashboardController) StaffIssues(c *gin.Context) {
	email, ok := actorEmail(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{
		{Key: "priority", Value: -1},
		{Key: "createdAt", Value: -1},
	})

	cursor, err := d.issues.Find(ctx, bson.M{"assignedTo": email}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issues"})
		return
	}
	defer cursor.Close(ctx)

	var issues []models.Issue
	if err := cursor.All(ctx, &issues); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode issues"})
		return
	}

	c.JSON(http.StatusOK, issues)
}

// StaffStats returns workload counters and a status breakdown for the
// authenticated staff member
func (d *DashboardController) StaffStats(c *gin.Context) {
	email, ok := actorEmail(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	baseQuery := bson.M{"assignedTo": email}

	assigned, err := d.issues.CountDocuments(ctx, baseQuery)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load staff stats"})
		return
	}

	resolved, _ := d.issues.CountDocuments(ctx, bson.M{"assignedTo": email, "status": models.StatusResolved})
	closed, _ := d.issues.CountDocuments(ctx, bson.M{"assignedTo": email, "status": models.StatusClosed})

	startOfDay := time.Now()
	startOfDay = time.Date(startOfDay.Year(), startOfDay.Month(), startOfDay.Day(), 0, 0, 0, 0, startOfDay.Location())
	todaysTasks, _ := d.issues.CountDocuments(ctx, bson.M{
		"assignedTo": email,
		"updatedAt":  bson.M{"$gte": startOfDay},
	})

	pipeline := []bson.M{
		{"$match": baseQuery},
		{"$group": bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}},
		{"$project": bson.M{"_id": 0, "label": "$_id", "count": 1}},
	}

	cursor, err := d.issues.Aggregate(ctx, pipeline)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load staff stats"})
		return
	}
	defer cursor.Close(ctx)

	var recentActivity []bson.M
	if err := cursor.All(ctx, &recentActivity); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load staff stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"assigned":       assigned,
		"resolved":       resolved,
		"closed":         closed,
		"todaysTasks":    todaysTasks,
		"recentActivity": recentActivity,
	})
}

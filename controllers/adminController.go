package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"cityfix-be/core"
	"cityfix-be/models"
	"cityfix-be/storage"
)

type AdminController struct {
	issues    *mongo.Collection
	users     *storage.UserStore
	payments  *storage.PaymentStore
	lifecycle *core.Lifecycle
}

func NewAdminController(db *mongo.Database, users *storage.UserStore, payments *storage.PaymentStore, lifecycle *core.Lifecycle) *AdminController {
	return &AdminController{
		issues:    db.Collection("issues"),
		users:     users,
		payments:  payments,
		lifecycle: lifecycle,
	}
}

// Stats returns system-wide counters for the admin dashboard
func (a *AdminController) Stats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	totalIssues, err := a.issues.CountDocuments(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load admin stats"})
		return
	}

	pendingIssues, _ := a.issues.CountDocuments(ctx, bson.M{"status": models.StatusPending})
	resolvedIssues, _ := a.issues.CountDocuments(ctx, bson.M{"status": models.StatusResolved})
	closedIssues, _ := a.issues.CountDocuments(ctx, bson.M{"status": models.StatusClosed})

	totalPayments, err := a.payments.TotalAmount(ctx)
	if err != nil {
		totalPayments = 0
	}

	c.JSON(http.StatusOK, gin.H{
		"totalIssues":    totalIssues,
		"pendingIssues":  pendingIssues,
		"resolvedIssues": resolvedIssues,
		"closedIssues":   closedIssues,
		"totalPayments":  totalPayments,
	})
}

// ListIssues returns every issue, highest priority first, newest first
func (a *AdminController) ListIssues(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{
		{Key: "priority", Value: -1},
		{Key: "createdAt", Value: -1},
	})

	cursor, err := a.issues.Find(ctx, bson.M{}, findOptions)
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

// Assign sets the staff assignee on an issue exactly once
func (a *AdminController) Assign(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	var input struct {
		StaffEmail string `json:"staffEmail" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.lifecycle.Assign(ctx, issueID, input.StaffEmail); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Reject moves a pending issue to the terminal Rejected status
func (a *AdminController) Reject(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.lifecycle.Reject(ctx, issueID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListCitizens returns all citizen accounts
func (a *AdminController) ListCitizens(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users, err := a.users.ListByRole(ctx, models.RoleCitizen)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}

	c.JSON(http.StatusOK, users)
}

// BlockUser prevents a citizen from filing new issues
func (a *AdminController) BlockUser(c *gin.Context) {
	a.setBlocked(c, true)
}

// UnblockUser lifts a block
func (a *AdminController) UnblockUser(c *gin.Context) {
	a.setBlocked(c, false)
}

func (a *AdminController) setBlocked(c *gin.Context, blocked bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.users.SetBlocked(ctx, c.Param("email"), blocked); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CreateStaff provisions a staff account with a temporary password
func (a *AdminController) CreateStaff(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required,max=50"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		Phone    string `json:"phone,omitempty"`
		PhotoURL string `json:"photoURL,omitempty"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := a.users.CountByEmail(ctx, input.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User with this email already exists"})
		return
	}

	staff := models.User{
		Name:      input.Name,
		Email:     input.Email,
		Password:  input.Password,
		Phone:     input.Phone,
		PhotoURL:  input.PhotoURL,
		Role:      models.RoleStaff,
		IsBlocked: false,
		CreatedAt: time.Now(),
	}
	if err := staff.HashPassword(); err != nil {
		log.Println("Error hashing password:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	if err := a.users.Insert(ctx, staff); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true})
}

// ListStaff returns all staff accounts
func (a *AdminController) ListStaff(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	staff, err := a.users.ListByRole(ctx, models.RoleStaff)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve staff"})
		return
	}

	c.JSON(http.StatusOK, staff)
}

// UpdateStaff updates a staff member's profile fields
func (a *AdminController) UpdateStaff(c *gin.Context) {
	var input struct {
		Name     *string `json:"name,omitempty"`
		Phone    *string `json:"phone,omitempty"`
		PhotoURL *string `json:"photoURL,omitempty"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields := map[string]any{"updatedAt": time.Now().UTC()}
	if input.Name != nil {
		fields["name"] = *input.Name
	}
	if input.Phone != nil {
		fields["phone"] = *input.Phone
	}
	if input.PhotoURL != nil {
		fields["photoURL"] = *input.PhotoURL
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := a.users.UpdateProfile(ctx, c.Param("email"), fields); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteStaff removes a staff account
func (a *AdminController) DeleteStaff(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.users.DeleteByEmail(ctx, c.Param("email")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListPayments returns the full payment log, newest first
func (a *AdminController) ListPayments(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	payments, err := a.payments.ListNewestFirst(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve payments"})
		return
	}

	c.JSON(http.StatusOK, payments)
}

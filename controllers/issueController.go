package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"cityfix-be/core"
	"cityfix-be/models"
)

type IssueController struct {
	issues    *mongo.Collection
	votes     *mongo.Collection
	lifecycle *core.Lifecycle
	ledger    *core.VoteLedger
	users     core.UserStore
}

func NewIssueController(db *mongo.Database, lifecycle *core.Lifecycle, ledger *core.VoteLedger, users core.UserStore) *IssueController {
	return &IssueController{
		issues:    db.Collection("issues"),
		votes:     db.Collection("issueVotes"),
		lifecycle: lifecycle,
		ledger:    ledger,
		users:     users,
	}
}

// Create files a new issue for the authenticated citizen
func (ic *IssueController) Create(c *gin.Context) {
	email, ok := actorEmail(c)
	if !ok {
		return
	}

	var input struct {
		Title       string `json:"title" binding:"required,max=200"`
		Description string `json:"description" binding:"required,max=1000"`
		Category    string `json:"category" binding:"required"`
		Location    string `json:"location,omitempty"`
		ImageURL    string `json:"imageUrl,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.ValidCategory(input.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issue, err := ic.lifecycle.File(ctx, email, core.FileInput{
		Title:       input.Title,
		Description: input.Description,
		Category:    models.IssueCategory(input.Category),
		ImageURL:    input.ImageURL,
		Location:    input.Location,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, issue)
}

// List retrieves issues with filtering, search, sorting and pagination
func (ic *IssueController) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	category := c.Query("category")
	status := c.Query("status")
	search := c.Query("search")
	sortBy := c.DefaultQuery("sort", "newest")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	filter := bson.M{}

	if category != "" && category != "all" {
		filter["category"] = category
	}

	if status != "" && status != "all" {
		filter["status"] = status
	}

	if search != "" {
		filter["$or"] = []bson.M{
			{"title": bson.M{"$regex": search, "$options": "i"}},
			{"description": bson.M{"$regex": search, "$options": "i"}},
		}
	}

	skip := (page - 1) * limit

	var sortOptions bson.D
	switch sortBy {
	case "oldest":
		sortOptions = bson.D{{Key: "createdAt", Value: 1}}
	case "upvotes":
		sortOptions = bson.D{{Key: "upvotes", Value: -1}}
	case "newest":
		fallthrough
	default:
		sortOptions = bson.D{{Key: "createdAt", Value: -1}}
	}

	totalCount, err := ic.issues.CountDocuments(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count issues"})
		return
	}

	findOptions := options.Find().
		SetSort(sortOptions).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := ic.issues.Find(ctx, filter, findOptions)
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

	// Flag which issues the current caller has already upvoted
	currentEmail := ""
	if emailVal, exists := c.Get("user_email"); exists {
		currentEmail, _ = emailVal.(string)
	}

	type IssueWithVote struct {
		models.Issue
		UserHasVoted bool `json:"userHasVoted"`
	}

	issuesWithVotes := make([]IssueWithVote, 0, len(issues))
	for _, issue := range issues {
		userHasVoted := false
		if currentEmail != "" {
			count, err := ic.votes.CountDocuments(ctx, bson.M{
				"issue":     issue.ID,
				"userEmail": currentEmail,
			})
			if err == nil && count > 0 {
				userHasVoted = true
			}
		}
		issuesWithVotes = append(issuesWithVotes, IssueWithVote{Issue: issue, UserHasVoted: userHasVoted})
	}

	totalPages := int((totalCount + int64(limit) - 1) / int64(limit))

	c.JSON(http.StatusOK, gin.H{
		"issues":      issuesWithVotes,
		"totalIssues": totalCount,
		"totalPages":  totalPages,
		"currentPage": page,
	})
}

// GetOne retrieves a single issue by ID
func (ic *IssueController) GetOne(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var issue models.Issue
	if err := ic.issues.FindOne(ctx, bson.M{"_id": issueID}).Decode(&issue); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issue"})
		}
		return
	}

	userHasVoted := false
	if emailVal, exists := c.Get("user_email"); exists {
		if email, ok := emailVal.(string); ok && email != "" {
			count, err := ic.votes.CountDocuments(ctx, bson.M{"issue": issueID, "userEmail": email})
			if err == nil && count > 0 {
				userHasVoted = true
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"issue":        issue,
		"userHasVoted": userHasVoted,
	})
}

// MyIssues retrieves the authenticated user's issues
func (ic *IssueController) MyIssues(c *gin.Context) {
	email, ok := actorEmail(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := ic.issues.Find(ctx, bson.M{"userEmail": email}, findOptions)
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

// Update lets the reporter edit a pending issue
func (ic *IssueController) Update(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	email, ok := actorEmail(c)
	if !ok {
		return
	}

	var input struct {
		Title       *string `json:"title,omitempty"`
		Description *string `json:"description,omitempty"`
		Category    *string `json:"category,omitempty"`
		Location    *string `json:"location,omitempty"`
		ImageURL    *string `json:"imageUrl,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	edit := core.EditInput{
		Title:       input.Title,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		Location:    input.Location,
	}
	if input.Category != nil {
		if !models.ValidCategory(*input.Category) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
			return
		}
		category := models.IssueCategory(*input.Category)
		edit.Category = &category
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := ic.lifecycle.Edit(ctx, issueID, email, edit); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Issue updated successfully"})
}

// Delete lets the reporter remove their issue at any status
func (ic *IssueController) Delete(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	email, ok := actorEmail(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := ic.lifecycle.Delete(ctx, issueID, email); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Issue deleted successfully"})
}

// Upvote records a single upvote by the caller on an issue
func (ic *IssueController) Upvote(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	email, ok := actorEmail(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	upvotes, err := ic.ledger.Upvote(ctx, issueID, email)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Upvote added",
		"upvotes": upvotes,
	})
}

// Transition moves an issue along its lifecycle (staff action)
func (ic *IssueController) Transition(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	email, ok := actorEmail(c)
	if !ok {
		return
	}

	var input struct {
		NewStatus string `json:"newStatus" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidStatus(input.NewStatus) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	actor, err := ic.users.FindByEmail(ctx, email)
	if err != nil {
		respondError(c, err)
		return
	}

	issue, err := ic.lifecycle.Transition(ctx, issueID, models.IssueStatus(input.NewStatus), actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "issue": issue})
}

package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"cityfix-be/core"
)

// respondError maps engine failures to HTTP responses. Anything outside the
// taxonomy is a persistence failure and surfaces as a 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, core.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case errors.Is(err, core.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "Not owner"})
	case errors.Is(err, core.ErrNotAssignee):
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your issue"})
	case errors.Is(err, core.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, core.ErrBlocked):
		c.JSON(http.StatusForbidden, gin.H{"error": "You are blocked. Contact support."})
	case errors.Is(err, core.ErrQuotaExceeded):
		c.JSON(http.StatusForbidden, gin.H{"error": "Free limit reached. Subscribe to submit more issues."})
	case errors.Is(err, core.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status transition"})
	case errors.Is(err, core.ErrNotEditable):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only pending issues can be edited by their owner"})
	case errors.Is(err, core.ErrAlreadyVoted):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Already upvoted"})
	case errors.Is(err, core.ErrSelfVote):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot upvote own issue"})
	case errors.Is(err, core.ErrAlreadyAssigned):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Already assigned"})
	case errors.Is(err, core.ErrPaymentNotConfirmed):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment not completed"})
	default:
		log.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
	}
}

// actorEmail pulls the verified email set by the auth middleware.
func actorEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get("user_email")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return "", false
	}
	return email.(string), true
}

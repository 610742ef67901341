package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cityfix-be/models"
	"cityfix-be/storage"
)

type UserController struct {
	users *storage.UserStore
}

func NewUserController(users *storage.UserStore) *UserController {
	return &UserController{users: users}
}

// SaveUser upserts a user record on first contact, defaulting to a
// non-premium, non-blocked citizen
func (u *UserController) SaveUser(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Name     string `json:"name,omitempty"`
		PhotoURL string `json:"photoURL,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := u.users.EnsureCitizen(ctx, input.Email, input.Name, input.PhotoURL)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// GetUser returns the caller's own user record
func (u *UserController) GetUser(c *gin.Context) {
	email, ok := actorEmail(c)
	if !ok {
		return
	}
	if c.Param("email") != email {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetRole returns a user's role, provisioning a default citizen record if
// none exists yet
func (u *UserController) GetRole(c *gin.Context) {
	email := c.Param("email")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := u.users.EnsureCitizen(ctx, email, "", "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"role": models.RoleCitizen})
		return
	}

	role := user.Role
	if role == "" {
		role = models.RoleCitizen
	}
	c.JSON(http.StatusOK, gin.H{"role": role})
}

// UpdateProfile updates the caller's own profile fields
func (u *UserController) UpdateProfile(c *gin.Context) {
	email, ok := actorEmail(c)
	if !ok {
		return
	}
	if c.Param("email") != email {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

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

	user, err := u.users.UpdateProfile(ctx, email, fields)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

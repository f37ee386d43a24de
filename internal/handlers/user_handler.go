package handlers

import (
	"net/http"

	"github.com/animehub/backend/internal/middleware"
	"github.com/animehub/backend/internal/services"
	"github.com/animehub/backend/pkg/validation"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetProfile returns the authenticated user's own account
// GET /user/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           user.ID,
		"username":     user.Username,
		"email":        user.Email,
		"display_name": user.DisplayName,
		"is_admin":     user.IsAdmin,
		"is_adult":     user.IsAdult,
		"created_at":   user.CreatedAt,
	})
}

// UpdateProfile updates the authenticated user's own account. The adult flag
// is self-declared here; admins can override it per user.
// PUT /user/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		DisplayName *string `json:"display_name"`
		IsAdult     *bool   `json:"is_adult"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.DisplayName != nil {
		name := validation.SanitizeString(*req.DisplayName)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "display_name cannot be empty"})
			return
		}
		if err := h.userService.UpdateDisplayName(user.ID, name); err != nil {
			serviceError(c, err)
			return
		}
	}
	if req.IsAdult != nil {
		if err := h.userService.UpdateUserAdult(user.ID, *req.IsAdult); err != nil {
			serviceError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "profile updated"})
}

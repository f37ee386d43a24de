package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/animehub/backend/internal/models"
	"github.com/animehub/backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdminHandler struct {
	adminService     *services.AdminService
	userService      *services.UserService
	characterService *services.CharacterService
	loreService      *services.LoreService
	exportService    *services.ExportService
}

func NewAdminHandler(adminService *services.AdminService, userService *services.UserService, characterService *services.CharacterService, loreService *services.LoreService, exportService *services.ExportService) *AdminHandler {
	return &AdminHandler{
		adminService:     adminService,
		userService:      userService,
		characterService: characterService,
		loreService:      loreService,
		exportService:    exportService,
	}
}

func parseUserIDParam(c *gin.Context) (uuid.UUID, bool) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return uuid.Nil, false
	}
	return userID, true
}

// GetUsers lists registered users
// GET /admin/users?page=1&limit=20
func (h *AdminHandler) GetUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit

	users, total, err := h.userService.GetAllUsers(offset, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve users"})
		return
	}

	list := make([]gin.H, len(users))
	for i, user := range users {
		list[i] = gin.H{
			"id":           user.ID,
			"username":     user.Username,
			"email":        user.Email,
			"display_name": user.DisplayName,
			"is_admin":     user.IsAdmin,
			"is_active":    user.IsActive,
			"is_adult":     user.IsAdult,
			"created_at":   user.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"users": list,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// UpdateUserActive enables or disables a user account
// PUT /admin/users/:id/active
func (h *AdminHandler) UpdateUserActive(c *gin.Context) {
	userID, ok := parseUserIDParam(c)
	if !ok {
		return
	}

	var req struct {
		IsActive bool `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.userService.UpdateUserActive(userID, req.IsActive); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user updated"})
}

// UpdateUserAdult sets the adult flag that controls mature gallery visibility
// PUT /admin/users/:id/adult
func (h *AdminHandler) UpdateUserAdult(c *gin.Context) {
	userID, ok := parseUserIDParam(c)
	if !ok {
		return
	}

	var req struct {
		IsAdult bool `json:"is_adult"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.userService.UpdateUserAdult(userID, req.IsAdult); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user updated"})
}

// ResetUserPassword resets a user's password and returns the new one
// POST /admin/users/:id/reset-password
func (h *AdminHandler) ResetUserPassword(c *gin.Context) {
	userID, ok := parseUserIDParam(c)
	if !ok {
		return
	}

	newPassword, err := h.adminService.ResetUserPassword(userID)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "password reset",
		"new_password": newPassword,
	})
}

// ExportCharacterSheet renders a printable PDF for a character profile
// GET /admin/characters/:id/sheet.pdf
func (h *AdminHandler) ExportCharacterSheet(c *gin.Context) {
	profileID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	profile, err := h.characterService.GetProfileByID(profileID)
	if err != nil {
		serviceError(c, err)
		return
	}

	var greatestFeat *models.LoreEntry
	if profile.GreatestFeatLoreID != models.SentinelLoreEntryID {
		greatestFeat, err = h.loreService.GetLoreEntry(profile.GreatestFeatLoreID)
		if err != nil {
			serviceError(c, err)
			return
		}
	}

	pdf, err := h.exportService.GenerateCharacterSheetPDF(profile, greatestFeat)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate character sheet"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", profile.Name+".pdf"))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

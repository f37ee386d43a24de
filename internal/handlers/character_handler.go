package handlers

import (
	"net/http"
	"strconv"

	"github.com/animehub/backend/internal/models"
	"github.com/animehub/backend/internal/services"
	"github.com/animehub/backend/pkg/validation"
	"github.com/gin-gonic/gin"
)

type CharacterHandler struct {
	characterService *services.CharacterService
	accessoryService *services.AccessoryService
	loreService      *services.LoreService
}

func NewCharacterHandler(characterService *services.CharacterService, accessoryService *services.AccessoryService, loreService *services.LoreService) *CharacterHandler {
	return &CharacterHandler{
		characterService: characterService,
		accessoryService: accessoryService,
		loreService:      loreService,
	}
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(value), true
}

// GetCharacters lists character profiles
// GET /characters?page=1&limit=20&q=search
func (h *CharacterHandler) GetCharacters(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit

	var profiles []models.CharacterProfile
	var total int64
	var err error

	if query := c.Query("q"); query != "" {
		profiles, total, err = h.characterService.SearchProfiles(query, offset, limit)
	} else {
		profiles, total, err = h.characterService.GetAllProfiles(offset, limit)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve characters"})
		return
	}

	list := make([]gin.H, len(profiles))
	for i, profile := range profiles {
		list[i] = gin.H{
			"id":                    profile.ID,
			"name":                  profile.Name,
			"series":                profile.Series,
			"avatar_url":            profile.AvatarURL,
			"greatest_feat_lore_id": profile.GreatestFeatLoreID,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"characters": list,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetCharacter returns a full profile with attires, accessories and lore
// GET /characters/:id
func (h *CharacterHandler) GetCharacter(c *gin.Context) {
	profileID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	profile, err := h.characterService.GetProfileByID(profileID)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// CreateCharacter creates a character profile
// POST /admin/characters
func (h *CharacterHandler) CreateCharacter(c *gin.Context) {
	var req struct {
		Name      string `json:"name" binding:"required,max=255"`
		Series    string `json:"series" binding:"max=255"`
		Biography string `json:"biography" binding:"max=4000"`
		AvatarURL string `json:"avatar_url" binding:"max=1000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.characterService.CreateProfile(
		validation.SanitizeString(req.Name),
		validation.SanitizeString(req.Series),
		req.Biography,
		req.AvatarURL,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create character"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": profile.ID})
}

// UpdateCharacter updates basic profile fields
// PUT /admin/characters/:id
func (h *CharacterHandler) UpdateCharacter(c *gin.Context) {
	profileID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.characterService.UpdateProfile(profileID, req); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "character updated"})
}

// DeleteCharacter removes a profile with its attires and links
// DELETE /admin/characters/:id
func (h *CharacterHandler) DeleteCharacter(c *gin.Context) {
	profileID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.characterService.DeleteProfile(profileID); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "character deleted"})
}

// SetBestFriend sets or clears the best-friend reference
// PUT /admin/characters/:id/best-friend
func (h *CharacterHandler) SetBestFriend(c *gin.Context) {
	profileID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		BestFriendID *uint `json:"best_friend_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.characterService.SetBestFriend(profileID, req.BestFriendID); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "best friend updated"})
}

// UpdateGreatestFeat overwrites the greatest-feat lore reference
// PUT /admin/characters/:id/greatest-feat
func (h *CharacterHandler) UpdateGreatestFeat(c *gin.Context) {
	profileID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		LoreEntryID uint `json:"lore_entry_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.loreService.UpdateGreatestFeat(profileID, req.LoreEntryID); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "greatest feat updated"})
}

type accessoryRequest struct {
	Description  string  `json:"description" binding:"required"`
	IsWeapon     bool    `json:"is_weapon"`
	UniqueEffect *string `json:"unique_effect"`
}

// CreateAttire creates an attire with its accessories for a character
// POST /admin/characters/:id/attires
func (h *CharacterHandler) CreateAttire(c *gin.Context) {
	profileID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Name                 string             `json:"name" binding:"required,max=255"`
		Type                 string             `json:"type" binding:"max=100"`
		Description          string             `json:"description" binding:"max=2000"`
		HairstyleDescription string             `json:"hairstyle_description" binding:"max=1000"`
		Accessories          []accessoryRequest `json:"accessories" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	spec := services.AttireSpec{
		Name:                 validation.SanitizeString(req.Name),
		Type:                 req.Type,
		Description:          req.Description,
		HairstyleDescription: req.HairstyleDescription,
	}
	for _, acc := range req.Accessories {
		if !validation.ValidateDescription(acc.Description) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "accessory description is required and limited to 500 characters"})
			return
		}
		if !validation.ValidateOptionalDescription(acc.UniqueEffect) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "accessory unique effect is limited to 500 characters"})
			return
		}
		spec.Accessories = append(spec.Accessories, services.AccessorySpec{
			Description:  validation.SanitizeString(acc.Description),
			IsWeapon:     acc.IsWeapon,
			UniqueEffect: acc.UniqueEffect,
		})
	}

	attireID, err := h.accessoryService.CreateAttire(profileID, spec)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": attireID})
}

// GetAttire returns one attire with accessories
// GET /characters/attires/:id
func (h *CharacterHandler) GetAttire(c *gin.Context) {
	attireID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	attire, err := h.accessoryService.GetAttire(attireID)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, attire)
}

// DeleteAttire removes an attire and its accessory links
// DELETE /admin/characters/attires/:id
func (h *CharacterHandler) DeleteAttire(c *gin.Context) {
	attireID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.accessoryService.DeleteAttire(attireID); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "attire deleted"})
}

// AddLoreLink links a character into a lore entry
// POST /admin/characters/:id/lore-links
func (h *CharacterHandler) AddLoreLink(c *gin.Context) {
	profileID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		LoreEntryID uint   `json:"lore_entry_id" binding:"required"`
		Role        string `json:"role" binding:"max=255"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.loreService.AddCharacterLink(profileID, req.LoreEntryID, req.Role); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "lore link added"})
}

// RemoveLoreLink unlinks a character from a lore entry
// DELETE /admin/characters/:id/lore-links/:loreId
func (h *CharacterHandler) RemoveLoreLink(c *gin.Context) {
	profileID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	loreEntryID, ok := parseUintParam(c, "loreId")
	if !ok {
		return
	}

	if err := h.loreService.RemoveCharacterLink(profileID, loreEntryID); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "lore link removed"})
}

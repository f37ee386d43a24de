package handlers

import (
	"net/http"
	"strconv"

	"github.com/animehub/backend/internal/services"
	"github.com/animehub/backend/pkg/validation"
	"github.com/gin-gonic/gin"
)

type LoreHandler struct {
	loreService *services.LoreService
}

func NewLoreHandler(loreService *services.LoreService) *LoreHandler {
	return &LoreHandler{loreService: loreService}
}

// GetLoreTypes lists the lore type lookup table
// GET /lore/types
func (h *LoreHandler) GetLoreTypes(c *gin.Context) {
	types, err := h.loreService.GetAllLoreTypes()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve lore types"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"lore_types": types})
}

// CreateLoreType creates a lookup entry
// POST /admin/lore/types
func (h *LoreHandler) CreateLoreType(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required,max=100"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	loreType, err := h.loreService.CreateLoreType(validation.SanitizeString(req.Name))
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, loreType)
}

// DeleteLoreType removes an unused lookup entry
// DELETE /admin/lore/types/:id
func (h *LoreHandler) DeleteLoreType(c *gin.Context) {
	loreTypeID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.loreService.DeleteLoreType(loreTypeID); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "lore type deleted"})
}

// GetLoreEntries lists lore entries (the sentinel row is hidden)
// GET /lore/entries?page=1&limit=20
func (h *LoreHandler) GetLoreEntries(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit

	entries, total, err := h.loreService.GetAllLoreEntries(offset, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve lore entries"})
		return
	}

	list := make([]gin.H, len(entries))
	for i, entry := range entries {
		item := gin.H{
			"id":           entry.ID,
			"title":        entry.Title,
			"lore_type_id": entry.LoreTypeID,
			"narrative":    entry.Narrative,
			"created_at":   entry.CreatedAt,
		}
		if entry.LoreType != nil {
			item["lore_type"] = entry.LoreType.Name
		}
		list[i] = item
	}

	c.JSON(http.StatusOK, gin.H{
		"lore_entries": list,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetLoreEntry returns a single entry with its character links
// GET /lore/entries/:id
func (h *LoreHandler) GetLoreEntry(c *gin.Context) {
	loreEntryID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	entry, err := h.loreService.GetLoreEntry(loreEntryID)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// CreateLoreEntry creates a lore entry
// POST /admin/lore/entries
func (h *LoreHandler) CreateLoreEntry(c *gin.Context) {
	var req struct {
		Title      string `json:"title" binding:"required,max=255"`
		LoreTypeID uint   `json:"lore_type_id" binding:"required"`
		Narrative  string `json:"narrative" binding:"max=8000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.loreService.CreateLoreEntry(validation.SanitizeString(req.Title), req.LoreTypeID, req.Narrative)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": entry.ID})
}

// UpdateLoreEntry updates an entry's fields
// PUT /admin/lore/entries/:id
func (h *LoreHandler) UpdateLoreEntry(c *gin.Context) {
	loreEntryID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.loreService.UpdateLoreEntry(loreEntryID, req); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "lore entry updated"})
}

// DeleteLoreEntry deletes an entry after clearing greatest-feat references
// DELETE /admin/lore/entries/:id
func (h *LoreHandler) DeleteLoreEntry(c *gin.Context) {
	loreEntryID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.loreService.DeleteLoreEntry(loreEntryID); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "lore entry deleted"})
}

package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/animehub/backend/internal/config"
	"github.com/animehub/backend/internal/middleware"
	"github.com/animehub/backend/internal/models"
	"github.com/animehub/backend/internal/services"
	"github.com/animehub/backend/pkg/validation"
	"github.com/gin-gonic/gin"
)

type GalleryHandler struct {
	galleryService *services.GalleryService
	storageService *services.StorageService
	exportService  *services.ExportService
	cfg            *config.Config
}

func NewGalleryHandler(galleryService *services.GalleryService, storageService *services.StorageService, exportService *services.ExportService, cfg *config.Config) *GalleryHandler {
	return &GalleryHandler{
		galleryService: galleryService,
		storageService: storageService,
		exportService:  exportService,
		cfg:            cfg,
	}
}

// viewerIsAdult resolves the maturity gate input for the current request.
// Anonymous viewers are never treated as adults.
func viewerIsAdult(c *gin.Context) bool {
	user := middleware.CurrentUser(c)
	return user != nil && user.IsAdult
}

// CreateFolder creates a gallery category with an initial image batch
// POST /admin/gallery/folders
// Multipart form: name, is_mature, featured_index, files[], alt_texts[] (optional)
func (h *GalleryHandler) CreateFolder(c *gin.Context) {
	maxMemory := int64(50 * 1024 * 1024) // 50MB total
	if err := c.Request.ParseMultipartForm(maxMemory); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse multipart form"})
		return
	}

	name := validation.SanitizeString(c.PostForm("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	isMature := c.PostForm("is_mature") == "true"
	featuredIndex, err := strconv.Atoi(c.DefaultPostForm("featured_index", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid featured_index"})
		return
	}

	form := c.Request.MultipartForm
	files, ok := form.File["files[]"]
	if !ok || len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "files[] is required"})
		return
	}
	if len(files) > 20 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "maximum 20 files per folder"})
		return
	}
	if featuredIndex < 0 || featuredIndex >= len(files) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "featured_index must reference one of the uploaded files"})
		return
	}
	for _, fileHeader := range files {
		if fileHeader.Size > h.cfg.UploadMaxImageSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%s exceeds the maximum image size", fileHeader.Filename)})
			return
		}
	}

	// Refuse a taken name before any file reaches the disk; the create below
	// re-checks inside its own unit of work.
	taken, err := h.galleryService.FolderNameTaken(name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create folder"})
		return
	}
	if taken {
		c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("folder %q already exists", name)})
		return
	}

	altTexts := form.Value["alt_texts[]"]

	inputs := make([]services.GalleryImageInput, 0, len(files))
	for i, fileHeader := range files {
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("failed to open %s", fileHeader.Filename)})
			return
		}

		key := h.storageService.BuildObjectKey("gallery", fileHeader.Filename)
		if _, _, _, err := h.storageService.SaveStream(c.Request.Context(), key, file); err != nil {
			file.Close()
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("failed to store %s", fileHeader.Filename)})
			return
		}
		file.Close()

		altText := ""
		if i < len(altTexts) {
			altText = validation.SanitizeString(altTexts[i])
		}
		inputs = append(inputs, services.GalleryImageInput{
			ImageURL:   h.storageService.PublicURL(key),
			AltText:    altText,
			IsFeatured: i == featuredIndex,
		})
	}

	categoryID, err := h.galleryService.CreateFolder(name, isMature, inputs)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": categoryID})
}

// AddImage uploads a single image into an existing folder
// POST /admin/gallery/folders/:id/images
// Multipart form: file, alt_text, is_featured, is_mature
func (h *GalleryHandler) AddImage(c *gin.Context) {
	categoryID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	if header.Size > h.cfg.UploadMaxImageSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file exceeds the maximum image size"})
		return
	}

	key := h.storageService.BuildObjectKey("gallery", header.Filename)
	if _, _, _, err := h.storageService.SaveStream(c.Request.Context(), key, file); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store file"})
		return
	}

	imageID, err := h.galleryService.AddImage(
		categoryID,
		h.storageService.PublicURL(key),
		validation.SanitizeString(c.PostForm("alt_text")),
		c.PostForm("is_featured") == "true",
		c.PostForm("is_mature") == "true",
	)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": imageID})
}

// UpdateFolder applies folder-level maturity and featured-image settings
// PUT /admin/gallery/folders/:id
func (h *GalleryHandler) UpdateFolder(c *gin.Context) {
	categoryID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		IsMatureContent bool `json:"is_mature_content"`
		FeaturedImageID uint `json:"featured_image_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.galleryService.UpdateFolder(categoryID, req.IsMatureContent, req.FeaturedImageID); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "folder updated"})
}

// MoveImage moves an image into another folder
// PUT /admin/gallery/images/:id/move
func (h *GalleryHandler) MoveImage(c *gin.Context) {
	imageID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		CategoryID      uint `json:"category_id" binding:"required"`
		IsMatureContent bool `json:"is_mature_content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.galleryService.MoveImage(imageID, req.CategoryID, req.IsMatureContent); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "image moved"})
}

// DeleteImage removes a single image
// DELETE /admin/gallery/images/:id
func (h *GalleryHandler) DeleteImage(c *gin.Context) {
	imageID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.galleryService.DeleteImage(imageID); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "image deleted"})
}

// DeleteFolder removes a folder's images and then the folder itself
// DELETE /admin/gallery/folders/:id
func (h *GalleryHandler) DeleteFolder(c *gin.Context) {
	categoryID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.galleryService.DeleteFolder(categoryID); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "folder deleted"})
}

// GetAllFolders lists every folder, ungated
// GET /admin/gallery/folders
func (h *GalleryHandler) GetAllFolders(c *gin.Context) {
	categories, err := h.galleryService.GetAllCategories()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve folders"})
		return
	}

	list := make([]gin.H, len(categories))
	for i, category := range categories {
		mature, err := h.galleryService.IsCategoryMature(category.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve folders"})
			return
		}
		list[i] = gin.H{
			"id":        category.ID,
			"name":      category.Name,
			"is_mature": mature,
		}
	}

	c.JSON(http.StatusOK, gin.H{"folders": list})
}

// GetFolderImages lists a folder's images, ungated
// GET /admin/gallery/folders/:id/images
func (h *GalleryHandler) GetFolderImages(c *gin.Context) {
	categoryID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.galleryService.GetCategoryByID(categoryID); err != nil {
		serviceError(c, err)
		return
	}

	images, err := h.galleryService.GetImagesByCategory(categoryID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve images"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"images": images})
}

// GetFolderShareQR renders a QR code PNG for the folder's public page
// GET /admin/gallery/folders/:id/qr.png
func (h *GalleryHandler) GetFolderShareQR(c *gin.Context) {
	categoryID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	category, err := h.galleryService.GetCategoryByID(categoryID)
	if err != nil {
		serviceError(c, err)
		return
	}

	png, err := h.exportService.GenerateCategoryShareQR(category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate QR code"})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// GetFolders lists folders visible to the current viewer
// GET /user/gallery and GET /public/gallery
func (h *GalleryHandler) GetFolders(c *gin.Context) {
	categories, err := h.galleryService.GetCategoriesForViewer(viewerIsAdult(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve folders"})
		return
	}

	list := make([]gin.H, len(categories))
	for i, category := range categories {
		list[i] = gin.H{
			"id":   category.ID,
			"name": category.Name,
		}
	}

	c.JSON(http.StatusOK, gin.H{"folders": list})
}

// GetFolder returns a folder if the viewer may see it; hidden folders come
// back as an empty object, not an error
// GET /user/gallery/:id and GET /public/gallery/:id
func (h *GalleryHandler) GetFolder(c *gin.Context) {
	categoryID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	category, err := h.galleryService.GetCategoryForViewer(categoryID, viewerIsAdult(c))
	if err != nil {
		serviceError(c, err)
		return
	}
	if category == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":   category.ID,
		"name": category.Name,
	})
}

// GetImages lists a folder's images if the viewer may see them; hidden
// folders come back as an empty list
// GET /user/gallery/:id/images and GET /public/gallery/:id/images
func (h *GalleryHandler) GetImages(c *gin.Context) {
	categoryID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	images, err := h.galleryService.GetImagesForViewer(categoryID, viewerIsAdult(c))
	if err != nil {
		serviceError(c, err)
		return
	}

	list := make([]gin.H, len(images))
	for i, image := range images {
		list[i] = imageResponse(image)
	}

	c.JSON(http.StatusOK, gin.H{"images": list})
}

func imageResponse(image models.GalleryImage) gin.H {
	return gin.H{
		"id":            image.ID,
		"image_url":     image.ImageURL,
		"alt_text":      image.AltText,
		"is_featured":   image.IsFeatured,
		"category_id":   image.CategoryID,
		"date_added":    image.DateAdded,
		"date_modified": image.DateModified,
	}
}

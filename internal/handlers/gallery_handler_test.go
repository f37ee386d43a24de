package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/animehub/backend/internal/config"
	"github.com/animehub/backend/internal/models"
	"github.com/animehub/backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type galleryTestEnv struct {
	router   *gin.Engine
	service  *services.GalleryService
	assetDir string
}

func newGalleryTestEnv(t *testing.T) *galleryTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, models.Migrate(db))

	cfg := &config.Config{
		APIUrl:             "http://localhost:8080",
		FrontendURL:        "http://localhost:3000",
		LocalAssetsPath:    t.TempDir(),
		UploadMaxImageSize: 1 << 20,
	}

	galleryService := services.NewGalleryService(db)
	handler := NewGalleryHandler(galleryService, services.NewStorageService(cfg), services.NewExportService(cfg), cfg)

	router := gin.New()
	router.POST("/folders", handler.CreateFolder)

	return &galleryTestEnv{
		router:   router,
		service:  galleryService,
		assetDir: cfg.LocalAssetsPath,
	}
}

func (env *galleryTestEnv) postFolder(t *testing.T, name, featuredIndex string, fileCount int) *httptest.ResponseRecorder {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("name", name))
	require.NoError(t, writer.WriteField("featured_index", featuredIndex))
	for i := 0; i < fileCount; i++ {
		part, err := writer.CreateFormFile("files[]", fmt.Sprintf("photo-%d.jpg", i))
		require.NoError(t, err)
		_, err = part.Write([]byte("jpeg bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/folders", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func (env *galleryTestEnv) storedFiles(t *testing.T) []string {
	t.Helper()
	var files []string
	err := filepath.Walk(env.assetDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	require.NoError(t, err)
	return files
}

func TestCreateFolderStoresFilesAndRows(t *testing.T) {
	env := newGalleryTestEnv(t)

	w := env.postFolder(t, "Summer", "0", 2)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, env.storedFiles(t), 2)

	var resp struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	images, err := env.service.GetImagesByCategory(resp.ID)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.True(t, images[0].IsFeatured)
	assert.False(t, images[1].IsFeatured)
}

func TestCreateFolderRefusalLeavesNoFilesBehind(t *testing.T) {
	env := newGalleryTestEnv(t)

	// An out-of-range featured index is refused up front
	w := env.postFolder(t, "Summer", "5", 2)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, env.storedFiles(t))

	// So is a name that is already taken, case-insensitively
	_, err := env.service.CreateFolder("Taken", false, []services.GalleryImageInput{
		{ImageURL: "http://localhost/files/gallery/a.jpg", IsFeatured: true},
	})
	require.NoError(t, err)

	w = env.postFolder(t, "taken", "0", 2)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Empty(t, env.storedFiles(t))
}

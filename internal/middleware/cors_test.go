package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/animehub/backend/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newCORSRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORS(cfg))
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return router
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	router := newCORSRouter(&config.Config{
		Env:            "production",
		AllowedOrigins: []string{"https://animehub.example/"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://animehub.example")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://animehub.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type, Authorization", w.Header().Get("Access-Control-Allow-Headers"))
}

func TestCORSPreflightAnswersUnmatchedRoutes(t *testing.T) {
	router := newCORSRouter(&config.Config{
		Env:            "production",
		AllowedOrigins: []string{"https://animehub.example"},
	})

	req := httptest.NewRequest(http.MethodOptions, "/no/such/route", nil)
	req.Header.Set("Origin", "https://animehub.example")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestCORSUnknownOriginGetsNoAllowHeader(t *testing.T) {
	router := newCORSRouter(&config.Config{
		Env:            "production",
		AllowedOrigins: []string{"https://animehub.example"},
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// The request is still served, just without the CORS grant
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSDevelopmentAcceptsAnyOrigin(t *testing.T) {
	router := newCORSRouter(&config.Config{
		Env:            "development",
		AllowedOrigins: []string{"http://localhost:3000"},
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

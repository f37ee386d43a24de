package middleware

import (
	"net/http"
	"strings"

	"github.com/animehub/backend/internal/config"
	"github.com/gin-gonic/gin"
)

// CORS sets cross-origin headers and answers preflight requests for every
// path, matched or not. Origins are compared after trimming whitespace and
// trailing slashes; in development any origin is accepted.
func CORS(cfg *config.Config) gin.HandlerFunc {
	allowedMethods := strings.Join(cfg.AllowedMethods, ", ")
	allowedHeaders := strings.Join(cfg.AllowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := strings.TrimRight(strings.TrimSpace(c.Request.Header.Get("Origin")), "/")

		allowed := false
		for _, candidate := range cfg.AllowedOrigins {
			if origin == strings.TrimRight(strings.TrimSpace(candidate), "/") {
				allowed = true
				break
			}
		}
		if !allowed && origin != "" && cfg.Env == "development" {
			allowed = true
		}

		header := c.Writer.Header()
		header.Add("Vary", "Origin")
		header.Set("Access-Control-Allow-Credentials", "true")
		header.Set("Access-Control-Allow-Methods", allowedMethods)
		header.Set("Access-Control-Allow-Headers", allowedHeaders)
		header.Set("Access-Control-Max-Age", "86400")
		if allowed && origin != "" {
			header.Set("Access-Control-Allow-Origin", origin)
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lexdesk/casedesk/pkg/apiclient"
)

// securityHeaders sets standard security response headers.
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
		c.Next()
	}
}

// bearerToken copies the caller's bearer token into the request context so
// backend calls are made on the caller's behalf.
func bearerToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractBearer(c.GetHeader("Authorization")); token != "" {
			c.Request = c.Request.WithContext(apiclient.WithToken(c.Request.Context(), token))
		}
		c.Next()
	}
}

// requireBearer rejects requests that carry no bearer token.
func requireBearer() gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiclient.TokenFromContext(c.Request.Context()) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "missing bearer token", Kind: string(apiclient.KindValidation)})
			return
		}
		c.Next()
	}
}

func extractBearer(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// requestLogger logs one line per request.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("Request handled",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

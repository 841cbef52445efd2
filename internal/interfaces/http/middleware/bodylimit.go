package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopadmin/backend/internal/interfaces/http/dto"
)

// BodyLimitConfig configures the request body limit
type BodyLimitConfig struct {
	MaxBytes int64
	// Exempt lists "METHOD /route/pattern" pairs that enforce their own limit,
	// e.g. "POST /api/v1/upload". Patterns match gin's FullPath.
	Exempt []string
}

// BodyLimit rejects requests whose declared length exceeds maxBytes and caps
// the body reader for chunked requests
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return BodyLimitWithConfig(BodyLimitConfig{MaxBytes: maxBytes})
}

// BodyLimitWithConfig is BodyLimit with per-route exemptions
func BodyLimitWithConfig(cfg BodyLimitConfig) gin.HandlerFunc {
	exempt := make(map[string]struct{}, len(cfg.Exempt))
	for _, route := range cfg.Exempt {
		exempt[route] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := exempt[c.Request.Method+" "+c.FullPath()]; ok {
			c.Next()
			return
		}

		if c.Request.ContentLength > cfg.MaxBytes {
			abortWithError(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge,
				"Request body exceeds maximum allowed size")
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, cfg.MaxBytes)
		c.Next()
	}
}

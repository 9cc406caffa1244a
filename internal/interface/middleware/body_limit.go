package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-auth-service/pkg/apperr"
)

// BodyLimit caps the request body size so a single oversized payload cannot
// exhaust memory. Requests declaring a length over the cap are rejected
// before the handler runs; chunked bodies hit the cap while being read, which
// surfaces through the handler's bind error.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			apperr.Respond(c, nil, apperr.PayloadTooLarge())
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

package middleware

import (
	"net/http"
	"regexp"

	"returns-settlement-engine/pkg/apperror"
	"returns-settlement-engine/pkg/response"

	"github.com/gin-gonic/gin"
)

var idempotencyKeyRe = regexp.MustCompile(`^[A-Za-z0-9_\-:.]{1,128}$`)

// MaxBodySize returns middleware that limits the request body size.
// Once the limit is exceeded the reader returns an error and the
// request is rejected with 413 Payload Too Large.
func MaxBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// IdempotencyKey rejects a malformed Idempotency-Key header. The header
// stays optional.
func IdempotencyKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key != "" && !idempotencyKeyRe.MatchString(key) {
			response.Error(c, apperror.BadRequest("Idempotency-Key must be 1-128 characters of [A-Za-z0-9_-:.]"))
			c.Abort()
			return
		}
		c.Next()
	}
}

package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// storeTimeout puts a deadline on the request context so every store call
// made while serving it is bounded.
func storeTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

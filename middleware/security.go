package middleware

import (
	"github.com/gin-gonic/gin"
)

// Security returns a middleware setting baseline security headers
func Security() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Next()
	}
}

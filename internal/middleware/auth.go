package middleware

import (
	"net/http"

	"github.com/getmentor/supercoach-admin/pkg/jwt"
	"github.com/getmentor/supercoach-admin/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const DashboardTokenHeader = "X-Dashboard-Token"

// DashboardTokenMiddleware guards the dashboard API with a shared token.
// The server acts with the stored coach session, so anyone who can reach it
// acts as that coach. An empty token disables the check.
func DashboardTokenMiddleware(validToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if validToken == "" {
			c.Next()
			return
		}

		token := c.GetHeader(DashboardTokenHeader)

		if token == "" {
			logger.Warn("Missing dashboard token",
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing dashboard token"})
			c.Abort()
			return
		}

		if !jwt.TimingSafeCompare(token, validToken) {
			logger.Warn("Invalid dashboard token",
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid dashboard token"})
			c.Abort()
			return
		}

		c.Next()
	}
}

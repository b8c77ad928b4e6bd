package middleware

import (
	"github.com/gin-gonic/gin"
)

// dashboardHeaders are set on every dashboard response. The dashboard only
// serves JSON about students, so nothing may be framed, sniffed or cached.
var dashboardHeaders = map[string]string{
	"X-Frame-Options":                   "DENY",
	"X-Content-Type-Options":            "nosniff",
	"Content-Security-Policy":           "default-src 'none'; frame-ancestors 'none'",
	"Referrer-Policy":                   "no-referrer",
	"Permissions-Policy":                "camera=(), microphone=(), geolocation=()",
	"X-Permitted-Cross-Domain-Policies": "none",
	"Cache-Control":                     "no-store, private",
	"Pragma":                            "no-cache",
}

// SecurityHeadersMiddleware adds the dashboard's response headers.
// Handlers may still override Cache-Control, as the healthcheck does.
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		for name, value := range dashboardHeaders {
			c.Header(name, value)
		}
		c.Next()
	}
}

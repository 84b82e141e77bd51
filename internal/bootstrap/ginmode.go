package bootstrap

import "github.com/gin-gonic/gin"

// SetGinMode switches Gin to release mode outside development, keeping the
// debug route dump out of production logs.
func SetGinMode(env string) {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
}

package http

import (
	"github.com/gin-gonic/gin"

	"github.com/schiefeling-archiv/archiv-backend/internal/documents/service"
)

// Register mounts the document routes. Browsing is public (identity optional),
// management reads need a signed-in user, mutations run behind the admin chain.
func Register(rg *gin.RouterGroup, svc *service.Service, userOnly gin.HandlerFunc, adminOnly ...gin.HandlerFunc) {
	h := NewHandler(svc)

	rg.GET("", h.browse)
	rg.GET("/manage", userOnly, h.manage)
	rg.GET("/:id/download", h.download)

	admin := rg.Group("", adminOnly...)
	admin.POST("", h.upload)
	admin.PATCH("/:id/status", h.updateStatus)
	admin.PUT("/:id/tags", h.updateTags)
}

package http

import (
	"github.com/gin-gonic/gin"

	"github.com/schiefeling-archiv/archiv-backend/internal/menu/service"
)

// Register mounts the menu routes. Reads are public; mutations run behind the
// supplied admin guard chain.
func Register(rg *gin.RouterGroup, svc *service.Service, adminOnly ...gin.HandlerFunc) {
	h := NewHandler(svc)

	rg.GET("", h.tree)
	rg.GET("/items", h.list)

	admin := rg.Group("", adminOnly...)
	admin.POST("", h.create)
	admin.DELETE("/:doc_id", h.remove)
}

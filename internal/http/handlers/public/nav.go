package public

import (
	handlershared "github.com/apparel-shop/internal/http/handlers/shared"
	"github.com/apparel-shop/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetNav 店铺前台导航入口
func (h *Handler) GetNav(c *gin.Context) {
	storeID, ok := handlershared.StoreIDParam(c)
	if !ok {
		return
	}
	response.Success(c, gin.H{"items": h.NavRegistry.Entries(storeID)})
}

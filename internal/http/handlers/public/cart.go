package public

import (
	handlershared "github.com/apparel-shop/internal/http/handlers/shared"
	"github.com/apparel-shop/internal/http/response"
	"github.com/apparel-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// CartLineRequest 购物车行
type CartLineRequest struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

// ResolveCartRequest 购物车解析请求
type ResolveCartRequest struct {
	Items []CartLineRequest `json:"items"`
}

func toCartLines(items []CartLineRequest) []service.CartLine {
	lines := make([]service.CartLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, service.CartLine{
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
		})
	}
	return lines
}

// ResolveCart 解析客户端购物车（只读，不校验库存）
func (h *Handler) ResolveCart(c *gin.Context) {
	storeID, ok := handlershared.StoreIDParam(c)
	if !ok {
		return
	}
	var req ResolveCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", nil)
		return
	}
	lines, err := h.CartService.ResolveLines(storeID, toCartLines(req.Items))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if lines == nil {
		lines = []service.ResolvedCartLine{}
	}
	response.Success(c, gin.H{"items": lines})
}

package admin

import (
	"strconv"
	"strings"
	"time"

	handlershared "github.com/apparel-shop/internal/http/handlers/shared"
	"github.com/apparel-shop/internal/http/response"
	"github.com/apparel-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateOrderStatusRequest 更新订单状态请求
type UpdateOrderStatusRequest struct {
	Status             string `json:"status" binding:"required"`
	FulfillmentOrderID string `json:"fulfillment_order_id"`
}

// ListOrders 后台订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	storeID, ok := handlershared.StoreIDParam(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	createdFrom, err := parseTimeNullable(c.Query("created_from"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "created_from must be RFC3339", nil)
		return
	}
	createdTo, err := parseTimeNullable(c.Query("created_to"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "created_to must be RFC3339", nil)
		return
	}

	orders, total, err := h.OrderService.ListOrders(service.OrderListInput{
		StoreID:     storeID,
		Page:        page,
		PageSize:    pageSize,
		Status:      strings.TrimSpace(c.Query("status")),
		Email:       strings.TrimSpace(c.Query("email")),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, orders, pagination)
}

// GetOrder 后台订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	storeID, ok := handlershared.StoreIDParam(c)
	if !ok {
		return
	}
	params, ok := pathParams(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.GetOrder(storeID, params[0])
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// UpdateOrderStatus 更新订单状态（发货时可写入履约单号）
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	storeID, ok := handlershared.StoreIDParam(c)
	if !ok {
		return
	}
	params, ok := pathParams(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "status is required", nil)
		return
	}
	order, err := h.OrderService.UpdateStatus(storeID, params[0], service.UpdateOrderStatusInput{
		Status:             req.Status,
		FulfillmentOrderID: req.FulfillmentOrderID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if adminID, exists := c.Get(handlershared.ContextKeyAdminID); exists {
		requestLog(c).Infow("admin_order_status_updated",
			"admin_id", adminID,
			"store_id", storeID,
			"order_id", order.ID,
			"status", order.Status,
		)
	}
	response.Success(c, order)
}

// RetryOrderInvoice 为缺少发票的待支付订单重新创建发票
func (h *Handler) RetryOrderInvoice(c *gin.Context) {
	storeID, ok := handlershared.StoreIDParam(c)
	if !ok {
		return
	}
	params, ok := pathParams(c, "id")
	if !ok {
		return
	}
	result, err := h.InvoiceService.AttachInvoiceByID(c.Request.Context(), storeID, params[0])
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, result)
}

func parseTimeNullable(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

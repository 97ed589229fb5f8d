package public

import (
	"strings"
	"time"

	"github.com/apparel-shop/internal/constants"
	handlershared "github.com/apparel-shop/internal/http/handlers/shared"
	"github.com/apparel-shop/internal/http/response"
	"github.com/apparel-shop/internal/models"
	"github.com/apparel-shop/internal/service"

	"github.com/gin-gonic/gin"
)

const invoiceFailureMessage = "Failed to create payment invoice. Please contact support."

// ShippingRequest 收货信息
type ShippingRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Notes   string `json:"notes"`
}

// CreateOrderRequest 下单请求
type CreateOrderRequest struct {
	Items    []CartLineRequest `json:"items"`
	Shipping ShippingRequest   `json:"shipping"`
}

// CheckoutResponse 下单响应，发票失败时仍返回订单
type CheckoutResponse struct {
	OrderID      string       `json:"order_id"`
	Status       string       `json:"status"`
	TotalAmount  models.Money `json:"total_amount"`
	Currency     string       `json:"currency"`
	InvoiceID    string       `json:"invoice_id,omitempty"`
	CheckoutLink string       `json:"checkout_link,omitempty"`
	InvoiceError string       `json:"invoice_error,omitempty"`
	Replayed     bool         `json:"replayed,omitempty"`
}

// PublicOrderItemView 前台订单项视图
type PublicOrderItemView struct {
	ProductName     string       `json:"product_name"`
	Size            string       `json:"size"`
	Color           string       `json:"color"`
	ProductImageURL string       `json:"product_image_url,omitempty"`
	Quantity        int          `json:"quantity"`
	UnitPrice       models.Money `json:"unit_price"`
	TotalPrice      models.Money `json:"total_price"`
}

// PublicOrderView 前台订单视图
type PublicOrderView struct {
	ID          string                `json:"id"`
	Status      string                `json:"status"`
	TotalAmount models.Money          `json:"total_amount"`
	Currency    string                `json:"currency"`
	InvoiceID   string                `json:"invoice_id,omitempty"`
	IsFulfilled bool                  `json:"is_fulfilled"`
	CreatedAt   time.Time             `json:"created_at"`
	Items       []PublicOrderItemView `json:"items"`
}

func (r ShippingRequest) toServiceShipping() service.ShippingInfo {
	return service.ShippingInfo{
		Name:    r.Name,
		Address: r.Address,
		City:    r.City,
		State:   r.State,
		Zip:     r.Zip,
		Country: r.Country,
		Email:   r.Email,
		Phone:   r.Phone,
		Notes:   r.Notes,
	}
}

func buildCheckoutResponse(result *service.CheckoutResult) CheckoutResponse {
	resp := CheckoutResponse{
		OrderID:     result.Order.ID,
		Status:      result.Order.Status,
		TotalAmount: result.Order.TotalAmount,
		Currency:    result.Order.Currency,
		Replayed:    result.Replayed,
	}
	if result.Invoice != nil {
		resp.InvoiceID = result.Invoice.InvoiceID
		resp.CheckoutLink = result.Invoice.CheckoutLink
	}
	if result.InvoiceError != "" {
		resp.InvoiceError = invoiceFailureMessage
	}
	return resp
}

func buildPublicOrderView(order *models.Order) PublicOrderView {
	view := PublicOrderView{
		ID:          order.ID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		Currency:    order.Currency,
		IsFulfilled: order.IsFulfilled,
		CreatedAt:   order.CreatedAt,
		Items:       make([]PublicOrderItemView, 0, len(order.Items)),
	}
	if order.HasInvoice() {
		view.InvoiceID = *order.InvoiceID
	}
	for _, item := range order.Items {
		view.Items = append(view.Items, PublicOrderItemView{
			ProductName:     item.ProductName,
			Size:            item.Size,
			Color:           item.Color,
			ProductImageURL: item.ProductImageURL,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			TotalPrice:      item.TotalPrice,
		})
	}
	return view
}

// CreateOrder 下单：先落库订单，再尝试创建支付发票
func (h *Handler) CreateOrder(c *gin.Context) {
	storeID, ok := handlershared.StoreIDParam(c)
	if !ok {
		return
	}
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", nil)
		return
	}

	result, err := h.CheckoutService.Checkout(c.Request.Context(), service.CheckoutInput{
		CreateOrderInput: service.CreateOrderInput{
			StoreID:  storeID,
			Lines:    toCartLines(req.Items),
			Shipping: req.Shipping.toServiceShipping(),
		},
		IdempotencyKey: strings.TrimSpace(c.GetHeader(constants.HeaderIdempotencyKey)),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if result.InvoiceError != "" {
		requestLog(c).Warnw("checkout_invoice_pending",
			"store_id", storeID,
			"order_id", result.Order.ID,
			"error", result.InvoiceError,
		)
	}
	if result.Replayed {
		response.Success(c, buildCheckoutResponse(result))
		return
	}
	response.Created(c, buildCheckoutResponse(result))
}

// GetOrder 前台订单详情（订单确认页）
func (h *Handler) GetOrder(c *gin.Context) {
	storeID, ok := handlershared.StoreIDParam(c)
	if !ok {
		return
	}
	orderID, ok := handlershared.RequiredParam(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.GetOrder(storeID, orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, buildPublicOrderView(order))
}

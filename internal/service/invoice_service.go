package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/apparel-shop/internal/constants"
	"github.com/apparel-shop/internal/logger"
	"github.com/apparel-shop/internal/models"
	"github.com/apparel-shop/internal/queue"
	"github.com/apparel-shop/internal/repository"
)

const (
	defaultInvoiceRetryDelay = 30 * time.Second
	invoiceSweepBatchSize    = 100
)

// InvoiceRetryScheduler 发票补建任务调度（由 asynq 队列客户端实现）
type InvoiceRetryScheduler interface {
	Enabled() bool
	EnqueueInvoiceAttach(payload queue.InvoiceAttachPayload, delay time.Duration, maxRetry int) error
}

// InvoiceServiceOptions 发票服务参数
type InvoiceServiceOptions struct {
	PublicBaseURL   string        // 店铺前台地址，用于支付完成跳转
	CheckoutBaseURL string        // 支付系统地址，用于拼接已存在发票的支付链接
	RetryDelay      time.Duration // 失败后首次重试延迟
	MaxRetry        int           // 队列最大重试次数
}

// InvoiceService 订单发票对接服务（在订单事务之外执行）
type InvoiceService struct {
	orderRepo repository.OrderRepository
	storeRepo repository.StoreRepository
	gateway   InvoiceGateway
	retry     InvoiceRetryScheduler
	options   InvoiceServiceOptions
}

// NewInvoiceService 创建发票服务
func NewInvoiceService(orderRepo repository.OrderRepository, storeRepo repository.StoreRepository, gateway InvoiceGateway, retry InvoiceRetryScheduler, options InvoiceServiceOptions) *InvoiceService {
	options.PublicBaseURL = strings.TrimRight(strings.TrimSpace(options.PublicBaseURL), "/")
	options.CheckoutBaseURL = strings.TrimRight(strings.TrimSpace(options.CheckoutBaseURL), "/")
	if options.RetryDelay <= 0 {
		options.RetryDelay = defaultInvoiceRetryDelay
	}
	return &InvoiceService{
		orderRepo: orderRepo,
		storeRepo: storeRepo,
		gateway:   gateway,
		retry:     retry,
		options:   options,
	}
}

// AttachInvoiceResult 关联发票结果
type AttachInvoiceResult struct {
	OrderID      string `json:"order_id"`
	InvoiceID    string `json:"invoice_id"`
	CheckoutLink string `json:"checkout_link,omitempty"`
	Created      bool   `json:"created"`
}

// AttachInvoice 为订单创建支付发票并写入发票 ID
// 失败时订单保持原样（invoice_id 为空），返回的错误包裹 ErrInvoiceCreationFailed
func (s *InvoiceService) AttachInvoice(ctx context.Context, order *models.Order) (*AttachInvoiceResult, error) {
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.HasInvoice() {
		return s.existingResult(order), nil
	}

	result, err := s.createAndAttach(ctx, order)
	if err != nil {
		logger.Warnw("invoice_attach_failed",
			"order_id", order.ID,
			"store_id", order.StoreID,
			"error", err,
		)
		s.scheduleRetry(order)
		return nil, err
	}
	return result, nil
}

// AttachInvoiceByID 按订单 ID 补建发票（后台重试与队列任务共用）
func (s *InvoiceService) AttachInvoiceByID(ctx context.Context, storeID, orderID string) (*AttachInvoiceResult, error) {
	order, err := s.orderRepo.GetByID(strings.TrimSpace(storeID), strings.TrimSpace(orderID))
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.HasInvoice() {
		return s.existingResult(order), nil
	}
	if order.Status != constants.OrderStatusPending {
		return nil, ErrInvalidOrderStatus
	}
	result, err := s.createAndAttach(ctx, order)
	if err != nil {
		logger.Warnw("invoice_attach_retry_failed",
			"order_id", order.ID,
			"store_id", order.StoreID,
			"error", err,
		)
		return nil, err
	}
	return result, nil
}

// RetryMissingInvoices 扫描超过宽限期仍未关联发票的待支付订单并重新排队，返回处理数量
func (s *InvoiceService) RetryMissingInvoices(ctx context.Context, grace time.Duration) (int, error) {
	orders, err := s.orderRepo.ListMissingInvoice(time.Now().Add(-grace), invoiceSweepBatchSize)
	if err != nil {
		return 0, err
	}
	handled := 0
	for i := range orders {
		if ctx.Err() != nil {
			return handled, ctx.Err()
		}
		order := &orders[i]
		if s.retryEnabled() {
			if err := s.retry.EnqueueInvoiceAttach(queue.InvoiceAttachPayload{OrderID: order.ID, StoreID: order.StoreID}, 0, s.options.MaxRetry); err != nil {
				logger.Warnw("invoice_retry_enqueue_failed", "order_id", order.ID, "error", err)
				continue
			}
			handled++
			continue
		}
		if _, err := s.createAndAttach(ctx, order); err != nil {
			logger.Warnw("invoice_sweep_attach_failed", "order_id", order.ID, "error", err)
			continue
		}
		handled++
	}
	return handled, nil
}

func (s *InvoiceService) createAndAttach(ctx context.Context, order *models.Order) (*AttachInvoiceResult, error) {
	if s.gateway == nil {
		return nil, fmt.Errorf("%w: gateway not configured", ErrInvoiceCreationFailed)
	}
	store, err := s.storeRepo.FindByID(order.StoreID)
	if err != nil {
		return nil, fmt.Errorf("%w: load store: %v", ErrInvoiceCreationFailed, err)
	}
	if store == nil || !store.IsActive || strings.TrimSpace(store.PaymentStoreID) == "" {
		return nil, fmt.Errorf("%w: store %s is not registered for payments", ErrInvoiceCreationFailed, order.StoreID)
	}

	invoice, err := s.gateway.CreateInvoice(ctx, CreateInvoiceInput{
		StoreID:     store.PaymentStoreID,
		Amount:      order.TotalAmount.String(),
		Currency:    order.Currency,
		Metadata:    BuildInvoiceMetadata(order),
		RedirectURL: s.redirectURL(order),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvoiceCreationFailed, err)
	}
	if invoice == nil || strings.TrimSpace(invoice.ID) == "" {
		return nil, fmt.Errorf("%w: empty invoice id", ErrInvoiceCreationFailed)
	}

	attached, err := s.orderRepo.AttachInvoice(order.ID, invoice.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: persist invoice id: %v", ErrInvoiceCreationFailed, err)
	}
	if !attached {
		// 并发请求已写入发票，以库中的为准
		current, err := s.orderRepo.FindByID(order.ID)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, ErrOrderNotFound
		}
		logger.Warnw("invoice_attach_superseded",
			"order_id", order.ID,
			"discarded_invoice_id", invoice.ID,
		)
		if !current.HasInvoice() {
			return nil, fmt.Errorf("%w: invoice id not persisted", ErrInvoiceCreationFailed)
		}
		*order = *current
		return s.existingResult(current), nil
	}

	invoiceID := invoice.ID
	order.InvoiceID = &invoiceID
	logger.Infow("invoice_attached",
		"order_id", order.ID,
		"store_id", order.StoreID,
		"invoice_id", invoice.ID,
	)
	return &AttachInvoiceResult{
		OrderID:      order.ID,
		InvoiceID:    invoice.ID,
		CheckoutLink: invoice.CheckoutLink,
		Created:      true,
	}, nil
}

func (s *InvoiceService) existingResult(order *models.Order) *AttachInvoiceResult {
	result := &AttachInvoiceResult{OrderID: order.ID, InvoiceID: *order.InvoiceID}
	if s.options.CheckoutBaseURL != "" {
		result.CheckoutLink = s.options.CheckoutBaseURL + "/i/" + *order.InvoiceID
	}
	return result
}

func (s *InvoiceService) retryEnabled() bool {
	return s.retry != nil && s.retry.Enabled()
}

func (s *InvoiceService) scheduleRetry(order *models.Order) {
	if !s.retryEnabled() {
		return
	}
	payload := queue.InvoiceAttachPayload{OrderID: order.ID, StoreID: order.StoreID}
	if err := s.retry.EnqueueInvoiceAttach(payload, s.options.RetryDelay, s.options.MaxRetry); err != nil {
		logger.Warnw("invoice_retry_enqueue_failed", "order_id", order.ID, "error", err)
	}
}

func (s *InvoiceService) redirectURL(order *models.Order) string {
	return fmt.Sprintf("%s/stores/%s/orders/%s", s.options.PublicBaseURL, order.StoreID, order.ID)
}

// BuildInvoiceMetadata 生成发票元数据（空字段不写入）
func BuildInvoiceMetadata(order *models.Order) map[string]interface{} {
	metadata := map[string]interface{}{
		"orderId":   order.ID,
		"orderType": constants.OrderTypeApparel,
		"itemDesc":  BuildItemDescription(order),
		"physical":  true,
	}
	optional := map[string]string{
		"buyerName":     order.ShippingName,
		"buyerEmail":    order.Email,
		"buyerAddress1": order.ShippingAddress,
		"buyerCity":     order.ShippingCity,
		"buyerState":    order.ShippingState,
		"buyerZip":      order.ShippingZip,
		"buyerCountry":  order.ShippingCountry,
		"buyerPhone":    order.Phone,
	}
	for key, value := range optional {
		if value = strings.TrimSpace(value); value != "" {
			metadata[key] = value
		}
	}
	return metadata
}

// BuildItemDescription 生成发票商品描述，如 "Order #1a2b3c4d - Tee (Black/M) x2, Cap (Red/L) x1"
func BuildItemDescription(order *models.Order) string {
	shortID := order.ID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}
	parts := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		parts = append(parts, fmt.Sprintf("%s (%s/%s) x%d", item.ProductName, item.Color, item.Size, item.Quantity))
	}
	return fmt.Sprintf("Order #%s - %s", shortID, strings.Join(parts, ", "))
}

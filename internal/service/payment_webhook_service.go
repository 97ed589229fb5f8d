package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/apparel-shop/internal/constants"
	"github.com/apparel-shop/internal/logger"
	"github.com/apparel-shop/internal/models"
	"github.com/apparel-shop/internal/payment/btcpay"
	"github.com/apparel-shop/internal/repository"
)

// PaymentWebhookService 支付回调处理
type PaymentWebhookService struct {
	orderRepo    repository.OrderRepository
	storeRepo    repository.StoreRepository
	orderService *OrderService
	cfg          btcpay.Config
}

// NewPaymentWebhookService 创建支付回调服务
func NewPaymentWebhookService(orderRepo repository.OrderRepository, storeRepo repository.StoreRepository, orderService *OrderService, cfg btcpay.Config) *PaymentWebhookService {
	return &PaymentWebhookService{
		orderRepo:    orderRepo,
		storeRepo:    storeRepo,
		orderService: orderService,
		cfg:          cfg,
	}
}

// WebhookResult 回调处理结果
type WebhookResult struct {
	EventType string `json:"event_type"`
	OrderID   string `json:"order_id,omitempty"`
	Status    string `json:"status,omitempty"`
	Applied   bool   `json:"applied"`
}

// webhookMatch 事件与订单的关联方式
type webhookMatch int

const (
	matchByInvoice  webhookMatch = iota // 发票 ID 即订单当前发票
	matchRecovered                      // 订单尚无发票，已按元数据补写
	matchSuperseded                     // 订单已关联其他发票（超时重试后新建）
)

// webhookTargetStatus 事件类型对应的订单目标状态
func webhookTargetStatus(eventType string) string {
	switch eventType {
	case constants.InvoiceEventSettled, constants.InvoiceEventPaymentSettled:
		return constants.OrderStatusPaymentReceived
	case constants.InvoiceEventExpired, constants.InvoiceEventInvalid:
		return constants.OrderStatusCancelled
	}
	return ""
}

// HandleBTCPay 校验签名并按事件推进订单状态，重复投递不会重复生效
func (s *PaymentWebhookService) HandleBTCPay(ctx context.Context, signature string, body []byte) (*WebhookResult, error) {
	event, err := btcpay.VerifyAndParseWebhook(&s.cfg, signature, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWebhookInvalid, err)
	}
	result := &WebhookResult{EventType: event.Type}
	target := webhookTargetStatus(event.Type)
	if target == "" {
		logger.Debugw("payment_webhook_ignored", "event_type", event.Type, "invoice_id", event.InvoiceID)
		return result, nil
	}

	order, match, err := s.findOrder(event)
	if err != nil {
		return nil, err
	}
	if order == nil {
		logger.Warnw("payment_webhook_order_missing",
			"event_type", event.Type,
			"invoice_id", event.InvoiceID,
			"order_id", event.OrderID(),
			"payment_store_id", event.StoreID,
		)
		return result, nil
	}
	result.OrderID = order.ID
	result.Status = order.Status

	settled := target == constants.OrderStatusPaymentReceived
	if match == matchSuperseded && !settled {
		// 被替换的旧发票过期或失效不影响订单
		logger.Infow("payment_webhook_superseded_invoice_ignored",
			"order_id", order.ID,
			"invoice_id", event.InvoiceID,
			"current_invoice_id", invoiceIDOf(order),
			"event_type", event.Type,
		)
		return result, nil
	}

	if order.Status != constants.OrderStatusPending {
		if settled && (order.Status == constants.OrderStatusCancelled || order.Status == constants.OrderStatusRefunded || match == matchSuperseded) {
			logger.Warnw("payment_webhook_settled_closed_order",
				"order_id", order.ID,
				"store_id", order.StoreID,
				"status", order.Status,
				"invoice_id", event.InvoiceID,
				"current_invoice_id", invoiceIDOf(order),
				"delivery_id", event.DeliveryID,
			)
		}
		// 其余情况视为重复投递或人工已处理
		return result, nil
	}

	var updates map[string]interface{}
	if match == matchSuperseded {
		// 客户支付的是旧发票，以实际支付的发票为准
		updates = map[string]interface{}{"invoice_id": event.InvoiceID}
	}
	applied, err := s.orderService.transitionBySystem(order, target, updates)
	if err != nil {
		return nil, err
	}
	if applied {
		result.Status = target
		result.Applied = true
		logger.Infow("payment_webhook_applied",
			"order_id", order.ID,
			"invoice_id", event.InvoiceID,
			"replaced_invoice_id", replacedInvoiceID(match, order),
			"event_type", event.Type,
			"status", target,
			"delivery_id", event.DeliveryID,
		)
	}
	return result, nil
}

// findOrder 先按发票 ID 查找；找不到时按元数据中的订单 ID 查找，且事件必须来自该订单店铺登记的支付店铺
func (s *PaymentWebhookService) findOrder(event *btcpay.WebhookEvent) (*models.Order, webhookMatch, error) {
	invoiceID := strings.TrimSpace(event.InvoiceID)
	if invoiceID != "" {
		order, err := s.orderRepo.GetByInvoiceID(invoiceID)
		if err != nil {
			return nil, matchByInvoice, err
		}
		if order != nil {
			if event.StoreID != "" {
				if ok, err := s.paymentStoreMatches(order, event); err != nil || !ok {
					return nil, matchByInvoice, err
				}
			}
			return order, matchByInvoice, nil
		}
	}
	orderID := event.OrderID()
	if orderID == "" || invoiceID == "" {
		return nil, matchByInvoice, nil
	}
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil || order == nil {
		return nil, matchByInvoice, err
	}
	if ok, err := s.paymentStoreMatches(order, event); err != nil || !ok {
		return nil, matchByInvoice, err
	}
	if order.HasInvoice() {
		return order, matchSuperseded, nil
	}

	attached, err := s.orderRepo.AttachInvoice(order.ID, invoiceID)
	if err != nil {
		return nil, matchByInvoice, err
	}
	if !attached {
		// 并发写入了其他发票，重新读取后按替换处理
		current, err := s.orderRepo.FindByID(order.ID)
		if err != nil || current == nil {
			return nil, matchByInvoice, err
		}
		if current.HasInvoice() && *current.InvoiceID != invoiceID {
			return current, matchSuperseded, nil
		}
		return current, matchByInvoice, nil
	}
	order.InvoiceID = &invoiceID
	logger.Infow("invoice_attached_from_webhook", "order_id", order.ID, "invoice_id", invoiceID)
	return order, matchRecovered, nil
}

// paymentStoreMatches 校验事件来源的支付店铺与订单所属店铺的登记一致
func (s *PaymentWebhookService) paymentStoreMatches(order *models.Order, event *btcpay.WebhookEvent) (bool, error) {
	if s.storeRepo == nil {
		return false, nil
	}
	store, err := s.storeRepo.FindByID(order.StoreID)
	if err != nil {
		return false, err
	}
	paymentStoreID := ""
	if store != nil {
		paymentStoreID = strings.TrimSpace(store.PaymentStoreID)
	}
	if paymentStoreID == "" || strings.TrimSpace(event.StoreID) != paymentStoreID {
		logger.Warnw("payment_webhook_store_mismatch",
			"order_id", order.ID,
			"store_id", order.StoreID,
			"expected_payment_store_id", paymentStoreID,
			"event_payment_store_id", event.StoreID,
			"invoice_id", event.InvoiceID,
		)
		return false, nil
	}
	return true, nil
}

func invoiceIDOf(order *models.Order) string {
	if order == nil || order.InvoiceID == nil {
		return ""
	}
	return *order.InvoiceID
}

func replacedInvoiceID(match webhookMatch, order *models.Order) string {
	if match != matchSuperseded {
		return ""
	}
	return invoiceIDOf(order)
}

package service

import (
	"strings"
	"time"

	"github.com/apparel-shop/internal/constants"
	"github.com/apparel-shop/internal/logger"
	"github.com/apparel-shop/internal/models"
)

var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusPending: {
		constants.OrderStatusPaymentReceived: true,
		constants.OrderStatusCancelled:       true,
		constants.OrderStatusRefunded:        true,
	},
	constants.OrderStatusPaymentReceived: {
		constants.OrderStatusProcessing: true,
		constants.OrderStatusCancelled:  true,
		constants.OrderStatusRefunded:   true,
	},
	constants.OrderStatusProcessing: {
		constants.OrderStatusShipped:  true,
		constants.OrderStatusRefunded: true,
	},
	constants.OrderStatusShipped: {
		constants.OrderStatusCompleted: true,
		constants.OrderStatusRefunded:  true,
	},
	constants.OrderStatusCompleted: {
		constants.OrderStatusRefunded: true,
	},
	constants.OrderStatusCancelled: {
		constants.OrderStatusRefunded: true,
	},
}

// IsValidOrderStatus 判断状态值是否合法
func IsValidOrderStatus(status string) bool {
	switch status {
	case constants.OrderStatusPending,
		constants.OrderStatusPaymentReceived,
		constants.OrderStatusProcessing,
		constants.OrderStatusShipped,
		constants.OrderStatusCompleted,
		constants.OrderStatusCancelled,
		constants.OrderStatusRefunded:
		return true
	}
	return false
}

// CanTransition 判断状态流转是否允许
func CanTransition(from, to string) bool {
	next, ok := allowedTransitions[from]
	return ok && next[to]
}

// UpdateStatus 后台更新订单状态
func (s *OrderService) UpdateStatus(storeID, orderID string, input UpdateOrderStatusInput) (*models.Order, error) {
	target := strings.ToLower(strings.TrimSpace(input.Status))
	if !IsValidOrderStatus(target) {
		return nil, ErrInvalidOrderStatus
	}
	order, err := s.GetOrder(storeID, orderID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(order.Status, target) {
		return nil, ErrInvalidOrderStatus
	}

	now := time.Now()
	updates := map[string]interface{}{}
	if target == constants.OrderStatusShipped {
		updates["is_fulfilled"] = true
		updates["fulfilled_at"] = now
		if fulfillmentID := strings.TrimSpace(input.FulfillmentOrderID); fulfillmentID != "" {
			updates["fulfillment_order_id"] = fulfillmentID
		}
	}
	ok, err := s.orderRepo.TransitionStatus(order.ID, order.Status, target, updates)
	if err != nil {
		return nil, err
	}
	if !ok {
		// 状态已被并发修改
		return nil, ErrInvalidOrderStatus
	}
	logger.Infow("order_status_updated",
		"order_id", order.ID,
		"store_id", order.StoreID,
		"from", order.Status,
		"to", target,
	)
	return s.GetOrder(order.StoreID, order.ID)
}

// transitionBySystem 支付回调等系统事件驱动的状态流转，已处于目标状态时视为成功
func (s *OrderService) transitionBySystem(order *models.Order, target string, updates map[string]interface{}) (bool, error) {
	if order == nil {
		return false, ErrOrderNotFound
	}
	if order.Status == target {
		return false, nil
	}
	if !CanTransition(order.Status, target) {
		return false, ErrInvalidOrderStatus
	}
	return s.orderRepo.TransitionStatus(order.ID, order.Status, target, updates)
}

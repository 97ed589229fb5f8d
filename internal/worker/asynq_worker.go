package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/apparel-shop/internal/logger"
	"github.com/apparel-shop/internal/provider"
	"github.com/apparel-shop/internal/queue"
	"github.com/apparel-shop/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskInvoiceAttach, c.handleInvoiceAttach)
}

// handleInvoiceAttach 为缺少发票的订单补建发票，失败返回错误交给 asynq 重试
func (c *Consumer) handleInvoiceAttach(ctx context.Context, task *asynq.Task) error {
	if c == nil || c.Container == nil || task == nil {
		logger.Debugw("worker_invoice_attach_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	if c.InvoiceService == nil {
		return fmt.Errorf("invoice service not configured: %w", asynq.SkipRetry)
	}
	payload, err := queue.ParseInvoiceAttachPayload(task.Payload())
	if err != nil {
		logger.Warnw("worker_invoice_attach_unmarshal_failed", "error", err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if strings.TrimSpace(payload.OrderID) == "" || strings.TrimSpace(payload.StoreID) == "" {
		logger.Debugw("worker_invoice_attach_skip_invalid_payload", "order_id", payload.OrderID, "store_id", payload.StoreID)
		return nil
	}

	result, err := c.InvoiceService.AttachInvoiceByID(ctx, payload.StoreID, payload.OrderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) || errors.Is(err, service.ErrInvalidOrderStatus) {
			logger.Debugw("worker_invoice_attach_skip", "order_id", payload.OrderID, "reason", err.Error())
			return nil
		}
		logger.Warnw("worker_invoice_attach_failed", "order_id", payload.OrderID, "store_id", payload.StoreID, "error", err)
		return err
	}
	logger.Infow("worker_invoice_attach_done",
		"order_id", result.OrderID,
		"invoice_id", result.InvoiceID,
		"created", result.Created,
	)
	return nil
}

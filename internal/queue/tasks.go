package queue

import (
	"encoding/json"

	"github.com/apparel-shop/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskInvoiceAttach 订单补建发票任务
	TaskInvoiceAttach = constants.TaskInvoiceAttach
)

// InvoiceAttachPayload 补建发票任务载荷
type InvoiceAttachPayload struct {
	OrderID string `json:"order_id"`
	StoreID string `json:"store_id"`
}

// NewInvoiceAttachTask 创建补建发票任务
func NewInvoiceAttachTask(payload InvoiceAttachPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskInvoiceAttach, body), nil
}

// ParseInvoiceAttachPayload 解析补建发票任务载荷
func ParseInvoiceAttachPayload(body []byte) (InvoiceAttachPayload, error) {
	var payload InvoiceAttachPayload
	err := json.Unmarshal(body, &payload)
	return payload, err
}

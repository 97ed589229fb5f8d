package public

import (
	"io"
	"strings"

	"github.com/apparel-shop/internal/constants"
	"github.com/apparel-shop/internal/http/response"

	"github.com/gin-gonic/gin"
)

const maxWebhookBodyBytes = 1 << 20

// BTCPayWebhook 支付系统发票事件回调
func (h *Handler) BTCPayWebhook(c *gin.Context) {
	log := requestLog(c)
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		respondServiceError(c, response.WrapError(response.CodeBadRequest, "invalid request body", err))
		return
	}
	signature := strings.TrimSpace(c.GetHeader(constants.HeaderBTCPaySig))
	log.Infow("btcpay_webhook_received",
		"client_ip", c.ClientIP(),
		"body_size", len(body),
		"has_signature", signature != "",
	)

	result, err := h.PaymentWebhookService.HandleBTCPay(c.Request.Context(), signature, body)
	if err != nil {
		log.Warnw("btcpay_webhook_handle_failed", "error", err)
		respondServiceError(c, err)
		return
	}

	log.Infow("btcpay_webhook_processed",
		"event_type", result.EventType,
		"order_id", result.OrderID,
		"status", result.Status,
		"applied", result.Applied,
	)
	response.Success(c, gin.H{
		"accepted":   true,
		"event_type": result.EventType,
		"updated":    result.Applied,
		"order_id":   result.OrderID,
		"status":     result.Status,
	})
}

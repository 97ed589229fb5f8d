package btcpay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrConfigInvalid    = errors.New("btcpay config invalid")
	ErrRequestFailed    = errors.New("btcpay request failed")
	ErrResponseInvalid  = errors.New("btcpay response invalid")
	ErrSignatureInvalid = errors.New("btcpay signature invalid")
)

const (
	defaultTimeout  = 15 * time.Second
	signaturePrefix = "sha256="
	maxErrorBody    = 2048
)

// Config BTCPay Greenfield 接口配置
type Config struct {
	BaseURL       string        // 服务地址，如 https://btcpay.example.com
	APIKey        string        // Greenfield API Key（需要 btcpay.store.cancreateinvoice 权限）
	WebhookSecret string        // Webhook 签名密钥
	Timeout       time.Duration // 请求超时
}

// CreateInput 创建发票输入
type CreateInput struct {
	StoreID     string                 // BTCPay 店铺 ID
	Amount      string                 // 金额（2 位小数字符串）
	Currency    string                 // 币种
	Metadata    map[string]interface{} // 发票元数据
	RedirectURL string                 // 支付完成后跳转地址
}

// Invoice 发票信息
type Invoice struct {
	ID           string `json:"id"`
	StoreID      string `json:"storeId"`
	Status       string `json:"status"`
	Amount       string `json:"amount"`
	Currency     string `json:"currency"`
	CheckoutLink string `json:"checkoutLink"`
}

// WebhookEvent Webhook 事件
type WebhookEvent struct {
	DeliveryID   string                 `json:"deliveryId"`
	WebhookID    string                 `json:"webhookId"`
	IsRedelivery bool                   `json:"isRedelivery"`
	Type         string                 `json:"type"`
	Timestamp    int64                  `json:"timestamp"`
	StoreID      string                 `json:"storeId"`
	InvoiceID    string                 `json:"invoiceId"`
	Metadata     map[string]interface{} `json:"metadata"`
}

// OrderID 从元数据读取订单 ID
func (e *WebhookEvent) OrderID() string {
	if e == nil || e.Metadata == nil {
		return ""
	}
	if value, ok := e.Metadata["orderId"].(string); ok {
		return strings.TrimSpace(value)
	}
	return ""
}

// ValidateConfig 校验配置
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return fmt.Errorf("%w: base_url is required", ErrConfigInvalid)
	}
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return fmt.Errorf("%w: base_url is invalid", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return fmt.Errorf("%w: api_key is required", ErrConfigInvalid)
	}
	return nil
}

// CreateInvoice 创建发票
func CreateInvoice(ctx context.Context, cfg *Config, input CreateInput) (*Invoice, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	storeID := strings.TrimSpace(input.StoreID)
	if storeID == "" {
		return nil, fmt.Errorf("%w: store id is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(input.Amount) == "" || strings.TrimSpace(input.Currency) == "" {
		return nil, fmt.Errorf("%w: amount and currency are required", ErrConfigInvalid)
	}

	payload := map[string]interface{}{
		"amount":   input.Amount,
		"currency": strings.ToUpper(input.Currency),
	}
	if len(input.Metadata) > 0 {
		payload["metadata"] = input.Metadata
	}
	if input.RedirectURL != "" {
		payload["checkout"] = map[string]interface{}{
			"redirectURL":           input.RedirectURL,
			"redirectAutomatically": true,
		}
	}

	endpoint := strings.TrimRight(cfg.BaseURL, "/") + "/api/v1/stores/" + url.PathEscape(storeID) + "/invoices"
	body, err := postJSON(ctx, cfg, endpoint, payload)
	if err != nil {
		return nil, err
	}

	var invoice Invoice
	if err := json.Unmarshal(body, &invoice); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	if strings.TrimSpace(invoice.ID) == "" {
		return nil, fmt.Errorf("%w: invoice id missing", ErrResponseInvalid)
	}
	return &invoice, nil
}

// VerifyAndParseWebhook 校验 BTCPay-Sig 签名并解析事件
func VerifyAndParseWebhook(cfg *Config, signatureHeader string, body []byte) (*WebhookEvent, error) {
	if cfg == nil || strings.TrimSpace(cfg.WebhookSecret) == "" {
		return nil, fmt.Errorf("%w: webhook secret is required", ErrConfigInvalid)
	}
	signatureHeader = strings.TrimSpace(signatureHeader)
	if !strings.HasPrefix(strings.ToLower(signatureHeader), signaturePrefix) {
		return nil, fmt.Errorf("%w: BTCPay-Sig is required", ErrSignatureInvalid)
	}
	provided := strings.ToLower(signatureHeader[len(signaturePrefix):])
	expected := Sign(cfg.WebhookSecret, body)
	if !hmac.Equal([]byte(provided), []byte(expected)) {
		return nil, fmt.Errorf("%w: verify failed", ErrSignatureInvalid)
	}

	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	if strings.TrimSpace(event.Type) == "" {
		return nil, fmt.Errorf("%w: event type missing", ErrResponseInvalid)
	}
	return &event, nil
}

// Sign 计算 Webhook 请求体的 HMAC-SHA256 签名（小写十六进制）
func Sign(secret string, body []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

func postJSON(ctx context.Context, cfg *Config, endpoint string, payload map[string]interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "token "+strings.TrimSpace(cfg.APIKey))

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: http status %d: %s", ErrRequestFailed, resp.StatusCode, describeError(respBody))
	}
	return respBody, nil
}

// describeError 提取 Greenfield 错误信息（单个对象或校验错误数组）
func describeError(body []byte) string {
	var single struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &single); err == nil && single.Message != "" {
		if single.Code != "" {
			return single.Code + ": " + single.Message
		}
		return single.Message
	}
	var fields []struct {
		Path    string `json:"path"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &fields); err == nil && len(fields) > 0 {
		parts := make([]string, 0, len(fields))
		for _, field := range fields {
			parts = append(parts, field.Path+": "+field.Message)
		}
		return strings.Join(parts, "; ")
	}
	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorBody {
		text = text[:maxErrorBody]
	}
	return text
}

package service

import (
	"context"
	"time"

	"github.com/apparel-shop/internal/config"
	"github.com/apparel-shop/internal/payment/btcpay"
)

// CreateInvoiceInput 创建发票请求
type CreateInvoiceInput struct {
	StoreID     string
	Amount      string
	Currency    string
	Metadata    map[string]interface{}
	RedirectURL string
}

// Invoice 支付系统返回的发票
type Invoice struct {
	ID           string
	CheckoutLink string
}

// InvoiceGateway 支付系统发票接口
type InvoiceGateway interface {
	CreateInvoice(ctx context.Context, input CreateInvoiceInput) (*Invoice, error)
}

// BTCPayGateway 基于 BTCPay Greenfield 接口的发票网关
type BTCPayGateway struct {
	cfg btcpay.Config
}

// NewBTCPayGateway 根据配置创建发票网关
func NewBTCPayGateway(cfg config.InvoiceConfig) *BTCPayGateway {
	return &BTCPayGateway{cfg: BTCPayConfig(cfg)}
}

// BTCPayConfig 转换为 btcpay 客户端配置
func BTCPayConfig(cfg config.InvoiceConfig) btcpay.Config {
	return btcpay.Config{
		BaseURL:       cfg.BaseURL,
		APIKey:        cfg.APIKey,
		WebhookSecret: cfg.WebhookSecret,
		Timeout:       time.Duration(cfg.TimeoutSeconds) * time.Second,
	}
}

// CreateInvoice 创建发票
func (g *BTCPayGateway) CreateInvoice(ctx context.Context, input CreateInvoiceInput) (*Invoice, error) {
	invoice, err := btcpay.CreateInvoice(ctx, &g.cfg, btcpay.CreateInput{
		StoreID:     input.StoreID,
		Amount:      input.Amount,
		Currency:    input.Currency,
		Metadata:    input.Metadata,
		RedirectURL: input.RedirectURL,
	})
	if err != nil {
		return nil, err
	}
	return &Invoice{ID: invoice.ID, CheckoutLink: invoice.CheckoutLink}, nil
}

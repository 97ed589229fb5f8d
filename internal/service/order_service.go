package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/apparel-shop/internal/constants"
	"github.com/apparel-shop/internal/logger"
	"github.com/apparel-shop/internal/models"
	"github.com/apparel-shop/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	defaultMaxLineQuantity = 99
	defaultMaxLines        = 50
)

// OrderService 订单服务（定价、校验与下单）
type OrderService struct {
	orderRepo       repository.OrderRepository
	variantRepo     repository.VariantRepository
	maxLineQuantity int
	maxLines        int
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, variantRepo repository.VariantRepository, maxLineQuantity, maxLines int) *OrderService {
	if maxLineQuantity <= 0 {
		maxLineQuantity = defaultMaxLineQuantity
	}
	if maxLines <= 0 {
		maxLines = defaultMaxLines
	}
	return &OrderService{
		orderRepo:       orderRepo,
		variantRepo:     variantRepo,
		maxLineQuantity: maxLineQuantity,
		maxLines:        maxLines,
	}
}

// ShippingInfo 收货信息
type ShippingInfo struct {
	Name    string `json:"name" validate:"required,max=200"`
	Address string `json:"address" validate:"required,max=300"`
	City    string `json:"city" validate:"max=100"`
	State   string `json:"state" validate:"max=100"`
	Zip     string `json:"zip" validate:"max=20"`
	Country string `json:"country" validate:"max=100"`
	Email   string `json:"email" validate:"omitempty,max=200,email"`
	Phone   string `json:"phone" validate:"max=50"`
	Notes   string `json:"notes" validate:"max=1000"`
}

func (s ShippingInfo) normalized() ShippingInfo {
	return ShippingInfo{
		Name:    strings.TrimSpace(s.Name),
		Address: strings.TrimSpace(s.Address),
		City:    strings.TrimSpace(s.City),
		State:   strings.TrimSpace(s.State),
		Zip:     strings.TrimSpace(s.Zip),
		Country: strings.TrimSpace(s.Country),
		Email:   strings.TrimSpace(s.Email),
		Phone:   strings.TrimSpace(s.Phone),
		Notes:   strings.TrimSpace(s.Notes),
	}
}

// CreateOrderInput 创建订单输入
type CreateOrderInput struct {
	StoreID  string
	Lines    []CartLine
	Shipping ShippingInfo
}

// UpdateOrderStatusInput 更新订单状态输入
type UpdateOrderStatusInput struct {
	Status             string
	FulfillmentOrderID string
}

// OrderListInput 订单列表查询
type OrderListInput struct {
	StoreID     string
	Page        int
	PageSize    int
	Status      string
	Email       string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// CreateOrder 校验购物车、计算金额并在单个事务内写入订单与订单项
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	storeID := strings.TrimSpace(input.StoreID)
	if storeID == "" {
		return nil, ErrStoreIDRequired
	}
	if len(input.Lines) == 0 {
		return nil, ErrEmptyOrder
	}
	if err := s.validateLines(input.Lines); err != nil {
		return nil, err
	}
	shipping := input.Shipping.normalized()
	if err := validateStruct(shipping); err != nil {
		return nil, err
	}

	lines := mergeCartLines(input.Lines)
	if len(lines) > s.maxLines {
		return nil, ErrTooManyLines
	}
	for _, line := range lines {
		if line.Quantity > s.maxLineQuantity {
			return nil, NewValidationError(map[string]string{
				"quantity": fmt.Sprintf("must be at most %d", s.maxLineQuantity),
			})
		}
	}

	var order *models.Order
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		ids := make([]string, 0, len(lines))
		for _, line := range lines {
			ids = append(ids, line.VariantID)
		}
		variants, err := s.variantRepo.WithTx(tx).ListPurchasableByIDs(storeID, ids)
		if err != nil {
			return err
		}
		if len(variants) != len(lines) {
			return ErrItemsUnavailable
		}
		byID := make(map[string]*models.ProductVariant, len(variants))
		for i := range variants {
			byID[variants[i].ID] = &variants[i]
		}

		built, err := buildOrder(storeID, lines, byID, shipping)
		if err != nil {
			return err
		}
		if err := s.orderRepo.WithTx(tx).Create(built, built.Items); err != nil {
			return err
		}
		order = built
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrItemsUnavailable) && !errors.Is(err, ErrMixedCurrency) {
			logger.Errorw("order_create_failed", "store_id", storeID, "error", err)
		}
		return nil, err
	}

	logger.Infow("order_created",
		"order_id", order.ID,
		"store_id", order.StoreID,
		"total_amount", order.TotalAmount.String(),
		"currency", order.Currency,
		"item_count", len(order.Items),
	)
	return order, nil
}

func (s *OrderService) validateLines(lines []CartLine) error {
	for i, line := range lines {
		if strings.TrimSpace(line.VariantID) == "" {
			return NewValidationError(map[string]string{
				fmt.Sprintf("items[%d].variant_id", i): "required",
			})
		}
		if line.Quantity <= 0 {
			return ErrInvalidQuantity
		}
	}
	return nil
}

// mergeCartLines 合并相同变体的购物车行，保留首次出现的顺序
func mergeCartLines(lines []CartLine) []CartLine {
	merged := make([]CartLine, 0, len(lines))
	index := make(map[string]int, len(lines))
	for _, line := range lines {
		id := strings.TrimSpace(line.VariantID)
		if pos, ok := index[id]; ok {
			merged[pos].Quantity += line.Quantity
			continue
		}
		index[id] = len(merged)
		merged = append(merged, CartLine{VariantID: id, Quantity: line.Quantity})
	}
	return merged
}

// buildOrder 生成订单与订单项快照
func buildOrder(storeID string, lines []CartLine, variants map[string]*models.ProductVariant, shipping ShippingInfo) (*models.Order, error) {
	currency := ""
	total := models.ZeroMoney()
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		variant := variants[line.VariantID]
		if variant == nil || variant.Product == nil {
			return nil, ErrItemsUnavailable
		}
		product := variant.Product
		productCurrency := strings.ToUpper(strings.TrimSpace(product.Currency))
		if currency == "" {
			currency = productCurrency
		} else if currency != productCurrency {
			return nil, ErrMixedCurrency
		}

		unitPrice := variant.EffectivePrice(product)
		if unitPrice.IsNegative() {
			return nil, ErrItemsUnavailable
		}
		lineTotal := unitPrice.MulQuantity(line.Quantity)
		total = total.Add(lineTotal)

		productID := product.ID
		variantID := variant.ID
		item := models.OrderItem{
			ID:          uuid.NewString(),
			ProductID:   &productID,
			VariantID:   &variantID,
			ProductName: product.Name,
			Size:        variant.Size,
			Color:       variant.Color,
			Quantity:    line.Quantity,
			UnitPrice:   unitPrice,
			TotalPrice:  lineTotal,
		}
		if image := selectPrimaryImage(product.Images); image != nil {
			item.ProductImageURL = image.ImageURL
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}
	if currency == "" {
		currency = constants.DefaultCurrency
	}

	return &models.Order{
		ID:              uuid.NewString(),
		StoreID:         storeID,
		Status:          constants.OrderStatusPending,
		TotalAmount:     total,
		Currency:        currency,
		ShippingName:    shipping.Name,
		ShippingAddress: shipping.Address,
		ShippingCity:    shipping.City,
		ShippingState:   shipping.State,
		ShippingZip:     shipping.Zip,
		ShippingCountry: shipping.Country,
		Email:           shipping.Email,
		Phone:           shipping.Phone,
		CustomerNotes:   shipping.Notes,
		Items:           items,
	}, nil
}

// GetOrder 获取店铺内订单
func (s *OrderService) GetOrder(storeID, orderID string) (*models.Order, error) {
	storeID = strings.TrimSpace(storeID)
	if storeID == "" {
		return nil, ErrStoreIDRequired
	}
	order, err := s.orderRepo.GetByID(storeID, strings.TrimSpace(orderID))
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrders 后台订单列表
func (s *OrderService) ListOrders(input OrderListInput) ([]models.Order, int64, error) {
	storeID := strings.TrimSpace(input.StoreID)
	if storeID == "" {
		return nil, 0, ErrStoreIDRequired
	}
	return s.orderRepo.List(repository.OrderListFilter{
		StoreID:     storeID,
		Page:        input.Page,
		PageSize:    input.PageSize,
		Status:      strings.TrimSpace(input.Status),
		Email:       strings.TrimSpace(input.Email),
		CreatedFrom: input.CreatedFrom,
		CreatedTo:   input.CreatedTo,
	})
}

// selectPrimaryImage 订单快照只记录主图，没有主图时留空
func selectPrimaryImage(images []models.ProductImage) *models.ProductImage {
	for i := range images {
		if images[i].IsPrimary {
			return &images[i]
		}
	}
	return nil
}

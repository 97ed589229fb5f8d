package service

import (
	"strings"

	"github.com/apparel-shop/internal/models"
	"github.com/apparel-shop/internal/repository"
)

// CartService 购物车解析服务（购物车由客户端保存，服务端只做只读解析）
type CartService struct {
	variantRepo repository.VariantRepository
}

// NewCartService 创建购物车服务
func NewCartService(variantRepo repository.VariantRepository) *CartService {
	return &CartService{variantRepo: variantRepo}
}

// CartLine 客户端提交的购物车行
type CartLine struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

// ResolvedCartLine 解析后的购物车行
type ResolvedCartLine struct {
	ProductID   string       `json:"product_id"`
	VariantID   string       `json:"variant_id"`
	ProductName string       `json:"product_name"`
	Size        string       `json:"size"`
	Color       string       `json:"color"`
	ColorHex    string       `json:"color_hex,omitempty"`
	Quantity    int          `json:"quantity"`
	UnitPrice   models.Money `json:"unit_price"`
	LineTotal   models.Money `json:"line_total"`
	Currency    string       `json:"currency"`
	ImageURL    string       `json:"image_url,omitempty"`
	IsAvailable bool         `json:"is_available"`
}

// ResolveLines 解析购物车行，找不到的变体直接丢弃，不可售的变体保留并标记
func (s *CartService) ResolveLines(storeID string, lines []CartLine) ([]ResolvedCartLine, error) {
	storeID = strings.TrimSpace(storeID)
	if storeID == "" {
		return nil, ErrStoreIDRequired
	}
	if len(lines) == 0 {
		return []ResolvedCartLine{}, nil
	}

	ids := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		id := strings.TrimSpace(line.VariantID)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	variants, err := s.variantRepo.ListByIDs(storeID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*models.ProductVariant, len(variants))
	for i := range variants {
		byID[variants[i].ID] = &variants[i]
	}

	resolved := make([]ResolvedCartLine, 0, len(lines))
	for _, line := range lines {
		variant, ok := byID[strings.TrimSpace(line.VariantID)]
		if !ok || variant.Product == nil {
			continue
		}
		resolved = append(resolved, resolveLine(variant, line.Quantity))
	}
	return resolved, nil
}

func resolveLine(variant *models.ProductVariant, quantity int) ResolvedCartLine {
	product := variant.Product
	unitPrice := variant.EffectivePrice(product)
	line := ResolvedCartLine{
		ProductID:   product.ID,
		VariantID:   variant.ID,
		ProductName: product.Name,
		Size:        variant.Size,
		Color:       variant.Color,
		ColorHex:    variant.ColorHex,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		LineTotal:   unitPrice.MulQuantity(quantity),
		Currency:    product.Currency,
		IsAvailable: variant.IsAvailable && product.IsActive,
	}
	if image := selectRepresentativeImage(product.Images, variant.Color); image != nil {
		line.ImageURL = image.ImageURL
	}
	return line
}

// selectRepresentativeImage 选择代表图：主图 → 同色图 → 展示顺序第一张
// images 需已按展示顺序排列
func selectRepresentativeImage(images []models.ProductImage, color string) *models.ProductImage {
	if len(images) == 0 {
		return nil
	}
	for i := range images {
		if images[i].IsPrimary {
			return &images[i]
		}
	}
	color = strings.TrimSpace(color)
	if color != "" {
		for i := range images {
			if strings.EqualFold(strings.TrimSpace(images[i].ColorVariant), color) {
				return &images[i]
			}
		}
	}
	return &images[0]
}

package service

import (
	"context"
	"strings"
	"time"

	"github.com/apparel-shop/internal/cache"
	"github.com/apparel-shop/internal/constants"
	"github.com/apparel-shop/internal/logger"
	"github.com/apparel-shop/internal/models"
	"github.com/apparel-shop/internal/repository"

	"github.com/google/uuid"
)

const defaultCatalogCacheTTL = 5 * time.Minute

// CatalogService 商品目录服务（后台维护与前台只读查询）
type CatalogService struct {
	productRepo repository.ProductRepository
	variantRepo repository.VariantRepository
	imageRepo   repository.ImageRepository
	cacheTTL    time.Duration
}

// NewCatalogService 创建商品目录服务
func NewCatalogService(productRepo repository.ProductRepository, variantRepo repository.VariantRepository, imageRepo repository.ImageRepository, cacheTTL time.Duration) *CatalogService {
	if cacheTTL <= 0 {
		cacheTTL = defaultCatalogCacheTTL
	}
	return &CatalogService{
		productRepo: productRepo,
		variantRepo: variantRepo,
		imageRepo:   imageRepo,
		cacheTTL:    cacheTTL,
	}
}

// ProductInput 创建/更新商品输入
type ProductInput struct {
	Name                 string       `json:"name" validate:"required,max=200"`
	Description          string       `json:"description" validate:"max=2000"`
	BasePrice            models.Money `json:"base_price"`
	Currency             string       `json:"currency" validate:"omitempty,iso4217"`
	FulfillmentProductID string       `json:"fulfillment_product_id" validate:"max=100"`
	IsActive             *bool        `json:"is_active"`
}

// VariantInput 创建/更新变体输入
type VariantInput struct {
	Size                 string       `json:"size" validate:"required,max=50"`
	Color                string       `json:"color" validate:"required,max=50"`
	ColorHex             string       `json:"color_hex" validate:"omitempty,hexcolor"`
	PriceAdjustment      models.Money `json:"price_adjustment"`
	StockQuantity        *int         `json:"stock_quantity" validate:"omitempty,gte=0"`
	FulfillmentVariantID string       `json:"fulfillment_variant_id" validate:"max=100"`
	IsAvailable          *bool        `json:"is_available"`
}

// ImageInput 创建/更新图片输入
type ImageInput struct {
	ImageURL     string `json:"image_url" validate:"required,max=500,url"`
	ColorVariant string `json:"color_variant" validate:"max=50"`
	DisplayOrder int    `json:"display_order" validate:"gte=0"`
	IsPrimary    bool   `json:"is_primary"`
}

func (in ProductInput) normalized() ProductInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	in.FulfillmentProductID = strings.TrimSpace(in.FulfillmentProductID)
	return in
}

func (in VariantInput) normalized() VariantInput {
	in.Size = strings.TrimSpace(in.Size)
	in.Color = strings.TrimSpace(in.Color)
	in.ColorHex = strings.TrimSpace(in.ColorHex)
	in.FulfillmentVariantID = strings.TrimSpace(in.FulfillmentVariantID)
	return in
}

func (in ImageInput) normalized() ImageInput {
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	in.ColorVariant = strings.TrimSpace(in.ColorVariant)
	return in
}

// ListAdmin 后台商品列表（按创建时间倒序）
func (s *CatalogService) ListAdmin(storeID, search string, page, pageSize int) ([]models.Product, int64, error) {
	storeID = strings.TrimSpace(storeID)
	if storeID == "" {
		return nil, 0, ErrStoreIDRequired
	}
	return s.productRepo.List(repository.ProductListFilter{
		StoreID:  storeID,
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(search),
	})
}

// GetAdmin 后台商品详情
func (s *CatalogService) GetAdmin(storeID, productID string) (*models.Product, error) {
	product, err := s.productRepo.GetByID(strings.TrimSpace(storeID), strings.TrimSpace(productID))
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// CreateProduct 创建商品
func (s *CatalogService) CreateProduct(ctx context.Context, storeID string, input ProductInput) (*models.Product, error) {
	storeID = strings.TrimSpace(storeID)
	if storeID == "" {
		return nil, ErrStoreIDRequired
	}
	input = input.normalized()
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if input.BasePrice.IsNegative() {
		return nil, ErrInvalidPrice
	}
	currency := input.Currency
	if currency == "" {
		currency = constants.DefaultCurrency
	}
	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	product := &models.Product{
		ID:                   uuid.NewString(),
		StoreID:              storeID,
		Name:                 input.Name,
		Description:          input.Description,
		BasePrice:            input.BasePrice,
		Currency:             currency,
		FulfillmentProductID: input.FulfillmentProductID,
		IsActive:             isActive,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	s.invalidate(ctx, storeID, product.ID)
	return product, nil
}

// UpdateProduct 更新商品
func (s *CatalogService) UpdateProduct(ctx context.Context, storeID, productID string, input ProductInput) (*models.Product, error) {
	product, err := s.GetAdmin(storeID, productID)
	if err != nil {
		return nil, err
	}
	input = input.normalized()
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if input.BasePrice.IsNegative() {
		return nil, ErrInvalidPrice
	}
	product.Name = input.Name
	product.Description = input.Description
	product.BasePrice = input.BasePrice
	if input.Currency != "" {
		product.Currency = input.Currency
	}
	product.FulfillmentProductID = input.FulfillmentProductID
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	product.UpdatedAt = time.Now()
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	s.invalidate(ctx, product.StoreID, product.ID)
	return s.GetAdmin(product.StoreID, product.ID)
}

// DeleteProduct 删除商品（历史订单保留快照）
func (s *CatalogService) DeleteProduct(ctx context.Context, storeID, productID string) error {
	storeID = strings.TrimSpace(storeID)
	deleted, err := s.productRepo.Delete(storeID, strings.TrimSpace(productID))
	if err != nil {
		return err
	}
	if !deleted {
		return ErrProductNotFound
	}
	s.invalidate(ctx, storeID, productID)
	logger.Infow("catalog_product_deleted", "store_id", storeID, "product_id", productID)
	return nil
}

// CreateVariant 创建变体
func (s *CatalogService) CreateVariant(ctx context.Context, storeID, productID string, input VariantInput) (*models.ProductVariant, error) {
	product, err := s.GetAdmin(storeID, productID)
	if err != nil {
		return nil, err
	}
	input = input.normalized()
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	stock := constants.DefaultVariantStockQuantity
	if input.StockQuantity != nil {
		stock = *input.StockQuantity
	}
	isAvailable := true
	if input.IsAvailable != nil {
		isAvailable = *input.IsAvailable
	}
	variant := &models.ProductVariant{
		ID:                   uuid.NewString(),
		ProductID:            product.ID,
		Size:                 input.Size,
		Color:                input.Color,
		ColorHex:             input.ColorHex,
		PriceAdjustment:      input.PriceAdjustment,
		StockQuantity:        stock,
		FulfillmentVariantID: input.FulfillmentVariantID,
		IsAvailable:          isAvailable,
	}
	if err := s.variantRepo.Create(variant); err != nil {
		return nil, err
	}
	s.invalidate(ctx, product.StoreID, product.ID)
	return variant, nil
}

// UpdateVariant 更新变体
func (s *CatalogService) UpdateVariant(ctx context.Context, storeID, productID, variantID string, input VariantInput) (*models.ProductVariant, error) {
	variant, err := s.variantRepo.GetInProduct(strings.TrimSpace(storeID), strings.TrimSpace(productID), strings.TrimSpace(variantID))
	if err != nil {
		return nil, err
	}
	if variant == nil {
		return nil, ErrVariantNotFound
	}
	input = input.normalized()
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	variant.Size = input.Size
	variant.Color = input.Color
	variant.ColorHex = input.ColorHex
	variant.PriceAdjustment = input.PriceAdjustment
	if input.StockQuantity != nil {
		variant.StockQuantity = *input.StockQuantity
	}
	variant.FulfillmentVariantID = input.FulfillmentVariantID
	if input.IsAvailable != nil {
		variant.IsAvailable = *input.IsAvailable
	}
	variant.UpdatedAt = time.Now()
	if err := s.variantRepo.Update(variant); err != nil {
		return nil, err
	}
	s.invalidate(ctx, storeID, productID)
	return variant, nil
}

// DeleteVariant 删除变体
func (s *CatalogService) DeleteVariant(ctx context.Context, storeID, productID, variantID string) error {
	deleted, err := s.variantRepo.Delete(strings.TrimSpace(storeID), strings.TrimSpace(productID), strings.TrimSpace(variantID))
	if err != nil {
		return err
	}
	if !deleted {
		return ErrVariantNotFound
	}
	s.invalidate(ctx, storeID, productID)
	return nil
}

// CreateImage 添加商品图片
func (s *CatalogService) CreateImage(ctx context.Context, storeID, productID string, input ImageInput) (*models.ProductImage, error) {
	product, err := s.GetAdmin(storeID, productID)
	if err != nil {
		return nil, err
	}
	input = input.normalized()
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	image := &models.ProductImage{
		ID:           uuid.NewString(),
		ProductID:    product.ID,
		ImageURL:     input.ImageURL,
		ColorVariant: input.ColorVariant,
		DisplayOrder: input.DisplayOrder,
		IsPrimary:    input.IsPrimary,
	}
	if err := s.imageRepo.Create(image); err != nil {
		return nil, err
	}
	if image.IsPrimary {
		if err := s.imageRepo.ClearPrimary(product.ID, image.ID); err != nil {
			return nil, err
		}
	}
	s.invalidate(ctx, product.StoreID, product.ID)
	return image, nil
}

// UpdateImage 更新商品图片
func (s *CatalogService) UpdateImage(ctx context.Context, storeID, productID, imageID string, input ImageInput) (*models.ProductImage, error) {
	image, err := s.imageRepo.GetInProduct(strings.TrimSpace(storeID), strings.TrimSpace(productID), strings.TrimSpace(imageID))
	if err != nil {
		return nil, err
	}
	if image == nil {
		return nil, ErrImageNotFound
	}
	input = input.normalized()
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	image.ImageURL = input.ImageURL
	image.ColorVariant = input.ColorVariant
	image.DisplayOrder = input.DisplayOrder
	image.IsPrimary = input.IsPrimary
	if err := s.imageRepo.Update(image); err != nil {
		return nil, err
	}
	if image.IsPrimary {
		if err := s.imageRepo.ClearPrimary(image.ProductID, image.ID); err != nil {
			return nil, err
		}
	}
	s.invalidate(ctx, storeID, productID)
	return image, nil
}

// DeleteImage 删除商品图片
func (s *CatalogService) DeleteImage(ctx context.Context, storeID, productID, imageID string) error {
	deleted, err := s.imageRepo.Delete(strings.TrimSpace(storeID), strings.TrimSpace(productID), strings.TrimSpace(imageID))
	if err != nil {
		return err
	}
	if !deleted {
		return ErrImageNotFound
	}
	s.invalidate(ctx, storeID, productID)
	return nil
}

// ListPublic 前台商品列表（仅上架商品，按名称排序；无搜索条件时走缓存）
func (s *CatalogService) ListPublic(ctx context.Context, storeID, search string, page, pageSize int) ([]models.Product, int64, error) {
	storeID = strings.TrimSpace(storeID)
	if storeID == "" {
		return nil, 0, ErrStoreIDRequired
	}
	search = strings.TrimSpace(search)
	if search != "" {
		return s.productRepo.List(repository.ProductListFilter{
			StoreID:     storeID,
			Page:        page,
			PageSize:    pageSize,
			Search:      search,
			OnlyActive:  true,
			OrderByName: true,
		})
	}

	all, err := s.activeProducts(ctx, storeID)
	if err != nil {
		return nil, 0, err
	}
	return paginateProducts(all, page, pageSize), int64(len(all)), nil
}

func (s *CatalogService) activeProducts(ctx context.Context, storeID string) ([]models.Product, error) {
	key := cache.CatalogListKey(storeID)
	var cached []models.Product
	hit, err := cache.GetJSON(ctx, key, &cached)
	if err != nil {
		logger.Warnw("catalog_cache_read_failed", "store_id", storeID, "error", err)
	}
	if hit {
		return cached, nil
	}
	products, _, err := s.productRepo.List(repository.ProductListFilter{
		StoreID:     storeID,
		OnlyActive:  true,
		OrderByName: true,
	})
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, key, products, s.cacheTTL); err != nil {
		logger.Warnw("catalog_cache_write_failed", "store_id", storeID, "error", err)
	}
	return products, nil
}

func paginateProducts(products []models.Product, page, pageSize int) []models.Product {
	if pageSize <= 0 {
		return products
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(products) {
		return []models.Product{}
	}
	end := start + pageSize
	if end > len(products) {
		end = len(products)
	}
	return products[start:end]
}

// GetPublic 前台商品详情（仅上架商品）
func (s *CatalogService) GetPublic(ctx context.Context, storeID, productID string) (*models.Product, error) {
	storeID = strings.TrimSpace(storeID)
	productID = strings.TrimSpace(productID)
	if storeID == "" {
		return nil, ErrStoreIDRequired
	}
	key := cache.CatalogProductKey(storeID, productID)
	var cached models.Product
	hit, err := cache.GetJSON(ctx, key, &cached)
	if err != nil {
		logger.Warnw("catalog_cache_read_failed", "store_id", storeID, "product_id", productID, "error", err)
	}
	if hit {
		return &cached, nil
	}
	product, err := s.productRepo.GetActiveByID(storeID, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if err := cache.SetJSON(ctx, key, product, s.cacheTTL); err != nil {
		logger.Warnw("catalog_cache_write_failed", "store_id", storeID, "product_id", productID, "error", err)
	}
	return product, nil
}

func (s *CatalogService) invalidate(ctx context.Context, storeID, productID string) {
	if err := cache.InvalidateCatalog(ctx, strings.TrimSpace(storeID), strings.TrimSpace(productID)); err != nil {
		logger.Warnw("catalog_cache_invalidate_failed", "store_id", storeID, "product_id", productID, "error", err)
	}
}

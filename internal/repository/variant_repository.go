package repository

import (
	"errors"

	"github.com/apparel-shop/internal/models"

	"gorm.io/gorm"
)

// VariantRepository 商品变体数据访问接口
type VariantRepository interface {
	GetByID(storeID, variantID string) (*models.ProductVariant, error)
	GetInProduct(storeID, productID, variantID string) (*models.ProductVariant, error)
	ListByIDs(storeID string, variantIDs []string) ([]models.ProductVariant, error)
	ListPurchasableByIDs(storeID string, variantIDs []string) ([]models.ProductVariant, error)
	Create(variant *models.ProductVariant) error
	Update(variant *models.ProductVariant) error
	Delete(storeID, productID, variantID string) (bool, error)
	WithTx(tx *gorm.DB) *GormVariantRepository
}

// GormVariantRepository GORM 实现
type GormVariantRepository struct {
	db *gorm.DB
}

// NewVariantRepository 创建变体仓库
func NewVariantRepository(db *gorm.DB) *GormVariantRepository {
	return &GormVariantRepository{db: db}
}

// WithTx 绑定事务
func (r *GormVariantRepository) WithTx(tx *gorm.DB) *GormVariantRepository {
	if tx == nil {
		return r
	}
	return &GormVariantRepository{db: tx}
}

// scoped 通过商品表限定店铺
func (r *GormVariantRepository) scoped(storeID string) *gorm.DB {
	return r.db.Model(&models.ProductVariant{}).
		Joins("JOIN apparel_products ON apparel_products.id = apparel_product_variants.product_id").
		Where("apparel_products.store_id = ?", storeID)
}

func withProduct(query *gorm.DB) *gorm.DB {
	return query.Preload("Product").Preload("Product.Images", orderedImages)
}

// GetByID 获取店铺内的变体（含商品与图片）
func (r *GormVariantRepository) GetByID(storeID, variantID string) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	query := withProduct(r.scoped(storeID)).Where("apparel_product_variants.id = ?", variantID)
	if err := query.First(&variant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &variant, nil
}

// GetInProduct 获取指定商品下的变体
func (r *GormVariantRepository) GetInProduct(storeID, productID, variantID string) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	query := r.scoped(storeID).
		Where("apparel_product_variants.id = ? AND apparel_product_variants.product_id = ?", variantID, productID)
	if err := query.First(&variant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &variant, nil
}

// ListByIDs 批量获取店铺内的变体，不过滤可售状态
func (r *GormVariantRepository) ListByIDs(storeID string, variantIDs []string) ([]models.ProductVariant, error) {
	if len(variantIDs) == 0 {
		return []models.ProductVariant{}, nil
	}
	var variants []models.ProductVariant
	query := withProduct(r.scoped(storeID)).Where("apparel_product_variants.id IN ?", variantIDs)
	if err := query.Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

// ListPurchasableByIDs 批量获取可下单的变体（变体可售且商品上架）
func (r *GormVariantRepository) ListPurchasableByIDs(storeID string, variantIDs []string) ([]models.ProductVariant, error) {
	if len(variantIDs) == 0 {
		return []models.ProductVariant{}, nil
	}
	var variants []models.ProductVariant
	query := withProduct(r.scoped(storeID)).
		Where("apparel_product_variants.id IN ?", variantIDs).
		Where("apparel_product_variants.is_available = ?", true).
		Where("apparel_products.is_active = ?", true)
	if err := query.Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

// Create 创建变体
func (r *GormVariantRepository) Create(variant *models.ProductVariant) error {
	return r.db.Omit("Product").Create(variant).Error
}

// Update 更新变体
func (r *GormVariantRepository) Update(variant *models.ProductVariant) error {
	return r.db.Model(&models.ProductVariant{}).
		Where("id = ? AND product_id = ?", variant.ID, variant.ProductID).
		Select("size", "color", "color_hex", "price_adjustment", "stock_quantity", "fulfillment_variant_id", "is_available", "updated_at").
		Updates(variant).Error
}

// Delete 删除变体，历史订单项的变体引用置空
func (r *GormVariantRepository) Delete(storeID, productID, variantID string) (bool, error) {
	deleted := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.ProductVariant{}).
			Joins("JOIN apparel_products ON apparel_products.id = apparel_product_variants.product_id").
			Where("apparel_products.store_id = ?", storeID).
			Where("apparel_product_variants.id = ? AND apparel_product_variants.product_id = ?", variantID, productID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return nil
		}
		if err := tx.Model(&models.OrderItem{}).Where("variant_id = ?", variantID).Update("variant_id", nil).Error; err != nil {
			return err
		}
		result := tx.Where("id = ? AND product_id = ?", variantID, productID).Delete(&models.ProductVariant{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

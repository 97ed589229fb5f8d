package repository

import (
	"errors"
	"strings"

	"github.com/apparel-shop/internal/models"

	"gorm.io/gorm"
)

// ProductRepository 商品数据访问接口（所有查询均按店铺隔离）
type ProductRepository interface {
	GetByID(storeID, id string) (*models.Product, error)
	GetActiveByID(storeID, id string) (*models.Product, error)
	List(filter ProductListFilter) ([]models.Product, int64, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(storeID, id string) (bool, error)
	WithTx(tx *gorm.DB) *GormProductRepository
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) *GormProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// orderedImages 图片按展示顺序排列，相同顺序按创建先后
func orderedImages(db *gorm.DB) *gorm.DB {
	return db.Order("display_order ASC").Order("created_at ASC").Order("id ASC")
}

func orderedVariants(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC").Order("id ASC")
}

func (r *GormProductRepository) withChildren(query *gorm.DB) *gorm.DB {
	return query.Preload("Variants", orderedVariants).Preload("Images", orderedImages)
}

// GetByID 获取店铺内的商品（含变体与图片）
func (r *GormProductRepository) GetByID(storeID, id string) (*models.Product, error) {
	return r.getOne(r.db.Where("id = ? AND store_id = ?", id, storeID))
}

// GetActiveByID 获取店铺内已上架的商品
func (r *GormProductRepository) GetActiveByID(storeID, id string) (*models.Product, error) {
	return r.getOne(r.db.Where("id = ? AND store_id = ? AND is_active = ?", id, storeID, true))
}

func (r *GormProductRepository) getOne(query *gorm.DB) (*models.Product, error) {
	var product models.Product
	if err := r.withChildren(query).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// List 商品列表
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	query := r.db.Model(&models.Product{}).Where("store_id = ?", filter.StoreID)
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if condition, args := buildLikeCondition(r.db, []string{"name", "description"}, filter.Search); condition != "" {
		query = query.Where(condition, args...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.OrderByName {
		query = query.Order("name ASC").Order("id ASC")
	} else {
		query = query.Order("created_at DESC").Order("id DESC")
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var products []models.Product
	if err := r.withChildren(query).Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// Create 创建商品
func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Omit("Variants", "Images").Create(product).Error
}

// Update 更新商品基础字段
func (r *GormProductRepository) Update(product *models.Product) error {
	return r.db.Model(&models.Product{}).
		Where("id = ? AND store_id = ?", product.ID, product.StoreID).
		Select("name", "description", "base_price", "currency", "fulfillment_product_id", "is_active", "updated_at").
		Updates(product).Error
}

// Delete 删除商品及其变体与图片，历史订单项的商品/变体引用置空（快照保留）
func (r *GormProductRepository) Delete(storeID, id string) (bool, error) {
	storeID = strings.TrimSpace(storeID)
	deleted := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Select("id").Where("id = ? AND store_id = ?", id, storeID).First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := tx.Model(&models.OrderItem{}).
			Where("product_id = ?", product.ID).
			Updates(map[string]interface{}{"product_id": nil, "variant_id": nil}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductVariant{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ? AND store_id = ?", product.ID, storeID).Delete(&models.Product{})
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

package repository

import (
	"errors"

	"github.com/apparel-shop/internal/models"

	"gorm.io/gorm"
)

// ImageRepository 商品图片数据访问接口
type ImageRepository interface {
	GetInProduct(storeID, productID, imageID string) (*models.ProductImage, error)
	Create(image *models.ProductImage) error
	Update(image *models.ProductImage) error
	Delete(storeID, productID, imageID string) (bool, error)
	ClearPrimary(productID, exceptID string) error
}

// GormImageRepository GORM 实现
type GormImageRepository struct {
	db *gorm.DB
}

// NewImageRepository 创建图片仓库
func NewImageRepository(db *gorm.DB) *GormImageRepository {
	return &GormImageRepository{db: db}
}

// GetInProduct 获取指定商品下的图片
func (r *GormImageRepository) GetInProduct(storeID, productID, imageID string) (*models.ProductImage, error) {
	var image models.ProductImage
	err := r.db.Model(&models.ProductImage{}).
		Joins("JOIN apparel_products ON apparel_products.id = apparel_product_images.product_id").
		Where("apparel_products.store_id = ?", storeID).
		Where("apparel_product_images.id = ? AND apparel_product_images.product_id = ?", imageID, productID).
		First(&image).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &image, nil
}

// Create 创建图片
func (r *GormImageRepository) Create(image *models.ProductImage) error {
	return r.db.Create(image).Error
}

// Update 更新图片
func (r *GormImageRepository) Update(image *models.ProductImage) error {
	return r.db.Model(&models.ProductImage{}).
		Where("id = ? AND product_id = ?", image.ID, image.ProductID).
		Select("image_url", "color_variant", "display_order", "is_primary").
		Updates(image).Error
}

// Delete 删除图片
func (r *GormImageRepository) Delete(storeID, productID, imageID string) (bool, error) {
	image, err := r.GetInProduct(storeID, productID, imageID)
	if err != nil || image == nil {
		return false, err
	}
	result := r.db.Where("id = ? AND product_id = ?", image.ID, image.ProductID).Delete(&models.ProductImage{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ClearPrimary 取消商品下其它图片的主图标记（每个商品最多一张主图）
func (r *GormImageRepository) ClearPrimary(productID, exceptID string) error {
	return r.db.Model(&models.ProductImage{}).
		Where("product_id = ? AND id <> ? AND is_primary = ?", productID, exceptID, true).
		Update("is_primary", false).Error
}

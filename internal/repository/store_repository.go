package repository

import (
	"errors"

	"github.com/apparel-shop/internal/models"

	"gorm.io/gorm"
)

// StoreRepository 店铺登记数据访问接口
type StoreRepository interface {
	FindByID(id string) (*models.Store, error)
	Save(store *models.Store) error
}

// GormStoreRepository GORM 实现
type GormStoreRepository struct {
	db *gorm.DB
}

// NewStoreRepository 创建店铺仓库
func NewStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

// FindByID 根据 ID 获取店铺
func (r *GormStoreRepository) FindByID(id string) (*models.Store, error) {
	var store models.Store
	if err := r.db.Where("id = ?", id).First(&store).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &store, nil
}

// Save 创建或更新店铺
func (r *GormStoreRepository) Save(store *models.Store) error {
	return r.db.Save(store).Error
}

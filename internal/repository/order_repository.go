package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/apparel-shop/internal/constants"
	"github.com/apparel-shop/internal/models"

	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(order *models.Order, items []models.OrderItem) error
	GetByID(storeID, id string) (*models.Order, error)
	FindByID(id string) (*models.Order, error)
	GetByInvoiceID(invoiceID string) (*models.Order, error)
	List(filter OrderListFilter) ([]models.Order, int64, error)
	AttachInvoice(id, invoiceID string) (bool, error)
	TransitionStatus(id, fromStatus, toStatus string, updates map[string]interface{}) (bool, error)
	ListMissingInvoice(createdBefore time.Time, limit int) ([]models.Order, error)
	WithTx(tx *gorm.DB) *GormOrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) *GormOrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC").Order("id ASC")
}

// Create 创建订单与订单项（调用方负责提供事务）
func (r *GormOrderRepository) Create(order *models.Order, items []models.OrderItem) error {
	if err := r.db.Omit("Items").Create(order).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
		items[i].SortOrder = i
	}
	if len(items) > 0 {
		if err := r.db.Create(&items).Error; err != nil {
			return err
		}
	}
	order.Items = items
	return nil
}

// GetByID 获取店铺内的订单（含订单项）
func (r *GormOrderRepository) GetByID(storeID, id string) (*models.Order, error) {
	return r.getOne(r.db.Where("id = ? AND store_id = ?", id, storeID))
}

// FindByID 按 ID 获取订单（后台任务使用，不限定店铺）
func (r *GormOrderRepository) FindByID(id string) (*models.Order, error) {
	return r.getOne(r.db.Where("id = ?", id))
}

// GetByInvoiceID 根据发票 ID 获取订单
func (r *GormOrderRepository) GetByInvoiceID(invoiceID string) (*models.Order, error) {
	invoiceID = strings.TrimSpace(invoiceID)
	if invoiceID == "" {
		return nil, nil
	}
	return r.getOne(r.db.Where("invoice_id = ?", invoiceID))
}

func (r *GormOrderRepository) getOne(query *gorm.DB) (*models.Order, error) {
	var order models.Order
	if err := query.Preload("Items", orderedItems).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// List 订单列表（按创建时间倒序）
func (r *GormOrderRepository) List(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{}).Where("store_id = ?", filter.StoreID)
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if email := strings.TrimSpace(filter.Email); email != "" {
		query = query.Where("email = ?", email)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query.Order("created_at DESC").Order("id DESC"), filter.Page, filter.PageSize)

	var orders []models.Order
	if err := query.Preload("Items", orderedItems).Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// AttachInvoice 写入发票 ID（仅当订单尚未关联发票时生效）
func (r *GormOrderRepository) AttachInvoice(id, invoiceID string) (bool, error) {
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND invoice_id IS NULL", id).
		Updates(map[string]interface{}{
			"invoice_id": invoiceID,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// TransitionStatus 以当前状态为条件更新订单状态，避免并发覆盖
func (r *GormOrderRepository) TransitionStatus(id, fromStatus, toStatus string, updates map[string]interface{}) (bool, error) {
	values := map[string]interface{}{
		"status":     toStatus,
		"updated_at": time.Now(),
	}
	for key, value := range updates {
		values[key] = value
	}
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(values)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListMissingInvoice 查询尚未关联发票的待支付订单（用于补建发票）
func (r *GormOrderRepository) ListMissingInvoice(createdBefore time.Time, limit int) ([]models.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	var orders []models.Order
	err := r.db.Model(&models.Order{}).
		Where("invoice_id IS NULL AND status = ? AND created_at <= ?", constants.OrderStatusPending, createdBefore).
		Order("created_at ASC").
		Limit(limit).
		Preload("Items", orderedItems).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

package models

import "time"

// Store 店铺登记表（店铺本身由宿主平台管理，这里只保存发票所需的映射）
type Store struct {
	ID              string    `gorm:"primarykey;type:varchar(64)" json:"id"`                   // 店铺ID（宿主平台分配）
	Name            string    `gorm:"type:varchar(200);not null" json:"name"`                  // 店铺名称
	PaymentStoreID  string    `gorm:"type:varchar(100);not null" json:"payment_store_id"`      // 支付系统中的店铺ID
	DefaultCurrency string    `gorm:"type:varchar(10);not null;default:'USD'" json:"currency"` // 默认币种
	IsActive        bool      `gorm:"not null;index" json:"is_active"`                         // 是否启用
	CreatedAt       time.Time `json:"created_at"`                                              // 创建时间
	UpdatedAt       time.Time `json:"updated_at"`                                              // 更新时间
}

// TableName 指定表名
func (Store) TableName() string {
	return "stores"
}

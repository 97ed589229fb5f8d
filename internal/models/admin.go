package models

import (
	"time"
)

// Admin 店铺管理员表
type Admin struct {
	ID           uint       `gorm:"primarykey" json:"id"`                                   // 主键
	Username     string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"` // 登录账号
	PasswordHash string     `gorm:"not null" json:"-"`                                      // 密码哈希（不返回给前端）
	StoreID      string     `gorm:"type:varchar(64);not null;index" json:"store_id"`        // 可管理的店铺
	Role         string     `gorm:"type:varchar(32);not null" json:"role"`                  // 角色（store_owner / store_viewer）
	LastLoginAt  *time.Time `json:"last_login_at"`                                          // 最后登录时间
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`                                // 创建时间
}

// TableName 指定表名
func (Admin) TableName() string {
	return "admins"
}

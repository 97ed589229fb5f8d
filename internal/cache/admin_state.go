package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/apparel-shop/internal/models"
)

const adminStateCacheTTL = 10 * time.Minute

// AdminAuthState 管理员鉴权快照（JWT 中间件使用，避免每次请求查库）
type AdminAuthState struct {
	AdminID   uint   `json:"admin_id"`
	Username  string `json:"username"`
	StoreID   string `json:"store_id"`
	Role      string `json:"role"`
	UpdatedAt int64  `json:"updated_at"`
}

func adminStateKey(adminID uint) string {
	return fmt.Sprintf("auth:admin:%d", adminID)
}

// BuildAdminAuthState 从管理员模型构建鉴权快照
func BuildAdminAuthState(admin *models.Admin) *AdminAuthState {
	if admin == nil {
		return nil
	}
	return &AdminAuthState{
		AdminID:   admin.ID,
		Username:  admin.Username,
		StoreID:   admin.StoreID,
		Role:      admin.Role,
		UpdatedAt: time.Now().Unix(),
	}
}

// GetAdminAuthState 读取管理员鉴权快照
func GetAdminAuthState(ctx context.Context, adminID uint) (*AdminAuthState, error) {
	var state AdminAuthState
	hit, err := GetJSON(ctx, adminStateKey(adminID), &state)
	if err != nil || !hit {
		return nil, err
	}
	return &state, nil
}

// SetAdminAuthState 写入管理员鉴权快照
func SetAdminAuthState(ctx context.Context, state *AdminAuthState) error {
	if state == nil || state.AdminID == 0 {
		return nil
	}
	return SetJSON(ctx, adminStateKey(state.AdminID), state, adminStateCacheTTL)
}

package authz

import (
	"fmt"

	"github.com/apparel-shop/internal/constants"
)

const storeScopePath = "/admin/stores/:store_id"

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Policies []Policy
}

// BuiltinRoleSeeds 店铺管理员角色矩阵
// store_owner 可修改店铺商品与订单，store_viewer 只读
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: constants.RoleStoreViewer,
			Policies: []Policy{
				{Object: storeScopePath + "/*", Action: "GET"},
			},
		},
		{
			Role: constants.RoleStoreOwner,
			Policies: []Policy{
				{Object: storeScopePath + "/*", Action: "*"},
			},
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色策略
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}
	for _, seed := range BuiltinRoleSeeds() {
		for _, policy := range seed.Policies {
			if err := s.GrantRolePolicy(seed.Role, policy.Object, policy.Action); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}
	}
	return nil
}

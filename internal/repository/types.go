package repository

import "time"

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	StoreID    string
	Page       int
	PageSize   int
	Search     string
	OnlyActive bool
	// OrderByName 为 true 时按名称升序（店铺前台），否则按创建时间倒序（后台）
	OrderByName bool
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	StoreID     string
	Page        int
	PageSize    int
	Status      string
	Email       string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

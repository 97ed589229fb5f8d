package cache

import (
	"context"
	"fmt"
)

// CatalogListKey 店铺前台商品列表缓存键
func CatalogListKey(storeID string) string {
	return fmt.Sprintf("catalog:store:%s:active_products", storeID)
}

// CatalogProductKey 店铺前台商品详情缓存键
func CatalogProductKey(storeID, productID string) string {
	return fmt.Sprintf("catalog:store:%s:product:%s", storeID, productID)
}

// InvalidateCatalog 商品变更后清理前台缓存
func InvalidateCatalog(ctx context.Context, storeID, productID string) error {
	keys := []string{CatalogListKey(storeID)}
	if productID != "" {
		keys = append(keys, CatalogProductKey(storeID, productID))
	}
	return Del(ctx, keys...)
}

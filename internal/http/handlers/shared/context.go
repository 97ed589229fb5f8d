package shared

import (
	"strings"

	"github.com/apparel-shop/internal/http/response"

	"github.com/gin-gonic/gin"
)

// 鉴权中间件写入上下文的键
const (
	ContextKeyAdminID      = "admin_id"
	ContextKeyAdminStoreID = "admin_store_id"
	ContextKeyAdminRole    = "admin_role"
	ContextKeyUsername     = "username"
)

// GetContextUint 从上下文读取 uint 值并统一处理错误响应。
func GetContextUint(c *gin.Context, key string) (uint, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "unauthorized", nil)
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, key+" is invalid", nil)
			return 0, false
		}
		return uint(v), true
	case float64:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, key+" is invalid", nil)
			return 0, false
		}
		return uint(v), true
	default:
		RespondError(c, response.CodeInternal, key+" has unexpected type", nil)
		return 0, false
	}
}

// GetAdminID 读取当前管理员 ID。
func GetAdminID(c *gin.Context) (uint, bool) {
	return GetContextUint(c, ContextKeyAdminID)
}

// StoreIDParam 读取路径中的店铺 ID，缺失时直接返回 400。
func StoreIDParam(c *gin.Context) (string, bool) {
	storeID := strings.TrimSpace(c.Param("store_id"))
	if storeID == "" {
		RespondError(c, response.CodeBadRequest, "store id is required", nil)
		return "", false
	}
	return storeID, true
}

// RequiredParam 读取必填路径参数。
func RequiredParam(c *gin.Context, name string) (string, bool) {
	value := strings.TrimSpace(c.Param(name))
	if value == "" {
		RespondError(c, response.CodeBadRequest, name+" is required", nil)
		return "", false
	}
	return value, true
}

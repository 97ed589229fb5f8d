package admin

import (
	"strconv"
	"strings"

	handlershared "github.com/apparel-shop/internal/http/handlers/shared"
	"github.com/apparel-shop/internal/http/response"
	"github.com/apparel-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// ListProducts 后台商品列表
func (h *Handler) ListProducts(c *gin.Context) {
	storeID, ok := handlershared.StoreIDParam(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	search := strings.TrimSpace(c.Query("search"))

	products, total, err := h.CatalogService.ListAdmin(storeID, search, page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, products, pagination)
}

// GetProduct 后台商品详情（含变体与图片）
func (h *Handler) GetProduct(c *gin.Context) {
	storeID, ok := handlershared.StoreIDParam(c)
	if !ok {
		return
	}
	params, ok := pathParams(c, "id")
	if !ok {
		return
	}
	product, err := h.CatalogService.GetAdmin(storeID, params[0])
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, product)
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	storeID, ok := handlershared.StoreIDParam(c)
	if !ok {
		return
	}
	var req service.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", nil)
		return
	}
	product, err := h.CatalogService.CreateProduct(c.Request.Context(), storeID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, product)
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	storeID, ok := handlershared.StoreIDParam(c)
	if !ok {
		return
	}
	params, ok := pathParams(c, "id")
	if !ok {
		return
	}
	var req service.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", nil)
		return
	}
	product, err := h.CatalogService.UpdateProduct(c.Request.Context(), storeID, params[0], req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, product)
}

// DeleteProduct 删除商品（历史订单项保留快照）
func (h *Handler) DeleteProduct(c *gin.Context) {
	storeID, ok := handlershared.StoreIDParam(c)
	if !ok {
		return
	}
	params, ok := pathParams(c, "id")
	if !ok {
		return
	}
	if err := h.CatalogService.DeleteProduct(c.Request.Context(), storeID, params[0]); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}

// CreateVariant 新增变体
func (h *Handler) CreateVariant(c *gin.Context) {
	storeID, ok := handlershared.StoreIDParam(c)
	if !ok {
		return
	}
	params, ok := pathParams(c, "id")
	if !ok {
		return
	}
	var req service.VariantInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", nil)
		return
	}
	variant, err := h.CatalogService.CreateVariant(c.Request.Context(), storeID, params[0], req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, variant)
}

// UpdateVariant 更新变体
func (h *Handler) UpdateVariant(c *gin.Context) {
	storeID, ok := handlershared.StoreIDParam(c)
	if !ok {
		return
	}
	params, ok := pathParams(c, "id", "variant_id")
	if !ok {
		return
	}
	var req service.VariantInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", nil)
		return
	}
	variant, err := h.CatalogService.UpdateVariant(c.Request.Context(), storeID, params[0], params[1], req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, variant)
}

// DeleteVariant 删除变体
func (h *Handler) DeleteVariant(c *gin.Context) {
	storeID, ok := handlershared.StoreIDParam(c)
	if !ok {
		return
	}
	params, ok := pathParams(c, "id", "variant_id")
	if !ok {
		return
	}
	if err := h.CatalogService.DeleteVariant(c.Request.Context(), storeID, params[0], params[1]); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}

// CreateImage 新增商品图片
func (h *Handler) CreateImage(c *gin.Context) {
	storeID, ok := handlershared.StoreIDParam(c)
	if !ok {
		return
	}
	params, ok := pathParams(c, "id")
	if !ok {
		return
	}
	var req service.ImageInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", nil)
		return
	}
	image, err := h.CatalogService.CreateImage(c.Request.Context(), storeID, params[0], req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, image)
}

// UpdateImage 更新商品图片
func (h *Handler) UpdateImage(c *gin.Context) {
	storeID, ok := handlershared.StoreIDParam(c)
	if !ok {
		return
	}
	params, ok := pathParams(c, "id", "image_id")
	if !ok {
		return
	}
	var req service.ImageInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", nil)
		return
	}
	image, err := h.CatalogService.UpdateImage(c.Request.Context(), storeID, params[0], params[1], req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, image)
}

// DeleteImage 删除商品图片
func (h *Handler) DeleteImage(c *gin.Context) {
	storeID, ok := handlershared.StoreIDParam(c)
	if !ok {
		return
	}
	params, ok := pathParams(c, "id", "image_id")
	if !ok {
		return
	}
	if err := h.CatalogService.DeleteImage(c.Request.Context(), storeID, params[0], params[1]); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}

package public

import (
	"strconv"
	"strings"

	handlershared "github.com/apparel-shop/internal/http/handlers/shared"
	"github.com/apparel-shop/internal/http/response"
	"github.com/apparel-shop/internal/models"

	"github.com/gin-gonic/gin"
)

// PublicVariantView 前台变体视图
type PublicVariantView struct {
	ID            string       `json:"id"`
	Size          string       `json:"size"`
	Color         string       `json:"color"`
	ColorHex      string       `json:"color_hex,omitempty"`
	Price         models.Money `json:"price"`
	StockQuantity int          `json:"stock_quantity"`
	IsAvailable   bool         `json:"is_available"`
}

// PublicImageView 前台图片视图
type PublicImageView struct {
	ID           string `json:"id"`
	ImageURL     string `json:"image_url"`
	ColorVariant string `json:"color_variant,omitempty"`
	DisplayOrder int    `json:"display_order"`
	IsPrimary    bool   `json:"is_primary"`
}

// PublicProductView 前台商品视图（隐藏履约平台字段）
type PublicProductView struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	BasePrice   models.Money        `json:"base_price"`
	Currency    string              `json:"currency"`
	Variants    []PublicVariantView `json:"variants"`
	Images      []PublicImageView   `json:"images"`
}

func buildPublicProductView(product *models.Product) PublicProductView {
	view := PublicProductView{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		BasePrice:   product.BasePrice,
		Currency:    product.Currency,
		Variants:    make([]PublicVariantView, 0, len(product.Variants)),
		Images:      make([]PublicImageView, 0, len(product.Images)),
	}
	for i := range product.Variants {
		variant := &product.Variants[i]
		view.Variants = append(view.Variants, PublicVariantView{
			ID:            variant.ID,
			Size:          variant.Size,
			Color:         variant.Color,
			ColorHex:      variant.ColorHex,
			Price:         variant.EffectivePrice(product),
			StockQuantity: variant.StockQuantity,
			IsAvailable:   variant.IsAvailable,
		})
	}
	for _, image := range product.Images {
		view.Images = append(view.Images, PublicImageView{
			ID:           image.ID,
			ImageURL:     image.ImageURL,
			ColorVariant: image.ColorVariant,
			DisplayOrder: image.DisplayOrder,
			IsPrimary:    image.IsPrimary,
		})
	}
	return view
}

// GetProducts 前台商品列表（仅上架商品，按名称排序）
func (h *Handler) GetProducts(c *gin.Context) {
	storeID, ok := handlershared.StoreIDParam(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	search := strings.TrimSpace(c.Query("search"))

	products, total, err := h.CatalogService.ListPublic(c.Request.Context(), storeID, search, page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	items := make([]PublicProductView, 0, len(products))
	for i := range products {
		items = append(items, buildPublicProductView(&products[i]))
	}
	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, items, pagination)
}

// GetProduct 前台商品详情（未上架商品返回 404）
func (h *Handler) GetProduct(c *gin.Context) {
	storeID, ok := handlershared.StoreIDParam(c)
	if !ok {
		return
	}
	productID, ok := handlershared.RequiredParam(c, "id")
	if !ok {
		return
	}
	product, err := h.CatalogService.GetPublic(c.Request.Context(), storeID, productID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, buildPublicProductView(product))
}

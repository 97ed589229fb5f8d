package models

import (
	"time"
)

// Product 服装商品表
type Product struct {
	ID                   string    `gorm:"primarykey;type:varchar(36)" json:"id"`                     // 主键（UUID）
	StoreID              string    `gorm:"type:varchar(64);not null;index" json:"store_id"`           // 所属店铺
	Name                 string    `gorm:"type:varchar(200);not null;index" json:"name"`              // 商品名称
	Description          string    `gorm:"type:varchar(2000)" json:"description"`                     // 商品描述
	BasePrice            Money     `gorm:"type:decimal(18,2);not null;default:0" json:"base_price"`   // 基础价格
	Currency             string    `gorm:"type:varchar(10);not null" json:"currency"`                 // 币种
	FulfillmentProductID string    `gorm:"type:varchar(100)" json:"fulfillment_product_id,omitempty"` // 履约平台商品ID
	IsActive             bool      `gorm:"not null;index" json:"is_active"`                           // 是否上架
	CreatedAt            time.Time `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt            time.Time `json:"updated_at"`                                                // 更新时间

	Variants []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants,omitempty"` // 变体
	Images   []ProductImage   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images,omitempty"`   // 图片
}

// TableName 指定表名
func (Product) TableName() string {
	return "apparel_products"
}

// ProductVariant 商品变体（尺码 × 颜色）
type ProductVariant struct {
	ID                   string    `gorm:"primarykey;type:varchar(36)" json:"id"`                         // 主键（UUID）
	ProductID            string    `gorm:"type:varchar(36);not null;index" json:"product_id"`             // 所属商品
	Size                 string    `gorm:"type:varchar(50);not null" json:"size"`                         // 尺码
	Color                string    `gorm:"type:varchar(50);not null" json:"color"`                        // 颜色
	ColorHex             string    `gorm:"type:varchar(7)" json:"color_hex,omitempty"`                    // 颜色色值
	PriceAdjustment      Money     `gorm:"type:decimal(18,2);not null;default:0" json:"price_adjustment"` // 价格调整（可为负）
	StockQuantity        int       `gorm:"not null" json:"stock_quantity"`                                // 库存（仅展示）
	FulfillmentVariantID string    `gorm:"type:varchar(100)" json:"fulfillment_variant_id,omitempty"`     // 履约平台变体ID
	IsAvailable          bool      `gorm:"not null;index" json:"is_available"`                            // 是否可售
	CreatedAt            time.Time `json:"created_at"`                                                    // 创建时间
	UpdatedAt            time.Time `json:"updated_at"`                                                    // 更新时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
}

// TableName 指定表名
func (ProductVariant) TableName() string {
	return "apparel_product_variants"
}

// EffectivePrice 变体实际单价 = 商品基础价格 + 变体价格调整
func (v *ProductVariant) EffectivePrice(product *Product) Money {
	if product == nil {
		return v.PriceAdjustment
	}
	return product.BasePrice.Add(v.PriceAdjustment)
}

// ProductImage 商品图片
type ProductImage struct {
	ID           string    `gorm:"primarykey;type:varchar(36)" json:"id"`             // 主键（UUID）
	ProductID    string    `gorm:"type:varchar(36);not null;index" json:"product_id"` // 所属商品
	ImageURL     string    `gorm:"type:varchar(500);not null" json:"image_url"`       // 图片地址
	ColorVariant string    `gorm:"type:varchar(50)" json:"color_variant,omitempty"`   // 关联颜色
	DisplayOrder int       `gorm:"not null;default:0;index" json:"display_order"`     // 展示顺序（升序）
	IsPrimary    bool      `gorm:"not null" json:"is_primary"`                        // 是否主图
	CreatedAt    time.Time `json:"created_at"`                                        // 创建时间
}

// TableName 指定表名
func (ProductImage) TableName() string {
	return "apparel_product_images"
}

package models

import (
	"time"
)

// Order 服装订单表
type Order struct {
	ID                 string     `gorm:"primarykey;type:varchar(36)" json:"id"`                     // 主键（UUID）
	StoreID            string     `gorm:"type:varchar(64);not null;index" json:"store_id"`           // 所属店铺
	InvoiceID          *string    `gorm:"type:varchar(100);index" json:"invoice_id"`                 // 支付发票ID（创建发票前为空）
	Status             string     `gorm:"type:varchar(32);not null;index" json:"status"`             // 订单状态
	TotalAmount        Money      `gorm:"type:decimal(18,2);not null;default:0" json:"total_amount"` // 订单总额
	Currency           string     `gorm:"type:varchar(10);not null" json:"currency"`                 // 币种
	ShippingName       string     `gorm:"type:varchar(200);not null" json:"shipping_name"`           // 收件人
	ShippingAddress    string     `gorm:"type:varchar(300);not null" json:"shipping_address"`        // 地址
	ShippingCity       string     `gorm:"type:varchar(100)" json:"shipping_city"`                    // 城市
	ShippingState      string     `gorm:"type:varchar(100)" json:"shipping_state"`                   // 州/省
	ShippingZip        string     `gorm:"type:varchar(20)" json:"shipping_zip"`                      // 邮编
	ShippingCountry    string     `gorm:"type:varchar(100)" json:"shipping_country"`                 // 国家
	Email              string     `gorm:"type:varchar(200)" json:"email,omitempty"`                  // 联系邮箱
	Phone              string     `gorm:"type:varchar(50)" json:"phone,omitempty"`                   // 联系电话
	CustomerNotes      string     `gorm:"type:varchar(1000)" json:"customer_notes,omitempty"`        // 买家备注
	FulfillmentOrderID string     `gorm:"type:varchar(100)" json:"fulfillment_order_id,omitempty"`   // 履约平台订单ID
	IsFulfilled        bool       `gorm:"not null" json:"is_fulfilled"`                              // 是否已交付履约
	FulfilledAt        *time.Time `json:"fulfilled_at,omitempty"`                                    // 履约时间
	CreatedAt          time.Time  `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt          time.Time  `json:"updated_at"`                                                // 更新时间

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "apparel_orders"
}

// HasInvoice 是否已关联发票
func (o *Order) HasInvoice() bool {
	return o != nil && o.InvoiceID != nil && *o.InvoiceID != ""
}

// OrderItem 订单项（下单时快照商品信息，不随商品修改或删除变化）
type OrderItem struct {
	ID               string    `gorm:"primarykey;type:varchar(36)" json:"id"`                    // 主键（UUID）
	OrderID          string    `gorm:"type:varchar(36);not null;index" json:"order_id"`          // 所属订单
	ProductID        *string   `gorm:"type:varchar(36);index" json:"product_id"`                 // 商品ID（商品删除后置空）
	VariantID        *string   `gorm:"type:varchar(36);index" json:"variant_id"`                 // 变体ID（变体删除后置空）
	SortOrder        int       `gorm:"not null;default:0" json:"-"`                              // 下单时的行顺序
	ProductName      string    `gorm:"type:varchar(200);not null" json:"product_name"`           // 商品名称快照
	Size             string    `gorm:"type:varchar(50);not null" json:"size"`                    // 尺码快照
	Color            string    `gorm:"type:varchar(50);not null" json:"color"`                   // 颜色快照
	ProductImageURL  string    `gorm:"type:varchar(500)" json:"product_image_url,omitempty"`     // 图片快照
	Quantity         int       `gorm:"not null" json:"quantity"`                                 // 数量
	UnitPrice        Money     `gorm:"type:decimal(18,2);not null;default:0" json:"unit_price"`  // 单价
	TotalPrice       Money     `gorm:"type:decimal(18,2);not null;default:0" json:"total_price"` // 小计
	CreatedAt        time.Time `json:"created_at"`                                               // 创建时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "apparel_order_items"
}

package constants

// 订单状态常量
const (
	OrderStatusPending         = "pending"
	OrderStatusPaymentReceived = "payment_received"
	OrderStatusProcessing      = "processing"
	OrderStatusShipped         = "shipped"
	OrderStatusCompleted       = "completed"
	OrderStatusCancelled       = "cancelled"
	OrderStatusRefunded        = "refunded"
)

// 订单类型常量（写入发票元数据）
const (
	OrderTypeApparel = "apparel"
)

// 默认币种
const (
	DefaultCurrency = "USD"
)

// 变体默认库存（仅展示用途，不参与下单校验）
const (
	DefaultVariantStockQuantity = 999
)

// BTCPay Webhook 事件类型
const (
	InvoiceEventSettled         = "InvoiceSettled"
	InvoiceEventPaymentSettled  = "InvoicePaymentSettled"
	InvoiceEventReceivedPayment = "InvoiceReceivedPayment"
	InvoiceEventExpired         = "InvoiceExpired"
	InvoiceEventInvalid         = "InvoiceInvalid"
)

// 管理员角色常量
const (
	RoleStoreOwner  = "store_owner"
	RoleStoreViewer = "store_viewer"
)

// 验证码场景常量
const (
	CaptchaSceneAdminLogin = "admin_login"
)

// 请求头常量
const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderRequestID      = "X-Request-ID"
	HeaderBTCPaySig      = "BTCPay-Sig"
)

// 队列名称常量
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
)

// 异步任务类型常量
const (
	TaskInvoiceAttach = "invoice:attach"
)

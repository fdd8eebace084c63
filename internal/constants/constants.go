package constants

// 订单状态常量
const (
	OrderStatusPending    = "pending"
	OrderStatusIncomplete = "incomplete" // 订单行落库失败，等待补偿
	OrderStatusConfirmed  = "confirmed"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// 支付方式常量（下单即转人工收款，无在线网关）
const (
	PaymentMethodCashPending = "cash_pending"
)

// 用户角色常量
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// 用户状态常量
const (
	UserStatusActive = "active"
	UserStatusBanned = "banned"
)

// 键值存储键常量
const (
	KVKeyCartPrefix = "cart"          // cart:<session_key>
	KVKeyCatalog    = "catalog:front" // 目录首屏缓存
)

// 队列任务类型常量
const (
	TaskOrderReconcile    = "order:reconcile"
	TaskOrderNotification = "order:notify"
)

// 队列名称常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 通知类型常量
const (
	NotificationTypeOrder  = "order"
	NotificationTypeSystem = "system"
)

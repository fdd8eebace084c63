package queue

import (
	"encoding/json"

	"github.com/lankashop/storefront/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderReconcile 订单补偿任务
	TaskOrderReconcile = constants.TaskOrderReconcile
	// TaskOrderNotification 订单站内通知任务
	TaskOrderNotification = constants.TaskOrderNotification
)

// OrderReconcileItem 补偿任务中的订单项快照
type OrderReconcileItem struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	PriceAtTime string `json:"price_at_time"`
	Quantity    int    `json:"quantity"`
}

// OrderReconcilePayload 订单补偿任务载荷
type OrderReconcilePayload struct {
	OrderID     uint                 `json:"order_id"`
	OrderNumber string               `json:"order_number"`
	Items       []OrderReconcileItem `json:"items"`
}

// OrderNotificationPayload 订单站内通知任务载荷
type OrderNotificationPayload struct {
	UserID      uint   `json:"user_id"`
	OrderID     uint   `json:"order_id"`
	OrderNumber string `json:"order_number"`
	Status      string `json:"status"`
	Total       string `json:"total"`
}

// NewOrderReconcileTask 创建订单补偿任务
func NewOrderReconcileTask(payload OrderReconcilePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderReconcile, body), nil
}

// NewOrderNotificationTask 创建订单站内通知任务
func NewOrderNotificationTask(payload OrderNotificationPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderNotification, body), nil
}

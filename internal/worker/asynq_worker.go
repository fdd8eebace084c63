package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lankashop/storefront/internal/constants"
	"github.com/lankashop/storefront/internal/logger"
	"github.com/lankashop/storefront/internal/models"
	"github.com/lankashop/storefront/internal/provider"
	"github.com/lankashop/storefront/internal/queue"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderReconcile, c.handleOrderReconcile)
	mux.HandleFunc(queue.TaskOrderNotification, c.handleOrderNotification)
}

// handleOrderReconcile 补齐两步落库中丢失的订单项。
// 订单主记录落库成功而订单项失败时，订单处于 incomplete，
// 任务携带下单时的订单项快照，在此重放并把订单推回 pending。
func (c *Consumer) handleOrderReconcile(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_reconcile_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderReconcilePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_reconcile_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_reconcile_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}

	order, err := c.OrderRepo.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_reconcile_fetch_order_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_order_reconcile_skip_order_not_found", "order_id", payload.OrderID)
		return nil
	}
	if order.Status != constants.OrderStatusIncomplete {
		logger.Debugw("worker_order_reconcile_skip_status", "order_id", order.ID, "status", order.Status)
		return nil
	}

	count, err := c.OrderRepo.CountItems(order.ID)
	if err != nil {
		logger.Warnw("worker_order_reconcile_count_items_failed", "order_id", order.ID, "error", err)
		return err
	}
	if count == 0 {
		if len(payload.Items) == 0 {
			// 快照也丢了，无法重建订单项，只能作废
			return c.cancelUnrecoverable(order)
		}
		items, err := buildOrderItems(order.ID, payload.Items)
		if err != nil {
			logger.Errorw("worker_order_reconcile_bad_snapshot", "order_id", order.ID, "error", err)
			return c.cancelUnrecoverable(order)
		}
		if err := c.OrderRepo.CreateItems(items); err != nil {
			logger.Warnw("worker_order_reconcile_create_items_failed", "order_id", order.ID, "error", err)
			return err
		}
	}

	affected, err := c.OrderRepo.UpdateStatus(order.ID, []string{constants.OrderStatusIncomplete}, constants.OrderStatusPending)
	if err != nil {
		logger.Warnw("worker_order_reconcile_promote_failed", "order_id", order.ID, "error", err)
		return err
	}
	if affected == 0 {
		logger.Debugw("worker_order_reconcile_skip_promoted_elsewhere", "order_id", order.ID)
		return nil
	}
	logger.Infow("worker_order_reconciled",
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"restored_items", len(payload.Items),
	)
	return nil
}

func (c *Consumer) cancelUnrecoverable(order *models.Order) error {
	affected, err := c.OrderRepo.UpdateStatus(order.ID, []string{constants.OrderStatusIncomplete}, constants.OrderStatusCancelled)
	if err != nil {
		logger.Warnw("worker_order_reconcile_cancel_failed", "order_id", order.ID, "error", err)
		return err
	}
	if affected > 0 {
		logger.Errorw("worker_order_reconcile_unrecoverable",
			"order_id", order.ID,
			"order_number", order.OrderNumber,
		)
		if c.NotificationService != nil {
			if err := c.NotificationService.NotifyOrderStatus(order.UserID, order.OrderNumber, constants.OrderStatusCancelled); err != nil {
				logger.Warnw("worker_order_reconcile_notify_failed", "order_id", order.ID, "error", err)
			}
		}
	}
	return nil
}

func buildOrderItems(orderID uint, snapshots []queue.OrderReconcileItem) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0, len(snapshots))
	for _, snapshot := range snapshots {
		price, err := decimal.NewFromString(snapshot.PriceAtTime)
		if err != nil {
			return nil, err
		}
		quantity := snapshot.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		items = append(items, models.OrderItem{
			OrderID:     orderID,
			ProductID:   snapshot.ProductID,
			ProductName: snapshot.ProductName,
			PriceAtTime: models.NewMoneyFromDecimal(price),
			Quantity:    quantity,
		})
	}
	return items, nil
}

func (c *Consumer) handleOrderNotification(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_notification_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderNotificationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_notification_unmarshal_failed", "error", err)
		return err
	}
	if payload.UserID == 0 || payload.OrderNumber == "" {
		logger.Debugw("worker_order_notification_skip_invalid_payload",
			"user_id", payload.UserID,
			"order_number", payload.OrderNumber,
		)
		return nil
	}
	if c.NotificationService == nil {
		logger.Warnw("worker_order_notification_skip_service_nil", "order_id", payload.OrderID)
		return nil
	}
	if err := c.NotificationService.NotifyOrderStatus(payload.UserID, payload.OrderNumber, payload.Status); err != nil {
		logger.Warnw("worker_order_notification_create_failed",
			"order_id", payload.OrderID,
			"user_id", payload.UserID,
			"error", err,
		)
		return err
	}
	return nil
}

// SweepIncompleteOrders 重新入队滞留超过 staleAfter 的未补齐订单。
func (c *Consumer) SweepIncompleteOrders(staleAfter time.Duration, limit int) error {
	if c == nil || c.OrderRepo == nil {
		return nil
	}
	before := time.Now().Add(-staleAfter)
	orders, err := c.OrderRepo.ListIncompleteBefore(constants.OrderStatusIncomplete, before, limit)
	if err != nil {
		return err
	}
	for _, order := range orders {
		payload := queue.OrderReconcilePayload{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
		}
		for _, item := range order.Items {
			payload.Items = append(payload.Items, queue.OrderReconcileItem{
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				PriceAtTime: item.PriceAtTime.String(),
				Quantity:    item.Quantity,
			})
		}
		if err := c.QueueClient.EnqueueOrderReconcile(payload); err != nil {
			logger.Warnw("worker_reconcile_requeue_failed", "order_id", order.ID, "error", err)
			continue
		}
		logger.Infow("worker_reconcile_requeued", "order_id", order.ID, "order_number", order.OrderNumber)
	}
	return nil
}

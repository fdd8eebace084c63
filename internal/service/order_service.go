package service

import (
	"github.com/lankashop/storefront/internal/constants"
	"github.com/lankashop/storefront/internal/logger"
	"github.com/lankashop/storefront/internal/models"
	"github.com/lankashop/storefront/internal/queue"
	"github.com/lankashop/storefront/internal/repository"
)

// allowedTransitions 订单状态流转表
var allowedTransitions = map[string][]string{
	constants.OrderStatusPending:    {constants.OrderStatusConfirmed, constants.OrderStatusCancelled},
	constants.OrderStatusIncomplete: {constants.OrderStatusPending, constants.OrderStatusCancelled},
	constants.OrderStatusConfirmed:  {constants.OrderStatusShipped, constants.OrderStatusCancelled},
	constants.OrderStatusShipped:    {constants.OrderStatusDelivered},
	constants.OrderStatusDelivered:  {},
	constants.OrderStatusCancelled:  {},
}

// OrderService 订单查询与状态管理服务
type OrderService struct {
	orderRepo   repository.OrderRepository
	queueClient *queue.Client
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, queueClient *queue.Client) *OrderService {
	return &OrderService{orderRepo: orderRepo, queueClient: queueClient}
}

// ListForUser 用户订单列表
func (s *OrderService) ListForUser(userID uint, page, pageSize int) ([]models.Order, int64, error) {
	return s.orderRepo.List(repository.OrderListFilter{
		Page:      page,
		PageSize:  pageSize,
		UserID:    userID,
		WithItems: true,
	})
}

// GetForUser 用户订单详情，只允许查自己的订单。
func (s *OrderService) GetForUser(userID, orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListAll 后台订单列表
func (s *OrderService) ListAll(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	filter.WithItems = true
	filter.WithUser = true
	return s.orderRepo.List(filter)
}

// Get 后台订单详情
func (s *OrderService) Get(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// UpdateStatus 后台更新订单状态，按流转表校验。
func (s *OrderService) UpdateStatus(orderID uint, newStatus string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	if !transitionAllowed(order.Status, newStatus) {
		return nil, ErrOrderStatusInvalid
	}

	affected, err := s.orderRepo.UpdateStatus(orderID, []string{order.Status}, newStatus)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// 并发下状态已被别人改走
		return nil, ErrOrderStatusInvalid
	}
	order.Status = newStatus
	logger.Infow("order_status_updated", "order_id", orderID, "order_number", order.OrderNumber, "status", newStatus)

	s.notifyStatusChanged(order)
	return order, nil
}

func (s *OrderService) notifyStatusChanged(order *models.Order) {
	if s.queueClient == nil {
		return
	}
	payload := queue.OrderNotificationPayload{
		UserID:      order.UserID,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		Total:       order.TotalAmount.String(),
	}
	if err := s.queueClient.EnqueueOrderNotification(payload); err != nil {
		logger.Warnw("order_notification_enqueue_failed", "order_id", order.ID, "error", err)
	}
}

func transitionAllowed(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

package service

import (
	"fmt"
	"strings"

	"github.com/lankashop/storefront/internal/constants"
	"github.com/lankashop/storefront/internal/models"
	"github.com/lankashop/storefront/internal/repository"
)

// NotificationService 站内通知服务
type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationService 创建站内通知服务
func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// List 用户通知列表
func (s *NotificationService) List(userID uint, onlyUnread bool, page, pageSize int) ([]models.Notification, int64, error) {
	return s.notificationRepo.List(repository.NotificationListFilter{
		Page:       page,
		PageSize:   pageSize,
		UserID:     userID,
		OnlyUnread: onlyUnread,
	})
}

// UnreadCount 未读通知数
func (s *NotificationService) UnreadCount(userID uint) (int64, error) {
	return s.notificationRepo.CountUnread(userID)
}

// MarkRead 标记单条已读
func (s *NotificationService) MarkRead(userID, id uint) error {
	affected, err := s.notificationRepo.MarkRead(userID, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotificationMissing
	}
	return nil
}

// MarkAllRead 全部标记已读
func (s *NotificationService) MarkAllRead(userID uint) error {
	_, err := s.notificationRepo.MarkAllRead(userID)
	return err
}

// NotifyOrderStatus 写入订单状态通知
func (s *NotificationService) NotifyOrderStatus(userID uint, orderNumber, status string) error {
	title, message := orderStatusNotificationText(orderNumber, status)
	return s.notificationRepo.Create(&models.Notification{
		UserID:  userID,
		Type:    constants.NotificationTypeOrder,
		Title:   title,
		Message: message,
	})
}

// Broadcast 向指定用户批量发送系统通知
func (s *NotificationService) Broadcast(userIDs []uint, title, message string) error {
	title = strings.TrimSpace(title)
	if title == "" || len(userIDs) == 0 {
		return nil
	}
	notifications := make([]models.Notification, 0, len(userIDs))
	for _, userID := range userIDs {
		notifications = append(notifications, models.Notification{
			UserID:  userID,
			Type:    constants.NotificationTypeSystem,
			Title:   title,
			Message: message,
		})
	}
	return s.notificationRepo.CreateBatch(notifications)
}

func orderStatusNotificationText(orderNumber, status string) (string, string) {
	switch status {
	case constants.OrderStatusPending, constants.OrderStatusIncomplete:
		return "Order received", fmt.Sprintf("Your order %s has been received. Please confirm it via WhatsApp.", orderNumber)
	case constants.OrderStatusConfirmed:
		return "Order confirmed", fmt.Sprintf("Your order %s has been confirmed.", orderNumber)
	case constants.OrderStatusShipped:
		return "Order shipped", fmt.Sprintf("Your order %s is on the way.", orderNumber)
	case constants.OrderStatusDelivered:
		return "Order delivered", fmt.Sprintf("Your order %s has been delivered. Enjoy!", orderNumber)
	case constants.OrderStatusCancelled:
		return "Order cancelled", fmt.Sprintf("Your order %s has been cancelled.", orderNumber)
	default:
		return "Order update", fmt.Sprintf("Your order %s status changed to %s.", orderNumber, status)
	}
}

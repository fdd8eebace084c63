package public

import (
	"strconv"

	handlershared "github.com/lankashop/storefront/internal/http/handlers/shared"
	"github.com/lankashop/storefront/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListNotifications 当前用户通知列表，?unread=1 只看未读
func (h *Handler) ListNotifications(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)
	onlyUnread := c.Query("unread") == "1"

	items, total, err := h.NotificationService.List(uid, onlyUnread, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load notifications", err)
		return
	}
	response.SuccessWithPage(c, items, response.NewPagination(page, pageSize, total))
}

// UnreadNotificationCount 未读通知数量
func (h *Handler) UnreadNotificationCount(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	count, err := h.NotificationService.UnreadCount(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to count notifications", err)
		return
	}
	response.Success(c, gin.H{"unread": count})
}

// MarkNotificationRead 标记单条通知已读
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid notification id", nil)
		return
	}

	if err := h.NotificationService.MarkRead(uid, uint(id)); err != nil {
		respondWithMappedError(c, err, notificationErrorRules, response.CodeInternal, "failed to mark notification")
		return
	}
	response.Success(c, nil)
}

// MarkAllNotificationsRead 全部标记已读
func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	if err := h.NotificationService.MarkAllRead(uid); err != nil {
		respondError(c, response.CodeInternal, "failed to mark notifications", err)
		return
	}
	response.Success(c, nil)
}

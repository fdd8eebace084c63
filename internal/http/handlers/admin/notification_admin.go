package admin

import (
	"github.com/lankashop/storefront/internal/http/response"
	"github.com/lankashop/storefront/internal/repository"

	"github.com/gin-gonic/gin"
)

// BroadcastRequest 通知群发请求。user_ids 为空时发给全部客户。
type BroadcastRequest struct {
	UserIDs []uint `json:"user_ids"`
	Title   string `json:"title" binding:"required"`
	Message string `json:"message"`
}

// BroadcastNotification 群发系统通知
func (h *Handler) BroadcastNotification(c *gin.Context) {
	var req BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	userIDs := req.UserIDs
	if len(userIDs) == 0 {
		ids, err := h.allCustomerIDs()
		if err != nil {
			respondError(c, response.CodeInternal, "failed to resolve recipients", err)
			return
		}
		userIDs = ids
	}
	if len(userIDs) == 0 {
		response.Success(c, gin.H{"recipients": 0})
		return
	}

	if err := h.NotificationService.Broadcast(userIDs, req.Title, req.Message); err != nil {
		respondError(c, response.CodeInternal, "failed to broadcast notification", err)
		return
	}

	requestLog(c).Infow("admin_notification_broadcast",
		"operator_user_id", currentOperatorID(c),
		"recipients", len(userIDs),
		"title", req.Title,
	)
	response.Success(c, gin.H{"recipients": len(userIDs)})
}

// allCustomerIDs 分页捞出全部未封禁客户 ID
func (h *Handler) allCustomerIDs() ([]uint, error) {
	const batch = 500
	var ids []uint
	for page := 1; ; page++ {
		users, _, err := h.UserRepo.List(repository.UserListFilter{
			Page:     page,
			PageSize: batch,
			Role:     "customer",
		})
		if err != nil {
			return nil, err
		}
		if len(users) == 0 {
			break
		}
		for _, user := range users {
			if !user.IsBanned {
				ids = append(ids, user.ID)
			}
		}
		if len(users) < batch {
			break
		}
	}
	return ids, nil
}

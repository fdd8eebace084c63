package admin

import (
	"errors"
	"time"

	"github.com/lankashop/storefront/internal/http/response"
	"github.com/lankashop/storefront/internal/repository"
	"github.com/lankashop/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// GetAdminOrders 后台订单列表
func (h *Handler) GetAdminOrders(c *gin.Context) {
	page, pageSize := normalizePagination(c)

	filter := repository.OrderListFilter{
		Page:        page,
		PageSize:    pageSize,
		Status:      c.Query("status"),
		OrderNumber: c.Query("order_number"),
	}
	if raw := c.Query("created_from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid created_from", err)
			return
		}
		filter.CreatedFrom = &parsed
	}
	if raw := c.Query("created_to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid created_to", err)
			return
		}
		filter.CreatedTo = &parsed
	}

	orders, total, err := h.OrderService.ListAll(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load orders", err)
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetAdminOrder 后台订单详情
func (h *Handler) GetAdminOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.OrderService.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "order not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to load order", err)
		return
	}
	response.Success(c, order)
}

// UpdateOrderStatusRequest 订单状态更新请求
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateAdminOrderStatus 按流转表推进订单状态
func (h *Handler) UpdateAdminOrderStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	order, err := h.OrderService.UpdateStatus(id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "order not found", nil)
		case errors.Is(err, service.ErrOrderStatusInvalid):
			respondError(c, response.CodeBadRequest, "status transition not allowed", nil)
		default:
			respondError(c, response.CodeInternal, "failed to update order status", err)
		}
		return
	}

	requestLog(c).Infow("admin_order_status_updated",
		"operator_user_id", currentOperatorID(c),
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"status", order.Status,
	)
	response.Success(c, order)
}

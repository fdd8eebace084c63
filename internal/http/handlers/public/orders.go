package public

import (
	"strconv"

	handlershared "github.com/lankashop/storefront/internal/http/handlers/shared"
	"github.com/lankashop/storefront/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListOrders 当前用户订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	orders, total, err := h.OrderService.ListForUser(uid, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load orders", err)
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetOrder 当前用户订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid order id", nil)
		return
	}

	order, err := h.OrderService.GetForUser(uid, uint(id))
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "failed to load order")
		return
	}
	response.Success(c, order)
}

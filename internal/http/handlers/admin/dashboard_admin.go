package admin

import (
	"github.com/lankashop/storefront/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetDashboard 后台仪表盘统计
func (h *Handler) GetDashboard(c *gin.Context) {
	stats, err := h.DashboardService.Stats()
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load dashboard stats", err)
		return
	}
	response.Success(c, stats)
}

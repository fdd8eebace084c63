package admin

import (
	"strconv"
	"strings"

	handlershared "github.com/lankashop/storefront/internal/http/handlers/shared"
	"github.com/lankashop/storefront/internal/http/response"

	"github.com/gin-gonic/gin"
)

func getOperatorID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUint(c, "user_id")
}

// currentOperatorID 读取当前操作人 ID，缺失时返回 0（不写响应）。
func currentOperatorID(c *gin.Context) uint {
	value, exists := c.Get("user_id")
	if !exists {
		return 0
	}
	if id, ok := value.(uint); ok {
		return id
	}
	return 0
}

func currentOperatorEmail(c *gin.Context) string {
	value, exists := c.Get("user_email")
	if !exists {
		return ""
	}
	if email, ok := value.(string); ok {
		return strings.TrimSpace(email)
	}
	return ""
}

func currentRequestID(c *gin.Context) string {
	value, exists := c.Get("request_id")
	if !exists {
		return ""
	}
	if requestID, ok := value.(string); ok {
		return strings.TrimSpace(requestID)
	}
	return ""
}

// parseIDParam 解析路径中的 :id 参数，非法时写错误响应。
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid id", err)
		return 0, false
	}
	return uint(id), true
}

func normalizePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return handlershared.NormalizePagination(page, pageSize)
}

package admin

import (
	"strings"

	"github.com/lankashop/storefront/internal/constants"
	"github.com/lankashop/storefront/internal/http/response"
	"github.com/lankashop/storefront/internal/models"
	"github.com/lankashop/storefront/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetAdminCustomers 后台客户列表
func (h *Handler) GetAdminCustomers(c *gin.Context) {
	page, pageSize := normalizePagination(c)

	users, total, err := h.UserRepo.List(repository.UserListFilter{
		Page:       page,
		PageSize:   pageSize,
		Keyword:    c.Query("keyword"),
		Role:       c.Query("role"),
		OnlyBanned: c.Query("banned") == "1",
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load customers", err)
		return
	}
	response.SuccessWithPage(c, users, response.NewPagination(page, pageSize, total))
}

// BanCustomerRequest 封禁/解封请求
type BanCustomerRequest struct {
	Banned bool `json:"banned"`
}

// SetCustomerBan 封禁或解封客户账号
func (h *Handler) SetCustomerBan(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req BanCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	target, err := h.UserRepo.GetByID(id)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load customer", err)
		return
	}
	if target == nil {
		respondError(c, response.CodeNotFound, "customer not found", nil)
		return
	}
	// 不允许封禁管理员账号
	if req.Banned && target.Role == "admin" {
		respondError(c, response.CodeBadRequest, "cannot ban an admin account", nil)
		return
	}

	if err := h.UserRepo.UpdateFields(id, map[string]interface{}{"is_banned": req.Banned}); err != nil {
		respondError(c, response.CodeInternal, "failed to update customer", err)
		return
	}

	action := "customer_unban"
	if req.Banned {
		action = "customer_ban"
	}
	h.recordAuthzAudit(c, authzAuditEntry{
		TargetUserID: &id,
		TargetEmail:  target.Email,
		Action:       action,
		Detail: models.JSON{
			"target_user_id": id,
			"banned":         req.Banned,
		},
	})

	requestLog(c).Infow("admin_customer_ban_updated",
		"operator_user_id", currentOperatorID(c),
		"target_user_id", id,
		"banned", req.Banned,
	)
	response.Success(c, gin.H{"id": id, "is_banned": req.Banned})
}

// CustomerRoleRequest 调整客户角色请求
type CustomerRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func allowedCustomerRole(role string) bool {
	switch role {
	case constants.RoleCustomer, constants.RoleAdmin:
		return true
	}
	return false
}

// SetCustomerRole 调整客户账号角色
func (h *Handler) SetCustomerRole(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req CustomerRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if !allowedCustomerRole(role) {
		respondError(c, response.CodeBadRequest, "unknown role", nil)
		return
	}
	// 不允许调整自己的角色，避免把自己降级锁在后台外
	if id == currentOperatorID(c) {
		respondError(c, response.CodeBadRequest, "cannot change own role", nil)
		return
	}

	target, err := h.UserRepo.GetByID(id)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load customer", err)
		return
	}
	if target == nil {
		respondError(c, response.CodeNotFound, "customer not found", nil)
		return
	}
	if target.Role == role {
		response.Success(c, gin.H{"id": id, "role": role})
		return
	}

	if err := h.UserRepo.UpdateFields(id, map[string]interface{}{"role": role}); err != nil {
		respondError(c, response.CodeInternal, "failed to update customer", err)
		return
	}

	h.recordAuthzAudit(c, authzAuditEntry{
		TargetUserID: &id,
		TargetEmail:  target.Email,
		Action:       "customer_role_update",
		Detail: models.JSON{
			"target_user_id": id,
			"old_role":       target.Role,
			"new_role":       role,
		},
	})

	requestLog(c).Infow("admin_customer_role_updated",
		"operator_user_id", currentOperatorID(c),
		"target_user_id", id,
		"role", role,
	)
	response.Success(c, gin.H{"id": id, "role": role})
}

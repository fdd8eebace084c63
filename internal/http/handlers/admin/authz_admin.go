package admin

import (
	"net/url"
	"strings"
	"time"

	"github.com/lankashop/storefront/internal/http/response"
	"github.com/lankashop/storefront/internal/models"
	"github.com/lankashop/storefront/internal/repository"

	"github.com/gin-gonic/gin"
)

type authzRolePayload struct {
	Role string `json:"role" binding:"required"`
}

type authzPolicyPayload struct {
	Role   string `json:"role" binding:"required"`
	Object string `json:"object" binding:"required"`
	Action string `json:"action" binding:"required"`
}

type authzSetUserRolesPayload struct {
	Roles []string `json:"roles"`
}

// ListAuthzRoles 获取角色列表
func (h *Handler) ListAuthzRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load roles", err)
		return
	}
	response.Success(c, roles)
}

// CreateAuthzRole 创建角色
func (h *Handler) CreateAuthzRole(c *gin.Context) {
	var req authzRolePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	role, err := h.AuthzService.EnsureRole(req.Role)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid role", err)
		return
	}

	h.recordAuthzAudit(c, authzAuditEntry{
		Action: "role_create",
		Role:   role,
		Detail: models.JSON{"role": role},
	})
	requestLog(c).Infow("admin_authz_role_created",
		"operator_user_id", currentOperatorID(c),
		"role", role,
	)
	response.Success(c, gin.H{"role": role})
}

// GetAuthzRolePolicies 获取角色策略
func (h *Handler) GetAuthzRolePolicies(c *gin.Context) {
	role := decodeRoleParam(c.Param("role"))
	if role == "" {
		respondError(c, response.CodeBadRequest, "invalid role", nil)
		return
	}

	policies, err := h.AuthzService.GetRolePolicies(role)
	if err != nil {
		respondError(c, response.CodeBadRequest, "failed to load role policies", err)
		return
	}
	response.Success(c, policies)
}

// GrantAuthzPolicy 授予角色策略
func (h *Handler) GrantAuthzPolicy(c *gin.Context) {
	var req authzPolicyPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	if err := h.AuthzService.GrantRolePolicy(req.Role, req.Object, req.Action); err != nil {
		respondError(c, response.CodeBadRequest, "failed to grant policy", err)
		return
	}

	h.recordAuthzAudit(c, authzAuditEntry{
		Action: "policy_grant",
		Role:   req.Role,
		Object: req.Object,
		Method: strings.ToUpper(strings.TrimSpace(req.Action)),
		Detail: models.JSON{
			"role":   req.Role,
			"object": req.Object,
			"method": strings.ToUpper(strings.TrimSpace(req.Action)),
		},
	})
	requestLog(c).Infow("admin_authz_policy_granted",
		"operator_user_id", currentOperatorID(c),
		"role", req.Role,
		"object", req.Object,
		"action", req.Action,
	)
	response.Success(c, nil)
}

// RevokeAuthzPolicy 撤销角色策略
func (h *Handler) RevokeAuthzPolicy(c *gin.Context) {
	var req authzPolicyPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	if err := h.AuthzService.RevokeRolePolicy(req.Role, req.Object, req.Action); err != nil {
		respondError(c, response.CodeBadRequest, "failed to revoke policy", err)
		return
	}

	h.recordAuthzAudit(c, authzAuditEntry{
		Action: "policy_revoke",
		Role:   req.Role,
		Object: req.Object,
		Method: strings.ToUpper(strings.TrimSpace(req.Action)),
		Detail: models.JSON{
			"role":   req.Role,
			"object": req.Object,
			"method": strings.ToUpper(strings.TrimSpace(req.Action)),
		},
	})
	requestLog(c).Infow("admin_authz_policy_revoked",
		"operator_user_id", currentOperatorID(c),
		"role", req.Role,
		"object", req.Object,
		"action", req.Action,
	)
	response.Success(c, nil)
}

// GetStaffRoles 获取指定账号的角色
func (h *Handler) GetStaffRoles(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, err := h.UserRepo.GetByID(id)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load user", err)
		return
	}
	if user == nil {
		respondError(c, response.CodeNotFound, "user not found", nil)
		return
	}

	roles, err := h.AuthzService.GetUserRoles(id)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load user roles", err)
		return
	}
	response.Success(c, gin.H{
		"user_id": id,
		"email":   user.Email,
		"roles":   roles,
	})
}

// SetStaffRoles 设置指定账号的角色
func (h *Handler) SetStaffRoles(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, err := h.UserRepo.GetByID(id)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load user", err)
		return
	}
	if user == nil {
		respondError(c, response.CodeNotFound, "user not found", nil)
		return
	}

	var req authzSetUserRolesPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	if err := h.AuthzService.SetUserRoles(id, req.Roles); err != nil {
		respondError(c, response.CodeBadRequest, "failed to set user roles", err)
		return
	}

	h.recordAuthzAudit(c, authzAuditEntry{
		TargetUserID: &id,
		TargetEmail:  user.Email,
		Action:       "user_roles_update",
		Detail: models.JSON{
			"target_user_id": id,
			"roles":          req.Roles,
		},
	})
	requestLog(c).Infow("admin_authz_user_roles_updated",
		"operator_user_id", currentOperatorID(c),
		"target_user_id", id,
		"roles", req.Roles,
	)
	response.Success(c, nil)
}

// GetAuthzAuditLogs 权限审计日志列表
func (h *Handler) GetAuthzAuditLogs(c *gin.Context) {
	page, pageSize := normalizePagination(c)

	filter := repository.AuthzAuditLogListFilter{
		Page:     page,
		PageSize: pageSize,
		Action:   c.Query("action"),
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

	logs, total, err := h.AuthzAuditLogRepo.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load audit logs", err)
		return
	}
	response.SuccessWithPage(c, logs, response.NewPagination(page, pageSize, total))
}

// authzAuditEntry 审计记录写入参数，操作人信息统一从请求上下文补齐。
type authzAuditEntry struct {
	TargetUserID *uint
	TargetEmail  string
	Action       string
	Role         string
	Object       string
	Method       string
	Detail       models.JSON
}

func (h *Handler) recordAuthzAudit(c *gin.Context, entry authzAuditEntry) {
	operatorID := currentOperatorID(c)
	if operatorID == 0 || strings.TrimSpace(entry.Action) == "" {
		return
	}
	log := &models.AuthzAuditLog{
		OperatorUserID: operatorID,
		OperatorEmail:  currentOperatorEmail(c),
		TargetUserID:   entry.TargetUserID,
		TargetEmail:    entry.TargetEmail,
		Action:         entry.Action,
		Role:           entry.Role,
		Object:         entry.Object,
		Method:         entry.Method,
		RequestID:      currentRequestID(c),
		DetailJSON:     entry.Detail,
	}
	if err := h.AuthzAuditLogRepo.Create(log); err != nil {
		requestLog(c).Warnw("admin_authz_audit_record_failed",
			"error", err,
			"action", entry.Action,
			"operator_user_id", operatorID,
		)
	}
}

func decodeRoleParam(value string) string {
	decoded, err := url.QueryUnescape(value)
	if err != nil {
		return strings.TrimSpace(value)
	}
	return strings.TrimSpace(decoded)
}

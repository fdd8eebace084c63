package public

import (
	"github.com/lankashop/storefront/internal/http/response"
	"github.com/lankashop/storefront/internal/models"
	"github.com/lankashop/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email      string `json:"email" binding:"required"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

// UpdateProfileRequest 更新资料请求
type UpdateProfileRequest struct {
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
}

// UserView 用户信息响应
type UserView struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Role     string `json:"role"`
}

func toUserView(user *models.User) UserView {
	return UserView{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		Phone:    user.Phone,
		Address:  user.Address,
		Role:     user.Role,
	}
}

// Register 用户注册
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	result, err := h.AuthService.Register(service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		respondWithMappedError(c, err, authErrorRules, response.CodeBadRequest, "registration failed")
		return
	}

	response.Success(c, gin.H{
		"user":       toUserView(result.User),
		"token":      result.Token,
		"expires_at": result.ExpiresAt,
	})
}

// Login 用户登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	result, err := h.AuthService.Login(service.LoginInput{
		Email:      req.Email,
		Password:   req.Password,
		RememberMe: req.RememberMe,
	})
	if err != nil {
		respondWithMappedError(c, err, authErrorRules, response.CodeInternal, "login failed")
		return
	}

	response.Success(c, gin.H{
		"user":       toUserView(result.User),
		"token":      result.Token,
		"expires_at": result.ExpiresAt,
	})
}

// Me 当前用户信息
func (h *Handler) Me(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	user, err := h.AuthService.GetUser(uid)
	if err != nil {
		respondWithMappedError(c, err, authErrorRules, response.CodeInternal, "failed to load profile")
		return
	}
	response.Success(c, toUserView(user))
}

// UpdateProfile 更新当前用户资料
func (h *Handler) UpdateProfile(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	user, err := h.AuthService.UpdateProfile(uid, service.UpdateProfileInput{
		FullName: req.FullName,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		respondWithMappedError(c, err, authErrorRules, response.CodeInternal, "failed to update profile")
		return
	}
	response.Success(c, toUserView(user))
}

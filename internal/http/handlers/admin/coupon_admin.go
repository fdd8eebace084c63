package admin

import (
	"errors"
	"time"

	"github.com/lankashop/storefront/internal/http/response"
	"github.com/lankashop/storefront/internal/models"
	"github.com/lankashop/storefront/internal/repository"
	"github.com/lankashop/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// CouponRequest 优惠券创建/更新请求
type CouponRequest struct {
	Code            string  `json:"code" binding:"required"`
	DiscountPercent int     `json:"discount_percent" binding:"required"`
	MinOrderAmount  float64 `json:"min_order_amount"`
	UsageLimit      int     `json:"usage_limit"`
	IsActive        *bool   `json:"is_active"`
	ExpiresAt       string  `json:"expires_at"`
}

func (r *CouponRequest) toInput() (service.CouponInput, error) {
	expiresAt, err := parseTimeNullable(r.ExpiresAt)
	if err != nil {
		return service.CouponInput{}, err
	}
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return service.CouponInput{
		Code:            r.Code,
		DiscountPercent: r.DiscountPercent,
		MinOrderAmount:  models.NewMoneyFromFloat(r.MinOrderAmount),
		UsageLimit:      r.UsageLimit,
		IsActive:        active,
		ExpiresAt:       expiresAt,
	}, nil
}

// GetAdminCoupons 优惠券列表
func (h *Handler) GetAdminCoupons(c *gin.Context) {
	page, pageSize := normalizePagination(c)

	coupons, total, err := h.CouponService.List(repository.CouponListFilter{
		Page:       page,
		PageSize:   pageSize,
		Code:       c.Query("code"),
		OnlyActive: c.Query("active") == "1",
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load coupons", err)
		return
	}
	response.SuccessWithPage(c, coupons, response.NewPagination(page, pageSize, total))
}

// CreateCoupon 创建优惠券
func (h *Handler) CreateCoupon(c *gin.Context) {
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid expires_at", err)
		return
	}

	coupon, err := h.CouponService.Create(input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCouponInvalid):
			respondError(c, response.CodeBadRequest, "invalid coupon definition", nil)
		case errors.Is(err, service.ErrCouponCodeTaken):
			respondError(c, response.CodeBadRequest, "coupon code already exists", nil)
		default:
			respondError(c, response.CodeInternal, "failed to create coupon", err)
		}
		return
	}

	requestLog(c).Infow("admin_coupon_created",
		"operator_user_id", currentOperatorID(c),
		"coupon_id", coupon.ID,
		"code", coupon.Code,
	)
	response.Success(c, coupon)
}

// UpdateCoupon 更新优惠券
func (h *Handler) UpdateCoupon(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid expires_at", err)
		return
	}

	coupon, err := h.CouponService.Update(id, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCouponNotFound):
			respondError(c, response.CodeNotFound, "coupon not found", nil)
		case errors.Is(err, service.ErrCouponInvalid):
			respondError(c, response.CodeBadRequest, "invalid coupon definition", nil)
		case errors.Is(err, service.ErrCouponCodeTaken):
			respondError(c, response.CodeBadRequest, "coupon code already exists", nil)
		default:
			respondError(c, response.CodeInternal, "failed to update coupon", err)
		}
		return
	}

	requestLog(c).Infow("admin_coupon_updated",
		"operator_user_id", currentOperatorID(c),
		"coupon_id", coupon.ID,
	)
	response.Success(c, coupon)
}

// DeleteCoupon 删除优惠券
func (h *Handler) DeleteCoupon(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.CouponService.Delete(id); err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			respondError(c, response.CodeNotFound, "coupon not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to delete coupon", err)
		return
	}

	requestLog(c).Infow("admin_coupon_deleted",
		"operator_user_id", currentOperatorID(c),
		"coupon_id", id,
	)
	response.Success(c, gin.H{"deleted": true})
}

func parseTimeNullable(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

package public

import (
	"github.com/lankashop/storefront/internal/http/response"
	"github.com/lankashop/storefront/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// BuyNowRequest 单品直购请求
type BuyNowRequest struct {
	ProductID    uint   `json:"product_id" binding:"required"`
	Quantity     int    `json:"quantity"`
	ContactPhone string `json:"contact_phone"`
	Address      string `json:"address"`
}

// ValidateCouponRequest 券码试算请求
type ValidateCouponRequest struct {
	Code       string          `json:"code" binding:"required"`
	OrderTotal decimal.Decimal `json:"order_total"`
}

// Checkout 结算购物车，返回 WhatsApp 跳转链接。
func (h *Handler) Checkout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	result, err := h.CheckoutService.CheckoutCart(c.Request.Context(), uid, h.cartSessionID(c))
	if err != nil {
		respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "checkout failed")
		return
	}
	if !result.Persisted {
		requestLog(c).Warnw("checkout_order_not_persisted", "order_number", result.OrderNumber)
	}
	response.Success(c, result)
}

// BuyNow 单品直购。缺联系电话时返回 contact phone required，
// 客户端补充 contact_phone 后重试。
func (h *Handler) BuyNow(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req BuyNowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	result, err := h.CheckoutService.BuyNow(c.Request.Context(), uid, service.BuyNowInput{
		ProductID:    req.ProductID,
		Quantity:     req.Quantity,
		ContactPhone: req.ContactPhone,
		Address:      req.Address,
	})
	if err != nil {
		respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "checkout failed")
		return
	}
	response.Success(c, result)
}

// ValidateCoupon 券码试算
func (h *Handler) ValidateCoupon(c *gin.Context) {
	var req ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	quote, err := h.CouponService.Validate(req.Code, req.OrderTotal)
	if err != nil {
		respondWithMappedError(c, err, couponErrorRules, response.CodeInternal, "failed to validate coupon")
		return
	}
	response.Success(c, quote)
}

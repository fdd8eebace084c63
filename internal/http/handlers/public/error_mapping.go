package public

import (
	"errors"

	"github.com/lankashop/storefront/internal/http/response"
	"github.com/lankashop/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var authErrorRules = []mappedHandlerError{
	{target: service.ErrEmailTaken, code: response.CodeBadRequest, msg: "email already registered"},
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, msg: "invalid email or password"},
	{target: service.ErrPasswordTooWeak, code: response.CodeBadRequest, msg: "password too weak"},
	{target: service.ErrUserBanned, code: response.CodeForbidden, msg: "account banned"},
	{target: service.ErrUserNotFound, code: response.CodeUnauthorized, msg: "user not found"},
	{target: service.ErrInvalidToken, code: response.CodeUnauthorized, msg: "invalid token"},
}

var checkoutErrorRules = []mappedHandlerError{
	{target: service.ErrUnauthenticated, code: response.CodeUnauthorized, msg: "login required"},
	{target: service.ErrUserBanned, code: response.CodeForbidden, msg: "account banned"},
	{target: service.ErrEmptyCart, code: response.CodeBadRequest, msg: "cart is empty"},
	{target: service.ErrContactRequired, code: response.CodeBadRequest, msg: "contact phone required"},
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "product not found"},
	{target: service.ErrProductUnavailable, code: response.CodeBadRequest, msg: "product unavailable"},
	{target: service.ErrQuantityInvalid, code: response.CodeBadRequest, msg: "invalid quantity"},
}

var catalogErrorRules = []mappedHandlerError{
	{target: service.ErrCatalogUnavailable, code: response.CodeInternal, msg: "catalog temporarily unavailable"},
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "product not found"},
}

var orderErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "order not found"},
}

var reviewErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "product not found"},
	{target: service.ErrRatingInvalid, code: response.CodeBadRequest, msg: "rating must be between 1 and 5"},
	{target: service.ErrReviewExists, code: response.CodeBadRequest, msg: "you already reviewed this product"},
	{target: service.ErrReviewNotFound, code: response.CodeNotFound, msg: "review not found"},
	{target: service.ErrPermissionDenied, code: response.CodeForbidden, msg: "not allowed"},
}

var couponErrorRules = []mappedHandlerError{
	{target: service.ErrCouponNotFound, code: response.CodeNotFound, msg: "coupon not found"},
	{target: service.ErrCouponInvalid, code: response.CodeBadRequest, msg: "coupon not applicable"},
}

var notificationErrorRules = []mappedHandlerError{
	{target: service.ErrNotificationMissing, code: response.CodeNotFound, msg: "notification not found"},
}

package service

import "errors"

// 业务错误哨兵，由处理层映射为统一响应码。
var (
	ErrEmailTaken          = errors.New("邮箱已注册")
	ErrInvalidCredentials  = errors.New("邮箱或密码错误")
	ErrUserBanned          = errors.New("账号已被封禁")
	ErrUserNotFound        = errors.New("用户不存在")
	ErrUnauthenticated     = errors.New("未登录")
	ErrPasswordTooWeak     = errors.New("密码强度不足")
	ErrInvalidToken        = errors.New("无效的 token")
	ErrProductNotFound     = errors.New("商品不存在")
	ErrProductUnavailable  = errors.New("商品已下架")
	ErrCatalogUnavailable  = errors.New("商品目录暂不可用")
	ErrEmptyCart           = errors.New("购物车为空")
	ErrContactRequired     = errors.New("缺少联系电话")
	ErrQuantityInvalid     = errors.New("数量不合法")
	ErrOrderNotFound       = errors.New("订单不存在")
	ErrOrderStatusInvalid  = errors.New("订单状态不允许该操作")
	ErrReviewNotFound      = errors.New("评价不存在")
	ErrRatingInvalid       = errors.New("评分必须在 1 到 5 之间")
	ErrReviewExists        = errors.New("已评价过该商品")
	ErrCouponNotFound      = errors.New("优惠券不存在")
	ErrCouponCodeTaken     = errors.New("券码已存在")
	ErrCouponInvalid       = errors.New("优惠券不可用")
	ErrUploadTypeInvalid   = errors.New("不支持的文件类型")
	ErrUploadTooLarge      = errors.New("文件超出大小限制")
	ErrPermissionDenied    = errors.New("没有权限执行该操作")
	ErrNotificationMissing = errors.New("通知不存在")
)

package repository

import "time"

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page         int
	PageSize     int
	Category     string
	Search       string
	OnlyActive   bool
	OnlyFeatured bool
	OnlyInStock  bool
	OrderBy      string
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	Status      string
	OrderNumber string
	WithItems   bool
	WithUser    bool
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page        int
	PageSize    int
	Keyword     string
	Role        string
	OnlyBanned  bool
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// ReviewListFilter 查询评价列表的过滤条件
type ReviewListFilter struct {
	Page      int
	PageSize  int
	ProductID uint
	UserID    uint
	MinRating int
	WithUser  bool
}

// NotificationListFilter 查询通知列表的过滤条件
type NotificationListFilter struct {
	Page       int
	PageSize   int
	UserID     uint
	Type       string
	OnlyUnread bool
}

// CouponListFilter 查询优惠券列表的过滤条件
type CouponListFilter struct {
	Page       int
	PageSize   int
	Code       string
	OnlyActive bool
}

// AuthzAuditLogListFilter 查询权限审计日志列表的过滤条件
type AuthzAuditLogListFilter struct {
	Page           int
	PageSize       int
	OperatorUserID uint
	TargetUserID   uint
	Action         string
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
}

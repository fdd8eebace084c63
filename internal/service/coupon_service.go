package service

import (
	"strings"
	"time"

	"github.com/lankashop/storefront/internal/models"
	"github.com/lankashop/storefront/internal/repository"

	"github.com/shopspring/decimal"
)

// CouponService 优惠券服务
type CouponService struct {
	couponRepo repository.CouponRepository
}

// NewCouponService 创建优惠券服务
func NewCouponService(couponRepo repository.CouponRepository) *CouponService {
	return &CouponService{couponRepo: couponRepo}
}

// List 优惠券列表
func (s *CouponService) List(filter repository.CouponListFilter) ([]models.Coupon, int64, error) {
	return s.couponRepo.List(filter)
}

// CouponInput 优惠券创建/更新参数
type CouponInput struct {
	Code            string
	DiscountPercent int
	MinOrderAmount  models.Money
	UsageLimit      int
	IsActive        bool
	ExpiresAt       *time.Time
}

// Create 创建优惠券，券码统一大写且唯一。
func (s *CouponService) Create(input CouponInput) (*models.Coupon, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" || input.DiscountPercent < 1 || input.DiscountPercent > 100 {
		return nil, ErrCouponInvalid
	}

	exist, err := s.couponRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrCouponCodeTaken
	}

	coupon := &models.Coupon{
		Code:            code,
		DiscountPercent: input.DiscountPercent,
		MinOrderAmount:  input.MinOrderAmount,
		UsageLimit:      input.UsageLimit,
		IsActive:        input.IsActive,
		ExpiresAt:       input.ExpiresAt,
	}
	if err := s.couponRepo.Create(coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// Update 更新优惠券
func (s *CouponService) Update(id uint, input CouponInput) (*models.Coupon, error) {
	coupon, err := s.couponRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	if input.DiscountPercent < 1 || input.DiscountPercent > 100 {
		return nil, ErrCouponInvalid
	}

	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code != "" && code != coupon.Code {
		exist, err := s.couponRepo.GetByCode(code)
		if err != nil {
			return nil, err
		}
		if exist != nil {
			return nil, ErrCouponCodeTaken
		}
		coupon.Code = code
	}

	coupon.DiscountPercent = input.DiscountPercent
	coupon.MinOrderAmount = input.MinOrderAmount
	coupon.UsageLimit = input.UsageLimit
	coupon.IsActive = input.IsActive
	coupon.ExpiresAt = input.ExpiresAt

	if err := s.couponRepo.Update(coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// Delete 删除优惠券
func (s *CouponService) Delete(id uint) error {
	coupon, err := s.couponRepo.GetByID(id)
	if err != nil {
		return err
	}
	if coupon == nil {
		return ErrCouponNotFound
	}
	return s.couponRepo.Delete(id)
}

// CouponQuote 券码试算结果
type CouponQuote struct {
	Coupon   *models.Coupon `json:"coupon"`
	Discount models.Money   `json:"discount"`
	Payable  models.Money   `json:"payable"`
}

// Validate 校验券码并试算折扣
func (s *CouponService) Validate(code string, orderTotal decimal.Decimal) (*CouponQuote, error) {
	coupon, err := s.couponRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	if !coupon.IsActive || coupon.Expired(time.Now()) || coupon.Exhausted() {
		return nil, ErrCouponInvalid
	}
	if orderTotal.LessThan(coupon.MinOrderAmount.Decimal) {
		return nil, ErrCouponInvalid
	}

	discount := orderTotal.Mul(decimal.NewFromInt(int64(coupon.DiscountPercent))).Div(decimal.NewFromInt(100)).Round(2)
	payable := orderTotal.Sub(discount)
	return &CouponQuote{
		Coupon:   coupon,
		Discount: models.NewMoneyFromDecimal(discount),
		Payable:  models.NewMoneyFromDecimal(payable),
	}, nil
}

// Redeem 核销一次使用次数
func (s *CouponService) Redeem(id uint) error {
	affected, err := s.couponRepo.IncrementUsed(id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCouponInvalid
	}
	return nil
}

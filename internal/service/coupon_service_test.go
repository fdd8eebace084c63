package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lankashop/storefront/internal/models"
	"github.com/lankashop/storefront/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type stubCouponRepo struct {
	nextID  uint
	coupons map[string]*models.Coupon
	used    map[uint]int
	deleted []uint
}

func newStubCouponRepo(coupons ...*models.Coupon) *stubCouponRepo {
	r := &stubCouponRepo{nextID: 100, coupons: make(map[string]*models.Coupon), used: make(map[uint]int)}
	for _, c := range coupons {
		r.coupons[c.Code] = c
	}
	return r
}

func (r *stubCouponRepo) List(repository.CouponListFilter) ([]models.Coupon, int64, error) {
	return nil, 0, nil
}
func (r *stubCouponRepo) GetByID(id uint) (*models.Coupon, error) {
	for _, c := range r.coupons {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}
func (r *stubCouponRepo) GetByCode(code string) (*models.Coupon, error) {
	return r.coupons[strings.ToUpper(strings.TrimSpace(code))], nil
}
func (r *stubCouponRepo) Create(coupon *models.Coupon) error {
	coupon.ID = r.nextID
	r.nextID++
	r.coupons[coupon.Code] = coupon
	return nil
}
func (r *stubCouponRepo) Update(coupon *models.Coupon) error { return nil }
func (r *stubCouponRepo) Delete(id uint) error {
	r.deleted = append(r.deleted, id)
	return nil
}
func (r *stubCouponRepo) IncrementUsed(id uint) (int64, error) {
	coupon, _ := r.GetByID(id)
	if coupon == nil || coupon.Exhausted() {
		return 0, nil
	}
	r.used[id]++
	coupon.UsedCount++
	return 1, nil
}
func (r *stubCouponRepo) WithTx(*gorm.DB) repository.CouponRepository { return r }

func TestValidateComputesDiscount(t *testing.T) {
	repo := newStubCouponRepo(&models.Coupon{
		ID:              1,
		Code:            "WELCOME10",
		DiscountPercent: 10,
		MinOrderAmount:  models.NewMoneyFromFloat(50),
		IsActive:        true,
	})
	svc := NewCouponService(repo)

	quote, err := svc.Validate(" welcome10 ", decimal.NewFromFloat(245.48))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := quote.Discount.StringFixed(2); got != "24.55" {
		t.Fatalf("expected discount 24.55, got %s", got)
	}
	if got := quote.Payable.StringFixed(2); got != "220.93" {
		t.Fatalf("expected payable 220.93, got %s", got)
	}
}

func TestValidateRejectsUnusableCoupons(t *testing.T) {
	expired := time.Now().Add(-time.Hour)
	repo := newStubCouponRepo(
		&models.Coupon{ID: 1, Code: "OFF", DiscountPercent: 10, IsActive: false},
		&models.Coupon{ID: 2, Code: "OLD", DiscountPercent: 10, IsActive: true, ExpiresAt: &expired},
		&models.Coupon{ID: 3, Code: "GONE", DiscountPercent: 10, IsActive: true, UsageLimit: 5, UsedCount: 5},
		&models.Coupon{ID: 4, Code: "BIG", DiscountPercent: 10, IsActive: true, MinOrderAmount: models.NewMoneyFromFloat(500)},
	)
	svc := NewCouponService(repo)
	total := decimal.NewFromFloat(100)

	for _, code := range []string{"OFF", "OLD", "GONE", "BIG"} {
		if _, err := svc.Validate(code, total); !errors.Is(err, ErrCouponInvalid) {
			t.Fatalf("code %s: expected ErrCouponInvalid, got %v", code, err)
		}
	}
	if _, err := svc.Validate("NOPE", total); !errors.Is(err, ErrCouponNotFound) {
		t.Fatalf("expected ErrCouponNotFound, got %v", err)
	}
}

func TestCreateNormalizesAndGuardsCode(t *testing.T) {
	repo := newStubCouponRepo(&models.Coupon{ID: 1, Code: "TAKEN", DiscountPercent: 5, IsActive: true})
	svc := NewCouponService(repo)

	coupon, err := svc.Create(CouponInput{Code: " summer20 ", DiscountPercent: 20, IsActive: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if coupon.Code != "SUMMER20" {
		t.Fatalf("expected uppercase code, got %s", coupon.Code)
	}

	if _, err := svc.Create(CouponInput{Code: "taken", DiscountPercent: 20}); !errors.Is(err, ErrCouponCodeTaken) {
		t.Fatalf("expected ErrCouponCodeTaken, got %v", err)
	}
	if _, err := svc.Create(CouponInput{Code: "BAD", DiscountPercent: 0}); !errors.Is(err, ErrCouponInvalid) {
		t.Fatalf("expected ErrCouponInvalid for zero discount, got %v", err)
	}
}

func TestRedeemStopsAtUsageLimit(t *testing.T) {
	repo := newStubCouponRepo(&models.Coupon{ID: 1, Code: "ONE", DiscountPercent: 10, IsActive: true, UsageLimit: 1})
	svc := NewCouponService(repo)

	if err := svc.Redeem(1); err != nil {
		t.Fatalf("first redeem should succeed: %v", err)
	}
	if err := svc.Redeem(1); !errors.Is(err, ErrCouponInvalid) {
		t.Fatalf("expected ErrCouponInvalid once exhausted, got %v", err)
	}
}

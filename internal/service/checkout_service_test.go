package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/lankashop/storefront/internal/cart"
	"github.com/lankashop/storefront/internal/config"
	"github.com/lankashop/storefront/internal/constants"
	"github.com/lankashop/storefront/internal/models"
	"github.com/lankashop/storefront/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var orderNumberPattern = regexp.MustCompile(`^ORD-\d+-\d+$`)

type stubUserRepo struct {
	users         map[uint]*models.User
	updatedFields map[uint]map[string]interface{}
}

func newStubUserRepo(users ...*models.User) *stubUserRepo {
	r := &stubUserRepo{
		users:         make(map[uint]*models.User),
		updatedFields: make(map[uint]map[string]interface{}),
	}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *stubUserRepo) GetByID(id uint) (*models.User, error) { return r.users[id], nil }
func (r *stubUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}
func (r *stubUserRepo) List(repository.UserListFilter) ([]models.User, int64, error) {
	return nil, 0, nil
}
func (r *stubUserRepo) Create(user *models.User) error { return nil }
func (r *stubUserRepo) Update(user *models.User) error { return nil }
func (r *stubUserRepo) UpdateFields(id uint, fields map[string]interface{}) error {
	r.updatedFields[id] = fields
	return nil
}
func (r *stubUserRepo) TouchLastLogin(uint, time.Time) error       { return nil }
func (r *stubUserRepo) Count() (int64, error)                      { return int64(len(r.users)), nil }
func (r *stubUserRepo) WithTx(*gorm.DB) repository.UserRepository  { return r }

type stubProductRepo struct {
	products   map[uint]*models.Product
	listErr    error
	listCalls  int
	categories []string
}

func newStubProductRepo(products ...*models.Product) *stubProductRepo {
	r := &stubProductRepo{products: make(map[uint]*models.Product)}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *stubProductRepo) List(repository.ProductListFilter) ([]models.Product, int64, error) {
	r.listCalls++
	if r.listErr != nil {
		return nil, 0, r.listErr
	}
	out := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}
func (r *stubProductRepo) ListCategories() ([]string, error)        { return r.categories, nil }
func (r *stubProductRepo) GetByID(id uint) (*models.Product, error) { return r.products[id], nil }
func (r *stubProductRepo) ListByIDs([]uint) ([]models.Product, error) {
	return nil, nil
}
func (r *stubProductRepo) Create(*models.Product) error { return nil }
func (r *stubProductRepo) Update(*models.Product) error { return nil }
func (r *stubProductRepo) Delete(uint) error            { return nil }
func (r *stubProductRepo) AdjustStock(uint, int) (int64, error) {
	return 1, nil
}
func (r *stubProductRepo) Count(bool) (int64, error)                     { return int64(len(r.products)), nil }
func (r *stubProductRepo) Transaction(fn func(tx *gorm.DB) error) error  { return fn(nil) }
func (r *stubProductRepo) WithTx(*gorm.DB) repository.ProductRepository  { return r }

type stubOrderRepo struct {
	nextID        uint
	orders        []*models.Order
	items         []models.OrderItem
	createErr     error
	createItemErr error
	statusUpdates map[uint]string
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{nextID: 1, statusUpdates: make(map[uint]string)}
}

func (r *stubOrderRepo) Create(order *models.Order) error {
	if r.createErr != nil {
		return r.createErr
	}
	order.ID = r.nextID
	r.nextID++
	r.orders = append(r.orders, order)
	return nil
}
func (r *stubOrderRepo) CreateItems(items []models.OrderItem) error {
	if r.createItemErr != nil {
		return r.createItemErr
	}
	r.items = append(r.items, items...)
	return nil
}
func (r *stubOrderRepo) GetByID(id uint) (*models.Order, error) {
	for _, o := range r.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, nil
}
func (r *stubOrderRepo) GetByOrderNumber(string) (*models.Order, error) { return nil, nil }
func (r *stubOrderRepo) List(repository.OrderListFilter) ([]models.Order, int64, error) {
	return nil, 0, nil
}
func (r *stubOrderRepo) UpdateStatus(id uint, from []string, to string) (int64, error) {
	r.statusUpdates[id] = to
	return 1, nil
}
func (r *stubOrderRepo) CountItems(uint) (int64, error) { return 0, nil }
func (r *stubOrderRepo) ListIncompleteBefore(string, time.Time, int) ([]models.Order, error) {
	return nil, nil
}
func (r *stubOrderRepo) HasUserPurchased(uint, uint, []string) (bool, error) { return false, nil }
func (r *stubOrderRepo) CountByStatus(string) (int64, error)                 { return 0, nil }
func (r *stubOrderRepo) Count() (int64, error)                               { return int64(len(r.orders)), nil }
func (r *stubOrderRepo) SumTotalAmount([]string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}
func (r *stubOrderRepo) ListRecent(int) ([]models.Order, error)         { return nil, nil }
func (r *stubOrderRepo) Transaction(fn func(tx *gorm.DB) error) error   { return fn(nil) }
func (r *stubOrderRepo) WithTx(*gorm.DB) repository.OrderRepository     { return r }

func testCheckoutService(userRepo repository.UserRepository, productRepo repository.ProductRepository, orderRepo repository.OrderRepository) (*CheckoutService, *cart.Manager) {
	cfg := &config.Config{}
	cfg.WhatsApp.Host = "wa.me"
	cfg.WhatsApp.Destination = "94771234567"
	carts := cart.NewManager(nil)
	composer := NewWhatsAppComposer(cfg.WhatsApp)
	return NewCheckoutService(cfg, orderRepo, productRepo, userRepo, carts, composer, nil), carts
}

func TestCheckoutCartEmptyCartLeavesCartUntouched(t *testing.T) {
	userRepo := newStubUserRepo(&models.User{ID: 1, Email: "a@example.com"})
	svc, carts := testCheckoutService(userRepo, newStubProductRepo(), newStubOrderRepo())
	defer carts.Close()

	_, err := svc.CheckoutCart(context.Background(), 1, "s1")
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestCheckoutCartRequiresAuthentication(t *testing.T) {
	svc, carts := testCheckoutService(newStubUserRepo(), newStubProductRepo(), newStubOrderRepo())
	defer carts.Close()

	_, err := svc.CheckoutCart(context.Background(), 0, "s1")
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestCheckoutCartPersistsOrderAndClearsCart(t *testing.T) {
	userRepo := newStubUserRepo(&models.User{ID: 1, Email: "a@example.com", FullName: "Alice"})
	orderRepo := newStubOrderRepo()
	svc, carts := testCheckoutService(userRepo, newStubProductRepo(), orderRepo)
	defer carts.Close()

	ctx := context.Background()
	store := carts.Get(ctx, "s1")
	store.AddItem(&models.Product{ID: 10, Name: "Headphones", Price: models.NewMoneyFromFloat(89.99)}, 2)
	store.AddItem(&models.Product{ID: 11, Name: "Mouse", Price: models.NewMoneyFromFloat(65.50)}, 1)

	result, err := svc.CheckoutCart(ctx, 1, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Persisted || result.Order == nil {
		t.Fatalf("expected persisted order, got %+v", result)
	}
	if !orderNumberPattern.MatchString(result.OrderNumber) {
		t.Fatalf("unexpected order number format: %s", result.OrderNumber)
	}
	if result.Order.Status != constants.OrderStatusPending {
		t.Fatalf("expected status pending, got %s", result.Order.Status)
	}
	if got := result.Total.StringFixed(2); got != "245.48" {
		t.Fatalf("expected total 245.48, got %s", got)
	}
	if len(orderRepo.items) != 2 {
		t.Fatalf("expected 2 order items, got %d", len(orderRepo.items))
	}
	if store.Count() != 0 {
		t.Fatalf("expected cart cleared after checkout, got %d items", store.Count())
	}
	if result.WhatsAppURL == "" || result.Message == "" {
		t.Fatalf("expected handoff message and url, got %+v", result)
	}
}

func TestCheckoutCartItemFailureMarksOrderIncomplete(t *testing.T) {
	userRepo := newStubUserRepo(&models.User{ID: 1, Email: "a@example.com"})
	orderRepo := newStubOrderRepo()
	orderRepo.createItemErr = errors.New("insert failed")
	svc, carts := testCheckoutService(userRepo, newStubProductRepo(), orderRepo)
	defer carts.Close()

	ctx := context.Background()
	store := carts.Get(ctx, "s1")
	store.AddItem(&models.Product{ID: 10, Name: "Headphones", Price: models.NewMoneyFromFloat(89.99)}, 1)

	result, err := svc.CheckoutCart(ctx, 1, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Persisted {
		t.Fatalf("expected order persisted despite item failure")
	}
	if result.Order.Status != constants.OrderStatusIncomplete {
		t.Fatalf("expected incomplete status, got %s", result.Order.Status)
	}
	if orderRepo.statusUpdates[result.Order.ID] != constants.OrderStatusIncomplete {
		t.Fatalf("expected status update to incomplete, got %v", orderRepo.statusUpdates)
	}
	if result.WhatsAppURL == "" {
		t.Fatalf("expected handoff url even when items failed")
	}
}

func TestBuyNowRequiresContactPhone(t *testing.T) {
	userRepo := newStubUserRepo(&models.User{ID: 1, Email: "a@example.com"})
	productRepo := newStubProductRepo(&models.Product{ID: 10, Name: "Headphones", Price: models.NewMoneyFromFloat(89.99), IsActive: true})
	svc, carts := testCheckoutService(userRepo, productRepo, newStubOrderRepo())
	defer carts.Close()

	ctx := context.Background()
	_, err := svc.BuyNow(ctx, 1, BuyNowInput{ProductID: 10, Quantity: 2})
	if !errors.Is(err, ErrContactRequired) {
		t.Fatalf("expected ErrContactRequired, got %v", err)
	}

	// 补充电话后重试成功，电话回写到资料
	result, err := svc.BuyNow(ctx, 1, BuyNowInput{ProductID: 10, Quantity: 2, ContactPhone: "94770000000"})
	if err != nil {
		t.Fatalf("unexpected error after providing phone: %v", err)
	}
	if !orderNumberPattern.MatchString(result.OrderNumber) {
		t.Fatalf("unexpected order number format: %s", result.OrderNumber)
	}
	if got := result.Total.StringFixed(2); got != "179.98" {
		t.Fatalf("expected total 179.98, got %s", got)
	}
	fields := userRepo.updatedFields[1]
	if fields == nil || fields["phone"] != "94770000000" {
		t.Fatalf("expected phone saved to profile, got %v", fields)
	}
}

func TestBuyNowRejectsInactiveProduct(t *testing.T) {
	userRepo := newStubUserRepo(&models.User{ID: 1, Email: "a@example.com", Phone: "9477"})
	productRepo := newStubProductRepo(&models.Product{ID: 10, Name: "Headphones", IsActive: false})
	svc, carts := testCheckoutService(userRepo, productRepo, newStubOrderRepo())
	defer carts.Close()

	_, err := svc.BuyNow(context.Background(), 1, BuyNowInput{ProductID: 10})
	if !errors.Is(err, ErrProductUnavailable) {
		t.Fatalf("expected ErrProductUnavailable, got %v", err)
	}

	_, err = svc.BuyNow(context.Background(), 1, BuyNowInput{ProductID: 99})
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestCheckoutBannedUserRejected(t *testing.T) {
	userRepo := newStubUserRepo(&models.User{ID: 1, Email: "a@example.com", IsBanned: true})
	svc, carts := testCheckoutService(userRepo, newStubProductRepo(), newStubOrderRepo())
	defer carts.Close()

	_, err := svc.CheckoutCart(context.Background(), 1, "s1")
	if !errors.Is(err, ErrUserBanned) {
		t.Fatalf("expected ErrUserBanned, got %v", err)
	}
}

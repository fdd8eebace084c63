package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/lankashop/storefront/internal/cart"
	"github.com/lankashop/storefront/internal/config"
	"github.com/lankashop/storefront/internal/constants"
	"github.com/lankashop/storefront/internal/logger"
	"github.com/lankashop/storefront/internal/models"
	"github.com/lankashop/storefront/internal/queue"
	"github.com/lankashop/storefront/internal/repository"

	"github.com/shopspring/decimal"
)

// CheckoutService 下单编排服务。
// 订单落库分两步（主记录、订单项），任何一步失败都不阻断
// WhatsApp 跳转，缺订单项的订单标记为 incomplete 交给队列补偿。
type CheckoutService struct {
	cfg         *config.Config
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	carts       *cart.Manager
	composer    *WhatsAppComposer
	queueClient *queue.Client
}

// NewCheckoutService 创建下单服务
func NewCheckoutService(
	cfg *config.Config,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	carts *cart.Manager,
	composer *WhatsAppComposer,
	queueClient *queue.Client,
) *CheckoutService {
	return &CheckoutService{
		cfg:         cfg,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		carts:       carts,
		composer:    composer,
		queueClient: queueClient,
	}
}

// CheckoutResult 下单结果
type CheckoutResult struct {
	Order       *models.Order `json:"order,omitempty"`
	OrderNumber string        `json:"order_number"`
	Total       models.Money  `json:"total"`
	Message     string        `json:"message"`
	WhatsAppURL string        `json:"whatsapp_url"`
	Persisted   bool          `json:"persisted"`
}

// CheckoutCart 结算整个购物车。
// 成功发起后清空购物车，购物车为空时原样保留并报错。
func (s *CheckoutService) CheckoutCart(ctx context.Context, userID uint, sessionID string) (*CheckoutResult, error) {
	user, err := s.requireUser(userID)
	if err != nil {
		return nil, err
	}

	store := s.carts.Get(ctx, sessionID)
	lines := store.Items()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	total := store.Total()
	now := time.Now()
	orderNumber := generateOrderNumber(now)

	order := &models.Order{
		OrderNumber:     orderNumber,
		UserID:          user.ID,
		Status:          constants.OrderStatusPending,
		TotalAmount:     models.NewMoneyFromDecimal(total),
		WhatsAppNumber:  user.Phone,
		ShippingAddress: user.Address,
		PaymentMethod:   constants.PaymentMethodCashPending,
	}
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, models.OrderItem{
			ProductID:   line.ProductID,
			ProductName: line.Name,
			PriceAtTime: line.Price,
			Quantity:    line.Quantity,
		})
	}

	persisted := s.persistOrder(order, items)

	message := s.composer.CartOrderMessage(user, lines, total, now)
	result := &CheckoutResult{
		OrderNumber: orderNumber,
		Total:       models.NewMoneyFromDecimal(total),
		Message:     message,
		WhatsAppURL: s.composer.DeepLink(message),
		Persisted:   persisted,
	}
	if persisted {
		result.Order = order
		s.notifyOrderPlaced(user, order)
	}

	// 结算发起后清空购物车，与落库结果无关
	store.Clear()
	return result, nil
}

// BuyNowInput 单品直购参数
type BuyNowInput struct {
	ProductID    uint
	Quantity     int
	ContactPhone string
	Address      string
}

// BuyNow 单品直购。
// 用户资料和本次请求都没有联系电话时返回 ErrContactRequired，
// 调用方补充电话后重试；本次提供的电话和地址回写到用户资料。
func (s *CheckoutService) BuyNow(ctx context.Context, userID uint, input BuyNowInput) (*CheckoutResult, error) {
	user, err := s.requireUser(userID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if !product.IsActive {
		return nil, ErrProductUnavailable
	}

	quantity := input.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	phone := strings.TrimSpace(input.ContactPhone)
	if phone == "" {
		phone = strings.TrimSpace(user.Phone)
	}
	if phone == "" {
		return nil, ErrContactRequired
	}
	address := strings.TrimSpace(input.Address)
	if address == "" {
		address = strings.TrimSpace(user.Address)
	}
	s.saveContact(user, phone, address)

	total := product.Price.Decimal.Mul(decimal.NewFromInt(int64(quantity)))
	now := time.Now()
	orderNumber := generateOrderNumber(now)

	order := &models.Order{
		OrderNumber:     orderNumber,
		UserID:          user.ID,
		Status:          constants.OrderStatusPending,
		TotalAmount:     models.NewMoneyFromDecimal(total),
		WhatsAppNumber:  phone,
		ShippingAddress: address,
		PaymentMethod:   constants.PaymentMethodCashPending,
	}
	items := []models.OrderItem{{
		ProductID:   product.ID,
		ProductName: product.Name,
		PriceAtTime: product.Price,
		Quantity:    quantity,
	}}

	persisted := s.persistOrder(order, items)

	customerName := strings.TrimSpace(user.FullName)
	if customerName == "" {
		customerName = user.Email
	}
	itemLabel := product.Name
	if quantity > 1 {
		itemLabel = fmt.Sprintf("%s x%d", product.Name, quantity)
	}
	message := s.composer.BuyNowMessage(orderNumber, customerName, itemLabel, total, address)

	result := &CheckoutResult{
		OrderNumber: orderNumber,
		Total:       models.NewMoneyFromDecimal(total),
		Message:     message,
		WhatsAppURL: s.composer.DeepLink(message),
		Persisted:   persisted,
	}
	if persisted {
		result.Order = order
		s.notifyOrderPlaced(user, order)
	}
	return result, nil
}

func (s *CheckoutService) requireUser(userID uint) (*models.User, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthenticated
	}
	if user.IsBanned {
		return nil, ErrUserBanned
	}
	return user, nil
}

// persistOrder 两步落库。主记录失败整单放弃落库；
// 订单项失败把订单标成 incomplete 并入队补偿任务。
func (s *CheckoutService) persistOrder(order *models.Order, items []models.OrderItem) bool {
	if err := s.orderRepo.Create(order); err != nil {
		logger.Errorw("order_create_failed", "order_number", order.OrderNumber, "error", err)
		return false
	}

	for i := range items {
		items[i].OrderID = order.ID
	}
	if err := s.orderRepo.CreateItems(items); err != nil {
		logger.Errorw("order_items_create_failed",
			"order_id", order.ID,
			"order_number", order.OrderNumber,
			"error", err,
		)
		if _, uerr := s.orderRepo.UpdateStatus(order.ID, nil, constants.OrderStatusIncomplete); uerr != nil {
			logger.Errorw("order_mark_incomplete_failed", "order_id", order.ID, "error", uerr)
		}
		order.Status = constants.OrderStatusIncomplete
		s.enqueueReconcile(order, items)
		return true
	}

	order.Items = items
	return true
}

func (s *CheckoutService) enqueueReconcile(order *models.Order, items []models.OrderItem) {
	if s.queueClient == nil {
		return
	}
	payload := queue.OrderReconcilePayload{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
	}
	for _, item := range items {
		payload.Items = append(payload.Items, queue.OrderReconcileItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			PriceAtTime: item.PriceAtTime.String(),
			Quantity:    item.Quantity,
		})
	}
	if err := s.queueClient.EnqueueOrderReconcile(payload); err != nil {
		logger.Errorw("order_reconcile_enqueue_failed", "order_id", order.ID, "error", err)
	}
}

func (s *CheckoutService) notifyOrderPlaced(user *models.User, order *models.Order) {
	if s.queueClient == nil {
		return
	}
	payload := queue.OrderNotificationPayload{
		UserID:      user.ID,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		Total:       order.TotalAmount.String(),
	}
	if err := s.queueClient.EnqueueOrderNotification(payload); err != nil {
		logger.Warnw("order_notification_enqueue_failed", "order_id", order.ID, "error", err)
	}
}

// saveContact 把本次结算用的联系方式回写到用户资料，失败只记日志。
func (s *CheckoutService) saveContact(user *models.User, phone, address string) {
	fields := map[string]interface{}{}
	if phone != "" && phone != user.Phone {
		fields["phone"] = phone
	}
	if address != "" && address != user.Address {
		fields["address"] = address
	}
	if len(fields) == 0 {
		return
	}
	if err := s.userRepo.UpdateFields(user.ID, fields); err != nil {
		logger.Warnw("save_contact_failed", "user_id", user.ID, "error", err)
		return
	}
	if phone != "" {
		user.Phone = phone
	}
	if address != "" {
		user.Address = address
	}
}

// generateOrderNumber 订单号：ORD-毫秒时间戳-三位随机数
func generateOrderNumber(now time.Time) string {
	suffix := int64(0)
	if n, err := rand.Int(rand.Reader, big.NewInt(1000)); err == nil {
		suffix = n.Int64()
	}
	return fmt.Sprintf("ORD-%d-%d", now.UnixMilli(), suffix)
}

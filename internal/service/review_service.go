package service

import (
	"strings"

	"github.com/lankashop/storefront/internal/constants"
	"github.com/lankashop/storefront/internal/logger"
	"github.com/lankashop/storefront/internal/models"
	"github.com/lankashop/storefront/internal/repository"
)

// verifiedPurchaseStatuses 计入已购验证的订单状态
var verifiedPurchaseStatuses = []string{
	constants.OrderStatusConfirmed,
	constants.OrderStatusShipped,
	constants.OrderStatusDelivered,
}

// ReviewService 商品评价服务
type ReviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
}

// NewReviewService 创建评价服务
func NewReviewService(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository, orderRepo repository.OrderRepository) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
	}
}

// ListForProduct 商品评价列表
func (s *ReviewService) ListForProduct(productID uint, page, pageSize int) ([]models.Review, int64, error) {
	return s.reviewRepo.List(repository.ReviewListFilter{
		Page:      page,
		PageSize:  pageSize,
		ProductID: productID,
		WithUser:  true,
	})
}

// ListAll 后台评价列表
func (s *ReviewService) ListAll(filter repository.ReviewListFilter) ([]models.Review, int64, error) {
	filter.WithUser = true
	return s.reviewRepo.List(filter)
}

// SubmitInput 提交评价参数
type SubmitInput struct {
	ProductID uint
	Rating    int
	Comment   string
}

// Submit 提交评价。每人每商品一条，确认过的订单里买过该商品的标记为已购验证。
func (s *ReviewService) Submit(userID uint, input SubmitInput) (*models.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrRatingInvalid
	}

	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	exist, err := s.reviewRepo.Get(input.ProductID, userID)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrReviewExists
	}

	verified, err := s.orderRepo.HasUserPurchased(userID, input.ProductID, verifiedPurchaseStatuses)
	if err != nil {
		logger.Warnw("review_purchase_check_failed", "user_id", userID, "product_id", input.ProductID, "error", err)
		verified = false
	}

	review := &models.Review{
		ProductID:  input.ProductID,
		UserID:     userID,
		Rating:     input.Rating,
		Comment:    strings.TrimSpace(input.Comment),
		IsVerified: verified,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}
	return review, nil
}

// Delete 删除评价。管理员可删任意评价，普通用户只能删自己的。
func (s *ReviewService) Delete(operatorID uint, isAdmin bool, reviewID uint) error {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		return err
	}
	if review == nil {
		return ErrReviewNotFound
	}
	if !isAdmin && review.UserID != operatorID {
		return ErrPermissionDenied
	}
	return s.reviewRepo.Delete(reviewID)
}

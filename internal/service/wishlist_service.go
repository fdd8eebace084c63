package service

import (
	"github.com/lankashop/storefront/internal/models"
	"github.com/lankashop/storefront/internal/repository"
)

// WishlistService 心愿单服务
type WishlistService struct {
	wishlistRepo repository.WishlistRepository
	productRepo  repository.ProductRepository
}

// NewWishlistService 创建心愿单服务
func NewWishlistService(wishlistRepo repository.WishlistRepository, productRepo repository.ProductRepository) *WishlistService {
	return &WishlistService{wishlistRepo: wishlistRepo, productRepo: productRepo}
}

// List 用户心愿单
func (s *WishlistService) List(userID uint) ([]models.WishlistItem, error) {
	return s.wishlistRepo.ListByUser(userID)
}

// Toggle 切换收藏状态，返回切换后是否在心愿单中。
func (s *WishlistService) Toggle(userID, productID uint) (bool, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return false, err
	}
	if product == nil {
		return false, ErrProductNotFound
	}

	exist, err := s.wishlistRepo.Get(userID, productID)
	if err != nil {
		return false, err
	}
	if exist != nil {
		if _, err := s.wishlistRepo.Delete(userID, productID); err != nil {
			return false, err
		}
		return false, nil
	}

	item := &models.WishlistItem{UserID: userID, ProductID: productID}
	if err := s.wishlistRepo.Create(item); err != nil {
		return false, err
	}
	return true, nil
}

// Contains 商品是否已收藏
func (s *WishlistService) Contains(userID, productID uint) (bool, error) {
	item, err := s.wishlistRepo.Get(userID, productID)
	if err != nil {
		return false, err
	}
	return item != nil, nil
}

// Count 心愿单条数
func (s *WishlistService) Count(userID uint) (int64, error) {
	return s.wishlistRepo.CountByUser(userID)
}

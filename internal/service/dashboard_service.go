package service

import (
	"github.com/lankashop/storefront/internal/constants"
	"github.com/lankashop/storefront/internal/models"
	"github.com/lankashop/storefront/internal/repository"
)

// revenueStatuses 计入营收的订单状态
var revenueStatuses = []string{
	constants.OrderStatusConfirmed,
	constants.OrderStatusShipped,
	constants.OrderStatusDelivered,
}

// DashboardService 后台概览统计服务
type DashboardService struct {
	orderRepo   repository.OrderRepository
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
}

// NewDashboardService 创建概览统计服务
func NewDashboardService(orderRepo repository.OrderRepository, userRepo repository.UserRepository, productRepo repository.ProductRepository) *DashboardService {
	return &DashboardService{
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		productRepo: productRepo,
	}
}

// DashboardStats 概览统计
type DashboardStats struct {
	TotalRevenue   models.Money     `json:"total_revenue"`
	TotalOrders    int64            `json:"total_orders"`
	TotalCustomers int64            `json:"total_customers"`
	TotalProducts  int64            `json:"total_products"`
	OrdersByStatus map[string]int64 `json:"orders_by_status"`
	RecentOrders   []models.Order   `json:"recent_orders"`
}

// Stats 汇总概览数据
func (s *DashboardService) Stats() (*DashboardStats, error) {
	revenue, err := s.orderRepo.SumTotalAmount(revenueStatuses)
	if err != nil {
		return nil, err
	}
	totalOrders, err := s.orderRepo.Count()
	if err != nil {
		return nil, err
	}
	totalCustomers, err := s.userRepo.Count()
	if err != nil {
		return nil, err
	}
	totalProducts, err := s.productRepo.Count(false)
	if err != nil {
		return nil, err
	}

	byStatus := make(map[string]int64)
	for _, status := range []string{
		constants.OrderStatusPending,
		constants.OrderStatusIncomplete,
		constants.OrderStatusConfirmed,
		constants.OrderStatusShipped,
		constants.OrderStatusDelivered,
		constants.OrderStatusCancelled,
	} {
		count, err := s.orderRepo.CountByStatus(status)
		if err != nil {
			return nil, err
		}
		byStatus[status] = count
	}

	recent, err := s.orderRepo.ListRecent(10)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TotalRevenue:   models.NewMoneyFromDecimal(revenue),
		TotalOrders:    totalOrders,
		TotalCustomers: totalCustomers,
		TotalProducts:  totalProducts,
		OrdersByStatus: byStatus,
		RecentOrders:   recent,
	}, nil
}

package services

import (
	"context"
	"fmt"

	"github.com/bbmart/marketplace/app/models"
	"github.com/bbmart/marketplace/app/repositories"
	"github.com/bbmart/marketplace/app/utils/format"
	"github.com/shopspring/decimal"
)

type DashboardStats struct {
	TotalOrders    int64                        `json:"totalOrders"`
	OrdersByStatus map[models.OrderStatus]int64 `json:"ordersByStatus"`
	Revenue        decimal.Decimal              `json:"revenue"`
	RevenueDisplay string                       `json:"revenueDisplay"`
	Products       int64                        `json:"products"`
	Vendors        int64                        `json:"vendors,omitempty"`
}

type ReportService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	vendorRepo  repositories.VendorRepository
	currency    string
}

func NewReportService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, vendorRepo repositories.VendorRepository, currency string) *ReportService {
	return &ReportService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		vendorRepo:  vendorRepo,
		currency:    currency,
	}
}

func (s *ReportService) VendorStats(ctx context.Context, actor models.Identity) (*DashboardStats, error) {
	if !actor.IsVendor() {
		return nil, fmt.Errorf("%w: vendor access only", ErrForbidden)
	}
	return s.stats(ctx, actor.VendorID)
}

func (s *ReportService) AdminStats(ctx context.Context) (*DashboardStats, error) {
	stats, err := s.stats(ctx, "")
	if err != nil {
		return nil, err
	}
	vendors, err := s.vendorRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count vendors: %w", err)
	}
	stats.Vendors = vendors
	return stats, nil
}

func (s *ReportService) stats(ctx context.Context, vendorID string) (*DashboardStats, error) {
	orders, err := s.orderRepo.Stats(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate orders: %w", err)
	}
	products, err := s.productRepo.CountByVendor(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	return &DashboardStats{
		TotalOrders:    orders.TotalOrders,
		OrdersByStatus: orders.ByStatus,
		Revenue:        orders.Revenue,
		RevenueDisplay: format.Money(orders.Revenue, s.currency),
		Products:       products,
	}, nil
}

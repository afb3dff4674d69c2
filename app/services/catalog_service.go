package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bbmart/marketplace/app/models"
	"github.com/bbmart/marketplace/app/repositories"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ProductInput struct {
	Name         string          `json:"name" validate:"required,max=255"`
	Sku          string          `json:"sku" validate:"max=100"`
	Description  string          `json:"description"`
	BasePrice    decimal.Decimal `json:"basePrice"`
	ProfitMargin decimal.Decimal `json:"profitMargin"`
	Discount     decimal.Decimal `json:"discount"`
	Stock        int             `json:"stock" validate:"min=0"`
	Weight       decimal.Decimal `json:"weight"`
	Length       decimal.Decimal `json:"length"`
	Breadth      decimal.Decimal `json:"breadth"`
	Height       decimal.Decimal `json:"height"`
}

type ProductUpdate struct {
	Name         *string          `json:"name" validate:"omitempty,max=255"`
	Description  *string          `json:"description"`
	BasePrice    *decimal.Decimal `json:"basePrice"`
	ProfitMargin *decimal.Decimal `json:"profitMargin"`
	Discount     *decimal.Decimal `json:"discount"`
	Stock        *int             `json:"stock" validate:"omitempty,min=0"`
	Weight       *decimal.Decimal `json:"weight"`
}

type ProductPage struct {
	Products []models.Product `json:"products"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PerPage  int              `json:"perPage"`
}

type CatalogService struct {
	productRepo repositories.ProductRepository
	logger      *zap.Logger
}

func NewCatalogService(productRepo repositories.ProductRepository, logger *zap.Logger) *CatalogService {
	return &CatalogService{productRepo: productRepo, logger: logger.Named("catalog")}
}

func (s *CatalogService) List(ctx context.Context, page, perPage int) (*ProductPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	products, total, err := s.productRepo.GetPublishedPaginated(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return &ProductPage{Products: products, Total: total, Page: page, PerPage: perPage}, nil
}

// Get only exposes products visible in the storefront.
func (s *CatalogService) Get(ctx context.Context, ref string) (*models.Product, error) {
	product, err := resolveProduct(ctx, s.productRepo, ref)
	if errors.Is(err, ErrValidation) {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, ref)
	}
	if err != nil {
		return nil, err
	}
	if !product.Purchasable() {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, ref)
	}
	return product, nil
}

func (s *CatalogService) VendorProducts(ctx context.Context, actor models.Identity) ([]models.Product, error) {
	if !actor.IsVendor() {
		return nil, fmt.Errorf("%w: vendor access only", ErrForbidden)
	}
	return s.productRepo.GetByVendor(ctx, actor.VendorID)
}

func validatePricing(base, margin, discount decimal.Decimal) error {
	hundred := decimal.NewFromInt(100)
	if !base.IsPositive() {
		return fmt.Errorf("%w: basePrice must be greater than zero", ErrValidation)
	}
	if margin.IsNegative() {
		return fmt.Errorf("%w: profitMargin cannot be negative", ErrValidation)
	}
	if discount.IsNegative() || discount.GreaterThan(hundred) {
		return fmt.Errorf("%w: discount must be between 0 and 100", ErrValidation)
	}
	return nil
}

func productSlug(name string) string {
	return slug.Make(name) + "-" + uuid.New().String()[:6]
}

// CreateProduct stores a draft; it stays hidden until published.
func (s *CatalogService) CreateProduct(ctx context.Context, actor models.Identity, in ProductInput) (*models.Product, error) {
	if !actor.IsVendor() {
		return nil, fmt.Errorf("%w: vendor access only", ErrForbidden)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if in.Stock < 0 {
		return nil, fmt.Errorf("%w: stock cannot be negative", ErrValidation)
	}
	if err := validatePricing(in.BasePrice, in.ProfitMargin, in.Discount); err != nil {
		return nil, err
	}

	product := &models.Product{
		VendorID:     actor.VendorID,
		Name:         name,
		Slug:         productSlug(name),
		Sku:          in.Sku,
		Description:  in.Description,
		BasePrice:    in.BasePrice,
		ProfitMargin: in.ProfitMargin,
		Discount:     in.Discount,
		Stock:        in.Stock,
		Weight:       in.Weight,
		Length:       in.Length,
		Breadth:      in.Breadth,
		Height:       in.Height,
	}
	product.RecomputeFinalPrice()

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	s.logger.Info("product drafted", zap.String("product_id", product.ID), zap.String("vendor_id", actor.VendorID))
	return product, nil
}

func (s *CatalogService) ownedProduct(ctx context.Context, actor models.Identity, id string) (*models.Product, error) {
	if !actor.IsVendor() {
		return nil, fmt.Errorf("%w: vendor access only", ErrForbidden)
	}
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, id)
	}
	if product.VendorID != actor.VendorID {
		return nil, fmt.Errorf("%w: product belongs to another vendor", ErrForbidden)
	}
	return product, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, actor models.Identity, id string, in ProductUpdate) (*models.Product, error) {
	product, err := s.ownedProduct(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.BasePrice != nil {
		product.BasePrice = *in.BasePrice
	}
	if in.ProfitMargin != nil {
		product.ProfitMargin = *in.ProfitMargin
	}
	if in.Discount != nil {
		product.Discount = *in.Discount
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return nil, fmt.Errorf("%w: stock cannot be negative", ErrValidation)
		}
		product.Stock = *in.Stock
	}
	if in.Weight != nil {
		product.Weight = *in.Weight
	}
	if err := validatePricing(product.BasePrice, product.ProfitMargin, product.Discount); err != nil {
		return nil, err
	}
	product.RecomputeFinalPrice()

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

func (s *CatalogService) Publish(ctx context.Context, actor models.Identity, id string) (*models.Product, error) {
	product, err := s.ownedProduct(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	product.IsPublished = true
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to publish product: %w", err)
	}
	return product, nil
}

func (s *CatalogService) SetSuspended(ctx context.Context, id string, suspended bool) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, id)
	}
	product.IsSuspended = suspended
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	s.logger.Info("product suspension changed", zap.String("product_id", id), zap.Bool("suspended", suspended))
	return product, nil
}

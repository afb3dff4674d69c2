package services

import (
	"context"
	"fmt"
	"math"

	"github.com/bbmart/marketplace/app/models"
	"github.com/bbmart/marketplace/app/repositories"
	"github.com/shopspring/decimal"
)

// MaxCartQuantity bounds a single cart line.
const MaxCartQuantity = math.MaxInt32

type CartLine struct {
	Product   *models.Product `json:"product"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

type CartView struct {
	Items         []CartLine      `json:"items"`
	ItemsTotal    decimal.Decimal `json:"itemsTotal"`
	TotalQuantity int             `json:"totalQuantity"`
}

type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
}

func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// resolveProduct accepts either a product id or a slug.
func resolveProduct(ctx context.Context, repo repositories.ProductRepository, ref string) (*models.Product, error) {
	if ref == "" {
		return nil, fmt.Errorf("%w: invalid product", ErrValidation)
	}
	product, err := repo.GetByID(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil {
		product, err = repo.GetBySlug(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("failed to load product: %w", err)
		}
	}
	if product == nil {
		return nil, fmt.Errorf("%w: invalid product", ErrValidation)
	}
	return product, nil
}

func (s *CartService) Get(ctx context.Context, userID string) (*CartView, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	items, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	view := &CartView{Items: []CartLine{}, ItemsTotal: decimal.Zero}
	for _, item := range items {
		if item.Product == nil || item.Quantity <= 0 {
			continue
		}
		line := CartLine{
			Product:   item.Product,
			Quantity:  item.Quantity,
			LineTotal: item.Product.FinalPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
		}
		view.Items = append(view.Items, line)
		view.ItemsTotal = view.ItemsTotal.Add(line.LineTotal)
		view.TotalQuantity += item.Quantity
	}
	return view, nil
}

// SetQuantity replaces whatever quantity the cart held for the product.
// Fractions are floored and negatives become zero, which removes the line.
func (s *CartService) SetQuantity(ctx context.Context, userID, productRef string, quantity float64) (*CartView, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if math.IsNaN(quantity) || math.IsInf(quantity, 0) || quantity > MaxCartQuantity {
		return nil, fmt.Errorf("%w: quantity must be a number between 0 and %d", ErrValidation, MaxCartQuantity)
	}
	product, err := resolveProduct(ctx, s.productRepo, productRef)
	if err != nil {
		return nil, err
	}

	qty := int(math.Max(0, math.Floor(quantity)))
	if err := s.store(ctx, userID, product.ID, qty); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *CartService) Increment(ctx context.Context, userID, productRef string) (*CartView, error) {
	return s.adjust(ctx, userID, productRef, 1)
}

// Decrement is a no-op when the product is not in the cart.
func (s *CartService) Decrement(ctx context.Context, userID, productRef string) (*CartView, error) {
	return s.adjust(ctx, userID, productRef, -1)
}

func (s *CartService) adjust(ctx context.Context, userID, productRef string, delta int) (*CartView, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	product, err := resolveProduct(ctx, s.productRepo, productRef)
	if err != nil {
		return nil, err
	}

	existing, err := s.cartRepo.Get(ctx, userID, product.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart item: %w", err)
	}

	current := 0
	if existing != nil {
		current = existing.Quantity
	}
	if current+delta < 0 {
		return s.Get(ctx, userID)
	}
	if current+delta > MaxCartQuantity {
		return nil, fmt.Errorf("%w: quantity must be a number between 0 and %d", ErrValidation, MaxCartQuantity)
	}
	if err := s.store(ctx, userID, product.ID, current+delta); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *CartService) Remove(ctx context.Context, userID, productRef string) (*CartView, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	product, err := resolveProduct(ctx, s.productRepo, productRef)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.Delete(ctx, userID, product.ID); err != nil {
		return nil, fmt.Errorf("failed to remove cart item: %w", err)
	}
	return s.Get(ctx, userID)
}

func (s *CartService) Clear(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrUnauthenticated
	}
	return s.cartRepo.Clear(ctx, userID)
}

func (s *CartService) store(ctx context.Context, userID, productID string, qty int) error {
	if qty == 0 {
		if err := s.cartRepo.Delete(ctx, userID, productID); err != nil {
			return fmt.Errorf("failed to remove cart item: %w", err)
		}
		return nil
	}

	item, err := s.cartRepo.Get(ctx, userID, productID)
	if err != nil {
		return fmt.Errorf("failed to load cart item: %w", err)
	}
	if item == nil {
		item = &models.CartItem{UserID: userID, ProductID: productID}
	}
	item.Quantity = qty
	if err := s.cartRepo.Save(ctx, item); err != nil {
		return fmt.Errorf("failed to save cart item: %w", err)
	}
	return nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bbmart/marketplace/app/helpers"
	"github.com/bbmart/marketplace/app/models"
	"github.com/bbmart/marketplace/app/repositories"
	"github.com/bbmart/marketplace/app/utils/calc"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type CheckoutRequest struct {
	ShippingAddress models.Address       `json:"shippingAddress" validate:"required"`
	BillingAddress  *models.Address      `json:"billingAddress,omitempty" validate:"omitempty"`
	PaymentMethod   models.PaymentMethod `json:"paymentMethod" validate:"required,oneof=cod online"`
}

type CheckoutResult struct {
	Order   *models.Order `json:"order"`
	Payment *GatewayOrder `json:"payment,omitempty"`
}

type CheckoutService struct {
	tx          repositories.Transactor
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
	orderRepo   repositories.OrderRepository
	delivery    *DeliveryService
	gateway     PaymentGateway
	notifier    Notifier
	transitions *transitions
	logger      *zap.Logger
	now         func() time.Time
}

func NewCheckoutService(
	tx repositories.Transactor,
	cartRepo repositories.CartRepository,
	productRepo repositories.ProductRepository,
	orderRepo repositories.OrderRepository,
	audit repositories.AuditRepository,
	delivery *DeliveryService,
	gateway PaymentGateway,
	notifier Notifier,
	logger *zap.Logger,
) *CheckoutService {
	logger = logger.Named("checkout")
	return &CheckoutService{
		tx:          tx,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		delivery:    delivery,
		gateway:     gateway,
		notifier:    notifier,
		transitions: newTransitions(orderRepo, audit, logger),
		logger:      logger,
		now:         time.Now,
	}
}

func (r CheckoutRequest) validate() error {
	if !r.PaymentMethod.Valid() {
		return fmt.Errorf("%w: payment method must be cod or online", ErrValidation)
	}
	addr := r.ShippingAddress
	if addr.Name == "" || addr.Phone == "" || addr.Address1 == "" || addr.City == "" || addr.State == "" {
		return fmt.Errorf("%w: shipping address is incomplete", ErrValidation)
	}
	if !ValidPincode(addr.Pincode) {
		return fmt.Errorf("%w: shipping pincode must be 6 digits", ErrValidation)
	}
	return nil
}

// Checkout turns the caller's cart into a pending order. Stock is reserved in
// the same transaction that creates the order, so a failed reservation leaves
// neither an order nor a stock change behind.
func (s *CheckoutService) Checkout(ctx context.Context, userID string, req CheckoutRequest) (*CheckoutResult, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	items, itemsTotal, err := snapshotCart(cart)
	if err != nil {
		return nil, err
	}

	shippingCharge := FallbackShippingCharge
	var breakdown []models.VendorShippingQuote
	estimate, err := s.delivery.Estimate(ctx, cartDeliveryItems(cart), req.ShippingAddress.Pincode, req.PaymentMethod)
	if err != nil {
		s.logger.Warn("delivery estimate failed, charging fallback", zap.String("user_id", userID), zap.Error(err))
	} else {
		shippingCharge = estimate.TotalShippingCost
		breakdown = estimate.Breakdown
	}

	tax := calc.CalculateTax(itemsTotal)
	billing := req.ShippingAddress
	if req.BillingAddress != nil && !req.BillingAddress.IsZero() {
		billing = *req.BillingAddress
	}

	now := s.now()
	customer := models.Identity{UserID: userID, Role: models.RoleCustomer}
	order := &models.Order{
		OrderCode:       helpers.GenerateOrderCode(now),
		UserID:          userID,
		Status:          models.OrderStatusPending,
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  billing,
		Payment: models.PaymentInfo{
			Method: req.PaymentMethod,
			Status: models.PaymentStatusPending,
		},
		Summary: models.OrderSummary{
			ItemsTotal:     itemsTotal,
			ShippingCharge: shippingCharge,
			Tax:            tax,
			TotalAmount:    calc.CalculateGrandTotal(itemsTotal, shippingCharge, tax),
		},
		ShippingBreakdown: breakdown,
		StatusHistory: []models.OrderStatusHistory{{
			Status:    models.OrderStatusPending,
			Comment:   "Order placed",
			ActorID:   customer.UserID,
			ActorRole: customer.Role,
			CreatedAt: now,
		}},
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.orderRepo.Create(ctx, order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		for _, item := range order.Items {
			if err := s.productRepo.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				if errors.Is(err, repositories.ErrStockConflict) {
					return fmt.Errorf("%w: %s", ErrInsufficientStock, item.Name)
				}
				return fmt.Errorf("failed to reserve stock for %s: %w", item.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order placed",
		zap.String("order_code", order.OrderCode),
		zap.String("user_id", userID),
		zap.String("payment_method", string(order.Payment.Method)),
		zap.String("total", order.Summary.TotalAmount.StringFixed(2)))
	s.transitions.trail(ctx, order, "order.placed", "Order placed", customer, bson.M{
		"total":    order.Summary.TotalAmount.StringFixed(2),
		"shipping": order.Summary.ShippingCharge.StringFixed(2),
		"items":    len(order.Items),
	})

	result := &CheckoutResult{Order: order}

	if order.Payment.Method == models.PaymentMethodOnline {
		if s.gateway == nil {
			return result, fmt.Errorf("%w: no gateway configured", ErrPaymentUnavailable)
		}
		handle, err := s.gateway.CreateOrder(ctx, order)
		if err != nil {
			s.logger.Error("payment gateway order failed", zap.String("order_code", order.OrderCode), zap.Error(err))
			return result, err
		}
		order.Payment.GatewayOrderID = handle.GatewayOrderID
		order.Payment.RedirectURL = handle.RedirectURL
		if err := s.orderRepo.UpdatePayment(ctx, order.ID, order.Payment); err != nil {
			return result, fmt.Errorf("failed to store gateway order: %w", err)
		}
		result.Payment = handle
	} else {
		if err := s.cartRepo.Clear(ctx, userID); err != nil {
			s.logger.Warn("failed to clear cart after checkout", zap.String("user_id", userID), zap.Error(err))
		}
	}

	if s.notifier != nil {
		if err := s.notifier.OrderPlaced(ctx, order); err != nil {
			s.logger.Warn("order placed email failed", zap.String("order_code", order.OrderCode), zap.Error(err))
		}
	}

	return result, nil
}

// snapshotCart freezes the cart lines into order items at current prices.
func snapshotCart(cart []models.CartItem) ([]models.OrderItem, decimal.Decimal, error) {
	itemsTotal := decimal.Zero
	var items []models.OrderItem

	for _, line := range cart {
		if line.Quantity <= 0 {
			continue
		}
		product := line.Product
		if product == nil {
			return nil, decimal.Zero, fmt.Errorf("%w: invalid product", ErrValidation)
		}
		if !product.Purchasable() {
			return nil, decimal.Zero, fmt.Errorf("%w: %s is no longer available", ErrValidation, product.Name)
		}
		if product.Stock < line.Quantity {
			return nil, decimal.Zero, fmt.Errorf("%w: only %d of %s left", ErrInsufficientStock, product.Stock, product.Name)
		}

		item := models.OrderItem{
			ProductID:    product.ID,
			VendorID:     product.VendorID,
			Name:         product.Name,
			Sku:          product.Sku,
			Quantity:     line.Quantity,
			BasePrice:    product.BasePrice,
			ProfitMargin: product.ProfitMargin,
			Discount:     product.Discount,
			FinalPrice:   product.FinalPrice,
			Weight:       product.Weight,
		}
		items = append(items, item)
		itemsTotal = itemsTotal.Add(calc.LineTotal(item.FinalPrice, item.Quantity))
	}

	if len(items) == 0 {
		return nil, decimal.Zero, fmt.Errorf("%w: cart is empty", ErrValidation)
	}
	return items, itemsTotal, nil
}

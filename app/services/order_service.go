package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/bbmart/marketplace/app/models"
	"github.com/bbmart/marketplace/app/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type StatusUpdateRequest struct {
	Status  models.OrderStatus `json:"status" validate:"required"`
	Comment string             `json:"comment" validate:"max=500"`
}

type OrderPage struct {
	Orders  []models.Order `json:"orders"`
	Total   int64          `json:"total"`
	Page    int            `json:"page"`
	PerPage int            `json:"perPage"`
}

type OrderService struct {
	tx          repositories.Transactor
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	audit       repositories.AuditRepository
	shipments   *ShipmentService
	transitions *transitions
	logger      *zap.Logger
}

func NewOrderService(
	tx repositories.Transactor,
	orderRepo repositories.OrderRepository,
	productRepo repositories.ProductRepository,
	audit repositories.AuditRepository,
	shipments *ShipmentService,
	logger *zap.Logger,
) *OrderService {
	if audit == nil {
		audit = repositories.NoopAuditRepository{}
	}
	logger = logger.Named("orders")
	return &OrderService{
		tx:          tx,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		audit:       audit,
		shipments:   shipments,
		transitions: newTransitions(orderRepo, audit, logger),
		logger:      logger,
	}
}

func (s *OrderService) load(ctx context.Context, ref string) (*models.Order, error) {
	order, err := s.orderRepo.FindByRef(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, ref)
	}
	return order, nil
}

func (s *OrderService) ListForCustomer(ctx context.Context, actor models.Identity) ([]models.Order, error) {
	if actor.UserID == "" {
		return nil, ErrUnauthenticated
	}
	return s.orderRepo.FindByUserID(ctx, actor.UserID)
}

func (s *OrderService) GetForCustomer(ctx context.Context, actor models.Identity, ref string) (*models.Order, error) {
	if actor.UserID == "" {
		return nil, ErrUnauthenticated
	}
	order, err := s.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	if order.UserID != actor.UserID && !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: order belongs to another customer", ErrForbidden)
	}
	return order, nil
}

func (s *OrderService) ListForVendor(ctx context.Context, actor models.Identity) ([]models.Order, error) {
	if !actor.IsVendor() {
		return nil, fmt.Errorf("%w: vendor access only", ErrForbidden)
	}
	orders, err := s.orderRepo.FindByVendorID(ctx, actor.VendorID)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = orders[i].ItemsForVendor(actor.VendorID)
	}
	return orders, nil
}

func (s *OrderService) GetForVendor(ctx context.Context, actor models.Identity, ref string) (*models.Order, error) {
	return vendorOrder(ctx, s.orderRepo, actor, ref)
}

func (s *OrderService) ListAll(ctx context.Context, page, perPage int) (*OrderPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	orders, total, err := s.orderRepo.GetAllOrders(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, err
	}
	return &OrderPage{Orders: orders, Total: total, Page: page, PerPage: perPage}, nil
}

func (s *OrderService) AuditTrail(ctx context.Context, ref string) ([]*repositories.AuditEntry, error) {
	order, err := s.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	return s.audit.ListByOrder(ctx, order.ID, 200)
}

func (s *OrderService) authorize(actor models.Identity, order *models.Order, status models.OrderStatus) error {
	switch {
	case actor.UserID == "":
		return ErrUnauthenticated
	case actor.IsAdmin():
		return nil
	case actor.IsVendor():
		if !order.HasVendor(actor.VendorID) {
			return fmt.Errorf("%w: order has no items from this vendor", ErrForbidden)
		}
		return nil
	case order.UserID == actor.UserID:
		if status != models.OrderStatusCancelled {
			return fmt.Errorf("%w: customers can only cancel orders", ErrForbidden)
		}
		if order.Status != models.OrderStatusPending && order.Status != models.OrderStatusConfirmed {
			return fmt.Errorf("%w: order can no longer be cancelled", ErrValidation)
		}
		return nil
	}
	return fmt.Errorf("%w: order belongs to another customer", ErrForbidden)
}

// UpdateStatus sets any status in the enum. Cancelling restores stock once;
// a vendor's first confirmation also books that vendor's shipment.
func (s *OrderService) UpdateStatus(ctx context.Context, actor models.Identity, ref string, req StatusUpdateRequest) (*models.Order, error) {
	status := models.OrderStatus(strings.ToLower(strings.TrimSpace(string(req.Status))))
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, req.Status)
	}
	order, err := s.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(actor, order, status); err != nil {
		return nil, err
	}

	comment := strings.TrimSpace(req.Comment)
	if comment == "" {
		comment = fmt.Sprintf("Status set to %s by %s", status, actor.Role)
	}
	restock := status == models.OrderStatusCancelled && order.Status != models.OrderStatusCancelled
	previous := order.Status

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if restock {
			for _, item := range order.Items {
				if err := s.productRepo.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
					return fmt.Errorf("failed to restore stock for %s: %w", item.Name, err)
				}
			}
		}
		return s.transitions.record(ctx, order, status, comment, actor)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order status updated",
		zap.String("order_code", order.OrderCode),
		zap.String("from", string(previous)),
		zap.String("to", string(status)),
		zap.String("actor_role", string(actor.Role)))
	s.transitions.trail(ctx, order, "order.status", comment, actor, bson.M{
		"from":     string(previous),
		"restored": restock,
	})

	if status == models.OrderStatusConfirmed && actor.IsVendor() && order.ShipmentForVendor(actor.VendorID) == nil {
		s.autoShip(ctx, order, actor)
	}
	return order, nil
}

// autoShip never fails the status update; the vendor can retry manually.
func (s *OrderService) autoShip(ctx context.Context, order *models.Order, actor models.Identity) {
	if s.shipments == nil {
		return
	}
	shipment, err := s.shipments.create(ctx, order, actor)
	if err != nil {
		s.logger.Warn("automatic shipment creation failed",
			zap.String("order_code", order.OrderCode),
			zap.String("vendor_id", actor.VendorID),
			zap.Error(err))
		return
	}

	comment := fmt.Sprintf("Shipment %s created", shipment.ShipmentID)
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.transitions.record(ctx, order, models.OrderStatusProcessing, comment, actor)
	})
	if err != nil {
		s.logger.Warn("failed to advance order to processing",
			zap.String("order_code", order.OrderCode),
			zap.Error(err))
		return
	}
	s.transitions.trail(ctx, order, "order.status", comment, actor, bson.M{"from": string(models.OrderStatusConfirmed)})
}

func (s *OrderService) Cancel(ctx context.Context, actor models.Identity, ref string) (*models.Order, error) {
	return s.UpdateStatus(ctx, actor, ref, StatusUpdateRequest{
		Status:  models.OrderStatusCancelled,
		Comment: "Cancelled by customer",
	})
}

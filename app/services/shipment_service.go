package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bbmart/marketplace/app/models"
	"github.com/bbmart/marketplace/app/models/other"
	"github.com/bbmart/marketplace/app/repositories"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

const shipmentStatusAwbAssigned = "AWB_ASSIGNED"

type ShipmentTracking struct {
	VendorID    string                    `json:"vendorId"`
	AwbCode     string                    `json:"awbCode"`
	CourierName string                    `json:"courierName,omitempty"`
	Tracking    *other.ShiprocketTracking `json:"tracking"`
}

type CourierOptions struct {
	Couriers             []other.ShiprocketCourier `json:"couriers"`
	RecommendedCourierID *int64                    `json:"recommendedCourierId,omitempty"`
}

type ShipmentService struct {
	tx          repositories.Transactor
	orderRepo   repositories.OrderRepository
	vendorRepo  repositories.VendorRepository
	aggregator  ShippingAggregator
	transitions *transitions
	logger      *zap.Logger
	now         func() time.Time
}

func NewShipmentService(
	tx repositories.Transactor,
	orderRepo repositories.OrderRepository,
	vendorRepo repositories.VendorRepository,
	audit repositories.AuditRepository,
	aggregator ShippingAggregator,
	logger *zap.Logger,
) *ShipmentService {
	logger = logger.Named("shipment")
	return &ShipmentService{
		tx:          tx,
		orderRepo:   orderRepo,
		vendorRepo:  vendorRepo,
		aggregator:  aggregator,
		transitions: newTransitions(orderRepo, audit, logger),
		logger:      logger,
		now:         time.Now,
	}
}

// vendorOrder loads an order the calling vendor has items in.
func vendorOrder(ctx context.Context, repo repositories.OrderRepository, actor models.Identity, ref string) (*models.Order, error) {
	if actor.UserID == "" {
		return nil, ErrUnauthenticated
	}
	if !actor.IsVendor() {
		return nil, fmt.Errorf("%w: vendor access only", ErrForbidden)
	}
	order, err := repo.FindByRef(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, ref)
	}
	if !order.HasVendor(actor.VendorID) {
		return nil, fmt.Errorf("%w: order has no items from this vendor", ErrForbidden)
	}
	return order, nil
}

func (s *ShipmentService) CreateForVendor(ctx context.Context, actor models.Identity, ref string) (*models.VendorShipment, error) {
	order, err := vendorOrder(ctx, s.orderRepo, actor, ref)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, order, actor)
}

// create books a shipment for the vendor's share of order with the
// aggregator and records it on the order.
func (s *ShipmentService) create(ctx context.Context, order *models.Order, actor models.Identity) (*models.VendorShipment, error) {
	vendorID := actor.VendorID
	if order.Status != models.OrderStatusConfirmed && order.Status != models.OrderStatusProcessing {
		return nil, fmt.Errorf("%w: shipments can only be created for confirmed or processing orders", ErrValidation)
	}
	if order.ShipmentForVendor(vendorID) != nil {
		return nil, fmt.Errorf("%w: a shipment already exists for this vendor", ErrValidation)
	}

	vendor, err := s.vendorRepo.GetByID(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load vendor: %w", err)
	}
	if vendor == nil {
		return nil, fmt.Errorf("%w: vendor %s", ErrNotFound, vendorID)
	}
	if vendor.PickupLocation == "" {
		return nil, fmt.Errorf("%w: set a pickup address before creating shipments", ErrValidation)
	}

	payload := buildShipmentPayload(order, vendor, s.now())
	created, err := s.aggregator.CreateOrder(ctx, payload)
	if err != nil {
		s.logger.Error("shipment creation failed",
			zap.String("order_code", order.OrderCode),
			zap.String("vendor_id", vendorID),
			zap.Error(err))
		return nil, fmt.Errorf("%w: create shipment: %v", ErrUpstream, err)
	}

	shipment := &models.VendorShipment{
		OrderID:           order.ID,
		VendorID:          vendorID,
		ShipmentID:        created.ShipmentID.String(),
		ShiprocketOrderID: created.OrderID.String(),
		Status:            created.Status,
		PickupLocation:    vendor.PickupLocation,
	}
	first := len(order.VendorShipments) == 0

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.orderRepo.CreateShipment(ctx, shipment); err != nil {
			return fmt.Errorf("failed to store shipment: %w", err)
		}
		if first {
			delivery := models.DeliveryInfo{
				ShipmentID:        shipment.ShipmentID,
				ShiprocketOrderID: shipment.ShiprocketOrderID,
				Status:            shipment.Status,
			}
			if err := s.orderRepo.UpdateDelivery(ctx, order.ID, delivery); err != nil {
				return fmt.Errorf("failed to mirror delivery details: %w", err)
			}
			order.Delivery = delivery
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.VendorShipments = append(order.VendorShipments, *shipment)
	s.logger.Info("shipment created",
		zap.String("order_code", order.OrderCode),
		zap.String("vendor_id", vendorID),
		zap.String("shipment_id", shipment.ShipmentID))
	s.transitions.trail(ctx, order, "shipment.created", "", actor, bson.M{
		"vendor_id":   vendorID,
		"shipment_id": shipment.ShipmentID,
	})
	return shipment, nil
}

func splitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func buildShipmentPayload(order *models.Order, vendor *models.Vendor, now time.Time) other.ShiprocketCreateOrderRequest {
	bill := order.BillingAddress
	if bill.IsZero() {
		bill = order.ShippingAddress
	}
	ship := order.ShippingAddress
	firstName, lastName := splitName(bill.Name)

	req := other.ShiprocketCreateOrderRequest{
		OrderID:             fmt.Sprintf("%s-%s", order.OrderCode, shortID(vendor.ID)),
		OrderDate:           now.Format("2006-01-02 15:04"),
		PickupLocation:      vendor.PickupLocation,
		BillingCustomerName: firstName,
		BillingLastName:     lastName,
		BillingAddress:      bill.Address1,
		BillingAddress2:     bill.Address2,
		BillingCity:         bill.City,
		BillingPincode:      bill.Pincode,
		BillingState:        bill.State,
		BillingCountry:      countryOrDefault(bill.Country),
		BillingEmail:        bill.Email,
		BillingPhone:        bill.Phone,
		ShippingIsBilling:   ship == bill,
		PaymentMethod:       "Prepaid",
		Length:              10,
		Breadth:             10,
		Height:              10,
	}
	if !req.ShippingIsBilling {
		req.ShippingCustomerName = ship.Name
		req.ShippingAddress = ship.Address1
		req.ShippingAddress2 = ship.Address2
		req.ShippingCity = ship.City
		req.ShippingPincode = ship.Pincode
		req.ShippingState = ship.State
		req.ShippingCountry = countryOrDefault(ship.Country)
		req.ShippingEmail = ship.Email
		req.ShippingPhone = ship.Phone
	}
	if order.Payment.Method == models.PaymentMethodCOD {
		req.PaymentMethod = "COD"
	}

	subTotal := decimal.Zero
	weight := decimal.Zero
	for _, item := range order.ItemsForVendor(vendor.ID) {
		unitWeight := item.Weight
		if !unitWeight.IsPositive() {
			unitWeight = defaultUnitWeight
		}
		qty := decimal.NewFromInt(int64(item.Quantity))
		weight = weight.Add(unitWeight.Mul(qty))
		subTotal = subTotal.Add(item.LineTotal())

		price, _ := item.FinalPrice.Float64()
		req.OrderItems = append(req.OrderItems, other.ShiprocketOrderItem{
			Name:         item.Name,
			Sku:          skuOrID(item),
			Units:        item.Quantity,
			SellingPrice: price,
		})
	}
	if weight.LessThan(minShipmentWeight) {
		weight = minShipmentWeight
	}
	req.Weight, _ = weight.Round(3).Float64()
	req.SubTotal, _ = subTotal.Round(2).Float64()
	return req
}

func countryOrDefault(country string) string {
	if country == "" {
		return "India"
	}
	return country
}

func skuOrID(item models.OrderItem) string {
	if item.Sku != "" {
		return item.Sku
	}
	return item.ProductID
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// AssignAWB books the courier for the vendor's shipment. A shipment keeps the
// first waybill it receives.
func (s *ShipmentService) AssignAWB(ctx context.Context, actor models.Identity, ref string, courierID int64) (*models.VendorShipment, error) {
	if courierID <= 0 {
		return nil, fmt.Errorf("%w: courierId is required", ErrValidation)
	}
	order, err := vendorOrder(ctx, s.orderRepo, actor, ref)
	if err != nil {
		return nil, err
	}
	shipment := order.ShipmentForVendor(actor.VendorID)
	if shipment == nil {
		return nil, fmt.Errorf("%w: no shipment exists for this vendor", ErrNotFound)
	}
	if shipment.AwbCode != "" {
		return nil, fmt.Errorf("%w: an AWB is already assigned to this shipment", ErrValidation)
	}

	awb, err := s.aggregator.AssignAWB(ctx, shipment.ShipmentID, courierID)
	if err != nil {
		s.logger.Error("awb assignment failed",
			zap.String("order_code", order.OrderCode),
			zap.String("shipment_id", shipment.ShipmentID),
			zap.Error(err))
		return nil, fmt.Errorf("%w: assign awb: %v", ErrUpstream, err)
	}

	assignedAt := s.now()
	shipment.AwbCode = awb.AwbCode
	shipment.CourierName = awb.CourierName
	shipment.CourierID = courierID
	shipment.Status = shipmentStatusAwbAssigned
	shipment.AwbAssignedAt = &assignedAt

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.orderRepo.UpdateShipment(ctx, shipment); err != nil {
			return fmt.Errorf("failed to store awb: %w", err)
		}
		if order.Delivery.ShipmentID == shipment.ShipmentID {
			order.Delivery.AwbCode = shipment.AwbCode
			order.Delivery.CourierName = shipment.CourierName
			order.Delivery.Status = shipment.Status
			if err := s.orderRepo.UpdateDelivery(ctx, order.ID, order.Delivery); err != nil {
				return fmt.Errorf("failed to mirror delivery details: %w", err)
			}
		}
		return s.transitions.record(ctx, order, models.OrderStatusShipped, "Shipped via "+shipment.CourierName, actor)
	})
	if err != nil {
		return nil, err
	}

	s.transitions.trail(ctx, order, "shipment.awb_assigned", "Shipped via "+shipment.CourierName, actor, bson.M{
		"vendor_id": actor.VendorID,
		"awb_code":  shipment.AwbCode,
	})
	return shipment, nil
}

// Couriers lists the couriers able to carry the vendor's share of the order.
func (s *ShipmentService) Couriers(ctx context.Context, actor models.Identity, ref string) (*CourierOptions, error) {
	order, err := vendorOrder(ctx, s.orderRepo, actor, ref)
	if err != nil {
		return nil, err
	}
	vendor, err := s.vendorRepo.GetByID(ctx, actor.VendorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load vendor: %w", err)
	}
	if vendor == nil || !ValidPincode(vendor.PickupAddress.Pincode) {
		return nil, fmt.Errorf("%w: vendor has no pickup pincode", ErrValidation)
	}

	payload := buildShipmentPayload(order, vendor, s.now())
	cod := order.Payment.Method == models.PaymentMethodCOD
	query := other.ServiceabilityQuery{
		PickupPostcode:   vendor.PickupAddress.Pincode,
		DeliveryPostcode: order.ShippingAddress.Pincode,
		Weight:           payload.Weight,
		DeclaredValue:    payload.SubTotal,
		COD:              cod,
	}
	if shipment := order.ShipmentForVendor(actor.VendorID); shipment != nil {
		query.OrderID = shipment.ShiprocketOrderID
	}

	result, err := s.aggregator.Serviceability(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: courier serviceability: %v", ErrUpstream, err)
	}
	couriers := usableCouriers(result, cod)
	if couriers == nil {
		couriers = []other.ShiprocketCourier{}
	}
	return &CourierOptions{Couriers: couriers, RecommendedCourierID: result.RecommendedCourierID}, nil
}

func (s *ShipmentService) Document(ctx context.Context, actor models.Identity, ref string, kind DocumentKind) (*other.ShiprocketDocument, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: document type must be label, invoice or manifest", ErrValidation)
	}
	order, err := vendorOrder(ctx, s.orderRepo, actor, ref)
	if err != nil {
		return nil, err
	}
	shipment := order.ShipmentForVendor(actor.VendorID)
	if shipment == nil {
		return nil, fmt.Errorf("%w: no shipment exists for this vendor", ErrNotFound)
	}

	doc, err := s.aggregator.GenerateDocument(ctx, kind, shipment.ShipmentID, shipment.ShiprocketOrderID)
	if err != nil {
		return nil, fmt.Errorf("%w: generate %s: %v", ErrUpstream, kind, err)
	}
	return doc, nil
}

func (s *ShipmentService) TrackForVendor(ctx context.Context, actor models.Identity, ref string) (*ShipmentTracking, error) {
	order, err := vendorOrder(ctx, s.orderRepo, actor, ref)
	if err != nil {
		return nil, err
	}
	shipment := order.ShipmentForVendor(actor.VendorID)
	if shipment == nil || shipment.AwbCode == "" {
		return nil, fmt.Errorf("%w: shipment has no AWB yet", ErrNotFound)
	}
	return s.track(ctx, *shipment)
}

// TrackForCustomer returns tracking for every shipment of the caller's order
// that already has a waybill.
func (s *ShipmentService) TrackForCustomer(ctx context.Context, actor models.Identity, ref string) ([]ShipmentTracking, error) {
	if actor.UserID == "" {
		return nil, ErrUnauthenticated
	}
	order, err := s.orderRepo.FindByRef(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, ref)
	}
	if order.UserID != actor.UserID && !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: order belongs to another customer", ErrForbidden)
	}

	out := []ShipmentTracking{}
	for _, shipment := range order.VendorShipments {
		if shipment.AwbCode == "" {
			continue
		}
		tracking, err := s.track(ctx, shipment)
		if err != nil {
			return nil, err
		}
		out = append(out, *tracking)
	}
	return out, nil
}

func (s *ShipmentService) track(ctx context.Context, shipment models.VendorShipment) (*ShipmentTracking, error) {
	tracking, err := s.aggregator.Track(ctx, shipment.AwbCode)
	if err != nil {
		return nil, fmt.Errorf("%w: track %s: %v", ErrUpstream, shipment.AwbCode, err)
	}
	return &ShipmentTracking{
		VendorID:    shipment.VendorID,
		AwbCode:     shipment.AwbCode,
		CourierName: shipment.CourierName,
		Tracking:    tracking,
	}, nil
}

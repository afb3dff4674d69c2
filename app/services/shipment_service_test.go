package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bbmart/marketplace/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func confirmOrder(t *testing.T, f *fixture, order *models.Order) {
	t.Helper()
	_, err := f.orders.UpdateStatus(context.Background(), admin(), order.ID, StatusUpdateRequest{Status: models.OrderStatusConfirmed})
	require.NoError(t, err)
}

func TestShipmentService_CreateForVendor(t *testing.T) {
	f := newFixture()
	order := placeTwoVendorOrder(t, f)
	ctx := context.Background()

	_, err := f.shipment.CreateForVendor(ctx, vendorActor(vendorOneID), order.ID)
	assert.ErrorIs(t, err, ErrValidation, "pending orders cannot ship")

	confirmOrder(t, f, order)

	shipment, err := f.shipment.CreateForVendor(ctx, vendorActor(vendorOneID), order.ID)
	require.NoError(t, err)
	assert.Equal(t, "9001", shipment.ShipmentID)
	assert.Equal(t, "5001", shipment.ShiprocketOrderID)
	assert.Equal(t, "vendor-"+vendorOneID, shipment.PickupLocation)

	stored := f.store.order(order.ID)
	assert.Equal(t, models.OrderStatusConfirmed, stored.Status)
	assert.Equal(t, "9001", stored.Delivery.ShipmentID)

	require.Len(t, f.aggregator.createdOrders, 1)
	payload := f.aggregator.createdOrders[0]
	assert.Equal(t, order.OrderCode+"-"+vendorOneID, payload.OrderID)
	assert.Equal(t, "COD", payload.PaymentMethod)
	require.Len(t, payload.OrderItems, 1)
	assert.Equal(t, "SKU-p1", payload.OrderItems[0].Sku)
	assert.Equal(t, 2, payload.OrderItems[0].Units)
	assert.InDelta(t, 1.0, payload.Weight, 1e-9)
	assert.InDelta(t, 200.0, payload.SubTotal, 1e-9)
	assert.Equal(t, "Asha", payload.BillingCustomerName)
	assert.Equal(t, "Rao", payload.BillingLastName)
	assert.True(t, payload.ShippingIsBilling)

	_, err = f.shipment.CreateForVendor(ctx, vendorActor(vendorOneID), order.ID)
	assert.ErrorIs(t, err, ErrValidation, "second shipment for the same vendor")
	assert.Len(t, f.aggregator.createdOrders, 1)
}

func TestShipmentService_CreateRequiresPickupLocation(t *testing.T) {
	f := newFixture()
	order := placeTwoVendorOrder(t, f)
	confirmOrder(t, f, order)

	v := f.store.vendors[vendorTwoID]
	v.PickupLocation = ""
	f.store.vendors[vendorTwoID] = v

	_, err := f.shipment.CreateForVendor(context.Background(), vendorActor(vendorTwoID), order.ID)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, f.aggregator.createdOrders)
}

func TestShipmentService_CreateUpstreamFailure(t *testing.T) {
	f := newFixture()
	order := placeTwoVendorOrder(t, f)
	confirmOrder(t, f, order)
	f.aggregator.createErr = errors.New("boom")

	_, err := f.shipment.CreateForVendor(context.Background(), vendorActor(vendorOneID), order.ID)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Empty(t, f.store.order(order.ID).VendorShipments)
}

func TestShipmentService_AssignAWB(t *testing.T) {
	f := newFixture()
	order := placeTwoVendorOrder(t, f)
	ctx := context.Background()
	confirmOrder(t, f, order)

	_, err := f.shipment.AssignAWB(ctx, vendorActor(vendorOneID), order.ID, 0)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.shipment.AssignAWB(ctx, vendorActor(vendorOneID), order.ID, 1)
	assert.ErrorIs(t, err, ErrNotFound, "no shipment yet")

	_, err = f.shipment.CreateForVendor(ctx, vendorActor(vendorOneID), order.ID)
	require.NoError(t, err)

	shipment, err := f.shipment.AssignAWB(ctx, vendorActor(vendorOneID), order.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "AWB9001", shipment.AwbCode)
	assert.Equal(t, "AWB_ASSIGNED", shipment.Status)
	assert.NotNil(t, shipment.AwbAssignedAt)

	stored := f.store.order(order.ID)
	assert.Equal(t, models.OrderStatusShipped, stored.Status)
	assert.Equal(t, "AWB9001", stored.Delivery.AwbCode)
	assert.Equal(t, "Xpress", stored.Delivery.CourierName)
	assert.Equal(t, "Shipped via Xpress", stored.StatusHistory[len(stored.StatusHistory)-1].Comment)

	_, err = f.shipment.AssignAWB(ctx, vendorActor(vendorOneID), order.ID, 2)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, 1, f.aggregator.awbCalls)
}

func TestShipmentService_AssignAWBSecondVendorLeavesDeliveryMirror(t *testing.T) {
	f := newFixture()
	order := placeTwoVendorOrder(t, f)
	ctx := context.Background()
	confirmOrder(t, f, order)

	_, err := f.shipment.CreateForVendor(ctx, vendorActor(vendorOneID), order.ID)
	require.NoError(t, err)
	_, err = f.shipment.CreateForVendor(ctx, vendorActor(vendorTwoID), order.ID)
	require.NoError(t, err)

	_, err = f.shipment.AssignAWB(ctx, vendorActor(vendorTwoID), order.ID, 1)
	require.NoError(t, err)

	stored := f.store.order(order.ID)
	assert.Equal(t, "9001", stored.Delivery.ShipmentID)
	assert.Empty(t, stored.Delivery.AwbCode)
	assert.Equal(t, "AWB9002", stored.ShipmentForVendor(vendorTwoID).AwbCode)
}

func TestShipmentService_AssignAWBUpstreamFailure(t *testing.T) {
	f := newFixture()
	order := placeTwoVendorOrder(t, f)
	ctx := context.Background()
	confirmOrder(t, f, order)
	_, err := f.shipment.CreateForVendor(ctx, vendorActor(vendorOneID), order.ID)
	require.NoError(t, err)

	f.aggregator.awbErr = errors.New("courier not serviceable")
	_, err = f.shipment.AssignAWB(ctx, vendorActor(vendorOneID), order.ID, 1)
	assert.ErrorIs(t, err, ErrUpstream)

	stored := f.store.order(order.ID)
	assert.Equal(t, models.OrderStatusConfirmed, stored.Status)
	assert.Empty(t, stored.ShipmentForVendor(vendorOneID).AwbCode)
}

func TestShipmentService_DocumentsAndTracking(t *testing.T) {
	f := newFixture()
	order := placeTwoVendorOrder(t, f)
	ctx := context.Background()
	confirmOrder(t, f, order)

	_, err := f.shipment.Document(ctx, vendorActor(vendorOneID), order.ID, DocumentKind("receipt"))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.shipment.Document(ctx, vendorActor(vendorOneID), order.ID, DocumentLabel)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.shipment.CreateForVendor(ctx, vendorActor(vendorOneID), order.ID)
	require.NoError(t, err)

	doc, err := f.shipment.Document(ctx, vendorActor(vendorOneID), order.ID, DocumentLabel)
	require.NoError(t, err)
	assert.Equal(t, "https://docs.example/label/9001", doc.URL)

	_, err = f.shipment.TrackForVendor(ctx, vendorActor(vendorOneID), order.ID)
	assert.ErrorIs(t, err, ErrNotFound, "no awb yet")

	tracks, err := f.shipment.TrackForCustomer(ctx, customer(), order.ID)
	require.NoError(t, err)
	assert.Empty(t, tracks)

	_, err = f.shipment.AssignAWB(ctx, vendorActor(vendorOneID), order.ID, 1)
	require.NoError(t, err)

	tracking, err := f.shipment.TrackForVendor(ctx, vendorActor(vendorOneID), order.ID)
	require.NoError(t, err)
	assert.Equal(t, "AWB9001", tracking.AwbCode)
	assert.Equal(t, "IN TRANSIT", tracking.Tracking.CurrentStatus)

	tracks, err = f.shipment.TrackForCustomer(ctx, customer(), order.OrderCode)
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, vendorOneID, tracks[0].VendorID)

	_, err = f.shipment.TrackForCustomer(ctx, models.Identity{UserID: "other", Role: models.RoleCustomer}, order.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	f.aggregator.trackErr = errors.New("tracking down")
	_, err = f.shipment.TrackForVendor(ctx, vendorActor(vendorOneID), order.ID)
	assert.ErrorIs(t, err, ErrUpstream)

	f.aggregator.docErr = errors.New("no manifest")
	_, err = f.shipment.Document(ctx, vendorActor(vendorOneID), order.ID, DocumentManifest)
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestShipmentService_Couriers(t *testing.T) {
	f := newFixture()
	order := placeTwoVendorOrder(t, f)

	opts, err := f.shipment.Couriers(context.Background(), vendorActor(vendorOneID), order.ID)
	require.NoError(t, err)
	assert.Len(t, opts.Couriers, 2, "blocked courier is hidden")

	last := f.aggregator.quotes[len(f.aggregator.quotes)-1]
	assert.Equal(t, "411001", last.PickupPostcode)
	assert.Equal(t, "560001", last.DeliveryPostcode)
	assert.True(t, last.COD)
}

func TestBuildShipmentPayload(t *testing.T) {
	vendor := &models.Vendor{ID: "0123456789abcdef", PickupLocation: "vendor-01234567"}
	billing := shippingAddress()
	billing.Name = "Ravi"
	order := &models.Order{
		OrderCode:       "BB-2025-000001",
		ShippingAddress: shippingAddress(),
		BillingAddress:  billing,
		Payment:         models.PaymentInfo{Method: models.PaymentMethodOnline},
		Items: []models.OrderItem{
			{ProductID: "p1", VendorID: vendor.ID, Name: "Tea", Quantity: 1, FinalPrice: dec("0.5"), Weight: dec("0.01")},
			{ProductID: "p2", VendorID: "other", Name: "Cup", Quantity: 3, FinalPrice: dec("10")},
		},
	}

	req := buildShipmentPayload(order, vendor, time.Date(2025, 3, 4, 5, 6, 0, 0, time.UTC))
	assert.Equal(t, "BB-2025-000001-01234567", req.OrderID)
	assert.Equal(t, "2025-03-04 05:06", req.OrderDate)
	assert.Equal(t, "Prepaid", req.PaymentMethod)
	assert.False(t, req.ShippingIsBilling)
	assert.Equal(t, "Asha Rao", req.ShippingCustomerName)
	assert.Equal(t, "Ravi", req.BillingCustomerName)
	assert.Empty(t, req.BillingLastName)
	require.Len(t, req.OrderItems, 1)
	assert.Equal(t, "p1", req.OrderItems[0].Sku)
	assert.InDelta(t, 0.1, req.Weight, 1e-9)
	assert.InDelta(t, 0.5, req.SubTotal, 1e-9)
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bbmart/marketplace/app/models"
	"github.com/bbmart/marketplace/app/models/other"
	"github.com/bbmart/marketplace/app/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// memStore backs every repository interface in tests. The transactor restores
// a snapshot when the transaction function fails.
type memStore struct {
	mu       sync.Mutex
	products map[string]models.Product
	vendors  map[string]models.Vendor
	cart     []models.CartItem
	orders   map[string]models.Order
	audit    []repositories.AuditEntry

	stockConflict map[string]bool
	failSave      error
}

func newMemStore() *memStore {
	return &memStore{
		products:      map[string]models.Product{},
		vendors:       map[string]models.Vendor{},
		orders:        map[string]models.Order{},
		stockConflict: map[string]bool{},
	}
}

func cloneOrder(o models.Order) models.Order {
	o.Items = append([]models.OrderItem(nil), o.Items...)
	o.StatusHistory = append([]models.OrderStatusHistory(nil), o.StatusHistory...)
	o.VendorShipments = append([]models.VendorShipment(nil), o.VendorShipments...)
	o.ShippingBreakdown = append([]models.VendorShippingQuote(nil), o.ShippingBreakdown...)
	return o
}

type memSnapshot struct {
	products map[string]models.Product
	vendors  map[string]models.Vendor
	cart     []models.CartItem
	orders   map[string]models.Order
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := memSnapshot{
		products: map[string]models.Product{},
		vendors:  map[string]models.Vendor{},
		cart:     append([]models.CartItem(nil), s.cart...),
		orders:   map[string]models.Order{},
	}
	for k, v := range s.products {
		snap.products[k] = v
	}
	for k, v := range s.vendors {
		snap.vendors[k] = v
	}
	for k, v := range s.orders {
		snap.orders[k] = cloneOrder(v)
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = snap.products
	s.vendors = snap.vendors
	s.cart = snap.cart
	s.orders = snap.orders
}

func (s *memStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := s.snapshot()
	if err := fn(ctx); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *memStore) product(id string) models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id]
}

func (s *memStore) order(ref string) models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.ID == ref || o.OrderCode == ref {
			return cloneOrder(o)
		}
	}
	return models.Order{}
}

func (s *memStore) orderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

func (s *memStore) cartQuantity(userID, productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.cart {
		if item.UserID == userID && item.ProductID == productID {
			return item.Quantity
		}
	}
	return 0
}

func (s *memStore) cartLines(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, item := range s.cart {
		if item.UserID == userID {
			n++
		}
	}
	return n
}

// products

type memProducts struct{ s *memStore }

func (r memProducts) GetByID(_ context.Context, id string) (*models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r memProducts) GetBySlug(_ context.Context, slug string) (*models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.Slug == slug {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (r memProducts) GetByIDs(_ context.Context, ids []string) ([]models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Product
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r memProducts) GetPublishedPaginated(_ context.Context, limit, offset int) ([]models.Product, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Product
	for _, p := range r.s.products {
		if p.Purchasable() {
			out = append(out, p)
		}
	}
	total := int64(len(out))
	if offset >= len(out) {
		return []models.Product{}, total, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], total, nil
}

func (r memProducts) GetByVendor(_ context.Context, vendorID string) ([]models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Product
	for _, p := range r.s.products {
		if p.VendorID == vendorID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r memProducts) Create(_ context.Context, p *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if _, ok := r.s.products[p.ID]; ok {
		return fmt.Errorf("duplicate product %s", p.ID)
	}
	p.RecomputeFinalPrice()
	r.s.products[p.ID] = *p
	return nil
}

func (r memProducts) Save(_ context.Context, p *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failSave != nil {
		return r.s.failSave
	}
	p.RecomputeFinalPrice()
	r.s.products[p.ID] = *p
	return nil
}

func (r memProducts) DecrementStock(_ context.Context, id string, qty int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok || p.Stock < qty || r.s.stockConflict[id] {
		return repositories.ErrStockConflict
	}
	p.Stock -= qty
	r.s.products[id] = p
	return nil
}

func (r memProducts) IncrementStock(_ context.Context, id string, qty int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil
	}
	p.Stock += qty
	r.s.products[id] = p
	return nil
}

func (r memProducts) CountByVendor(_ context.Context, vendorID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, p := range r.s.products {
		if vendorID == "" || p.VendorID == vendorID {
			n++
		}
	}
	return n, nil
}

// vendors

type memVendors struct{ s *memStore }

func (r memVendors) GetByID(_ context.Context, id string) (*models.Vendor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.vendors[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (r memVendors) GetByUserID(_ context.Context, userID string) (*models.Vendor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, v := range r.s.vendors {
		if v.UserID == userID {
			v := v
			return &v, nil
		}
	}
	return nil, nil
}

func (r memVendors) GetByIDs(_ context.Context, ids []string) ([]models.Vendor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Vendor
	for _, id := range ids {
		if v, ok := r.s.vendors[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r memVendors) Save(_ context.Context, v *models.Vendor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	r.s.vendors[v.ID] = *v
	return nil
}

func (r memVendors) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.vendors)), nil
}

// cart

type memCart struct{ s *memStore }

func (r memCart) GetByUser(_ context.Context, userID string) ([]models.CartItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.CartItem
	for _, item := range r.s.cart {
		if item.UserID != userID {
			continue
		}
		if p, ok := r.s.products[item.ProductID]; ok {
			p := p
			item.Product = &p
		}
		out = append(out, item)
	}
	return out, nil
}

func (r memCart) Get(_ context.Context, userID, productID string) (*models.CartItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, item := range r.s.cart {
		if item.UserID == userID && item.ProductID == productID {
			item := item
			return &item, nil
		}
	}
	return nil, nil
}

func (r memCart) Save(_ context.Context, item *models.CartItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	stored := *item
	stored.Product = nil
	for i := range r.s.cart {
		if r.s.cart[i].UserID == item.UserID && r.s.cart[i].ProductID == item.ProductID {
			r.s.cart[i] = stored
			return nil
		}
	}
	r.s.cart = append(r.s.cart, stored)
	return nil
}

func (r memCart) Delete(_ context.Context, userID, productID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.cart[:0:0]
	for _, item := range r.s.cart {
		if item.UserID == userID && item.ProductID == productID {
			continue
		}
		kept = append(kept, item)
	}
	r.s.cart = kept
	return nil
}

func (r memCart) Clear(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.cart[:0:0]
	for _, item := range r.s.cart {
		if item.UserID != userID {
			kept = append(kept, item)
		}
	}
	r.s.cart = kept
	return nil
}

// orders

type memOrders struct{ s *memStore }

func (r memOrders) Create(_ context.Context, o *models.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
		if o.Items[i].ID == "" {
			o.Items[i].ID = uuid.New().String()
		}
	}
	for i := range o.StatusHistory {
		o.StatusHistory[i].OrderID = o.ID
	}
	r.s.orders[o.ID] = cloneOrder(*o)
	return nil
}

func (r memOrders) FindByRef(_ context.Context, ref string) (*models.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.orders {
		if o.ID == ref || o.OrderCode == ref {
			c := cloneOrder(o)
			return &c, nil
		}
	}
	return nil, nil
}

func (r memOrders) FindByUserID(_ context.Context, userID string) ([]models.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Order
	for _, o := range r.s.orders {
		if o.UserID == userID {
			out = append(out, cloneOrder(o))
		}
	}
	return out, nil
}

func (r memOrders) FindByVendorID(_ context.Context, vendorID string) ([]models.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Order
	for _, o := range r.s.orders {
		if o.HasVendor(vendorID) {
			out = append(out, cloneOrder(o))
		}
	}
	return out, nil
}

func (r memOrders) GetAllOrders(_ context.Context, limit, offset int) ([]models.Order, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Order
	for _, o := range r.s.orders {
		out = append(out, cloneOrder(o))
	}
	total := int64(len(out))
	if offset >= len(out) {
		return []models.Order{}, total, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], total, nil
}

func (r memOrders) mutate(orderID string, fn func(o *models.Order) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[orderID]
	if !ok {
		return fmt.Errorf("order %s not stored", orderID)
	}
	o = cloneOrder(o)
	if err := fn(&o); err != nil {
		return err
	}
	r.s.orders[orderID] = o
	return nil
}

func (r memOrders) UpdateStatus(_ context.Context, orderID string, status models.OrderStatus) error {
	return r.mutate(orderID, func(o *models.Order) error {
		o.Status = status
		return nil
	})
}

func (r memOrders) AppendHistory(_ context.Context, entry *models.OrderStatusHistory) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	return r.mutate(entry.OrderID, func(o *models.Order) error {
		o.StatusHistory = append(o.StatusHistory, *entry)
		return nil
	})
}

func (r memOrders) UpdatePayment(_ context.Context, orderID string, payment models.PaymentInfo) error {
	return r.mutate(orderID, func(o *models.Order) error {
		o.Payment = payment
		return nil
	})
}

func (r memOrders) UpdateDelivery(_ context.Context, orderID string, delivery models.DeliveryInfo) error {
	return r.mutate(orderID, func(o *models.Order) error {
		o.Delivery = delivery
		return nil
	})
}

func (r memOrders) CreateShipment(_ context.Context, shipment *models.VendorShipment) error {
	if shipment.ID == "" {
		shipment.ID = uuid.New().String()
	}
	return r.mutate(shipment.OrderID, func(o *models.Order) error {
		if o.ShipmentForVendor(shipment.VendorID) != nil {
			return errors.New("duplicate shipment for vendor")
		}
		o.VendorShipments = append(o.VendorShipments, *shipment)
		return nil
	})
}

func (r memOrders) UpdateShipment(_ context.Context, shipment *models.VendorShipment) error {
	return r.mutate(shipment.OrderID, func(o *models.Order) error {
		for i := range o.VendorShipments {
			if o.VendorShipments[i].ID == shipment.ID {
				o.VendorShipments[i] = *shipment
				return nil
			}
		}
		return errors.New("shipment not found")
	})
}

func (r memOrders) Stats(_ context.Context, vendorID string) (*repositories.OrderStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stats := &repositories.OrderStats{ByStatus: map[models.OrderStatus]int64{}, Revenue: decimal.Zero}
	for _, o := range r.s.orders {
		if vendorID != "" && !o.HasVendor(vendorID) {
			continue
		}
		stats.TotalOrders++
		stats.ByStatus[o.Status]++
		if o.Status == models.OrderStatusCancelled {
			continue
		}
		if vendorID == "" {
			stats.Revenue = stats.Revenue.Add(o.Summary.TotalAmount)
			continue
		}
		for _, item := range o.ItemsForVendor(vendorID) {
			stats.Revenue = stats.Revenue.Add(item.LineTotal())
		}
	}
	return stats, nil
}

// audit

type memAudit struct{ s *memStore }

func (r memAudit) Record(_ context.Context, entry *repositories.AuditEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.audit = append(r.s.audit, *entry)
	return nil
}

func (r memAudit) ListByOrder(_ context.Context, orderID string, limit int64) ([]*repositories.AuditEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*repositories.AuditEntry
	for i := len(r.s.audit) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		if r.s.audit[i].OrderID == orderID {
			e := r.s.audit[i]
			out = append(out, &e)
		}
	}
	return out, nil
}

func (r memAudit) Close(context.Context) error { return nil }

// quote cache

type memQuoteCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (c *memQuoteCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memQuoteCache) Set(_ context.Context, key string, value interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if c.data == nil {
		c.data = map[string][]byte{}
	}
	c.data[key] = raw
	return nil
}

// aggregator

type fakeAggregator struct {
	mu sync.Mutex

	quote           func(q other.ServiceabilityQuery) (*other.ShiprocketServiceability, error)
	quotes          []other.ServiceabilityQuery
	createErr       error
	createdOrders   []other.ShiprocketCreateOrderRequest
	awbErr          error
	awbCalls        int
	trackErr        error
	docErr          error
	pickupErr       error
	pickupRequests  []other.ShiprocketPickupRequest
	nextShipmentSeq int
}

func intPtr(v int64) *int64 { return &v }

func defaultServiceability() *other.ShiprocketServiceability {
	return &other.ShiprocketServiceability{
		AvailableCourierCompanies: []other.ShiprocketCourier{
			{CourierCompanyID: 1, CourierName: "Xpress", Rate: 60, Etd: "3 days", COD: 1},
			{CourierCompanyID: 2, CourierName: "Budget", Rate: 45.5, Etd: "5 days", COD: 1},
			{CourierCompanyID: 3, CourierName: "Blocked", Rate: 10, COD: 1, Blocked: 1},
		},
	}
}

func (f *fakeAggregator) Serviceability(_ context.Context, q other.ServiceabilityQuery) (*other.ShiprocketServiceability, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quotes = append(f.quotes, q)
	if f.quote != nil {
		return f.quote(q)
	}
	return defaultServiceability(), nil
}

func (f *fakeAggregator) CreateOrder(_ context.Context, req other.ShiprocketCreateOrderRequest) (*other.ShiprocketCreateOrderResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.createdOrders = append(f.createdOrders, req)
	f.nextShipmentSeq++
	return &other.ShiprocketCreateOrderResponse{
		OrderID:    json.Number(fmt.Sprintf("%d", 5000+f.nextShipmentSeq)),
		ShipmentID: json.Number(fmt.Sprintf("%d", 9000+f.nextShipmentSeq)),
		Status:     "NEW",
	}, nil
}

func (f *fakeAggregator) AssignAWB(_ context.Context, shipmentID string, courierID int64) (*other.ShiprocketAWBData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.awbCalls++
	if f.awbErr != nil {
		return nil, f.awbErr
	}
	return &other.ShiprocketAWBData{
		AwbCode:     "AWB" + shipmentID,
		CourierName: "Xpress",
		ShipmentID:  json.Number(shipmentID),
	}, nil
}

func (f *fakeAggregator) Track(_ context.Context, awbCode string) (*other.ShiprocketTracking, error) {
	if f.trackErr != nil {
		return nil, f.trackErr
	}
	return &other.ShiprocketTracking{TrackStatus: 1, CurrentStatus: "IN TRANSIT"}, nil
}

func (f *fakeAggregator) GenerateDocument(_ context.Context, kind DocumentKind, shipmentID, aggregatorOrderID string) (*other.ShiprocketDocument, error) {
	if f.docErr != nil {
		return nil, f.docErr
	}
	return &other.ShiprocketDocument{Kind: string(kind), URL: "https://docs.example/" + string(kind) + "/" + shipmentID}, nil
}

func (f *fakeAggregator) AddPickup(_ context.Context, req other.ShiprocketPickupRequest) (*other.ShiprocketPickupResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pickupErr != nil {
		return nil, f.pickupErr
	}
	f.pickupRequests = append(f.pickupRequests, req)
	resp := &other.ShiprocketPickupResponse{Success: true}
	resp.Address.ID = 77
	resp.Address.PickupLocation = req.PickupLocation
	return resp, nil
}

func (f *fakeAggregator) createdCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.createdOrders)
}

// payment gateway

type fakeGateway struct {
	createErr error
	status    *GatewayStatus
	statusErr error
	created   []string
}

func (g *fakeGateway) CreateOrder(_ context.Context, order *models.Order) (*GatewayOrder, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.created = append(g.created, order.OrderCode)
	return &GatewayOrder{
		GatewayOrderID: "snap-" + order.OrderCode,
		RedirectURL:    "https://pay.example/" + order.OrderCode,
		Amount:         order.Summary.TotalAmount.Shift(2).IntPart(),
		Currency:       "IDR",
		Receipt:        order.OrderCode,
	}, nil
}

func (g *fakeGateway) TransactionStatus(_ context.Context, orderCode string) (*GatewayStatus, error) {
	if g.statusErr != nil {
		return nil, g.statusErr
	}
	if g.status == nil {
		return &GatewayStatus{OrderID: orderCode, TransactionStatus: "pending"}, nil
	}
	return g.status, nil
}

type fakeNotifier struct {
	sent []string
	err  error
}

func (n *fakeNotifier) OrderPlaced(_ context.Context, order *models.Order) error {
	n.sent = append(n.sent, order.OrderCode)
	return n.err
}

// fixture wires every service against one memStore.
type fixture struct {
	store      *memStore
	aggregator *fakeAggregator
	gateway    *fakeGateway
	notifier   *fakeNotifier
	cache      *memQuoteCache

	cart     *CartService
	delivery *DeliveryService
	checkout *CheckoutService
	payment  *PaymentService
	orders   *OrderService
	shipment *ShipmentService
	vendors  *VendorService
	catalog  *CatalogService
	reports  *ReportService
}

const (
	testSecret   = "test-signing-secret"
	customerID   = "user-1"
	vendorOneID  = "vendor-1"
	vendorTwoID  = "vendor-2"
	vendorUserID = "vendor-user-1"
)

func newFixture() *fixture {
	store := newMemStore()
	f := &fixture{
		store:      store,
		aggregator: &fakeAggregator{},
		gateway:    &fakeGateway{},
		notifier:   &fakeNotifier{},
		cache:      &memQuoteCache{},
	}

	logger := zap.NewNop()
	products := memProducts{store}
	vendors := memVendors{store}
	cart := memCart{store}
	orders := memOrders{store}
	audit := memAudit{store}

	f.cart = NewCartService(cart, products)
	f.delivery = NewDeliveryService(f.aggregator, vendors, cart, f.cache, logger)
	f.checkout = NewCheckoutService(store, cart, products, orders, audit, f.delivery, f.gateway, f.notifier, logger)
	f.payment = NewPaymentService(store, orders, cart, audit, f.gateway, testSecret, logger)
	f.shipment = NewShipmentService(store, orders, vendors, audit, f.aggregator, logger)
	f.orders = NewOrderService(store, orders, products, audit, f.shipment, logger)
	f.vendors = NewVendorService(vendors, f.aggregator, logger)
	f.catalog = NewCatalogService(products, logger)
	f.reports = NewReportService(orders, products, vendors, "INR")

	fixed := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	f.checkout.now = func() time.Time { return fixed }
	return f
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func (f *fixture) addVendor(id string, pickupPincode string) models.Vendor {
	v := models.Vendor{
		ID:           id,
		UserID:       "user-of-" + id,
		BusinessName: "Shop " + id,
		Email:        id + "@shops.example",
		IsApproved:   true,
	}
	if pickupPincode != "" {
		setAt := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
		v.PickupAddress = models.Address{Name: "Warehouse", Phone: "9876543210", Address1: "1 Dock Rd", City: "Pune", State: "MH", Pincode: pickupPincode}
		v.PickupSetAt = &setAt
		v.PickupLocation = "vendor-" + id
	}
	f.store.vendors[id] = v
	return v
}

func (f *fixture) addProduct(id, vendorID, price string, stock int, weight string) models.Product {
	p := models.Product{
		ID:          id,
		VendorID:    vendorID,
		Name:        "Product " + id,
		Slug:        "product-" + id,
		Sku:         "SKU-" + id,
		BasePrice:   dec(price),
		Stock:       stock,
		IsPublished: true,
		Weight:      dec(weight),
	}
	p.RecomputeFinalPrice()
	f.store.products[id] = p
	return p
}

func (f *fixture) putInCart(userID, productID string, qty int) {
	f.store.cart = append(f.store.cart, models.CartItem{
		ID:        uuid.New().String(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  qty,
	})
}

func shippingAddress() models.Address {
	return models.Address{
		Name:     "Asha Rao",
		Phone:    "9123456780",
		Email:    "asha@example.com",
		Address1: "12 Lake View",
		City:     "Bengaluru",
		State:    "KA",
		Country:  "India",
		Pincode:  "560001",
	}
}

func customer() models.Identity {
	return models.Identity{UserID: customerID, Role: models.RoleCustomer}
}

func vendorActor(vendorID string) models.Identity {
	return models.Identity{UserID: "user-of-" + vendorID, Role: models.RoleVendor, VendorID: vendorID}
}

func admin() models.Identity {
	return models.Identity{UserID: "admin-1", Role: models.RoleAdmin}
}

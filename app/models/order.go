package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusReturned   OrderStatus = "returned"
)

var orderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
	OrderStatusReturned,
}

func (s OrderStatus) Valid() bool {
	for _, known := range orderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func OrderStatuses() []OrderStatus {
	out := make([]OrderStatus, len(orderStatuses))
	copy(out, orderStatuses)
	return out
}

type PaymentMethod string

const (
	PaymentMethodCOD    PaymentMethod = "cod"
	PaymentMethodOnline PaymentMethod = "online"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodCOD || m == PaymentMethodOnline
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
	RoleAdmin    Role = "admin"
	RoleSystem   Role = "system"
)

type PaymentInfo struct {
	Method           PaymentMethod  `gorm:"size:20;not null" json:"method"`
	Status           PaymentStatus  `gorm:"size:20;not null;default:pending" json:"status"`
	GatewayOrderID   string         `gorm:"size:255;index" json:"gatewayOrderId,omitempty"`
	GatewayPaymentID string         `gorm:"size:255" json:"gatewayPaymentId,omitempty"`
	Signature        string         `gorm:"size:255" json:"-"`
	RedirectURL      string         `gorm:"type:text" json:"redirectUrl,omitempty"`
	PaidAt           *time.Time     `json:"paidAt,omitempty"`
	RawPayload       map[string]any `gorm:"type:json;serializer:json" json:"-"`
}

type OrderSummary struct {
	ItemsTotal     decimal.Decimal `gorm:"type:decimal(16,2)" json:"itemsTotal"`
	ShippingCharge decimal.Decimal `gorm:"type:decimal(16,2)" json:"shippingCharge"`
	Tax            decimal.Decimal `gorm:"type:decimal(16,2)" json:"tax"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(16,2)" json:"totalAmount"`
}

// DeliveryInfo mirrors the first vendor shipment for single-shipment clients.
type DeliveryInfo struct {
	ShipmentID        string `gorm:"size:100" json:"shipmentId,omitempty"`
	ShiprocketOrderID string `gorm:"size:100" json:"shiprocketOrderId,omitempty"`
	AwbCode           string `gorm:"size:100" json:"awbCode,omitempty"`
	CourierName       string `gorm:"size:255" json:"courierName,omitempty"`
	Status            string `gorm:"size:50" json:"status,omitempty"`
}

// VendorShippingQuote is one vendor's entry in the checkout shipping breakdown.
type VendorShippingQuote struct {
	VendorID      string          `json:"vendorId"`
	VendorName    string          `json:"vendorName,omitempty"`
	CourierID     int64           `json:"courierId,omitempty"`
	CourierName   string          `json:"courierName,omitempty"`
	Charge        decimal.Decimal `json:"charge"`
	Etd           string          `json:"etd,omitempty"`
	EstimatedDays int             `json:"estimatedDays,omitempty"`
	CODAvailable  bool            `json:"codAvailable"`
	Rating        float64         `json:"rating,omitempty"`
	Weight        decimal.Decimal `json:"weight"`
	VendorTotal   decimal.Decimal `json:"vendorTotal"`
	IsFallback    bool            `json:"isFallback"`
	Reason        string          `json:"reason,omitempty"`
}

type Order struct {
	ID        string      `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	OrderCode string      `gorm:"type:varchar(64);uniqueIndex;not null" json:"orderId"`
	UserID    string      `gorm:"size:36;index;not null" json:"userId"`
	Status    OrderStatus `gorm:"size:20;index;not null;default:pending" json:"status"`

	Items           []OrderItem          `gorm:"foreignKey:OrderID" json:"items"`
	StatusHistory   []OrderStatusHistory `gorm:"foreignKey:OrderID" json:"statusHistory"`
	VendorShipments []VendorShipment     `gorm:"foreignKey:OrderID" json:"vendorShipments"`

	ShippingAddress   Address               `gorm:"embedded;embeddedPrefix:shipping_" json:"shippingAddress"`
	BillingAddress    Address               `gorm:"embedded;embeddedPrefix:billing_" json:"billingAddress"`
	Payment           PaymentInfo           `gorm:"embedded;embeddedPrefix:payment_" json:"payment"`
	Summary           OrderSummary          `gorm:"embedded" json:"orderSummary"`
	Delivery          DeliveryInfo          `gorm:"embedded;embeddedPrefix:delivery_" json:"delivery"`
	ShippingBreakdown []VendorShippingQuote `gorm:"type:json;serializer:json" json:"shippingBreakdown"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return
}

// HasVendor reports whether any line item belongs to vendorID.
func (o *Order) HasVendor(vendorID string) bool {
	for _, item := range o.Items {
		if item.VendorID == vendorID {
			return true
		}
	}
	return false
}

func (o *Order) ItemsForVendor(vendorID string) []OrderItem {
	var out []OrderItem
	for _, item := range o.Items {
		if item.VendorID == vendorID {
			out = append(out, item)
		}
	}
	return out
}

func (o *Order) ShipmentForVendor(vendorID string) *VendorShipment {
	for i := range o.VendorShipments {
		if o.VendorShipments[i].VendorID == vendorID {
			return &o.VendorShipments[i]
		}
	}
	return nil
}

type OrderItem struct {
	ID           string          `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	OrderID      string          `gorm:"size:36;index;not null" json:"orderId"`
	ProductID    string          `gorm:"size:36;index;not null" json:"productId"`
	VendorID     string          `gorm:"size:36;index;not null" json:"vendorId"`
	Name         string          `gorm:"size:255;not null" json:"name"`
	Sku          string          `gorm:"size:100" json:"sku"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	BasePrice    decimal.Decimal `gorm:"type:decimal(16,2)" json:"basePrice"`
	ProfitMargin decimal.Decimal `gorm:"type:decimal(10,2)" json:"profitMargin"`
	Discount     decimal.Decimal `gorm:"type:decimal(10,2)" json:"discount"`
	FinalPrice   decimal.Decimal `gorm:"type:decimal(16,2)" json:"finalPrice"`
	Weight       decimal.Decimal `gorm:"type:decimal(10,3)" json:"weight"`
	CreatedAt    time.Time       `json:"-"`
}

func (oi *OrderItem) BeforeCreate(tx *gorm.DB) (err error) {
	if oi.ID == "" {
		oi.ID = uuid.New().String()
	}
	return
}

func (oi OrderItem) LineTotal() decimal.Decimal {
	return oi.FinalPrice.Mul(decimal.NewFromInt(int64(oi.Quantity)))
}

type OrderStatusHistory struct {
	ID        string      `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	OrderID   string      `gorm:"size:36;index;not null" json:"orderId"`
	Status    OrderStatus `gorm:"size:20;not null" json:"status"`
	Comment   string      `gorm:"type:text" json:"comment"`
	ActorID   string      `gorm:"size:36" json:"actorId,omitempty"`
	ActorRole Role        `gorm:"size:20" json:"actorRole,omitempty"`
	CreatedAt time.Time   `json:"timestamp"`
}

func (h *OrderStatusHistory) BeforeCreate(tx *gorm.DB) (err error) {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	return
}

type VendorShipment struct {
	ID                string     `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	OrderID           string     `gorm:"size:36;not null;uniqueIndex:idx_shipment_order_vendor" json:"orderId"`
	VendorID          string     `gorm:"size:36;not null;uniqueIndex:idx_shipment_order_vendor" json:"vendorId"`
	ShipmentID        string     `gorm:"size:100" json:"shipmentId"`
	ShiprocketOrderID string     `gorm:"size:100" json:"shiprocketOrderId"`
	Status            string     `gorm:"size:50" json:"status"`
	AwbCode           string     `gorm:"size:100" json:"awbCode,omitempty"`
	CourierID         int64      `json:"courierId,omitempty"`
	CourierName       string     `gorm:"size:255" json:"courierName,omitempty"`
	PickupLocation    string     `gorm:"size:100" json:"pickupLocation"`
	AwbAssignedAt     *time.Time `json:"awbAssignedAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

func (vs *VendorShipment) BeforeCreate(tx *gorm.DB) (err error) {
	if vs.ID == "" {
		vs.ID = uuid.New().String()
	}
	return
}

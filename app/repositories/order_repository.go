package repositories

import (
	"context"
	"errors"

	"github.com/bbmart/marketplace/app/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStats struct {
	TotalOrders int64                        `json:"totalOrders"`
	Revenue     decimal.Decimal              `json:"revenue"`
	ByStatus    map[models.OrderStatus]int64 `json:"byStatus"`
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByRef(ctx context.Context, ref string) (*models.Order, error)
	FindByUserID(ctx context.Context, userID string) ([]models.Order, error)
	FindByVendorID(ctx context.Context, vendorID string) ([]models.Order, error)
	GetAllOrders(ctx context.Context, limit, offset int) ([]models.Order, int64, error)
	UpdateStatus(ctx context.Context, orderID string, status models.OrderStatus) error
	AppendHistory(ctx context.Context, entry *models.OrderStatusHistory) error
	UpdatePayment(ctx context.Context, orderID string, payment models.PaymentInfo) error
	UpdateDelivery(ctx context.Context, orderID string, delivery models.DeliveryInfo) error
	CreateShipment(ctx context.Context, shipment *models.VendorShipment) error
	UpdateShipment(ctx context.Context, shipment *models.VendorShipment) error
	Stats(ctx context.Context, vendorID string) (*OrderStats, error)
}

type gormOrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &gormOrderRepository{db: db}
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("VendorShipments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		})
}

func (r *gormOrderRepository) Create(ctx context.Context, order *models.Order) error {
	return conn(ctx, r.db).Create(order).Error
}

// FindByRef accepts either the internal id or the public order code.
func (r *gormOrderRepository) FindByRef(ctx context.Context, ref string) (*models.Order, error) {
	var order models.Order

	err := withDetails(conn(ctx, r.db)).
		Where("id = ? OR order_code = ?", ref, ref).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *gormOrderRepository) FindByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order

	err := withDetails(conn(ctx, r.db)).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *gormOrderRepository) FindByVendorID(ctx context.Context, vendorID string) ([]models.Order, error) {
	var orders []models.Order

	db := conn(ctx, r.db)
	vendorOrders := db.Session(&gorm.Session{NewDB: true}).
		Model(&models.OrderItem{}).
		Select("order_id").
		Where("vendor_id = ?", vendorID)

	err := withDetails(db).
		Where("id IN (?)", vendorOrders).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *gormOrderRepository) GetAllOrders(ctx context.Context, limit, offset int) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	if err := conn(ctx, r.db).Model(&models.Order{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := withDetails(conn(ctx, r.db)).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *gormOrderRepository) UpdateStatus(ctx context.Context, orderID string, status models.OrderStatus) error {
	return conn(ctx, r.db).Model(&models.Order{}).Where("id = ?", orderID).Update("status", status).Error
}

func (r *gormOrderRepository) AppendHistory(ctx context.Context, entry *models.OrderStatusHistory) error {
	return conn(ctx, r.db).Create(entry).Error
}

func (r *gormOrderRepository) UpdatePayment(ctx context.Context, orderID string, payment models.PaymentInfo) error {
	return conn(ctx, r.db).Model(&models.Order{}).
		Where("id = ?", orderID).
		Select(
			"payment_method",
			"payment_status",
			"payment_gateway_order_id",
			"payment_gateway_payment_id",
			"payment_signature",
			"payment_redirect_url",
			"payment_paid_at",
			"payment_raw_payload",
		).
		Updates(&models.Order{Payment: payment}).Error
}

func (r *gormOrderRepository) UpdateDelivery(ctx context.Context, orderID string, delivery models.DeliveryInfo) error {
	return conn(ctx, r.db).Model(&models.Order{}).
		Where("id = ?", orderID).
		Select(
			"delivery_shipment_id",
			"delivery_shiprocket_order_id",
			"delivery_awb_code",
			"delivery_courier_name",
			"delivery_status",
		).
		Updates(&models.Order{Delivery: delivery}).Error
}

func (r *gormOrderRepository) CreateShipment(ctx context.Context, shipment *models.VendorShipment) error {
	return conn(ctx, r.db).Create(shipment).Error
}

func (r *gormOrderRepository) UpdateShipment(ctx context.Context, shipment *models.VendorShipment) error {
	return conn(ctx, r.db).Save(shipment).Error
}

type statusCount struct {
	Status models.OrderStatus
	Total  int64
}

// Stats aggregates every order when vendorID is empty, otherwise only the
// orders and line items that belong to that vendor.
func (r *gormOrderRepository) Stats(ctx context.Context, vendorID string) (*OrderStats, error) {
	stats := &OrderStats{ByStatus: map[models.OrderStatus]int64{}}
	db := conn(ctx, r.db)

	var counts []statusCount
	countQuery := db.Model(&models.Order{})
	if vendorID != "" {
		countQuery = countQuery.
			Joins("JOIN order_items oi ON oi.order_id = orders.id").
			Where("oi.vendor_id = ?", vendorID).
			Select("orders.status AS status, COUNT(DISTINCT orders.id) AS total")
	} else {
		countQuery = countQuery.Select("status, COUNT(*) AS total")
	}
	if err := countQuery.Group("status").Scan(&counts).Error; err != nil {
		return nil, err
	}
	for _, c := range counts {
		stats.ByStatus[c.Status] = c.Total
		stats.TotalOrders += c.Total
	}

	var revenueQuery *gorm.DB
	if vendorID != "" {
		revenueQuery = db.Table("order_items").
			Joins("JOIN orders ON orders.id = order_items.order_id").
			Where("order_items.vendor_id = ? AND orders.status <> ?", vendorID, models.OrderStatusCancelled).
			Select("COALESCE(SUM(order_items.final_price * order_items.quantity), 0)")
	} else {
		revenueQuery = db.Model(&models.Order{}).
			Where("status <> ?", models.OrderStatusCancelled).
			Select("COALESCE(SUM(total_amount), 0)")
	}
	if err := revenueQuery.Row().Scan(&stats.Revenue); err != nil {
		return nil, err
	}

	return stats, nil
}

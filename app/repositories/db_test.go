package repositories

import (
	"path/filepath"
	"testing"

	"github.com/bbmart/marketplace/app/models"
	"github.com/bbmart/marketplace/app/models/migrations"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a migrated SQLite database private to the test. One
// connection keeps transactions and plain queries from racing for the file lock.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "marketplace.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migrations.AutoMigrate(db))
	return db
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedProduct(t *testing.T, db *gorm.DB, vendorID, slug string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		VendorID:    vendorID,
		Name:        slug,
		Slug:        slug,
		Sku:         "SKU-" + slug,
		BasePrice:   dec("100"),
		Stock:       stock,
		IsPublished: true,
		Weight:      dec("0.5"),
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func newOrder(code, userID string, status models.OrderStatus, items ...models.OrderItem) *models.Order {
	return &models.Order{
		OrderCode: code,
		UserID:    userID,
		Status:    status,
		Items:     items,
		ShippingAddress: models.Address{
			Name:     "Asha Rao",
			Phone:    "9876543210",
			Address1: "12 MG Road",
			City:     "Bengaluru",
			State:    "Karnataka",
			Pincode:  "560001",
		},
		Payment: models.PaymentInfo{
			Method: models.PaymentMethodOnline,
			Status: models.PaymentStatusPending,
		},
		Summary: models.OrderSummary{
			ItemsTotal:     dec("200"),
			ShippingCharge: dec("55"),
			Tax:            dec("36"),
			TotalAmount:    dec("291"),
		},
	}
}

func orderItem(productID, vendorID string, qty int, price string) models.OrderItem {
	return models.OrderItem{
		ProductID:  productID,
		VendorID:   vendorID,
		Name:       "item " + productID,
		Quantity:   qty,
		BasePrice:  dec(price),
		FinalPrice: dec(price),
		Weight:     dec("0.5"),
	}
}

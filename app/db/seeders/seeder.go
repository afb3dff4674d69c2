package seeders

import (
	"fmt"

	"github.com/bbmart/marketplace/app/db/fakers"
	"github.com/bbmart/marketplace/app/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBSeed fills an empty development database with approved vendors and
// published products.
func DBSeed(db *gorm.DB, vendors, productsPerVendor int, logger *zap.Logger) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for i := 0; i < vendors; i++ {
			vendor := fakers.VendorFaker()
			if err := tx.Create(vendor).Error; err != nil {
				return fmt.Errorf("failed to seed vendor: %w", err)
			}

			products := make([]*models.Product, 0, productsPerVendor)
			for j := 0; j < productsPerVendor; j++ {
				products = append(products, fakers.ProductFaker(vendor))
			}
			if len(products) > 0 {
				if err := tx.Create(&products).Error; err != nil {
					return fmt.Errorf("failed to seed products for vendor %s: %w", vendor.ID, err)
				}
			}

			logger.Info("seeded vendor",
				zap.String("vendor_id", vendor.ID),
				zap.String("business_name", vendor.BusinessName),
				zap.Int("products", len(products)))
		}
		return nil
	})
}

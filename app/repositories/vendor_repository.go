package repositories

import (
	"context"
	"errors"

	"github.com/bbmart/marketplace/app/models"
	"gorm.io/gorm"
)

type VendorRepository interface {
	GetByID(ctx context.Context, id string) (*models.Vendor, error)
	GetByUserID(ctx context.Context, userID string) (*models.Vendor, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Vendor, error)
	Save(ctx context.Context, vendor *models.Vendor) error
	Count(ctx context.Context) (int64, error)
}

type gormVendorRepository struct {
	db *gorm.DB
}

func NewVendorRepository(db *gorm.DB) VendorRepository {
	return &gormVendorRepository{db: db}
}

func (r *gormVendorRepository) GetByID(ctx context.Context, id string) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := conn(ctx, r.db).First(&vendor, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vendor, nil
}

func (r *gormVendorRepository) GetByUserID(ctx context.Context, userID string) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := conn(ctx, r.db).First(&vendor, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vendor, nil
}

func (r *gormVendorRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Vendor, error) {
	var vendors []models.Vendor
	if len(ids) == 0 {
		return vendors, nil
	}
	err := conn(ctx, r.db).Where("id IN ?", ids).Find(&vendors).Error
	return vendors, err
}

func (r *gormVendorRepository) Save(ctx context.Context, vendor *models.Vendor) error {
	return conn(ctx, r.db).Save(vendor).Error
}

func (r *gormVendorRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := conn(ctx, r.db).Model(&models.Vendor{}).Count(&total).Error
	return total, err
}

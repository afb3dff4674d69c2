package repositories

import (
	"context"
	"errors"

	"github.com/bbmart/marketplace/app/models"
	"gorm.io/gorm"
)

// ErrStockConflict is returned when a conditional stock decrement matches no row.
var ErrStockConflict = errors.New("insufficient stock")

type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Product, error)
	GetPublishedPaginated(ctx context.Context, limit, offset int) ([]models.Product, int64, error)
	GetByVendor(ctx context.Context, vendorID string) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Save(ctx context.Context, product *models.Product) error
	DecrementStock(ctx context.Context, productID string, quantity int) error
	IncrementStock(ctx context.Context, productID string, quantity int) error
	CountByVendor(ctx context.Context, vendorID string) (int64, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db}
}

func (p *productRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := conn(ctx, p.db).Where("id = ?", id).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (p *productRepository) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	if err := conn(ctx, p.db).Where("slug = ?", slug).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (p *productRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	var products []models.Product
	if len(ids) == 0 {
		return products, nil
	}
	err := conn(ctx, p.db).Where("id IN ?", ids).Find(&products).Error
	return products, err
}

func (p *productRepository) GetPublishedPaginated(ctx context.Context, limit, offset int) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	published := func() *gorm.DB {
		return conn(ctx, p.db).Model(&models.Product{}).
			Where("is_published = ? AND is_suspended = ?", true, false)
	}

	if err := published().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := published().Order("created_at DESC").Limit(limit).Offset(offset).Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (p *productRepository) GetByVendor(ctx context.Context, vendorID string) ([]models.Product, error) {
	var products []models.Product
	err := conn(ctx, p.db).Where("vendor_id = ?", vendorID).Order("created_at DESC").Find(&products).Error
	return products, err
}

func (p *productRepository) Create(ctx context.Context, product *models.Product) error {
	return conn(ctx, p.db).Create(product).Error
}

func (p *productRepository) Save(ctx context.Context, product *models.Product) error {
	return conn(ctx, p.db).Save(product).Error
}

// DecrementStock only succeeds while the row still holds at least quantity units.
func (p *productRepository) DecrementStock(ctx context.Context, productID string, quantity int) error {
	result := conn(ctx, p.db).Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStockConflict
	}
	return nil
}

func (p *productRepository) IncrementStock(ctx context.Context, productID string, quantity int) error {
	return conn(ctx, p.db).Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock + ?", quantity)).Error
}

func (p *productRepository) CountByVendor(ctx context.Context, vendorID string) (int64, error) {
	var total int64
	query := conn(ctx, p.db).Model(&models.Product{})
	if vendorID != "" {
		query = query.Where("vendor_id = ?", vendorID)
	}
	err := query.Count(&total).Error
	return total, err
}

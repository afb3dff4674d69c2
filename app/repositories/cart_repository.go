package repositories

import (
	"context"
	"errors"

	"github.com/bbmart/marketplace/app/models"
	"gorm.io/gorm"
)

type CartRepository interface {
	GetByUser(ctx context.Context, userID string) ([]models.CartItem, error)
	Get(ctx context.Context, userID, productID string) (*models.CartItem, error)
	Save(ctx context.Context, item *models.CartItem) error
	Delete(ctx context.Context, userID, productID string) error
	Clear(ctx context.Context, userID string) error
}

type gormCartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &gormCartRepository{db: db}
}

func (r *gormCartRepository) GetByUser(ctx context.Context, userID string) ([]models.CartItem, error) {
	var items []models.CartItem
	err := conn(ctx, r.db).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *gormCartRepository) Get(ctx context.Context, userID, productID string) (*models.CartItem, error) {
	var item models.CartItem
	err := conn(ctx, r.db).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *gormCartRepository) Save(ctx context.Context, item *models.CartItem) error {
	return conn(ctx, r.db).Omit("Product").Save(item).Error
}

func (r *gormCartRepository) Delete(ctx context.Context, userID, productID string) error {
	return conn(ctx, r.db).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartItem{}).Error
}

func (r *gormCartRepository) Clear(ctx context.Context, userID string) error {
	return conn(ctx, r.db).Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}

package models

import (
	"time"

	"github.com/bbmart/marketplace/app/utils/calc"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID           string          `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	VendorID     string          `gorm:"size:36;index;not null" json:"vendorId"`
	Name         string          `gorm:"size:255;not null" json:"name"`
	Slug         string          `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Description  string          `gorm:"type:text" json:"description"`
	Sku          string          `gorm:"size:100;index" json:"sku"`
	BasePrice    decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"basePrice"`
	ProfitMargin decimal.Decimal `gorm:"type:decimal(10,2);default:0.00" json:"profitMargin"`
	Discount     decimal.Decimal `gorm:"type:decimal(10,2);default:0.00" json:"discount"`
	FinalPrice   decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"finalPrice"`
	Stock        int             `gorm:"not null;default:0" json:"stock"`
	IsPublished  bool            `gorm:"default:false;index" json:"isPublished"`
	IsSuspended  bool            `gorm:"default:false;index" json:"isSuspended"`
	Weight       decimal.Decimal `gorm:"type:decimal(10,3);default:0.000" json:"weight"`
	Length       decimal.Decimal `gorm:"type:decimal(10,2);default:0.00" json:"length"`
	Breadth      decimal.Decimal `gorm:"type:decimal(10,2);default:0.00" json:"breadth"`
	Height       decimal.Decimal `gorm:"type:decimal(10,2);default:0.00" json:"height"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}

// BeforeSave keeps FinalPrice derived from the three price components.
func (p *Product) BeforeSave(tx *gorm.DB) (err error) {
	p.RecomputeFinalPrice()
	return
}

func (p *Product) RecomputeFinalPrice() {
	p.FinalPrice = calc.FinalPrice(p.BasePrice, p.ProfitMargin, p.Discount)
}

// Purchasable reports whether the product can be shown in the storefront.
func (p *Product) Purchasable() bool {
	return p.IsPublished && !p.IsSuspended
}

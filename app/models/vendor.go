package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Vendor struct {
	ID           string `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	UserID       string `gorm:"size:36;not null;uniqueIndex" json:"userId"`
	BusinessName string `gorm:"size:255;not null" json:"businessName"`
	Email        string `gorm:"size:100" json:"email"`
	Phone        string `gorm:"size:20" json:"phone"`
	IsApproved   bool   `gorm:"default:false" json:"isApproved"`
	IsSuspended  bool   `gorm:"default:false" json:"isSuspended"`

	PickupAddress    Address    `gorm:"embedded;embeddedPrefix:pickup_" json:"pickupAddress"`
	PickupSetAt      *time.Time `json:"pickupSetAt,omitempty"`
	PickupLocation   string     `gorm:"size:100" json:"pickupLocation"`
	PickupLocationID int64      `json:"pickupLocationId"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (v *Vendor) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return
}

func (v *Vendor) HasPickupAddress() bool {
	return v.PickupSetAt != nil
}

func (v *Vendor) Active() bool {
	return v.IsApproved && !v.IsSuspended
}

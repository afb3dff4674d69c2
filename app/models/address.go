package models

// Address is stored inline on orders and vendors.
type Address struct {
	Name     string `gorm:"size:255" json:"name" validate:"required,max=255"`
	Phone    string `gorm:"size:20" json:"phone" validate:"required,numeric,min=10,max=15"`
	Email    string `gorm:"size:100" json:"email" validate:"omitempty,email"`
	Address1 string `gorm:"type:text" json:"address1" validate:"required"`
	Address2 string `gorm:"type:text" json:"address2"`
	City     string `gorm:"size:100" json:"city" validate:"required"`
	State    string `gorm:"size:100" json:"state" validate:"required"`
	Country  string `gorm:"size:100" json:"country"`
	Pincode  string `gorm:"size:10" json:"pincode" validate:"required,numeric,len=6"`
}

func (a Address) IsZero() bool {
	return a.Address1 == "" && a.Pincode == ""
}

package models

// Identity is the caller as asserted by a signed token or session.
type Identity struct {
	UserID   string `json:"uid"`
	Role     Role   `json:"role"`
	VendorID string `json:"vid,omitempty"`
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

func (i Identity) IsVendor() bool { return i.Role == RoleVendor && i.VendorID != "" }

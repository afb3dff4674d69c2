package services

import (
	"context"
	"fmt"
	"time"

	"github.com/bbmart/marketplace/app/models"
	"github.com/bbmart/marketplace/app/models/other"
	"github.com/bbmart/marketplace/app/repositories"
	"go.uber.org/zap"
)

type VendorStatusRequest struct {
	Approved  *bool `json:"approved"`
	Suspended *bool `json:"suspended"`
}

type VendorService struct {
	vendorRepo repositories.VendorRepository
	aggregator ShippingAggregator
	logger     *zap.Logger
	now        func() time.Time
}

func NewVendorService(vendorRepo repositories.VendorRepository, aggregator ShippingAggregator, logger *zap.Logger) *VendorService {
	return &VendorService{
		vendorRepo: vendorRepo,
		aggregator: aggregator,
		logger:     logger.Named("vendor"),
		now:        time.Now,
	}
}

func (s *VendorService) Profile(ctx context.Context, actor models.Identity) (*models.Vendor, error) {
	if !actor.IsVendor() {
		return nil, fmt.Errorf("%w: vendor access only", ErrForbidden)
	}
	vendor, err := s.vendorRepo.GetByID(ctx, actor.VendorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load vendor: %w", err)
	}
	if vendor == nil {
		return nil, fmt.Errorf("%w: vendor %s", ErrNotFound, actor.VendorID)
	}
	return vendor, nil
}

// SetPickupAddress registers the vendor's only pickup point with the
// aggregator. Once set it cannot be modified.
func (s *VendorService) SetPickupAddress(ctx context.Context, actor models.Identity, addr models.Address) (*models.Vendor, error) {
	vendor, err := s.Profile(ctx, actor)
	if err != nil {
		return nil, err
	}
	if vendor.HasPickupAddress() {
		return nil, fmt.Errorf("%w: pickup address cannot be modified once set", ErrValidation)
	}
	if addr.Name == "" || addr.Phone == "" || addr.Address1 == "" || addr.City == "" || addr.State == "" {
		return nil, fmt.Errorf("%w: pickup address is incomplete", ErrValidation)
	}
	if !ValidPincode(addr.Pincode) {
		return nil, fmt.Errorf("%w: pickup pincode must be 6 digits", ErrValidation)
	}

	email := addr.Email
	if email == "" {
		email = vendor.Email
	}
	nickname := "vendor-" + shortID(vendor.ID)
	resp, err := s.aggregator.AddPickup(ctx, other.ShiprocketPickupRequest{
		PickupLocation: nickname,
		Name:           addr.Name,
		Email:          email,
		Phone:          addr.Phone,
		Address:        addr.Address1,
		Address2:       addr.Address2,
		City:           addr.City,
		State:          addr.State,
		Country:        countryOrDefault(addr.Country),
		PinCode:        addr.Pincode,
	})
	if err != nil {
		s.logger.Error("pickup registration failed", zap.String("vendor_id", vendor.ID), zap.Error(err))
		return nil, fmt.Errorf("%w: register pickup address: %v", ErrUpstream, err)
	}

	setAt := s.now()
	vendor.PickupAddress = addr
	vendor.PickupSetAt = &setAt
	vendor.PickupLocation = nickname
	if resp.Address.PickupLocation != "" {
		vendor.PickupLocation = resp.Address.PickupLocation
	}
	vendor.PickupLocationID = resp.Address.ID
	if vendor.PickupLocationID == 0 {
		vendor.PickupLocationID = resp.PickupID
	}

	if err := s.vendorRepo.Save(ctx, vendor); err != nil {
		return nil, fmt.Errorf("failed to save pickup address: %w", err)
	}
	s.logger.Info("pickup address registered",
		zap.String("vendor_id", vendor.ID),
		zap.String("pickup_location", vendor.PickupLocation))
	return vendor, nil
}

func (s *VendorService) SetStatus(ctx context.Context, vendorID string, req VendorStatusRequest) (*models.Vendor, error) {
	if req.Approved == nil && req.Suspended == nil {
		return nil, fmt.Errorf("%w: approved or suspended is required", ErrValidation)
	}
	vendor, err := s.vendorRepo.GetByID(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load vendor: %w", err)
	}
	if vendor == nil {
		return nil, fmt.Errorf("%w: vendor %s", ErrNotFound, vendorID)
	}
	if req.Approved != nil {
		vendor.IsApproved = *req.Approved
	}
	if req.Suspended != nil {
		vendor.IsSuspended = *req.Suspended
	}
	if err := s.vendorRepo.Save(ctx, vendor); err != nil {
		return nil, fmt.Errorf("failed to update vendor: %w", err)
	}
	return vendor, nil
}

// ActiveVendor reports whether the vendor may use the vendor dashboard.
func (s *VendorService) ActiveVendor(ctx context.Context, vendorID string) (bool, error) {
	vendor, err := s.vendorRepo.GetByID(ctx, vendorID)
	if err != nil {
		return false, err
	}
	return vendor != nil && vendor.Active(), nil
}

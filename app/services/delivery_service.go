package services

import (
	"context"
	"fmt"
	"regexp"

	"github.com/bbmart/marketplace/app/models"
	"github.com/bbmart/marketplace/app/models/other"
	"github.com/bbmart/marketplace/app/repositories"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	FallbackShippingCharge = decimal.NewFromInt(100)

	defaultUnitWeight = decimal.RequireFromString("0.5")
	minShipmentWeight = decimal.RequireFromString("0.1")

	pincodePattern = regexp.MustCompile(`^\d{6}$`)
)

func ValidPincode(pincode string) bool {
	return pincodePattern.MatchString(pincode)
}

// DeliveryItem is the estimator's view of one cart line.
type DeliveryItem struct {
	ProductID string
	VendorID  string
	Weight    decimal.Decimal
	UnitPrice decimal.Decimal
	Quantity  int
}

type DeliveryEstimate struct {
	TotalShippingCost decimal.Decimal              `json:"totalShippingCost"`
	Breakdown         []models.VendorShippingQuote `json:"breakdown"`
}

type DeliveryService struct {
	aggregator ShippingAggregator
	vendorRepo repositories.VendorRepository
	cartRepo   repositories.CartRepository
	cache      repositories.QuoteCache
	logger     *zap.Logger
}

func NewDeliveryService(
	aggregator ShippingAggregator,
	vendorRepo repositories.VendorRepository,
	cartRepo repositories.CartRepository,
	cache repositories.QuoteCache,
	logger *zap.Logger,
) *DeliveryService {
	if cache == nil {
		cache = repositories.NoopQuoteCache{}
	}
	return &DeliveryService{
		aggregator: aggregator,
		vendorRepo: vendorRepo,
		cartRepo:   cartRepo,
		cache:      cache,
		logger:     logger.Named("delivery"),
	}
}

func cartDeliveryItems(items []models.CartItem) []DeliveryItem {
	out := make([]DeliveryItem, 0, len(items))
	for _, item := range items {
		if item.Product == nil || item.Quantity <= 0 {
			continue
		}
		out = append(out, DeliveryItem{
			ProductID: item.ProductID,
			VendorID:  item.Product.VendorID,
			Weight:    item.Product.Weight,
			UnitPrice: item.Product.FinalPrice,
			Quantity:  item.Quantity,
		})
	}
	return out
}

func (s *DeliveryService) EstimateForCart(ctx context.Context, userID, pincode string, method models.PaymentMethod) (*DeliveryEstimate, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	items, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return s.Estimate(ctx, cartDeliveryItems(items), pincode, method)
}

type vendorGroup struct {
	vendorID string
	total    decimal.Decimal
	weight   decimal.Decimal
}

func groupByVendor(items []DeliveryItem) []*vendorGroup {
	var groups []*vendorGroup
	index := map[string]*vendorGroup{}

	for _, item := range items {
		g, ok := index[item.VendorID]
		if !ok {
			g = &vendorGroup{vendorID: item.VendorID, total: decimal.Zero, weight: decimal.Zero}
			index[item.VendorID] = g
			groups = append(groups, g)
		}
		qty := decimal.NewFromInt(int64(item.Quantity))
		unitWeight := item.Weight
		if !unitWeight.IsPositive() {
			unitWeight = defaultUnitWeight
		}
		g.total = g.total.Add(item.UnitPrice.Mul(qty))
		g.weight = g.weight.Add(unitWeight.Mul(qty))
	}

	for _, g := range groups {
		if g.weight.LessThan(minShipmentWeight) {
			g.weight = minShipmentWeight
		}
	}
	return groups
}

// Estimate quotes shipping per vendor. A vendor whose quote cannot be obtained
// is charged FallbackShippingCharge instead of failing the estimate.
func (s *DeliveryService) Estimate(ctx context.Context, items []DeliveryItem, pincode string, method models.PaymentMethod) (*DeliveryEstimate, error) {
	if !ValidPincode(pincode) {
		return nil, fmt.Errorf("%w: delivery pincode must be 6 digits", ErrValidation)
	}
	if !method.Valid() {
		return nil, fmt.Errorf("%w: payment method must be cod or online", ErrValidation)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no items to ship", ErrValidation)
	}

	groups := groupByVendor(items)
	ids := make([]string, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.vendorID)
	}
	vendors, err := s.vendorRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load vendors: %w", err)
	}
	vendorByID := make(map[string]models.Vendor, len(vendors))
	for _, v := range vendors {
		vendorByID[v.ID] = v
	}

	estimate := &DeliveryEstimate{TotalShippingCost: decimal.Zero}
	for _, g := range groups {
		quote := s.quoteVendor(ctx, g, vendorByID, pincode, method)
		estimate.TotalShippingCost = estimate.TotalShippingCost.Add(quote.Charge)
		estimate.Breakdown = append(estimate.Breakdown, quote)
	}
	return estimate, nil
}

func (s *DeliveryService) quoteVendor(ctx context.Context, g *vendorGroup, vendors map[string]models.Vendor, pincode string, method models.PaymentMethod) models.VendorShippingQuote {
	quote := models.VendorShippingQuote{
		VendorID:    g.vendorID,
		Weight:      g.weight.Round(3),
		VendorTotal: g.total.Round(2),
	}
	fallback := func(reason string) models.VendorShippingQuote {
		quote.Charge = FallbackShippingCharge
		quote.IsFallback = true
		quote.Reason = reason
		return quote
	}

	vendor, ok := vendors[g.vendorID]
	if !ok {
		return fallback("vendor not found")
	}
	quote.VendorName = vendor.BusinessName
	if !ValidPincode(vendor.PickupAddress.Pincode) {
		return fallback("vendor has no pickup pincode")
	}

	cod := method == models.PaymentMethodCOD
	weight, _ := quote.Weight.Float64()
	value, _ := quote.VendorTotal.Float64()
	query := other.ServiceabilityQuery{
		PickupPostcode:   vendor.PickupAddress.Pincode,
		DeliveryPostcode: pincode,
		Weight:           weight,
		DeclaredValue:    value,
		COD:              cod,
	}

	options, err := s.serviceability(ctx, query)
	if err != nil {
		s.logger.Warn("rate query failed, using fallback",
			zap.String("vendor_id", g.vendorID),
			zap.String("pickup", query.PickupPostcode),
			zap.String("delivery", pincode),
			zap.Error(err))
		return fallback("rate service unavailable")
	}

	courier, ok := selectCourier(options, cod)
	if !ok {
		return fallback("no courier serves this route")
	}

	quote.CourierID = courier.CourierCompanyID
	quote.CourierName = courier.CourierName
	quote.Charge = decimal.NewFromFloat(courier.Rate).Round(2)
	quote.Etd = courier.Etd
	quote.CODAvailable = courier.SupportsCOD()
	if courier.EstimatedDays != nil {
		quote.EstimatedDays = *courier.EstimatedDays
	}
	if courier.Rating != nil {
		quote.Rating = *courier.Rating
	}
	return quote
}

func quoteCacheKey(q other.ServiceabilityQuery) string {
	return fmt.Sprintf("quote:%s:%s:%.3f:%.2f:%t", q.PickupPostcode, q.DeliveryPostcode, q.Weight, q.DeclaredValue, q.COD)
}

func (s *DeliveryService) serviceability(ctx context.Context, query other.ServiceabilityQuery) (*other.ShiprocketServiceability, error) {
	key := quoteCacheKey(query)

	var cached other.ShiprocketServiceability
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.logger.Debug("quote cache read failed", zap.String("key", key), zap.Error(err))
	}
	if hit {
		return &cached, nil
	}

	options, err := s.aggregator.Serviceability(ctx, query)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, options); err != nil {
		s.logger.Debug("quote cache write failed", zap.String("key", key), zap.Error(err))
	}
	return options, nil
}

// usableCouriers drops blocked couriers and, for cash on delivery, couriers
// that cannot collect.
func usableCouriers(options *other.ShiprocketServiceability, cod bool) []other.ShiprocketCourier {
	if options == nil {
		return nil
	}
	var out []other.ShiprocketCourier
	for _, c := range options.AvailableCourierCompanies {
		if c.IsBlocked() {
			continue
		}
		if cod && !c.SupportsCOD() {
			continue
		}
		out = append(out, c)
	}
	return out
}

// selectCourier prefers the aggregator's recommendation and otherwise the
// cheapest courier, keeping the first one listed on equal rates.
func selectCourier(options *other.ShiprocketServiceability, cod bool) (other.ShiprocketCourier, bool) {
	usable := usableCouriers(options, cod)
	if len(usable) == 0 {
		return other.ShiprocketCourier{}, false
	}

	if options.RecommendedCourierID != nil {
		for _, c := range usable {
			if c.CourierCompanyID == *options.RecommendedCourierID {
				return c, true
			}
		}
	}

	best := usable[0]
	for _, c := range usable[1:] {
		if c.Rate < best.Rate {
			best = c
		}
	}
	return best, true
}

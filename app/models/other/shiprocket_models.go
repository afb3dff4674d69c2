package other

import "encoding/json"

type ShiprocketLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ShiprocketLoginResponse struct {
	Token string `json:"token"`
}

type ShiprocketErrorResponse struct {
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}

// ServiceabilityQuery is sent as query string to the courier serviceability endpoint.
type ServiceabilityQuery struct {
	PickupPostcode   string
	DeliveryPostcode string
	Weight           float64
	DeclaredValue    float64
	COD              bool
	OrderID          string
}

type ShiprocketServiceabilityResponse struct {
	Status int                      `json:"status"`
	Data   ShiprocketServiceability `json:"data"`
}

type ShiprocketServiceability struct {
	AvailableCourierCompanies []ShiprocketCourier `json:"available_courier_companies"`
	RecommendedCourierID      *int64              `json:"recommended_courier_company_id,omitempty"`
}

type ShiprocketCourier struct {
	CourierCompanyID int64    `json:"courier_company_id"`
	CourierName      string   `json:"courier_name"`
	Rate             float64  `json:"rate"`
	Etd              string   `json:"etd"`
	EstimatedDays    *int     `json:"estimated_delivery_days,omitempty"`
	COD              int      `json:"cod"`
	Blocked          int      `json:"blocked"`
	Rating           *float64 `json:"rating,omitempty"`
}

func (c ShiprocketCourier) SupportsCOD() bool { return c.COD == 1 }

func (c ShiprocketCourier) IsBlocked() bool { return c.Blocked == 1 }

type ShiprocketOrderItem struct {
	Name         string  `json:"name"`
	Sku          string  `json:"sku"`
	Units        int     `json:"units"`
	SellingPrice float64 `json:"selling_price"`
}

type ShiprocketCreateOrderRequest struct {
	OrderID              string                `json:"order_id"`
	OrderDate            string                `json:"order_date"`
	PickupLocation       string                `json:"pickup_location"`
	BillingCustomerName  string                `json:"billing_customer_name"`
	BillingLastName      string                `json:"billing_last_name"`
	BillingAddress       string                `json:"billing_address"`
	BillingAddress2      string                `json:"billing_address_2,omitempty"`
	BillingCity          string                `json:"billing_city"`
	BillingPincode       string                `json:"billing_pincode"`
	BillingState         string                `json:"billing_state"`
	BillingCountry       string                `json:"billing_country"`
	BillingEmail         string                `json:"billing_email"`
	BillingPhone         string                `json:"billing_phone"`
	ShippingIsBilling    bool                  `json:"shipping_is_billing"`
	ShippingCustomerName string                `json:"shipping_customer_name,omitempty"`
	ShippingAddress      string                `json:"shipping_address,omitempty"`
	ShippingAddress2     string                `json:"shipping_address_2,omitempty"`
	ShippingCity         string                `json:"shipping_city,omitempty"`
	ShippingPincode      string                `json:"shipping_pincode,omitempty"`
	ShippingState        string                `json:"shipping_state,omitempty"`
	ShippingCountry      string                `json:"shipping_country,omitempty"`
	ShippingEmail        string                `json:"shipping_email,omitempty"`
	ShippingPhone        string                `json:"shipping_phone,omitempty"`
	OrderItems           []ShiprocketOrderItem `json:"order_items"`
	PaymentMethod        string                `json:"payment_method"`
	SubTotal             float64               `json:"sub_total"`
	Length               float64               `json:"length"`
	Breadth              float64               `json:"breadth"`
	Height               float64               `json:"height"`
	Weight               float64               `json:"weight"`
}

type ShiprocketCreateOrderResponse struct {
	OrderID    json.Number `json:"order_id"`
	ShipmentID json.Number `json:"shipment_id"`
	Status     string      `json:"status"`
	StatusCode int         `json:"status_code"`
	AwbCode    string      `json:"awb_code,omitempty"`
	Courier    string      `json:"courier_name,omitempty"`
}

type ShiprocketAssignAWBRequest struct {
	ShipmentID json.Number `json:"shipment_id"`
	CourierID  int64       `json:"courier_id,omitempty"`
}

type ShiprocketShipmentIDs struct {
	ShipmentID []json.Number `json:"shipment_id"`
}

type ShiprocketOrderIDs struct {
	IDs []json.Number `json:"ids"`
}

type ShiprocketLabelResponse struct {
	LabelCreated int    `json:"label_created"`
	LabelURL     string `json:"label_url"`
	Response     string `json:"response,omitempty"`
}

type ShiprocketInvoiceResponse struct {
	IsInvoiceCreated bool   `json:"is_invoice_created"`
	InvoiceURL       string `json:"invoice_url"`
}

type ShiprocketManifestResponse struct {
	Status      int    `json:"status"`
	ManifestURL string `json:"manifest_url"`
}

type ShiprocketAssignAWBResponse struct {
	AwbAssignStatus int `json:"awb_assign_status"`
	Response        struct {
		Data *ShiprocketAWBData `json:"data,omitempty"`
	} `json:"response"`
	Message string `json:"message,omitempty"`
}

type ShiprocketAWBData struct {
	AwbCode          string      `json:"awb_code"`
	CourierCompanyID json.Number `json:"courier_company_id"`
	CourierName      string      `json:"courier_name"`
	ShipmentID       json.Number `json:"shipment_id"`
}

// ShiprocketTracking keeps the fields clients display; the rest of the payload is
// preserved verbatim in Raw.
type ShiprocketTracking struct {
	TrackStatus    int                     `json:"track_status"`
	ShipmentStatus *int                    `json:"shipment_status,omitempty"`
	CurrentStatus  string                  `json:"current_status,omitempty"`
	Etd            string                  `json:"etd,omitempty"`
	TrackURL       string                  `json:"track_url,omitempty"`
	ShipmentTrack  []ShiprocketTrackRecord `json:"shipment_track,omitempty"`
	ShipmentEvents []ShiprocketTrackEvent  `json:"shipment_track_activities,omitempty"`
	Raw            json.RawMessage         `json:"raw,omitempty"`
}

type ShiprocketTrackRecord struct {
	AwbCode       string `json:"awb_code"`
	CourierName   string `json:"courier_name,omitempty"`
	CurrentStatus string `json:"current_status"`
	DeliveredDate string `json:"delivered_date,omitempty"`
	EDD           string `json:"edd,omitempty"`
	Origin        string `json:"origin,omitempty"`
	Destination   string `json:"destination,omitempty"`
}

type ShiprocketTrackEvent struct {
	Date     string `json:"date"`
	Activity string `json:"activity"`
	Location string `json:"location"`
}

type ShiprocketTrackingResponse struct {
	TrackingData ShiprocketTracking `json:"tracking_data"`
}

type ShiprocketDocument struct {
	Kind string `json:"type"`
	URL  string `json:"url"`
}

type ShiprocketPickupRequest struct {
	PickupLocation string `json:"pickup_location"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	Address2       string `json:"address_2,omitempty"`
	City           string `json:"city"`
	State          string `json:"state"`
	Country        string `json:"country"`
	PinCode        string `json:"pin_code"`
}

type ShiprocketPickupResponse struct {
	Success bool `json:"success"`
	Address struct {
		ID             int64  `json:"id"`
		PickupCode     string `json:"pickup_code"`
		PickupLocation string `json:"pickup_location"`
	} `json:"address"`
	PickupID int64  `json:"pickup_id"`
	Message  string `json:"message,omitempty"`
}

package handlers

import (
	"net/http"

	"github.com/bbmart/marketplace/app/helpers"
	"github.com/bbmart/marketplace/app/services"
	"github.com/gorilla/mux"
)

// VendorOrderHandler covers a vendor's slice of orders and its shipments.
type VendorOrderHandler struct {
	Base
	orders    *services.OrderService
	shipments *services.ShipmentService
}

func NewVendorOrderHandler(base Base, orders *services.OrderService, shipments *services.ShipmentService) *VendorOrderHandler {
	return &VendorOrderHandler{Base: base, orders: orders, shipments: shipments}
}

type assignAWBRequest struct {
	CourierID int64 `json:"courierId" validate:"required,gt=0"`
}

func (h *VendorOrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListForVendor(r.Context(), h.Identity(r))
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.OK(w, map[string]interface{}{"orders": orders})
}

func (h *VendorOrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.GetForVendor(r.Context(), h.Identity(r), mux.Vars(r)["orderId"])
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.OK(w, map[string]interface{}{"order": order})
}

func (h *VendorOrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req services.StatusUpdateRequest
	if !h.Decode(w, r, &req) {
		return
	}
	order, err := h.orders.UpdateStatus(r.Context(), h.Identity(r), mux.Vars(r)["orderId"], req)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.OK(w, map[string]interface{}{"order": order})
}

func (h *VendorOrderHandler) CreateShipment(w http.ResponseWriter, r *http.Request) {
	shipment, err := h.shipments.CreateForVendor(r.Context(), h.Identity(r), mux.Vars(r)["orderId"])
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	helpers.WriteSuccess(h.Render, w, http.StatusCreated, map[string]interface{}{"shipment": shipment})
}

func (h *VendorOrderHandler) AssignAWB(w http.ResponseWriter, r *http.Request) {
	var req assignAWBRequest
	if !h.Decode(w, r, &req) {
		return
	}
	shipment, err := h.shipments.AssignAWB(r.Context(), h.Identity(r), mux.Vars(r)["orderId"], req.CourierID)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.OK(w, map[string]interface{}{"shipment": shipment})
}

func (h *VendorOrderHandler) Couriers(w http.ResponseWriter, r *http.Request) {
	options, err := h.shipments.Couriers(r.Context(), h.Identity(r), mux.Vars(r)["orderId"])
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.OK(w, map[string]interface{}{
		"couriers":             options.Couriers,
		"recommendedCourierId": options.RecommendedCourierID,
	})
}

func (h *VendorOrderHandler) Documents(w http.ResponseWriter, r *http.Request) {
	kind := services.DocumentKind(r.URL.Query().Get("type"))
	doc, err := h.shipments.Document(r.Context(), h.Identity(r), mux.Vars(r)["orderId"], kind)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.OK(w, map[string]interface{}{"type": kind, "document": doc})
}

func (h *VendorOrderHandler) Tracking(w http.ResponseWriter, r *http.Request) {
	tracking, err := h.shipments.TrackForVendor(r.Context(), h.Identity(r), mux.Vars(r)["orderId"])
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.OK(w, map[string]interface{}{"shipment": tracking})
}

package handlers

import (
	"net/http"

	"github.com/bbmart/marketplace/app/services"
	"github.com/gorilla/mux"
)

// OrderHandler serves the customer's own orders.
type OrderHandler struct {
	Base
	orders    *services.OrderService
	shipments *services.ShipmentService
}

func NewOrderHandler(base Base, orders *services.OrderService, shipments *services.ShipmentService) *OrderHandler {
	return &OrderHandler{Base: base, orders: orders, shipments: shipments}
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListForCustomer(r.Context(), h.Identity(r))
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.OK(w, map[string]interface{}{"orders": orders})
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.GetForCustomer(r.Context(), h.Identity(r), mux.Vars(r)["orderId"])
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.OK(w, map[string]interface{}{"order": order})
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Cancel(r.Context(), h.Identity(r), mux.Vars(r)["orderId"])
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.OK(w, map[string]interface{}{
		"message": "Order cancelled",
		"order":   order,
	})
}

func (h *OrderHandler) Tracking(w http.ResponseWriter, r *http.Request) {
	tracking, err := h.shipments.TrackForCustomer(r.Context(), h.Identity(r), mux.Vars(r)["orderId"])
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.OK(w, map[string]interface{}{"shipments": tracking})
}

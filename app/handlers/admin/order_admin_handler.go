package admin

import (
	"net/http"

	"github.com/bbmart/marketplace/app/helpers"
	"github.com/bbmart/marketplace/app/services"
	"github.com/gorilla/mux"
)

func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	page, perPage := helpers.ParsePagination(r, 20)
	result, err := h.orders.ListAll(r.Context(), page, perPage)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.OK(w, map[string]interface{}{
		"orders":  result.Orders,
		"total":   result.Total,
		"page":    result.Page,
		"perPage": result.PerPage,
	})
}

// UpdateOrderStatus lets an admin move an order along any allowed transition,
// including the ones reserved for vendors.
func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
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

func (h *AdminHandler) OrderAudit(w http.ResponseWriter, r *http.Request) {
	entries, err := h.orders.AuditTrail(r.Context(), mux.Vars(r)["orderId"])
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.OK(w, map[string]interface{}{"audit": entries})
}

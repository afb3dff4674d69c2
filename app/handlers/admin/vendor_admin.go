package admin

import (
	"net/http"

	"github.com/bbmart/marketplace/app/services"
	"github.com/gorilla/mux"
)

// SetVendorStatus approves or suspends a vendor. Omitted flags keep their value.
func (h *AdminHandler) SetVendorStatus(w http.ResponseWriter, r *http.Request) {
	var req services.VendorStatusRequest
	if !h.Decode(w, r, &req) {
		return
	}
	vendor, err := h.vendors.SetStatus(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.OK(w, map[string]interface{}{"vendor": vendor})
}

package admin

import (
	"net/http"

	"github.com/gorilla/mux"
)

type suspendProductRequest struct {
	Suspended *bool `json:"suspended" validate:"required"`
}

func (h *AdminHandler) SuspendProduct(w http.ResponseWriter, r *http.Request) {
	var req suspendProductRequest
	if !h.Decode(w, r, &req) {
		return
	}
	product, err := h.catalog.SetSuspended(r.Context(), mux.Vars(r)["id"], *req.Suspended)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.OK(w, map[string]interface{}{"product": product})
}

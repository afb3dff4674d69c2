package handlers

import (
	"net/http"

	"github.com/bbmart/marketplace/app/helpers"
	"github.com/bbmart/marketplace/app/services"
	"github.com/gorilla/mux"
)

type ProductHandler struct {
	Base
	catalog *services.CatalogService
}

func NewProductHandler(base Base, catalog *services.CatalogService) *ProductHandler {
	return &ProductHandler{Base: base, catalog: catalog}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := helpers.ParsePagination(r, 20)
	result, err := h.catalog.List(r.Context(), page, perPage)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.OK(w, map[string]interface{}{
		"products": result.Products,
		"total":    result.Total,
		"page":     result.Page,
		"perPage":  result.PerPage,
	})
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.Get(r.Context(), mux.Vars(r)["ref"])
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.OK(w, map[string]interface{}{"product": product})
}

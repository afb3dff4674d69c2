package handlers

import (
	"net/http"

	"github.com/bbmart/marketplace/app/helpers"
	"github.com/bbmart/marketplace/app/models"
	"github.com/bbmart/marketplace/app/services"
	"github.com/gorilla/mux"
)

// VendorHandler serves the vendor's own profile, catalogue and stats.
type VendorHandler struct {
	Base
	vendors *services.VendorService
	catalog *services.CatalogService
	reports *services.ReportService
}

func NewVendorHandler(base Base, vendors *services.VendorService, catalog *services.CatalogService, reports *services.ReportService) *VendorHandler {
	return &VendorHandler{Base: base, vendors: vendors, catalog: catalog, reports: reports}
}

func (h *VendorHandler) GetPickupAddress(w http.ResponseWriter, r *http.Request) {
	vendor, err := h.vendors.Profile(r.Context(), h.Identity(r))
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.OK(w, map[string]interface{}{
		"pickupAddress":  vendor.PickupAddress,
		"pickupLocation": vendor.PickupLocation,
		"configured":     vendor.HasPickupAddress(),
	})
}

func (h *VendorHandler) SetPickupAddress(w http.ResponseWriter, r *http.Request) {
	var addr models.Address
	if !h.Decode(w, r, &addr) {
		return
	}
	vendor, err := h.vendors.SetPickupAddress(r.Context(), h.Identity(r), addr)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.OK(w, map[string]interface{}{
		"message":        "Pickup address saved",
		"pickupAddress":  vendor.PickupAddress,
		"pickupLocation": vendor.PickupLocation,
	})
}

func (h *VendorHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reports.VendorStats(r.Context(), h.Identity(r))
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.OK(w, map[string]interface{}{"stats": stats})
}

func (h *VendorHandler) Products(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.VendorProducts(r.Context(), h.Identity(r))
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.OK(w, map[string]interface{}{"products": products})
}

func (h *VendorHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in services.ProductInput
	if !h.Decode(w, r, &in) {
		return
	}
	product, err := h.catalog.CreateProduct(r.Context(), h.Identity(r), in)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	helpers.WriteSuccess(h.Render, w, http.StatusCreated, map[string]interface{}{"product": product})
}

func (h *VendorHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var in services.ProductUpdate
	if !h.Decode(w, r, &in) {
		return
	}
	product, err := h.catalog.UpdateProduct(r.Context(), h.Identity(r), mux.Vars(r)["id"], in)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.OK(w, map[string]interface{}{"product": product})
}

func (h *VendorHandler) PublishProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.Publish(r.Context(), h.Identity(r), mux.Vars(r)["id"])
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.OK(w, map[string]interface{}{"product": product})
}

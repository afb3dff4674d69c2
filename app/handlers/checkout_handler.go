package handlers

import (
	"net/http"

	"github.com/bbmart/marketplace/app/helpers"
	"github.com/bbmart/marketplace/app/models"
	"github.com/bbmart/marketplace/app/services"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	Base
	checkout *services.CheckoutService
	delivery *services.DeliveryService
}

func NewCheckoutHandler(base Base, checkout *services.CheckoutService, delivery *services.DeliveryService) *CheckoutHandler {
	return &CheckoutHandler{Base: base, checkout: checkout, delivery: delivery}
}

type deliveryCostRequest struct {
	Pincode       string               `json:"pincode" validate:"required,numeric,len=6"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod" validate:"required,oneof=cod online"`
}

func (h *CheckoutHandler) DeliveryCost(w http.ResponseWriter, r *http.Request) {
	var req deliveryCostRequest
	if !h.Decode(w, r, &req) {
		return
	}
	estimate, err := h.delivery.EstimateForCart(r.Context(), h.Identity(r).UserID, req.Pincode, req.PaymentMethod)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.OK(w, map[string]interface{}{
		"totalShippingCost": estimate.TotalShippingCost,
		"breakdown":         estimate.Breakdown,
	})
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req services.CheckoutRequest
	if !h.Decode(w, r, &req) {
		return
	}

	result, err := h.checkout.Checkout(r.Context(), h.Identity(r).UserID, req)
	if err != nil {
		if result == nil {
			h.Fail(w, r, err)
			return
		}
		// The order exists but the gateway could not take the payment; it
		// stays pending and unpaid.
		status := StatusFor(err)
		h.Logger.Warn("order placed without payment handle",
			zap.String("order_code", result.Order.OrderCode),
			zap.Int("status", status),
			zap.Error(err))
		h.FailWithFields(w, r, status, err, map[string]interface{}{"order": result.Order})
		return
	}

	fields := map[string]interface{}{"order": result.Order}
	if result.Payment != nil {
		fields["payment"] = result.Payment
	}
	helpers.WriteSuccess(h.Render, w, http.StatusCreated, fields)
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/bbmart/marketplace/app/services"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	Base
	payments *services.PaymentService
}

func NewPaymentHandler(base Base, payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{Base: base, payments: payments}
}

func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req services.VerifyPaymentRequest
	if !h.Decode(w, r, &req) {
		return
	}
	order, err := h.payments.Verify(r.Context(), h.Identity(r).UserID, req)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.OK(w, map[string]interface{}{
		"message": "Payment verified",
		"order":   order,
	})
}

// Notification receives the gateway webhook. Anything past request validation
// answers 200 so the gateway stops retrying; failures are logged instead.
func (h *PaymentHandler) Notification(w http.ResponseWriter, r *http.Request) {
	var payload services.NotificationPayload
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&payload); err != nil {
		h.FailWithStatus(w, r, http.StatusBadRequest, err)
		return
	}

	order, err := h.payments.HandleNotification(r.Context(), payload)
	if err != nil && StatusFor(err) == http.StatusBadRequest {
		h.Fail(w, r, err)
		return
	}
	if err != nil {
		h.Logger.Error("payment notification not applied",
			zap.String("order_code", payload.OrderID),
			zap.String("transaction_status", payload.TransactionStatus),
			zap.Error(err))
		h.OK(w, map[string]interface{}{"processed": false})
		return
	}

	fields := map[string]interface{}{"processed": true}
	if order != nil {
		fields["paymentStatus"] = order.Payment.Status
	}
	h.OK(w, fields)
}

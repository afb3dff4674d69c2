package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/bbmart/marketplace/app/models"
	"github.com/bbmart/marketplace/app/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type VerifyPaymentRequest struct {
	OrderID        string `json:"orderId" validate:"required"`
	GatewayOrderID string `json:"gatewayOrderId" validate:"required"`
	PaymentID      string `json:"paymentId" validate:"required"`
	Signature      string `json:"signature" validate:"required"`
}

type NotificationPayload struct {
	TransactionStatus string `json:"transaction_status"`
	OrderID           string `json:"order_id"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	StatusCode        string `json:"status_code"`
	Currency          string `json:"currency"`
}

type PaymentService struct {
	tx          repositories.Transactor
	orderRepo   repositories.OrderRepository
	cartRepo    repositories.CartRepository
	gateway     PaymentGateway
	transitions *transitions
	secret      []byte
	logger      *zap.Logger
	now         func() time.Time
}

func NewPaymentService(
	tx repositories.Transactor,
	orderRepo repositories.OrderRepository,
	cartRepo repositories.CartRepository,
	audit repositories.AuditRepository,
	gateway PaymentGateway,
	secret string,
	logger *zap.Logger,
) *PaymentService {
	logger = logger.Named("payment")
	return &PaymentService{
		tx:          tx,
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		gateway:     gateway,
		transitions: newTransitions(orderRepo, audit, logger),
		secret:      []byte(secret),
		logger:      logger,
		now:         time.Now,
	}
}

// SignPayment returns hex(HMAC-SHA256(secret, "<gatewayOrderId>|<paymentId>")).
func SignPayment(secret []byte, gatewayOrderID, paymentID string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *PaymentService) validSignature(req VerifyPaymentRequest) bool {
	expected := SignPayment(s.secret, req.GatewayOrderID, req.PaymentID)
	return hmac.Equal([]byte(expected), []byte(req.Signature))
}

// Verify is the only path by which a client-reported payment marks an order
// paid. Every check runs before the first write.
func (s *PaymentService) Verify(ctx context.Context, userID string, req VerifyPaymentRequest) (*models.Order, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if req.OrderID == "" || req.GatewayOrderID == "" || req.PaymentID == "" || req.Signature == "" {
		return nil, fmt.Errorf("%w: orderId, gatewayOrderId, paymentId and signature are required", ErrValidation)
	}
	if len(s.secret) == 0 {
		return nil, fmt.Errorf("%w: signature secret is not configured", ErrPaymentUnavailable)
	}

	order, err := s.orderRepo.FindByRef(ctx, req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, req.OrderID)
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("%w: order belongs to another customer", ErrForbidden)
	}
	if order.Payment.Status == models.PaymentStatusPaid {
		return nil, fmt.Errorf("%w: order is already paid", ErrValidation)
	}
	if order.Payment.GatewayOrderID == "" || order.Payment.GatewayOrderID != req.GatewayOrderID {
		return nil, fmt.Errorf("%w: payment does not belong to this order", ErrValidation)
	}
	if !s.validSignature(req) {
		s.logger.Warn("payment signature mismatch", zap.String("order_code", order.OrderCode), zap.String("user_id", userID))
		return nil, fmt.Errorf("%w: payment signature mismatch", ErrValidation)
	}

	raw := map[string]any{
		"gatewayOrderId": req.GatewayOrderID,
		"paymentId":      req.PaymentID,
		"signature":      req.Signature,
		"source":         "client-verify",
	}
	actor := models.Identity{UserID: userID, Role: models.RoleCustomer}
	if err := s.markPaid(ctx, order, req.PaymentID, req.Signature, raw, "Payment verified", actor); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Clear(ctx, userID); err != nil {
		s.logger.Warn("failed to clear cart after payment", zap.String("user_id", userID), zap.Error(err))
	}
	return order, nil
}

func (s *PaymentService) markPaid(ctx context.Context, order *models.Order, paymentID, signature string, raw map[string]any, comment string, actor models.Identity) error {
	paidAt := s.now()
	payment := order.Payment
	payment.Status = models.PaymentStatusPaid
	payment.GatewayPaymentID = paymentID
	payment.Signature = signature
	payment.PaidAt = &paidAt
	payment.RawPayload = raw

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.orderRepo.UpdatePayment(ctx, order.ID, payment); err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}
		return s.transitions.record(ctx, order, models.OrderStatusConfirmed, comment, actor)
	})
	if err != nil {
		return err
	}
	order.Payment = payment

	s.logger.Info("order paid", zap.String("order_code", order.OrderCode), zap.String("payment_id", paymentID))
	s.transitions.trail(ctx, order, "payment.paid", comment, actor, bson.M{"payment_id": paymentID})
	return nil
}

// HandleNotification applies a gateway webhook after re-reading the
// transaction from the gateway, so the notification body itself is not trusted.
func (s *PaymentService) HandleNotification(ctx context.Context, payload NotificationPayload) (*models.Order, error) {
	if payload.OrderID == "" {
		return nil, fmt.Errorf("%w: order_id is required", ErrValidation)
	}
	if s.gateway == nil {
		return nil, fmt.Errorf("%w: no gateway configured", ErrPaymentUnavailable)
	}

	status, err := s.gateway.TransactionStatus(ctx, payload.OrderID)
	if err != nil {
		return nil, err
	}
	if status.TransactionStatus != payload.TransactionStatus || status.FraudStatus != payload.FraudStatus {
		s.logger.Warn("notification disagrees with gateway, using gateway status",
			zap.String("order_code", payload.OrderID),
			zap.String("notified", payload.TransactionStatus),
			zap.String("gateway", status.TransactionStatus))
	}

	order, err := s.orderRepo.FindByRef(ctx, payload.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, payload.OrderID)
	}
	if order.Payment.Status == models.PaymentStatusPaid || order.Status == models.OrderStatusCancelled {
		s.logger.Info("notification for settled order ignored", zap.String("order_code", order.OrderCode))
		return order, nil
	}

	raw := map[string]any{
		"transactionId":     status.TransactionID,
		"transactionStatus": status.TransactionStatus,
		"fraudStatus":       status.FraudStatus,
		"paymentType":       status.PaymentType,
		"grossAmount":       status.GrossAmount,
		"source":            "gateway-notification",
	}

	switch {
	case status.Settled():
		if err := s.markPaid(ctx, order, status.TransactionID, payload.SignatureKey, raw, "Payment received", systemActor); err != nil {
			return nil, err
		}
		if err := s.cartRepo.Clear(ctx, order.UserID); err != nil {
			s.logger.Warn("failed to clear cart after payment", zap.String("user_id", order.UserID), zap.Error(err))
		}
	case status.Failed():
		payment := order.Payment
		payment.Status = models.PaymentStatusFailed
		payment.RawPayload = raw
		if err := s.orderRepo.UpdatePayment(ctx, order.ID, payment); err != nil {
			return nil, fmt.Errorf("failed to record payment failure: %w", err)
		}
		order.Payment = payment
		s.transitions.trail(ctx, order, "payment.failed", status.TransactionStatus, systemActor, bson.M{"transaction_id": status.TransactionID})
	default:
		s.logger.Info("payment still pending",
			zap.String("order_code", order.OrderCode),
			zap.String("transaction_status", status.TransactionStatus))
	}
	return order, nil
}

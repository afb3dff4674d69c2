package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/bbmart/marketplace/app/models"
	"github.com/bbmart/marketplace/app/utils/calc"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
	"go.uber.org/zap"
)

// GatewayOrder is the handle a client needs to complete an online payment.
type GatewayOrder struct {
	GatewayOrderID string `json:"gatewayOrderId"`
	RedirectURL    string `json:"redirectUrl,omitempty"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	Receipt        string `json:"receipt"`
}

type GatewayStatus struct {
	OrderID           string `json:"orderId"`
	TransactionID     string `json:"transactionId"`
	TransactionStatus string `json:"transactionStatus"`
	FraudStatus       string `json:"fraudStatus"`
	PaymentType       string `json:"paymentType"`
	StatusCode        string `json:"statusCode"`
	GrossAmount       string `json:"grossAmount"`
}

func (g GatewayStatus) Settled() bool {
	switch g.TransactionStatus {
	case "settlement":
		return true
	case "capture":
		return g.FraudStatus == "" || g.FraudStatus == "accept"
	}
	return false
}

func (g GatewayStatus) Failed() bool {
	switch g.TransactionStatus {
	case "deny", "expire", "cancel", "failure":
		return true
	}
	return g.TransactionStatus == "capture" && g.FraudStatus == "deny"
}

type PaymentGateway interface {
	CreateOrder(ctx context.Context, order *models.Order) (*GatewayOrder, error)
	TransactionStatus(ctx context.Context, orderCode string) (*GatewayStatus, error)
}

type MidtransGateway struct {
	snapClient *snap.Client
	coreClient *coreapi.Client
	currency   string
	finishURL  string
	logger     *zap.Logger
}

func NewMidtransGateway(snapClient *snap.Client, coreClient *coreapi.Client, currency, appURL string, logger *zap.Logger) *MidtransGateway {
	return &MidtransGateway{
		snapClient: snapClient,
		coreClient: coreClient,
		currency:   strings.ToUpper(currency),
		finishURL:  strings.TrimRight(appURL, "/") + "/checkout/finish",
		logger:     logger.Named("midtrans"),
	}
}

func (m *MidtransGateway) CreateOrder(ctx context.Context, order *models.Order) (*GatewayOrder, error) {
	if m.snapClient == nil {
		return nil, fmt.Errorf("%w: gateway keys are not configured", ErrPaymentUnavailable)
	}

	// Charged in minor units so the gateway amount equals TotalAmount exactly.
	amount := calc.ToMinorUnits(order.Summary.TotalAmount)
	ship := order.ShippingAddress
	bill := order.BillingAddress
	if bill.IsZero() {
		bill = ship
	}

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  order.OrderCode,
			GrossAmt: amount,
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: ship.Name,
			Email: ship.Email,
			Phone: ship.Phone,
			BillAddr: &midtrans.CustomerAddress{
				FName:    bill.Name,
				Phone:    bill.Phone,
				Address:  bill.Address1,
				City:     bill.City,
				Postcode: bill.Pincode,
			},
			ShipAddr: &midtrans.CustomerAddress{
				FName:    ship.Name,
				Phone:    ship.Phone,
				Address:  ship.Address1,
				City:     ship.City,
				Postcode: ship.Pincode,
			},
		},
		Callbacks: &snap.Callbacks{
			Finish: fmt.Sprintf("%s?order_id=%s", m.finishURL, order.OrderCode),
		},
		EnabledPayments: snap.AllSnapPaymentType,
		CustomField1:    order.ID,
		CustomField2:    order.UserID,
	}

	resp, midErr := m.snapClient.CreateTransaction(req)
	if midErr != nil {
		m.logger.Error("snap transaction failed",
			zap.String("order_code", order.OrderCode),
			zap.Int("status_code", midErr.StatusCode),
			zap.String("message", midErr.Message))
		return nil, fmt.Errorf("%w: create payment order: %s", ErrUpstream, midErr.Message)
	}
	if resp == nil || resp.Token == "" {
		return nil, fmt.Errorf("%w: payment gateway returned no token", ErrUpstream)
	}

	m.logger.Info("snap transaction created",
		zap.String("order_code", order.OrderCode),
		zap.Int64("amount_minor", amount))

	return &GatewayOrder{
		GatewayOrderID: resp.Token,
		RedirectURL:    resp.RedirectURL,
		Amount:         amount,
		Currency:       m.currency,
		Receipt:        order.OrderCode,
	}, nil
}

func (m *MidtransGateway) TransactionStatus(ctx context.Context, orderCode string) (*GatewayStatus, error) {
	if m.coreClient == nil {
		return nil, fmt.Errorf("%w: gateway keys are not configured", ErrPaymentUnavailable)
	}

	resp, midErr := m.coreClient.CheckTransaction(orderCode)
	if midErr != nil {
		return nil, fmt.Errorf("%w: check transaction %s: %s", ErrUpstream, orderCode, midErr.Message)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: empty transaction status for %s", ErrUpstream, orderCode)
	}
	if resp.StatusCode == "404" {
		return nil, fmt.Errorf("%w: transaction %s is unknown to the gateway", ErrNotFound, orderCode)
	}
	if strings.HasPrefix(resp.StatusCode, "5") {
		return nil, fmt.Errorf("%w: gateway answered %s", ErrUpstream, resp.StatusCode)
	}

	return &GatewayStatus{
		OrderID:           resp.OrderID,
		TransactionID:     resp.TransactionID,
		TransactionStatus: resp.TransactionStatus,
		FraudStatus:       resp.FraudStatus,
		PaymentType:       resp.PaymentType,
		StatusCode:        resp.StatusCode,
		GrossAmount:       resp.GrossAmount,
	}, nil
}

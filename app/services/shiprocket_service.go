package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bbmart/marketplace/app/models/other"
	"go.uber.org/zap"
)

type DocumentKind string

const (
	DocumentLabel    DocumentKind = "label"
	DocumentInvoice  DocumentKind = "invoice"
	DocumentManifest DocumentKind = "manifest"
)

func (k DocumentKind) Valid() bool {
	return k == DocumentLabel || k == DocumentInvoice || k == DocumentManifest
}

// ShippingAggregator is the courier aggregator used for rate quotes and shipments.
type ShippingAggregator interface {
	Serviceability(ctx context.Context, query other.ServiceabilityQuery) (*other.ShiprocketServiceability, error)
	CreateOrder(ctx context.Context, req other.ShiprocketCreateOrderRequest) (*other.ShiprocketCreateOrderResponse, error)
	AssignAWB(ctx context.Context, shipmentID string, courierID int64) (*other.ShiprocketAWBData, error)
	Track(ctx context.Context, awbCode string) (*other.ShiprocketTracking, error)
	GenerateDocument(ctx context.Context, kind DocumentKind, shipmentID, aggregatorOrderID string) (*other.ShiprocketDocument, error)
	AddPickup(ctx context.Context, req other.ShiprocketPickupRequest) (*other.ShiprocketPickupResponse, error)
}

var errShiprocketUnauthorized = errors.New("shiprocket rejected credentials")

type ShiprocketConfig struct {
	BaseURL  string
	Email    string
	Password string
	TokenTTL time.Duration
}

// ShiprocketClient logs in lazily and reuses the bearer token until it expires
// or the API answers 401.
type ShiprocketClient struct {
	cfg    ShiprocketConfig
	client *http.Client
	logger *zap.Logger
	now    func() time.Time

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

func NewShiprocketClient(cfg ShiprocketConfig, logger *zap.Logger) *ShiprocketClient {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 7 * 24 * time.Hour
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &ShiprocketClient{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
		logger: logger.Named("shiprocket"),
		now:    time.Now,
	}
}

func (s *ShiprocketClient) authToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && s.now().Before(s.expiresAt) {
		return s.token, nil
	}

	if s.cfg.Email == "" || s.cfg.Password == "" {
		return "", errors.New("shiprocket credentials are not configured")
	}

	var resp other.ShiprocketLoginResponse
	login := other.ShiprocketLoginRequest{Email: s.cfg.Email, Password: s.cfg.Password}
	if err := s.send(ctx, http.MethodPost, "/v1/external/auth/login", "", login, &resp); err != nil {
		return "", fmt.Errorf("shiprocket login: %w", err)
	}
	if resp.Token == "" {
		return "", errors.New("shiprocket login returned an empty token")
	}

	s.token = resp.Token
	s.expiresAt = s.now().Add(s.cfg.TokenTTL)
	s.logger.Info("obtained shiprocket token", zap.Time("expires_at", s.expiresAt))
	return s.token, nil
}

func (s *ShiprocketClient) invalidate(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == token {
		s.token = ""
	}
}

func (s *ShiprocketClient) doRequest(ctx context.Context, method, path string, body, out interface{}) error {
	token, err := s.authToken(ctx)
	if err != nil {
		return err
	}

	err = s.send(ctx, method, path, token, body, out)
	if errors.Is(err, errShiprocketUnauthorized) {
		s.invalidate(token)
	}
	return err
}

func (s *ShiprocketClient) send(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reqBody io.Reader = http.NoBody
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.cfg.BaseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	s.logger.Debug("shiprocket call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode == http.StatusUnauthorized {
		return errShiprocketUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr other.ShiprocketErrorResponse
		msg := strings.TrimSpace(string(respBody))
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
			msg = apiErr.Message
		}
		return fmt.Errorf("%s %s returned status %d: %s", method, path, resp.StatusCode, msg)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func (s *ShiprocketClient) Serviceability(ctx context.Context, query other.ServiceabilityQuery) (*other.ShiprocketServiceability, error) {
	params := url.Values{}
	params.Set("pickup_postcode", query.PickupPostcode)
	params.Set("delivery_postcode", query.DeliveryPostcode)
	params.Set("weight", strconv.FormatFloat(query.Weight, 'f', -1, 64))
	params.Set("declared_value", strconv.FormatFloat(query.DeclaredValue, 'f', 2, 64))
	if query.COD {
		params.Set("cod", "1")
	} else {
		params.Set("cod", "0")
	}
	if query.OrderID != "" {
		params.Set("order_id", query.OrderID)
	}

	var resp other.ShiprocketServiceabilityResponse
	if err := s.doRequest(ctx, http.MethodGet, "/v1/external/courier/serviceability/?"+params.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (s *ShiprocketClient) CreateOrder(ctx context.Context, req other.ShiprocketCreateOrderRequest) (*other.ShiprocketCreateOrderResponse, error) {
	var resp other.ShiprocketCreateOrderResponse
	if err := s.doRequest(ctx, http.MethodPost, "/v1/external/orders/create/adhoc", req, &resp); err != nil {
		return nil, err
	}
	if resp.ShipmentID == "" {
		return nil, fmt.Errorf("shiprocket did not return a shipment id for order %s", req.OrderID)
	}
	return &resp, nil
}

func (s *ShiprocketClient) AssignAWB(ctx context.Context, shipmentID string, courierID int64) (*other.ShiprocketAWBData, error) {
	req := other.ShiprocketAssignAWBRequest{ShipmentID: json.Number(shipmentID), CourierID: courierID}

	var resp other.ShiprocketAssignAWBResponse
	if err := s.doRequest(ctx, http.MethodPost, "/v1/external/courier/assign/awb", req, &resp); err != nil {
		return nil, err
	}
	if resp.AwbAssignStatus != 1 || resp.Response.Data == nil || resp.Response.Data.AwbCode == "" {
		msg := resp.Message
		if msg == "" {
			msg = "awb was not assigned"
		}
		return nil, fmt.Errorf("shipment %s: %s", shipmentID, msg)
	}
	return resp.Response.Data, nil
}

func (s *ShiprocketClient) Track(ctx context.Context, awbCode string) (*other.ShiprocketTracking, error) {
	var envelope struct {
		TrackingData json.RawMessage `json:"tracking_data"`
	}
	if err := s.doRequest(ctx, http.MethodGet, "/v1/external/courier/track/awb/"+url.PathEscape(awbCode), nil, &envelope); err != nil {
		return nil, err
	}
	if len(envelope.TrackingData) == 0 {
		return nil, fmt.Errorf("no tracking data for awb %s", awbCode)
	}

	var tracking other.ShiprocketTracking
	if err := json.Unmarshal(envelope.TrackingData, &tracking); err != nil {
		return nil, fmt.Errorf("decode tracking data: %w", err)
	}
	tracking.Raw = envelope.TrackingData
	return &tracking, nil
}

func (s *ShiprocketClient) GenerateDocument(ctx context.Context, kind DocumentKind, shipmentID, aggregatorOrderID string) (*other.ShiprocketDocument, error) {
	doc := &other.ShiprocketDocument{Kind: string(kind)}

	switch kind {
	case DocumentLabel:
		var resp other.ShiprocketLabelResponse
		req := other.ShiprocketShipmentIDs{ShipmentID: []json.Number{json.Number(shipmentID)}}
		if err := s.doRequest(ctx, http.MethodPost, "/v1/external/courier/generate/label", req, &resp); err != nil {
			return nil, err
		}
		doc.URL = resp.LabelURL
	case DocumentInvoice:
		var resp other.ShiprocketInvoiceResponse
		req := other.ShiprocketOrderIDs{IDs: []json.Number{json.Number(aggregatorOrderID)}}
		if err := s.doRequest(ctx, http.MethodPost, "/v1/external/orders/print/invoice", req, &resp); err != nil {
			return nil, err
		}
		doc.URL = resp.InvoiceURL
	case DocumentManifest:
		var resp other.ShiprocketManifestResponse
		req := other.ShiprocketShipmentIDs{ShipmentID: []json.Number{json.Number(shipmentID)}}
		if err := s.doRequest(ctx, http.MethodPost, "/v1/external/manifests/generate", req, &resp); err != nil {
			return nil, err
		}
		doc.URL = resp.ManifestURL
	default:
		return nil, fmt.Errorf("unknown document type %q", kind)
	}

	if doc.URL == "" {
		return nil, fmt.Errorf("shiprocket returned no %s url", kind)
	}
	return doc, nil
}

func (s *ShiprocketClient) AddPickup(ctx context.Context, req other.ShiprocketPickupRequest) (*other.ShiprocketPickupResponse, error) {
	var resp other.ShiprocketPickupResponse
	if err := s.doRequest(ctx, http.MethodPost, "/v1/external/settings/company/addpickup", req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = "pickup location was not created"
		}
		return nil, errors.New(msg)
	}
	return &resp, nil
}

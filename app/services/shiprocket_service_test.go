package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/bbmart/marketplace/app/models/other"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type shiprocketStub struct {
	logins    int32
	rejectNow int32
	mux       *http.ServeMux
}

func newShiprocketStub(t *testing.T) (*shiprocketStub, *ShiprocketClient) {
	t.Helper()
	stub := &shiprocketStub{mux: http.NewServeMux()}
	stub.mux.HandleFunc("/v1/external/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req other.ShiprocketLoginRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "secret" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"Invalid email and password combination"}`))
			return
		}
		atomic.AddInt32(&stub.logins, 1)
		_, _ = w.Write([]byte(`{"token":"tok"}`))
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/external/auth/login" {
			if r.Header.Get("Authorization") != "Bearer tok" || atomic.CompareAndSwapInt32(&stub.rejectNow, 1, 0) {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
		}
		stub.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	client := NewShiprocketClient(ShiprocketConfig{
		BaseURL:  srv.URL + "/",
		Email:    "ops@shop.example",
		Password: "secret",
	}, zap.NewNop())
	return stub, client
}

func TestShiprocketClient_ServiceabilityLogsInOnce(t *testing.T) {
	stub, client := newShiprocketStub(t)
	var gotQuery map[string]string
	stub.mux.HandleFunc("/v1/external/courier/serviceability/", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		_, _ = w.Write([]byte(`{"status":200,"data":{"recommended_courier_company_id":7,"available_courier_companies":[
			{"courier_company_id":7,"courier_name":"Delhivery","rate":82.5,"etd":"Jun 4","cod":1,"blocked":0,"estimated_delivery_days":3}
		]}}`))
	})

	ctx := context.Background()
	query := other.ServiceabilityQuery{PickupPostcode: "411001", DeliveryPostcode: "560001", Weight: 1.25, DeclaredValue: 399, COD: true}
	result, err := client.Serviceability(ctx, query)
	require.NoError(t, err)
	_, err = client.Serviceability(ctx, query)
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&stub.logins))
	require.Len(t, result.AvailableCourierCompanies, 1)
	assert.Equal(t, int64(7), *result.RecommendedCourierID)
	assert.Equal(t, 3, *result.AvailableCourierCompanies[0].EstimatedDays)
	assert.Equal(t, map[string]string{
		"pickup_postcode":   "411001",
		"delivery_postcode": "560001",
		"weight":            "1.25",
		"declared_value":    "399.00",
		"cod":               "1",
	}, gotQuery)
}

func TestShiprocketClient_UnauthorizedForcesNewLogin(t *testing.T) {
	stub, client := newShiprocketStub(t)
	stub.mux.HandleFunc("/v1/external/courier/track/awb/AWB1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tracking_data":{"track_status":1,"shipment_track":[{"awb_code":"AWB1","current_status":"Delivered"}],"extra":"kept"}}`))
	})
	ctx := context.Background()

	_, err := client.Track(ctx, "AWB1")
	require.NoError(t, err)

	atomic.StoreInt32(&stub.rejectNow, 1)
	_, err = client.Track(ctx, "AWB1")
	require.Error(t, err)

	tracking, err := client.Track(ctx, "AWB1")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&stub.logins))
	assert.Equal(t, 1, tracking.TrackStatus)
	require.Len(t, tracking.ShipmentTrack, 1)
	assert.Equal(t, "Delivered", tracking.ShipmentTrack[0].CurrentStatus)
	assert.Contains(t, string(tracking.Raw), `"extra":"kept"`)
}

func TestShiprocketClient_LoginFailure(t *testing.T) {
	_, client := newShiprocketStub(t)
	client.cfg.Password = "wrong"

	_, err := client.Track(context.Background(), "AWB1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid email and password combination")
}

func TestShiprocketClient_MissingCredentials(t *testing.T) {
	client := NewShiprocketClient(ShiprocketConfig{BaseURL: "http://127.0.0.1:1"}, zap.NewNop())
	_, err := client.Track(context.Background(), "AWB1")
	assert.ErrorContains(t, err, "not configured")
}

func TestShiprocketClient_CreateOrderAndAWB(t *testing.T) {
	stub, client := newShiprocketStub(t)
	var created other.ShiprocketCreateOrderRequest
	stub.mux.HandleFunc("/v1/external/orders/create/adhoc", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&created))
		_, _ = w.Write([]byte(`{"order_id":123,"shipment_id":456,"status":"NEW"}`))
	})
	awbResponses := []string{
		`{"awb_assign_status":0,"message":"Courier is not serviceable"}`,
		`{"awb_assign_status":1,"response":{"data":{"awb_code":"SR789","courier_company_id":7,"courier_name":"Delhivery","shipment_id":456}}}`,
	}
	var awbCalls int32
	stub.mux.HandleFunc("/v1/external/courier/assign/awb", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, float64(456), req["shipment_id"])
		n := atomic.AddInt32(&awbCalls, 1)
		_, _ = w.Write([]byte(awbResponses[n-1]))
	})
	ctx := context.Background()

	resp, err := client.CreateOrder(ctx, other.ShiprocketCreateOrderRequest{OrderID: "BB-2025-000001-vendor-1", PaymentMethod: "COD"})
	require.NoError(t, err)
	assert.Equal(t, "456", resp.ShipmentID.String())
	assert.Equal(t, "123", resp.OrderID.String())
	assert.Equal(t, "BB-2025-000001-vendor-1", created.OrderID)

	_, err = client.AssignAWB(ctx, "456", 7)
	assert.ErrorContains(t, err, "Courier is not serviceable")

	awb, err := client.AssignAWB(ctx, "456", 7)
	require.NoError(t, err)
	assert.Equal(t, "SR789", awb.AwbCode)
	assert.Equal(t, "Delhivery", awb.CourierName)
}

func TestShiprocketClient_ErrorMessageSurfaced(t *testing.T) {
	stub, client := newShiprocketStub(t)
	stub.mux.HandleFunc("/v1/external/settings/company/addpickup", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"Address nick name already in use","status_code":422}`))
	})

	_, err := client.AddPickup(context.Background(), other.ShiprocketPickupRequest{PickupLocation: "vendor-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
	assert.Contains(t, err.Error(), "Address nick name already in use")
}

func TestShiprocketClient_GenerateDocument(t *testing.T) {
	stub, client := newShiprocketStub(t)
	stub.mux.HandleFunc("/v1/external/courier/generate/label", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"label_created":1,"label_url":"https://cdn.example/label.pdf"}`))
	})
	stub.mux.HandleFunc("/v1/external/orders/print/invoice", func(w http.ResponseWriter, r *http.Request) {
		var req map[string][]json.Number
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []json.Number{"123"}, req["ids"])
		_, _ = w.Write([]byte(`{"is_invoice_created":true,"invoice_url":"https://cdn.example/invoice.pdf"}`))
	})
	stub.mux.HandleFunc("/v1/external/manifests/generate", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":1}`))
	})
	ctx := context.Background()

	label, err := client.GenerateDocument(ctx, DocumentLabel, "456", "123")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/label.pdf", label.URL)
	assert.Equal(t, "label", label.Kind)

	invoice, err := client.GenerateDocument(ctx, DocumentInvoice, "456", "123")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/invoice.pdf", invoice.URL)

	_, err = client.GenerateDocument(ctx, DocumentManifest, "456", "123")
	assert.ErrorContains(t, err, "no manifest url")
}

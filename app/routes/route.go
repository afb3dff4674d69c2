package routes

import (
	"net/http"

	"github.com/bbmart/marketplace/app/handlers"
	"github.com/bbmart/marketplace/app/handlers/admin"
	"github.com/bbmart/marketplace/app/helpers"
	"github.com/bbmart/marketplace/app/middlewares"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type Handlers struct {
	Products     *handlers.ProductHandler
	Cart         *handlers.CartHandler
	Checkout     *handlers.CheckoutHandler
	Payments     *handlers.PaymentHandler
	Orders       *handlers.OrderHandler
	VendorOrders *handlers.VendorOrderHandler
	Vendor       *handlers.VendorHandler
	Sessions     *handlers.SessionHandler
	Admin        *admin.AdminHandler
}

func NewRouter(h Handlers, auth *middlewares.Auth, rnd *render.Render, logger *zap.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(
		middlewares.RequestID,
		middlewares.RequestLogger(logger),
		middlewares.Recoverer(logger, rnd),
		auth.Identify,
	)
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		helpers.WriteError(rnd, w, http.StatusNotFound, "route not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		helpers.WriteError(rnd, w, http.StatusMethodNotAllowed, "method not allowed")
	})

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		helpers.WriteSuccess(rnd, w, http.StatusOK, map[string]interface{}{"status": "ok"})
	}).Methods("GET")

	router.HandleFunc("/products", h.Products.List).Methods("GET")
	router.HandleFunc("/products/{ref}", h.Products.Get).Methods("GET")
	router.HandleFunc("/payment/notification", h.Payments.Notification).Methods("POST")

	customer := router.NewRoute().Subrouter()
	customer.Use(auth.RequireAuth)

	customer.HandleFunc("/session", h.Sessions.Create).Methods("POST")
	customer.HandleFunc("/session", h.Sessions.Delete).Methods("DELETE")

	customer.HandleFunc("/cart", h.Cart.GetCart).Methods("GET")
	customer.HandleFunc("/cart", h.Cart.SetItem).Methods("POST")
	customer.HandleFunc("/cart/{productId}", h.Cart.UpdateItem).Methods("PATCH")
	customer.HandleFunc("/cart/{productId}", h.Cart.RemoveItem).Methods("DELETE")

	customer.HandleFunc("/checkout", h.Checkout.Checkout).Methods("POST")
	customer.HandleFunc("/checkout/delivery-cost", h.Checkout.DeliveryCost).Methods("POST")
	customer.HandleFunc("/payment/verify", h.Payments.Verify).Methods("POST")

	customer.HandleFunc("/orders", h.Orders.List).Methods("GET")
	customer.HandleFunc("/orders/{orderId}", h.Orders.Get).Methods("GET")
	customer.HandleFunc("/orders/{orderId}/cancel", h.Orders.Cancel).Methods("POST")
	customer.HandleFunc("/orders/{orderId}/tracking", h.Orders.Tracking).Methods("GET")

	vendor := router.PathPrefix("/vendor").Subrouter()
	vendor.Use(auth.RequireVendor)

	vendor.HandleFunc("/orders", h.VendorOrders.List).Methods("GET")
	vendor.HandleFunc("/orders/{orderId}", h.VendorOrders.Get).Methods("GET")
	vendor.HandleFunc("/orders/{orderId}", h.VendorOrders.UpdateStatus).Methods("PATCH")
	vendor.HandleFunc("/orders/{orderId}/shiprocket", h.VendorOrders.CreateShipment).Methods("POST")
	vendor.HandleFunc("/orders/{orderId}/awb", h.VendorOrders.AssignAWB).Methods("POST")
	vendor.HandleFunc("/orders/{orderId}/couriers", h.VendorOrders.Couriers).Methods("GET")
	vendor.HandleFunc("/orders/{orderId}/documents", h.VendorOrders.Documents).Methods("GET")
	vendor.HandleFunc("/orders/{orderId}/tracking", h.VendorOrders.Tracking).Methods("GET")

	vendor.HandleFunc("/pickup-address", h.Vendor.GetPickupAddress).Methods("GET")
	vendor.HandleFunc("/pickup-address", h.Vendor.SetPickupAddress).Methods("POST")
	vendor.HandleFunc("/stats", h.Vendor.Stats).Methods("GET")
	vendor.HandleFunc("/products", h.Vendor.Products).Methods("GET")
	vendor.HandleFunc("/products", h.Vendor.CreateProduct).Methods("POST")
	vendor.HandleFunc("/products/{id}", h.Vendor.UpdateProduct).Methods("PATCH")
	vendor.HandleFunc("/products/{id}/publish", h.Vendor.PublishProduct).Methods("POST")

	adminRouter := router.PathPrefix("/admin").Subrouter()
	adminRouter.Use(auth.RequireAdmin)

	adminRouter.HandleFunc("/stats", h.Admin.Stats).Methods("GET")
	adminRouter.HandleFunc("/orders", h.Admin.ListOrders).Methods("GET")
	adminRouter.HandleFunc("/orders/{orderId}", h.Admin.UpdateOrderStatus).Methods("PATCH")
	adminRouter.HandleFunc("/orders/{orderId}/audit", h.Admin.OrderAudit).Methods("GET")
	adminRouter.HandleFunc("/products/{id}/suspend", h.Admin.SuspendProduct).Methods("POST")
	adminRouter.HandleFunc("/vendors/{id}/status", h.Admin.SetVendorStatus).Methods("POST")

	return router
}

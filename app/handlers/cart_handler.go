package handlers

import (
	"fmt"
	"net/http"

	"github.com/bbmart/marketplace/app/services"
	"github.com/gorilla/mux"
)

type CartHandler struct {
	Base
	carts *services.CartService
}

func NewCartHandler(base Base, carts *services.CartService) *CartHandler {
	return &CartHandler{Base: base, carts: carts}
}

type setCartItemRequest struct {
	ProductID string   `json:"productId" validate:"required"`
	Quantity  *float64 `json:"quantity" validate:"required"`
}

type updateCartItemRequest struct {
	Op string `json:"op" validate:"required,oneof=inc dec"`
}

func (h *CartHandler) writeCart(w http.ResponseWriter, r *http.Request, view *services.CartView, err error) {
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.OK(w, map[string]interface{}{"cart": view})
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.carts.Get(r.Context(), h.Identity(r).UserID)
	h.writeCart(w, r, view, err)
}

// SetItem replaces the quantity held for a product; zero removes it.
func (h *CartHandler) SetItem(w http.ResponseWriter, r *http.Request) {
	var req setCartItemRequest
	if !h.Decode(w, r, &req) {
		return
	}
	view, err := h.carts.SetQuantity(r.Context(), h.Identity(r).UserID, req.ProductID, *req.Quantity)
	h.writeCart(w, r, view, err)
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req updateCartItemRequest
	if !h.Decode(w, r, &req) {
		return
	}
	userID := h.Identity(r).UserID
	productRef := mux.Vars(r)["productId"]

	var (
		view *services.CartView
		err  error
	)
	switch req.Op {
	case "inc":
		view, err = h.carts.Increment(r.Context(), userID, productRef)
	case "dec":
		view, err = h.carts.Decrement(r.Context(), userID, productRef)
	default:
		err = fmt.Errorf("%w: op must be inc or dec", services.ErrValidation)
	}
	h.writeCart(w, r, view, err)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	view, err := h.carts.Remove(r.Context(), h.Identity(r).UserID, mux.Vars(r)["productId"])
	h.writeCart(w, r, view, err)
}

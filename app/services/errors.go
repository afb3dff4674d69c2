package services

import "errors"

var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("not allowed")
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("invalid request")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrPaymentUnavailable = errors.New("payment service unavailable")
	ErrUpstream           = errors.New("upstream service failed")
)

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bbmart/marketplace/app/helpers"
	"github.com/bbmart/marketplace/app/models"
	"github.com/bbmart/marketplace/app/services"
	"github.com/go-playground/validator/v10"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// Base holds what every JSON handler needs.
type Base struct {
	Render     *render.Render
	Validator  *validator.Validate
	Logger     *zap.Logger
	Production bool
}

func NewBase(rnd *render.Render, validate *validator.Validate, logger *zap.Logger, production bool) Base {
	return Base{
		Render:     rnd,
		Validator:  validate,
		Logger:     logger,
		Production: production,
	}
}

// StatusFor maps service errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrInsufficientStock):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrPaymentUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (b Base) messageFor(status int, err error) string {
	if status < http.StatusInternalServerError || !b.Production {
		return err.Error()
	}
	if status == http.StatusServiceUnavailable {
		return services.ErrPaymentUnavailable.Error()
	}
	return "internal server error"
}

func (b Base) Fail(w http.ResponseWriter, r *http.Request, err error) {
	b.FailWithStatus(w, r, StatusFor(err), err)
}

func (b Base) FailWithStatus(w http.ResponseWriter, r *http.Request, status int, err error) {
	b.FailWithFields(w, r, status, err, nil)
}

// FailWithFields is FailWithStatus for failures that still carry data, such as
// an order placed without a payment handle.
func (b Base) FailWithFields(w http.ResponseWriter, r *http.Request, status int, err error, fields map[string]interface{}) {
	if status >= http.StatusInternalServerError {
		b.Logger.Error("request failed",
			zap.String("request_id", helpers.RequestIDFromContext(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err))
	}
	helpers.WriteErrorWithFields(b.Render, w, status, b.messageFor(status, err), fields)
}

func (b Base) OK(w http.ResponseWriter, fields map[string]interface{}) {
	helpers.WriteSuccess(b.Render, w, http.StatusOK, fields)
}

// Decode reads a JSON body into dst and runs struct validation. It writes the
// error response itself and reports false when the handler should stop.
func (b Base) Decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		helpers.WriteError(b.Render, w, http.StatusBadRequest, "request body must be valid JSON")
		return false
	}
	if err := b.Validator.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			helpers.WriteValidationError(b.Render, w, "validation failed", helpers.FormatValidationErrors(validationErrors))
			return false
		}
		helpers.WriteError(b.Render, w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func (b Base) Identity(r *http.Request) models.Identity {
	id, _ := helpers.IdentityFromContext(r.Context())
	return id
}

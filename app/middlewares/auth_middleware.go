package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/bbmart/marketplace/app/helpers"
	"github.com/bbmart/marketplace/app/utils/sessions"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

// VendorChecker reports whether a vendor account may act as a vendor.
type VendorChecker interface {
	ActiveVendor(ctx context.Context, vendorID string) (bool, error)
}

type Auth struct {
	tokens   *sessions.TokenCodec
	sessions sessions.SessionStore
	vendors  VendorChecker
	render   *render.Render
	logger   *zap.Logger
}

func NewAuth(tokens *sessions.TokenCodec, store sessions.SessionStore, vendors VendorChecker, rnd *render.Render, logger *zap.Logger) *Auth {
	return &Auth{
		tokens:   tokens,
		sessions: store,
		vendors:  vendors,
		render:   rnd,
		logger:   logger,
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// Identify attaches the caller's identity to the request context when one is
// presented. A bearer token wins over the session cookie; a bad token is
// rejected rather than silently downgraded to anonymous.
func (a *Auth) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := bearerToken(r); token != "" {
			id, err := a.tokens.Parse(token)
			if err != nil {
				a.logger.Debug("rejected bearer token", zap.Error(err))
				helpers.WriteError(a.render, w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(helpers.WithIdentity(r.Context(), id)))
			return
		}
		if a.sessions != nil {
			if id, ok := a.sessions.GetIdentity(r); ok {
				next.ServeHTTP(w, r.WithContext(helpers.WithIdentity(r.Context(), id)))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (a *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := helpers.IdentityFromContext(r.Context()); !ok {
			helpers.WriteError(a.render, w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireVendor admits approved, unsuspended vendors only.
func (a *Auth) RequireVendor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := helpers.IdentityFromContext(r.Context())
		if !ok {
			helpers.WriteError(a.render, w, http.StatusUnauthorized, "authentication required")
			return
		}
		if !id.IsVendor() {
			helpers.WriteError(a.render, w, http.StatusForbidden, "vendor account required")
			return
		}
		active, err := a.vendors.ActiveVendor(r.Context(), id.VendorID)
		if err != nil {
			a.logger.Error("vendor status lookup failed", zap.String("vendor_id", id.VendorID), zap.Error(err))
			helpers.WriteError(a.render, w, http.StatusInternalServerError, "internal server error")
			return
		}
		if !active {
			helpers.WriteError(a.render, w, http.StatusForbidden, "vendor account is not approved or is suspended")
			return
		}
		next.ServeHTTP(w, r)
	})
}

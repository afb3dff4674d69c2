package middlewares

import (
	"net/http"

	"github.com/bbmart/marketplace/app/helpers"
	"go.uber.org/zap"
)

func (a *Auth) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := helpers.IdentityFromContext(r.Context())
		if !ok {
			helpers.WriteError(a.render, w, http.StatusUnauthorized, "authentication required")
			return
		}
		if !id.IsAdmin() {
			a.logger.Warn("non-admin attempted admin route",
				zap.String("user_id", id.UserID),
				zap.String("path", r.URL.Path))
			helpers.WriteError(a.render, w, http.StatusForbidden, "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

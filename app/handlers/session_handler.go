package handlers

import (
	"net/http"

	"github.com/bbmart/marketplace/app/utils/sessions"
)

// SessionHandler lets a browser storefront trade its bearer token for a
// cookie session, so later requests can omit the Authorization header.
type SessionHandler struct {
	Base
	store sessions.SessionStore
}

func NewSessionHandler(base Base, store sessions.SessionStore) *SessionHandler {
	return &SessionHandler{Base: base, store: store}
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	id := h.Identity(r)
	if err := h.store.SetIdentity(w, r, id); err != nil {
		h.Fail(w, r, err)
		return
	}
	h.OK(w, map[string]interface{}{"identity": id})
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ClearSession(w, r); err != nil {
		h.Fail(w, r, err)
		return
	}
	h.OK(w, map[string]interface{}{"message": "Signed out"})
}

package sessions

import (
	"net/http"
	"time"

	"github.com/bbmart/marketplace/app/models"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	sessionCookieName = "marketplace-session"

	userIDSessionKey   = "userID"
	roleSessionKey     = "role"
	vendorIDSessionKey = "vendorID"
)

// SessionStore carries the identity for browser clients that cannot send a
// bearer token.
type SessionStore interface {
	GetIdentity(r *http.Request) (models.Identity, bool)
	SetIdentity(w http.ResponseWriter, r *http.Request, id models.Identity) error
	ClearSession(w http.ResponseWriter, r *http.Request) error
}

type CookieSessionStore struct {
	store  *sessions.CookieStore
	logger *zap.Logger
}

func NewCookieSessionStore(logger *zap.Logger, secure bool, keyPairs ...[]byte) *CookieSessionStore {
	store := sessions.NewCookieStore(keyPairs...)

	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(7 * 24 * time.Hour / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieSessionStore{store: store, logger: logger}
}

func (c *CookieSessionStore) getSession(r *http.Request) *sessions.Session {
	session, err := c.store.Get(r, sessionCookieName)
	if err != nil {
		c.logger.Debug("discarding unreadable session cookie", zap.Error(err))
	}
	return session
}

func (c *CookieSessionStore) GetIdentity(r *http.Request) (models.Identity, bool) {
	session := c.getSession(r)
	if session == nil {
		return models.Identity{}, false
	}
	userID, ok := session.Values[userIDSessionKey].(string)
	if !ok || userID == "" {
		return models.Identity{}, false
	}
	role, _ := session.Values[roleSessionKey].(string)
	vendorID, _ := session.Values[vendorIDSessionKey].(string)
	return models.Identity{UserID: userID, Role: models.Role(role), VendorID: vendorID}, true
}

func (c *CookieSessionStore) SetIdentity(w http.ResponseWriter, r *http.Request, id models.Identity) error {
	session := c.getSession(r)
	session.Values[userIDSessionKey] = id.UserID
	session.Values[roleSessionKey] = string(id.Role)
	session.Values[vendorIDSessionKey] = id.VendorID
	return session.Save(r, w)
}

func (c *CookieSessionStore) ClearSession(w http.ResponseWriter, r *http.Request) error {
	session := c.getSession(r)
	session.Values = make(map[interface{}]interface{})
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

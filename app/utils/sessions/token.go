package sessions

import (
	"errors"
	"fmt"
	"time"

	"github.com/bbmart/marketplace/app/models"
	"github.com/gorilla/securecookie"
)

const tokenName = "marketplace-identity"

var ErrInvalidToken = errors.New("invalid or expired token")

type tokenClaims struct {
	Identity models.Identity `json:"id"`
	IssuedAt int64           `json:"iat"`
}

// TokenCodec issues and verifies bearer tokens signed and encrypted with the
// application's session keys.
type TokenCodec struct {
	codec *securecookie.SecureCookie
	ttl   time.Duration
	now   func() time.Time
}

func NewTokenCodec(authKey, encKey []byte, ttl time.Duration) *TokenCodec {
	codec := securecookie.New(authKey, encKey)
	codec.SetSerializer(securecookie.JSONEncoder{})
	codec.MaxAge(int(ttl / time.Second))
	return &TokenCodec{codec: codec, ttl: ttl, now: time.Now}
}

func (t *TokenCodec) Issue(id models.Identity) (string, error) {
	if id.UserID == "" {
		return "", errors.New("user id is required")
	}
	switch id.Role {
	case models.RoleCustomer, models.RoleAdmin:
	case models.RoleVendor:
		if id.VendorID == "" {
			return "", errors.New("vendor tokens need a vendor id")
		}
	default:
		return "", fmt.Errorf("unknown role %q", id.Role)
	}

	token, err := t.codec.Encode(tokenName, tokenClaims{Identity: id, IssuedAt: t.now().Unix()})
	if err != nil {
		return "", fmt.Errorf("encode token: %w", err)
	}
	return token, nil
}

func (t *TokenCodec) Parse(token string) (models.Identity, error) {
	var claims tokenClaims
	if err := t.codec.Decode(tokenName, token, &claims); err != nil {
		return models.Identity{}, ErrInvalidToken
	}
	if t.ttl > 0 && t.now().Sub(time.Unix(claims.IssuedAt, 0)) > t.ttl {
		return models.Identity{}, ErrInvalidToken
	}
	return claims.Identity, nil
}

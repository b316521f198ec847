package token

import (
	"github.com/golang-jwt/jwt/v5"
)

// Kind tags a credential so an access token can never be replayed as a
// refresh token or vice versa.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Claims is the payload carried by both credential kinds. Access tokens are
// self-contained: the server holds no per-token state, so they stay valid
// until natural expiry. Refresh tokens additionally have a store row that
// must agree.
type Claims struct {
	TenantID   string `json:"tenantId"`
	Identifier string `json:"identifier,omitempty"`
	Name       string `json:"name,omitempty"`
	Kind       Kind   `json:"kind"`
	jwt.RegisteredClaims
}

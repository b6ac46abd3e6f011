// Package auth resolves the caller identity from a bearer token and exposes
// role checks to the handlers. Handlers never touch raw claims.
package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Role names a capability a caller may hold.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleSupplier Role = "supplier"
	RoleCustomer Role = "customer"
)

// Identity is the per-request caller context.
type Identity struct {
	UserID     uint
	Username   string
	IsAdmin    bool
	IsSupplier bool
	IsCustomer bool
}

// HasAny reports whether the identity holds at least one of the given roles.
func (id Identity) HasAny(roles ...Role) bool {
	for _, r := range roles {
		switch r {
		case RoleAdmin:
			if id.IsAdmin {
				return true
			}
		case RoleSupplier:
			if id.IsSupplier {
				return true
			}
		case RoleCustomer:
			if id.IsCustomer {
				return true
			}
		}
	}
	return false
}

const identityKey = "identity"

func SetIdentity(c echo.Context, id Identity) {
	c.Set(identityKey, id)
}

func CurrentIdentity(c echo.Context) (Identity, bool) {
	id, ok := c.Get(identityKey).(Identity)
	return id, ok
}

// IdentityFromClaims maps token claims onto an Identity. Missing or
// mistyped claims degrade to the zero value for that field.
func IdentityFromClaims(claims jwt.MapClaims) Identity {
	id := Identity{}
	if sub, ok := claims["sub"].(float64); ok {
		id.UserID = uint(sub)
	}
	if v, ok := claims["username"].(string); ok {
		id.Username = v
	}
	if v, ok := claims["is_admin"].(bool); ok {
		id.IsAdmin = v
	}
	if v, ok := claims["is_supplier"].(bool); ok {
		id.IsSupplier = v
	}
	if v, ok := claims["is_customer"].(bool); ok {
		id.IsCustomer = v
	}
	return id
}

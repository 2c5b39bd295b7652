// Package auth carries the authenticated identity through a request and
// decides whether it may use a route.
package auth

import (
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/tenantportal/internal/model"
)

const identityKey = "identity"

// Identity is the account behind a validated token
type Identity struct {
	UserID uint
	Email  string
	Role   string
}

// IsManager reports whether the identity belongs to a property manager
func (i *Identity) IsManager() bool {
	return i != nil && i.Role == model.RoleManager
}

// IsTenant reports whether the identity belongs to a tenant
func (i *Identity) IsTenant() bool {
	return i != nil && i.Role == model.RoleTenant
}

// Decision is the result of an authorization check
type Decision struct {
	Allowed bool
	Reason  string
}

// Authorize checks that id is present and, when roles are given, holds one of them.
func Authorize(id *Identity, roles ...string) Decision {
	if id == nil || id.UserID == 0 {
		return Decision{Reason: "authentication required"}
	}
	if len(roles) == 0 {
		return Decision{Allowed: true}
	}
	for _, role := range roles {
		if id.Role == role {
			return Decision{Allowed: true}
		}
	}
	return Decision{Reason: fmt.Sprintf("role %q may not access this resource", id.Role)}
}

// SetIdentity stores the identity on the echo context
func SetIdentity(c echo.Context, id *Identity) {
	c.Set(identityKey, id)
}

// IdentityFrom returns the identity stored by the auth middleware, or nil
func IdentityFrom(c echo.Context) *Identity {
	id, _ := c.Get(identityKey).(*Identity)
	return id
}

package middleware

// principal.go defines the per-request security principal and its context
// accessors.  A principal exists only when the authentication gate has
// verified a bearer token; its absence is the normal state for public
// endpoints and the signal the authorization gate rejects on.

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/user-directory-api/internal/utils"
)

// principalKey is the echo context key the authentication gate stores the
// principal under.
const principalKey = "principal"

// Principal is the per-request representation of who is making the call,
// derived entirely from verified token claims.  It is created at the
// start of request processing and discarded with the request.
type Principal struct {
	Username string
	UserID   uint64
	Roles    []string
}

// HasRole reports whether the principal carries the given role.
func (p Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// PrincipalFromClaims builds a principal from verified token claims.
func PrincipalFromClaims(c utils.TokenClaims) Principal {
	return Principal{
		Username: c.Subject,
		UserID:   c.UserID,
		Roles:    append([]string(nil), c.Roles...),
	}
}

// SetPrincipal attaches the principal to the request context.
func SetPrincipal(c echo.Context, p Principal) {
	c.Set(principalKey, p)
}

// CurrentPrincipal returns the installed principal, or false when the
// request is unauthenticated.
func CurrentPrincipal(c echo.Context) (Principal, bool) {
	p, ok := c.Get(principalKey).(Principal)
	return p, ok
}

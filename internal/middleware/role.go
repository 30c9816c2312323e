package middleware // middleware provides shared request processing for handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole returns the authorization gate for a route: the request may
// proceed only when an installed principal's role set intersects the
// given roles.  Requests without a principal — no token, bad token,
// expired token — are rejected with 403 Forbidden, the same status as an
// authenticated principal with the wrong roles.  Using 403 for both cases
// is deliberate and matches the API's published behavior; do not swap the
// unauthenticated case to 401.  Routes registered without this middleware
// are public.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	// Build a set of allowed roles once at registration time.
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := CurrentPrincipal(c)
			if !ok {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			for _, r := range p.Roles {
				if allowed[r] {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
	}
}

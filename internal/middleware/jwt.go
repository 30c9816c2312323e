package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/user-directory-api/internal/utils"
)

const bearerPrefix = "Bearer "

// exemptPrefixes are the public paths the authentication gate skips
// entirely: credential exchange and liveness probing must work without a
// token.
var exemptPrefixes = []string{
	"/auth/login",
	"/auth/register",
	"/auth/health",
	"/healthz",
}

// Authenticate returns the authentication gate.  It runs on every request
// and decides exactly one thing: whether a security principal exists for
// this request.
//
// For non-exempt paths it reads the Authorization header, strips the
// Bearer prefix and verifies the token.  On success the principal built
// from the claims is installed on the context.  On any failure — missing
// header, wrong scheme, bad signature, malformed or expired token — the
// failure is logged and the request continues unauthenticated.  This gate
// never writes a 401 or 403 itself; enforcement is the authorization
// gate's job, so protected operations reject missing principals with 403.
func Authenticate(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if isExemptPath(c.Request().URL.Path) {
				return next(c)
			}
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, bearerPrefix) {
				return next(c)
			}
			raw := strings.TrimSpace(strings.TrimPrefix(auth, bearerPrefix))
			claims, err := utils.VerifyToken(secret, raw)
			if err != nil {
				c.Logger().Warnf("rejected bearer token: %v", err)
				return next(c)
			}
			SetPrincipal(c, PrincipalFromClaims(claims))
			return next(c)
		}
	}
}

// isExemptPath reports whether the path bypasses authentication.
func isExemptPath(path string) bool {
	for _, p := range exemptPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens

	"github.com/iliyamo/user-directory-api/internal/model"
)

// TokenClaims is the set of identity facts embedded in an access token.
// They are a snapshot of the user at issue time; role changes made to the
// directory afterwards are not reflected until a new token is issued.
type TokenClaims struct {
	Subject   string    // username (sub)
	UserID    uint64    // numeric directory id (user_id)
	Roles     []string  // role labels at issue time (roles)
	Email     string    // contact address (email)
	IssuedAt  time.Time // iat
	ExpiresAt time.Time // exp
}

// ErrInvalidToken is returned by VerifyToken for any token that fails
// verification: bad signature, malformed structure, or wrong signing
// method.  Expired tokens surface the library's jwt.ErrTokenExpired so
// callers can tell the two apart if they need to.
var ErrInvalidToken = errors.New("invalid token")

// IssueToken builds and signs an HS256 JWT for a user.  The claims carry
// the username as subject plus the user's id, role set and email, with
// issued-at and expiry timestamps.  The function has no side effects; the
// same user and secret always produce a token that verifies back to the
// same claims.
func IssueToken(secret string, u model.User, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub":     u.Username,
		"user_id": u.ID,
		"roles":   u.Roles,
		"email":   u.Email,
		"iat":     now.Unix(),
		"exp":     exp.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return "", err
	}
	return signed, nil
}

// VerifyToken parses a compact token string, recomputes the signature and
// checks the expiry.  On success it returns the exact claims that were
// issued.  No issuer or audience validation is performed.
func VerifyToken(secret, raw string) (TokenClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything but HMAC; an attacker must
		// not be able to downgrade the algorithm.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: unexpected signing method %v", ErrInvalidToken, t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return TokenClaims{}, err
		}
		return TokenClaims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tok.Valid {
		return TokenClaims{}, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return TokenClaims{}, ErrInvalidToken
	}
	return claimsFromMap(mc)
}

// IsTokenExpired reports whether a token can no longer be used.  Any
// verification failure counts as expired, so a malformed or forged token
// and a genuinely expired one are indistinguishable here; callers that
// need the distinction should use VerifyToken and inspect the error.
func IsTokenExpired(secret, raw string) bool {
	_, err := VerifyToken(secret, raw)
	return err != nil
}

// claimsFromMap converts the decoded claim map into typed TokenClaims.
// JSON numbers arrive as float64 and the roles list as []interface{}.
func claimsFromMap(mc jwt.MapClaims) (TokenClaims, error) {
	var c TokenClaims
	sub, ok := mc["sub"].(string)
	if !ok || sub == "" {
		return TokenClaims{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	c.Subject = sub
	if id, ok := mc["user_id"].(float64); ok {
		c.UserID = uint64(id)
	}
	if email, ok := mc["email"].(string); ok {
		c.Email = email
	}
	if raw, ok := mc["roles"].([]interface{}); ok {
		c.Roles = make([]string, 0, len(raw))
		for _, r := range raw {
			if s, ok := r.(string); ok {
				c.Roles = append(c.Roles, s)
			}
		}
	}
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		c.IssuedAt = iat.Time
	}
	exp, err := mc.GetExpirationTime()
	if err != nil || exp == nil {
		return TokenClaims{}, fmt.Errorf("%w: missing expiry", ErrInvalidToken)
	}
	c.ExpiresAt = exp.Time
	return c, nil
}

package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/user-directory-api/internal/model"
)

const testSecret = "unit-test-secret-key-minimum-256-bits-for-hs256-algo"

func testUser() model.User {
	return model.User{
		ID:       42,
		Username: "admin",
		Email:    "admin@example.com",
		Roles:    []string{"USER", "ADMIN"},
	}
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	token, err := IssueToken(testSecret, testUser(), time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := VerifyToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.ElementsMatch(t, []string{"USER", "ADMIN"}, claims.Roles)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 5*time.Second)
}

func TestVerifyExpiredToken(t *testing.T) {
	token, err := IssueToken(testSecret, testUser(), -time.Minute)
	require.NoError(t, err)

	_, err = VerifyToken(testSecret, token)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestVerifyTamperedSignature(t *testing.T) {
	token, err := IssueToken(testSecret, testUser(), time.Hour)
	require.NoError(t, err)

	// Flip a character in the signature segment.
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	parts[2] = string(sig)

	_, err = VerifyToken(testSecret, strings.Join(parts, "."))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyWrongSecret(t *testing.T) {
	token, err := IssueToken(testSecret, testUser(), time.Hour)
	require.NoError(t, err)

	_, err = VerifyToken("some-other-secret-that-is-long-enough-for-hs256!", token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyMalformedToken(t *testing.T) {
	_, err := VerifyToken(testSecret, "not.a.token")
	assert.Error(t, err)
}

func TestIsTokenExpiredConflatesFailures(t *testing.T) {
	valid, err := IssueToken(testSecret, testUser(), time.Hour)
	require.NoError(t, err)
	expired, err := IssueToken(testSecret, testUser(), -time.Minute)
	require.NoError(t, err)

	assert.False(t, IsTokenExpired(testSecret, valid))
	assert.True(t, IsTokenExpired(testSecret, expired))
	// Malformed counts as expired too.
	assert.True(t, IsTokenExpired(testSecret, "garbage"))
}

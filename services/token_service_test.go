package services

import (
	"testing"
	"time"

	"blog-cms/config"
	"blog-cms/models"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenService("secret", time.Hour)
	want := Identity{UserID: 42, Username: "alice123"}

	signed, err := tokens.Issue(want)
	require.NoError(t, err)

	got, err := tokens.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, want, *got)
}

func TestTokenCarriesSubject(t *testing.T) {
	tokens := NewTokenService("secret", time.Hour)
	signed, err := tokens.Issue(Identity{UserID: 7, Username: "bob"})
	require.NoError(t, err)

	claims := &Claims{}
	_, _, err = new(jwt.Parser).ParseUnverified(signed, claims)
	require.NoError(t, err)
	assert.Equal(t, "7", claims.Subject)
	assert.Equal(t, "bob", claims.Username)
}

func TestTokenExpires(t *testing.T) {
	svc := NewTokenService("secret", time.Hour).(*tokenService)

	signed, err := svc.Issue(Identity{UserID: 1, Username: "alice123"})
	require.NoError(t, err)

	start := time.Now()
	svc.now = func() time.Time { return start.Add(time.Hour + time.Minute) }

	_, err = svc.Verify(signed)
	assert.IsType(t, models.ErrorUnauthorized{}, err)
}

func TestTokenRejectsTampering(t *testing.T) {
	signed, err := NewTokenService("secret", time.Hour).Issue(Identity{UserID: 1, Username: "a"})
	require.NoError(t, err)

	_, err = NewTokenService("other-secret", time.Hour).Verify(signed)
	assert.IsType(t, models.ErrorUnauthorized{}, err)

	_, err = NewTokenService("secret", time.Hour).Verify("not.a.token")
	assert.IsType(t, models.ErrorUnauthorized{}, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenService("secret", time.Hour).Verify(unsigned)
	assert.IsType(t, models.ErrorUnauthorized{}, err)
}

func TestTokenTTLClamped(t *testing.T) {
	assert.Equal(t, config.MaxTokenTTL, NewTokenService("s", 48*time.Hour).(*tokenService).ttl)
	assert.Equal(t, config.MinTokenTTL, NewTokenService("s", time.Minute).(*tokenService).ttl)
}

package jwt

import (
	"testing"
	"time"

	jwtstd "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndDecode(t *testing.T) {
	tm := NewTokenManager("secret")
	payload := Payload{UserID: "u-1", Email: "a@b.c", UserName: "ada"}

	token, err := tm.GenerateAccessToken("jti-1", payload)
	require.NoError(t, err)

	claims, err := tm.DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims["sub"])
	assert.Equal(t, "jti-1", claims["jti"])
	assert.Equal(t, payload, GetPayloadFromToken(claims))
	assert.Equal(t, "u-1", GetUserIDFromToken(claims))

	exp, err := tm.GetTokenExpiryTime(token)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), exp, 5*time.Second)
}

func TestCustomExpiry(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	token, err := tm.GenerateAccessToken("j", Payload{UserID: "u"})
	require.NoError(t, err)

	exp, err := tm.GetTokenExpiryTime(token)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)
}

func TestRejectsBadTokens(t *testing.T) {
	tm := NewTokenManager("secret")

	_, err := NewTokenManager("").GenerateAccessToken("j", Payload{})
	assert.ErrorIs(t, err, ErrNeedTokenProvider)

	other, err := NewTokenManager("other").GenerateAccessToken("j", Payload{UserID: "u"})
	require.NoError(t, err)
	_, err = tm.DecodeToken(other)
	assert.Error(t, err)

	_, err = tm.DecodeToken("not-a-token")
	assert.Error(t, err)

	expired := jwtstd.NewWithClaims(jwtstd.SigningMethodHS256, jwtstd.MapClaims{
		"sub": "u", "exp": time.Now().Add(-time.Minute).Unix(),
	})
	s, err := expired.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = tm.DecodeToken(s)
	assert.ErrorIs(t, err, jwtstd.ErrTokenExpired)

	none := jwtstd.NewWithClaims(jwtstd.SigningMethodNone, jwtstd.MapClaims{
		"sub": "u", "exp": time.Now().Add(time.Hour).Unix(),
	})
	s, err = none.SignedString(jwtstd.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = tm.DecodeToken(s)
	assert.Error(t, err)
}

func TestUserIDFallsBackToSubject(t *testing.T) {
	assert.Equal(t, "sub-id", GetUserIDFromToken(map[string]any{"sub": "sub-id"}))
	assert.Equal(t, "", GetUserIDFromToken(map[string]any{}))
}

package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParseToken(t *testing.T) {
	token, err := SignToken("device-a", "https://stashd.test", "secret", time.Minute)
	require.NoError(t, err)

	claims, err := ParseToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "device-a", claims.Subject)
	assert.Equal(t, "https://stashd.test", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
	assert.NotNil(t, claims.IssuedAt)
}

func TestSignTokenNoExpiry(t *testing.T) {
	token, err := SignToken("device-a", "", "secret", 0)
	require.NoError(t, err)

	claims, err := ParseToken(token, "secret")
	require.NoError(t, err)
	assert.Nil(t, claims.ExpiresAt)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := SignToken("device-a", "", "secret", time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, "other-secret")
	assert.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	token, err := SignToken("device-a", "", "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, "secret")
	assert.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := ParseToken("not.a.token", "secret")
	assert.Error(t, err)
}

func TestParseTokenRejectsUnsignedAlg(t *testing.T) {
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject: "device-a",
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseToken(token, "secret")
	assert.Error(t, err)
}

package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken("64f0c0ffee", "alice", "admin", testSecret)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "64f0c0ffee", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "admin", claims.Role)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("id", "bob", "user", testSecret)
	require.NoError(t, err)

	_, err = ParseToken(token, "a-different-secret")
	assert.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	claims := &SignedDetails{
		UserID: "id",
		Role:   "user",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = ParseToken(expired, testSecret)
	assert.Error(t, err)
}

func TestParseTokenRejectsUnexpectedAlg(t *testing.T) {
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &SignedDetails{UserID: "id"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseToken(unsigned, testSecret)
	assert.Error(t, err)
}

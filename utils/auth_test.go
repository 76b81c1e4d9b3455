package utils

import (
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateJWTRoundTrip(t *testing.T) {
	JwtKey = []byte("test-secret")

	tokenStr, err := GenerateJWT("64f000000000000000000001", "admin")
	require.NoError(t, err)

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return JwtKey, nil
	})
	require.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, "64f000000000000000000001", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestGenerateCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := GenerateCode()
		require.Len(t, code, 5)
		assert.GreaterOrEqual(t, code, "10000")
		assert.LessOrEqual(t, code, "99999")
	}
}

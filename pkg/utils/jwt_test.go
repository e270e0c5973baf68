package utils

import (
	"testing"
	"time"

	"github.com/BinLe1988/soulmap-journal/configs"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initTestJWT(secret string, hours int) {
	InitJWT(&configs.Config{JWT: configs.JWT{Secret: secret, ExpiresIn: hours}})
}

func TestGenerateAndParseToken(t *testing.T) {
	initTestJWT("test-secret", 1)
	userID := uuid.New()

	token, err := GenerateToken(userID)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	parsed, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
	assert.Equal(t, tokenIssuer, claims.Issuer)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestParseToken_WrongSecret(t *testing.T) {
	initTestJWT("secret-a", 1)
	token, err := GenerateToken(uuid.New())
	require.NoError(t, err)

	initTestJWT("secret-b", 1)
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	initTestJWT("test-secret", 1)
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestParseToken_Garbage(t *testing.T) {
	initTestJWT("test-secret", 1)
	_, err := ParseToken("not-a-token")
	assert.Error(t, err)
}

func TestPassword(t *testing.T) {
	hashed, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hashed)
	assert.True(t, CheckPassword(hashed, "hunter22"))
	assert.False(t, CheckPassword(hashed, "wrong"))
}

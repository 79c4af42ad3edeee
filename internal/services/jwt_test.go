package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTService(t *testing.T) {
	svc := NewJWTService("secret", 7*24*time.Hour)

	assert.NotNil(t, svc)
	assert.Equal(t, 7*24*time.Hour, svc.Expiry())
}

func TestJWTService_Issue(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	userID := uuid.New()

	token, err := svc.Issue(userID)

	require.NoError(t, err)
	assert.NotEmpty(t, token.Value)
	assert.NotEmpty(t, token.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), token.ExpiresAt, 5*time.Second)
}

func TestJWTService_Issue_UniqueIDs(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	userID := uuid.New()

	a, err := svc.Issue(userID)
	require.NoError(t, err)
	b, err := svc.Issue(userID)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestJWTService_Parse_Valid(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	userID := uuid.New()

	token, err := svc.Issue(userID)
	require.NoError(t, err)

	claims, err := svc.Parse(token.Value)

	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, token.ID, claims.ID)
	assert.Equal(t, "lockbox-api", claims.Issuer)
}

func TestJWTService_Parse_WrongSecret(t *testing.T) {
	svc1 := NewJWTService("secret-1", time.Hour)
	svc2 := NewJWTService("secret-2", time.Hour)

	token, err := svc1.Issue(uuid.New())
	require.NoError(t, err)

	_, err = svc2.Parse(token.Value)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse token")
}

func TestJWTService_Parse_Expired(t *testing.T) {
	svc := NewJWTService("test-secret", time.Millisecond)

	token, err := svc.Issue(uuid.New())
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond)

	_, err = svc.Parse(token.Value)
	assert.Error(t, err)
}

func TestJWTService_Parse_Malformed(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	_, err := svc.Parse("not.a.token")
	assert.Error(t, err)
}

func TestJWTService_Parse_RejectsNoneAlgorithm(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	claims := Claims{
		UserID: uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Issuer:    "lockbox-api",
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Parse(unsigned)
	assert.Error(t, err)
}

func TestJWTService_Parse_RequiresExpiry(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	claims := Claims{
		UserID:           uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "lockbox-api"},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.Parse(signed)
	assert.Error(t, err)
}

package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestJWTManager(t *testing.T) {
	m := NewJWTManager(testSecret, time.Hour)

	token, err := m.Generate("alice")
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.UserID)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, Issuer, claims.Issuer)

	_, err = m.Generate("")
	assert.Error(t, err)
}

func TestJWTManagerRejects(t *testing.T) {
	m := NewJWTManager(testSecret, time.Hour)

	expired, err := NewJWTManager(testSecret, -time.Minute).Generate("alice")
	require.NoError(t, err)

	otherKey, err := NewJWTManager("ffffffffffffffffffffffffffffffff", time.Hour).Generate("alice")
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID:           "alice",
		RegisteredClaims: jwt.RegisteredClaims{Issuer: Issuer},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "alice"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"expired", expired},
		{"wrong key", otherKey},
		{"no expiry", noExpiry},
		{"none algorithm", noneAlg},
		{"garbage", "not-a-token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Validate(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

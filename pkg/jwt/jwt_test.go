package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "secreto-de-pruebas"

func TestGenerateParse_RoundTrip(t *testing.T) {
	tok, err := Generate(testSecret, "u-1", "u-1", "kardex-test", 5)
	require.NoError(t, err)

	userID, tenantID, err := Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
	assert.Equal(t, "u-1", tenantID)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := Generate(testSecret, "u-1", "u-1", "kardex-test", 5)
	require.NoError(t, err)

	_, _, err = Parse("otro-secreto", tok)
	assert.Error(t, err)
}

func TestParse_SinTenant(t *testing.T) {
	tok, err := Generate(testSecret, "u-1", "", "kardex-test", 5)
	require.NoError(t, err)

	_, _, err = Parse(testSecret, tok)
	assert.Error(t, err)
}

func TestSecretVacio(t *testing.T) {
	_, err := Generate("", "u", "t", "i", 5)
	assert.Error(t, err)
	_, _, err = Parse("", "x.y.z")
	assert.Error(t, err)
}

func TestGenerate_ExpiracionNoPositiva(t *testing.T) {
	for _, minutes := range []int{0, -1} {
		_, err := Generate(testSecret, "u-1", "u-1", "kardex-test", minutes)
		assert.Error(t, err, "minutos=%d", minutes)
	}
}

func TestParse_TokenVencido(t *testing.T) {
	past := time.Now().Add(-2 * time.Hour)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(past),
			ExpiresAt: jwt.NewNumericDate(past.Add(time.Hour)),
		},
		UserID:   "u-1",
		TenantID: "u-1",
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, _, err = Parse(testSecret, tok)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

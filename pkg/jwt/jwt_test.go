package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "secreto-de-prueba"

func TestGenerateParse_RoundTrip(t *testing.T) {
	tok, err := Generate(testSecret, "u-1", "c-1", "conductor", "acarreo-api", time.Hour)
	require.NoError(t, err)

	claims, err := Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "c-1", claims.CompanyID)
	assert.Equal(t, "conductor", claims.Role)
	assert.Equal(t, "acarreo-api", claims.Issuer)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := Generate(testSecret, "u-1", "c-1", "admin", "", time.Hour)
	require.NoError(t, err)

	_, err = Parse("otro-secreto", tok)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := Generate(testSecret, "u-1", "c-1", "admin", "", -time.Minute)
	require.NoError(t, err)

	_, err = Parse(testSecret, tok)
	assert.Error(t, err, "un token expirado no debe aceptarse")
}

func TestSecretVacio(t *testing.T) {
	_, err := Generate("", "u", "c", "admin", "", time.Hour)
	assert.ErrorIs(t, err, ErrEmptySecret)
	_, err = Parse("", "x.y.z")
	assert.ErrorIs(t, err, ErrEmptySecret)
}

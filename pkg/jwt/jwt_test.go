package jwt_test

import (
	"testing"

	"github.com/jhoicas/storefront-api/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	token, exp, err := jwt.Generate("secreto", "u-1", "admin@tienda.co", "admin", "storefront-api", 5)
	require.NoError(t, err)
	assert.False(t, exp.IsZero())

	claims, err := jwt.Parse("secreto", token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "admin@tienda.co", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "storefront-api", claims.Issuer)
}

func TestParse_Rejects(t *testing.T) {
	token, _, err := jwt.Generate("secreto", "u-1", "a@b.co", "user", "x", 5)
	require.NoError(t, err)

	_, err = jwt.Parse("otro", token)
	assert.Error(t, err, "firma incorrecta")

	expired, _, err := jwt.Generate("secreto", "u-1", "a@b.co", "user", "x", -1)
	require.NoError(t, err)
	_, err = jwt.Parse("secreto", expired)
	assert.Error(t, err, "token expirado")

	_, err = jwt.Parse("", token)
	assert.Error(t, err, "secret vacío")

	_, _, err = jwt.Generate("", "u", "e", "r", "i", 1)
	assert.Error(t, err)
}

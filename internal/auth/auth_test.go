package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sierras-backend/internal/config"
	"sierras-backend/internal/models"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "sierras-backend"
	return cfg
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)
	assert.True(t, VerifyPassword(hash, "hunter2"))
	assert.False(t, VerifyPassword(hash, "hunter3"))
}

func TestGenerateAndValidateToken(t *testing.T) {
	manager := NewJWTManager(testConfig())
	empresaID := 4
	usuario := &models.Usuario{
		ID:        12,
		Email:     "cliente@maderas.cl",
		Rol:       "cliente",
		EmpresaID: &empresaID,
		IsActive:  true,
	}

	token, err := manager.GenerateToken(usuario)
	require.NoError(t, err)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 12, claims.UsuarioID)
	assert.Equal(t, "cliente", claims.Rol)
	require.NotNil(t, claims.EmpresaID)
	assert.Equal(t, 4, *claims.EmpresaID)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	manager := NewJWTManager(testConfig())
	usuario := &models.Usuario{ID: 1, Email: "g@sierras.cl", Rol: "gerente", IsActive: true}

	token, err := manager.GenerateToken(usuario)
	require.NoError(t, err)

	other := testConfig()
	other.JWT.Secret = "another-secret"
	_, err = NewJWTManager(other).ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	manager := NewJWTManager(testConfig())
	_, err := manager.ValidateToken("not-a-token")
	assert.Error(t, err)
}

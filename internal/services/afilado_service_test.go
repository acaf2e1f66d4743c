package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sierras-backend/internal/models"
	"sierras-backend/internal/repositories"
)

func TestRegisterIntakeUnknownSierra(t *testing.T) {
	svc := NewAfiladoService(newFakeAfiladoStore(), newFakeSierraStore())

	_, err := svc.RegisterIntake(context.Background(), &models.CreateAfiladoRequest{
		CodigoBarras:  "S-404",
		TipoAfiladoID: 1,
	})
	assert.ErrorIs(t, err, repositories.ErrSierraNotFound)
}

func TestRegisterIntakeRejectsInactiveSierra(t *testing.T) {
	sierras := newFakeSierraStore(&models.Sierra{
		ID: 1, CodigoBarras: "S-001", EstadoID: models.EstadoDisponible, Activo: false,
	})
	svc := NewAfiladoService(newFakeAfiladoStore(), sierras)

	_, err := svc.RegisterIntake(context.Background(), &models.CreateAfiladoRequest{
		CodigoBarras:  "S-001",
		TipoAfiladoID: 1,
	})
	assert.ErrorIs(t, err, ErrSierraInactiva)
}

func TestRegisterIntakeRejectsFueraDeServicio(t *testing.T) {
	sierras := newFakeSierraStore(&models.Sierra{
		ID: 1, CodigoBarras: "S-001", EstadoID: models.EstadoFueraDeServicio, Activo: true,
	})
	svc := NewAfiladoService(newFakeAfiladoStore(), sierras)

	_, err := svc.RegisterIntake(context.Background(), &models.CreateAfiladoRequest{
		CodigoBarras:  "S-001",
		TipoAfiladoID: 1,
	})
	assert.ErrorIs(t, err, ErrSierraFueraDeServicio)
}

func TestRegisterIntakeCreatesRecordAndTransitions(t *testing.T) {
	sierras := newFakeSierraStore(&models.Sierra{
		ID: 1, CodigoBarras: "S-001", SucursalID: 5, SucursalName: "Planta Norte",
		EstadoID: models.EstadoDisponible, Activo: true,
	})
	afilados := newFakeAfiladoStore()
	svc := NewAfiladoService(afilados, sierras)

	afilado, err := svc.RegisterIntake(context.Background(), &models.CreateAfiladoRequest{
		CodigoBarras:  "S-001",
		TipoAfiladoID: 2,
		Observaciones: "diente picado",
	})
	require.NoError(t, err)
	assert.Equal(t, "S-001", afilado.CodigoBarras)
	assert.Equal(t, 5, afilado.SucursalID)
	assert.True(t, afilado.Pendiente())
	assert.Equal(t, models.EstadoEnAfilado, sierras.estadoCambios[1])
	require.Len(t, afilados.created, 1)
}

func TestRegisterIntakeAllowsSecondPendingRecord(t *testing.T) {
	sierras := newFakeSierraStore(&models.Sierra{
		ID: 1, CodigoBarras: "S-001", EstadoID: models.EstadoEnAfilado, Activo: true,
	})
	afilados := newFakeAfiladoStore(&models.Afilado{ID: 10, SierraID: 1})
	svc := NewAfiladoService(afilados, sierras)

	_, err := svc.RegisterIntake(context.Background(), &models.CreateAfiladoRequest{
		CodigoBarras:  "S-001",
		TipoAfiladoID: 1,
	})
	require.NoError(t, err)

	pendientes, err := svc.ListPendientes(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, pendientes, 2)
}

func TestMarcarListasEmptyBatch(t *testing.T) {
	svc := NewAfiladoService(newFakeAfiladoStore(), newFakeSierraStore())

	_, _, err := svc.MarcarListas(context.Background(), nil)
	assert.ErrorIs(t, err, ErrLoteVacio)
}

func TestMarcarListasSkipsSierrasOutsideWorkshop(t *testing.T) {
	sierras := newFakeSierraStore(
		&models.Sierra{ID: 1, CodigoBarras: "S-001", EstadoID: models.EstadoEnAfilado, Activo: true},
		&models.Sierra{ID: 2, CodigoBarras: "S-002", EstadoID: models.EstadoDisponible, Activo: true},
		&models.Sierra{ID: 3, CodigoBarras: "S-003", EstadoID: models.EstadoEnAfilado, Activo: true},
	)
	svc := NewAfiladoService(newFakeAfiladoStore(), sierras)

	marcadas, omitidas, err := svc.MarcarListas(context.Background(), []int{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, marcadas)
	assert.Equal(t, []string{"S-002"}, omitidas)
	assert.Equal(t, models.EstadoListaParaRetiro, sierras.estadoCambios[1])
	assert.Equal(t, models.EstadoListaParaRetiro, sierras.estadoCambios[3])
}

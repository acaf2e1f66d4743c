package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sierras-backend/internal/models"
)

func TestCommitSalidaEmptyBatch(t *testing.T) {
	svc := NewSalidaMasivaService(&fakeSalidaStore{}, newFakeAfiladoStore(), newFakeSierraStore())

	_, err := svc.CommitSalida(context.Background(), &models.CreateSalidaMasivaRequest{
		SucursalID:  1,
		FechaSalida: "2026-09-01",
	}, 7)
	assert.ErrorIs(t, err, ErrLoteVacio)
}

func TestCommitSalidaInvalidDate(t *testing.T) {
	svc := NewSalidaMasivaService(&fakeSalidaStore{}, newFakeAfiladoStore(), newFakeSierraStore())

	_, err := svc.CommitSalida(context.Background(), &models.CreateSalidaMasivaRequest{
		SucursalID:  1,
		FechaSalida: "01/09/2026",
		AfiladoIDs:  []int{10},
	}, 7)
	assert.Error(t, err)
}

func TestCommitSalidaRejectsDuplicateBatch(t *testing.T) {
	store := &fakeSalidaStore{duplicate: true}
	svc := NewSalidaMasivaService(store, newFakeAfiladoStore(), newFakeSierraStore())

	_, err := svc.CommitSalida(context.Background(), &models.CreateSalidaMasivaRequest{
		SucursalID:  1,
		FechaSalida: "2026-09-01",
		AfiladoIDs:  []int{10},
	}, 7)
	require.Error(t, err)
	assert.Nil(t, store.created)
}

func TestCommitSalidaAbortsOnDispatchedRecord(t *testing.T) {
	fecha := mustDate(t, "2026-08-30")
	sierras := newFakeSierraStore(
		&models.Sierra{ID: 1, CodigoBarras: "S-001", EstadoID: models.EstadoEnAfilado, Activo: true},
		&models.Sierra{ID: 2, CodigoBarras: "S-002", EstadoID: models.EstadoEnAfilado, Activo: true},
	)
	afilados := newFakeAfiladoStore(
		&models.Afilado{ID: 10, SierraID: 1},
		&models.Afilado{ID: 11, SierraID: 2, FechaSalida: &fecha, CodigoBarras: "S-002"},
	)
	store := &fakeSalidaStore{}
	svc := NewSalidaMasivaService(store, afilados, sierras)

	_, err := svc.CommitSalida(context.Background(), &models.CreateSalidaMasivaRequest{
		SucursalID:  1,
		FechaSalida: "2026-09-01",
		AfiladoIDs:  []int{10, 11},
	}, 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fecha de salida")
	assert.Nil(t, store.created, "nothing may be written when one record is stale")
}

func TestCommitSalidaAbortsOnSierraOutOfWorkflow(t *testing.T) {
	sierras := newFakeSierraStore(
		&models.Sierra{ID: 1, CodigoBarras: "S-001", EstadoID: models.EstadoDisponible, Activo: true},
	)
	afilados := newFakeAfiladoStore(&models.Afilado{ID: 10, SierraID: 1})
	store := &fakeSalidaStore{}
	svc := NewSalidaMasivaService(store, afilados, sierras)

	_, err := svc.CommitSalida(context.Background(), &models.CreateSalidaMasivaRequest{
		SucursalID:  1,
		FechaSalida: "2026-09-01",
		AfiladoIDs:  []int{10},
	}, 7)
	require.Error(t, err)
	assert.Nil(t, store.created)
}

func TestCommitSalidaSuccess(t *testing.T) {
	sierras := newFakeSierraStore(
		&models.Sierra{ID: 1, CodigoBarras: "S-001", EstadoID: models.EstadoEnAfilado, Activo: true},
		&models.Sierra{ID: 2, CodigoBarras: "S-002", EstadoID: models.EstadoListaParaRetiro, Activo: true},
	)
	afilados := newFakeAfiladoStore(
		&models.Afilado{ID: 10, SierraID: 1},
		&models.Afilado{ID: 11, SierraID: 2},
	)
	store := &fakeSalidaStore{}
	svc := NewSalidaMasivaService(store, afilados, sierras)

	salida, err := svc.CommitSalida(context.Background(), &models.CreateSalidaMasivaRequest{
		SucursalID:    3,
		FechaSalida:   "2026-09-01",
		Observaciones: "retiro semanal",
		AfiladoIDs:    []int{10, 11},
	}, 7)
	require.NoError(t, err)
	assert.Equal(t, 3, salida.SucursalID)
	assert.Equal(t, 7, salida.UsuarioID)
	assert.Equal(t, 2, salida.TotalAfilados)
	assert.Equal(t, []int{10, 11}, store.createdID)
}

func TestDeleteSalidaDelegates(t *testing.T) {
	store := &fakeSalidaStore{}
	svc := NewSalidaMasivaService(store, newFakeAfiladoStore(), newFakeSierraStore())

	require.NoError(t, svc.DeleteSalida(context.Background(), 42))
	assert.Equal(t, []int{42}, store.deleted)
}

func TestCommitSalidaSameSierraTwoRecords(t *testing.T) {
	sierras := newFakeSierraStore(
		&models.Sierra{ID: 1, CodigoBarras: "S-001", EstadoID: models.EstadoEnAfilado, Activo: true},
	)
	afilados := newFakeAfiladoStore(
		&models.Afilado{ID: 10, SierraID: 1},
		&models.Afilado{ID: 11, SierraID: 1},
	)
	store := &fakeSalidaStore{}
	svc := NewSalidaMasivaService(store, afilados, sierras)

	salida, err := svc.CommitSalida(context.Background(), &models.CreateSalidaMasivaRequest{
		SucursalID:  1,
		FechaSalida: "2026-09-01",
		AfiladoIDs:  []int{10, 11},
	}, 7)
	require.NoError(t, err)
	assert.Equal(t, []int{10, 11}, store.createdID, "both records of the sierra land in one commit")
	assert.Equal(t, 2, salida.TotalAfilados)
}

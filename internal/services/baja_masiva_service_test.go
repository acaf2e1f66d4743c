package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sierras-backend/internal/models"
)

func TestCommitBajaEmptyBatch(t *testing.T) {
	svc := NewBajaMasivaService(&fakeBajaStore{}, newFakeSierraStore())

	_, err := svc.CommitBaja(context.Background(), &models.CreateBajaMasivaRequest{
		FechaBaja: "2026-09-01",
	}, 7)
	assert.ErrorIs(t, err, ErrLoteVacio)
}

func TestCommitBajaRejectsDuplicateBatch(t *testing.T) {
	store := &fakeBajaStore{duplicate: true}
	sierras := newFakeSierraStore(
		&models.Sierra{ID: 1, CodigoBarras: "S-001", Activo: true},
	)
	svc := NewBajaMasivaService(store, sierras)

	_, err := svc.CommitBaja(context.Background(), &models.CreateBajaMasivaRequest{
		FechaBaja: "2026-09-01",
		SierraIDs: []int{1},
	}, 7)
	require.Error(t, err)
	assert.Nil(t, store.created)
}

func TestCommitBajaAbortsOnInactiveSierra(t *testing.T) {
	store := &fakeBajaStore{}
	sierras := newFakeSierraStore(
		&models.Sierra{ID: 1, CodigoBarras: "S-001", Activo: true},
		&models.Sierra{ID: 2, CodigoBarras: "S-002", Activo: false},
	)
	svc := NewBajaMasivaService(store, sierras)

	_, err := svc.CommitBaja(context.Background(), &models.CreateBajaMasivaRequest{
		FechaBaja: "2026-09-01",
		SierraIDs: []int{1, 2},
	}, 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "S-002")
	assert.Nil(t, store.created, "one inactive sierra must abort the whole batch")
}

func TestCommitBajaSuccess(t *testing.T) {
	store := &fakeBajaStore{}
	sierras := newFakeSierraStore(
		&models.Sierra{ID: 1, CodigoBarras: "S-001", Activo: true},
		&models.Sierra{ID: 2, CodigoBarras: "S-002", Activo: true},
	)
	svc := NewBajaMasivaService(store, sierras)

	baja, err := svc.CommitBaja(context.Background(), &models.CreateBajaMasivaRequest{
		FechaBaja:     "2026-09-01",
		Observaciones: "desgaste irreparable",
		SierraIDs:     []int{1, 2},
	}, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, baja.UsuarioID)
	assert.Equal(t, 2, baja.TotalSierras)
	assert.Equal(t, []int{1, 2}, store.createdID)
	assert.Equal(t, mustDate(t, "2026-09-01"), baja.FechaBaja)
}

func TestDeleteBajaDelegates(t *testing.T) {
	store := &fakeBajaStore{}
	svc := NewBajaMasivaService(store, newFakeSierraStore())

	require.NoError(t, svc.DeleteBaja(context.Background(), 9))
	assert.Equal(t, []int{9}, store.deleted)
}

func TestCommitBajaRejectsRepeatedSierra(t *testing.T) {
	sierras := newFakeSierraStore(
		&models.Sierra{ID: 1, CodigoBarras: "S-001", EstadoID: models.EstadoDisponible, Activo: true},
	)
	store := &fakeBajaStore{}
	svc := NewBajaMasivaService(store, sierras)

	_, err := svc.CommitBaja(context.Background(), &models.CreateBajaMasivaRequest{
		FechaBaja: "2026-09-01",
		SierraIDs: []int{1, 1},
	}, 7)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Nil(t, store.created)
}

package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sierras-backend/internal/models"
)

func TestSubmitSalidaScanEmptyBarcode(t *testing.T) {
	svc := NewScanService(newFakeSierraStore(), newFakeAfiladoStore())

	batch, outcome, err := svc.SubmitSalidaScan(context.Background(), "", nil)
	require.NoError(t, err)
	assert.Equal(t, ScanEmptyBarcode, outcome)
	assert.Empty(t, batch)
}

func TestSubmitSalidaScanNotFound(t *testing.T) {
	svc := NewScanService(newFakeSierraStore(), newFakeAfiladoStore())

	batch, outcome, err := svc.SubmitSalidaScan(context.Background(), "S-001", nil)
	require.NoError(t, err)
	assert.Equal(t, ScanNotFound, outcome)
	assert.Empty(t, batch)
}

func TestSubmitSalidaScanInvalidState(t *testing.T) {
	sierras := newFakeSierraStore(&models.Sierra{
		ID: 1, CodigoBarras: "S-001", EstadoID: models.EstadoDisponible, Activo: true,
	})
	svc := NewScanService(sierras, newFakeAfiladoStore())

	batch, outcome, err := svc.SubmitSalidaScan(context.Background(), "S-001", nil)
	require.NoError(t, err)
	assert.Equal(t, ScanInvalidState, outcome)
	assert.Empty(t, batch)
}

func TestSubmitSalidaScanNoPendingRecords(t *testing.T) {
	sierras := newFakeSierraStore(&models.Sierra{
		ID: 1, CodigoBarras: "S-001", EstadoID: models.EstadoEnAfilado, Activo: true,
	})
	svc := NewScanService(sierras, newFakeAfiladoStore())

	batch, outcome, err := svc.SubmitSalidaScan(context.Background(), "S-001", nil)
	require.NoError(t, err)
	assert.Equal(t, ScanNoPendingRecords, outcome)
	assert.Empty(t, batch)
}

func TestSubmitSalidaScanCollectsAllPendingRecords(t *testing.T) {
	despachado := time.Now()
	sierras := newFakeSierraStore(&models.Sierra{
		ID: 1, CodigoBarras: "S-001", EstadoID: models.EstadoListaParaRetiro, Activo: true,
	})
	afilados := newFakeAfiladoStore(
		&models.Afilado{ID: 10, SierraID: 1, TipoName: "Normal"},
		&models.Afilado{ID: 11, SierraID: 1, TipoName: "Reparación"},
		&models.Afilado{ID: 12, SierraID: 1, FechaSalida: &despachado},
		&models.Afilado{ID: 13, SierraID: 2},
	)
	svc := NewScanService(sierras, afilados)

	batch, outcome, err := svc.SubmitSalidaScan(context.Background(), "S-001", nil)
	require.NoError(t, err)
	assert.Equal(t, ScanAdded, outcome)
	require.Len(t, batch, 2)
	for _, item := range batch {
		assert.Equal(t, "S-001", item.CodigoBarras)
		assert.Contains(t, []int{10, 11}, item.AfiladoID)
	}
}

func TestSubmitSalidaScanDuplicateInBatch(t *testing.T) {
	sierras := newFakeSierraStore(&models.Sierra{
		ID: 1, CodigoBarras: "S-001", EstadoID: models.EstadoEnAfilado, Activo: true,
	})
	afilados := newFakeAfiladoStore(&models.Afilado{ID: 10, SierraID: 1})
	svc := NewScanService(sierras, afilados)

	batch, outcome, err := svc.SubmitSalidaScan(context.Background(), "S-001", nil)
	require.NoError(t, err)
	require.Equal(t, ScanAdded, outcome)

	again, outcome, err := svc.SubmitSalidaScan(context.Background(), "S-001", batch)
	require.NoError(t, err)
	assert.Equal(t, ScanDuplicate, outcome)
	assert.Len(t, again, len(batch))
}

func TestSubmitBajaScanAddsActiveSierra(t *testing.T) {
	sierras := newFakeSierraStore(&models.Sierra{
		ID: 1, CodigoBarras: "S-001", EstadoID: models.EstadoDisponible, Activo: true,
		TipoName: "Cinta", SucursalName: "Planta Norte",
	})
	svc := NewScanService(sierras, newFakeAfiladoStore())

	batch, outcome, err := svc.SubmitBajaScan(context.Background(), "S-001", nil)
	require.NoError(t, err)
	assert.Equal(t, ScanAdded, outcome)
	require.Len(t, batch, 1)
	assert.Equal(t, 1, batch[0].SierraID)
	assert.Equal(t, "Cinta", batch[0].TipoSierra)
}

func TestSubmitBajaScanAlreadyInactive(t *testing.T) {
	sierras := newFakeSierraStore(&models.Sierra{
		ID: 1, CodigoBarras: "S-001", EstadoID: models.EstadoFueraDeServicio, Activo: false,
	})
	svc := NewScanService(sierras, newFakeAfiladoStore())

	batch, outcome, err := svc.SubmitBajaScan(context.Background(), "S-001", nil)
	require.NoError(t, err)
	assert.Equal(t, ScanAlreadyInactive, outcome)
	assert.Empty(t, batch)
}

func TestSubmitBajaScanDuplicateInBatch(t *testing.T) {
	sierras := newFakeSierraStore(&models.Sierra{
		ID: 1, CodigoBarras: "S-001", EstadoID: models.EstadoDisponible, Activo: true,
	})
	svc := NewScanService(sierras, newFakeAfiladoStore())

	batch, _, err := svc.SubmitBajaScan(context.Background(), "S-001", nil)
	require.NoError(t, err)

	batch, outcome, err := svc.SubmitBajaScan(context.Background(), "S-001", batch)
	require.NoError(t, err)
	assert.Equal(t, ScanDuplicate, outcome)
	assert.Len(t, batch, 1)
}

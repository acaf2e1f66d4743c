package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sierras-backend/internal/models"
	"sierras-backend/internal/repositories"
	"sierras-backend/internal/services"
)

type stubSierraStore struct {
	sierra *models.Sierra
}

func (s *stubSierraStore) Get(_ context.Context, id int) (*models.Sierra, error) {
	if s.sierra != nil && s.sierra.ID == id {
		return s.sierra, nil
	}
	return nil, repositories.ErrSierraNotFound
}

func (s *stubSierraStore) GetByCodigoBarras(_ context.Context, codigo string) (*models.Sierra, error) {
	if s.sierra != nil && s.sierra.CodigoBarras == codigo {
		return s.sierra, nil
	}
	return nil, repositories.ErrSierraNotFound
}

type stubAfiladoStore struct {
	pendientes []*models.Afilado
	afilados   map[int]*models.Afilado
}

func (s *stubAfiladoStore) Get(_ context.Context, id int) (*models.Afilado, error) {
	if a, ok := s.afilados[id]; ok {
		return a, nil
	}
	return nil, repositories.ErrAfiladoNotFound
}

func (s *stubAfiladoStore) ListPendingBySierra(_ context.Context, _ int) ([]*models.Afilado, error) {
	return s.pendientes, nil
}

func (s *stubAfiladoStore) ListBySalidaMasiva(_ context.Context, _ int) ([]*models.Afilado, error) {
	return nil, nil
}

func scanHandler(sierra *models.Sierra, pendientes []*models.Afilado) *SalidaMasivaHandler {
	scanSvc := services.NewScanService(&stubSierraStore{sierra: sierra}, &stubAfiladoStore{pendientes: pendientes})
	return NewSalidaMasivaHandler(scanSvc, nil, nil)
}

func postScan(t *testing.T, h *SalidaMasivaHandler, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/salidas-masivas/scan", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	h.Scan(rec, req)
	return rec
}

func TestScanEndpointAddsPendingRecords(t *testing.T) {
	h := scanHandler(
		&models.Sierra{ID: 1, CodigoBarras: "S-001", EstadoID: models.EstadoEnAfilado, Activo: true},
		[]*models.Afilado{{ID: 10, SierraID: 1}, {ID: 11, SierraID: 1}},
	)

	rec := postScan(t, h, models.SalidaScanRequest{CodigoBarras: "S-001"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.SalidaScanResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, services.ScanAdded, resp.Outcome)
	assert.Len(t, resp.Batch, 2)
	assert.NotEmpty(t, resp.Message)
}

func TestScanEndpointUnknownBarcode(t *testing.T) {
	h := scanHandler(nil, nil)

	rec := postScan(t, h, models.SalidaScanRequest{CodigoBarras: "S-404"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.SalidaScanResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, services.ScanNotFound, resp.Outcome)
	assert.Empty(t, resp.Batch)
}

func TestScanEndpointInvalidBody(t *testing.T) {
	h := scanHandler(nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/salidas-masivas/scan", bytes.NewReader([]byte("{")))
	rec := httptest.NewRecorder()
	h.Scan(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type stubSalidaStore struct {
	createErr error
}

func (s *stubSalidaStore) CheckDuplicate(_ context.Context, _, _, _ int) (bool, error) {
	return false, nil
}

func (s *stubSalidaStore) Create(_ context.Context, salida *models.SalidaMasiva, _ []int) error {
	if s.createErr != nil {
		return s.createErr
	}
	salida.ID = 1
	return nil
}

func (s *stubSalidaStore) Get(_ context.Context, _ int) (*models.SalidaMasiva, error) {
	return nil, repositories.ErrSalidaMasivaNotFound
}

func (s *stubSalidaStore) List(_ context.Context, _ *int, _, _ *time.Time) ([]*models.SalidaMasiva, error) {
	return nil, nil
}

func (s *stubSalidaStore) Delete(_ context.Context, _ int) error {
	return nil
}

func commitHandler(createErr error) *SalidaMasivaHandler {
	sierra := &models.Sierra{ID: 1, CodigoBarras: "S-001", EstadoID: models.EstadoEnAfilado, Activo: true}
	svc := services.NewSalidaMasivaService(
		&stubSalidaStore{createErr: createErr},
		&stubAfiladoStore{afilados: map[int]*models.Afilado{10: {ID: 10, SierraID: 1}}},
		&stubSierraStore{sierra: sierra},
	)
	return NewSalidaMasivaHandler(nil, svc, nil)
}

func postCommit(t *testing.T, h *SalidaMasivaHandler, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/salidas-masivas", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	h.Commit(rec, req)
	return rec
}

func TestCommitEndpointCreated(t *testing.T) {
	h := commitHandler(nil)
	rec := postCommit(t, h, models.CreateSalidaMasivaRequest{
		SucursalID: 3, FechaSalida: "2026-03-10", AfiladoIDs: []int{10},
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCommitEndpointEmptyBatchIsBadRequest(t *testing.T) {
	h := commitHandler(nil)
	rec := postCommit(t, h, models.CreateSalidaMasivaRequest{
		SucursalID: 3, FechaSalida: "2026-03-10",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCommitEndpointConcurrentChangeIsConflict(t *testing.T) {
	h := commitHandler(repositories.ErrAfiladoModificado)
	rec := postCommit(t, h, models.CreateSalidaMasivaRequest{
		SucursalID: 3, FechaSalida: "2026-03-10", AfiladoIDs: []int{10},
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCommitEndpointStorageFailureIsServerError(t *testing.T) {
	h := commitHandler(errors.New("conexión perdida"))
	rec := postCommit(t, h, models.CreateSalidaMasivaRequest{
		SucursalID: 3, FechaSalida: "2026-03-10", AfiladoIDs: []int{10},
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

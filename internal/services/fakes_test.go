package services

import (
	"context"
	"testing"
	"time"

	"sierras-backend/internal/models"
	"sierras-backend/internal/repositories"
)

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("bad date %q: %v", value, err)
	}
	return parsed
}

// In-memory stores backing the workflow service tests.

type fakeSierraStore struct {
	sierras       map[int]*models.Sierra
	setEstadoErr  error
	estadoCambios map[int]int // sierra ID -> last estado set
}

func newFakeSierraStore(sierras ...*models.Sierra) *fakeSierraStore {
	f := &fakeSierraStore{
		sierras:       make(map[int]*models.Sierra),
		estadoCambios: make(map[int]int),
	}
	for _, s := range sierras {
		f.sierras[s.ID] = s
	}
	return f
}

func (f *fakeSierraStore) Get(_ context.Context, id int) (*models.Sierra, error) {
	sierra, ok := f.sierras[id]
	if !ok {
		return nil, repositories.ErrSierraNotFound
	}
	return sierra, nil
}

func (f *fakeSierraStore) GetByCodigoBarras(_ context.Context, codigo string) (*models.Sierra, error) {
	for _, sierra := range f.sierras {
		if sierra.CodigoBarras == codigo {
			return sierra, nil
		}
	}
	return nil, repositories.ErrSierraNotFound
}

func (f *fakeSierraStore) SetEstado(_ context.Context, id, estadoID int) error {
	if f.setEstadoErr != nil {
		return f.setEstadoErr
	}
	if sierra, ok := f.sierras[id]; ok {
		sierra.EstadoID = estadoID
	}
	f.estadoCambios[id] = estadoID
	return nil
}

type fakeAfiladoStore struct {
	afilados map[int]*models.Afilado
	created  []*models.Afilado
	nextID   int
}

func newFakeAfiladoStore(afilados ...*models.Afilado) *fakeAfiladoStore {
	f := &fakeAfiladoStore{
		afilados: make(map[int]*models.Afilado),
		nextID:   1000,
	}
	for _, a := range afilados {
		f.afilados[a.ID] = a
	}
	return f
}

func (f *fakeAfiladoStore) Get(_ context.Context, id int) (*models.Afilado, error) {
	afilado, ok := f.afilados[id]
	if !ok {
		return nil, repositories.ErrAfiladoNotFound
	}
	return afilado, nil
}

func (f *fakeAfiladoStore) ListPendingBySierra(_ context.Context, sierraID int) ([]*models.Afilado, error) {
	var pendientes []*models.Afilado
	for _, afilado := range f.afilados {
		if afilado.SierraID == sierraID && afilado.Pendiente() {
			pendientes = append(pendientes, afilado)
		}
	}
	return pendientes, nil
}

func (f *fakeAfiladoStore) ListBySalidaMasiva(_ context.Context, _ int) ([]*models.Afilado, error) {
	return nil, nil
}

func (f *fakeAfiladoStore) Create(_ context.Context, afilado *models.Afilado) error {
	f.nextID++
	afilado.ID = f.nextID
	f.afilados[afilado.ID] = afilado
	f.created = append(f.created, afilado)
	return nil
}

func (f *fakeAfiladoStore) List(_ context.Context, _ *models.AfiladoFilter) ([]*models.Afilado, error) {
	return nil, nil
}

func (f *fakeAfiladoStore) UpdateObservaciones(_ context.Context, id int, observaciones string) error {
	afilado, ok := f.afilados[id]
	if !ok {
		return repositories.ErrAfiladoNotFound
	}
	afilado.Observaciones = observaciones
	return nil
}

type fakeSalidaStore struct {
	duplicate bool
	createErr error
	created   *models.SalidaMasiva
	createdID []int
	deleted   []int
}

func (f *fakeSalidaStore) CheckDuplicate(_ context.Context, _, _, _ int) (bool, error) {
	return f.duplicate, nil
}

func (f *fakeSalidaStore) Create(_ context.Context, salida *models.SalidaMasiva, afiladoIDs []int) error {
	if f.createErr != nil {
		return f.createErr
	}
	salida.ID = 1
	f.created = salida
	f.createdID = afiladoIDs
	return nil
}

func (f *fakeSalidaStore) Get(_ context.Context, id int) (*models.SalidaMasiva, error) {
	if f.created == nil || f.created.ID != id {
		return nil, repositories.ErrSalidaMasivaNotFound
	}
	return f.created, nil
}

func (f *fakeSalidaStore) List(_ context.Context, _ *int, _, _ *time.Time) ([]*models.SalidaMasiva, error) {
	return nil, nil
}

func (f *fakeSalidaStore) Delete(_ context.Context, id int) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeBajaStore struct {
	duplicate bool
	createErr error
	created   *models.BajaMasiva
	createdID []int
	deleted   []int
}

func (f *fakeBajaStore) CheckDuplicate(_ context.Context, _, _ int) (bool, error) {
	return f.duplicate, nil
}

func (f *fakeBajaStore) Create(_ context.Context, baja *models.BajaMasiva, sierraIDs []int) error {
	if f.createErr != nil {
		return f.createErr
	}
	baja.ID = 1
	f.created = baja
	f.createdID = sierraIDs
	return nil
}

func (f *fakeBajaStore) Get(_ context.Context, id int) (*models.BajaMasiva, error) {
	if f.created == nil || f.created.ID != id {
		return nil, repositories.ErrBajaMasivaNotFound
	}
	return f.created, nil
}

func (f *fakeBajaStore) List(_ context.Context, _, _ *time.Time) ([]*models.BajaMasiva, error) {
	return nil, nil
}

func (f *fakeBajaStore) ListSierras(_ context.Context, _ int) ([]*models.BajaScanItem, error) {
	return nil, nil
}

func (f *fakeBajaStore) Delete(_ context.Context, id int) error {
	f.deleted = append(f.deleted, id)
	return nil
}

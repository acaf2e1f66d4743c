package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sierras-backend/internal/models"
	"sierras-backend/internal/repositories"
)

// BajaStore is the slice of BajaMasivaRepository this service needs.
type BajaStore interface {
	CheckDuplicate(ctx context.Context, usuarioID, batchSize int) (bool, error)
	Create(ctx context.Context, baja *models.BajaMasiva, sierraIDs []int) error
	Get(ctx context.Context, id int) (*models.BajaMasiva, error)
	List(ctx context.Context, desde, hasta *time.Time) ([]*models.BajaMasiva, error)
	ListSierras(ctx context.Context, bajaID int) ([]*models.BajaScanItem, error)
	Delete(ctx context.Context, id int) error
}

// BajaMasivaService commits and reverses bulk retirements, with the same
// validate-then-commit-atomically discipline as SalidaMasivaService.
type BajaMasivaService struct {
	BajaRepo   BajaStore
	SierraRepo SierraStore
}

func NewBajaMasivaService(bajaRepo BajaStore, sierraRepo SierraStore) *BajaMasivaService {
	return &BajaMasivaService{
		BajaRepo:   bajaRepo,
		SierraRepo: sierraRepo,
	}
}

// CommitBaja validates and commits a bulk retirement batch. A single
// inactive sierra aborts the whole batch before anything is written.
func (s *BajaMasivaService) CommitBaja(ctx context.Context, req *models.CreateBajaMasivaRequest, usuarioID int) (*models.BajaMasiva, error) {
	if len(req.SierraIDs) == 0 {
		return nil, ErrLoteVacio
	}

	fechaBaja, err := time.Parse("2006-01-02", req.FechaBaja)
	if err != nil {
		return nil, invalidf("fecha de baja inválida, se espera YYYY-MM-DD")
	}

	isDuplicate, err := s.BajaRepo.CheckDuplicate(ctx, usuarioID, len(req.SierraIDs))
	if err != nil {
		return nil, err
	}
	if isDuplicate {
		return nil, invalidf("baja masiva duplicada: un lote igual fue registrado hace segundos")
	}

	seen := make(map[int]bool, len(req.SierraIDs))
	for _, sierraID := range req.SierraIDs {
		if seen[sierraID] {
			return nil, invalidf("la sierra %d está repetida en el lote", sierraID)
		}
		seen[sierraID] = true

		sierra, err := s.SierraRepo.Get(ctx, sierraID)
		if err != nil {
			if errors.Is(err, repositories.ErrSierraNotFound) {
				return nil, invalidf("la sierra %d no existe", sierraID)
			}
			return nil, fmt.Errorf("sierra %d: %w", sierraID, err)
		}
		if !sierra.Activo {
			return nil, invalidf("la sierra %s ya está inactiva", sierra.CodigoBarras)
		}
	}

	baja := &models.BajaMasiva{
		FechaBaja:     fechaBaja,
		Observaciones: req.Observaciones,
		UsuarioID:     usuarioID,
	}

	if err := s.BajaRepo.Create(ctx, baja, req.SierraIDs); err != nil {
		return nil, err
	}

	baja.TotalSierras = len(req.SierraIDs)
	return baja, nil
}

// GetBaja retrieves one header
func (s *BajaMasivaService) GetBaja(ctx context.Context, id int) (*models.BajaMasiva, error) {
	return s.BajaRepo.Get(ctx, id)
}

// ListBajas lists headers, optionally date-scoped
func (s *BajaMasivaService) ListBajas(ctx context.Context, desde, hasta *time.Time) ([]*models.BajaMasiva, error) {
	return s.BajaRepo.List(ctx, desde, hasta)
}

// ListSierras returns the sierras linked to a header
func (s *BajaMasivaService) ListSierras(ctx context.Context, bajaID int) ([]*models.BajaScanItem, error) {
	return s.BajaRepo.ListSierras(ctx, bajaID)
}

// DeleteBaja reverses a committed retirement: each linked sierra recovers
// its recorded estado_anterior activo flag and is reset to Disponible.
// The reset target is fixed; the sierra's exact prior lifecycle state is
// not tracked and cannot be restored.
func (s *BajaMasivaService) DeleteBaja(ctx context.Context, id int) error {
	return s.BajaRepo.Delete(ctx, id)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"sierras-backend/internal/models"
	"sierras-backend/internal/timeutil"
)

var (
	ErrSierraInactiva        = errors.New("la sierra está inactiva")
	ErrSierraFueraDeServicio = errors.New("la sierra está fuera de servicio")
)

// AfiladoWriteStore extends the read-side AfiladoStore with the intake
// and edit operations this service performs.
type AfiladoWriteStore interface {
	AfiladoStore
	Create(ctx context.Context, afilado *models.Afilado) error
	List(ctx context.Context, filter *models.AfiladoFilter) ([]*models.Afilado, error)
	UpdateObservaciones(ctx context.Context, id int, observaciones string) error
}

// SierraTransitionStore extends SierraStore with lifecycle transitions.
type SierraTransitionStore interface {
	SierraStore
	SetEstado(ctx context.Context, id, estadoID int) error
}

// AfiladoService handles sharpening intakes and the workshop-side state
// transitions. The intake and the sierra transition are two separate
// writes; an intake that lands without its transition leaves the sierra
// scannable again, which the exit workflow tolerates.
type AfiladoService struct {
	AfiladoRepo AfiladoWriteStore
	SierraRepo  SierraTransitionStore
}

func NewAfiladoService(afiladoRepo AfiladoWriteStore, sierraRepo SierraTransitionStore) *AfiladoService {
	return &AfiladoService{
		AfiladoRepo: afiladoRepo,
		SierraRepo:  sierraRepo,
	}
}

// RegisterIntake creates a sharpening record for a scanned sierra and
// moves the sierra to En afilado. A sierra already in the workshop can
// receive another intake; it accumulates pending records that a single
// exit scan later collects together.
func (s *AfiladoService) RegisterIntake(ctx context.Context, req *models.CreateAfiladoRequest) (*models.Afilado, error) {
	sierra, err := s.SierraRepo.GetByCodigoBarras(ctx, req.CodigoBarras)
	if err != nil {
		return nil, err
	}
	if !sierra.Activo {
		return nil, ErrSierraInactiva
	}
	if sierra.EstadoID == models.EstadoFueraDeServicio {
		return nil, ErrSierraFueraDeServicio
	}

	afilado := &models.Afilado{
		SierraID:      sierra.ID,
		TipoAfiladoID: req.TipoAfiladoID,
		FechaAfilado:  timeutil.Now(),
		Observaciones: req.Observaciones,
	}

	if err := s.AfiladoRepo.Create(ctx, afilado); err != nil {
		return nil, err
	}

	if err := s.SierraRepo.SetEstado(ctx, sierra.ID, models.EstadoEnAfilado); err != nil {
		log.Printf("[AFILADO] Intake %d creado pero la sierra %s no pasó a En afilado: %v", afilado.ID, sierra.CodigoBarras, err)
	}

	afilado.CodigoBarras = sierra.CodigoBarras
	afilado.SucursalID = sierra.SucursalID
	afilado.SucursalName = sierra.SucursalName
	return afilado, nil
}

// MarcarListas moves sierras from En afilado to Lista para retiro once the
// workshop finishes them. Sierras in any other state are skipped and
// reported back, not failed.
func (s *AfiladoService) MarcarListas(ctx context.Context, sierraIDs []int) (marcadas []int, omitidas []string, err error) {
	if len(sierraIDs) == 0 {
		return nil, nil, ErrLoteVacio
	}

	for _, id := range sierraIDs {
		sierra, err := s.SierraRepo.Get(ctx, id)
		if err != nil {
			return marcadas, omitidas, fmt.Errorf("sierra %d: %w", id, err)
		}
		if sierra.EstadoID != models.EstadoEnAfilado {
			omitidas = append(omitidas, sierra.CodigoBarras)
			continue
		}
		if err := s.SierraRepo.SetEstado(ctx, id, models.EstadoListaParaRetiro); err != nil {
			return marcadas, omitidas, fmt.Errorf("sierra %s: %w", sierra.CodigoBarras, err)
		}
		marcadas = append(marcadas, id)
	}

	return marcadas, omitidas, nil
}

// GetAfilado retrieves one record
func (s *AfiladoService) GetAfilado(ctx context.Context, id int) (*models.Afilado, error) {
	return s.AfiladoRepo.Get(ctx, id)
}

// ListAfilados lists records matching the filter
func (s *AfiladoService) ListAfilados(ctx context.Context, filter *models.AfiladoFilter) ([]*models.Afilado, error) {
	return s.AfiladoRepo.List(ctx, filter)
}

// ListPendientes returns the open records of one sierra
func (s *AfiladoService) ListPendientes(ctx context.Context, sierraID int) ([]*models.Afilado, error) {
	return s.AfiladoRepo.ListPendingBySierra(ctx, sierraID)
}

// UpdateObservaciones edits the notes of a record
func (s *AfiladoService) UpdateObservaciones(ctx context.Context, id int, observaciones string) error {
	return s.AfiladoRepo.UpdateObservaciones(ctx, id, observaciones)
}

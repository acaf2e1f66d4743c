package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sierras-backend/internal/models"
	"sierras-backend/internal/repositories"
)

var ErrLoteVacio error = &ValidationError{Msg: "el lote está vacío"}

// SalidaStore is the slice of SalidaMasivaRepository this service needs.
type SalidaStore interface {
	CheckDuplicate(ctx context.Context, sucursalID, usuarioID, batchSize int) (bool, error)
	Create(ctx context.Context, salida *models.SalidaMasiva, afiladoIDs []int) error
	Get(ctx context.Context, id int) (*models.SalidaMasiva, error)
	List(ctx context.Context, sucursalID *int, desde, hasta *time.Time) ([]*models.SalidaMasiva, error)
	Delete(ctx context.Context, id int) error
}

// SalidaMasivaService commits and reverses bulk exits. Both workflows use
// the same discipline: the whole batch is validated before any write, and
// the repository then applies every write in one transaction, so a commit
// either lands completely or not at all.
type SalidaMasivaService struct {
	SalidaRepo  SalidaStore
	AfiladoRepo AfiladoStore
	SierraRepo  SierraStore
}

func NewSalidaMasivaService(salidaRepo SalidaStore, afiladoRepo AfiladoStore, sierraRepo SierraStore) *SalidaMasivaService {
	return &SalidaMasivaService{
		SalidaRepo:  salidaRepo,
		AfiladoRepo: afiladoRepo,
		SierraRepo:  sierraRepo,
	}
}

// CommitSalida validates and commits a bulk exit batch.
func (s *SalidaMasivaService) CommitSalida(ctx context.Context, req *models.CreateSalidaMasivaRequest, usuarioID int) (*models.SalidaMasiva, error) {
	if len(req.AfiladoIDs) == 0 {
		return nil, ErrLoteVacio
	}

	fechaSalida, err := time.Parse("2006-01-02", req.FechaSalida)
	if err != nil {
		return nil, invalidf("fecha de salida inválida, se espera YYYY-MM-DD")
	}

	isDuplicate, err := s.SalidaRepo.CheckDuplicate(ctx, req.SucursalID, usuarioID, len(req.AfiladoIDs))
	if err != nil {
		return nil, err
	}
	if isDuplicate {
		return nil, invalidf("salida masiva duplicada: un lote igual fue registrado hace segundos")
	}

	// Re-verify every record before touching anything. The repository
	// repeats these checks as UPDATE guards inside the transaction, so a
	// concurrent change between this pass and the commit still rolls the
	// whole batch back.
	for _, afiladoID := range req.AfiladoIDs {
		afilado, err := s.AfiladoRepo.Get(ctx, afiladoID)
		if err != nil {
			if errors.Is(err, repositories.ErrAfiladoNotFound) {
				return nil, invalidf("el afilado %d no existe", afiladoID)
			}
			return nil, fmt.Errorf("afilado %d: %w", afiladoID, err)
		}
		if !afilado.Pendiente() {
			return nil, invalidf("el afilado %d (sierra %s) ya tiene fecha de salida", afiladoID, afilado.CodigoBarras)
		}

		sierra, err := s.SierraRepo.Get(ctx, afilado.SierraID)
		if err != nil {
			if errors.Is(err, repositories.ErrSierraNotFound) {
				return nil, invalidf("la sierra del afilado %d no existe", afiladoID)
			}
			return nil, fmt.Errorf("sierra del afilado %d: %w", afiladoID, err)
		}
		if sierra.EstadoID != models.EstadoEnAfilado && sierra.EstadoID != models.EstadoListaParaRetiro {
			return nil, invalidf("la sierra %s no está en afilado ni lista para retiro", sierra.CodigoBarras)
		}
	}

	salida := &models.SalidaMasiva{
		SucursalID:    req.SucursalID,
		FechaSalida:   fechaSalida,
		Observaciones: req.Observaciones,
		UsuarioID:     usuarioID,
	}

	if err := s.SalidaRepo.Create(ctx, salida, req.AfiladoIDs); err != nil {
		return nil, err
	}

	salida.TotalAfilados = len(req.AfiladoIDs)
	return salida, nil
}

// GetSalida retrieves one header
func (s *SalidaMasivaService) GetSalida(ctx context.Context, id int) (*models.SalidaMasiva, error) {
	return s.SalidaRepo.Get(ctx, id)
}

// ListSalidas lists headers, optionally branch- and date-scoped
func (s *SalidaMasivaService) ListSalidas(ctx context.Context, sucursalID *int, desde, hasta *time.Time) ([]*models.SalidaMasiva, error) {
	return s.SalidaRepo.List(ctx, sucursalID, desde, hasta)
}

// ListAfilados returns the records linked to a header
func (s *SalidaMasivaService) ListAfilados(ctx context.Context, salidaID int) ([]*models.Afilado, error) {
	return s.AfiladoRepo.ListBySalidaMasiva(ctx, salidaID)
}

// DeleteSalida reverses a committed bulk exit: every linked afilado is
// reopened (fecha_salida cleared). Sierra lifecycle state is not restored;
// the reversal compensates at the record layer only. Deleting the same
// header twice fails on the second call because the header is gone.
func (s *SalidaMasivaService) DeleteSalida(ctx context.Context, id int) error {
	return s.SalidaRepo.Delete(ctx, id)
}

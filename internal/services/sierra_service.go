package services

import (
	"context"
	"errors"
	"strings"

	"sierras-backend/internal/models"
	"sierras-backend/internal/repositories"
)

var (
	ErrCodigoBarrasVacio = errors.New("el código de barras es obligatorio")
	ErrCodigoBarrasEnUso = errors.New("ya existe una sierra con ese código de barras")
)

// SierraService handles sierra registration and maintenance.
type SierraService struct {
	SierraRepo   *repositories.SierraRepository
	SucursalRepo *repositories.SucursalRepository
}

func NewSierraService(sierraRepo *repositories.SierraRepository, sucursalRepo *repositories.SucursalRepository) *SierraService {
	return &SierraService{
		SierraRepo:   sierraRepo,
		SucursalRepo: sucursalRepo,
	}
}

// CreateSierra registers a new sierra. The barcode must be unique across
// all empresas; the database enforces it too, but checking first gives the
// operator a readable error instead of a constraint violation.
func (s *SierraService) CreateSierra(ctx context.Context, req *models.CreateSierraRequest) (*models.Sierra, error) {
	codigo := strings.TrimSpace(req.CodigoBarras)
	if codigo == "" {
		return nil, ErrCodigoBarrasVacio
	}

	if _, err := s.SucursalRepo.Get(ctx, req.SucursalID); err != nil {
		return nil, err
	}

	existing, err := s.SierraRepo.GetByCodigoBarras(ctx, codigo)
	if err != nil && !errors.Is(err, repositories.ErrSierraNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCodigoBarrasEnUso
	}

	sierra := &models.Sierra{
		CodigoBarras:  codigo,
		SucursalID:    req.SucursalID,
		TipoSierraID:  req.TipoSierraID,
		EstadoID:      models.EstadoDisponible,
		Observaciones: req.Observaciones,
	}

	if err := s.SierraRepo.Create(ctx, sierra); err != nil {
		return nil, err
	}

	return s.SierraRepo.Get(ctx, sierra.ID)
}

// GetSierra retrieves a sierra by ID
func (s *SierraService) GetSierra(ctx context.Context, id int) (*models.Sierra, error) {
	return s.SierraRepo.Get(ctx, id)
}

// GetSierraByCodigo resolves a barcode
func (s *SierraService) GetSierraByCodigo(ctx context.Context, codigo string) (*models.Sierra, error) {
	return s.SierraRepo.GetByCodigoBarras(ctx, codigo)
}

// ListSierras lists sierras matching the filter, with the total for pagination
func (s *SierraService) ListSierras(ctx context.Context, filter *models.SierraFilter) ([]*models.Sierra, int, error) {
	sierras, err := s.SierraRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.SierraRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return sierras, total, nil
}

// UpdateSierra modifies a sierra. Deactivating through this path forces the
// estado to Fuera de servicio.
func (s *SierraService) UpdateSierra(ctx context.Context, id int, req *models.UpdateSierraRequest) (*models.Sierra, error) {
	if _, err := s.SucursalRepo.Get(ctx, req.SucursalID); err != nil {
		return nil, err
	}
	if err := s.SierraRepo.Update(ctx, id, req); err != nil {
		return nil, err
	}
	return s.SierraRepo.Get(ctx, id)
}

// DeactivateSierra retires a single sierra outside the bulk workflow
func (s *SierraService) DeactivateSierra(ctx context.Context, id int) error {
	return s.SierraRepo.Deactivate(ctx, id)
}

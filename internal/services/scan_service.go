package services

import (
	"context"
	"errors"

	"sierras-backend/internal/models"
	"sierras-backend/internal/repositories"
)

// Scan outcomes returned to the operator form. Ineligible scans are data,
// not errors: the batch is returned unchanged and the operator keeps scanning.
const (
	ScanAdded            = "ADDED"
	ScanDuplicate        = "DUPLICATE"
	ScanEmptyBarcode     = "EMPTY_BARCODE"
	ScanNotFound         = "NOT_FOUND"
	ScanInvalidState     = "INVALID_STATE"
	ScanNoPendingRecords = "NO_PENDING_RECORDS"
	ScanAlreadyInactive  = "ALREADY_INACTIVE"
)

// SierraStore is the slice of SierraRepository the workflow services need.
type SierraStore interface {
	Get(ctx context.Context, id int) (*models.Sierra, error)
	GetByCodigoBarras(ctx context.Context, codigo string) (*models.Sierra, error)
}

// AfiladoStore is the slice of AfiladoRepository the workflow services need.
type AfiladoStore interface {
	Get(ctx context.Context, id int) (*models.Afilado, error)
	ListPendingBySierra(ctx context.Context, sierraID int) ([]*models.Afilado, error)
	ListBySalidaMasiva(ctx context.Context, salidaID int) ([]*models.Afilado, error)
}

// ScanService converts barcode scans into validated in-memory batches for
// the bulk workflows. It never persists anything; the batch travels with
// each request and the operator can drop entries before committing.
type ScanService struct {
	SierraRepo  SierraStore
	AfiladoRepo AfiladoStore
}

func NewScanService(sierraRepo SierraStore, afiladoRepo AfiladoStore) *ScanService {
	return &ScanService{
		SierraRepo:  sierraRepo,
		AfiladoRepo: afiladoRepo,
	}
}

// SubmitSalidaScan validates one scan for the bulk exit workflow. An
// eligible sierra (En afilado or Lista para retiro) contributes ALL of its
// pending afilados, so one scan can append several entries.
func (s *ScanService) SubmitSalidaScan(ctx context.Context, codigo string, batch []models.SalidaScanItem) ([]models.SalidaScanItem, string, error) {
	if codigo == "" {
		return batch, ScanEmptyBarcode, nil
	}

	for _, item := range batch {
		if item.CodigoBarras == codigo {
			return batch, ScanDuplicate, nil
		}
	}

	sierra, err := s.SierraRepo.GetByCodigoBarras(ctx, codigo)
	if err != nil {
		if errors.Is(err, repositories.ErrSierraNotFound) {
			return batch, ScanNotFound, nil
		}
		return batch, "", err
	}

	if sierra.EstadoID != models.EstadoEnAfilado && sierra.EstadoID != models.EstadoListaParaRetiro {
		return batch, ScanInvalidState, nil
	}

	pendientes, err := s.AfiladoRepo.ListPendingBySierra(ctx, sierra.ID)
	if err != nil {
		return batch, "", err
	}
	if len(pendientes) == 0 {
		return batch, ScanNoPendingRecords, nil
	}

	for _, afilado := range pendientes {
		batch = append(batch, models.SalidaScanItem{
			AfiladoID:    afilado.ID,
			SierraID:     sierra.ID,
			CodigoBarras: sierra.CodigoBarras,
			TipoAfilado:  afilado.TipoName,
			FechaAfilado: afilado.FechaAfilado,
		})
	}

	return batch, ScanAdded, nil
}

// SubmitBajaScan validates one scan for the bulk retirement workflow.
// Each eligible sierra contributes exactly one entry.
func (s *ScanService) SubmitBajaScan(ctx context.Context, codigo string, batch []models.BajaScanItem) ([]models.BajaScanItem, string, error) {
	if codigo == "" {
		return batch, ScanEmptyBarcode, nil
	}

	for _, item := range batch {
		if item.CodigoBarras == codigo {
			return batch, ScanDuplicate, nil
		}
	}

	sierra, err := s.SierraRepo.GetByCodigoBarras(ctx, codigo)
	if err != nil {
		if errors.Is(err, repositories.ErrSierraNotFound) {
			return batch, ScanNotFound, nil
		}
		return batch, "", err
	}

	if !sierra.Activo {
		return batch, ScanAlreadyInactive, nil
	}

	batch = append(batch, models.BajaScanItem{
		SierraID:     sierra.ID,
		CodigoBarras: sierra.CodigoBarras,
		TipoSierra:   sierra.TipoName,
		Sucursal:     sierra.SucursalName,
	})

	return batch, ScanAdded, nil
}

package repositories

import (
	"context"

	"sierras-backend/internal/models"

)

// CatalogoRepository serves the small lookup tables (estados, tipos).
// These rows almost never change; the handler layer caches them in Redis.
type CatalogoRepository struct {
	DB DBTX
}

func NewCatalogoRepository(db DBTX) *CatalogoRepository {
	return &CatalogoRepository{DB: db}
}

func (r *CatalogoRepository) ListEstadosSierra(ctx context.Context) ([]*models.EstadoSierra, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, nombre FROM estados_sierra ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var estados []*models.EstadoSierra
	for rows.Next() {
		estado := &models.EstadoSierra{}
		if err := rows.Scan(&estado.ID, &estado.Nombre); err != nil {
			return nil, err
		}
		estados = append(estados, estado)
	}

	return estados, rows.Err()
}

func (r *CatalogoRepository) ListTiposSierra(ctx context.Context) ([]*models.TipoSierra, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, nombre FROM tipos_sierra ORDER BY nombre`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tipos []*models.TipoSierra
	for rows.Next() {
		tipo := &models.TipoSierra{}
		if err := rows.Scan(&tipo.ID, &tipo.Nombre); err != nil {
			return nil, err
		}
		tipos = append(tipos, tipo)
	}

	return tipos, rows.Err()
}

func (r *CatalogoRepository) ListTiposAfilado(ctx context.Context) ([]*models.TipoAfilado, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, nombre FROM tipos_afilado ORDER BY nombre`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tipos []*models.TipoAfilado
	for rows.Next() {
		tipo := &models.TipoAfilado{}
		if err := rows.Scan(&tipo.ID, &tipo.Nombre); err != nil {
			return nil, err
		}
		tipos = append(tipos, tipo)
	}

	return tipos, rows.Err()
}

package repositories

import (
	"context"
	"errors"

	"sierras-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

var ErrSucursalNotFound = errors.New("sucursal no encontrada")

type SucursalRepository struct {
	DB DBTX
}

func NewSucursalRepository(db DBTX) *SucursalRepository {
	return &SucursalRepository{DB: db}
}

func (r *SucursalRepository) Create(ctx context.Context, sucursal *models.Sucursal) error {
	query := `
		INSERT INTO sucursales (empresa_id, nombre, direccion, telefono)
		VALUES ($1, $2, $3, $4)
		RETURNING id, creado_en, actualizado_en
	`

	return r.DB.QueryRow(ctx, query,
		sucursal.EmpresaID, sucursal.Nombre, sucursal.Direccion, sucursal.Telefono,
	).Scan(&sucursal.ID, &sucursal.CreatedAt, &sucursal.UpdatedAt)
}

func (r *SucursalRepository) Get(ctx context.Context, id int) (*models.Sucursal, error) {
	query := `
		SELECT su.id, su.empresa_id, su.nombre, COALESCE(su.direccion, ''),
		       COALESCE(su.telefono, ''), su.creado_en, su.actualizado_en, e.razon_social
		FROM sucursales su
		JOIN empresas e ON su.empresa_id = e.id
		WHERE su.id = $1
	`

	sucursal := &models.Sucursal{}
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&sucursal.ID, &sucursal.EmpresaID, &sucursal.Nombre, &sucursal.Direccion,
		&sucursal.Telefono, &sucursal.CreatedAt, &sucursal.UpdatedAt, &sucursal.EmpresaName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSucursalNotFound
		}
		return nil, err
	}

	return sucursal, nil
}

// List retrieves sucursales, optionally scoped to one empresa
func (r *SucursalRepository) List(ctx context.Context, empresaID *int) ([]*models.Sucursal, error) {
	query := `
		SELECT su.id, su.empresa_id, su.nombre, COALESCE(su.direccion, ''),
		       COALESCE(su.telefono, ''), su.creado_en, su.actualizado_en, e.razon_social
		FROM sucursales su
		JOIN empresas e ON su.empresa_id = e.id
		WHERE ($1::int IS NULL OR su.empresa_id = $1)
		ORDER BY e.razon_social ASC, su.nombre ASC
	`

	rows, err := r.DB.Query(ctx, query, empresaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sucursales []*models.Sucursal
	for rows.Next() {
		sucursal := &models.Sucursal{}
		err := rows.Scan(
			&sucursal.ID, &sucursal.EmpresaID, &sucursal.Nombre, &sucursal.Direccion,
			&sucursal.Telefono, &sucursal.CreatedAt, &sucursal.UpdatedAt, &sucursal.EmpresaName,
		)
		if err != nil {
			return nil, err
		}
		sucursales = append(sucursales, sucursal)
	}

	return sucursales, rows.Err()
}

func (r *SucursalRepository) Update(ctx context.Context, id int, sucursal *models.Sucursal) error {
	query := `
		UPDATE sucursales
		SET nombre = $1, direccion = $2, telefono = $3, actualizado_en = CURRENT_TIMESTAMP
		WHERE id = $4
	`

	tag, err := r.DB.Exec(ctx, query, sucursal.Nombre, sucursal.Direccion, sucursal.Telefono, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSucursalNotFound
	}
	return nil
}

package repositories

import (
	"context"
	"errors"

	"sierras-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

var ErrEmpresaNotFound = errors.New("empresa no encontrada")

type EmpresaRepository struct {
	DB DBTX
}

func NewEmpresaRepository(db DBTX) *EmpresaRepository {
	return &EmpresaRepository{DB: db}
}

func (r *EmpresaRepository) Create(ctx context.Context, empresa *models.Empresa) error {
	query := `
		INSERT INTO empresas (razon_social, rut, telefono, email, direccion, activo)
		VALUES ($1, $2, $3, $4, $5, true)
		RETURNING id, activo, creado_en, actualizado_en
	`

	return r.DB.QueryRow(ctx, query,
		empresa.RazonSocial, empresa.RUT, empresa.Telefono, empresa.Email, empresa.Direccion,
	).Scan(&empresa.ID, &empresa.Activo, &empresa.CreatedAt, &empresa.UpdatedAt)
}

func (r *EmpresaRepository) Get(ctx context.Context, id int) (*models.Empresa, error) {
	query := `
		SELECT id, razon_social, rut, COALESCE(telefono, ''), COALESCE(email, ''),
		       COALESCE(direccion, ''), activo, creado_en, actualizado_en
		FROM empresas
		WHERE id = $1
	`

	empresa := &models.Empresa{}
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&empresa.ID, &empresa.RazonSocial, &empresa.RUT, &empresa.Telefono,
		&empresa.Email, &empresa.Direccion, &empresa.Activo,
		&empresa.CreatedAt, &empresa.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEmpresaNotFound
		}
		return nil, err
	}

	return empresa, nil
}

func (r *EmpresaRepository) List(ctx context.Context) ([]*models.Empresa, error) {
	query := `
		SELECT id, razon_social, rut, COALESCE(telefono, ''), COALESCE(email, ''),
		       COALESCE(direccion, ''), activo, creado_en, actualizado_en
		FROM empresas
		ORDER BY razon_social ASC
	`

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var empresas []*models.Empresa
	for rows.Next() {
		empresa := &models.Empresa{}
		err := rows.Scan(
			&empresa.ID, &empresa.RazonSocial, &empresa.RUT, &empresa.Telefono,
			&empresa.Email, &empresa.Direccion, &empresa.Activo,
			&empresa.CreatedAt, &empresa.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		empresas = append(empresas, empresa)
	}

	return empresas, rows.Err()
}

func (r *EmpresaRepository) Update(ctx context.Context, id int, empresa *models.Empresa) error {
	query := `
		UPDATE empresas
		SET razon_social = $1, rut = $2, telefono = $3, email = $4, direccion = $5,
		    actualizado_en = CURRENT_TIMESTAMP
		WHERE id = $6
	`

	tag, err := r.DB.Exec(ctx, query,
		empresa.RazonSocial, empresa.RUT, empresa.Telefono, empresa.Email, empresa.Direccion, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEmpresaNotFound
	}
	return nil
}

// Deactivate soft-deletes an empresa; its sucursales and sierras remain.
func (r *EmpresaRepository) Deactivate(ctx context.Context, id int) error {
	query := `
		UPDATE empresas
		SET activo = false, actualizado_en = CURRENT_TIMESTAMP
		WHERE id = $1
	`

	tag, err := r.DB.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEmpresaNotFound
	}
	return nil
}

package repositories

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"sierras-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

var ErrSierraNotFound = errors.New("sierra no encontrada")

type SierraRepository struct {
	DB DBTX
}

func NewSierraRepository(db DBTX) *SierraRepository {
	return &SierraRepository{DB: db}
}

// Create registers a new sierra. New sierras always start available and active.
func (r *SierraRepository) Create(ctx context.Context, sierra *models.Sierra) error {
	query := `
		INSERT INTO sierras (codigo_barras, sucursal_id, tipo_sierra_id, estado_id, activo, observaciones)
		VALUES ($1, $2, $3, $4, true, $5)
		RETURNING id, activo, creado_en, actualizado_en
	`

	return r.DB.QueryRow(ctx, query,
		sierra.CodigoBarras, sierra.SucursalID, sierra.TipoSierraID,
		models.EstadoDisponible, sierra.Observaciones,
	).Scan(&sierra.ID, &sierra.Activo, &sierra.CreatedAt, &sierra.UpdatedAt)
}

// Get retrieves a sierra by ID with its display relations
func (r *SierraRepository) Get(ctx context.Context, id int) (*models.Sierra, error) {
	return r.getOne(ctx, "s.id = $1", id)
}

// GetByCodigoBarras resolves a scanned barcode to a sierra.
// The codigo_barras column carries a unique constraint, so at most one row matches.
func (r *SierraRepository) GetByCodigoBarras(ctx context.Context, codigo string) (*models.Sierra, error) {
	return r.getOne(ctx, "s.codigo_barras = $1", codigo)
}

func (r *SierraRepository) getOne(ctx context.Context, where string, arg interface{}) (*models.Sierra, error) {
	query := `
		SELECT s.id, s.codigo_barras, s.sucursal_id, s.tipo_sierra_id, s.estado_id,
		       s.activo, COALESCE(s.observaciones, ''), s.creado_en, s.actualizado_en,
		       su.nombre, su.empresa_id, ts.nombre, es.nombre
		FROM sierras s
		JOIN sucursales su ON s.sucursal_id = su.id
		JOIN tipos_sierra ts ON s.tipo_sierra_id = ts.id
		JOIN estados_sierra es ON s.estado_id = es.id
		WHERE ` + where

	sierra := &models.Sierra{}
	err := r.DB.QueryRow(ctx, query, arg).Scan(
		&sierra.ID, &sierra.CodigoBarras, &sierra.SucursalID, &sierra.TipoSierraID,
		&sierra.EstadoID, &sierra.Activo, &sierra.Observaciones,
		&sierra.CreatedAt, &sierra.UpdatedAt,
		&sierra.SucursalName, &sierra.EmpresaID, &sierra.TipoName, &sierra.EstadoName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSierraNotFound
		}
		return nil, err
	}

	return sierra, nil
}

// List retrieves sierras matching the filter, newest first
func (r *SierraRepository) List(ctx context.Context, filter *models.SierraFilter) ([]*models.Sierra, error) {
	var conditions []string
	var args []interface{}

	if filter.SucursalID != nil {
		args = append(args, *filter.SucursalID)
		conditions = append(conditions, "s.sucursal_id = $"+strconv.Itoa(len(args)))
	}
	if filter.EmpresaID != nil {
		args = append(args, *filter.EmpresaID)
		conditions = append(conditions, "su.empresa_id = $"+strconv.Itoa(len(args)))
	}
	if filter.EstadoID != nil {
		args = append(args, *filter.EstadoID)
		conditions = append(conditions, "s.estado_id = $"+strconv.Itoa(len(args)))
	}
	if filter.Activo != nil {
		args = append(args, *filter.Activo)
		conditions = append(conditions, "s.activo = $"+strconv.Itoa(len(args)))
	}
	if filter.Search != nil && *filter.Search != "" {
		args = append(args, "%"+*filter.Search+"%")
		conditions = append(conditions, "s.codigo_barras ILIKE $"+strconv.Itoa(len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	args = append(args, limit)
	limitClause := "LIMIT $" + strconv.Itoa(len(args))
	args = append(args, filter.Offset)
	offsetClause := "OFFSET $" + strconv.Itoa(len(args))

	query := fmt.Sprintf(`
		SELECT s.id, s.codigo_barras, s.sucursal_id, s.tipo_sierra_id, s.estado_id,
		       s.activo, COALESCE(s.observaciones, ''), s.creado_en, s.actualizado_en,
		       su.nombre, su.empresa_id, ts.nombre, es.nombre
		FROM sierras s
		JOIN sucursales su ON s.sucursal_id = su.id
		JOIN tipos_sierra ts ON s.tipo_sierra_id = ts.id
		JOIN estados_sierra es ON s.estado_id = es.id
		%s
		ORDER BY s.creado_en DESC
		%s %s
	`, where, limitClause, offsetClause)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sierras []*models.Sierra
	for rows.Next() {
		sierra := &models.Sierra{}
		err := rows.Scan(
			&sierra.ID, &sierra.CodigoBarras, &sierra.SucursalID, &sierra.TipoSierraID,
			&sierra.EstadoID, &sierra.Activo, &sierra.Observaciones,
			&sierra.CreatedAt, &sierra.UpdatedAt,
			&sierra.SucursalName, &sierra.EmpresaID, &sierra.TipoName, &sierra.EstadoName,
		)
		if err != nil {
			return nil, err
		}
		sierras = append(sierras, sierra)
	}

	return sierras, rows.Err()
}

// Count returns the number of sierras matching the filter (for pagination)
func (r *SierraRepository) Count(ctx context.Context, filter *models.SierraFilter) (int, error) {
	var conditions []string
	var args []interface{}

	if filter.SucursalID != nil {
		args = append(args, *filter.SucursalID)
		conditions = append(conditions, "s.sucursal_id = $"+strconv.Itoa(len(args)))
	}
	if filter.EmpresaID != nil {
		args = append(args, *filter.EmpresaID)
		conditions = append(conditions, "su.empresa_id = $"+strconv.Itoa(len(args)))
	}
	if filter.EstadoID != nil {
		args = append(args, *filter.EstadoID)
		conditions = append(conditions, "s.estado_id = $"+strconv.Itoa(len(args)))
	}
	if filter.Activo != nil {
		args = append(args, *filter.Activo)
		conditions = append(conditions, "s.activo = $"+strconv.Itoa(len(args)))
	}
	if filter.Search != nil && *filter.Search != "" {
		args = append(args, "%"+*filter.Search+"%")
		conditions = append(conditions, "s.codigo_barras ILIKE $"+strconv.Itoa(len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM sierras s
		JOIN sucursales su ON s.sucursal_id = su.id
		%s
	`, where)

	var count int
	err := r.DB.QueryRow(ctx, query, args...).Scan(&count)
	return count, err
}

// Update modifies a sierra. An inactive sierra is always forced to
// Fuera de servicio, regardless of the estado the caller sends.
func (r *SierraRepository) Update(ctx context.Context, id int, req *models.UpdateSierraRequest) error {
	estadoID := req.EstadoID
	if !req.Activo {
		estadoID = models.EstadoFueraDeServicio
	}

	query := `
		UPDATE sierras
		SET sucursal_id = $1, tipo_sierra_id = $2, estado_id = $3, activo = $4,
		    observaciones = $5, actualizado_en = CURRENT_TIMESTAMP
		WHERE id = $6
	`

	tag, err := r.DB.Exec(ctx, query, req.SucursalID, req.TipoSierraID, estadoID, req.Activo, req.Observaciones, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSierraNotFound
	}
	return nil
}

// SetEstado transitions a sierra's lifecycle state
func (r *SierraRepository) SetEstado(ctx context.Context, id, estadoID int) error {
	query := `
		UPDATE sierras
		SET estado_id = $1, actualizado_en = CURRENT_TIMESTAMP
		WHERE id = $2
	`

	tag, err := r.DB.Exec(ctx, query, estadoID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSierraNotFound
	}
	return nil
}

// Deactivate retires a single sierra (activo=false, Fuera de servicio).
// Sierras are never physically destroyed.
func (r *SierraRepository) Deactivate(ctx context.Context, id int) error {
	query := `
		UPDATE sierras
		SET activo = false, estado_id = $1, actualizado_en = CURRENT_TIMESTAMP
		WHERE id = $2
	`

	tag, err := r.DB.Exec(ctx, query, models.EstadoFueraDeServicio, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSierraNotFound
	}
	return nil
}

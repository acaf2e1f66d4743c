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

var ErrAfiladoNotFound = errors.New("afilado no encontrado")

type AfiladoRepository struct {
	DB DBTX
}

func NewAfiladoRepository(db DBTX) *AfiladoRepository {
	return &AfiladoRepository{DB: db}
}

const afiladoSelect = `
	SELECT a.id, a.sierra_id, a.tipo_afilado_id, a.fecha_afilado, a.fecha_salida,
	       COALESCE(a.observaciones, ''), a.estado, a.creado_en, a.actualizado_en,
	       s.codigo_barras, ta.nombre, su.id, su.nombre
	FROM afilados a
	JOIN sierras s ON a.sierra_id = s.id
	JOIN tipos_afilado ta ON a.tipo_afilado_id = ta.id
	JOIN sucursales su ON s.sucursal_id = su.id
`

func scanAfilado(row pgx.Row) (*models.Afilado, error) {
	afilado := &models.Afilado{}
	err := row.Scan(
		&afilado.ID, &afilado.SierraID, &afilado.TipoAfiladoID,
		&afilado.FechaAfilado, &afilado.FechaSalida, &afilado.Observaciones,
		&afilado.Estado, &afilado.CreatedAt, &afilado.UpdatedAt,
		&afilado.CodigoBarras, &afilado.TipoName, &afilado.SucursalID, &afilado.SucursalName,
	)
	if err != nil {
		return nil, err
	}
	return afilado, nil
}

// Create registers a sharpening intake for a sierra
func (r *AfiladoRepository) Create(ctx context.Context, afilado *models.Afilado) error {
	query := `
		INSERT INTO afilados (sierra_id, tipo_afilado_id, fecha_afilado, observaciones, estado)
		VALUES ($1, $2, $3, $4, true)
		RETURNING id, estado, creado_en, actualizado_en
	`

	return r.DB.QueryRow(ctx, query,
		afilado.SierraID, afilado.TipoAfiladoID, afilado.FechaAfilado, afilado.Observaciones,
	).Scan(&afilado.ID, &afilado.Estado, &afilado.CreatedAt, &afilado.UpdatedAt)
}

// Get retrieves an afilado by ID
func (r *AfiladoRepository) Get(ctx context.Context, id int) (*models.Afilado, error) {
	afilado, err := scanAfilado(r.DB.QueryRow(ctx, afiladoSelect+" WHERE a.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAfiladoNotFound
		}
		return nil, err
	}
	return afilado, nil
}

// ListPendingBySierra returns every afilado of a sierra that still has no
// fecha_salida. One sierra can accumulate several pending records.
func (r *AfiladoRepository) ListPendingBySierra(ctx context.Context, sierraID int) ([]*models.Afilado, error) {
	query := afiladoSelect + `
		WHERE a.sierra_id = $1 AND a.fecha_salida IS NULL
		ORDER BY a.fecha_afilado ASC
	`

	rows, err := r.DB.Query(ctx, query, sierraID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var afilados []*models.Afilado
	for rows.Next() {
		afilado, err := scanAfilado(rows)
		if err != nil {
			return nil, err
		}
		afilados = append(afilados, afilado)
	}

	return afilados, rows.Err()
}

// List retrieves afilados matching the filter, newest intake first
func (r *AfiladoRepository) List(ctx context.Context, filter *models.AfiladoFilter) ([]*models.Afilado, error) {
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
	if filter.SoloPendientes {
		conditions = append(conditions, "a.fecha_salida IS NULL")
	}
	if filter.FechaDesde != nil {
		args = append(args, *filter.FechaDesde)
		conditions = append(conditions, "a.fecha_afilado >= $"+strconv.Itoa(len(args)))
	}
	if filter.FechaHasta != nil {
		args = append(args, *filter.FechaHasta)
		conditions = append(conditions, "a.fecha_afilado <= $"+strconv.Itoa(len(args)))
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

	query := fmt.Sprintf("%s %s ORDER BY a.fecha_afilado DESC %s %s", afiladoSelect, where, limitClause, offsetClause)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var afilados []*models.Afilado
	for rows.Next() {
		afilado, err := scanAfilado(rows)
		if err != nil {
			return nil, err
		}
		afilados = append(afilados, afilado)
	}

	return afilados, rows.Err()
}

// ListBySalidaMasiva returns the afilados linked to a bulk exit header
func (r *AfiladoRepository) ListBySalidaMasiva(ctx context.Context, salidaID int) ([]*models.Afilado, error) {
	query := afiladoSelect + `
		JOIN salida_masiva_afilados sma ON sma.afilado_id = a.id
		WHERE sma.salida_masiva_id = $1
		ORDER BY s.codigo_barras ASC
	`

	rows, err := r.DB.Query(ctx, query, salidaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var afilados []*models.Afilado
	for rows.Next() {
		afilado, err := scanAfilado(rows)
		if err != nil {
			return nil, err
		}
		afilados = append(afilados, afilado)
	}

	return afilados, rows.Err()
}

// UpdateObservaciones edits the free-text notes of a record
func (r *AfiladoRepository) UpdateObservaciones(ctx context.Context, id int, observaciones string) error {
	query := `
		UPDATE afilados
		SET observaciones = $1, actualizado_en = CURRENT_TIMESTAMP
		WHERE id = $2
	`

	tag, err := r.DB.Exec(ctx, query, observaciones, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAfiladoNotFound
	}
	return nil
}

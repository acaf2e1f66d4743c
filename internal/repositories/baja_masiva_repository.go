package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sierras-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

var ErrBajaMasivaNotFound = errors.New("baja masiva no encontrada")

// ErrSierraModificada is returned when a batch member was deactivated by
// someone else between validation and commit. The whole transaction rolls back.
var ErrSierraModificada = errors.New("una sierra del lote fue modificada por otra operación")

type BajaMasivaRepository struct {
	DB DBTX
}

func NewBajaMasivaRepository(db DBTX) *BajaMasivaRepository {
	return &BajaMasivaRepository{DB: db}
}

// CheckDuplicate reports whether an equal baja (same user, same batch size)
// was committed within the last 10 seconds.
func (r *BajaMasivaRepository) CheckDuplicate(ctx context.Context, usuarioID, batchSize int) (bool, error) {
	query := `
		SELECT COUNT(*) FROM bajas_masivas bm
		WHERE bm.usuario_id = $1
		AND (SELECT COUNT(*) FROM baja_masiva_sierras WHERE baja_masiva_id = bm.id) = $2
		AND bm.creado_en > NOW() - INTERVAL '10 seconds'
	`
	var count int
	err := r.DB.QueryRow(ctx, query, usuarioID, batchSize).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create commits a bulk retirement in a single transaction: the header row,
// one join row per sierra carrying estado_anterior (the activo flag at
// inclusion time), and the deactivation of each sierra. The deactivating
// UPDATE is guarded on activo = true; any guard miss rolls the batch back.
func (r *BajaMasivaRepository) Create(ctx context.Context, baja *models.BajaMasiva, sierraIDs []int) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("no se pudo iniciar la transacción: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO bajas_masivas (fecha_baja, observaciones, usuario_id)
		VALUES ($1, $2, $3)
		RETURNING id, creado_en
	`, baja.FechaBaja, baja.Observaciones, baja.UsuarioID,
	).Scan(&baja.ID, &baja.CreatedAt)
	if err != nil {
		return fmt.Errorf("no se pudo crear la baja masiva: %w", err)
	}

	for _, sierraID := range sierraIDs {
		_, err = tx.Exec(ctx, `
			INSERT INTO baja_masiva_sierras (baja_masiva_id, sierra_id, estado_anterior)
			SELECT $1, id, activo FROM sierras WHERE id = $2
		`, baja.ID, sierraID)
		if err != nil {
			return fmt.Errorf("no se pudo vincular la sierra %d: %w", sierraID, err)
		}

		tag, err := tx.Exec(ctx, `
			UPDATE sierras
			SET activo = false, estado_id = $1, actualizado_en = CURRENT_TIMESTAMP
			WHERE id = $2 AND activo = true
		`, models.EstadoFueraDeServicio, sierraID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrSierraModificada
		}
	}

	return tx.Commit(ctx)
}

// Get retrieves a baja masiva header by ID
func (r *BajaMasivaRepository) Get(ctx context.Context, id int) (*models.BajaMasiva, error) {
	query := `
		SELECT bm.id, bm.fecha_baja, COALESCE(bm.observaciones, ''), bm.usuario_id,
		       bm.creado_en, u.nombre,
		       (SELECT COUNT(*) FROM baja_masiva_sierras WHERE baja_masiva_id = bm.id)
		FROM bajas_masivas bm
		JOIN usuarios u ON bm.usuario_id = u.id
		WHERE bm.id = $1
	`

	baja := &models.BajaMasiva{}
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&baja.ID, &baja.FechaBaja, &baja.Observaciones, &baja.UsuarioID,
		&baja.CreatedAt, &baja.UsuarioName, &baja.TotalSierras,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBajaMasivaNotFound
		}
		return nil, err
	}

	return baja, nil
}

// List retrieves baja masiva headers, newest first
func (r *BajaMasivaRepository) List(ctx context.Context, desde, hasta *time.Time) ([]*models.BajaMasiva, error) {
	query := `
		SELECT bm.id, bm.fecha_baja, COALESCE(bm.observaciones, ''), bm.usuario_id,
		       bm.creado_en, u.nombre,
		       (SELECT COUNT(*) FROM baja_masiva_sierras WHERE baja_masiva_id = bm.id)
		FROM bajas_masivas bm
		JOIN usuarios u ON bm.usuario_id = u.id
		WHERE ($1::timestamptz IS NULL OR bm.fecha_baja >= $1)
		AND ($2::timestamptz IS NULL OR bm.fecha_baja <= $2)
		ORDER BY bm.fecha_baja DESC, bm.id DESC
	`

	rows, err := r.DB.Query(ctx, query, desde, hasta)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bajas []*models.BajaMasiva
	for rows.Next() {
		baja := &models.BajaMasiva{}
		err := rows.Scan(
			&baja.ID, &baja.FechaBaja, &baja.Observaciones, &baja.UsuarioID,
			&baja.CreatedAt, &baja.UsuarioName, &baja.TotalSierras,
		)
		if err != nil {
			return nil, err
		}
		bajas = append(bajas, baja)
	}

	return bajas, rows.Err()
}

// ListSierras returns the join rows of a baja, with the retired sierras' codes
func (r *BajaMasivaRepository) ListSierras(ctx context.Context, bajaID int) ([]*models.BajaScanItem, error) {
	query := `
		SELECT s.id, s.codigo_barras, ts.nombre, su.nombre
		FROM baja_masiva_sierras bms
		JOIN sierras s ON bms.sierra_id = s.id
		JOIN tipos_sierra ts ON s.tipo_sierra_id = ts.id
		JOIN sucursales su ON s.sucursal_id = su.id
		WHERE bms.baja_masiva_id = $1
		ORDER BY s.codigo_barras ASC
	`

	rows, err := r.DB.Query(ctx, query, bajaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.BajaScanItem
	for rows.Next() {
		item := &models.BajaScanItem{}
		if err := rows.Scan(&item.SierraID, &item.CodigoBarras, &item.TipoSierra, &item.Sucursal); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// Delete reverses a bulk retirement in a single transaction: each linked
// sierra recovers its stored estado_anterior activo flag and is reset to
// Disponible unconditionally (the sierra's exact prior lifecycle state is
// not tracked, so Disponible is the fixed restore target), then the join
// rows and the header go.
func (r *BajaMasivaRepository) Delete(ctx context.Context, id int) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("no se pudo iniciar la transacción: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		UPDATE sierras s
		SET activo = bms.estado_anterior, estado_id = $2, actualizado_en = CURRENT_TIMESTAMP
		FROM baja_masiva_sierras bms
		WHERE bms.baja_masiva_id = $1 AND bms.sierra_id = s.id
	`, id, models.EstadoDisponible)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `DELETE FROM baja_masiva_sierras WHERE baja_masiva_id = $1`, id)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM bajas_masivas WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBajaMasivaNotFound
	}

	return tx.Commit(ctx)
}

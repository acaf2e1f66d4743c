package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sierras-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

var ErrSalidaMasivaNotFound = errors.New("salida masiva no encontrada")

// ErrAfiladoModificado is returned when a batch member was closed or its
// sierra transitioned by someone else between validation and commit. The
// whole transaction rolls back.
var ErrAfiladoModificado = errors.New("un afilado del lote fue modificado por otra operación")

type SalidaMasivaRepository struct {
	DB DBTX
}

func NewSalidaMasivaRepository(db DBTX) *SalidaMasivaRepository {
	return &SalidaMasivaRepository{DB: db}
}

// CheckDuplicate reports whether an equal salida (same sucursal, same user,
// same batch size) was committed within the last 10 seconds. Guards against
// double-submit from the scan form.
func (r *SalidaMasivaRepository) CheckDuplicate(ctx context.Context, sucursalID, usuarioID, batchSize int) (bool, error) {
	query := `
		SELECT COUNT(*) FROM salidas_masivas sm
		WHERE sm.sucursal_id = $1
		AND sm.usuario_id = $2
		AND (SELECT COUNT(*) FROM salida_masiva_afilados WHERE salida_masiva_id = sm.id) = $3
		AND sm.creado_en > NOW() - INTERVAL '10 seconds'
	`
	var count int
	err := r.DB.QueryRow(ctx, query, sucursalID, usuarioID, batchSize).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create commits a bulk exit in a single transaction: the header row, one
// join row per afilado, the fecha_salida stamp on each record, and the
// transition of each distinct sierra back to Disponible. A sierra can
// contribute more than one record to a batch, so it is transitioned once,
// after all its records are stamped, never per record. The UPDATEs are
// guarded (fecha_salida IS NULL, sierra still en afilado / lista para
// retiro); if any guard misses the whole transaction rolls back, so a batch
// either lands completely or not at all.
func (r *SalidaMasivaRepository) Create(ctx context.Context, salida *models.SalidaMasiva, afiladoIDs []int) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("no se pudo iniciar la transacción: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO salidas_masivas (sucursal_id, fecha_salida, observaciones, usuario_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, creado_en
	`, salida.SucursalID, salida.FechaSalida, salida.Observaciones, salida.UsuarioID,
	).Scan(&salida.ID, &salida.CreatedAt)
	if err != nil {
		return fmt.Errorf("no se pudo crear la salida masiva: %w", err)
	}

	for _, afiladoID := range afiladoIDs {
		_, err = tx.Exec(ctx, `
			INSERT INTO salida_masiva_afilados (salida_masiva_id, afilado_id)
			VALUES ($1, $2)
		`, salida.ID, afiladoID)
		if err != nil {
			return fmt.Errorf("no se pudo vincular el afilado %d: %w", afiladoID, err)
		}

		tag, err := tx.Exec(ctx, `
			UPDATE afilados
			SET fecha_salida = $1, actualizado_en = CURRENT_TIMESTAMP
			WHERE id = $2 AND fecha_salida IS NULL
		`, salida.FechaSalida, afiladoID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrAfiladoModificado
		}
	}

	sierraIDs, err := distinctSierraIDs(ctx, tx, afiladoIDs)
	if err != nil {
		return err
	}

	for _, sierraID := range sierraIDs {
		tag, err := tx.Exec(ctx, `
			UPDATE sierras
			SET estado_id = $1, actualizado_en = CURRENT_TIMESTAMP
			WHERE id = $2 AND estado_id IN ($3, $4)
		`, models.EstadoDisponible, sierraID, models.EstadoEnAfilado, models.EstadoListaParaRetiro)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrAfiladoModificado
		}
	}

	return tx.Commit(ctx)
}

func distinctSierraIDs(ctx context.Context, tx pgx.Tx, afiladoIDs []int) ([]int, error) {
	rows, err := tx.Query(ctx, `
		SELECT DISTINCT sierra_id FROM afilados WHERE id = ANY($1) ORDER BY sierra_id
	`, afiladoIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Get retrieves a salida masiva header by ID
func (r *SalidaMasivaRepository) Get(ctx context.Context, id int) (*models.SalidaMasiva, error) {
	query := `
		SELECT sm.id, sm.sucursal_id, sm.fecha_salida, COALESCE(sm.observaciones, ''),
		       sm.usuario_id, sm.creado_en, u.nombre, su.nombre,
		       (SELECT COUNT(*) FROM salida_masiva_afilados WHERE salida_masiva_id = sm.id)
		FROM salidas_masivas sm
		JOIN usuarios u ON sm.usuario_id = u.id
		JOIN sucursales su ON sm.sucursal_id = su.id
		WHERE sm.id = $1
	`

	salida := &models.SalidaMasiva{}
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&salida.ID, &salida.SucursalID, &salida.FechaSalida, &salida.Observaciones,
		&salida.UsuarioID, &salida.CreatedAt, &salida.UsuarioName, &salida.SucursalName,
		&salida.TotalAfilados,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSalidaMasivaNotFound
		}
		return nil, err
	}

	return salida, nil
}

// List retrieves salida masiva headers, optionally branch-scoped, newest first
func (r *SalidaMasivaRepository) List(ctx context.Context, sucursalID *int, desde, hasta *time.Time) ([]*models.SalidaMasiva, error) {
	query := `
		SELECT sm.id, sm.sucursal_id, sm.fecha_salida, COALESCE(sm.observaciones, ''),
		       sm.usuario_id, sm.creado_en, u.nombre, su.nombre,
		       (SELECT COUNT(*) FROM salida_masiva_afilados WHERE salida_masiva_id = sm.id)
		FROM salidas_masivas sm
		JOIN usuarios u ON sm.usuario_id = u.id
		JOIN sucursales su ON sm.sucursal_id = su.id
		WHERE ($1::int IS NULL OR sm.sucursal_id = $1)
		AND ($2::timestamptz IS NULL OR sm.fecha_salida >= $2)
		AND ($3::timestamptz IS NULL OR sm.fecha_salida <= $3)
		ORDER BY sm.fecha_salida DESC, sm.id DESC
	`

	rows, err := r.DB.Query(ctx, query, sucursalID, desde, hasta)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var salidas []*models.SalidaMasiva
	for rows.Next() {
		salida := &models.SalidaMasiva{}
		err := rows.Scan(
			&salida.ID, &salida.SucursalID, &salida.FechaSalida, &salida.Observaciones,
			&salida.UsuarioID, &salida.CreatedAt, &salida.UsuarioName, &salida.SucursalName,
			&salida.TotalAfilados,
		)
		if err != nil {
			return nil, err
		}
		salidas = append(salidas, salida)
	}

	return salidas, rows.Err()
}

// Delete reverses a bulk exit in a single transaction: every linked afilado
// gets its fecha_salida cleared, then the join rows and the header go. The
// sierras' lifecycle state is deliberately left untouched; reversal is a
// compensating action at the record layer only.
func (r *SalidaMasivaRepository) Delete(ctx context.Context, id int) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("no se pudo iniciar la transacción: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		UPDATE afilados
		SET fecha_salida = NULL, actualizado_en = CURRENT_TIMESTAMP
		WHERE id IN (SELECT afilado_id FROM salida_masiva_afilados WHERE salida_masiva_id = $1)
	`, id)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `DELETE FROM salida_masiva_afilados WHERE salida_masiva_id = $1`, id)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM salidas_masivas WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSalidaMasivaNotFound
	}

	return tx.Commit(ctx)
}

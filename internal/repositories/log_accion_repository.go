package repositories

import (
	"context"

	"sierras-backend/internal/models"

)

type LogAccionRepository struct {
	DB DBTX
}

func NewLogAccionRepository(db DBTX) *LogAccionRepository {
	return &LogAccionRepository{DB: db}
}

// Create records one action. Callers treat failures as non-fatal; an audit
// row must never abort the operation it describes.
func (r *LogAccionRepository) Create(ctx context.Context, logEntry *models.LogAccion) error {
	query := `
		INSERT INTO log_acciones (usuario_id, tipo_accion, tipo_objeto, objeto_id, descripcion, ip)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, creado_en
	`

	return r.DB.QueryRow(ctx, query,
		logEntry.UsuarioID, logEntry.ActionType, logEntry.TargetType,
		logEntry.TargetID, logEntry.Description, logEntry.IPAddress,
	).Scan(&logEntry.ID, &logEntry.CreatedAt)
}

// List returns the most recent actions, capped at limit
func (r *LogAccionRepository) List(ctx context.Context, limit int) ([]*models.LogAccion, error) {
	if limit <= 0 || limit > 1000 {
		limit = 200
	}

	query := `
		SELECT la.id, la.usuario_id, la.tipo_accion, la.tipo_objeto, la.objeto_id,
		       la.descripcion, la.ip, la.creado_en, u.nombre
		FROM log_acciones la
		JOIN usuarios u ON la.usuario_id = u.id
		ORDER BY la.creado_en DESC
		LIMIT $1
	`

	rows, err := r.DB.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.LogAccion
	for rows.Next() {
		logEntry := &models.LogAccion{}
		err := rows.Scan(
			&logEntry.ID, &logEntry.UsuarioID, &logEntry.ActionType, &logEntry.TargetType,
			&logEntry.TargetID, &logEntry.Description, &logEntry.IPAddress,
			&logEntry.CreatedAt, &logEntry.UsuarioName,
		)
		if err != nil {
			return nil, err
		}
		logs = append(logs, logEntry)
	}

	return logs, rows.Err()
}

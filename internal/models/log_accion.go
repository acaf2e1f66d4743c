package models

import "time"

// LogAccion records one mutating admin/bulk operation for the audit view.
type LogAccion struct {
	ID          int       `json:"id"`
	UsuarioID   int       `json:"usuario_id"`
	ActionType  string    `json:"tipo_accion"` // CREATE, UPDATE, DELETE, SALIDA_MASIVA, BAJA_MASIVA
	TargetType  string    `json:"tipo_objeto"` // sierra, afilado, salida_masiva, baja_masiva, ...
	TargetID    *int      `json:"objeto_id,omitempty"`
	Description string    `json:"descripcion"`
	IPAddress   *string   `json:"ip,omitempty"`
	UsuarioName string    `json:"usuario_nombre,omitempty"`
	CreatedAt   time.Time `json:"creado_en"`
}

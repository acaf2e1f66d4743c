package models

import "time"

// Estado IDs for the sierra lifecycle (estados_sierra lookup table)
const (
	EstadoDisponible      = 1
	EstadoEnAfilado       = 2
	EstadoListaParaRetiro = 3
	EstadoFueraDeServicio = 4
)

type Sierra struct {
	ID            int       `json:"id"`
	CodigoBarras  string    `json:"codigo_barras"`
	SucursalID    int       `json:"sucursal_id"`
	TipoSierraID  int       `json:"tipo_sierra_id"`
	EstadoID      int       `json:"estado_id"`
	Activo        bool      `json:"activo"`
	Observaciones string    `json:"observaciones"`
	SucursalName  string    `json:"sucursal_nombre,omitempty"` // Denormalized for display
	TipoName      string    `json:"tipo_sierra_nombre,omitempty"`
	EstadoName    string    `json:"estado_nombre,omitempty"`
	EmpresaID     int       `json:"empresa_id,omitempty"` // Through sucursal, for tenant scoping
	CreatedAt     time.Time `json:"creado_en"`
	UpdatedAt     time.Time `json:"actualizado_en"`
}

// CreateSierraRequest represents the request body for registering a sierra
type CreateSierraRequest struct {
	CodigoBarras  string `json:"codigo_barras"`
	SucursalID    int    `json:"sucursal_id"`
	TipoSierraID  int    `json:"tipo_sierra_id"`
	Observaciones string `json:"observaciones"`
}

// UpdateSierraRequest represents the request body for updating a sierra
type UpdateSierraRequest struct {
	SucursalID    int    `json:"sucursal_id"`
	TipoSierraID  int    `json:"tipo_sierra_id"`
	EstadoID      int    `json:"estado_id"`
	Activo        bool   `json:"activo"`
	Observaciones string `json:"observaciones"`
}

// SierraFilter holds list filters for the sierras endpoint
type SierraFilter struct {
	SucursalID *int    `json:"sucursal_id,omitempty"`
	EmpresaID  *int    `json:"empresa_id,omitempty"`
	EstadoID   *int    `json:"estado_id,omitempty"`
	Activo     *bool   `json:"activo,omitempty"`
	Search     *string `json:"search,omitempty"` // Matches codigo_barras
	Limit      int     `json:"limit,omitempty"`
	Offset     int     `json:"offset,omitempty"`
}

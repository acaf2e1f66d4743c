package models

import "time"

type Afilado struct {
	ID            int        `json:"id"`
	SierraID      int        `json:"sierra_id"`
	TipoAfiladoID int        `json:"tipo_afilado_id"`
	FechaAfilado  time.Time  `json:"fecha_afilado"`
	FechaSalida   *time.Time `json:"fecha_salida"` // NULL while the record is pending
	Observaciones string     `json:"observaciones"`
	Estado        bool       `json:"estado"` // Record-level flag, independent from sierra activo
	CodigoBarras  string     `json:"codigo_barras,omitempty"` // Denormalized for display
	TipoName      string     `json:"tipo_afilado_nombre,omitempty"`
	SucursalID    int        `json:"sucursal_id,omitempty"`
	SucursalName  string     `json:"sucursal_nombre,omitempty"`
	CreatedAt     time.Time  `json:"creado_en"`
	UpdatedAt     time.Time  `json:"actualizado_en"`
}

// Pendiente reports whether the record is still open (eligible for salida masiva).
func (a *Afilado) Pendiente() bool {
	return a.FechaSalida == nil
}

// CreateAfiladoRequest represents the request body for a sharpening intake
type CreateAfiladoRequest struct {
	CodigoBarras  string `json:"codigo_barras"`
	TipoAfiladoID int    `json:"tipo_afilado_id"`
	Observaciones string `json:"observaciones"`
}

// AfiladoFilter holds list filters for the afilados endpoint
type AfiladoFilter struct {
	SucursalID      *int       `json:"sucursal_id,omitempty"`
	EmpresaID       *int       `json:"empresa_id,omitempty"`
	SoloPendientes  bool       `json:"solo_pendientes,omitempty"`
	FechaDesde      *time.Time `json:"fecha_desde,omitempty"`
	FechaHasta      *time.Time `json:"fecha_hasta,omitempty"`
	Limit           int        `json:"limit,omitempty"`
	Offset          int        `json:"offset,omitempty"`
}

package models

import "time"

type SalidaMasiva struct {
	ID            int       `json:"id"`
	SucursalID    int       `json:"sucursal_id"`
	FechaSalida   time.Time `json:"fecha_salida"`
	Observaciones string    `json:"observaciones"`
	UsuarioID     int       `json:"usuario_id"`
	UsuarioName   string    `json:"usuario_nombre,omitempty"`
	SucursalName  string    `json:"sucursal_nombre,omitempty"`
	TotalAfilados int       `json:"total_afilados,omitempty"`
	CreatedAt     time.Time `json:"creado_en"`
}

// SalidaScanItem is one entry of the working batch accumulated by barcode
// scans. A single scanned sierra can contribute several items, one per
// pending afilado.
type SalidaScanItem struct {
	AfiladoID    int       `json:"afilado_id"`
	SierraID     int       `json:"sierra_id"`
	CodigoBarras string    `json:"codigo_barras"`
	TipoAfilado  string    `json:"tipo_afilado"`
	FechaAfilado time.Time `json:"fecha_afilado"`
}

// SalidaScanRequest carries one scan plus the batch accumulated so far.
type SalidaScanRequest struct {
	CodigoBarras string           `json:"codigo_barras"`
	Batch        []SalidaScanItem `json:"batch"`
}

// SalidaScanResponse returns the updated batch and the scan outcome.
type SalidaScanResponse struct {
	Outcome string           `json:"outcome"`
	Message string           `json:"message,omitempty"`
	Batch   []SalidaScanItem `json:"batch"`
}

// CreateSalidaMasivaRequest commits a confirmed batch of pending afilados.
type CreateSalidaMasivaRequest struct {
	SucursalID    int    `json:"sucursal_id"`
	FechaSalida   string `json:"fecha_salida"` // YYYY-MM-DD
	Observaciones string `json:"observaciones"`
	AfiladoIDs    []int  `json:"afilado_ids"`
}

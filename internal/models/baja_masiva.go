package models

import "time"

type BajaMasiva struct {
	ID            int       `json:"id"`
	FechaBaja     time.Time `json:"fecha_baja"`
	Observaciones string    `json:"observaciones"`
	UsuarioID     int       `json:"usuario_id"`
	UsuarioName   string    `json:"usuario_nombre,omitempty"`
	TotalSierras  int       `json:"total_sierras,omitempty"`
	CreatedAt     time.Time `json:"creado_en"`
}

// BajaMasivaSierra is one join row; estado_anterior stores the activo flag
// the sierra had when it was included, so the deletion path can restore it.
type BajaMasivaSierra struct {
	BajaMasivaID   int  `json:"baja_masiva_id"`
	SierraID       int  `json:"sierra_id"`
	EstadoAnterior bool `json:"estado_anterior"`
}

// BajaScanItem is one entry of the retirement working batch (one per sierra).
type BajaScanItem struct {
	SierraID     int    `json:"sierra_id"`
	CodigoBarras string `json:"codigo_barras"`
	TipoSierra   string `json:"tipo_sierra"`
	Sucursal     string `json:"sucursal"`
}

// BajaScanRequest carries one scan plus the batch accumulated so far.
type BajaScanRequest struct {
	CodigoBarras string         `json:"codigo_barras"`
	Batch        []BajaScanItem `json:"batch"`
}

// BajaScanResponse returns the updated batch and the scan outcome.
type BajaScanResponse struct {
	Outcome string         `json:"outcome"`
	Message string         `json:"message,omitempty"`
	Batch   []BajaScanItem `json:"batch"`
}

// CreateBajaMasivaRequest commits a confirmed batch of active sierras.
type CreateBajaMasivaRequest struct {
	FechaBaja     string `json:"fecha_baja"` // YYYY-MM-DD
	Observaciones string `json:"observaciones"`
	SierraIDs     []int  `json:"sierra_ids"`
}

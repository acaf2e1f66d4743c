package models

// EstadoSierra is one row of the estados_sierra lookup table.
type EstadoSierra struct {
	ID     int    `json:"id"`
	Nombre string `json:"nombre"`
}

// TipoSierra is one row of the tipos_sierra lookup table.
type TipoSierra struct {
	ID     int    `json:"id"`
	Nombre string `json:"nombre"`
}

// TipoAfilado is one row of the tipos_afilado lookup table.
type TipoAfilado struct {
	ID     int    `json:"id"`
	Nombre string `json:"nombre"`
}

package models

import "time"

type Empresa struct {
	ID          int       `json:"id"`
	RazonSocial string    `json:"razon_social"`
	RUT         string    `json:"rut"`
	Telefono    string    `json:"telefono"`
	Email       string    `json:"email"`
	Direccion   string    `json:"direccion"`
	Activo      bool      `json:"activo"`
	CreatedAt   time.Time `json:"creado_en"`
	UpdatedAt   time.Time `json:"actualizado_en"`
}

type Sucursal struct {
	ID          int       `json:"id"`
	EmpresaID   int       `json:"empresa_id"`
	Nombre      string    `json:"nombre"`
	Direccion   string    `json:"direccion"`
	Telefono    string    `json:"telefono"`
	EmpresaName string    `json:"empresa_nombre,omitempty"`
	CreatedAt   time.Time `json:"creado_en"`
	UpdatedAt   time.Time `json:"actualizado_en"`
}

// CreateEmpresaRequest represents the request body for creating an empresa
type CreateEmpresaRequest struct {
	RazonSocial string `json:"razon_social"`
	RUT         string `json:"rut"`
	Telefono    string `json:"telefono"`
	Email       string `json:"email"`
	Direccion   string `json:"direccion"`
}

// CreateSucursalRequest represents the request body for creating a sucursal
type CreateSucursalRequest struct {
	EmpresaID int    `json:"empresa_id"`
	Nombre    string `json:"nombre"`
	Direccion string `json:"direccion"`
	Telefono  string `json:"telefono"`
}

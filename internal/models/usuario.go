package models

import "time"

type Usuario struct {
	ID           int       `json:"id"`
	Nombre       string    `json:"nombre"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	Rol          string    `json:"rol"`                  // gerente, administrador or cliente
	EmpresaID    *int      `json:"empresa_id,omitempty"` // Only set for cliente users
	IsActive     bool      `json:"activo"`
	CreatedAt    time.Time `json:"creado_en"`
	UpdatedAt    time.Time `json:"actualizado_en"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents the response after successful authentication
type AuthResponse struct {
	Token   string   `json:"token"`
	Usuario *Usuario `json:"usuario"`
}

// CreateUsuarioRequest represents the request body for creating a usuario
type CreateUsuarioRequest struct {
	Nombre    string `json:"nombre"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Rol       string `json:"rol"`
	EmpresaID *int   `json:"empresa_id,omitempty"`
}

// UpdateUsuarioRequest represents the request body for updating a usuario
type UpdateUsuarioRequest struct {
	Nombre    string `json:"nombre"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"` // Optional
	Rol       string `json:"rol"`
	EmpresaID *int   `json:"empresa_id,omitempty"`
}

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"sierras-backend/internal/models"
	"sierras-backend/internal/services"
)

type UsuarioHandler struct {
	Service *services.UsuarioService
	Audit   *ActionLogger
}

func NewUsuarioHandler(s *services.UsuarioService, audit *ActionLogger) *UsuarioHandler {
	return &UsuarioHandler{Service: s, Audit: audit}
}

func (h *UsuarioHandler) CreateUsuario(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUsuarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	usuario, err := h.Service.CreateUsuario(r.Context(), &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.Audit.log(r, "CREATE", "usuario", &usuario.ID, fmt.Sprintf("Usuario %s (%s)", usuario.Email, usuario.Rol))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(usuario)
}

func (h *UsuarioHandler) GetUsuario(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}

	usuario, err := h.Service.GetUsuario(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(usuario)
}

// ListUsuarios returns all usuarios
func (h *UsuarioHandler) ListUsuarios(w http.ResponseWriter, r *http.Request) {
	usuarios, err := h.Service.ListUsuarios(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(usuarios)
}

func (h *UsuarioHandler) UpdateUsuario(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}

	var req models.UpdateUsuarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	usuario, err := h.Service.UpdateUsuario(r.Context(), id, &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.Audit.log(r, "UPDATE", "usuario", &id, fmt.Sprintf("Usuario %s", usuario.Email))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(usuario)
}

// ToggleActive flips the activo flag of a usuario
func (h *UsuarioHandler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}

	if err := h.Service.ToggleActive(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	h.Audit.log(r, "UPDATE", "usuario", &id, "Cambio de estado activo")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

package handlers

import (
	"encoding/json"
	"net/http"

	"sierras-backend/internal/middleware"
	"sierras-backend/internal/models"
	"sierras-backend/internal/services"
)

type AuthHandler struct {
	Service *services.UsuarioService
}

func NewAuthHandler(s *services.UsuarioService) *AuthHandler {
	return &AuthHandler{Service: s}
}

// Login authenticates and returns a JWT plus the usuario profile
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.Service.Login(r.Context(), &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Me returns the profile of the authenticated usuario
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	usuarioID, ok := middleware.GetUsuarioIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	usuario, err := h.Service.GetUsuario(r.Context(), usuarioID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(usuario)
}

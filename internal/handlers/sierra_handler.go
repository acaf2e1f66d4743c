package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"sierras-backend/internal/cache"
	"sierras-backend/internal/models"
	"sierras-backend/internal/repositories"
	"sierras-backend/internal/services"
)

type SierraHandler struct {
	Service *services.SierraService
	Audit   *ActionLogger
}

func NewSierraHandler(s *services.SierraService, audit *ActionLogger) *SierraHandler {
	return &SierraHandler{Service: s, Audit: audit}
}

func (h *SierraHandler) CreateSierra(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSierraRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	sierra, err := h.Service.CreateSierra(r.Context(), &req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, services.ErrCodigoBarrasEnUso) {
			status = http.StatusConflict
		}
		http.Error(w, err.Error(), status)
		return
	}

	h.Audit.log(r, "CREATE", "sierra", &sierra.ID, fmt.Sprintf("Sierra %s", sierra.CodigoBarras))
	cache.InvalidateResumen(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(sierra)
}

func (h *SierraHandler) GetSierra(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}

	sierra, err := h.Service.GetSierra(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sierra)
}

// GetByCodigo resolves a barcode to a sierra, for the scan forms
func (h *SierraHandler) GetByCodigo(w http.ResponseWriter, r *http.Request) {
	codigo := r.URL.Query().Get("codigo")
	if codigo == "" {
		http.Error(w, "codigo es obligatorio", http.StatusBadRequest)
		return
	}

	sierra, err := h.Service.GetSierraByCodigo(r.Context(), codigo)
	if err != nil {
		if errors.Is(err, repositories.ErrSierraNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sierra)
}

// ListSierras lists sierras with filters. Cliente sessions are always
// scoped to their own empresa regardless of the query string.
func (h *SierraHandler) ListSierras(w http.ResponseWriter, r *http.Request) {
	filter := &models.SierraFilter{
		SucursalID: queryInt(r, "sucursal_id"),
		EmpresaID:  empresaScope(r),
		EstadoID:   queryInt(r, "estado_id"),
	}

	if raw := r.URL.Query().Get("activo"); raw != "" {
		activo := raw == "true"
		filter.Activo = &activo
	}
	if search := r.URL.Query().Get("search"); search != "" {
		filter.Search = &search
	}
	if limit := queryInt(r, "limit"); limit != nil {
		filter.Limit = *limit
	}
	if offset := queryInt(r, "offset"); offset != nil {
		filter.Offset = *offset
	}

	sierras, total, err := h.Service.ListSierras(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"sierras": sierras,
		"total":   total,
	})
}

func (h *SierraHandler) UpdateSierra(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}

	var req models.UpdateSierraRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	sierra, err := h.Service.UpdateSierra(r.Context(), id, &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.Audit.log(r, "UPDATE", "sierra", &id, fmt.Sprintf("Sierra %s", sierra.CodigoBarras))
	cache.InvalidateResumen(r.Context())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sierra)
}

// DeactivateSierra retires one sierra outside the bulk workflow
func (h *SierraHandler) DeactivateSierra(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}

	if err := h.Service.DeactivateSierra(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	h.Audit.log(r, "DELETE", "sierra", &id, "Sierra dada de baja individualmente")
	cache.InvalidateResumen(r.Context())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

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

type AfiladoHandler struct {
	Service *services.AfiladoService
	Audit   *ActionLogger
}

func NewAfiladoHandler(s *services.AfiladoService, audit *ActionLogger) *AfiladoHandler {
	return &AfiladoHandler{Service: s, Audit: audit}
}

// RegisterIntake receives a workshop scan and opens a sharpening record
func (h *AfiladoHandler) RegisterIntake(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAfiladoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	afilado, err := h.Service.RegisterIntake(r.Context(), &req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, repositories.ErrSierraNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}

	h.Audit.log(r, "CREATE", "afilado", &afilado.ID, fmt.Sprintf("Ingreso de sierra %s", afilado.CodigoBarras))
	cache.InvalidateResumen(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(afilado)
}

// MarcarListas moves finished sierras to Lista para retiro
func (h *AfiladoHandler) MarcarListas(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SierraIDs []int `json:"sierra_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	marcadas, omitidas, err := h.Service.MarcarListas(r.Context(), req.SierraIDs)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.Audit.log(r, "UPDATE", "sierra", nil, fmt.Sprintf("%d sierras marcadas listas para retiro", len(marcadas)))
	cache.InvalidateResumen(r.Context())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"marcadas": marcadas,
		"omitidas": omitidas,
	})
}

func (h *AfiladoHandler) GetAfilado(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}

	afilado, err := h.Service.GetAfilado(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(afilado)
}

// ListAfilados lists records with filters, cliente-scoped
func (h *AfiladoHandler) ListAfilados(w http.ResponseWriter, r *http.Request) {
	filter := &models.AfiladoFilter{
		SucursalID:     queryInt(r, "sucursal_id"),
		EmpresaID:      empresaScope(r),
		SoloPendientes: r.URL.Query().Get("pendientes") == "true",
		FechaDesde:     queryDate(r, "desde"),
		FechaHasta:     queryDate(r, "hasta"),
	}
	if limit := queryInt(r, "limit"); limit != nil {
		filter.Limit = *limit
	}
	if offset := queryInt(r, "offset"); offset != nil {
		filter.Offset = *offset
	}

	afilados, err := h.Service.ListAfilados(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(afilados)
}

// ListPendientes returns the open records of one sierra
func (h *AfiladoHandler) ListPendientes(w http.ResponseWriter, r *http.Request) {
	sierraID, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}

	afilados, err := h.Service.ListPendientes(r.Context(), sierraID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(afilados)
}

// UpdateObservaciones edits the notes of one record
func (h *AfiladoHandler) UpdateObservaciones(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}

	var req struct {
		Observaciones string `json:"observaciones"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Service.UpdateObservaciones(r.Context(), id, req.Observaciones); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	h.Audit.log(r, "UPDATE", "afilado", &id, "Observaciones editadas")
	cache.InvalidateResumen(r.Context())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

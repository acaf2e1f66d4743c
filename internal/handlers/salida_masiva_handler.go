package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"sierras-backend/internal/cache"
	"sierras-backend/internal/metrics"
	"sierras-backend/internal/middleware"
	"sierras-backend/internal/models"
	"sierras-backend/internal/repositories"
	"sierras-backend/internal/services"
)

// scanMessages maps scan outcomes to operator-facing text
var scanMessages = map[string]string{
	services.ScanAdded:            "Agregada al lote",
	services.ScanDuplicate:        "La sierra ya está en el lote",
	services.ScanEmptyBarcode:     "Código de barras vacío",
	services.ScanNotFound:         "No existe una sierra con ese código",
	services.ScanInvalidState:     "La sierra no está en afilado ni lista para retiro",
	services.ScanNoPendingRecords: "La sierra no tiene afilados pendientes",
	services.ScanAlreadyInactive:  "La sierra ya está dada de baja",
}

type SalidaMasivaHandler struct {
	ScanSvc *services.ScanService
	Service *services.SalidaMasivaService
	Audit   *ActionLogger
}

func NewSalidaMasivaHandler(scanSvc *services.ScanService, service *services.SalidaMasivaService, audit *ActionLogger) *SalidaMasivaHandler {
	return &SalidaMasivaHandler{
		ScanSvc: scanSvc,
		Service: service,
		Audit:   audit,
	}
}

// Scan validates one barcode against the working batch. The batch lives
// in the client; this endpoint is stateless and just returns the updated
// batch plus the outcome.
func (h *SalidaMasivaHandler) Scan(w http.ResponseWriter, r *http.Request) {
	var req models.SalidaScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	batch, outcome, err := h.ScanSvc.SubmitSalidaScan(r.Context(), req.CodigoBarras, req.Batch)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.SalidaScanResponse{
		Outcome: outcome,
		Message: scanMessages[outcome],
		Batch:   batch,
	})
}

// Commit persists a confirmed batch as one salida masiva
func (h *SalidaMasivaHandler) Commit(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSalidaMasivaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	usuarioID, _ := middleware.GetUsuarioIDFromContext(r.Context())

	salida, err := h.Service.CommitSalida(r.Context(), &req, usuarioID)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case services.IsValidation(err):
			status = http.StatusBadRequest
		case errors.Is(err, repositories.ErrAfiladoModificado):
			status = http.StatusConflict
		}
		http.Error(w, err.Error(), status)
		return
	}

	metrics.SalidasMasivasTotal.Inc()
	h.Audit.log(r, "SALIDA_MASIVA", "salida_masiva", &salida.ID,
		fmt.Sprintf("Salida masiva con %d afilados", salida.TotalAfilados))
	cache.InvalidateResumen(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(salida)
}

func (h *SalidaMasivaHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}

	salida, err := h.Service.GetSalida(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(salida)
}

func (h *SalidaMasivaHandler) List(w http.ResponseWriter, r *http.Request) {
	salidas, err := h.Service.ListSalidas(r.Context(), queryInt(r, "sucursal_id"), queryDate(r, "desde"), queryDate(r, "hasta"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(salidas)
}

// ListAfilados returns the records dispatched by one salida
func (h *SalidaMasivaHandler) ListAfilados(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}

	afilados, err := h.Service.ListAfilados(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(afilados)
}

// Delete reverses a salida masiva, reopening its afilados
func (h *SalidaMasivaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}

	if err := h.Service.DeleteSalida(r.Context(), id); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrSalidaMasivaNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}

	h.Audit.log(r, "DELETE", "salida_masiva", &id, "Salida masiva revertida")
	cache.InvalidateResumen(r.Context())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

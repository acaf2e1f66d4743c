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

type BajaMasivaHandler struct {
	ScanSvc *services.ScanService
	Service *services.BajaMasivaService
	Audit   *ActionLogger
}

func NewBajaMasivaHandler(scanSvc *services.ScanService, service *services.BajaMasivaService, audit *ActionLogger) *BajaMasivaHandler {
	return &BajaMasivaHandler{
		ScanSvc: scanSvc,
		Service: service,
		Audit:   audit,
	}
}

// Scan validates one barcode against the retirement working batch
func (h *BajaMasivaHandler) Scan(w http.ResponseWriter, r *http.Request) {
	var req models.BajaScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	batch, outcome, err := h.ScanSvc.SubmitBajaScan(r.Context(), req.CodigoBarras, req.Batch)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.BajaScanResponse{
		Outcome: outcome,
		Message: scanMessages[outcome],
		Batch:   batch,
	})
}

// Commit persists a confirmed batch as one baja masiva
func (h *BajaMasivaHandler) Commit(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBajaMasivaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	usuarioID, _ := middleware.GetUsuarioIDFromContext(r.Context())

	baja, err := h.Service.CommitBaja(r.Context(), &req, usuarioID)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case services.IsValidation(err):
			status = http.StatusBadRequest
		case errors.Is(err, repositories.ErrSierraModificada):
			status = http.StatusConflict
		}
		http.Error(w, err.Error(), status)
		return
	}

	metrics.BajasMasivasTotal.Inc()
	h.Audit.log(r, "BAJA_MASIVA", "baja_masiva", &baja.ID,
		fmt.Sprintf("Baja masiva con %d sierras", baja.TotalSierras))
	cache.InvalidateResumen(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(baja)
}

func (h *BajaMasivaHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}

	baja, err := h.Service.GetBaja(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(baja)
}

func (h *BajaMasivaHandler) List(w http.ResponseWriter, r *http.Request) {
	bajas, err := h.Service.ListBajas(r.Context(), queryDate(r, "desde"), queryDate(r, "hasta"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bajas)
}

// ListSierras returns the sierras retired by one baja
func (h *BajaMasivaHandler) ListSierras(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}

	sierras, err := h.Service.ListSierras(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sierras)
}

// Delete reverses a baja masiva. Sierras recover their previous activo
// flag and return to Disponible.
func (h *BajaMasivaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}

	if err := h.Service.DeleteBaja(r.Context(), id); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrBajaMasivaNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}

	h.Audit.log(r, "DELETE", "baja_masiva", &id, "Baja masiva revertida")
	cache.InvalidateResumen(r.Context())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

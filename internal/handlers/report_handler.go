package handlers

import (
	"fmt"
	"net/http"
	"time"

	"sierras-backend/internal/models"
	"sierras-backend/internal/services"
)

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(s *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: s}
}

func serveDownload(w http.ResponseWriter, filename, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Write(data)
}

// AfiladosCSV downloads the sharpening records export
func (h *ReportHandler) AfiladosCSV(w http.ResponseWriter, r *http.Request) {
	filter := &models.AfiladoFilter{
		SucursalID:     queryInt(r, "sucursal_id"),
		EmpresaID:      empresaScope(r),
		SoloPendientes: r.URL.Query().Get("pendientes") == "true",
		FechaDesde:     queryDate(r, "desde"),
		FechaHasta:     queryDate(r, "hasta"),
		Limit:          500,
	}

	data, err := h.Service.GenerateAfiladosCSV(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	serveDownload(w, "afilados.csv", "text/csv", data)
}

// SalidasCSV downloads the bulk exit export
func (h *ReportHandler) SalidasCSV(w http.ResponseWriter, r *http.Request) {
	data, err := h.Service.GenerateSalidasCSV(r.Context(), queryInt(r, "sucursal_id"), queryDate(r, "desde"), queryDate(r, "hasta"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	serveDownload(w, "salidas_masivas.csv", "text/csv", data)
}

// BajasCSV downloads the bulk retirement export
func (h *ReportHandler) BajasCSV(w http.ResponseWriter, r *http.Request) {
	data, err := h.Service.GenerateBajasCSV(r.Context(), queryDate(r, "desde"), queryDate(r, "hasta"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	serveDownload(w, "bajas_masivas.csv", "text/csv", data)
}

// ComprobanteSalida downloads the pickup voucher PDF for one salida
func (h *ReportHandler) ComprobanteSalida(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}

	data, err := h.Service.GenerateComprobanteSalidaPDF(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	serveDownload(w, fmt.Sprintf("comprobante_salida_%d.pdf", id), "application/pdf", data)
}

// ComprobanteBaja downloads the retirement voucher PDF for one baja
func (h *ReportHandler) ComprobanteBaja(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}

	data, err := h.Service.GenerateComprobanteBajaPDF(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	serveDownload(w, fmt.Sprintf("comprobante_baja_%d.pdf", id), "application/pdf", data)
}

// ResumenDiario downloads the daily intake summary PDF. Defaults to today.
func (h *ReportHandler) ResumenDiario(w http.ResponseWriter, r *http.Request) {
	date := time.Now()
	if d := queryDate(r, "fecha"); d != nil {
		date = *d
	}

	data, err := h.Service.GenerateResumenDiarioPDF(r.Context(), date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	serveDownload(w, fmt.Sprintf("resumen_%s.pdf", date.Format("20060102")), "application/pdf", data)
}

package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"sierras-backend/internal/cache"
	"sierras-backend/internal/models"
	"sierras-backend/internal/repositories"
	"sierras-backend/internal/storage"
	"sierras-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
)

// ResumenDiarioData holds data for the daily intake summary report
type ResumenDiarioData struct {
	Date        time.Time
	Afilados    []*models.Afilado
	Pendientes  int
	Despachados int
	Total       int
}

// ReportService generates CSV and PDF exports. When an Uploader is
// configured, every generated export is also pushed to the bucket.
type ReportService struct {
	AfiladoRepo *repositories.AfiladoRepository
	SalidaRepo  *repositories.SalidaMasivaRepository
	BajaRepo    *repositories.BajaMasivaRepository
	Uploader    *storage.Uploader
}

func NewReportService(
	afiladoRepo *repositories.AfiladoRepository,
	salidaRepo *repositories.SalidaMasivaRepository,
	bajaRepo *repositories.BajaMasivaRepository,
	uploader *storage.Uploader,
) *ReportService {
	return &ReportService{
		AfiladoRepo: afiladoRepo,
		SalidaRepo:  salidaRepo,
		BajaRepo:    bajaRepo,
		Uploader:    uploader,
	}
}

func (s *ReportService) upload(ctx context.Context, name, contentType string, data []byte) {
	if s.Uploader == nil {
		return
	}
	if key, err := s.Uploader.Upload(ctx, name, contentType, data); err != nil {
		log.Printf("[Report] Upload failed for %s: %v", name, err)
	} else if key != "" {
		log.Printf("[Report] Export uploaded: %s", key)
	}
}

// GenerateAfiladosCSV exports sharpening records matching the filter
func (s *ReportService) GenerateAfiladosCSV(ctx context.Context, filter *models.AfiladoFilter) ([]byte, error) {
	afilados, err := s.AfiladoRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write([]string{
		"#", "Código", "Sucursal", "Tipo Afilado", "Fecha Afilado", "Fecha Salida", "Estado", "Observaciones",
	})

	for i, a := range afilados {
		fechaSalida := ""
		estado := "PENDIENTE"
		if a.FechaSalida != nil {
			fechaSalida = timeutil.FormatChile(*a.FechaSalida, timeutil.DateLayout)
			estado = "DESPACHADO"
		}
		w.Write([]string{
			fmt.Sprintf("%d", i+1),
			a.CodigoBarras,
			a.SucursalName,
			a.TipoName,
			timeutil.FormatChile(a.FechaAfilado, timeutil.DateLayout),
			fechaSalida,
			estado,
			a.Observaciones,
		})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	data := buf.Bytes()
	s.upload(ctx, fmt.Sprintf("afilados_%s.csv", timeutil.Now().Format("20060102_150405")), "text/csv", data)
	return data, nil
}

// GenerateSalidasCSV exports bulk exit headers in a date range
func (s *ReportService) GenerateSalidasCSV(ctx context.Context, sucursalID *int, desde, hasta *time.Time) ([]byte, error) {
	salidas, err := s.SalidaRepo.List(ctx, sucursalID, desde, hasta)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write([]string{"#", "Fecha Salida", "Sucursal", "Usuario", "Afilados", "Observaciones"})

	for i, sal := range salidas {
		w.Write([]string{
			fmt.Sprintf("%d", i+1),
			timeutil.FormatChile(sal.FechaSalida, timeutil.DateLayout),
			sal.SucursalName,
			sal.UsuarioName,
			fmt.Sprintf("%d", sal.TotalAfilados),
			sal.Observaciones,
		})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	data := buf.Bytes()
	s.upload(ctx, fmt.Sprintf("salidas_%s.csv", timeutil.Now().Format("20060102_150405")), "text/csv", data)
	return data, nil
}

// GenerateBajasCSV exports bulk retirement headers in a date range
func (s *ReportService) GenerateBajasCSV(ctx context.Context, desde, hasta *time.Time) ([]byte, error) {
	bajas, err := s.BajaRepo.List(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write([]string{"#", "Fecha Baja", "Usuario", "Sierras", "Observaciones"})

	for i, b := range bajas {
		w.Write([]string{
			fmt.Sprintf("%d", i+1),
			timeutil.FormatChile(b.FechaBaja, timeutil.DateLayout),
			b.UsuarioName,
			fmt.Sprintf("%d", b.TotalSierras),
			b.Observaciones,
		})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	data := buf.Bytes()
	s.upload(ctx, fmt.Sprintf("bajas_%s.csv", timeutil.Now().Format("20060102_150405")), "text/csv", data)
	return data, nil
}

// GenerateComprobanteSalidaPDF renders the pickup voucher for one bulk
// exit: header data plus one row per dispatched afilado.
func (s *ReportService) GenerateComprobanteSalidaPDF(ctx context.Context, salidaID int) ([]byte, error) {
	salida, err := s.SalidaRepo.Get(ctx, salidaID)
	if err != nil {
		return nil, err
	}
	afilados, err := s.AfiladoRepo.ListBySalidaMasiva(ctx, salidaID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Comprobante de Salida Masiva", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generado: %s", timeutil.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Salida Info Box
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, fmt.Sprintf("Salida N° %d", salida.ID), "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Sucursal: %s", salida.SucursalName), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Fecha: %s", timeutil.FormatChile(salida.FechaSalida, "02-Jan-2006")), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Registrado por: %s", salida.UsuarioName), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Afilados: %d", len(afilados)), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	// Table header
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(15, 7, "#", "1", 0, "C", true, 0, "")
	pdf.CellFormat(55, 7, "Código", "1", 0, "C", true, 0, "")
	pdf.CellFormat(50, 7, "Tipo Afilado", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Fecha Ingreso", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Fecha Salida", "1", 1, "C", true, 0, "")

	// Table rows
	pdf.SetFont("Arial", "", 10)
	for i, a := range afilados {
		fechaSalida := ""
		if a.FechaSalida != nil {
			fechaSalida = timeutil.FormatChile(*a.FechaSalida, "02-Jan-2006")
		}
		pdf.CellFormat(15, 6, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(55, 6, a.CodigoBarras, "1", 0, "C", false, 0, "")
		pdf.CellFormat(50, 6, a.TipoName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, timeutil.FormatChile(a.FechaAfilado, "02-Jan-2006"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 6, fechaSalida, "1", 1, "C", false, 0, "")
	}
	pdf.Ln(10)

	// Signature line
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(95, 7, "_______________________", "", 0, "C", false, 0, "")
	pdf.CellFormat(95, 7, "_______________________", "", 1, "C", false, 0, "")
	pdf.CellFormat(95, 6, "Entrega", "", 0, "C", false, 0, "")
	pdf.CellFormat(95, 6, "Recibe", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}

	data := buf.Bytes()
	s.upload(ctx, fmt.Sprintf("comprobante_salida_%d.pdf", salida.ID), "application/pdf", data)
	return data, nil
}

// GenerateComprobanteBajaPDF renders the retirement voucher for one bulk
// retirement.
func (s *ReportService) GenerateComprobanteBajaPDF(ctx context.Context, bajaID int) ([]byte, error) {
	baja, err := s.BajaRepo.Get(ctx, bajaID)
	if err != nil {
		return nil, err
	}
	sierras, err := s.BajaRepo.ListSierras(ctx, bajaID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Comprobante de Baja Masiva", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generado: %s", timeutil.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, fmt.Sprintf("Baja N° %d", baja.ID), "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Fecha: %s", timeutil.FormatChile(baja.FechaBaja, "02-Jan-2006")), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Registrado por: %s", baja.UsuarioName), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(190, 7, fmt.Sprintf("Sierras dadas de baja: %d", len(sierras)), "LRB", 1, "L", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(15, 7, "#", "1", 0, "C", true, 0, "")
	pdf.CellFormat(65, 7, "Código", "1", 0, "C", true, 0, "")
	pdf.CellFormat(55, 7, "Tipo Sierra", "1", 0, "C", true, 0, "")
	pdf.CellFormat(55, 7, "Sucursal", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for i, item := range sierras {
		pdf.CellFormat(15, 6, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(65, 6, item.CodigoBarras, "1", 0, "C", false, 0, "")
		pdf.CellFormat(55, 6, item.TipoSierra, "1", 0, "L", false, 0, "")
		pdf.CellFormat(55, 6, item.Sucursal, "1", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}

	data := buf.Bytes()
	s.upload(ctx, fmt.Sprintf("comprobante_baja_%d.pdf", baja.ID), "application/pdf", data)
	return data, nil
}

// GetResumenDiario fetches the intakes of one day with pending/dispatched
// counters. The result is cached briefly; the write handlers drop the
// cache on every intake, salida or baja.
func (s *ReportService) GetResumenDiario(ctx context.Context, date time.Time) (*ResumenDiarioData, error) {
	key := cache.ResumenKey(date)
	if cached, ok := cache.GetCached(ctx, key); ok {
		data := &ResumenDiarioData{}
		if err := json.Unmarshal(cached, data); err == nil {
			return data, nil
		}
	}

	start := timeutil.StartOfDay(date)
	end := timeutil.EndOfDay(date)

	afilados, err := s.AfiladoRepo.List(ctx, &models.AfiladoFilter{
		FechaDesde: &start,
		FechaHasta: &end,
		Limit:      500,
	})
	if err != nil {
		return nil, err
	}

	data := &ResumenDiarioData{Date: date, Afilados: afilados}
	for _, a := range afilados {
		if a.Pendiente() {
			data.Pendientes++
		} else {
			data.Despachados++
		}
	}
	data.Total = len(afilados)

	if encoded, err := json.Marshal(data); err == nil {
		cache.SetCached(ctx, key, encoded, cache.ResumenTTL)
	}

	return data, nil
}

// GenerateResumenDiarioPDF renders the daily intake summary
func (s *ReportService) GenerateResumenDiarioPDF(ctx context.Context, date time.Time) ([]byte, error) {
	data, err := s.GetResumenDiario(ctx, date)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("L", "mm", "A4", "") // Landscape for more columns
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(277, 12, "Resumen Diario de Afilados", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(277, 8, fmt.Sprintf("Fecha: %s", data.Date.Format("02-Jan-2006 (Monday)")), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(277, 6, fmt.Sprintf("Generado: %s", timeutil.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(277, 8, "Resumen", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(92, 8, fmt.Sprintf("Total ingresos: %d", data.Total), "1", 0, "C", false, 0, "")
	pdf.CellFormat(92, 8, fmt.Sprintf("Pendientes: %d", data.Pendientes), "1", 0, "C", false, 0, "")
	pdf.CellFormat(93, 8, fmt.Sprintf("Despachados: %d", data.Despachados), "1", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(12, 7, "#", "1", 0, "C", true, 0, "")
	pdf.CellFormat(55, 7, "Código", "1", 0, "C", true, 0, "")
	pdf.CellFormat(60, 7, "Sucursal", "1", 0, "C", true, 0, "")
	pdf.CellFormat(50, 7, "Tipo Afilado", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Hora", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Estado", "1", 0, "C", true, 0, "")
	pdf.CellFormat(40, 7, "Observaciones", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	for i, a := range data.Afilados {
		// Alternate row colors
		if i%2 == 0 {
			pdf.SetFillColor(255, 255, 255)
		} else {
			pdf.SetFillColor(245, 245, 245)
		}

		estado := "PENDIENTE"
		if !a.Pendiente() {
			estado = "DESPACHADO"
		}
		obs := a.Observaciones
		if len(obs) > 18 {
			obs = obs[:15] + "..."
		}

		pdf.CellFormat(12, 6, fmt.Sprintf("%d", i+1), "1", 0, "C", true, 0, "")
		pdf.CellFormat(55, 6, a.CodigoBarras, "1", 0, "C", true, 0, "")
		pdf.CellFormat(60, 6, a.SucursalName, "1", 0, "L", true, 0, "")
		pdf.CellFormat(50, 6, a.TipoName, "1", 0, "L", true, 0, "")
		pdf.CellFormat(30, 6, timeutil.ToChile(a.FechaAfilado).Format("03:04 PM"), "1", 0, "C", true, 0, "")
		pdf.CellFormat(30, 6, estado, "1", 0, "C", true, 0, "")
		pdf.CellFormat(40, 6, obs, "1", 1, "L", true, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}

	data2 := buf.Bytes()
	s.upload(ctx, fmt.Sprintf("resumen_%s.pdf", date.Format("20060102")), "application/pdf", data2)
	return data2, nil
}

package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sierras-backend/internal/handlers"
	"sierras-backend/internal/middleware"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	usuarioHandler *handlers.UsuarioHandler,
	empresaHandler *handlers.EmpresaHandler,
	sierraHandler *handlers.SierraHandler,
	afiladoHandler *handlers.AfiladoHandler,
	salidaHandler *handlers.SalidaMasivaHandler,
	bajaHandler *handlers.BajaMasivaHandler,
	catalogoHandler *handlers.CatalogoHandler,
	reportHandler *handlers.ReportHandler,
	logAccionHandler *handlers.LogAccionHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Public API routes - Authentication
	r.HandleFunc("/api/login", authHandler.Login).Methods("POST")

	operador := authMiddleware.RequireRole("gerente", "administrador")
	gerente := authMiddleware.RequireRole("gerente")

	// Protected API routes - Session
	authAPI := r.PathPrefix("/api/me").Subrouter()
	authAPI.Use(authMiddleware.Authenticate)
	authAPI.HandleFunc("", authHandler.Me).Methods("GET")

	// Protected API routes - Usuarios (gerente only)
	usuariosAPI := r.PathPrefix("/api/usuarios").Subrouter()
	usuariosAPI.Use(authMiddleware.Authenticate)
	usuariosAPI.HandleFunc("", gerente(http.HandlerFunc(usuarioHandler.ListUsuarios)).ServeHTTP).Methods("GET")
	usuariosAPI.HandleFunc("", gerente(http.HandlerFunc(usuarioHandler.CreateUsuario)).ServeHTTP).Methods("POST")
	usuariosAPI.HandleFunc("/{id}", gerente(http.HandlerFunc(usuarioHandler.GetUsuario)).ServeHTTP).Methods("GET")
	usuariosAPI.HandleFunc("/{id}", gerente(http.HandlerFunc(usuarioHandler.UpdateUsuario)).ServeHTTP).Methods("PUT")
	usuariosAPI.HandleFunc("/{id}/toggle-active", gerente(http.HandlerFunc(usuarioHandler.ToggleActive)).ServeHTTP).Methods("PATCH")

	// Protected API routes - Empresas (all roles can view, mutations restricted)
	empresasAPI := r.PathPrefix("/api/empresas").Subrouter()
	empresasAPI.Use(authMiddleware.Authenticate)
	empresasAPI.HandleFunc("", empresaHandler.ListEmpresas).Methods("GET")
	empresasAPI.HandleFunc("", operador(http.HandlerFunc(empresaHandler.CreateEmpresa)).ServeHTTP).Methods("POST")
	empresasAPI.HandleFunc("/{id}", empresaHandler.GetEmpresa).Methods("GET")
	empresasAPI.HandleFunc("/{id}", operador(http.HandlerFunc(empresaHandler.UpdateEmpresa)).ServeHTTP).Methods("PUT")
	empresasAPI.HandleFunc("/{id}", operador(http.HandlerFunc(empresaHandler.DeactivateEmpresa)).ServeHTTP).Methods("DELETE")

	// Protected API routes - Sucursales
	sucursalesAPI := r.PathPrefix("/api/sucursales").Subrouter()
	sucursalesAPI.Use(authMiddleware.Authenticate)
	sucursalesAPI.HandleFunc("", empresaHandler.ListSucursales).Methods("GET")
	sucursalesAPI.HandleFunc("", operador(http.HandlerFunc(empresaHandler.CreateSucursal)).ServeHTTP).Methods("POST")
	sucursalesAPI.HandleFunc("/{id}", empresaHandler.GetSucursal).Methods("GET")
	sucursalesAPI.HandleFunc("/{id}", operador(http.HandlerFunc(empresaHandler.UpdateSucursal)).ServeHTTP).Methods("PUT")

	// Protected API routes - Sierras
	sierrasAPI := r.PathPrefix("/api/sierras").Subrouter()
	sierrasAPI.Use(authMiddleware.Authenticate)
	sierrasAPI.HandleFunc("", sierraHandler.ListSierras).Methods("GET")
	sierrasAPI.HandleFunc("", operador(http.HandlerFunc(sierraHandler.CreateSierra)).ServeHTTP).Methods("POST")
	sierrasAPI.HandleFunc("/codigo", sierraHandler.GetByCodigo).Methods("GET")
	sierrasAPI.HandleFunc("/{id}", sierraHandler.GetSierra).Methods("GET")
	sierrasAPI.HandleFunc("/{id}", operador(http.HandlerFunc(sierraHandler.UpdateSierra)).ServeHTTP).Methods("PUT")
	sierrasAPI.HandleFunc("/{id}", operador(http.HandlerFunc(sierraHandler.DeactivateSierra)).ServeHTTP).Methods("DELETE")
	sierrasAPI.HandleFunc("/{id}/afilados-pendientes", afiladoHandler.ListPendientes).Methods("GET")

	// Protected API routes - Afilados
	afiladosAPI := r.PathPrefix("/api/afilados").Subrouter()
	afiladosAPI.Use(authMiddleware.Authenticate)
	afiladosAPI.HandleFunc("", afiladoHandler.ListAfilados).Methods("GET")
	afiladosAPI.HandleFunc("", operador(http.HandlerFunc(afiladoHandler.RegisterIntake)).ServeHTTP).Methods("POST")
	afiladosAPI.HandleFunc("/marcar-listas", operador(http.HandlerFunc(afiladoHandler.MarcarListas)).ServeHTTP).Methods("POST")
	afiladosAPI.HandleFunc("/{id}", afiladoHandler.GetAfilado).Methods("GET")
	afiladosAPI.HandleFunc("/{id}/observaciones", operador(http.HandlerFunc(afiladoHandler.UpdateObservaciones)).ServeHTTP).Methods("PATCH")

	// Protected API routes - Salidas masivas
	salidasAPI := r.PathPrefix("/api/salidas-masivas").Subrouter()
	salidasAPI.Use(authMiddleware.Authenticate)
	salidasAPI.HandleFunc("", salidaHandler.List).Methods("GET")
	salidasAPI.HandleFunc("", operador(http.HandlerFunc(salidaHandler.Commit)).ServeHTTP).Methods("POST")
	salidasAPI.HandleFunc("/scan", operador(http.HandlerFunc(salidaHandler.Scan)).ServeHTTP).Methods("POST")
	salidasAPI.HandleFunc("/{id}", salidaHandler.Get).Methods("GET")
	salidasAPI.HandleFunc("/{id}", operador(http.HandlerFunc(salidaHandler.Delete)).ServeHTTP).Methods("DELETE")
	salidasAPI.HandleFunc("/{id}/afilados", salidaHandler.ListAfilados).Methods("GET")

	// Protected API routes - Bajas masivas
	bajasAPI := r.PathPrefix("/api/bajas-masivas").Subrouter()
	bajasAPI.Use(authMiddleware.Authenticate)
	bajasAPI.HandleFunc("", bajaHandler.List).Methods("GET")
	bajasAPI.HandleFunc("", operador(http.HandlerFunc(bajaHandler.Commit)).ServeHTTP).Methods("POST")
	bajasAPI.HandleFunc("/scan", operador(http.HandlerFunc(bajaHandler.Scan)).ServeHTTP).Methods("POST")
	bajasAPI.HandleFunc("/{id}", bajaHandler.Get).Methods("GET")
	bajasAPI.HandleFunc("/{id}", operador(http.HandlerFunc(bajaHandler.Delete)).ServeHTTP).Methods("DELETE")
	bajasAPI.HandleFunc("/{id}/sierras", bajaHandler.ListSierras).Methods("GET")

	// Protected API routes - Catálogos
	catalogosAPI := r.PathPrefix("/api/catalogos").Subrouter()
	catalogosAPI.Use(authMiddleware.Authenticate)
	catalogosAPI.HandleFunc("/estados-sierra", catalogoHandler.ListEstadosSierra).Methods("GET")
	catalogosAPI.HandleFunc("/tipos-sierra", catalogoHandler.ListTiposSierra).Methods("GET")
	catalogosAPI.HandleFunc("/tipos-afilado", catalogoHandler.ListTiposAfilado).Methods("GET")

	// Protected API routes - Reportes
	reportesAPI := r.PathPrefix("/api/reportes").Subrouter()
	reportesAPI.Use(authMiddleware.Authenticate)
	reportesAPI.HandleFunc("/afilados.csv", reportHandler.AfiladosCSV).Methods("GET")
	reportesAPI.HandleFunc("/salidas.csv", reportHandler.SalidasCSV).Methods("GET")
	reportesAPI.HandleFunc("/bajas.csv", reportHandler.BajasCSV).Methods("GET")
	reportesAPI.HandleFunc("/salidas/{id}/comprobante.pdf", reportHandler.ComprobanteSalida).Methods("GET")
	reportesAPI.HandleFunc("/bajas/{id}/comprobante.pdf", reportHandler.ComprobanteBaja).Methods("GET")
	reportesAPI.HandleFunc("/resumen-diario.pdf", reportHandler.ResumenDiario).Methods("GET")

	// Protected API routes - Log de acciones (gerente only)
	logsAPI := r.PathPrefix("/api/log-acciones").Subrouter()
	logsAPI.Use(authMiddleware.Authenticate)
	logsAPI.HandleFunc("", gerente(http.HandlerFunc(logAccionHandler.List)).ServeHTTP).Methods("GET")

	// Health endpoints (no auth required - for probes)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

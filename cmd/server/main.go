package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"sierras-backend/internal/auth"
	"sierras-backend/internal/cache"
	"sierras-backend/internal/config"
	"sierras-backend/internal/database"
	"sierras-backend/internal/db"
	"sierras-backend/internal/handlers"
	"sierras-backend/internal/health"
	h "sierras-backend/internal/http"
	"sierras-backend/internal/middleware"
	"sierras-backend/internal/monitoring"
	"sierras-backend/internal/repositories"
	"sierras-backend/internal/services"
	"sierras-backend/internal/storage"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	pool := db.Connect(cfg)
	defer pool.Close()

	// Redis is optional - login falls back to bcrypt-only, catalogs hit Postgres
	if err := cache.Init(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		log.Printf("[Redis] Cache unavailable: %v", err)
	} else if cache.GetClient() != nil {
		log.Println("[Redis] Cache connected successfully")
	}

	log.Println("Running database migrations...")
	migrator := database.NewMigrator(pool)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := migrator.RunMigrations(ctx); err != nil {
		cancel()
		log.Fatalf("Failed to run migrations: %v", err)
	}
	cancel()

	healthChecker := health.NewHealthChecker(pool)
	jwtManager := auth.NewJWTManager(cfg)

	// Repositories
	usuarioRepo := repositories.NewUsuarioRepository(pool)
	empresaRepo := repositories.NewEmpresaRepository(pool)
	sucursalRepo := repositories.NewSucursalRepository(pool)
	sierraRepo := repositories.NewSierraRepository(pool)
	afiladoRepo := repositories.NewAfiladoRepository(pool)
	salidaRepo := repositories.NewSalidaMasivaRepository(pool)
	bajaRepo := repositories.NewBajaMasivaRepository(pool)
	catalogoRepo := repositories.NewCatalogoRepository(pool)
	logAccionRepo := repositories.NewLogAccionRepository(pool)

	// Services
	usuarioService := services.NewUsuarioService(usuarioRepo, jwtManager)
	sierraService := services.NewSierraService(sierraRepo, sucursalRepo)
	afiladoService := services.NewAfiladoService(afiladoRepo, sierraRepo)
	scanService := services.NewScanService(sierraRepo, afiladoRepo)
	salidaService := services.NewSalidaMasivaService(salidaRepo, afiladoRepo, sierraRepo)
	bajaService := services.NewBajaMasivaService(bajaRepo, sierraRepo)
	uploader := storage.NewUploader(cfg)
	reportService := services.NewReportService(afiladoRepo, salidaRepo, bajaRepo, uploader)

	// Handlers
	audit := handlers.NewActionLogger(logAccionRepo)
	authHandler := handlers.NewAuthHandler(usuarioService)
	usuarioHandler := handlers.NewUsuarioHandler(usuarioService, audit)
	empresaHandler := handlers.NewEmpresaHandler(empresaRepo, sucursalRepo, audit)
	sierraHandler := handlers.NewSierraHandler(sierraService, audit)
	afiladoHandler := handlers.NewAfiladoHandler(afiladoService, audit)
	salidaHandler := handlers.NewSalidaMasivaHandler(scanService, salidaService, audit)
	bajaHandler := handlers.NewBajaMasivaHandler(scanService, bajaService, audit)
	catalogoHandler := handlers.NewCatalogoHandler(catalogoRepo)
	reportHandler := handlers.NewReportHandler(reportService)
	logAccionHandler := handlers.NewLogAccionHandler(logAccionRepo)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, usuarioRepo)
	corsMiddleware := middleware.NewCORS(cfg)

	// Background Prometheus gauges (sierras por estado, afilados pendientes)
	statsCollector := services.NewStatsCollector(pool)
	go statsCollector.Start()
	defer statsCollector.Stop()

	if cfg.Monitoring.Enabled {
		go monitoring.NewMonitoringServer(pool, cfg.Monitoring.Port).Start()
	}

	router := h.NewRouter(
		authHandler,
		usuarioHandler,
		empresaHandler,
		sierraHandler,
		afiladoHandler,
		salidaHandler,
		bajaHandler,
		catalogoHandler,
		reportHandler,
		logAccionHandler,
		healthHandler,
		authMiddleware,
	)

	handler := middleware.PanicRecovery(middleware.MetricsMiddleware(corsMiddleware(router)))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server running on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

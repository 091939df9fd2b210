package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"poiviewer/internal/api"
	"poiviewer/internal/api/handlers"
	"poiviewer/internal/bridge"
	"poiviewer/internal/catalog"
	"poiviewer/internal/config"
	"poiviewer/internal/logging"
	"poiviewer/internal/repository/memory"
	"poiviewer/internal/services"
	"poiviewer/internal/supervisor"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML/JSON/TOML config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	// Load the POI catalog
	cat := catalog.Default()
	if cfg.Catalog.Path != "" {
		cat, err = catalog.LoadFile(cfg.Catalog.Path)
		if err != nil {
			logging.Fatal().Err(err).Str("path", cfg.Catalog.Path).Msg("failed to load POI catalog")
		}
	}
	logging.Info().Int("pois", cat.Len()).Msg("POI catalog loaded")

	// Initialize the browser bridge and sessions
	hub := bridge.NewHub()
	registry := bridge.NewRegistry(hub)
	sessionRepo := memory.NewSessionRepository[*services.Coordinator]()

	proximityService := services.NewProximityService(cat, cfg.View.NearbyRadiusKm)
	sessionService := services.NewSessionService(cfg, cat, proximityService, registry, sessionRepo)

	// Initialize handlers
	poiHandler := handlers.NewPOIHandler(cat, proximityService, cfg.Map)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	deviceHandler := handlers.NewDeviceHandler(registry)
	streamHandler := handlers.NewStreamHandler(hub, cfg.Server.AllowedOrigins)

	// Setup router
	router := api.NewRouter(poiHandler, sessionHandler, deviceHandler, streamHandler, sessionService)
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	router.Setup(engine)

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Supervise the long-running services
	tree := supervisor.NewTree(supervisor.TreeConfig{ShutdownTimeout: cfg.Server.ShutdownTimeout})
	tree.AddSessionService(hub)
	tree.AddSessionService(sessionService)
	tree.AddAPIService(supervisor.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", cfg.Server.Port).Msg("starting POI viewer server")
	if err := tree.Serve(ctx); err != nil && ctx.Err() == nil {
		logging.Error().Err(err).Msg("supervisor tree stopped unexpectedly")
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	sessionService.CloseAll(closeCtx)

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		logging.Warn().Int("services", len(report)).Msg("services did not stop within the shutdown timeout")
	}
	logging.Info().Msg("server stopped")
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/pdf-processor/backend/internal/api"
	"github.com/pdf-processor/backend/internal/config"
	"github.com/pdf-processor/backend/internal/processor"
	"github.com/pdf-processor/backend/internal/storage"
	"github.com/pdf-processor/backend/internal/worker"
	flag "github.com/spf13/pflag"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	configPath := flag.StringP("config", "c", "config.yaml", "path to the YAML config file (created with defaults if missing)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := log.New("server")
	logger.SetLevel(parseLevel(cfg.Logging.Level))

	// Not fatal: every request retries the mkdir and reports failures in its result.
	if err := cfg.EnsureDirectories(); err != nil {
		logger.Warnf("Storage directory not ready: %v", err)
	}

	procLogger := log.New("processor")
	procLogger.SetLevel(parseLevel(cfg.Logging.Level))

	store := storage.NewLocalStore(cfg.GetUploadDir(), cfg.Storage.FallbackFilename)
	proc := processor.NewProcessor(store, processor.NewSimulatedSummarizer(cfg.SimulatedDelay()), procLogger)
	pool := worker.NewPool(cfg.Processing.MaxWorkers)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(parseLevel(cfg.Logging.Level))

	api.SetupMiddleware(e, api.MiddlewareOptions{
		BodyLimit:      cfg.Server.BodyLimit,
		RequestLogging: cfg.Logging.EnableRequestLogging,
	})
	api.RegisterRoutes(e, api.NewHandlers(&api.Dependencies{
		Processor: proc,
		Pool:      pool,
		Version:   Version,
	}))

	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	fmt.Printf("\n")
	fmt.Printf("╔═══════════════════════════════════════════════════════════╗\n")
	fmt.Printf("║           PDF Processor Server                            ║\n")
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Version:    %-45s║\n", Version)
	fmt.Printf("║  Build Time: %-45s║\n", BuildTime)
	fmt.Printf("║  Config:     %-45s║\n", *configPath)
	fmt.Printf("║  Listen:     %-45s║\n", cfg.GetServerAddr())
	fmt.Printf("║  Storage:    %-45s║\n", cfg.GetUploadDir())
	fmt.Printf("║  Workers:    %-45d║\n", pool.Capacity())
	fmt.Printf("╚═══════════════════════════════════════════════════════════╝\n")
	fmt.Printf("\n")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- e.StartServer(s)
	}()
	logger.Infof("Serving ProcessPdf on %s%s", cfg.GetServerAddr(), api.ProcessPdfPath)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed: %v", err)
		}
		return
	case <-ctx.Done():
	}

	logger.Infof("Stopping server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace())
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("Shutdown did not drain in time: %v", err)
	}
	logger.Infof("Server stopped.")
}

func parseLevel(level string) log.Lvl {
	switch strings.ToLower(level) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}

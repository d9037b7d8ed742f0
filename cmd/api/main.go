package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"rul-backend/cmd"
	"rul-backend/internal/api"
	"rul-backend/internal/config"
	"rul-backend/internal/core"
	"rul-backend/internal/database"
	"rul-backend/internal/metrics"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	log.Println("Starting API Server...")

	cmd.LoadEnvFile()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	config.SetupLogger(cfg.LogLevel, cfg.LogFormat)

	db, err := database.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	store, err := cmd.NewObjectStore(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to create object store: %v", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	gate := core.NewGate(cfg.MaxConcurrentJobs, cfg.QueueTimeout)

	predict, err := core.NewInvoker(core.PredictJob, cfg.PredictCommand, cfg.JobTimeout, gate)
	if err != nil {
		log.Fatalf("Failed to configure prediction job: %v", err)
	}

	monitor, err := core.NewInvoker(core.MonitorJob, cfg.MonitorCommand, cfg.JobTimeout, gate)
	if err != nil {
		log.Fatalf("Failed to configure monitoring job: %v", err)
	}

	pipeline := core.NewPipeline(store, predict, monitor, metrics.New(registry))

	slog.Info("jobs configured",
		"predict", cfg.PredictCommand,
		"monitor", cfg.MonitorCommand,
		"max_concurrent_jobs", cfg.MaxConcurrentJobs,
		"job_timeout", cfg.JobTimeout,
	)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	service := api.NewBackendService(db, pipeline, api.UploadConfig{
		Dir:      cfg.UploadDir,
		MaxBytes: cfg.MaxUploadBytes,
	})
	service.AddRoutes(r)

	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: r,
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}
	}()

	log.Printf("API server listening on port %s", cfg.APIPort)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %s: %v\n", cfg.APIPort, err)
	}

	log.Println("Server stopped.")
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"loan-risk/config"
	"loan-risk/domain"
	httpLayer "loan-risk/http"
	"loan-risk/logger"
	"loan-risk/observability"
	"loan-risk/repository"
	"loan-risk/service"
	"loan-risk/validation"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "loan-risk: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := logger.NewStructured(logger.Options{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	}).WithFields(map[string]interface{}{
		"service":     cfg.App.Name,
		"environment": cfg.App.Environment,
	})
	defer log.Sync()

	obs := observability.NewNoop()
	if cfg.Metrics.Enabled {
		obs = observability.New(cfg.App.Name, nil, log)
	}

	cache, closeCache := buildCache(cfg.Cache, log)
	defer closeCache()

	policy, err := service.ParseCategoryPolicy(cfg.Features.UnknownCategory)
	if err != nil {
		return err
	}

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	artifacts := repository.NewArtifactRepositoryFS(cfg.Model.Path, cfg.Model.ScalerPath)
	inferenceService, err := service.NewInferenceService(
		startupCtx,
		artifacts,
		service.InferenceOptions{
			Mode:      domain.PredictionMode(cfg.Model.Output),
			Threshold: cfg.Model.Threshold,
		},
		cache,
		obs,
		log,
	)
	if err != nil {
		log.Error("failed to load model artifacts", map[string]interface{}{"error": err.Error()})
		return err
	}

	evaluationService := service.NewEvaluationService(service.NewFeatureEncoder(policy), inferenceService, log)

	validator, err := validation.New()
	if err != nil {
		return err
	}

	evaluationHandler := httpLayer.NewEvaluationHandler(evaluationService, validator, log)
	healthHandler := httpLayer.NewHealthHandler()

	routerOpts := httpLayer.RouterOptions{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
	}
	if cfg.Metrics.Enabled {
		routerOpts.MetricsPath = cfg.Metrics.Path
		routerOpts.MetricsHandler = promhttp.Handler()
	}
	if cfg.Server.RateLimit.Enabled {
		rateLimiter := httpLayer.NewRateLimiter(
			cfg.Server.RateLimit.Requests,
			config.GetDuration(cfg.Server.RateLimit.Window),
		)
		defer rateLimiter.Stop()
		routerOpts.Limiter = rateLimiter
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      httpLayer.NewRouter(evaluationHandler, healthHandler, routerOpts, log),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
		IdleTimeout:  config.GetDuration(cfg.Server.IdleTimeout),
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("API listening", map[string]interface{}{"addr": server.Addr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Error("server failed", map[string]interface{}{"error": err.Error()})
		return err
	case sig := <-quit:
		log.Info("shutting down server", map[string]interface{}{"signal": sig.String()})
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("error during server shutdown", map[string]interface{}{"error": err.Error()})
	}
	if err := obs.Shutdown(ctx); err != nil {
		log.Warn("error shutting down metrics", map[string]interface{}{"error": err.Error()})
	}

	log.Info("server exited", nil)
	return nil
}

// loadConfig reads CONFIG_FILE when set, otherwise the default locations.
func loadConfig() (*config.Config, error) {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

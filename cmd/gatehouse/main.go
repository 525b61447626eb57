package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/gatehouse/gatehouse/pkg/api"
	"github.com/gatehouse/gatehouse/pkg/auth"
	"github.com/gatehouse/gatehouse/pkg/config"
	"github.com/gatehouse/gatehouse/pkg/httputil"
	"github.com/gatehouse/gatehouse/pkg/observability"
	"github.com/gatehouse/gatehouse/pkg/users"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logger := newLogger(cfg.Observability)

	store, err := newStore(cfg.Store)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize account store")
	}
	defer store.Close()
	logger.WithField("store", cfg.Store.Type).Info("Account store initialized")

	hasher := auth.NewPasswordHasherWithCost(cfg.Auth.HashCost)
	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	transport := auth.NewSessionTransport(cfg.Auth.TokenTTL, cfg.Auth.SecureCookies)

	if cfg.Seed.Enabled() {
		if err := seedAdmin(context.Background(), store, hasher, cfg.Seed); err != nil {
			logger.WithError(err).Fatal("Failed to seed admin account")
		}
	}

	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		metrics = observability.NewMetrics(prometheus.NewRegistry())
	}

	server := api.NewServer(store, hasher, tokens, transport, logger, metrics)

	handler := httputil.Chain(
		httputil.RequestIDMiddleware,
		httputil.LoggingMiddleware(logger),
		httputil.RecoveryMiddleware(logger),
		httputil.CORSMiddleware(strings.Split(cfg.Server.CORSOrigin, ",")),
		metrics.HTTPMiddleware,
	)(server)

	mainSrv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	healthSrv := &http.Server{
		Addr:    net.JoinHostPort(cfg.Server.Host, cfg.Server.HealthPort),
		Handler: newHealthMux(store, metrics),
	}

	refresher := observability.NewGaugeRefresher(store, metrics, logger)
	if metrics != nil {
		if err := refresher.Start(cfg.Observability.GaugeRefreshSchedule); err != nil {
			logger.WithError(err).Fatal("Failed to start gauge refresher")
		}
	}

	errCh := make(chan error, 2)
	go func() {
		logger.WithField("addr", mainSrv.Addr).Info("API server listening")
		if err := mainSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("api server: %w", err)
		}
	}()
	go func() {
		logger.WithField("addr", healthSrv.Addr).Info("Health server listening")
		if err := healthSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("health server: %w", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.WithField("signal", sig.String()).Info("Shutting down gracefully")
	case err := <-errCh:
		logger.WithError(err).Error("Server failed, shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if metrics != nil {
		refresher.Stop()
	}
	if err := mainSrv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("API server shutdown failed")
	}
	if err := healthSrv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Health server shutdown failed")
	}
	logger.Info("Shutdown complete")
}

// newLogger builds the application logger from observability settings
func newLogger(cfg config.ObservabilityConfig) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if strings.EqualFold(cfg.LogFormat, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

// newStore builds the account store selected by configuration
func newStore(cfg config.StoreConfig) (users.Store, error) {
	switch cfg.Type {
	case "memory":
		return users.NewMemoryStore(), nil
	case "sqlite":
		return users.NewSQLiteStore(cfg.SQLitePath)
	case "postgres":
		return users.NewPostgresStore(cfg.Postgres)
	default:
		return nil, fmt.Errorf("unknown store type: %s", cfg.Type)
	}
}

// seedAdmin ensures the configured admin account exists. An existing
// account with the seed email is left untouched.
func seedAdmin(ctx context.Context, store users.Store, hasher *auth.PasswordHasher, seed config.SeedConfig) error {
	if _, err := store.FindByEmail(ctx, seed.AdminEmail); err == nil {
		return nil
	} else if !errors.Is(err, users.ErrNotFound) {
		return err
	}

	hash, err := hasher.Hash(seed.AdminPassword)
	if err != nil {
		return err
	}
	return store.Create(ctx, &users.User{
		Name:         seed.AdminName,
		Email:        seed.AdminEmail,
		PasswordHash: hash,
		Role:         auth.RoleAdmin,
		IsActive:     true,
	})
}

// newHealthMux serves the probe and metrics endpoints on the side port
func newHealthMux(store users.Store, metrics *observability.Metrics) *http.ServeMux {
	hc := observability.NewHealthChecker(store)
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", hc.Liveness)
	mux.HandleFunc("/readyz", hc.Readiness)
	if metrics != nil {
		mux.Handle("/metrics", metrics.Handler())
	}
	return mux
}

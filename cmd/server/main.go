// Command server runs the HR document management API.
//
// Startup order: env file, configuration, logging, tracing, local audit
// store, remote data platform client, HTTP router. Shutdown drains in-flight
// requests, records the shutdown audit event, and releases the client and
// tracer provider.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/docflow/go-hr-backend/internal/audit"
	"github.com/docflow/go-hr-backend/internal/auth"
	"github.com/docflow/go-hr-backend/internal/config"
	httpapi "github.com/docflow/go-hr-backend/internal/http"
	"github.com/docflow/go-hr-backend/internal/observability"
	"github.com/docflow/go-hr-backend/internal/repo"
	"github.com/docflow/go-hr-backend/internal/sysutil"
	"github.com/docflow/go-hr-backend/internal/zerodb"
)

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	log.Info().
		Str("version", cfg.AppVersion).
		Str("environment", cfg.Environment).
		Msg("starting " + cfg.AppName)

	ctx := context.Background()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, cfg.AppVersion)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}

	db, err := repo.OpenSQLite(cfg.AuditDBPath, cfg.OTEL.Enabled)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.AuditDBPath).Msg("open audit store failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("audit store migration failed")
	}
	auditLog := audit.NewGormLog(db)

	jwt, err := auth.NewJWT(cfg.JWT)
	if err != nil {
		log.Fatal().Err(err).Msg("jwt setup failed")
	}

	zdb := zerodb.New(cfg.ZeroDB)
	zdb.Connect()
	defer zdb.Close()

	if _, err := auditLog.Record(ctx, audit.Event{
		EventType: audit.EventSystemStartup,
		Action:    "Service started",
		Details:   map[string]any{"version": cfg.AppVersion, "environment": cfg.Environment},
	}); err != nil {
		log.Warn().Err(err).Msg("startup audit record failed")
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, cfg, zdb, jwt, auditLog)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	if _, err := auditLog.Record(shutdownCtx, audit.Event{
		EventType: audit.EventSystemShutdown,
		Action:    "Service stopped",
	}); err != nil {
		log.Warn().Err(err).Msg("shutdown audit record failed")
	}
	if err := shutdownOTel(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("otel shutdown failed")
	}
	log.Info().Msg("stopped")
}

// Command server runs the guild craft-request backend.
//
// Responsibilities:
//   - Load configuration (.env + environment variables)
//   - Initialize structured logging (zerolog)
//   - Open SQLite, migrate the schema, and attach GORM tracing
//   - Load the item catalog from Markdown
//   - Bootstrap OpenTelemetry (optional, via OTEL_ENABLED)
//   - Start the expired-session sweeper
//   - Serve the HTTP API with graceful shutdown
//
// @title           Guild Craft Request API
// @version         1.0
// @description     Craft/enchant request lifecycle engine: character roster, request board, atomic claims, partial fulfillment, and audit trails.
//
// @contact.name    Guild Backend
//
// @license.name    MIT
//
// @BasePath        /api/v1
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/plugin/opentelemetry/tracing"

	_ "github.com/tbourn/go-guild-backend/docs"
	"github.com/tbourn/go-guild-backend/internal/catalog"
	"github.com/tbourn/go-guild-backend/internal/config"
	httpapi "github.com/tbourn/go-guild-backend/internal/http"
	"github.com/tbourn/go-guild-backend/internal/observability"
	"github.com/tbourn/go-guild-backend/internal/repo"
	"github.com/tbourn/go-guild-backend/internal/services"
	"github.com/tbourn/go-guild-backend/internal/sysutil"
)

// version is stamped into traces and the swagger document.
const version = "1.0.0"

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing first so DB and HTTP spans land in one trace.
	shutdownOTel, err := observability.SetupTracing(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(shCtx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}
	if cfg.OTEL.Enabled {
		if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
			log.Warn().Err(err).Msg("gorm tracing plugin not attached")
		}
	}

	// Item catalog; CATALOG_MD overrides the default path.
	catalogPath := sysutil.FirstNonEmpty(cfg.CatalogMD, cfg.CatalogPath)
	idx, err := catalog.LoadMarkdown(catalogPath)
	if err != nil {
		log.Warn().Err(err).Str("path", catalogPath).Msg("catalog not loaded; item lookup disabled")
		idx = nil
	} else {
		log.Info().Int("items", idx.Len()).Str("path", catalogPath).Msg("catalog loaded")
	}

	// Background sweep of expired composition sessions.
	sweeper := services.NewSessionService(db)
	sweeper.TTL = cfg.SessionTTL
	sweeper.StartSweeper(ctx, cfg.SessionSweep)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	httpapi.RegisterRoutes(r, db, idx, cfg)

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

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
		log.Info().Str("addr", srv.Addr).Str("base", cfg.APIBasePath).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

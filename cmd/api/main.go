package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/lexhaven/matters-api/internal/api"
	"github.com/lexhaven/matters-api/internal/core/service"
	"github.com/lexhaven/matters-api/internal/infrastructure/config"
	mongodb "github.com/lexhaven/matters-api/internal/infrastructure/db/mongo"
	"github.com/lexhaven/matters-api/internal/infrastructure/db/postgres"
	redisdb "github.com/lexhaven/matters-api/internal/infrastructure/db/redis"
	"github.com/lexhaven/matters-api/internal/infrastructure/logsink"
	"github.com/lexhaven/matters-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Stores ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	pool, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN})
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connection failed")
	}
	defer pool.Close()

	// --- Tenant resolution ---
	orgRepo := mongodb.NewOrganizationRepository(db)
	orgs := redisdb.NewOrganizationCache(rdb, orgRepo, log)

	var fallback service.LookupFallback = service.StrictFallback{Log: log}
	if !cfg.IsProduction() {
		fallback = service.DevFallback{Log: log}
	}
	resolver := service.NewTenantResolver(orgs, fallback, log)

	// --- Audit chain ---
	chain := service.NewAuditChain(
		auditSecret(cfg, log),
		logsink.NewZerologSink(log),
		log,
	)

	e := api.NewRouter(api.Dependencies{
		JWTSecret:  cfg.JWTSecret,
		Production: cfg.IsProduction(),
		Resolver:   resolver,
		Session:    postgres.NewTenantSession(pool, log),
		Matters:    postgres.NewMatterRepository(),
		Chain:      chain,
		Mongo:      db,
		Redis:      rdb,
		Postgres:   pool,
		Log:        log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// auditSecret returns the configured chain signing secret, or a random
// per-process key when none is configured. The fallback preserves chain
// self-consistency within this process but not provenance across restarts,
// so its use is logged loudly.
func auditSecret(cfg *config.Config, log zerolog.Logger) []byte {
	if cfg.AuditSigningSecret != "" {
		return []byte(cfg.AuditSigningSecret)
	}

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatal().Err(err).Msg("failed to generate audit signing key")
	}
	log.Warn().
		Str("key_id", hex.EncodeToString(key[:4])).
		Msg("AUDIT_SIGNING_SECRET not configured, using a random per-process key; audit chains will not verify across restarts")
	return key
}

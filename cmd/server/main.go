package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"invopos/backend/internal/cache"
	"invopos/backend/internal/config"
	"invopos/backend/internal/httpapi"
	"invopos/backend/internal/printer"
	"invopos/backend/internal/service"
	"invopos/backend/internal/store"
	"invopos/backend/internal/store/memory"
	pgstore "invopos/backend/internal/store/postgres"
	sqlitestore "invopos/backend/internal/store/sqlite"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("load configuration")
	}

	log := newLogger(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	closers := make([]func() error, 0, 2)

	catalog, catalogCloser := openCatalog(ctx, cfg, log)
	if catalogCloser != nil {
		closers = append(closers, catalogCloser)
	}

	invoices := cache.InvoiceCache(cache.NewMemoryInvoiceCache())
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisInvoiceCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisCache.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis unavailable, keeping in-process invoice cache")
		} else {
			invoices = redisCache
			closers = append(closers, redisCache.Close)
			log.Info().Str("addr", cfg.RedisAddr).Msg("invoice cache: redis")
		}
	} else {
		log.Info().Msg("invoice cache: in-process")
	}

	svc := service.New(catalog, invoices, printer.NewLogPrinter(log), log, time.Duration(cfg.InvoiceTTLHours)*time.Hour)

	auth := httpapi.NewAuthManager(cfg.AuthSecret, time.Duration(cfg.AccessTokenTTLMinutes)*time.Minute)
	if err := auth.SeedUser("admin", cfg.SeedAdminPassword, "admin"); err != nil {
		log.Fatal().Err(err).Msg("seed admin user")
	}
	if err := auth.SeedUser("cashier", cfg.SeedCashierPassword, "cashier"); err != nil {
		log.Fatal().Err(err).Msg("seed cashier user")
	}

	api := httpapi.New(svc, auth, log)

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Address()).Msg("listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			log.Error().Err(err).Msg("close error")
		}
	}

	log.Info().Msg("server stopped")
}

// openCatalog picks the product store: postgres when DATABASE_URL is set,
// otherwise the sqlite file when SQLITE_PATH is set, otherwise a seeded
// in-memory catalog for development. A configured backend that cannot be
// opened is fatal rather than silently downgraded.
func openCatalog(ctx context.Context, cfg config.Config, log zerolog.Logger) (store.Catalog, func() error) {
	if cfg.DatabaseURL != "" {
		pg, err := pgstore.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("postgres unavailable and DATABASE_URL is set, refusing in-memory fallback")
		}
		log.Info().Msg("catalog: postgres")
		return pg, pg.Close
	}

	if cfg.SQLitePath != "" {
		db, err := sqlitestore.New(cfg.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.SQLitePath).Msg("sqlite unavailable and SQLITE_PATH is set, refusing in-memory fallback")
		}
		log.Info().Str("path", cfg.SQLitePath).Msg("catalog: sqlite")
		return db, db.Close
	}

	log.Info().Msg("catalog: in-memory (seeded)")
	return memory.NewSeeded(), nil
}

func newLogger(level string) zerolog.Logger {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(parsed).With().Timestamp().Logger()
}

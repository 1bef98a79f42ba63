package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/aerodash/aerodash/config"
	"github.com/aerodash/aerodash/internal/dashboard"
	"github.com/aerodash/aerodash/internal/runtime"
	"github.com/aerodash/aerodash/internal/security"
	"github.com/aerodash/aerodash/internal/telemetry"
	"github.com/aerodash/aerodash/internal/workbooks"
	"github.com/aerodash/aerodash/pkg/version"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	flag.StringVar(&cfg.WorkbookPath, "path", cfg.WorkbookPath, "Path to the registry workbook (.xlsx)")
	flag.StringVar(&cfg.Host, "host", cfg.Host, "Bind host")
	flag.IntVar(&cfg.Port, "port", cfg.Port, "Bind port")
	flag.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "Graceful shutdown timeout")
	flag.Parse()

	logger := zlog.With().Str("service", "aerodash-server").Logger()
	ctx := logger.WithContext(context.Background())

	// The workbook path is fixed for the process lifetime; a bad path must not
	// survive into the serving loop.
	workbookPath, err := security.ValidateWorkbookPath(cfg.WorkbookPath)
	if err != nil {
		logger.Error().Err(err).Str("path", cfg.WorkbookPath).Msg("workbook path validation failed")
		fmt.Fprintf(os.Stderr, "cannot serve workbook %q: %v\n", cfg.WorkbookPath, err)
		os.Exit(1)
	}

	limits := runtime.NewLimits(cfg.MaxConcurrentRequests, cfg.MaxConcurrentLoads)
	if cfg.OperationTimeout > 0 {
		limits.OperationTimeout = cfg.OperationTimeout
	}
	controller := runtime.NewController(limits)
	runtimeMW := runtime.NewMiddleware(controller)

	store := workbooks.NewStore(workbookPath, cfg.SheetCacheTTL, controller, nil)

	// Populate the sheet selector up front; an unreadable workbook is fatal.
	sheetNames, err := store.SheetNames(ctx)
	if err != nil {
		logger.Error().Err(err).Str("path", workbookPath).Msg("listing sheets failed")
		fmt.Fprintf(os.Stderr, "cannot read workbook %q: %v\n", workbookPath, err)
		os.Exit(1)
	}

	logger.Info().
		Str("version", version.String()).
		Str("path", workbookPath).
		Int("sheets", len(sheetNames)).
		Int("max_concurrent_requests", limits.MaxConcurrentRequests).
		Int("max_concurrent_loads", limits.MaxConcurrentLoads).
		Msg("server bootstrap configured")

	hooks := telemetry.NewHooks(logger)

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(hooks.RequestLogger)
	r.Use(runtimeMW.Handler)
	r.Mount("/", dashboard.NewHandler(store, limits, logger).Routes())

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	stopCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		hooks.OnServerStart(srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server error")
			os.Exit(1)
		}
	case <-stopCtx.Done():
		hooks.OnServerStop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown failed")
			os.Exit(1)
		}
	}
}

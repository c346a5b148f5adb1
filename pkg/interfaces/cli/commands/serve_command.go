package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/vsinha/slitter/pkg/infrastructure/config"
	"github.com/vsinha/slitter/pkg/infrastructure/events"
	"github.com/vsinha/slitter/pkg/infrastructure/logging"
	"github.com/vsinha/slitter/pkg/infrastructure/repositories/gormstore"
	"github.com/vsinha/slitter/pkg/interfaces/httpapi"
)

const shutdownTimeout = 10 * time.Second

// ServeConfig holds configuration for the serve command. Empty fields
// fall back to the SLITTER_* environment.
type ServeConfig struct {
	EnvFile   string
	Addr      string
	PlansFile string
	Help      bool
}

// ServeCommand runs the HTTP API until interrupted
type ServeCommand struct {
	config ServeConfig
}

// NewServeCommand creates a new serve command with the given configuration
func NewServeCommand(config ServeConfig) *ServeCommand {
	return &ServeCommand{config: config}
}

// Execute runs the serve command
func (c *ServeCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, logger, err := c.loadConfig()
	if err != nil {
		return err
	}

	handler, cleanup, err := c.build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

func (c *ServeCommand) loadConfig() (config.Config, *logrus.Logger, error) {
	var files []string
	if c.config.EnvFile != "" {
		files = append(files, c.config.EnvFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if c.config.Addr != "" {
		cfg.HTTPAddr = c.config.Addr
	}
	return cfg, logging.New(cfg.LogLevel, cfg.LogFormat, nil), nil
}

// build wires the router. Plans, job cards and dispatch entries go to
// MySQL when a DSN is configured and live in memory otherwise. Every
// dispatch change is mirrored to the log as flattened rows. cleanup stops
// the mirror and releases the database connection.
func (c *ServeCommand) build(ctx context.Context, cfg config.Config, logger *logrus.Logger) (http.Handler, func(), error) {
	cleanup := func() {}

	var repos stores
	if cfg.MySQLDSN != "" {
		db, err := gormstore.Open(cfg.MySQLDSN, logger)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get database handle: %w", err)
		}
		cleanup = func() { _ = sqlDB.Close() }

		planRepo := gormstore.NewPlanRepository(db)
		jobRepo := gormstore.NewJobCardRepository(db)
		dispatchRepo := gormstore.NewDispatchRepository(db)
		for _, migrate := range []func(context.Context) error{planRepo.Migrate, jobRepo.Migrate, dispatchRepo.Migrate} {
			if err := migrate(ctx); err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
			}
		}
		repos = stores{plans: planRepo, jobs: jobRepo, dispatch: dispatchRepo}
		logger.Info("plans, job cards and dispatch entries stored in mysql")
	}

	e := newEngine(cfg.Constants, repos, logger)
	stopMirror := events.MirrorDispatch(e.events, events.NewLogSink(logger))
	closeDB := cleanup
	cleanup = func() {
		stopMirror()
		closeDB()
	}

	if c.config.PlansFile != "" {
		results, err := e.importPlans(ctx, c.config.PlansFile)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		logger.WithField("plans", len(results)).Info("seeded plans")
	}

	if !logger.IsLevelEnabled(logrus.DebugLevel) {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpapi.NewRouter(e.services(), httpapi.RouterConfig{AllowOrigins: cfg.CORSOrigins}, logger)
	return router, cleanup, nil
}

func (c *ServeCommand) showHelp() {
	fmt.Printf(`Slitter serve - run the HTTP API

USAGE:
    slitter serve [OPTIONS]

OPTIONS:
    -env <file>         .env file to load before SLITTER_* variables
    -addr <addr>        Listen address (default: SLITTER_HTTP_ADDR or :8080)
    -plans <file>       Seed the plan store from a CSV or XLSX file
    -help               Show this help message

ENVIRONMENT:
    SLITTER_LOG_LEVEL, SLITTER_LOG_FORMAT, SLITTER_HTTP_ADDR, SLITTER_MYSQL_DSN,
    SLITTER_CORS_ORIGINS, SLITTER_K1, SLITTER_K2, SLITTER_PRINTING_EXTRA_M,
    SLITTER_SEAL_ALLOWANCE_MM, SLITTER_ROUND_ALLOWANCE_MM
`)
}

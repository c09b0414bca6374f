package app

import (
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	"gig-marketplace-api/internal/config"
	"gig-marketplace-api/internal/controller"
	"gig-marketplace-api/internal/identity"
	"gig-marketplace-api/internal/metrics"
	"gig-marketplace-api/internal/repo"
	"gig-marketplace-api/internal/repo/memdb"
	"gig-marketplace-api/internal/service"
	"gig-marketplace-api/migrations"
	"gig-marketplace-api/pkg/http_server"
	"gig-marketplace-api/pkg/postgres"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/time/rate"
)

func newLogger(prefix string, cfg *config.Config) *log.Logger {
	logger := log.New(prefix)
	logger.SetLevel(cfg.LogLevel)

	return logger
}

func migrateTables(db *sql.DB, databaseName string, logger *log.Logger) error {
	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return errors.Wrap(err, "open embedded migrations")
	}

	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{DatabaseName: databaseName})
	if err != nil {
		return errors.Wrap(err, "migration driver")
	}

	m, err := migrate.NewWithInstance("iofs", source, databaseName, driver)
	if err != nil {
		return errors.Wrap(err, "migrator")
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("no change made by migration scripts")

			return nil
		}

		return errors.Wrap(err, "apply migrations")
	}

	return nil
}

// Migrate applies the embedded migrations and returns.
func Migrate(cfg *config.Config) error {
	logger := newLogger("migrate", cfg)

	if cfg.StorageDriver == config.DriverMemory {
		logger.Info("memory storage needs no migrations")

		return nil
	}

	logger.Info("Connecting database...")
	postgresDB, err := postgres.NewDB(cfg.PostgresConn)
	if err != nil {
		return err
	}
	defer postgresDB.Close()

	logger.Info("Running migrations...")

	return migrateTables(postgresDB.Database, cfg.PostgresDatabase, logger)
}

// openRepositories returns the repositories of the configured storage driver and a func
// releasing the resources they hold.
func openRepositories(cfg *config.Config, logger *log.Logger) (*repo.Repositories, func(), error) {
	if cfg.StorageDriver == config.DriverMemory {
		logger.Warn("using in-memory storage, data is lost on exit")

		return repo.NewMemoryRepositories(memdb.NewStore(), cfg.HireLockTimeout), func() {}, nil
	}

	logger.Info("Connecting database...")
	postgresDB, err := postgres.NewDB(cfg.PostgresConn)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("Running migrations...")
	if err := migrateTables(postgresDB.Database, cfg.PostgresDatabase, logger); err != nil {
		postgresDB.Close()

		return nil, nil, err
	}

	release := func() {
		if err := postgresDB.Close(); err != nil {
			logger.Errorf("close database: %v", err)
		}
	}

	return repo.NewRepositories(postgresDB, cfg.HireLockTimeout), release, nil
}

// NewHandler wires services and routes on top of repos.
func NewHandler(cfg *config.Config, repos *repo.Repositories, reg *prometheus.Registry) *echo.Echo {
	services := service.NewServices(repos, newLogger("hire", cfg), metrics.NewHire(reg))

	handler := echo.New()
	handler.HideBanner = true
	handler.Logger.SetLevel(cfg.LogLevel)
	handler.Use(middleware.Logger())
	handler.Use(middleware.Recover())

	controller.SetupRoutesHandlers(handler, services, controller.Options{
		Identity:      identity.NewProvider(cfg.JWTSecret),
		Gatherer:      reg,
		HireRateLimit: rate.Limit(cfg.HireRateLimit),
		HireRateBurst: cfg.HireRateBurst,
	})

	return handler
}

func Run(cfg *config.Config) error {
	logger := newLogger("app", cfg)

	repositories, release, err := openRepositories(cfg, logger)
	if err != nil {
		return err
	}
	defer release()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	logger.Info("Setup routes...")
	handler := NewHandler(cfg, repositories, reg)

	logger.Infof("Starting server on %s...", cfg.ServerAddress)
	httpServer := http_server.New(handler, cfg.ServerAddress)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		logger.Info("Got signal: " + s.String())
	case err = <-httpServer.Notify():
		return errors.Wrap(err, "http server")
	}

	logger.Info("Shutting down...")
	if err := httpServer.Shutdown(); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	logger.Info("Successful shutdown")

	return nil
}

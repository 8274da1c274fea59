/*
Server is the executable of the venue directory API.

It loads the configuration from the environment (and an optional .env file),
opens the database, wires the redis cache and rate limiter, the RabbitMQ
activity events and the HTTP routes, then serves until SIGINT or SIGTERM.

Exit codes:

	0	stopped by signal
	1	startup or server error
*/
package main // Entry point package

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"    // optional .env loading
	"github.com/labstack/echo/v4" // Echo web framework
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/venue-directory/internal/config"     // Internal config loader
	"github.com/iliyamo/venue-directory/internal/database"   // MySQL / SQLite connections and schema
	"github.com/iliyamo/venue-directory/internal/handler"    // HTTP handlers
	"github.com/iliyamo/venue-directory/internal/logging"    // logrus setup
	"github.com/iliyamo/venue-directory/internal/metrics"    // prometheus instrumentation
	"github.com/iliyamo/venue-directory/internal/middleware" // cache, limiter, request logging
	"github.com/iliyamo/venue-directory/internal/queue"      // activity log consumer
	"github.com/iliyamo/venue-directory/internal/repository" // SQL repositories
	"github.com/iliyamo/venue-directory/internal/router"     // Internal router setup
	"github.com/iliyamo/venue-directory/internal/service"    // event publisher
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "error: ", err)
		os.Exit(1)
	}
}

// run wires every component and blocks until a signal or a fatal server
// error arrives.
func run() error {
	_ = godotenv.Load() // a missing .env is fine; the environment wins anyway

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	logger.WithFields(logrus.Fields{"env": cfg.Env, "driver": cfg.DBDriver}).Info("application initializing")

	db, err := openDB(cfg)
	if err != nil {
		logger.WithError(err).Error("error opening database")
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if cfg.DBAutoMigrate {
		if err := database.Migrate(context.Background(), db, cfg.DBDriver); err != nil {
			logger.WithError(err).Error("error migrating schema")
			return fmt.Errorf("migrating schema: %w", err)
		}
	}

	// redis is optional: without it reads are served uncached and the
	// limiter lets everything through
	rdb := config.NewRedisClient(config.LoadRedisConfig(), logger)
	if rdb != nil {
		defer rdb.Close()
	}
	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb, logger)
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, logger)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var events handler.EventPublisher = service.NopPublisher{}
	consumerDone := make(chan struct{})
	if cfg.EventsEnabled {
		events = service.NewAMQPPublisher(cfg.AMQPURL, cfg.EventsQueue, logger)
		consumer := queue.NewConsumer(cfg.AMQPURL, cfg.EventsQueue, cfg.ActivityLogDir, logger)
		go func() {
			defer close(consumerDone)
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.WithError(err).Error("activity consumer stopped")
			}
		}()
	} else {
		close(consumerDone)
	}

	var pending sync.WaitGroup
	deps := handler.Deps{Log: logger, Events: events, Cache: cache, Pending: &pending}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.RequestLogger(logger), metrics.Middleware(), middleware.CORS())

	router.RegisterRoutes(e, db)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg))
	router.RegisterDirectory(e, router.Directory{
		Venues:  handler.NewVenueHandler(repository.NewVenueRepo(db), deps),
		Artists: handler.NewArtistHandler(repository.NewArtistRepo(db), deps),
		Shows:   handler.NewShowHandler(repository.NewShowRepo(db), deps),
	}, router.Guards{
		Cache:     cache.Middleware(),
		LiveCache: cache.LiveMiddleware(),
		Limiter:   limiter,
		JWTSecret: cfg.JWTSecret,
	})
	if !cfg.EditorAuthEnabled() {
		logger.Warn("JWT_SECRET is empty: editing routes are open")
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	addr := ":" + cfg.Port
	go func() {
		logger.Infof("API listening on %s", addr)
		serverErrors <- e.Start(addr)
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-shutdown:
		logger.Infof("signal %v received, start shutdown", sig)

		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := e.Shutdown(sctx); err != nil {
			logger.WithError(err).Warning("error during graceful shutdown of HTTP server")
			_ = e.Close()
			drain(logger, &pending, stop, consumerDone)
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	drain(logger, &pending, stop, consumerDone)
	logger.Info("stopped")
	return nil
}

// drain waits for in-flight event publishes, then stops the activity
// consumer.  Publishes are bounded by their own timeout; the wait is capped
// at shutdownTimeout all the same.
func drain(logger logrus.FieldLogger, pending *sync.WaitGroup, stop context.CancelFunc, consumerDone <-chan struct{}) {
	published := make(chan struct{})
	go func() {
		pending.Wait()
		close(published)
	}()
	select {
	case <-published:
	case <-time.After(shutdownTimeout):
		logger.Warn("gave up waiting for pending event publishes")
	}
	stop()
	<-consumerDone
}

// openDB connects to the configured driver.
func openDB(cfg config.Config) (*sql.DB, error) {
	switch cfg.DBDriver {
	case database.DriverSQLite:
		return database.OpenSQLite(cfg.DBPath)
	default:
		return database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	}
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"

	"github.com/iliyamo/table-reservation/internal/config"
	"github.com/iliyamo/table-reservation/internal/database"
	"github.com/iliyamo/table-reservation/internal/handler"
	"github.com/iliyamo/table-reservation/internal/middleware"
	"github.com/iliyamo/table-reservation/internal/queue"
	"github.com/iliyamo/table-reservation/internal/repository"
	"github.com/iliyamo/table-reservation/internal/router"
	"github.com/iliyamo/table-reservation/internal/service"
)

func newServerCmd() *cobra.Command {
	var (
		migrateUp bool
		consume   bool
	)
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(migrateUp, consume)
		},
	}
	cmd.Flags().BoolVar(&migrateUp, "migrate", false, "apply the schema before serving")
	cmd.Flags().BoolVar(&consume, "consume-events", true, "run the reservation event consumer in-process")
	return cmd
}

func runServer(migrateUp, consume bool) error {
	cfg := config.Load()
	logger := log.New("server")
	if cfg.Env == "dev" {
		logger.SetLevel(log.DEBUG)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return err
	}
	defer db.Close()
	if migrateUp {
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn("redis unavailable: rate limiting and availability cache disabled")
	} else {
		defer rdb.Close()
	}
	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb)

	qcfg := config.LoadQueueConfig()
	publisher := service.NewAMQPPublisher(qcfg)
	defer publisher.Close()
	if consume && qcfg.Enabled {
		go func() {
			if err := queue.StartEventConsumer(ctx, qcfg); err != nil && !errors.Is(err, context.Canceled) {
				logger.Errorj(log.JSON{"msg": "event consumer stopped", "error": err.Error()})
			}
		}()
	}

	reservations := repository.NewReservationRepo(db)
	catalog := repository.NewCatalogRepo(db)
	svc := service.NewReservationService(service.Deps{
		Work:    service.SQLUnitOfWork{Repo: reservations},
		Catalog: catalog,
		Reader:  reservations,
		Events:  publisher,
		Cache:   cache,
	})

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			entry := log.JSON{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency.String(),
				"ip":      v.RemoteIP,
			}
			if v.Error != nil {
				entry["error"] = v.Error.Error()
			}
			logger.Infoj(entry)
			return nil
		},
	}))

	router.RegisterRoutes(e, router.Deps{
		JWTSecret:    cfg.JWTSecret,
		Auth:         handler.NewAuthHandler(cfg, repository.NewUserRepo(db), repository.NewSessionRepo(db)),
		Reservations: handler.NewReservationHandler(svc),
		Calendar:     handler.NewCalendarHandler(catalog),
		RateLimit:    middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		Cache:        cache.Middleware(),
	})

	errc := make(chan error, 1)
	go func() {
		logger.Infoj(log.JSON{"msg": "listening", "addr": ":" + cfg.Port, "env": cfg.Env})
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

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
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/aloft-stays/internal/config"
	"github.com/iliyamo/aloft-stays/internal/database"
	"github.com/iliyamo/aloft-stays/internal/handler"
	"github.com/iliyamo/aloft-stays/internal/jobs"
	"github.com/iliyamo/aloft-stays/internal/logging"
	"github.com/iliyamo/aloft-stays/internal/middleware"
	"github.com/iliyamo/aloft-stays/internal/notify"
	"github.com/iliyamo/aloft-stays/internal/payment"
	"github.com/iliyamo/aloft-stays/internal/queue"
	"github.com/iliyamo/aloft-stays/internal/repository"
	"github.com/iliyamo/aloft-stays/internal/router"
	"github.com/iliyamo/aloft-stays/internal/storage"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.Env, cfg.LogLevel)

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	defer db.Close()

	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(migrateCtx, db); err != nil {
		cancel()
		log.WithError(err).Fatal("schema migration failed")
	}
	cancel()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable: response cache and rate limiting disabled")
	} else {
		defer rdb.Close()
	}

	// repositories
	properties := repository.NewPropertyRepo(db)
	bookings := repository.NewBookingRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	// external services
	payCfg := config.LoadPaymentConfig()
	mailCfg := config.LoadMailConfig()
	storeCfg := config.LoadStorageConfig()
	queueCfg := config.LoadQueueConfig()

	notifier := notify.NewNotifier(notify.NewSender(mailCfg), payCfg.Currency)
	publisher := queue.NewPublisher(queueCfg)

	var images handler.ImageUploader
	if store, err := storage.NewImageStore(storeCfg); err != nil {
		log.WithError(err).Warn("image storage disabled")
	} else {
		images = store
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer := queue.NewConsumer(queueCfg, cfg.BookingLogPath, notifier, log)
	go func() {
		if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.WithError(err).Error("booking consumer stopped")
		}
	}()

	scheduler, err := jobs.Schedule(tokens, log)
	if err != nil {
		log.WithError(err).Fatal("schedule jobs failed")
	}
	scheduler.Start()

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			entry := log.WithFields(logrus.Fields{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency.String(),
				"ip":      v.RemoteIP,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Error("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb, log)
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log)

	router.RegisterRoutes(e, &handler.HealthHandler{DB: db, Redis: rdb})
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens, log), cfg.JWTSecret)
	router.RegisterPublic(e, &handler.PublicHandler{Properties: properties, Bookings: bookings, Log: log}, cache)
	router.RegisterNotifications(e, &handler.NotificationHandler{Notifier: notifier, Log: log})
	router.RegisterGuest(e,
		&handler.CheckoutHandler{
			Properties: properties,
			Bookings:   bookings,
			Users:      users,
			Payments:   payment.NewClient(payCfg, log),
			Events:     publisher,
			Payment:    payCfg,
			Log:        log,
		},
		&handler.GuestHandler{Bookings: bookings, Log: log},
		cfg.JWTSecret, limiter)
	router.RegisterHost(e,
		&handler.ListingHandler{Properties: properties, Images: images, Storage: storeCfg, Log: log},
		&handler.HostHandler{Properties: properties, Bookings: bookings, Log: log},
		cfg.JWTSecret, limiter)

	addr := ":" + cfg.Port
	go func() {
		log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}
	<-scheduler.Stop().Done()
	log.Info("server stopped")
}

package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"ecommerce-catalog/internal/config"
	"ecommerce-catalog/internal/handlers"
	"ecommerce-catalog/internal/logging"
	loggingmw "ecommerce-catalog/internal/middleware/logging"
	"ecommerce-catalog/internal/models"
	"ecommerce-catalog/internal/mykafka"
	httpserver "ecommerce-catalog/internal/transport/http"
	pkgdb "ecommerce-catalog/pkg/db"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DSN())
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	var producer *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = mykafka.NewProducer(cfg.KafkaBrokers)
		defer producer.Close()
	} else {
		logger.Warn("KAFKA_BROKERS not set, domain events disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		Auth:       &handlers.AuthHandler{DB: db, JWTSecret: cfg.JWTSecret, TokenTTL: cfg.TokenTTL},
		Categories: &handlers.CategoryHandler{DB: db, Producer: producer},
		Products:   &handlers.ProductHandler{DB: db, Producer: producer},
		Reviews:    &handlers.ReviewHandler{DB: db, Producer: producer},
		JWTSecret:  cfg.JWTSecret,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("catalog listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Info("catalog stopped")
}

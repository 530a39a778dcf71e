package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/db"
	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/dedup"
	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/fulfillment"
	httpapi "github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/http"
	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/logger"
	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/routing"
	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/sequence"
	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/supplier"
	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/supplier/cjdropshipping"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.DefaultConfig()).Fatal("load config", zap.Error(err))
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output}).
		With(zap.String("service", cfg.App.Name), zap.String("env", cfg.App.Env))
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Catalog
	cat, err := catalog.LoadFile(cfg.Catalog.Path)
	if err != nil {
		log.Fatal("load catalog", zap.Error(err))
	}
	log.Info("catalog loaded", zap.Int("version", cat.Version()), zap.Int("products", len(cat.Products())))

	strategy, err := routing.ParseStrategy(cfg.Fulfillment.Strategy)
	if err != nil {
		log.Fatal("parse fulfillment strategy", zap.Error(err))
	}

	// DB
	if cfg.Database.RunMigrations {
		if err := db.RunMigrations(cfg.Database.DSN, log.Named("migrate")); err != nil {
			log.Fatal("run migrations", zap.Error(err))
		}
	}
	database, err := db.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatal("open database", zap.Error(err))
	}
	defer database.Close()
	orderRepo := order.NewRepository(database)

	// Suppliers
	var adapters []supplier.Adapter
	if cfg.CJDropshipping.Enabled() {
		cj, err := cjdropshipping.NewAdapter(cjdropshipping.Config{
			BaseURL:        cfg.CJDropshipping.BaseURL,
			AccessToken:    cfg.CJDropshipping.AccessToken,
			ShippingMethod: cfg.CJDropshipping.ShippingMethod,
			Timeout:        cfg.CJDropshipping.Timeout,
			RateLimit:      cfg.CJDropshipping.RateLimit,
			RateBurst:      cfg.CJDropshipping.RateBurst,
		})
		if err != nil {
			log.Fatal("configure cjdropshipping", zap.Error(err))
		}
		adapters = append(adapters, cj)
	} else {
		log.Warn("cjdropshipping access token not set; every supplier needs manual orders")
	}
	registry := supplier.NewRegistry(adapters...)

	router := routing.NewRouter(cat)
	gateway := fulfillment.NewGateway(router, registry,
		fulfillment.Options{MaxConcurrent: cfg.Fulfillment.MaxConcurrentSubmissions},
		log.Named("gateway"))

	// RabbitMQ
	rabbitConn, err := events.DialRabbit(cfg.RabbitMQ.URL)
	if err != nil {
		log.Fatal("dial rabbitmq", zap.Error(err))
	}
	defer rabbitConn.Close()

	publisher, err := events.NewPublisher(rabbitConn, sequence.NewRepository(database), events.PublisherOptions{
		PublishEnveloped: cfg.RabbitMQ.PublishEnveloped,
		Producer:         "fulfillment-service-go",
	})
	if err != nil {
		log.Fatal("create publisher", zap.Error(err))
	}
	defer publisher.Close()

	assembler := order.NewAssembler(router, gateway, orderRepo, publisher, order.AssemblerOptions{
		RejectUnroutable: cfg.Fulfillment.RejectUnroutable,
		DefaultStrategy:  strategy,
	}, log.Named("assembler"))

	consumer := events.NewConsumer(rabbitConn, log.Named("consumer"))
	checkoutHandler := events.CheckoutCompletedHandler(assembler, dedup.NewRepository(database), log.Named("checkout"), events.CheckoutHandlerOptions{
		ConsumeEnveloped:  cfg.RabbitMQ.ConsumeEnveloped,
		DefaultAutoSubmit: cfg.Fulfillment.AutoSubmit,
	})
	if err := consumer.Start(ctx, events.CheckoutCompletedRoutingKey, checkoutHandler); err != nil {
		log.Fatal("start consumer", zap.Error(err))
	}

	// HTTP
	handler := httpapi.NewHandler(cat, gateway, assembler, orderRepo, registry, httpapi.Options{
		DefaultStrategy:   strategy,
		DefaultAutoSubmit: cfg.Fulfillment.AutoSubmit,
	}, log.Named("http"))

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      httpapi.NewRouter(handler, log.Named("http")),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		log.Info("fulfillment-service listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
	cancel()
}

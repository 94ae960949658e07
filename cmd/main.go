package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/foodease/foodease/internal/adapter/logger"
	"github.com/foodease/foodease/internal/adapter/postgres"
	"github.com/foodease/foodease/internal/adapter/rabbitmq"
	"github.com/foodease/foodease/internal/app/address"
	"github.com/foodease/foodease/internal/app/auth"
	"github.com/foodease/foodease/internal/app/cart"
	"github.com/foodease/foodease/internal/app/catalog"
	"github.com/foodease/foodease/internal/app/delivery"
	"github.com/foodease/foodease/internal/app/order"
	"github.com/foodease/foodease/internal/config"

	amqpAdapter "github.com/foodease/foodease/internal/adapter/amqp"
	httpAdapter "github.com/foodease/foodease/internal/adapter/http"
)

func main() {
	mode := flag.String("mode", "api", "Service mode: api, notification-subscriber")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	configPath := flag.String("config", "config.yaml", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.HTTP.Port = *port
	}

	ctx := context.Background()

	lgr := logger.New(*mode)

	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer mqConn.Close()

	lgr.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", map[string]interface{}{
		"host": cfg.RabbitMQ.Host,
	})

	switch *mode {
	case "api":
		db, err := postgres.Connect(ctx, cfg.Database)
		if err != nil {
			log.Fatalf("Failed to connect to PostgreSQL: %v", err)
		}
		defer db.Close()

		lgr.Info("db_connected", "Connected to PostgreSQL database", "startup", map[string]interface{}{
			"host": cfg.Database.Host,
			"db":   cfg.Database.Database,
		})

		runAPI(db, mqConn, lgr, cfg)

	case "notification-subscriber":
		runNotificationSubscriber(ctx, mqConn, lgr)

	default:
		log.Fatalf("Invalid mode: %s", *mode)
	}
}

func runAPI(db postgres.DB, mqConn rabbitmq.Connection, lgr logger.Logger, cfg *config.Config) {
	userRepo := postgres.NewUserRepository(db)
	customerRepo := postgres.NewCustomerRepository(db)
	driverRepo := postgres.NewDriverRepository(db)
	addressRepo := postgres.NewAddressRepository(db)
	cartRepo := postgres.NewCartRepository(db)
	restaurantRepo := postgres.NewRestaurantRepository(db)
	favoriteRepo := postgres.NewFavoriteRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	deliveryRepo := postgres.NewDeliveryRepository(db)
	reportRepo := postgres.NewReportRepository(db)

	publisher := rabbitmq.NewPublisher(mqConn)

	services := httpAdapter.Services{
		Auth:     auth.NewService(userRepo, cfg.Auth, lgr),
		Address:  address.NewService(addressRepo, customerRepo, lgr),
		Cart:     cart.NewService(cartRepo, customerRepo, restaurantRepo, lgr),
		Order:    order.NewService(orderRepo, cartRepo, customerRepo, addressRepo, restaurantRepo, driverRepo, deliveryRepo, publisher, lgr),
		Delivery: delivery.NewService(deliveryRepo, driverRepo, orderRepo, publisher, lgr),
		Catalog:  catalog.NewService(restaurantRepo, favoriteRepo, reviewRepo, orderRepo, customerRepo, reportRepo, lgr),
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      httpAdapter.NewRouter(services, lgr),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	lgr.Info("service_started", fmt.Sprintf("API started on port %d", cfg.HTTP.Port), "startup", map[string]interface{}{
		"port": cfg.HTTP.Port,
	})

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		lgr.Info("shutdown_initiated", "Shutting down API", "shutdown", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			lgr.Error("shutdown_error", "Error during shutdown", "shutdown", nil, err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		lgr.Error("server_error", "Server error", "runtime", nil, err)
	}
}

func runNotificationSubscriber(ctx context.Context, mqConn rabbitmq.Connection, lgr logger.Logger) {
	consumer := rabbitmq.NewConsumer(mqConn)
	notificationHandler := amqpAdapter.NewNotificationHandler(lgr)

	lgr.Info("service_started", "Notification Subscriber started", "startup", nil)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		if err := consumer.ConsumeOrderEvents(ctx, notificationHandler.HandleOrderEvent); err != nil && err != context.Canceled {
			lgr.Error("consumer_error", "Error consuming order events", "runtime", nil, err)
		}
	}()

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
	<-sigint

	lgr.Info("shutdown_initiated", "Shutting down Notification Subscriber", "shutdown", nil)
}

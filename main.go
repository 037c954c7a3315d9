package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/streadway/amqp"
	"gorm.io/gorm"

	"catalog/internal/config"
	"catalog/internal/database"
	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/server"
	"catalog/internal/services"
	"catalog/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Logger)

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("service stopped with error")
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	ctx := context.Background()

	// --- Repository ---
	productRepo, closeRepo, err := newProductRepository(cfg.Database, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	if cfg.Database.Seed {
		if err := seedProducts(ctx, productRepo, logger); err != nil {
			return err
		}
	}

	// --- Product events ---
	var publisher services.EventPublisher
	if cfg.RabbitMQ.Enabled {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:      cfg.RabbitMQ.URL,
			Exchange: cfg.RabbitMQ.Exchange,
			Queue:    cfg.RabbitMQ.Queue,
		}, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		defer mqClient.Close()
		publisher = mqClient

		if err := mqClient.ConsumeProductEvents(logProductEvent(logger)); err != nil {
			logger.Error().Err(err).Msg("failed to start RabbitMQ consumer")
		}
	}

	productService := services.NewProductService(productRepo, publisher, cfg.RabbitMQ.Exchange, logger)
	app := server.NewApp(productService, logger)

	// --- Start HTTP Server ---
	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.App.Port).Msg("starting server")
		serverErr <- app.Listen(cfg.App.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("shutting down server")
	}

	if err := app.Shutdown(); err != nil {
		logger.Error().Err(err).Msg("error during Fiber shutdown")
	}
	logger.Info().Msg("server gracefully stopped")
	return nil
}

// newProductRepository picks the storage backend named by the configured
// driver. The returned func releases it.
func newProductRepository(cfg config.DatabaseConfig, logger zerolog.Logger) (repositories.ProductRepository, func(), error) {
	if cfg.Driver == config.DriverMemory {
		logger.Warn().Msg("using in-memory product repository; data is lost on exit")
		return repositories.NewMemoryProductRepository(), func() {}, nil
	}

	db, err := database.Open(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func(db *gorm.DB) func() {
		return func() {
			if err := database.Close(db); err != nil {
				logger.Error().Err(err).Msg("failed to close database")
			}
		}
	}(db)
	return repositories.NewGORMProductRepository(db), closeDB, nil
}

// logProductEvent returns a consumer that records each product event it
// receives. Undecodable messages are rejected.
func logProductEvent(logger zerolog.Logger) func(amqp.Delivery) error {
	return func(msg amqp.Delivery) error {
		var event services.ProductEvent
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			return fmt.Errorf("could not decode product event: %w", err)
		}
		logger.Info().
			Str("event", event.Type).
			Uint("product_id", event.ProductID).
			Str("routing_key", msg.RoutingKey).
			Msg("received product event")
		return nil
	}
}

// seedProducts populates an empty repository with a few sample products.
func seedProducts(ctx context.Context, repo repositories.ProductRepository, logger zerolog.Logger) error {
	existing, err := repo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("could not check existing products: %w", err)
	}
	if len(existing) > 0 {
		logger.Info().Int("count", len(existing)).Msg("products already present, skipping seed")
		return nil
	}

	products := []models.Product{
		{Name: "Hat", Description: "A red fedora", Price: decimal.RequireFromString("59.95"), Available: true, Category: models.CategoryCloths},
		{Name: "Shoes", Description: "Blue suede shoes", Price: decimal.RequireFromString("120.50"), Available: false, Category: models.CategoryCloths},
		{Name: "Big Mac", Description: "1/4 lb burger", Price: decimal.RequireFromString("5.30"), Available: true, Category: models.CategoryFood},
		{Name: "Sheets", Description: "Full bed sheets", Price: decimal.RequireFromString("87.00"), Available: true, Category: models.CategoryHousewares},
		{Name: "Wrench", Description: "Adjustable wrench", Price: decimal.RequireFromString("14.25"), Available: true, Category: models.CategoryTools},
	}

	for i := range products {
		if err := repo.Create(ctx, &products[i]); err != nil {
			return fmt.Errorf("error seeding product %s: %w", products[i].Name, err)
		}
		logger.Info().Uint("product_id", products[i].ID).Str("name", products[i].Name).Msg("seeded product")
	}
	return nil
}

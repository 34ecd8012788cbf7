package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/danilshap/go-order-fulfilment/internal/product/repository"
	"github.com/danilshap/go-order-fulfilment/internal/product/service"
	transportHTTP "github.com/danilshap/go-order-fulfilment/internal/product/transport/http"
	transportSQS "github.com/danilshap/go-order-fulfilment/internal/product/transport/sqs"
	"github.com/danilshap/go-order-fulfilment/pkg/config"
	generalDomain "github.com/danilshap/go-order-fulfilment/pkg/domain"
	"github.com/danilshap/go-order-fulfilment/pkg/mylogger"
	"github.com/danilshap/go-order-fulfilment/pkg/sqs"
	"github.com/danilshap/go-order-fulfilment/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoadProduct()

	tp, err := utils.InitTracer(ctx, "product-service")
	if err != nil {
		log.Fatalf("failed to init tracer: %v", err)
	}

	logger, err := config.NewLogger(config.LoggerConfig{
		Level: cfg.Logger.Level,
		Env:   cfg.Env,
	})
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	sqsClient, err := sqs.NewClient(ctx, cfg.Sqs.Region, cfg.Sqs.Endpoint)
	if err != nil {
		log.Fatalf("failed to create sqs client: %v", err)
	}

	publisher := sqs.NewPublisher(sqsClient, map[string]string{
		generalDomain.EventTypeStockReserved: cfg.Sqs.StockReservedQueueURL,
	}, logger)

	productRepo := repository.NewInMemoryProductRepository()
	eventDispatcher := service.NewDispatcher(productRepo, logger)
	productService := service.NewProductService(productRepo, eventDispatcher, publisher, logger)
	productHandler := transportHTTP.NewProductHandler(productService, logger)

	app := fiber.New()
	transportHTTP.RegisterRoutes(app, productHandler)

	go func() {
		mylogger.Info(ctx, logger, "Product service listening", zap.String("port", cfg.HTTP.Port))
		if err := app.Listen(cfg.HTTP.Port); err != nil {
			log.Fatalf("error serving http: %v", err)
		}
	}()

	consumer := transportSQS.NewConsumer(productService, logger)
	go consumer.Start(ctx, sqsClient, sqs.ConsumerConfig{
		QueueURL:    cfg.Sqs.OrderPlacedQueueURL,
		WaitTime:    cfg.Sqs.WaitTime,
		MaxMessages: cfg.Sqs.MaxMessages,
		RetryDelay:  cfg.Sqs.RetryDelay,
	})

	<-ctx.Done()

	shutdownCtx, exit := context.WithTimeout(context.Background(), 5*time.Second)
	defer exit()

	mylogger.Info(shutdownCtx, logger, "Shutting down product service")

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		mylogger.Warn(shutdownCtx, logger, "Failed to shut down http server", zap.Error(err))
	}

	if err := tp.Shutdown(shutdownCtx); err != nil {
		mylogger.Warn(shutdownCtx, logger, "Failed to shut down telemetry", zap.Error(err))
	}
}

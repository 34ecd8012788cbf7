package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/danilshap/go-order-fulfilment/internal/order/catalogue"
	"github.com/danilshap/go-order-fulfilment/internal/order/repository"
	"github.com/danilshap/go-order-fulfilment/internal/order/service"
	transportHTTP "github.com/danilshap/go-order-fulfilment/internal/order/transport/http"
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

	cfg := config.MustLoadOrder()

	tp, err := utils.InitTracer(ctx, "order-service")
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
		generalDomain.EventTypeOrderPlaced: cfg.Sqs.OrderPlacedQueueURL,
	}, logger)

	orderRepo := repository.NewInMemoryOrderRepository()
	catalogueClient := catalogue.NewHTTPClient(cfg.Catalogue, logger)
	eventDispatcher := service.NewDispatcher(logger)
	orderService := service.NewOrderService(catalogueClient, orderRepo, eventDispatcher, publisher, logger)
	orderHandler := transportHTTP.NewOrderHandler(orderService, logger)

	app := fiber.New()
	transportHTTP.RegisterRoutes(app, orderHandler)

	go func() {
		mylogger.Info(ctx, logger, "Order service listening", zap.String("port", cfg.HTTP.Port))
		if err := app.Listen(cfg.HTTP.Port); err != nil {
			log.Fatalf("error serving http: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, exit := context.WithTimeout(context.Background(), 5*time.Second)
	defer exit()

	mylogger.Info(shutdownCtx, logger, "Shutting down order service")

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		mylogger.Warn(shutdownCtx, logger, "Failed to shut down http server", zap.Error(err))
	}

	if err := tp.Shutdown(shutdownCtx); err != nil {
		mylogger.Warn(shutdownCtx, logger, "Failed to shut down telemetry", zap.Error(err))
	}
}

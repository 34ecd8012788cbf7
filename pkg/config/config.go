package config

import (
	"log"
	"os"
	"time"

	"github.com/danilshap/go-order-fulfilment/pkg/utils"
	"github.com/ilyakaznacheev/cleanenv"
)

// OrderConfig configures the ordering service: its HTTP surface, the
// product catalogue it validates orders against, and the queue it
// publishes OrderPlaced events to.
type OrderConfig struct {
	Env       string    `yaml:"env" env:"ENV" env-default:"local"`
	HTTP      HTTP      `yaml:"http"`
	Catalogue Catalogue `yaml:"catalogue"`
	Sqs       Sqs       `yaml:"sqs"`
	Logger    Logger    `yaml:"logger"`
}

// ProductConfig configures the product service: its HTTP surface, the
// inbound queue its consumer polls and the outbound queue it publishes
// StockReserved events to.
type ProductConfig struct {
	Env    string `yaml:"env" env:"ENV" env-default:"local"`
	HTTP   HTTP   `yaml:"http"`
	Sqs    Sqs    `yaml:"sqs"`
	Logger Logger `yaml:"logger"`
}

type HTTP struct {
	Port    string        `yaml:"port" env:"HTTP_PORT" env-default:":3000"`
	Timeout time.Duration `yaml:"timeout" env-default:"4s"`
}

type Catalogue struct {
	BaseURL string        `yaml:"base_url" env:"CATALOGUE_URL" env-default:"http://localhost:3001"`
	Timeout time.Duration `yaml:"timeout" env:"CATALOGUE_TIMEOUT" env-default:"5s"`
}

// Sqs holds queue wiring. Each outbound queue URL is bound to exactly one
// event type; an empty URL means the service neither sends nor receives
// that event.
type Sqs struct {
	Region                string        `yaml:"region" env:"AWS_REGION" env-default:"eu-west-1"`
	Endpoint              string        `yaml:"endpoint" env:"SQS_ENDPOINT"`
	OrderPlacedQueueURL   string        `yaml:"order_placed_queue_url" env:"ORDER_PLACED_QUEUE_URL"`
	StockReservedQueueURL string        `yaml:"stock_reserved_queue_url" env:"STOCK_RESERVED_QUEUE_URL"`
	WaitTime              time.Duration `yaml:"wait_time" env-default:"20s"`
	MaxMessages           int32         `yaml:"max_messages" env-default:"10"`
	RetryDelay            time.Duration `yaml:"retry_delay" env-default:"5s"`
}

type Logger struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

func MustLoadOrder() *OrderConfig {
	var cfg OrderConfig
	mustLoad(&cfg)
	return &cfg
}

func MustLoadProduct() *ProductConfig {
	var cfg ProductConfig
	mustLoad(&cfg)
	return &cfg
}

func mustLoad(cfg any) {
	configPath := utils.ParseWithFallback("CONFIG_PATH", "")

	if configPath == "" {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			log.Fatalf("error reading config from env: %v", err)
		}
		return
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exists: %v\n", err)
	}

	if err := cleanenv.ReadConfig(configPath, cfg); err != nil {
		log.Fatalf("error reading config: %v", err)
	}
}

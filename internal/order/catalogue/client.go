// Package catalogue adapts the product service's REST API to the lookup
// the ordering domain needs: resolve a product id to a name, a current
// price and an in-stock flag.
package catalogue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danilshap/go-order-fulfilment/pkg/config"
	"github.com/danilshap/go-order-fulfilment/pkg/utils"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

var ErrProductNotFound = errors.New("product not found")

type ProductInfo struct {
	ID      uuid.UUID
	Name    string
	Price   float64
	InStock bool
}

// Service is the outbound port the ordering use case depends on; the HTTP
// client below is its production implementation.
type Service interface {
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductInfo, error)
}

type HTTPClient struct {
	baseURL string
	client  *http.Client
	cb      *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

func NewHTTPClient(cfg config.Catalogue, logger *zap.Logger) *HTTPClient {
	settings := gobreaker.Settings{
		Name:        "ProductCatalogue",
		MaxRequests: 3,
		Interval:    5 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		IsSuccessful: func(err error) bool {
			// A missing product is an answer, not a catalogue outage.
			return err == nil || errors.Is(err, ErrProductNotFound)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn(
				"Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &HTTPClient{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
		cb:      gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
	}
}

func (c *HTTPClient) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductInfo, error) {
	return utils.ExecuteWithBreaker(c.cb, func() (*ProductInfo, error) {
		return c.getProduct(ctx, productID)
	})
}

// productResponse mirrors the product service's DTO; it never leaks out of
// this adapter.
type productResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	InStock       bool      `json:"inStock"`
	StockQuantity int       `json:"stockQuantity"`
}

func (c *HTTPClient) getProduct(ctx context.Context, productID uuid.UUID) (*ProductInfo, error) {
	url := fmt.Sprintf("%s/api/v1/products/%s", c.baseURL, productID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error building catalogue request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error calling product catalogue: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("product %s: %w", productID, ErrProductNotFound)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected catalogue response status %d", resp.StatusCode)
	}

	var dto productResponse
	if err := json.NewDecoder(resp.Body).Decode(&dto); err != nil {
		return nil, fmt.Errorf("error decoding catalogue response: %w", err)
	}

	return &ProductInfo{
		ID:      dto.ID,
		Name:    dto.Name,
		Price:   dto.Price,
		InStock: dto.InStock,
	}, nil
}
